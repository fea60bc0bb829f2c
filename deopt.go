package lambdust

// Safepoint marks a point in T2 code where a deoptimization can hand
// control back to a lower tier (spec §4.3: "Emit a deopt table mapping
// each safepoint to a resumable AST node"). Since this runtime's T2 is a
// guarded Go wrapper rather than a real instruction stream (spec §1's
// non-goal: no concrete native ISA), every NativeCodeObject has exactly
// one meaningful safepoint — its guard check, the only point reached
// before any side effect — so Deopt is always populated and BytecodeOffset
// stays at its zero value.
type Safepoint struct {
	BytecodeOffset int
	Deopt          *DeoptEntry
}

// DeoptEntry is the resumable state a Safepoint maps to: the source node
// to resume evaluating and the local slots live at that point, grounded
// on the teacher's OracleState backtracking snapshot (oracle.go),
// generalized from parser backtracking to tier fallback.
type DeoptEntry struct {
	Node       Node
	LiveLocals []int32
}

// StackMapEntry records which local slots hold live references at a given
// bytecode offset — the GC-root information a native frame needs so a
// collector running during native execution can still trace reachable
// values (spec §4.3's "GC-root stack map").
type StackMapEntry struct {
	Offset    int
	LiveSlots []int32
}
