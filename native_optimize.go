package lambdust

// optimizeBytecode runs the dead-code-elimination pass spec §4.3 lists
// among T2's optimization passes ("constant folding, dead-code
// elimination, inlining of monomorphic call sites"): an OpLoadConst
// immediately discarded by OpPop computed nothing observable, so the pair
// is neutralized. Instructions are rewritten to OpSafepoint in place
// rather than deleted, which keeps every OpJump/OpBranchIfFalse's
// self-relative offset (bytecode_compiler.go's patchJump convention)
// valid without a re-patching pass, and doubles as extra safepoint polls
// along that code path — a harmless side effect, not the point of the
// pass.
//
// Inlining and real constant folding need either cross-procedure call-site
// analysis or arithmetic primitives visible at the bytecode level (today
// they compile to OpPrimCall delegating to the evaluator), neither of
// which this tier's instruction set exposes, so only this one pass is
// wired in.
func optimizeBytecode(prog *BytecodeProgram) *BytecodeProgram {
	out := make([]Instruction, len(prog.Instructions))
	copy(out, prog.Instructions)
	safepoints := append([]int(nil), prog.Safepoints...)
	for i := 0; i+1 < len(out); i++ {
		if out[i].Op == OpLoadConst && out[i+1].Op == OpPop {
			out[i] = Instruction{Op: OpSafepoint, Loc: out[i].Loc}
			out[i+1] = Instruction{Op: OpSafepoint, Loc: out[i+1].Loc}
			safepoints = append(safepoints, i, i+1)
		}
	}
	return &BytecodeProgram{
		Instructions: out,
		Constants:    prog.Constants,
		Safepoints:   safepoints,
		DebugMap:     prog.DebugMap,
		NumLocals:    prog.NumLocals,
	}
}
