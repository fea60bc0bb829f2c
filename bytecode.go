package lambdust

// Opcode is the T1 instruction set (spec §6: "the opcode set covers:
// load-const, load-local, store-local, load-global, store-global,
// make-closure, call, tail-call, return, branch-if-false, jump,
// make-pair, vector ops, primitive dispatch"). No exact byte layout is
// mandated by the spec; this implementation keeps instructions as a
// Go struct slice rather than a packed byte stream, trading wire
// compactness for a disassembler/tests that need no separate decoder.
type Opcode uint8

const (
	OpLoadConst Opcode = iota
	OpLoadLocal
	OpStoreLocal
	OpLoadGlobal
	OpStoreGlobal
	OpMakeClosure
	OpCall
	OpTailCall
	OpReturn
	OpBranchIfFalse
	OpJump
	OpMakePair
	OpMakeVector
	OpVectorRef
	OpVectorSet
	OpPrimCall
	OpPop
	OpDup
	OpSafepoint
)

func (op Opcode) String() string {
	names := [...]string{
		"load-const", "load-local", "store-local", "load-global",
		"store-global", "make-closure", "call", "tail-call", "return",
		"branch-if-false", "jump", "make-pair", "make-vector",
		"vector-ref", "vector-set", "prim-call", "pop", "dup", "safepoint",
	}
	if int(op) < len(names) {
		return names[op]
	}
	return "unknown"
}

// Instruction is one bytecode instruction. Operand fields are reused
// across opcodes by convention (A/B), the same flat-fields-not-a-union
// shape the teacher uses for its own VM instruction type.
type Instruction struct {
	Op   Opcode
	A, B int32 // const-pool index / local slot / jump offset, per Op
	Loc  Span
}

func (i Instruction) Name() string         { return i.Op.String() }
func (i Instruction) SourceLocation() Span { return i.Loc }

// BytecodeProgram is the T1 wire form (spec §3 "Bytecode program"): a
// sequence of instructions, a constant pool, a safepoint list, and a
// debug map back to source spans and live-variable sets.
type BytecodeProgram struct {
	Instructions []Instruction
	Constants    []Value
	Safepoints   []int // indices into Instructions that are OpSafepoint
	DebugMap     []DebugEntry

	NumLocals int
}

// DebugEntry maps a bytecode offset back to the source span and the set
// of local slots live at that point, per spec §3's "metadata block
// mapping bytecode offsets back to source spans and live-variable sets".
type DebugEntry struct {
	Offset      int
	Span        Span
	LiveLocals  []int32
}

func (bp *BytecodeProgram) traceRefs(visit func(Traceable)) {
	for _, c := range bp.Constants {
		visitIfTraceable(c, visit)
	}
}
