package lambdust

import "strings"

// bytecodeCompiler lowers a Closure's core-AST body into a
// BytecodeProgram, with a standard backpatching pass for forward
// jumps (branch targets aren't known until the branch's consequent has
// been emitted) — the same two-pass shape the teacher's own compiler
// uses for its instruction stream.
type bytecodeCompiler struct {
	prog    *BytecodeProgram
	locals  map[SymbolID]int32
	nextLoc int32
}

// CompileClosure compiles c's body to bytecode, assigning local slots to
// its formals first. The result is cached on the Closure itself by the
// hotspot promotion path (hotspot.go), not here.
func CompileClosure(c *Closure) *BytecodeProgram {
	bc := &bytecodeCompiler{locals: make(map[SymbolID]int32, len(c.Params.Fixed)+1)}
	bc.prog = &BytecodeProgram{}
	for _, name := range c.Params.Fixed {
		bc.assignLocal(name)
	}
	if c.Params.HasRest {
		bc.assignLocal(c.Params.Rest)
	}
	bc.compileSequence(c.Body, true)
	bc.emit(Instruction{Op: OpReturn})
	bc.prog.NumLocals = int(bc.nextLoc)
	return bc.prog
}

func (bc *bytecodeCompiler) assignLocal(name SymbolID) int32 {
	slot := bc.nextLoc
	bc.nextLoc++
	bc.locals[name] = slot
	return slot
}

func (bc *bytecodeCompiler) emit(instr Instruction) int {
	bc.prog.Instructions = append(bc.prog.Instructions, instr)
	return len(bc.prog.Instructions) - 1
}

func (bc *bytecodeCompiler) patchJump(at int, target int) {
	bc.prog.Instructions[at].A = int32(target - at)
}

func (bc *bytecodeCompiler) constIndex(v Value) int32 {
	for i, c := range bc.prog.Constants {
		if Eqv(c, v) {
			return int32(i)
		}
	}
	bc.prog.Constants = append(bc.prog.Constants, v)
	return int32(len(bc.prog.Constants) - 1)
}

func (bc *bytecodeCompiler) compileSequence(body []Node, tail bool) {
	for i, n := range body {
		last := i == len(body)-1
		bc.compileNode(n, tail && last)
		if !last {
			bc.emit(Instruction{Op: OpPop})
		}
	}
	if len(body) == 0 {
		bc.emit(Instruction{Op: OpLoadConst, A: bc.constIndex(TheUnspecified)})
	}
}

// compileNode emits code for n. tail marks whether n sits in tail
// position, so OpCall vs OpTailCall can be chosen per spec §4.3's "a
// tail call at the source becomes a jump at the machine level, not a
// call+return" requirement — emitted as OpTailCall, which the VM
// (bytecode_vm.go) implements by reusing the current call frame when the
// callee runs this same program; a tail call to any other procedure is
// handed to the evaluator as an ordinary call.
func (bc *bytecodeCompiler) compileNode(n Node, tail bool) {
	switch v := n.(type) {
	case *LiteralNode:
		bc.emit(Instruction{Op: OpLoadConst, A: bc.constIndex(v.Datum), Loc: v.Loc()})
	case *QuoteNode:
		bc.emit(Instruction{Op: OpLoadConst, A: bc.constIndex(v.Datum), Loc: v.Loc()})
	case *VarRefNode:
		if slot, ok := bc.locals[v.Name]; ok {
			bc.emit(Instruction{Op: OpLoadLocal, A: slot, Loc: v.Loc()})
		} else {
			bc.emit(Instruction{Op: OpLoadGlobal, A: int32(v.Name), Loc: v.Loc()})
		}
	case *SetBangNode:
		bc.compileNode(v.Value, false)
		if slot, ok := bc.locals[v.Name]; ok {
			bc.emit(Instruction{Op: OpStoreLocal, A: slot, Loc: v.Loc()})
		} else {
			bc.emit(Instruction{Op: OpStoreGlobal, A: int32(v.Name), Loc: v.Loc()})
		}
		bc.emit(Instruction{Op: OpLoadConst, A: bc.constIndex(TheUnspecified)})
	case *DefineNode:
		bc.compileNode(v.Value, false)
		bc.emit(Instruction{Op: OpStoreGlobal, A: int32(v.Name), Loc: v.Loc()})
		bc.emit(Instruction{Op: OpLoadConst, A: bc.constIndex(TheUnspecified)})
	case *IfNode:
		bc.compileNode(v.Test, false)
		branch := bc.emit(Instruction{Op: OpBranchIfFalse})
		bc.compileNode(v.Then, tail)
		jumpOver := bc.emit(Instruction{Op: OpJump})
		bc.patchJump(branch, len(bc.prog.Instructions))
		if v.Else != nil {
			bc.compileNode(v.Else, tail)
		} else {
			bc.emit(Instruction{Op: OpLoadConst, A: bc.constIndex(TheUnspecified)})
		}
		bc.patchJump(jumpOver, len(bc.prog.Instructions))
	case *BeginNode:
		bc.compileSequence(v.Body, tail)
	case *ApplyNode:
		bc.compileNode(v.Operator, false)
		for _, op := range v.Operands {
			bc.compileNode(op, false)
		}
		op := OpCall
		if tail {
			op = OpTailCall
		}
		bc.emit(Instruction{Op: op, A: int32(len(v.Operands)), Loc: v.Loc()})
	case *LambdaNode:
		// Closures are always allocated at T0 by the evaluator when a
		// lambda node is reached; T1 doesn't re-specialize nested
		// lambda creation, it just records a make-closure marker the
		// VM interprets by delegating to the evaluator's closure
		// constructor. This keeps environment-capture semantics in
		// exactly one place.
		bc.emit(Instruction{Op: OpMakeClosure, A: bc.constIndex(&closureTemplate{node: v})})
	case *LetNode:
		bc.compileLet(v.Bindings, v.Body, tail)
	case *LetStarNode:
		bc.compileLet(v.Bindings, v.Body, tail)
	case *LetrecNode:
		bc.compileLet(v.Bindings, v.Body, tail)
	default:
		// Anything else (delay, case-lambda, quasiquote, ...) falls
		// back to the evaluator: T1 only specializes the hot core, per
		// spec §4.3's requirement that specialized code call back into
		// the evaluator for anything "whose semantics is not
		// specialized".
		bc.emit(Instruction{Op: OpPrimCall, A: bc.constIndex(&deferToEvaluator{node: n})})
	}
}

// compileLet compiles a let/let*/letrec body. OpStoreLocal consumes its
// operand (see bytecode_vm.go), so each binding's init value is popped by
// the store itself and needs no separate OpPop.
func (bc *bytecodeCompiler) compileLet(bindings []BindingClause, body []Node, tail bool) {
	for _, b := range bindings {
		bc.compileNode(b.Init, false)
		slot := bc.assignLocal(b.Name)
		bc.emit(Instruction{Op: OpStoreLocal, A: slot})
	}
	bc.compileSequence(body, tail)
}

// closureTemplate and deferToEvaluator are placeholder constant-pool
// payloads for the two cases T1 delegates back to T0 rather than fully
// specializing. They satisfy Value only so they can live in the
// constant pool; the VM never writes them to user-visible storage.
type closureTemplate struct{ node *LambdaNode }
type deferToEvaluator struct{ node Node }

func (*closureTemplate) Kind() ValueKind                { return KindForeign }
func (*closureTemplate) writeForm(sb *strings.Builder)   { sb.WriteString("#<closure-template>") }
func (*closureTemplate) displayForm(sb *strings.Builder) { sb.WriteString("#<closure-template>") }
func (*deferToEvaluator) Kind() ValueKind                { return KindForeign }
func (*deferToEvaluator) writeForm(sb *strings.Builder)   { sb.WriteString("#<defer>") }
func (*deferToEvaluator) displayForm(sb *strings.Builder) { sb.WriteString("#<defer>") }
