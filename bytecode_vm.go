package lambdust

// RunBytecode executes c's T1-compiled body (spec §4.3 "a stack-based VM
// executes it"), grounded on the teacher's `vm.go` goto-based `code:`/
// `fail:` trampoline loop — here a `for`/`switch` loop that never
// recurses into itself on a self tail call, generalized to a `code:`/
// `unwind:` shape: OpTailCall to the same compiled program resets pc and
// locals in place (the loop-restart that gives T1 the same O(1)-stack
// tail-call property as T0), while any other call (non-tail, or tail to a
// different procedure) delegates to the evaluator's own synchronous
// ApplyValues. Only self tail calls are constant-space: when the callee of
// such a delegated call is itself T1-compiled, ApplyValues re-enters
// RunBytecode one Go call deeper, so mutual tail recursion between T1
// closures and non-tail recursion both grow the Go stack once per call.
func RunBytecode(ev *Evaluator, c *Closure, args []Value) (Value, error) {
	return runClosureProgram(ev, c, c.bc, args)
}

// runClosureProgram is RunBytecode generalized over which program to
// execute, so native_codegen.go's T2 wrapper can run its own
// peephole-optimized program for the same closure without duplicating the
// call/tail-call dispatch loop.
func runClosureProgram(ev *Evaluator, c *Closure, prog *BytecodeProgram, args []Value) (Value, error) {
	env, locals := bindVMFrame(c, args)

	frame := &vmFrame{prog: prog, env: env, locals: locals}
	for {
		result, tailCall, tailArgs, err := runVMFrame(ev, frame)
		if err != nil {
			return nil, err
		}
		if tailCall == nil {
			return result, nil
		}
		// OpTailCall landed on a different (or not-yet-T1-compiled)
		// closure: let the evaluator resolve it like any ordinary
		// call. This is not a loop restart: if the callee also runs at
		// T1, its own runClosureProgram sits one Go call deeper, so a
		// loop expressed as tail calls between different closures
		// grows the Go stack on every iteration.
		return ev.ApplyValues(tailCall, tailArgs)
	}
}

// bindVMFrame builds the child environment and local-slot array for a
// call to c with args, mirroring applyClosure's own env setup exactly so
// any deferToEvaluator fallback or nested closure created mid-body resolves
// free variables identically whichever tier made the call. Slot
// assignment is deterministic: CompileClosure assigns fixed params slots
// 0..len(Fixed)-1 in order, then the rest param (if any) the next slot,
// before compiling the body — so the mapping can be reconstructed here
// without threading the compiler's name->slot table through BytecodeProgram.
func bindVMFrame(c *Closure, args []Value) (*SharedFrame, []Value) {
	env := c.Env.Child()
	locals := make([]Value, c.bc.NumLocals)
	for i, name := range c.Params.Fixed {
		locals[i] = args[i]
		env.Define(name, args[i])
	}
	if c.Params.HasRest {
		rest := SliceToList(args[len(c.Params.Fixed):])
		locals[len(c.Params.Fixed)] = rest
		env.Define(c.Params.Rest, rest)
	}
	return env, locals
}

// vmFrame is one activation of the T1 VM: its own operand stack, local
// slots, program counter, and environment.
type vmFrame struct {
	prog   *BytecodeProgram
	env    *SharedFrame
	locals []Value
	stack  []Value
	pc     int
}

func (f *vmFrame) push(v Value) { f.stack = append(f.stack, v) }

func (f *vmFrame) pop() Value {
	n := len(f.stack) - 1
	v := f.stack[n]
	f.stack = f.stack[:n]
	return v
}

// runVMFrame runs frame to completion: either it returns a final value
// (tailCall == nil), or it hit an OpTailCall the loop-restart path can't
// handle in place (different closure, or one with no bytecode yet), in
// which case it reports the operator/args for the caller to dispatch.
func runVMFrame(ev *Evaluator, frame *vmFrame) (result Value, tailCall Value, tailArgs []Value, err error) {
	prog := frame.prog
	for {
		pollSafepoint(ev.MutatorID)

		ins := prog.Instructions[frame.pc]
		switch ins.Op {
		case OpLoadConst:
			frame.push(prog.Constants[ins.A])
			frame.pc++

		case OpLoadLocal:
			frame.push(frame.locals[ins.A])
			frame.pc++

		case OpStoreLocal:
			frame.locals[ins.A] = frame.pop()
			frame.pc++

		case OpLoadGlobal:
			name := SymbolID(ins.A)
			v, ok := frame.env.Lookup(name)
			if !ok {
				return nil, nil, nil, newErrAt(ErrRuntime, "unbound variable: "+SymbolName(name), ins.Loc)
			}
			frame.push(v)
			frame.pc++

		case OpStoreGlobal:
			name := SymbolID(ins.A)
			v := frame.pop()
			// set! mutates an existing binding anywhere in the chain;
			// define introduces one in the call's own frame. Both
			// compile to this one opcode (bytecode_compiler.go), so
			// fall back to Define when nothing is bound yet.
			if setErr := frame.env.Set(name, v); setErr != nil {
				frame.env.Define(name, v)
			}
			frame.pc++

		case OpMakeClosure:
			tmpl := prog.Constants[ins.A].(*closureTemplate)
			frame.push(NewClosure(tmpl.node.Params, tmpl.node.Body, frame.env, tmpl.node.Name))
			frame.pc++

		case OpCall:
			operator, callArgs := frame.popCall(int(ins.A))
			v, callErr := ev.ApplyValues(operator, callArgs)
			if callErr != nil {
				return nil, nil, nil, callErr
			}
			frame.push(v)
			frame.pc++

		case OpTailCall:
			operator, callArgs := frame.popCall(int(ins.A))
			if next, ok := operator.(*Closure); ok && next.bc == prog {
				newEnv, newLocals := bindVMFrame(next, callArgs)
				next.hotspot.recordCall()
				frame.env, frame.locals, frame.stack, frame.pc = newEnv, newLocals, frame.stack[:0], 0
				continue
			}
			return nil, operator, callArgs, nil

		case OpReturn:
			if len(frame.stack) == 0 {
				return TheUnspecified, nil, nil, nil
			}
			return frame.pop(), nil, nil, nil

		case OpBranchIfFalse:
			target := frame.pc + int(ins.A)
			if truthy(frame.pop()) {
				frame.pc++
			} else {
				frame.pc = target
			}

		case OpJump:
			frame.pc += int(ins.A)

		case OpMakePair:
			cdr, car := frame.pop(), frame.pop()
			frame.push(Cons(car, cdr))
			frame.pc++

		case OpMakeVector:
			n := int(ins.A)
			items := make([]Value, n)
			for i := n - 1; i >= 0; i-- {
				items[i] = frame.pop()
			}
			frame.push(NewVector(items))
			frame.pc++

		case OpVectorRef:
			idx, vec := frame.pop(), frame.pop()
			v, refErr := vec.(*Vector).Ref(int(idx.(SmallInt)))
			if refErr != nil {
				return nil, nil, nil, refErr
			}
			frame.push(v)
			frame.pc++

		case OpVectorSet:
			val, idx, vec := frame.pop(), frame.pop(), frame.pop()
			if setErr := vec.(*Vector).Set(ev.Heap, int(idx.(SmallInt)), val); setErr != nil {
				return nil, nil, nil, setErr
			}
			frame.push(TheUnspecified)
			frame.pc++

		case OpPrimCall:
			defer_, ok := prog.Constants[ins.A].(*deferToEvaluator)
			if !ok {
				return nil, nil, nil, newErrAt(ErrRuntime, "prim-call constant is not a deferred node", ins.Loc)
			}
			v, evalErr := ev.Eval(defer_.node, frame.env)
			if evalErr != nil {
				return nil, nil, nil, evalErr
			}
			frame.push(v)
			frame.pc++

		case OpPop:
			frame.pop()
			frame.pc++

		case OpDup:
			top := frame.stack[len(frame.stack)-1]
			frame.push(top)
			frame.pc++

		case OpSafepoint:
			frame.pc++

		default:
			return nil, nil, nil, newErrAt(ErrRuntime, "unknown bytecode opcode: "+ins.Op.String(), ins.Loc)
		}
	}
}

// popCall pops n arguments (in call order) followed by the operator, the
// stack layout OpCall/OpTailCall's compiler emission produces (operator
// pushed first, then each operand).
func (f *vmFrame) popCall(n int) (Value, []Value) {
	args := make([]Value, n)
	for i := n - 1; i >= 0; i-- {
		args[i] = f.pop()
	}
	return f.pop(), args
}
