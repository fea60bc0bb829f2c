package lambdust

// Evaluator is one mutator's CEK abstract machine: its own frame chain,
// dynamic-wind chain, exception-handler stack, and parameter bindings
// (spec §5: "each carries an independent evaluator instance with its
// own stack, handler stack, and dynamic-wind chain"). It shares the
// Heap, the global environment, and the macro/primitive tables with
// every other Evaluator in the process.
type Evaluator struct {
	MutatorID int64

	Heap    *Heap
	Globals *SharedFrame
	Macros  *MacroEnv
	Prims   *PrimitiveTable
	cfg     *Config
}

func NewEvaluator(mutatorID int64, heap *Heap, globals *SharedFrame, macros *MacroEnv, prims *PrimitiveTable, cfg *Config) *Evaluator {
	heap.RegisterMutator(mutatorID)
	return &Evaluator{MutatorID: mutatorID, Heap: heap, Globals: globals, Macros: macros, Prims: prims, cfg: cfg}
}

// Close unregisters ev's mutator id from its Heap, so a stop-the-world
// rendezvous no longer waits on a thread that will never poll again.
func (ev *Evaluator) Close() {
	ev.Heap.UnregisterMutator(ev.MutatorID)
}

type windEntry struct {
	before Value
	after  Value
}

// evalState is the full machine state threaded around Eval's loop body;
// bundling it avoids an unwieldy multi-return signature on every helper
// that advances the machine by one step.
type evalState struct {
	c Node
	e *SharedFrame
	k *Frame

	haveVal bool
	val     Value

	handlers *exceptionHandler
	winds    []windEntry
}

// Eval runs n to a final Value, trampolining through an explicit
// continuation chain (*Frame) without ever growing the Go call stack
// for a tail call (spec §8 property 1). Every helper either produces a
// value immediately or advances (c, e, k) to a subexpression — nothing
// here recurses back into Eval.
func (ev *Evaluator) Eval(n Node, env *SharedFrame) (Value, error) {
	st := &evalState{c: n, e: env}

	for {
		ev.Heap.Roots().SetMutatorFrame(ev.MutatorID, st.k)
		pollSafepoint(ev.MutatorID)

		var err error
		switch {
		case !st.haveVal:
			err = ev.step(st)
		case st.k == nil:
			return st.val, nil
		default:
			err = ev.resume(st)
		}
		if err != nil {
			if rerr := ev.dispatchError(st, err); rerr != nil {
				return nil, rerr
			}
		}
	}
}

// step evaluates the current control expression st.c, either landing a
// value in st.val (st.haveVal=true) or pushing a Frame and descending
// into a subexpression.
func (ev *Evaluator) step(st *evalState) error {
	switch n := st.c.(type) {
	case *LiteralNode:
		st.val, st.haveVal = n.Datum, true
	case *QuoteNode:
		st.val, st.haveVal = n.Datum, true
	case *VarRefNode:
		v, ok := st.e.Lookup(n.Name)
		if !ok {
			return newErrAt(ErrRuntime, "unbound variable: "+SymbolName(n.Name), n.Loc())
		}
		st.val, st.haveVal = v, true
	case *IfNode:
		f := pushFrame(st.k, FrameIf)
		f.NodeA, f.NodeB, f.Env = n.Then, n.Else, st.e
		st.c, st.k = n.Test, f
	case *BeginNode:
		pushSeq(st, n.Body, st.e, st.k)
	case *LambdaNode:
		st.val, st.haveVal = NewClosure(n.Params, n.Body, st.e, n.Name), true
	case *CaseLambdaNode:
		st.val, st.haveVal = newCaseLambda(n, st.e), true
	case *DefineSyntaxNode:
		if ev.Macros != nil {
			ev.Macros.Define(n.Name, n.Transformer)
		}
		st.val, st.haveVal = TheUnspecified, true
	case *DefineNode:
		f := pushFrame(st.k, FrameDefine)
		f.Name, f.Env = n.Name, st.e
		st.c, st.k = n.Value, f
	case *SetBangNode:
		f := pushFrame(st.k, FrameSetBang)
		f.Name, f.Env = n.Name, st.e
		st.c, st.k = n.Value, f
	case *ApplyNode:
		f := pushFrame(st.k, FrameEvalOperator)
		f.PendingOperands, f.Env = n.Operands, st.e
		st.c, st.k = n.Operator, f
	case *LetNode:
		stepLetFamily(st, n.Bindings, n.Body, NodeLet)
	case *LetStarNode:
		stepLetFamily(st, n.Bindings, n.Body, NodeLetStar)
	case *LetrecNode:
		stepLetFamily(st, n.Bindings, n.Body, NodeLetrec)
	case *DelayNode:
		st.val, st.haveVal = NewDelayedPromise(n.Expr, st.e), true
	case *DelayForceNode:
		st.val, st.haveVal = NewTailRecursivePromise(n.Expr, st.e), true
	case *DottedListNode:
		v, err := evalQuotedDottedList(n)
		if err != nil {
			return err
		}
		st.val, st.haveVal = v, true
	case *VectorLiteralNode:
		items := make([]Value, len(n.Items))
		for i, it := range n.Items {
			if lit, ok := it.(*LiteralNode); ok {
				items[i] = lit.Datum
			} else {
				items[i] = TheUnspecified
			}
		}
		st.val, st.haveVal = NewVector(items), true
	case nil:
		st.val, st.haveVal = TheUnspecified, true
	default:
		return SyntaxErrorf(n.Loc(), "cannot evaluate node kind %s", n.NodeKind())
	}
	return nil
}

// resume consumes st.val against the frame at the top of st.k, advancing
// the machine by exactly one continuation step.
func (ev *Evaluator) resume(st *evalState) error {
	k := st.k
	switch k.Kind {
	case FrameIf:
		st.e = k.Env
		if truthy(st.val) {
			st.c = k.NodeA
		} else if k.NodeB != nil {
			st.c = k.NodeB
		} else {
			st.val, st.haveVal = TheUnspecified, true
			st.k = k.Next
			return nil
		}
		st.k, st.haveVal = k.Next, false

	case FrameBeginSeq:
		if len(k.Body) == 0 {
			st.k = k.Next
			return nil
		}
		pushSeq(st, k.Body, k.Env, k.Next)

	case FrameSetBang:
		if err := k.Env.Set(k.Name, st.val); err != nil {
			return err
		}
		st.val, st.e, st.k, st.haveVal = TheUnspecified, k.Env, k.Next, true

	case FrameDefine:
		k.Env.Define(k.Name, st.val)
		st.val, st.e, st.k, st.haveVal = TheUnspecified, k.Env, k.Next, true

	case FrameEvalOperator:
		return ev.continueOperands(st, st.val, nil, k.PendingOperands, k.Env, k.Next)

	case FrameEvalOperand:
		done := append(append([]Value{}, k.Done...), st.val)
		return ev.continueOperands(st, k.Operator, done, k.PendingOperands, k.Env, k.Next)

	case FrameLetInit:
		resumeLetInit(st, k)

	case FrameLetBody:
		resumeLetBody(st, k)

	case FrameDynamicWindAfter:
		return ev.resumeDynamicWindAfter(st, k)

	case FrameHandlerPush:
		st.handlers, st.e, st.k = k.SavedHandlers, k.Env, k.Next

	case FrameForce:
		return ev.resumeForce(st, k)

	case FrameRaiseNonContinuable:
		return newErr(ErrRuntime, "exception handler returned from non-continuable raise")

	case FrameRaiseContinuable:
		st.handlers, st.k = k.SavedHandlers, k.Next

	case FrameCallWithValuesConsumer:
		args := unwrapValues(st.val)
		return ev.apply(st, k.Operator, args, k.Next)

	case FrameDynamicWindCall:
		st.winds = append(st.winds, windEntry{before: k.Before, after: k.After})
		after := pushFrame(k.Next, FrameDynamicWindAfter)
		after.After = k.After
		return ev.apply(st, k.Operator, nil, after)

	case FrameDynamicWindResult:
		st.val, st.haveVal = k.Done[0], true
		st.k = k.Next

	default:
		st.e, st.k = k.Env, k.Next
	}
	return nil
}

// pushSeq turns a body (begin-like sequence) into either an immediate
// value (empty body) or a descent into its first element with a
// FrameBeginSeq recording the rest.
func pushSeq(st *evalState, body []Node, env *SharedFrame, next *Frame) {
	if len(body) == 0 {
		st.val, st.haveVal = TheUnspecified, true
		st.k = next
		return
	}
	if len(body) == 1 {
		st.c, st.e, st.k, st.haveVal = body[0], env, next, false
		return
	}
	f := pushFrame(next, FrameBeginSeq)
	f.Body, f.Env = body[1:], env
	st.c, st.e, st.k, st.haveVal = body[0], env, f, false
}

// continueOperands advances argument evaluation for an application:
// either evaluating the next pending operand, or — once all are in
// hand — dispatching to apply, which implements the actual tail call
// (no new Go stack frame is ever pushed for it).
func (ev *Evaluator) continueOperands(st *evalState, operator Value, done []Value, pending []Node, env *SharedFrame, next *Frame) error {
	if len(pending) > 0 {
		f := pushFrame(next, FrameEvalOperand)
		f.Operator, f.Done, f.PendingOperands, f.Env = operator, done, pending[1:], env
		st.c, st.e, st.k, st.haveVal = pending[0], env, f, false
		return nil
	}
	return ev.apply(st, operator, done, next)
}

func truthy(v Value) bool {
	b, ok := v.(Boolean)
	return !ok || bool(b)
}

func evalQuotedDottedList(n *DottedListNode) (Value, error) {
	items := make([]Value, len(n.Items))
	for i, it := range n.Items {
		lit, ok := it.(*LiteralNode)
		if !ok {
			return nil, SyntaxErrorf(n.Loc(), "dotted-list item is not a literal datum")
		}
		items[i] = lit.Datum
	}
	var tail Value = TheNil
	if tailLit, ok := n.Tail.(*LiteralNode); ok {
		tail = tailLit.Datum
	}
	result := tail
	for i := len(items) - 1; i >= 0; i-- {
		result = Cons(items[i], result)
	}
	return result, nil
}

func (k FrameKind) String() string {
	names := [...]string{
		"if", "eval-operator", "eval-operand", "set!", "define", "begin-seq",
		"let-init", "let-body", "dynamic-wind-after", "handler-push",
		"and-or", "force", "raise-non-continuable", "raise-continuable",
		"call-with-values-consumer", "dynamic-wind-call", "dynamic-wind-result",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}
