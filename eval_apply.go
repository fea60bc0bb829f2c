package lambdust

// controlOps names the primitives whose semantics require direct access
// to the current continuation/dynamic-wind chain/handler stack rather
// than a plain []Value -> Value signature (spec §4.2): call/cc,
// dynamic-wind, with-exception-handler, raise(-continuable), values, and
// call-with-values. They are ordinary *Primitive values in the global
// environment (so they print and compare like any procedure) but apply
// recognizes them by name before falling through to generic dispatch.
var controlOps = map[string]bool{
	"call/cc": true, "call-with-current-continuation": true,
	"dynamic-wind": true, "with-exception-handler": true,
	"raise": true, "raise-continuable": true,
	"values": true, "call-with-values": true,
	"apply": true, "force": true,
}

// apply is the one place a procedure call becomes "what happens next":
// for a Closure this sets up the body as the new control expression
// under the *same* continuation `next` — no Go call, which is exactly
// what makes this a tail call (spec §4.2, §8 property 1). Primitives
// either resolve immediately (st.haveVal=true) or, for control ops,
// manipulate st directly.
func (ev *Evaluator) apply(st *evalState, operator Value, args []Value, next *Frame) error {
	switch proc := operator.(type) {
	case *Closure:
		return ev.dispatchClosure(st, proc, args, next)

	case *caseLambda:
		for _, clause := range proc.clauses {
			if clauseArity(clause, len(args)) {
				return ev.applyClosure(st, NewClosure(clause.Params, clause.Body, proc.env, clause.Name), args, next)
			}
		}
		return ArityErrorf("case-lambda", 0, -1, len(args))

	case *Continuation:
		return ev.invokeContinuation(st, proc, args)

	case *Primitive:
		if controlOps[proc.Name] {
			return ev.applyControlOp(st, proc.Name, args, next)
		}
		if err := proc.CheckArity(len(args)); err != nil {
			return err
		}
		if proc.EvalFn != nil {
			v, err := proc.EvalFn(ev, args)
			if err != nil {
				return err
			}
			st.val, st.e, st.k, st.haveVal = v, next.envOrNil(), next, true
			return nil
		}
		v, err := proc.Fn(args)
		if err != nil {
			return err
		}
		st.val, st.e, st.k, st.haveVal = v, next.envOrNil(), next, true
		return nil

	default:
		return TypeErrorf("attempt to apply non-procedure: %s", writeString(operator))
	}
}

func (ev *Evaluator) applyClosure(st *evalState, proc *Closure, args []Value, next *Frame) error {
	if !proc.Arity(len(args)) {
		max := len(proc.Params.Fixed)
		if proc.Params.HasRest {
			max = -1
		}
		return ArityErrorf(proc.Name, len(proc.Params.Fixed), max, len(args))
	}
	env := proc.Env.Child()
	for i, name := range proc.Params.Fixed {
		env.Define(name, args[i])
	}
	if proc.Params.HasRest {
		env.Define(proc.Params.Rest, SliceToList(args[len(proc.Params.Fixed):]))
	}
	pushSeq(st, proc.Body, env, next)
	return nil
}

// envOrNil reads the environment a frame resumes into, for primitive
// calls that don't otherwise have one handy; nil is fine since a
// returning primitive never needs to evaluate further in that frame's
// env before resume() substitutes the frame's own recorded Env.
func (f *Frame) envOrNil() *SharedFrame {
	if f == nil {
		return nil
	}
	return f.Env
}

// ApplyValues is a non-tail, synchronous "call this procedure with
// these already-evaluated arguments and give me the result" entry
// point, used by higher-order library primitives (apply, map,
// for-each, ...) that need to invoke a user procedure without
// themselves participating in the tail-call trampoline (spec §6's
// "evaluator-integrated variant ... required for higher-order
// primitives").
func (ev *Evaluator) ApplyValues(proc Value, args []Value) (Value, error) {
	st := &evalState{}
	if err := ev.apply(st, proc, args, nil); err != nil {
		return nil, err
	}
	for {
		pollSafepoint(ev.MutatorID)
		if st.haveVal {
			if st.k == nil {
				return st.val, nil
			}
			if err := ev.resume(st); err != nil {
				if rerr := ev.dispatchError(st, err); rerr != nil {
					return nil, rerr
				}
			}
			continue
		}
		if err := ev.step(st); err != nil {
			if rerr := ev.dispatchError(st, err); rerr != nil {
				return nil, rerr
			}
		}
	}
}

func clauseArity(c *LambdaNode, n int) bool {
	if c.Params.HasRest {
		return n >= len(c.Params.Fixed)
	}
	return n == len(c.Params.Fixed)
}
