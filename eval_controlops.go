package lambdust

// applyControlOp dispatches the handful of primitives whose semantics
// need direct access to the continuation chain, dynamic-wind chain, or
// handler stack rather than a plain []Value -> Value signature (spec
// §4.2). `next` is the continuation the control op's own result (or
// tail call) resumes into.
func (ev *Evaluator) applyControlOp(st *evalState, name string, args []Value, next *Frame) error {
	switch name {
	case "call/cc", "call-with-current-continuation":
		if len(args) != 1 {
			return ArityErrorf(name, 1, 1, len(args))
		}
		return ev.callCC(st, args[0], next)

	case "dynamic-wind":
		if len(args) != 3 {
			return ArityErrorf(name, 3, 3, len(args))
		}
		return ev.dynamicWind(st, args[0], args[1], args[2], next)

	case "with-exception-handler":
		if len(args) != 2 {
			return ArityErrorf(name, 2, 2, len(args))
		}
		return ev.withExceptionHandler(st, args[0], args[1], next)

	case "raise":
		if len(args) != 1 {
			return ArityErrorf(name, 1, 1, len(args))
		}
		return ev.raiseValue(st, args[0], false, next)

	case "raise-continuable":
		if len(args) != 1 {
			return ArityErrorf(name, 1, 1, len(args))
		}
		return ev.raiseValue(st, args[0], true, next)

	case "force":
		if len(args) != 1 {
			return ArityErrorf(name, 1, 1, len(args))
		}
		return ev.forceValue(st, args[0], next)

	case "values":
		st.val, st.haveVal, st.k = wrapValues(args), true, next
		return nil

	case "call-with-values":
		if len(args) != 2 {
			return ArityErrorf(name, 2, 2, len(args))
		}
		f := pushFrame(next, FrameCallWithValuesConsumer)
		f.Operator = args[1]
		return ev.apply(st, args[0], nil, f)

	case "apply":
		if len(args) < 2 {
			return ArityErrorf(name, 2, -1, len(args))
		}
		tail, ok := ListToSlice(args[len(args)-1])
		if !ok {
			return TypeErrorf("apply: last argument must be a proper list")
		}
		flat := append(append([]Value{}, args[1:len(args)-1]...), tail...)
		return ev.apply(st, args[0], flat, next)

	default:
		return newErr(ErrRuntime, "unimplemented control operator: "+name)
	}
}
