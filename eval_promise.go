package lambdust

// forceValue implements `force` (spec §4.2): a chain of Delayed/
// TailRecursive promises is walked by re-entering forceValue from
// resumeForce below rather than by Go recursion, which is what keeps an
// arbitrarily long `delay-force` chain resolving in O(1) additional
// stack space (testable property #7). A `Forced` promise (or a
// non-promise argument) resolves immediately.
func (ev *Evaluator) forceValue(st *evalState, v Value, next *Frame) error {
	p, ok := v.(*Promise)
	if !ok {
		st.val, st.k, st.haveVal = v, next, true
		return nil
	}
	state, expr, env, cached := p.snapshot()
	if state == promiseForced {
		st.val, st.k, st.haveVal = cached, next, true
		return nil
	}
	f := pushFrame(next, FrameForce)
	f.Operator = p
	st.c, st.e, st.k, st.haveVal = expr, env, f, false
	return nil
}

// resumeForce consumes the value produced by forcing one link of the
// chain: if it is itself a promise (the `delay-force` case), loop
// without memoizing; otherwise memoize (unless TailRecursive) and
// return.
func (ev *Evaluator) resumeForce(st *evalState, k *Frame) error {
	p := k.Operator.(*Promise)
	if next, ok := st.val.(*Promise); ok {
		return ev.forceValue(st, next, k.Next)
	}
	p.memoize(st.val)
	st.k = k.Next
	return nil
}
