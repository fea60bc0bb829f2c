package lambdust

// dynamicWind implements the `dynamic-wind` control op (spec §4.2):
// before is called, then thunk, then after, with the (before, after)
// pair pushed onto st.winds for the entire dynamic extent of thunk so
// a non-local jump (an escaping continuation invocation) through it
// still runs after — and a later re-entry still runs before again
// (eval_callcc.go's invokeContinuation). FrameDynamicWindCall threads
// before's completion into pushing the wind entry and starting thunk;
// FrameDynamicWindAfter (resumeDynamicWindAfter below) threads thunk's
// completion into popping the wind entry and running after without
// losing thunk's result.
func (ev *Evaluator) dynamicWind(st *evalState, before, thunk, after Value, next *Frame) error {
	f := pushFrame(next, FrameDynamicWindCall)
	f.Before, f.Operator, f.After = before, thunk, after
	return ev.apply(st, before, nil, f)
}

// resumeDynamicWindAfter runs once thunk has produced a value: pop the
// wind entry thunk was running under, then call after, then restore
// thunk's result as the overall value of dynamic-wind.
func (ev *Evaluator) resumeDynamicWindAfter(st *evalState, k *Frame) error {
	result := st.val
	if len(st.winds) > 0 {
		st.winds = st.winds[:len(st.winds)-1]
	}
	f := pushFrame(k.Next, FrameDynamicWindResult)
	f.Done = []Value{result}
	return ev.apply(st, k.After, nil, f)
}
