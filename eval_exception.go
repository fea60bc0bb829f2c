package lambdust

// exceptionHandler is one link of the evaluator's handler stack (spec
// §4.2's `with-exception-handler`): the handler procedure plus the
// handler stack that was active before it was installed, which is what
// a handler runs under while it executes (R7RS: a handler invoked by
// `raise`/`raise-continuable` sees the handlers that were current when
// it was itself installed, not itself).
type exceptionHandler struct {
	proc Value
	next *exceptionHandler
}

// dispatchError is consulted whenever step/resume return a Go error
// (spec's runtime errors, e.g. unbound variable, type error, arity
// error): it is equivalent to an implicit `(raise <error-object>)` at
// the point of failure. If a handler is installed, control transfers
// to it (as a non-continuable raise, matching R7RS's treatment of
// implementation-raised errors); otherwise the error is terminal and
// propagates out of Eval.
func (ev *Evaluator) dispatchError(st *evalState, err error) error {
	if st.handlers == nil {
		return err
	}
	return ev.raiseValue(st, WrapGoError(err), false, st.k)
}

// raiseValue implements both `raise` (continuable=false) and
// `raise-continuable` (continuable=true). In both cases the handler
// runs with the outer handler stack installed (R7RS semantics); a
// non-continuable raise turns a normal return from the handler into an
// error, a continuable raise feeds the handler's return value back in
// as the result of the raise.
func (ev *Evaluator) raiseValue(st *evalState, obj Value, continuable bool, next *Frame) error {
	top := st.handlers
	if top == nil {
		return &RuntimeErrorValue{Obj: obj}
	}
	saved := st.handlers
	st.handlers = top.next

	kind := FrameRaiseNonContinuable
	if continuable {
		kind = FrameRaiseContinuable
	}
	f := pushFrame(next, kind)
	f.SavedHandlers = saved
	return ev.apply(st, top.proc, []Value{obj}, f)
}

// withExceptionHandler implements the `with-exception-handler` control
// op: the handler is pushed for the dynamic extent of calling thunk
// with zero arguments, and popped again — via FrameHandlerPush — when
// thunk returns normally. A continuation escaping outward instead
// restores the handler stack it captured (invokeContinuation).
func (ev *Evaluator) withExceptionHandler(st *evalState, handler, thunk Value, next *Frame) error {
	f := pushFrame(next, FrameHandlerPush)
	f.SavedHandlers = st.handlers
	st.handlers = &exceptionHandler{proc: handler, next: st.handlers}
	return ev.apply(st, thunk, nil, f)
}
