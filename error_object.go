package lambdust

import "strings"

// ErrorObjectValue is the Scheme-visible counterpart of a Go
// *LambdustError (spec §7): what `error-object?`/`error-object-message`/
// `error-object-irritants` and a condition-type predicate see. A Go
// runtime error crossing into the exception-handler machinery
// (dispatchError) is wrapped into one of these rather than exposing the
// Go error type to Scheme code.
type ErrorObjectValue struct {
	header     GCHeader
	Message    string
	Irritants  []Value
	ErrKind    ErrorKind
	goCause    error
}

func NewErrorObject(message string, irritants []Value, kind ErrorKind) *ErrorObjectValue {
	e := &ErrorObjectValue{Message: message, Irritants: irritants, ErrKind: kind}
	e.header = *newHeader(TagErrorObject, 0)
	return e
}

func (*ErrorObjectValue) Kind() ValueKind       { return KindErrorObject }
func (e *ErrorObjectValue) gcHeader() *GCHeader { return &e.header }

func (e *ErrorObjectValue) traceRefs(visit func(Traceable)) {
	for _, v := range e.Irritants {
		visitIfTraceable(v, visit)
	}
}

func (e *ErrorObjectValue) writeForm(sb *strings.Builder) {
	sb.WriteString("#<error ")
	sb.WriteString(e.Message)
	sb.WriteByte('>')
}
func (e *ErrorObjectValue) displayForm(sb *strings.Builder) { e.writeForm(sb) }

// WrapGoError turns a Go error produced by the evaluator/runtime into
// the Scheme-visible object a `with-exception-handler` handler
// receives. A *RuntimeErrorValue (an explicit `raise` that escaped to
// the top) unwraps back to the original raised object instead of
// double-wrapping it.
func WrapGoError(err error) Value {
	if rv, ok := err.(*RuntimeErrorValue); ok {
		return rv.Obj
	}
	if le, ok := err.(*LambdustError); ok {
		return &ErrorObjectValue{
			header:  *newHeader(TagErrorObject, 0),
			Message: le.Message,
			ErrKind: le.Kind,
			goCause: le,
		}
	}
	return &ErrorObjectValue{header: *newHeader(TagErrorObject, 0), Message: err.Error(), ErrKind: ErrRuntime, goCause: err}
}
