package lambdust

import "strings"

// MultipleValues is the runtime carrier for `(values ...)` producing
// other than exactly one value (spec §4.2). It is never a first-class
// Scheme datum a user can construct directly; it only ever appears as
// the value flowing through a `call-with-values` consumer hookup, and
// is unwrapped immediately there.
type MultipleValues struct {
	header GCHeader
	Items  []Value
}

func (*MultipleValues) Kind() ValueKind       { return KindValues }
func (m *MultipleValues) gcHeader() *GCHeader { return &m.header }

func (m *MultipleValues) traceRefs(visit func(Traceable)) {
	for _, v := range m.Items {
		visitIfTraceable(v, visit)
	}
}

func (m *MultipleValues) writeForm(sb *strings.Builder) {
	for i, v := range m.Items {
		if i > 0 {
			sb.WriteByte(' ')
		}
		v.writeForm(sb)
	}
}
func (m *MultipleValues) displayForm(sb *strings.Builder) { m.writeForm(sb) }

// wrapValues implements the `values` procedure: zero args is the
// empty-values object, one arg passes through unwrapped (so ordinary
// single-valued contexts never see a MultipleValues wrapper), anything
// else is bundled.
func wrapValues(args []Value) Value {
	switch len(args) {
	case 1:
		return args[0]
	default:
		items := make([]Value, len(args))
		copy(items, args)
		mv := &MultipleValues{Items: items}
		mv.header = *newHeader(TagRecord, 0)
		return mv
	}
}

// unwrapValues is the inverse, used by call-with-values to hand the
// consumer a plain argument list regardless of how many values the
// producer returned.
func unwrapValues(v Value) []Value {
	if mv, ok := v.(*MultipleValues); ok {
		return mv.Items
	}
	return []Value{v}
}
