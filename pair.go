package lambdust

import (
	"strings"
	"sync"
)

// Pair is the immutable cons cell (spec §3: "Pair mutability. Two
// distinct variants; operations that mutate ... require the mutable
// variant"). Immutable pairs are what `quote`/`cons` in non-mutating
// contexts and the reader are expected to build; `set-car!`/`set-cdr!`
// reject them with a type error.
type Pair struct {
	header GCHeader
	Car    Value
	Cdr    Value
}

func Cons(car, cdr Value) *Pair {
	p := &Pair{Car: car, Cdr: cdr}
	p.header = *newHeader(TagPair, 0)
	return p
}

func (*Pair) Kind() ValueKind       { return KindPair }
func (p *Pair) gcHeader() *GCHeader { return &p.header }
func (p *Pair) traceRefs(visit func(Traceable)) {
	visitIfTraceable(p.Car, visit)
	visitIfTraceable(p.Cdr, visit)
}

func (p *Pair) writeForm(sb *strings.Builder)   { writeListForm(p, sb, writeString) }
func (p *Pair) displayForm(sb *strings.Builder) { writeListForm(p, sb, displayString) }

// MutablePair is the mutable cons cell; set-car!/set-cdr! operate only on
// this variant (spec §3).
type MutablePair struct {
	header GCHeader
	mu     sync.RWMutex
	Car    Value
	Cdr    Value
}

func NewMutablePair(car, cdr Value) *MutablePair {
	p := &MutablePair{Car: car, Cdr: cdr}
	p.header = *newHeader(TagMutablePair, 0)
	return p
}

func (*MutablePair) Kind() ValueKind       { return KindPair }
func (p *MutablePair) gcHeader() *GCHeader { return &p.header }
func (p *MutablePair) traceRefs(visit func(Traceable)) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	visitIfTraceable(p.Car, visit)
	visitIfTraceable(p.Cdr, visit)
}

func (p *MutablePair) writeForm(sb *strings.Builder)   { writeListForm(p, sb, writeString) }
func (p *MutablePair) displayForm(sb *strings.Builder) { writeListForm(p, sb, displayString) }

func (p *MutablePair) GetCar() Value {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Car
}

func (p *MutablePair) GetCdr() Value {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Cdr
}

// SetCar mutates the car, recording a write-barrier entry when an
// old-generation pair starts pointing at a young-generation value (spec
// §4.4 "Write barrier").
func (p *MutablePair) SetCar(h *Heap, v Value) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Car = v
	h.writeBarrier(&p.header, v)
}

// SetCdr mutates the cdr under the same write-barrier discipline.
func (p *MutablePair) SetCdr(h *Heap, v Value) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Cdr = v
	h.writeBarrier(&p.header, v)
}

// pairLike lets the shared list printer work across both pair variants
// without duplicating the traversal.
type pairLike interface {
	Value
	pairCar() Value
	pairCdr() Value
}

func (p *Pair) pairCar() Value        { return p.Car }
func (p *Pair) pairCdr() Value        { return p.Cdr }
func (p *MutablePair) pairCar() Value { return p.GetCar() }
func (p *MutablePair) pairCdr() Value { return p.GetCdr() }

func writeListForm(p pairLike, sb *strings.Builder, render func(Value) string) {
	sb.WriteByte('(')
	sb.WriteString(render(p.pairCar()))
	rest := p.pairCdr()
	for {
		switch cur := rest.(type) {
		case Nil:
			sb.WriteByte(')')
			return
		case pairLike:
			sb.WriteByte(' ')
			sb.WriteString(render(cur.pairCar()))
			rest = cur.pairCdr()
		default:
			sb.WriteString(" . ")
			sb.WriteString(render(rest))
			sb.WriteByte(')')
			return
		}
	}
}

// ListToSlice converts a proper list into a Go slice, returning false if
// the list is improper (dotted or circular beyond the scan bound).
func ListToSlice(v Value) ([]Value, bool) {
	var out []Value
	for {
		switch cur := v.(type) {
		case Nil:
			return out, true
		case pairLike:
			out = append(out, cur.pairCar())
			v = cur.pairCdr()
		default:
			return out, false
		}
	}
}

// SliceToList builds an immutable proper list from a Go slice.
func SliceToList(items []Value) Value {
	var result Value = TheNil
	for i := len(items) - 1; i >= 0; i-- {
		result = Cons(items[i], result)
	}
	return result
}

func visitIfTraceable(v Value, visit func(Traceable)) {
	if t, ok := v.(Traceable); ok {
		visit(t)
	}
}
