package lambdust

import (
	"fmt"
	"strings"
)

// ValueKind discriminates the tagged sum described in spec §3 without
// forcing a type switch at every call site that only needs to know the
// shape, not the payload.
type ValueKind uint8

const (
	KindBoolean ValueKind = iota
	KindSmallInt
	KindChar
	KindSymbol
	KindNil
	KindUnspecified
	KindEOF

	KindBigInt
	KindRational
	KindReal
	KindComplex
	KindString
	KindPair
	KindVector
	KindBytevector
	KindHashTable
	KindSet
	KindBag
	KindDeque
	KindQueue
	KindClosure
	KindPrimitive
	KindContinuation
	KindPort
	KindPromise
	KindRecord
	KindRecordType
	KindParameter
	KindErrorObject
	KindCharSet
	KindForeign
	KindValues
)

// Value is the tagged sum every piece of Scheme data implements, both
// immediates (no heap allocation, no GC header) and heap values (GC
// managed, shared by reference, spec §3).
type Value interface {
	Kind() ValueKind
	// writeForm renders the `write` representation (machine-readable,
	// strings quoted). displayForm renders the `display` representation
	// (human-readable, strings bare). Both are cheap type switches, not
	// a visitor: immediates never need double dispatch.
	writeForm(sb *strings.Builder)
	displayForm(sb *strings.Builder)
}

func writeString(v Value) string {
	var sb strings.Builder
	v.writeForm(&sb)
	return sb.String()
}

func displayString(v Value) string {
	var sb strings.Builder
	v.displayForm(&sb)
	return sb.String()
}

// ---- Immediates (spec §3: "no heap, no GC header") ----

// Boolean is #t/#f.
type Boolean bool

func (Boolean) Kind() ValueKind { return KindBoolean }
func (b Boolean) writeForm(sb *strings.Builder) {
	if b {
		sb.WriteString("#t")
	} else {
		sb.WriteString("#f")
	}
}
func (b Boolean) displayForm(sb *strings.Builder) { b.writeForm(sb) }

// SmallInt is a fixnum: an exact integer small enough to need no heap
// allocation. Arithmetic that overflows int64 promotes to BigInt.
type SmallInt int64

func (SmallInt) Kind() ValueKind { return KindSmallInt }
func (i SmallInt) writeForm(sb *strings.Builder)   { sb.WriteString(fmt.Sprintf("%d", int64(i))) }
func (i SmallInt) displayForm(sb *strings.Builder) { i.writeForm(sb) }

// Char is a single Unicode scalar value.
type Char rune

func (Char) Kind() ValueKind { return KindChar }
func (c Char) writeForm(sb *strings.Builder) {
	sb.WriteString(charWriteName(rune(c)))
}
func (c Char) displayForm(sb *strings.Builder) { sb.WriteRune(rune(c)) }

func charWriteName(r rune) string {
	switch r {
	case ' ':
		return "#\\space"
	case '\n':
		return "#\\newline"
	case '\t':
		return "#\\tab"
	case 0:
		return "#\\null"
	default:
		return "#\\" + string(r)
	}
}

// Symbol is an interned identifier; its identity is the SymbolID, not the
// text (spec §3).
type Symbol SymbolID

func (Symbol) Kind() ValueKind { return KindSymbol }
func (s Symbol) writeForm(sb *strings.Builder)   { sb.WriteString(SymbolName(SymbolID(s))) }
func (s Symbol) displayForm(sb *strings.Builder) { s.writeForm(sb) }
func (s Symbol) Name() string                   { return SymbolName(SymbolID(s)) }

// Nil is the empty list '().
type Nil struct{}

func (Nil) Kind() ValueKind                 { return KindNil }
func (Nil) writeForm(sb *strings.Builder)    { sb.WriteString("()") }
func (Nil) displayForm(sb *strings.Builder)  { sb.WriteString("()") }

// TheNil is the single shared empty-list value.
var TheNil = Nil{}

// Unspecified is the value of expressions R7RS leaves unspecified
// (e.g. the result of `set!`).
type Unspecified struct{}

func (Unspecified) Kind() ValueKind                { return KindUnspecified }
func (Unspecified) writeForm(sb *strings.Builder)   { sb.WriteString("#<unspecified>") }
func (Unspecified) displayForm(sb *strings.Builder) { sb.WriteString("") }

// TheUnspecified is the single shared unspecified value.
var TheUnspecified = Unspecified{}

// EOFObject is returned by read operations at end of input.
type EOFObject struct{}

func (EOFObject) Kind() ValueKind                { return KindEOF }
func (EOFObject) writeForm(sb *strings.Builder)   { sb.WriteString("#<eof>") }
func (EOFObject) displayForm(sb *strings.Builder) { sb.WriteString("#<eof>") }

// TheEOF is the single shared EOF object.
var TheEOF = EOFObject{}

// ---- Equality tiers (spec §3) ----

// Eqv implements `eqv?`: identity for heap values, structural equality
// for immediates.
func Eqv(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Boolean:
		return av == b.(Boolean)
	case SmallInt:
		return av == b.(SmallInt)
	case Char:
		return av == b.(Char)
	case Symbol:
		return av == b.(Symbol)
	case Nil:
		return true
	case Unspecified:
		return true
	case EOFObject:
		return true
	case *BigInt:
		return av.Value.Cmp(b.(*BigInt).Value) == 0
	case *Rational:
		return av.Value.Cmp(b.(*Rational).Value) == 0
	case *Real:
		return av.Value == b.(*Real).Value
	case *Complex:
		return av.Value == b.(*Complex).Value
	default:
		// Every other kind is a heap value: eqv? on heap values is
		// identity, mirrored by Eq.
		return Eq(a, b)
	}
}

// Eq implements `eq?`: pointer identity for heap values, value identity
// for immediates. Mutable pairs/strings/vectors etc. compare by Go
// pointer equality, which is exactly the allocation identity the GC
// header tracks.
func Eq(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Boolean, SmallInt, Char, Symbol, Nil, Unspecified, EOFObject:
		return a == b
	default:
		th, aok := traceableOf(av)
		oh, bok := traceableOf(b)
		if aok && bok {
			return th == oh
		}
		return a == b
	}
}

func traceableOf(v Value) (*GCHeader, bool) {
	if t, ok := v.(Traceable); ok {
		return t.gcHeader(), true
	}
	return nil, false
}

// Equal implements `equal?`: deep structural equality, recursing through
// pairs, vectors, strings, and bytevectors; falling back to Eqv elsewhere.
func Equal(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case pairLike:
		bv, ok := b.(pairLike)
		if !ok {
			return false
		}
		return Equal(av.pairCar(), bv.pairCar()) && Equal(av.pairCdr(), bv.pairCdr())
	case *Vector:
		bv := b.(*Vector)
		if len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !Equal(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	case *Bytevector:
		bv := b.(*Bytevector)
		if len(av.Bytes) != len(bv.Bytes) {
			return false
		}
		for i := range av.Bytes {
			if av.Bytes[i] != bv.Bytes[i] {
				return false
			}
		}
		return true
	case StringValue:
		return av.RuneString() == b.(StringValue).RuneString()
	default:
		return Eqv(a, b)
	}
}
