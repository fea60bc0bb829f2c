package lambdust

import (
	"math/big"
	"strconv"
	"strings"
)

// The numeric tower (spec §3): SmallInt (immediate, see value.go) at the
// bottom, then BigInt, Rational, Real, Complex as heap values. No
// alternative arbitrary-precision library appears anywhere in the
// retrieval pack, so math/big is the one numeric dependency left on the
// standard library (see DESIGN.md).

// BigInt is an exact integer outside the SmallInt range.
type BigInt struct {
	header GCHeader
	Value  *big.Int
}

func NewBigInt(v *big.Int) *BigInt {
	b := &BigInt{Value: v}
	b.header = *newHeader(TagBigInt, 0)
	return b
}

func (*BigInt) Kind() ValueKind                 { return KindBigInt }
func (b *BigInt) gcHeader() *GCHeader           { return &b.header }
func (b *BigInt) traceRefs(func(Traceable))     {}
func (b *BigInt) writeForm(sb *strings.Builder) { sb.WriteString(b.Value.String()) }
func (b *BigInt) displayForm(sb *strings.Builder) { b.writeForm(sb) }

// normalizeBigInt demotes a BigInt back to SmallInt when it fits, which
// keeps arithmetic results canonical (spec's numeric tower contagion
// rules never mandate a non-minimal representation).
func normalizeBigInt(v *big.Int) Value {
	if v.IsInt64() {
		return SmallInt(v.Int64())
	}
	return NewBigInt(v)
}

// Rational is an exact non-integer ratio.
type Rational struct {
	header GCHeader
	Value  *big.Rat
}

func NewRational(v *big.Rat) Value {
	if v.IsInt() {
		return normalizeBigInt(new(big.Int).Set(v.Num()))
	}
	r := &Rational{Value: v}
	r.header = *newHeader(TagRational, 0)
	return r
}

func (*Rational) Kind() ValueKind                   { return KindRational }
func (r *Rational) gcHeader() *GCHeader             { return &r.header }
func (r *Rational) traceRefs(func(Traceable))       {}
func (r *Rational) writeForm(sb *strings.Builder)   { sb.WriteString(r.Value.RatString()) }
func (r *Rational) displayForm(sb *strings.Builder) { r.writeForm(sb) }

// Real is an inexact (floating point) number.
type Real struct {
	header GCHeader
	Value  float64
}

func NewReal(v float64) *Real {
	r := &Real{Value: v}
	r.header = *newHeader(TagRational, 0)
	return r
}

func (*Real) Kind() ValueKind             { return KindReal }
func (r *Real) gcHeader() *GCHeader       { return &r.header }
func (r *Real) traceRefs(func(Traceable)) {}
func (r *Real) writeForm(sb *strings.Builder) {
	sb.WriteString(strconv.FormatFloat(r.Value, 'g', -1, 64))
}
func (r *Real) displayForm(sb *strings.Builder) { r.writeForm(sb) }

// Complex is an inexact complex number.
type Complex struct {
	header GCHeader
	Value  complex128
}

func NewComplex(v complex128) *Complex {
	c := &Complex{Value: v}
	c.header = *newHeader(TagComplex, 0)
	return c
}

func (*Complex) Kind() ValueKind             { return KindComplex }
func (c *Complex) gcHeader() *GCHeader       { return &c.header }
func (c *Complex) traceRefs(func(Traceable)) {}
func (c *Complex) writeForm(sb *strings.Builder) {
	re, im := real(c.Value), imag(c.Value)
	sb.WriteString(strconv.FormatFloat(re, 'g', -1, 64))
	if im >= 0 {
		sb.WriteByte('+')
	}
	sb.WriteString(strconv.FormatFloat(im, 'g', -1, 64))
	sb.WriteByte('i')
}
func (c *Complex) displayForm(sb *strings.Builder) { c.writeForm(sb) }

// numericTier orders the tower so Add/Sub/etc can find the lowest common
// tier two operands must be promoted to before combining them.
type numericTier int

const (
	tierSmallInt numericTier = iota
	tierBigInt
	tierRational
	tierReal
	tierComplex
)

func tierOf(v Value) (numericTier, bool) {
	switch v.(type) {
	case SmallInt:
		return tierSmallInt, true
	case *BigInt:
		return tierBigInt, true
	case *Rational:
		return tierRational, true
	case *Real:
		return tierReal, true
	case *Complex:
		return tierComplex, true
	default:
		return 0, false
	}
}

func toBigInt(v Value) *big.Int {
	switch n := v.(type) {
	case SmallInt:
		return big.NewInt(int64(n))
	case *BigInt:
		return n.Value
	}
	panic("lambdust: toBigInt on non-integer")
}

func toRat(v Value) *big.Rat {
	switch n := v.(type) {
	case SmallInt:
		return new(big.Rat).SetInt64(int64(n))
	case *BigInt:
		return new(big.Rat).SetInt(n.Value)
	case *Rational:
		return n.Value
	}
	panic("lambdust: toRat on non-exact-rational value")
}

func toFloat(v Value) float64 {
	switch n := v.(type) {
	case SmallInt:
		return float64(n)
	case *BigInt:
		f := new(big.Float).SetInt(n.Value)
		out, _ := f.Float64()
		return out
	case *Rational:
		out, _ := new(big.Float).SetRat(n.Value).Float64()
		return out
	case *Real:
		return n.Value
	}
	panic("lambdust: toFloat on non-real value")
}

func toComplex(v Value) complex128 {
	if c, ok := v.(*Complex); ok {
		return c.Value
	}
	return complex(toFloat(v), 0)
}

// NumAdd implements generic addition across the tower, promoting to the
// higher tier of the two operands (R7RS exact/inexact contagion).
func NumAdd(a, b Value) (Value, error) {
	return numBinop(a, b, "+",
		func(x, y int64) (Value, bool) {
			s := x + y
			if (x > 0 && y > 0 && s < 0) || (x < 0 && y < 0 && s > 0) {
				return nil, false
			}
			return SmallInt(s), true
		},
		func(x, y *big.Int) Value { return normalizeBigInt(new(big.Int).Add(x, y)) },
		func(x, y *big.Rat) Value { return NewRational(new(big.Rat).Add(x, y)) },
		func(x, y float64) Value { return NewReal(x + y) },
		func(x, y complex128) Value { return NewComplex(x + y) },
	)
}

// NumSub implements generic subtraction across the tower.
func NumSub(a, b Value) (Value, error) {
	return numBinop(a, b, "-",
		func(x, y int64) (Value, bool) {
			s := x - y
			if (x >= 0 && y < 0 && s < 0) || (x < 0 && y > 0 && s > 0) {
				return nil, false
			}
			return SmallInt(s), true
		},
		func(x, y *big.Int) Value { return normalizeBigInt(new(big.Int).Sub(x, y)) },
		func(x, y *big.Rat) Value { return NewRational(new(big.Rat).Sub(x, y)) },
		func(x, y float64) Value { return NewReal(x - y) },
		func(x, y complex128) Value { return NewComplex(x - y) },
	)
}

// NumMul implements generic multiplication across the tower.
func NumMul(a, b Value) (Value, error) {
	return numBinop(a, b, "*",
		func(x, y int64) (Value, bool) {
			if x == 0 || y == 0 {
				return SmallInt(0), true
			}
			p := x * y
			if p/y != x || (x < 0 && y < 0 && p < 0) {
				return nil, false
			}
			return SmallInt(p), true
		},
		func(x, y *big.Int) Value { return normalizeBigInt(new(big.Int).Mul(x, y)) },
		func(x, y *big.Rat) Value { return NewRational(new(big.Rat).Mul(x, y)) },
		func(x, y float64) Value { return NewReal(x * y) },
		func(x, y complex128) Value { return NewComplex(x * y) },
	)
}

// NumDiv implements generic division; exact/exact division that isn't
// exact stays exact as a Rational (R7RS `/` never silently loses
// exactness unless an operand already was inexact).
func NumDiv(a, b Value) (Value, error) {
	at, aok := tierOf(a)
	bt, bok := tierOf(b)
	if !aok || !bok {
		return nil, TypeErrorf("/: expected numbers, got %s and %s", writeString(a), writeString(b))
	}
	tier := at
	if bt > tier {
		tier = bt
	}
	if tier == tierReal {
		return NewReal(toFloat(a) / toFloat(b)), nil
	}
	if tier == tierComplex {
		return NewComplex(toComplex(a) / toComplex(b)), nil
	}
	ra, rb := toRat(a), toRat(b)
	if rb.Sign() == 0 {
		return nil, TypeErrorf("/: division by exact zero")
	}
	return NewRational(new(big.Rat).Quo(ra, rb)), nil
}

func numBinop(
	a, b Value,
	op string,
	small func(x, y int64) (Value, bool),
	bigOp func(x, y *big.Int) Value,
	ratOp func(x, y *big.Rat) Value,
	realOp func(x, y float64) Value,
	complexOp func(x, y complex128) Value,
) (Value, error) {
	at, aok := tierOf(a)
	bt, bok := tierOf(b)
	if !aok || !bok {
		return nil, TypeErrorf("%s: expected numbers, got %s and %s", op, writeString(a), writeString(b))
	}
	tier := at
	if bt > tier {
		tier = bt
	}
	switch tier {
	case tierSmallInt:
		if v, ok := small(int64(a.(SmallInt)), int64(b.(SmallInt))); ok {
			return v, nil
		}
		return bigOp(toBigInt(a), toBigInt(b)), nil
	case tierBigInt:
		return bigOp(toBigInt(a), toBigInt(b)), nil
	case tierRational:
		return ratOp(toRat(a), toRat(b)), nil
	case tierReal:
		return realOp(toFloat(a), toFloat(b)), nil
	case tierComplex:
		return complexOp(toComplex(a), toComplex(b)), nil
	}
	return nil, TypeErrorf("%s: unreachable numeric tier", op)
}

// NumCompare returns -1/0/1 for exact-or-inexact real comparisons; it is
// an error to compare complex numbers with an ordering relation.
func NumCompare(a, b Value) (int, error) {
	at, aok := tierOf(a)
	bt, bok := tierOf(b)
	if !aok || !bok {
		return 0, TypeErrorf("expected numbers, got %s and %s", writeString(a), writeString(b))
	}
	if at == tierComplex || bt == tierComplex {
		return 0, TypeErrorf("complex numbers have no ordering")
	}
	tier := at
	if bt > tier {
		tier = bt
	}
	switch tier {
	case tierSmallInt:
		x, y := int64(a.(SmallInt)), int64(b.(SmallInt))
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		default:
			return 0, nil
		}
	case tierBigInt:
		return toBigInt(a).Cmp(toBigInt(b)), nil
	case tierRational:
		return toRat(a).Cmp(toRat(b)), nil
	case tierReal:
		x, y := toFloat(a), toFloat(b)
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		default:
			return 0, nil
		}
	}
	return 0, TypeErrorf("unreachable numeric tier")
}

// IsExact reports whether v's tier carries no rounding error.
func IsExact(v Value) bool {
	switch v.(type) {
	case SmallInt, *BigInt, *Rational:
		return true
	default:
		return false
	}
}

func (k ValueKind) String() string {
	names := [...]string{
		"boolean", "small-int", "char", "symbol", "nil", "unspecified", "eof",
		"big-int", "rational", "real", "complex", "string", "pair", "vector",
		"bytevector", "hash-table", "set", "bag", "deque", "queue", "closure",
		"primitive", "continuation", "port", "promise", "record", "record-type",
		"parameter", "error-object", "char-set", "foreign",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}
