package lambdust

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// EffectTag is one of a primitive's declared effect classes (spec §6:
// "effect set (pure, state, IO, error, custom)"). Tags are recorded on
// each Primitive; the evaluator does not consult them, and there is no
// effect context through which a handler could intercept an effect.
type EffectTag uint8

const (
	EffectPure EffectTag = iota
	EffectState
	EffectIO
	EffectErrorRaising
	EffectCustom
)

func (e EffectTag) String() string {
	switch e {
	case EffectPure:
		return "pure"
	case EffectState:
		return "state"
	case EffectIO:
		return "io"
	case EffectErrorRaising:
		return "error"
	case EffectCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Closure is a user-defined procedure: parameters, body, and the
// environment captured at creation time (spec §3's "procedures
// (closures and primitives)"). Tier dispatch info (hotspot counters,
// compiled bytecode/native bodies) lives alongside it so a call site
// only needs the Closure to pick a tier, per §4.3.
type Closure struct {
	header GCHeader

	Params Formals
	Body   []Node
	Env    *SharedFrame
	Name   string

	hotspot *hotspotCounter
	bc      *BytecodeProgram // set once T1-compiled; nil until promoted
	native  *NativeCodeObject // set once T2-compiled; nil until promoted
}

func NewClosure(params Formals, body []Node, env *SharedFrame, name string) *Closure {
	c := &Closure{Params: params, Body: body, Env: env, Name: name, hotspot: newHotspotCounter()}
	c.header = *newHeader(TagClosure, 0)
	return c
}

func (*Closure) Kind() ValueKind       { return KindClosure }
func (c *Closure) gcHeader() *GCHeader { return &c.header }

func (c *Closure) traceRefs(visit func(Traceable)) {
	if c.Env != nil {
		visit(c.Env)
	}
	if c.bc != nil {
		c.bc.traceRefs(visit)
	}
}

func (c *Closure) writeForm(sb *strings.Builder) {
	name := c.Name
	if name == "" {
		name = "anonymous"
	}
	fmt.Fprintf(sb, "#<closure %s>", name)
}
func (c *Closure) displayForm(sb *strings.Builder) { c.writeForm(sb) }

// Arity reports whether n arguments satisfy this closure's formals.
func (c *Closure) Arity(n int) bool {
	if c.Params.HasRest {
		return n >= len(c.Params.Fixed)
	}
	return n == len(c.Params.Fixed)
}

// PrimitiveFunc is the "pure Go-level function of []Value -> Value"
// implementation kind from spec §6.
type PrimitiveFunc func(args []Value) (Value, error)

// EvaluatorPrimitiveFunc is the "evaluator-integrated variant" spec §6
// requires for higher-order primitives (apply, map, for-each, ...): it
// receives the evaluator so it can drive further trampoline steps rather
// than returning a plain value immediately.
type EvaluatorPrimitiveFunc func(ev *Evaluator, args []Value) (Value, error)

// Primitive is a builtin procedure: name, arity bounds, effect set, and
// exactly one of the two implementation kinds (spec §6).
type Primitive struct {
	header GCHeader

	Name      string
	MinArity  int
	MaxArity  int // -1 means unbounded
	Effects   []EffectTag
	Fn        PrimitiveFunc          // nil if EvalFn is set
	EvalFn    EvaluatorPrimitiveFunc // nil if Fn is set
}

func NewPrimitive(name string, min, max int, effects []EffectTag, fn PrimitiveFunc) *Primitive {
	p := &Primitive{Name: name, MinArity: min, MaxArity: max, Effects: effects, Fn: fn}
	p.header = *newHeader(TagPrimitive, 0)
	return p
}

func NewEvaluatorPrimitive(name string, min, max int, effects []EffectTag, fn EvaluatorPrimitiveFunc) *Primitive {
	p := &Primitive{Name: name, MinArity: min, MaxArity: max, Effects: effects, EvalFn: fn}
	p.header = *newHeader(TagPrimitive, 0)
	return p
}

func (*Primitive) Kind() ValueKind             { return KindPrimitive }
func (p *Primitive) gcHeader() *GCHeader       { return &p.header }
func (p *Primitive) traceRefs(func(Traceable)) {}
func (p *Primitive) writeForm(sb *strings.Builder) {
	fmt.Fprintf(sb, "#<primitive %s>", p.Name)
}
func (p *Primitive) displayForm(sb *strings.Builder) { p.writeForm(sb) }

// CheckArity validates got against the primitive's declared bounds,
// producing the ArityErrorf the primitive dispatch layer returns.
func (p *Primitive) CheckArity(got int) error {
	if got < p.MinArity || (p.MaxArity >= 0 && got > p.MaxArity) {
		return ArityErrorf(p.Name, p.MinArity, p.MaxArity, got)
	}
	return nil
}

// hotspotCounter is a closure's execution profile: a call count, its
// current tier, and a deopt count. It keeps no totals of time spent or
// allocations. See hotspot.go for the promotion policy that consumes it.
type hotspotCounter struct {
	calls  uint64
	tier   int32 // 0, 1, or 2
	deopts uint32
	pinned int32 // 1 once deopts crossed tier.max_deopts_before_permanent_t0
}

func newHotspotCounter() *hotspotCounter { return &hotspotCounter{} }

func (h *hotspotCounter) recordCall() uint64 { return atomic.AddUint64(&h.calls, 1) }
func (h *hotspotCounter) currentTier() int   { return int(atomic.LoadInt32(&h.tier)) }

// promoteTo moves the unit to tier unless it has been pinned to T0 by
// repeated deoptimization (spec §4.3's "Terminal states are T0
// (permanent) when a unit has repeatedly deoptimized beyond a bound").
func (h *hotspotCounter) promoteTo(tier int) {
	if atomic.LoadInt32(&h.pinned) == 1 {
		return
	}
	atomic.StoreInt32(&h.tier, int32(tier))
}

// recordDeopt counts one deoptimization and, once maxDeopts is crossed,
// pins the unit to T0 permanently.
func (h *hotspotCounter) recordDeopt(maxDeopts int) {
	n := atomic.AddUint32(&h.deopts, 1)
	if int(n) >= maxDeopts {
		atomic.StoreInt32(&h.pinned, 1)
		atomic.StoreInt32(&h.tier, 0)
	}
}
