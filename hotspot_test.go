package lambdust

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHotspotCounter_PromoteTo(t *testing.T) {
	h := newHotspotCounter()
	assert.Equal(t, 0, h.currentTier())

	h.promoteTo(1)
	assert.Equal(t, 1, h.currentTier())

	h.promoteTo(2)
	assert.Equal(t, 2, h.currentTier())
}

func TestHotspotCounter_PinsToT0AfterMaxDeopts(t *testing.T) {
	h := newHotspotCounter()
	h.promoteTo(2)

	const maxDeopts = 3
	for i := 0; i < maxDeopts-1; i++ {
		h.recordDeopt(maxDeopts)
		assert.Equal(t, 2, h.currentTier(), "must not pin before crossing maxDeopts")
	}
	h.recordDeopt(maxDeopts)
	assert.Equal(t, 0, h.currentTier(), "must pin to T0 once maxDeopts is crossed")

	h.promoteTo(2)
	assert.Equal(t, 0, h.currentTier(), "a pinned unit never promotes again")
}

func TestMaybePromote_CrossesT1ThresholdAndCompiles(t *testing.T) {
	ev := newTestEvaluator()
	body := lit(SmallInt(1))
	proc := NewClosure(NewFormals(nil, 0, false), []Node{body}, ev.Globals, "const")

	ev.cfg.SetInt("tier.t1_promote_calls", 3)

	maybePromote(ev, proc, 2)
	assert.Nil(t, proc.bc, "must not promote before the threshold")
	assert.Equal(t, 0, proc.hotspot.currentTier())

	maybePromote(ev, proc, 3)
	require.NotNil(t, proc.bc, "crossing the threshold must compile bytecode")
	assert.Equal(t, 1, proc.hotspot.currentTier())
}

func TestMaybePromote_CrossesT2ThresholdAndCompilesNative(t *testing.T) {
	ev := newTestEvaluator()
	body := varRef("n")
	proc := NewClosure(NewFormals([]SymbolID{sym("n")}, 0, false), []Node{body}, ev.Globals, "identity")
	proc.bc = CompileClosure(proc)
	proc.hotspot.promoteTo(1)

	ev.cfg.SetInt("tier.t2_promote_calls", 5)
	maybePromote(ev, proc, 5)

	require.NotNil(t, proc.native, "crossing the T2 threshold must build a native code object")
	assert.Equal(t, 2, proc.hotspot.currentTier())
}

func TestDispatchClosure_FallsBackOnDeopt(t *testing.T) {
	ev := newTestEvaluator()
	body := varRef("n")
	proc := NewClosure(NewFormals([]SymbolID{sym("n")}, 0, false), []Node{body}, ev.Globals, "identity")
	proc.bc = CompileClosure(proc)
	proc.hotspot.promoteTo(2)
	proc.native, _ = compileNative(proc)

	result, err := ev.ApplyValues(proc, []Value{Boolean(true)})
	require.NoError(t, err, "a guard violation must fall back to a lower tier, not surface as an error")
	assert.Equal(t, Boolean(true), result)
	assert.Equal(t, uint32(1), proc.hotspot.deopts)
}
