package lambdust

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countdownClosure builds a self-tail-recursive closure equivalent to
//
//	(define (countdown n acc) (if (zero? n) acc (countdown (- n 1) (+ acc 1))))
//
// registered under its own name in globals so the body's self-call
// resolves like any ordinary global reference, the shape spec §8
// property 1 and property 8 (tier equivalence) both exercise.
func countdownClosure(globals *SharedFrame) *Closure {
	body := &IfNode{
		Test: apply(varRef("zero?"), varRef("n")),
		Then: varRef("acc"),
		Else: apply(varRef("countdown"),
			apply(varRef("-"), varRef("n"), lit(SmallInt(1))),
			apply(varRef("+"), varRef("acc"), lit(SmallInt(1)))),
	}
	c := NewClosure(lambda1([]string{"n", "acc"}, body).Params, []Node{body}, globals, "countdown")
	globals.Define(sym("countdown"), c)
	return c
}

func TestRunBytecode_TierEquivalence(t *testing.T) {
	tests := []struct {
		name string
		n    int64
	}{
		{"zero", 0},
		{"small", 5},
		{"moderate", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := newTestEvaluator()
			proc := countdownClosure(ev.Globals)

			t0, err := ev.ApplyValues(proc, []Value{SmallInt(tt.n), SmallInt(0)})
			require.NoError(t, err)

			proc.bc = CompileClosure(proc)
			t1, err := RunBytecode(ev, proc, []Value{SmallInt(tt.n), SmallInt(0)})
			require.NoError(t, err)

			assert.Equal(t, t0, t1, "T0 and T1 must agree on countdown(%d)", tt.n)
			assert.Equal(t, SmallInt(tt.n), t1)
		})
	}
}

// TestRunBytecode_SelfTailCallDoesNotRecurse exercises the loop-restart
// path in runVMFrame's OpTailCall case: a large n must return without
// blowing the Go stack, since a same-program tail call resets pc/locals
// in place rather than delegating to ApplyValues.
func TestRunBytecode_SelfTailCallDoesNotRecurse(t *testing.T) {
	ev := newTestEvaluator()
	proc := countdownClosure(ev.Globals)
	proc.bc = CompileClosure(proc)

	result, err := RunBytecode(ev, proc, []Value{SmallInt(200000), SmallInt(0)})
	require.NoError(t, err)
	assert.Equal(t, SmallInt(200000), result)
}

func TestRunBytecode_IfBranching(t *testing.T) {
	ev := newTestEvaluator()
	body := &IfNode{
		Test: varRef("flag"),
		Then: lit(SmallInt(1)),
		Else: lit(SmallInt(2)),
	}
	proc := NewClosure(NewFormals([]SymbolID{sym("flag")}, 0, false), []Node{body}, ev.Globals, "pick")
	proc.bc = CompileClosure(proc)

	v, err := RunBytecode(ev, proc, []Value{Boolean(true)})
	require.NoError(t, err)
	assert.Equal(t, SmallInt(1), v)

	v, err = RunBytecode(ev, proc, []Value{Boolean(false)})
	require.NoError(t, err)
	assert.Equal(t, SmallInt(2), v)
}
