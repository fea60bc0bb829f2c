package lambdust

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEval_FactorialRecursion exercises spec §8's end-to-end factorial
// scenario: a self-recursive procedure computing 10! through the
// evaluator's ordinary (non-bytecode) trampoline.
func TestEval_FactorialRecursion(t *testing.T) {
	ev := newTestEvaluator()

	body := &IfNode{
		Test: apply(varRef("zero?"), varRef("n")),
		Then: lit(SmallInt(1)),
		Else: apply(varRef("*"), varRef("n"),
			apply(varRef("fact"), apply(varRef("-"), varRef("n"), lit(SmallInt(1))))),
	}
	fact := NewClosure(NewFormals([]SymbolID{sym("n")}, 0, false), []Node{body}, ev.Globals, "fact")
	ev.Globals.Define(sym("fact"), fact)

	result, err := ev.Eval(apply(varRef("fact"), lit(SmallInt(10))), ev.Globals)
	require.NoError(t, err)
	assert.Equal(t, SmallInt(3628800), result)
}

// TestEval_LetrecMutualRecursion exercises letrec's pre-bound child
// frame: two mutually recursive lambdas must each see the other's name
// before either body runs.
func TestEval_LetrecMutualRecursion(t *testing.T) {
	ev := newTestEvaluator()

	isEven := &LambdaNode{
		Params: NewFormals([]SymbolID{sym("n")}, 0, false),
		Body: []Node{&IfNode{
			Test: apply(varRef("zero?"), varRef("n")),
			Then: lit(Boolean(true)),
			Else: apply(varRef("odd?"), apply(varRef("-"), varRef("n"), lit(SmallInt(1)))),
		}},
	}
	isOdd := &LambdaNode{
		Params: NewFormals([]SymbolID{sym("n")}, 0, false),
		Body: []Node{&IfNode{
			Test: apply(varRef("zero?"), varRef("n")),
			Then: lit(Boolean(false)),
			Else: apply(varRef("even?"), apply(varRef("-"), varRef("n"), lit(SmallInt(1)))),
		}},
	}
	expr := &LetrecNode{
		Bindings: []BindingClause{
			{Name: sym("even?"), Init: isEven},
			{Name: sym("odd?"), Init: isOdd},
		},
		Body: []Node{apply(varRef("even?"), lit(SmallInt(10)))},
	}

	result, err := ev.Eval(expr, ev.Globals)
	require.NoError(t, err)
	assert.Equal(t, Boolean(true), result)
}

// TestEval_CallCCShortCircuits exercises call/cc escaping a computation
// early: (+ 1 (call/cc (lambda (k) (k 4) 100))) must discard the dead
// 100 and evaluate to 5.
func TestEval_CallCCShortCircuits(t *testing.T) {
	ev := newTestEvaluator()

	escape := &LambdaNode{
		Params: NewFormals([]SymbolID{sym("k")}, 0, false),
		Body:   []Node{apply(varRef("k"), lit(SmallInt(4))), lit(SmallInt(100))},
	}
	expr := apply(varRef("+"), lit(SmallInt(1)), apply(varRef("call/cc"), escape))

	result, err := ev.Eval(expr, ev.Globals)
	require.NoError(t, err)
	assert.Equal(t, SmallInt(5), result)
}

// TestEval_DynamicWindRunsBeforeDuringAfterInOrder exercises spec §8's
// dynamic-wind scenario: before/during/after thunks run in that order
// even though `during` itself is just a plain call, not an escape.
func TestEval_DynamicWindRunsBeforeDuringAfterInOrder(t *testing.T) {
	ev := newTestEvaluator()

	var log []string
	ev.Prims.Register(NewPrimitive("log!", 1, 1, []EffectTag{EffectIO}, func(args []Value) (Value, error) {
		s, ok := args[0].(*InternedString)
		if !ok {
			return nil, TypeErrorf("log!: not a string")
		}
		log = append(log, s.RuneString())
		return TheUnspecified, nil
	}))
	ev.Prims.InstallInto(ev.Globals)

	thunk := func(tag string) Node {
		return &LambdaNode{Body: []Node{apply(varRef("log!"), lit(InternString(tag)))}}
	}
	expr := apply(varRef("dynamic-wind"), thunk("before"), thunk("during"), thunk("after"))

	_, err := ev.Eval(expr, ev.Globals)
	require.NoError(t, err)
	assert.Equal(t, []string{"before", "during", "after"}, log)
}

// TestEval_PromiseMemoizesItsThunk exercises spec §8's promise/counter
// scenario: forcing the same Delayed promise twice must only evaluate
// its body once.
func TestEval_PromiseMemoizesItsThunk(t *testing.T) {
	ev := newTestEvaluator()
	ev.Globals.Define(sym("counter"), SmallInt(0))

	delay := &DelayNode{Expr: &BeginNode{Body: []Node{
		&SetBangNode{Name: sym("counter"), Value: apply(varRef("+"), varRef("counter"), lit(SmallInt(1)))},
		varRef("counter"),
	}}}

	promiseVal, err := ev.Eval(delay, ev.Globals)
	require.NoError(t, err)
	promise, ok := promiseVal.(*Promise)
	require.True(t, ok)

	forceProc, ok := ev.Globals.Lookup(sym("force"))
	require.True(t, ok)

	first, err := ev.ApplyValues(forceProc, []Value{promise})
	require.NoError(t, err)
	assert.Equal(t, SmallInt(1), first)

	second, err := ev.ApplyValues(forceProc, []Value{promise})
	require.NoError(t, err)
	assert.Equal(t, SmallInt(1), second, "re-forcing a memoized promise must not re-run its thunk")

	counter, ok := ev.Globals.Lookup(sym("counter"))
	require.True(t, ok)
	assert.Equal(t, SmallInt(1), counter, "the thunk body must have run exactly once")
}
