package lambdust

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileNative_DeclinesWithoutBytecodeOrFixedParams(t *testing.T) {
	ev := newTestEvaluator()

	noBC := NewClosure(NewFormals([]SymbolID{sym("n")}, 0, false), []Node{varRef("n")}, ev.Globals, "f")
	_, ok := compileNative(noBC)
	assert.False(t, ok, "a unit that hasn't reached T1 has nothing to specialize")

	restOnly := NewClosure(NewFormals(nil, sym("args"), true), []Node{varRef("args")}, ev.Globals, "g")
	restOnly.bc = CompileClosure(restOnly)
	_, ok = compileNative(restOnly)
	assert.False(t, ok, "a variadic closure has no fixed parameter to guard")

	zeroArg := NewClosure(NewFormals(nil, 0, false), []Node{lit(SmallInt(1))}, ev.Globals, "h")
	zeroArg.bc = CompileClosure(zeroArg)
	_, ok = compileNative(zeroArg)
	assert.False(t, ok, "nothing to guard with zero fixed parameters")
}

func TestCompileNative_GuardsEveryFixedParam(t *testing.T) {
	ev := newTestEvaluator()
	proc := NewClosure(NewFormals([]SymbolID{sym("a"), sym("b")}, 0, false), []Node{varRef("a")}, ev.Globals, "f")
	proc.bc = CompileClosure(proc)

	native, ok := compileNative(proc)
	require.True(t, ok)
	require.Len(t, native.Guards, 2)
	for _, g := range native.Guards {
		assert.Equal(t, KindSmallInt, g.Expect)
	}
}

func TestCheckGuards(t *testing.T) {
	guards := []TypeGuard{{ArgIndex: 0, Expect: KindSmallInt}}

	err := checkGuards(guards, []Value{SmallInt(5)})
	assert.NoError(t, err)

	err = checkGuards(guards, []Value{Boolean(true)})
	require.Error(t, err)
	_, ok := err.(*deoptError)
	assert.True(t, ok, "a failing guard must report a *deoptError, nothing else")
}

func TestRunNativeTier_GuardHoldsAndFails(t *testing.T) {
	ev := newTestEvaluator()
	proc := NewClosure(NewFormals([]SymbolID{sym("n")}, 0, false), []Node{varRef("n")}, ev.Globals, "identity")
	proc.bc = CompileClosure(proc)
	proc.native, _ = compileNative(proc)

	v, err := runNativeTier(ev, proc, []Value{SmallInt(9)})
	require.NoError(t, err)
	assert.Equal(t, SmallInt(9), v)

	_, err = runNativeTier(ev, proc, []Value{Boolean(false)})
	require.Error(t, err)
	assert.True(t, isDeopt(err))
}

func TestOptimizeBytecode_NeutralizesDeadLoadPop(t *testing.T) {
	prog := &BytecodeProgram{
		Instructions: []Instruction{
			{Op: OpLoadConst, A: 0},
			{Op: OpPop},
			{Op: OpLoadConst, A: 1},
			{Op: OpReturn},
		},
		Constants: []Value{SmallInt(1), SmallInt(2)},
	}

	out := optimizeBytecode(prog)
	require.Len(t, out.Instructions, len(prog.Instructions), "instruction count (and hence every jump offset) must be preserved")
	assert.Equal(t, OpSafepoint, out.Instructions[0].Op)
	assert.Equal(t, OpSafepoint, out.Instructions[1].Op)
	assert.Equal(t, OpLoadConst, out.Instructions[2].Op, "a load that feeds a real use must survive untouched")
	assert.Equal(t, OpReturn, out.Instructions[3].Op)
}

func TestOptimizeBytecode_PreservesJumpTargets(t *testing.T) {
	// if #f (dead branch never reached at runtime, but the compiler still
	// emits both arms): the branch/jump offsets must still land correctly
	// after an unrelated dead load/pop pair earlier in the stream is
	// neutralized.
	prog := &BytecodeProgram{
		Instructions: []Instruction{
			{Op: OpLoadConst, A: 0}, // dead: loaded then popped
			{Op: OpPop},
			{Op: OpLoadConst, A: 1}, // the actual test value
			{Op: OpBranchIfFalse, A: 3},
			{Op: OpLoadConst, A: 2}, // then-branch
			{Op: OpJump, A: 2},
			{Op: OpLoadConst, A: 3}, // else-branch, branch target
			{Op: OpReturn},
		},
		Constants: []Value{SmallInt(9), Boolean(false), SmallInt(1), SmallInt(2)},
	}
	out := optimizeBytecode(prog)
	require.Len(t, out.Instructions, len(prog.Instructions))

	// branch at index 3 targets 3+3=6 (else-branch); jump at index 5
	// targets 5+2=7 (OpReturn) — unchanged, since the pass never deletes
	// anything.
	assert.Equal(t, int32(3), out.Instructions[3].A)
	assert.Equal(t, int32(2), out.Instructions[5].A)
}
