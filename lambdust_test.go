package lambdust

import "sync/atomic"

// newTestEvaluator builds a standalone Evaluator wired the way an
// embedder would wire one, for tests that need a full
// machine rather than a single package's internals.
func newTestEvaluator() *Evaluator {
	cfg := NewConfig()
	heap := NewHeap(cfg)
	globals := NewSharedFrame(nil)
	prims := NewStandardPrimitives()
	prims.InstallInto(globals)
	return NewEvaluator(nextTestMutatorID(), heap, globals, NewMacroEnv(), prims, cfg)
}

var testMutatorCounter int64

func nextTestMutatorID() int64 {
	return atomic.AddInt64(&testMutatorCounter, 1)
}

func sym(name string) SymbolID { return Intern(name) }

func lit(v Value) Node { return &LiteralNode{Datum: v} }

func varRef(name string) Node { return &VarRefNode{Name: sym(name)} }

func apply(op Node, args ...Node) Node { return &ApplyNode{Operator: op, Operands: args} }

func lambda1(params []string, body ...Node) *LambdaNode {
	fixed := make([]SymbolID, len(params))
	for i, p := range params {
		fixed[i] = sym(p)
	}
	return &LambdaNode{Params: NewFormals(fixed, 0, false), Body: body}
}
