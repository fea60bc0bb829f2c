package lambdust

import (
	"sync"

	"github.com/google/uuid"
)

// RootSet tracks every GC root the collector must scan from: top-level
// environment frames, each mutator's live evaluator frame chain, the
// continuation registry (frame chains registered under a uuid key), and
// pinned globals. callCC does not register the continuations it
// captures; they stay reachable only through the values that hold them.
// Macro-expansion state is not a root. Spec §4.4: "Roots: top-level
// environment(s), each mutator's call stack / continuation chain,
// registered global handles."
type RootSet struct {
	mu sync.RWMutex

	envs           map[*SharedFrame]struct{}
	mutatorFrames  map[int64]*Frame
	continuations  map[uuid.UUID]*Frame
	globals        []Traceable
}

func NewRootSet() *RootSet {
	return &RootSet{
		envs:          make(map[*SharedFrame]struct{}),
		mutatorFrames: make(map[int64]*Frame),
		continuations: make(map[uuid.UUID]*Frame),
	}
}

func (r *RootSet) RegisterEnv(env *SharedFrame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.envs[env] = struct{}{}
}

func (r *RootSet) UnregisterEnv(env *SharedFrame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.envs, env)
}

// SetMutatorFrame records mutator's currently live continuation-frame
// chain, replacing whatever was recorded before; called once per eval
// step so a GC that interrupts mid-trampoline still sees every
// reachable frame.
func (r *RootSet) SetMutatorFrame(mutator int64, top *Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mutatorFrames[mutator] = top
}

func (r *RootSet) RemoveMutator(mutator int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.mutatorFrames, mutator)
}

// RegisterContinuation keeps a captured continuation's frame chain
// reachable under a stable key for as long as Scheme code can still hold
// (and invoke) the Continuation value wrapping it.
func (r *RootSet) RegisterContinuation(id uuid.UUID, frame *Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.continuations[id] = frame
}

func (r *RootSet) ForgetContinuation(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.continuations, id)
}

// RegisterGlobal pins a Traceable (e.g. an interned symbol table entry's
// payload, or a builtin primitive closure) as permanently reachable.
func (r *RootSet) RegisterGlobal(t Traceable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.globals = append(r.globals, t)
}

// Walk visits every root currently registered, handing each to visit so
// a collection cycle can mark/trace from it.
func (r *RootSet) Walk(visit func(Traceable)) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for env := range r.envs {
		env.traceRefs(visit)
	}
	for _, top := range r.mutatorFrames {
		for f := top; f != nil; f = f.Next {
			f.traceRefs(visit)
		}
	}
	for _, top := range r.continuations {
		for f := top; f != nil; f = f.Next {
			f.traceRefs(visit)
		}
	}
	for _, g := range r.globals {
		visit(g)
	}
}
