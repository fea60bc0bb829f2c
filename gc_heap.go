package lambdust

import (
	"sync"
	"sync/atomic"
)

// Heap is the allocator and bookkeeping layer described in spec §4.4. It
// does not implement its own memory management: every Value is an
// ordinary Go pointer, and actual reclamation is left to the Go runtime's
// own collector. What Heap adds on top is the spec's generational
// protocol as instrumentation — TLAB-style per-mutator allocation
// counters, the young/old/permanent generation labels on each GCHeader,
// the write barrier that feeds the remembered set, and the statistics a
// minor/major collection cycle consults. This mirrors the teacher's own
// choice to keep its `Database` cache a bookkeeping layer over maps it
// does not otherwise reimplement.
type Heap struct {
	cfg *Config

	mu        sync.Mutex
	tlabs     map[int64]*tlab
	remembered map[*GCHeader]struct{}
	mutators  map[int64]struct{}

	stats HeapStats

	roots *RootSet
}

// tlab is a thread-local allocation buffer: a per-mutator byte budget
// that must be replenished before further young-generation allocation,
// mirroring the spec's TLAB requirement without actually carving up a
// real arena (Go's allocator already does that for us).
type tlab struct {
	remaining int
	size      int
}

// HeapStats accumulates the counters gc_stats.go's reporting API reads.
type HeapStats struct {
	MinorCollections uint64
	MajorCollections uint64
	BytesAllocated   uint64
	ObjectsAllocated uint64
	ObjectsPromoted  uint64
	WriteBarrierHits uint64
}

func NewHeap(cfg *Config) *Heap {
	return &Heap{
		cfg:        cfg,
		tlabs:      make(map[int64]*tlab),
		remembered: make(map[*GCHeader]struct{}),
		mutators:   make(map[int64]struct{}),
		roots:      NewRootSet(),
	}
}

// RegisterMutator adds mutator to the set of threads the collector must
// wait on at a safepoint rendezvous (spec §4.4's "register-thread"
// bookkeeping operation). Called once by NewEvaluator.
func (h *Heap) RegisterMutator(mutator int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.mutators[mutator] = struct{}{}
}

// UnregisterMutator removes mutator from the registered set ("unregister-
// thread"), e.g. once an Evaluator is done and will call Eval no more.
func (h *Heap) UnregisterMutator(mutator int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.mutators, mutator)
	h.roots.RemoveMutator(mutator)
}

// MutatorCount reports how many mutators are currently registered, the
// expected-parked count a stop-the-world phase waits for.
func (h *Heap) MutatorCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.mutators)
}

// Alloc registers a freshly constructed Traceable with the heap's
// bookkeeping: it charges the calling mutator's TLAB, updates allocation
// statistics, and re-tags the header Old when its Size reaches
// gc.large_object_threshold_bytes (otherwise the Young tag newHeader gave
// it stays). No value constructor in this package calls it; they build
// headers with `newHeader` alone, so TLAB budgets and allocation counters
// cover only objects passed here explicitly.
func (h *Heap) Alloc(mutator int64, t Traceable) {
	hdr := t.gcHeader()
	h.chargeTLAB(mutator, int(hdr.Size)+tlabBaseOverhead)

	atomic.AddUint64(&h.stats.BytesAllocated, uint64(hdr.Size)+tlabBaseOverhead)
	atomic.AddUint64(&h.stats.ObjectsAllocated, 1)

	large := int(hdr.Size) >= h.cfg.GetInt("gc.large_object_threshold_bytes")
	if large {
		h.mu.Lock()
		hdr.gen = GenOld
		h.mu.Unlock()
	}
}

const tlabBaseOverhead = 16

func (h *Heap) chargeTLAB(mutator int64, n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.tlabs[mutator]
	if !ok {
		t = &tlab{size: h.cfg.GetInt("gc.tlab_size_bytes")}
		t.remaining = t.size
		h.tlabs[mutator] = t
	}
	t.remaining -= n
	if t.remaining < 0 {
		t.remaining = t.size
	}
}

// writeBarrier records an old-to-young pointer in the remembered set, per
// spec §4.4's "Write barrier: recorded whenever an old-generation object
// is mutated to point at a young-generation object" requirement. Called
// by MutablePair.SetCar/SetCdr and Vector.Set; the Set, Bag, Deque and
// Queue mutators do not call it.
func (h *Heap) writeBarrier(owner *GCHeader, newValue Value) {
	if owner.Generation() != GenOld {
		return
	}
	target, ok := traceableOf(newValue)
	if !ok || target.Generation() != GenYoung {
		return
	}
	atomic.AddUint64(&h.stats.WriteBarrierHits, 1)
	h.mu.Lock()
	h.remembered[owner] = struct{}{}
	h.mu.Unlock()
}

// RememberedRoots returns the old-generation headers currently recorded
// by the write barrier. MinorCollect does not read it: a minor
// collection marks only from the RootSet, so a young object reachable
// solely through a remembered old object is not reached by that mark.
func (h *Heap) RememberedRoots() []*GCHeader {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*GCHeader, 0, len(h.remembered))
	for hdr := range h.remembered {
		out = append(out, hdr)
	}
	return out
}

// ClearRemembered drops entries for headers a major collection has just
// rescanned from scratch, keeping the remembered set from growing
// unbounded across a process's lifetime.
func (h *Heap) ClearRemembered(scanned []*GCHeader) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, hdr := range scanned {
		delete(h.remembered, hdr)
	}
}

// Stats returns a snapshot of the heap's running counters.
func (h *Heap) Stats() HeapStats {
	return HeapStats{
		MinorCollections: atomic.LoadUint64(&h.stats.MinorCollections),
		MajorCollections: atomic.LoadUint64(&h.stats.MajorCollections),
		BytesAllocated:   atomic.LoadUint64(&h.stats.BytesAllocated),
		ObjectsAllocated: atomic.LoadUint64(&h.stats.ObjectsAllocated),
		ObjectsPromoted:  atomic.LoadUint64(&h.stats.ObjectsPromoted),
		WriteBarrierHits: atomic.LoadUint64(&h.stats.WriteBarrierHits),
	}
}

// Roots exposes the heap's root set, so the evaluator/continuation
// registry/macro expander can register themselves as scan roots.
func (h *Heap) Roots() *RootSet { return h.roots }
