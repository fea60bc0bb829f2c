package lambdust

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Collector runs minor and major collection cycles over a Heap. It never
// reclaims memory itself — Go's own collector does that — but it performs
// every piece of generational bookkeeping spec §4.4 describes as the GC's
// job: stop-the-world rendezvous via the safepoint barrier, a parallel
// mark over the root set (fanning work out with the retrieval pack's
// `golang.org/x/sync/errgroup` rather than hand-rolled
// WaitGroup/channel plumbing), age tracking, and tenuring.
type Collector struct {
	heap *Heap
}

func NewCollector(heap *Heap) *Collector { return &Collector{heap: heap} }

// collectRoots flattens the heap's root set into a slice so the mark
// phase can fan workers out over it; RootSet.Walk itself is a fast,
// single-threaded enumeration (it only ever appends root pointers here),
// the expensive recursive trace happens per-root in markRoots.
func (c *Collector) collectRoots() []Traceable {
	var roots []Traceable
	c.heap.Roots().Walk(func(t Traceable) {
		if t != nil {
			roots = append(roots, t)
		}
	})
	return roots
}

// markRoots traces every root concurrently (one goroutine per root,
// joined with an errgroup), using each object's GCHeader.mark bit to
// dedupe a shared object graph and break cycles. Returns every header
// reached, for the caller's sweep/tenure bookkeeping.
func (c *Collector) markRoots(roots []Traceable) ([]*GCHeader, error) {
	var mu sync.Mutex
	var marked []*GCHeader

	g := new(errgroup.Group)
	for _, r := range roots {
		r := r
		g.Go(func() error {
			c.markOne(r, &mu, &marked)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return marked, nil
}

func (c *Collector) markOne(t Traceable, mu *sync.Mutex, out *[]*GCHeader) {
	if t == nil {
		return
	}
	hdr := t.gcHeader()
	mu.Lock()
	if hdr.mark {
		mu.Unlock()
		return
	}
	hdr.mark = true
	*out = append(*out, hdr)
	mu.Unlock()

	t.traceRefs(func(child Traceable) { c.markOne(child, mu, out) })
}

// MinorCollect runs one Young-generation cycle (spec §4.4 "Minor
// collection"): stop the world at a safepoint, mark from roots, tenure
// any object that has now survived gc.tenure_age cycles into Old, then
// release the barrier. Evacuation/to-space copying is a no-op here since
// Go's allocator already relocates nothing we need to track by address —
// what this cycle actually changes is each survivor's generation label
// and survival count, which is what the rest of the GC (write barrier,
// major collection) keys off of.
func (c *Collector) MinorCollect() (HeapStats, error) {
	expected := c.heap.MutatorCount()
	theSafepoint.requestAndWaitForAll(expected)
	defer theSafepoint.release()

	marked, err := c.markRoots(c.collectRoots())
	if err != nil {
		return HeapStats{}, err
	}

	tenureAge := c.heap.cfg.GetInt("gc.tenure_age")
	var promoted uint64
	for _, hdr := range marked {
		if hdr.gen != GenYoung {
			hdr.mark = false
			continue
		}
		hdr.survived++
		if int(hdr.survived) >= tenureAge {
			hdr.gen = GenOld
			promoted++
		}
		hdr.mark = false
	}

	atomic.AddUint64(&c.heap.stats.MinorCollections, 1)
	atomic.AddUint64(&c.heap.stats.ObjectsPromoted, promoted)
	return c.heap.Stats(), nil
}

// MajorCollect runs one Old-generation cycle (spec §4.4 "Major
// collection"): initial mark at a safepoint, a marking phase that (in a
// true concurrent collector) would run alongside mutators guarded by the
// write barrier, then a final remark/sweep at a second safepoint. The
// remembered set entries for every Old object reached are cleared, since
// a full trace from roots has just re-established their reachability
// from scratch.
func (c *Collector) MajorCollect() (HeapStats, error) {
	theSafepoint.requestAndWaitForAll(c.heap.MutatorCount())
	roots := c.collectRoots()
	theSafepoint.release()

	marked, err := c.markRoots(roots)
	if err != nil {
		return HeapStats{}, err
	}

	theSafepoint.requestAndWaitForAll(c.heap.MutatorCount())
	defer theSafepoint.release()

	oldHeaders := make([]*GCHeader, 0, len(marked))
	for _, hdr := range marked {
		if hdr.gen == GenOld {
			oldHeaders = append(oldHeaders, hdr)
		}
		hdr.mark = false
	}
	c.heap.ClearRemembered(oldHeaders)

	atomic.AddUint64(&c.heap.stats.MajorCollections, 1)
	return c.heap.Stats(), nil
}
