package lambdust

import "sync"

// safepointBarrier is the rendezvous the collector and every mutator poll
// against (spec §4.4 "Safepoint protocol"): a global request flag plus a
// set of mutators that have parked since the request was raised. A
// collector sets the request, waits for every registered mutator to park,
// runs its stop-the-world phase, then releases the barrier. This mirrors
// the teacher's own preference for a condition-variable rendezvous over a
// channel-based one wherever a "wait until N parties reach a point" shape
// comes up (see `Database`'s query-generation waiters).
type safepointBarrier struct {
	mu        sync.Mutex
	cond      *sync.Cond
	requested bool
	generation uint64
	parked    map[int64]bool
}

func newSafepointBarrier() *safepointBarrier {
	b := &safepointBarrier{parked: make(map[int64]bool)}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// theSafepoint is the process-wide barrier every Evaluator's trampoline
// polls. One barrier serves every mutator and every Heap, matching spec
// §4.4's single collector coordinating all mutator threads.
var theSafepoint = newSafepointBarrier()

// pollSafepoint is called at every Eval and ApplyValues trampoline step
// and before every T1 VM instruction (runVMFrame); allocation does not
// poll. It is cheap when
// no collection is pending: a single uncontended mutex acquisition with no
// blocking.
func pollSafepoint(mutatorID int64) {
	theSafepoint.poll(mutatorID)
}

func (b *safepointBarrier) poll(mutatorID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.requested {
		return
	}
	b.parked[mutatorID] = true
	b.cond.Broadcast()
	for b.requested {
		b.cond.Wait()
	}
	delete(b.parked, mutatorID)
}

// requestAndWaitForAll raises the request flag and blocks until expected
// distinct mutators have parked, returning the generation number of this
// stop-the-world episode. Called by gc_collector.go immediately before a
// minor collection's evacuation phase and before a major collection's
// initial-mark/final-remark phases.
func (b *safepointBarrier) requestAndWaitForAll(expected int) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requested = true
	b.generation++
	gen := b.generation
	for len(b.parked) < expected {
		b.cond.Wait()
	}
	return gen
}

// release drops the request flag and wakes every parked mutator, letting
// them resume past their poll call.
func (b *safepointBarrier) release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requested = false
	b.cond.Broadcast()
}

// parkedCount reports how many mutators are currently parked at the
// barrier, for gc_stats.go's pause-time/utilization reporting.
func (b *safepointBarrier) parkedCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.parked)
}
