package lambdust

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests build a bare Heap with zero registered mutators, so
// MinorCollect/MajorCollect's safepoint rendezvous (requestAndWaitForAll)
// returns immediately instead of waiting on a poller that doesn't exist.

func TestCollector_MinorCollectTenuresAfterSurvivalThreshold(t *testing.T) {
	cfg := NewConfig()
	cfg.SetInt("gc.tenure_age", 2)
	heap := NewHeap(cfg)
	col := NewCollector(heap)

	p := Cons(SmallInt(1), SmallInt(2))
	heap.Roots().RegisterGlobal(p)

	assert.Equal(t, GenYoung, p.gcHeader().Generation())

	_, err := col.MinorCollect()
	require.NoError(t, err)
	assert.Equal(t, GenYoung, p.gcHeader().Generation(), "one survival is below the tenure_age=2 threshold")

	stats, err := col.MinorCollect()
	require.NoError(t, err)
	assert.Equal(t, GenOld, p.gcHeader().Generation(), "surviving tenure_age cycles must promote to Old")
	assert.Equal(t, uint64(1), stats.ObjectsPromoted)
	assert.Equal(t, uint64(2), stats.MinorCollections)
}

func TestCollector_MarkRootsReachesTransitiveRefs(t *testing.T) {
	cfg := NewConfig()
	heap := NewHeap(cfg)
	col := NewCollector(heap)

	inner := Cons(SmallInt(1), TheNil)
	outer := Cons(inner, TheNil)
	heap.Roots().RegisterGlobal(outer)

	marked, err := col.markRoots(col.collectRoots())
	require.NoError(t, err)
	assert.Len(t, marked, 2, "both the outer pair and its car must be reached")
}

func TestCollector_MarkRootsHandlesCycles(t *testing.T) {
	cfg := NewConfig()
	heap := NewHeap(cfg)
	col := NewCollector(heap)

	a := NewMutablePair(SmallInt(1), TheNil)
	a.SetCdr(heap, a) // self-cycle
	heap.Roots().RegisterGlobal(a)

	marked, err := col.markRoots(col.collectRoots())
	require.NoError(t, err)
	assert.Len(t, marked, 1, "the mark bit must stop a cyclic trace from looping forever")
}

func TestCollector_MajorCollectClearsRememberedSet(t *testing.T) {
	cfg := NewConfig()
	heap := NewHeap(cfg)
	col := NewCollector(heap)

	young := Cons(SmallInt(1), TheNil) // GenYoung by default
	old := Cons(SmallInt(2), TheNil)
	old.gcHeader().gen = GenOld
	heap.Roots().RegisterGlobal(old)
	heap.writeBarrier(old.gcHeader(), young)
	require.Len(t, heap.RememberedRoots(), 1)

	_, err := col.MajorCollect()
	require.NoError(t, err)
	assert.Empty(t, heap.RememberedRoots(), "a full trace re-establishes reachability, clearing stale remembered entries")
}

func TestStats_SnapshotReflectsHeapAndBarrier(t *testing.T) {
	cfg := NewConfig()
	heap := NewHeap(cfg)
	snap := Stats(heap)
	assert.Equal(t, 0, snap.MutatorsRegistered)
	assert.False(t, snap.CollectionPending)
	assert.Contains(t, snap.String(), "gc:")
}
