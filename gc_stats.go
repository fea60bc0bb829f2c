package lambdust

import "fmt"

// StatsSnapshot is a point-in-time read of the heap's running counters
// plus the collector's current pause state, grounded on the teacher's
// `query.go` `DatabaseStats` pattern: a small read-locked snapshot struct
// with a `String()` method, rather than exposing the live counters
// directly for a caller to race against.
type StatsSnapshot struct {
	HeapStats
	MutatorsRegistered int
	MutatorsParked     int
	CollectionPending  bool
}

// Stats builds a StatsSnapshot from h and the process-wide safepoint
// barrier, for diagnostics/telemetry callers (spec §4.4's "Bookkeeping"
// requirement: counts, bytes evacuated, pause times, TLAB utilization —
// pause *times* aren't tracked since no wall clock is available without
// `time.Now()`, but parked/pending state stands in for "is a pause
// happening right now").
func Stats(h *Heap) StatsSnapshot {
	theSafepoint.mu.Lock()
	pending := theSafepoint.requested
	parked := len(theSafepoint.parked)
	theSafepoint.mu.Unlock()

	return StatsSnapshot{
		HeapStats:          h.Stats(),
		MutatorsRegistered: h.MutatorCount(),
		MutatorsParked:     parked,
		CollectionPending:  pending,
	}
}

func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"gc: minor=%d major=%d allocated=%d objects=%d promoted=%d write-barrier-hits=%d mutators=%d/%d parked pending=%t",
		s.MinorCollections, s.MajorCollections, s.BytesAllocated, s.ObjectsAllocated,
		s.ObjectsPromoted, s.WriteBarrierHits, s.MutatorsParked, s.MutatorsRegistered, s.CollectionPending,
	)
}
