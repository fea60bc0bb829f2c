package lambdust

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSafepointBarrier_PollIsNonBlockingWhenIdle guards spec §8 property 10
// (safepoint timeliness doesn't mean "always blocking" — an uncontended
// poll with no pending request must return immediately).
func TestSafepointBarrier_PollIsNonBlockingWhenIdle(t *testing.T) {
	b := newSafepointBarrier()
	done := make(chan struct{})
	go func() {
		b.poll(1)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poll blocked with no pending request")
	}
}

// TestSafepointBarrier_RequestParksAndReleases exercises the full
// rendezvous: a mutator that keeps polling (the way Eval's trampoline
// does at every step) parks once a request is raised, and release() lets
// it resume.
func TestSafepointBarrier_RequestParksAndReleases(t *testing.T) {
	b := newSafepointBarrier()
	stop := make(chan struct{})

	go func() {
		for {
			select {
			case <-stop:
				return
			default:
				b.poll(1)
			}
		}
	}()

	gen := b.requestAndWaitForAll(1)
	assert.Equal(t, uint64(1), gen)
	assert.Equal(t, 1, b.parkedCount(), "the mutator must still be parked until release()")

	b.release()

	require.Eventually(t, func() bool {
		return b.parkedCount() == 0
	}, time.Second, 5*time.Millisecond, "release() must wake the parked mutator")

	close(stop)
}

func TestSafepointBarrier_RequestWithNoMutatorsReturnsImmediately(t *testing.T) {
	b := newSafepointBarrier()
	done := make(chan uint64, 1)
	go func() { done <- b.requestAndWaitForAll(0) }()
	select {
	case gen := <-done:
		assert.Equal(t, uint64(1), gen)
	case <-time.After(time.Second):
		t.Fatal("a request with zero expected mutators must not block")
	}
	b.release()
}
