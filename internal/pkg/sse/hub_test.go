package sse

import (
	"testing"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublishReachesOnlyTargetUser(t *testing.T) {
	h := NewHub()

	a, cleanupA := h.Subscribe(1)
	defer cleanupA()
	b, cleanupB := h.Subscribe(2)
	defer cleanupB()

	h.Notify(1, "leave_request.approved", map[string]int64{"id": 42})

	select {
	case ev := <-a:
		assert.Equal(t, int64(1), ev.UserID)
		assert.Equal(t, "leave_request.approved", ev.Event)
	default:
		t.Fatal("subscriber 1 did not receive the event")
	}

	select {
	case ev := <-b:
		t.Fatalf("subscriber 2 received %v", ev)
	default:
	}
}

// openStreams reads the subscriber gauge relative to a test's starting point.
func openStreams(base float64) float64 {
	return testutil.ToFloat64(metrics.SSESubscribers) - base
}

func TestHubCleanup(t *testing.T) {
	h := NewHub()
	base := testutil.ToFloat64(metrics.SSESubscribers)

	ch1, c1 := h.Subscribe(5)
	_, c2 := h.Subscribe(5)
	assert.Equal(t, 2.0, openStreams(base))

	c1()
	c1()
	assert.Equal(t, 1.0, openStreams(base))
	_, open := <-ch1
	assert.False(t, open)

	c2()
	assert.Equal(t, 0.0, openStreams(base))
}

func TestHubPublishDoesNotBlockWhenFull(t *testing.T) {
	h := NewHub()
	ch, cleanup := h.Subscribe(9)
	defer cleanup()

	for i := 0; i < 50; i++ {
		h.Notify(9, "tick", i)
	}
	require.Len(t, ch, cap(ch))
}

func TestHubEventIDsIncrease(t *testing.T) {
	h := NewHub()
	ch, cleanup := h.Subscribe(3)
	defer cleanup()

	h.Notify(3, "leave_request.approved", nil)
	h.Notify(3, "leave_request.rejected", nil)

	first, second := <-ch, <-ch
	assert.Greater(t, second.ID, first.ID)
}

func TestHubCloseEndsStreams(t *testing.T) {
	h := NewHub()
	base := testutil.ToFloat64(metrics.SSESubscribers)
	ch, cleanup := h.Subscribe(4)

	h.Close()
	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0.0, openStreams(base))

	// cleanup after Close is a no-op
	cleanup()

	late, _ := h.Subscribe(4)
	_, open = <-late
	assert.False(t, open)
	assert.Equal(t, 0.0, openStreams(base))
}
