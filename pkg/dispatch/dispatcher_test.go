package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleanbot/pkg/proto"
)

// recordingHandler tracks per-user delivery order and detects concurrent
// calls for the same user.
type recordingHandler struct {
	mu       sync.Mutex
	perUser  map[int64][]string
	inFlight map[int64]bool
	overlap  bool
	delay    time.Duration
}

func newRecordingHandler(delay time.Duration) *recordingHandler {
	return &recordingHandler{
		perUser:  make(map[int64][]string),
		inFlight: make(map[int64]bool),
		delay:    delay,
	}
}

func (h *recordingHandler) Handle(_ context.Context, event proto.Event) error {
	h.mu.Lock()
	if h.inFlight[event.UserID] {
		h.overlap = true
	}
	h.inFlight[event.UserID] = true
	h.mu.Unlock()

	time.Sleep(h.delay)

	h.mu.Lock()
	h.inFlight[event.UserID] = false
	h.perUser[event.UserID] = append(h.perUser[event.UserID], event.Text)
	h.mu.Unlock()
	return nil
}

func TestSameUserEventsAreSerializedInOrder(t *testing.T) {
	h := newRecordingHandler(time.Millisecond)
	d := NewDispatcher(h)

	for i := 0; i < 10; i++ {
		ok := d.Dispatch(proto.Event{UserID: 1, Kind: proto.EventText, Text: string(rune('a' + i))})
		require.True(t, ok)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))

	assert.False(t, h.overlap, "same-user events ran concurrently")
	assert.Equal(t,
		[]string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"},
		h.perUser[1])
}

func TestDifferentUsersRunInParallel(t *testing.T) {
	h := newRecordingHandler(50 * time.Millisecond)
	d := NewDispatcher(h)

	start := time.Now()
	for userID := int64(1); userID <= 8; userID++ {
		require.True(t, d.Dispatch(proto.Event{UserID: userID, Kind: proto.EventText, Text: "x"}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))

	// Serial execution would take 8 * 50ms; parallel should be well under.
	assert.Less(t, time.Since(start), 300*time.Millisecond)
	for userID := int64(1); userID <= 8; userID++ {
		assert.Len(t, h.perUser[userID], 1)
	}
}

func TestDispatchAfterStopIsDropped(t *testing.T) {
	h := newRecordingHandler(0)
	d := NewDispatcher(h)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))

	assert.False(t, d.Dispatch(proto.Event{UserID: 1, Kind: proto.EventText}))
}

func TestBacklogOverflowDropsEvents(t *testing.T) {
	block := make(chan struct{})
	h := &blockingHandler{release: block}
	d := NewDispatcher(h)

	// First event occupies the worker; fill the queue behind it.
	require.True(t, d.Dispatch(proto.Event{UserID: 1, Kind: proto.EventText}))
	time.Sleep(20 * time.Millisecond) // let the worker pick it up
	for i := 0; i < userQueueSize; i++ {
		require.True(t, d.Dispatch(proto.Event{UserID: 1, Kind: proto.EventText}))
	}
	assert.False(t, d.Dispatch(proto.Event{UserID: 1, Kind: proto.EventText}))

	close(block)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))
}

func TestNoEventLostAcrossWorkerRetirement(t *testing.T) {
	h := newRecordingHandler(0)
	d := NewDispatcher(h)
	// Tiny idle window so workers retire constantly while we keep dispatching,
	// forcing the enqueue/retire interleaving over and over.
	d.idle = time.Microsecond

	const total = 500
	accepted := 0
	for i := 0; i < total; i++ {
		if d.Dispatch(proto.Event{UserID: 1, Kind: proto.EventText, Text: "x"}) {
			accepted++
		}
		if i%50 == 0 {
			time.Sleep(time.Millisecond) // give workers a chance to go idle
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))

	assert.Equal(t, accepted, len(h.perUser[1]), "accepted events must all be handled")
}

type blockingHandler struct {
	release chan struct{}
	once    sync.Once
}

func (h *blockingHandler) Handle(_ context.Context, _ proto.Event) error {
	h.once.Do(func() { <-h.release })
	return nil
}
