// Package dispatch delivers inbound user events to the conversation
// controller. Events from the same user are processed strictly in arrival
// order on a dedicated worker; events from different users run in parallel.
package dispatch

import (
	"context"
	"sync"
	"time"

	"cleanbot/pkg/logx"
	"cleanbot/pkg/proto"
)

// Handler consumes one user event. The dispatcher guarantees it is never
// called concurrently for the same user ID.
type Handler interface {
	Handle(ctx context.Context, event proto.Event) error
}

// userQueueSize bounds the per-user backlog. A user hammering buttons faster
// than we can answer gets their excess events dropped, not queued forever.
const userQueueSize = 32

// idleTimeout is how long a user worker lingers with an empty queue before
// exiting. A later event simply spawns a fresh worker.
const idleTimeout = 5 * time.Minute

// handleTimeout bounds the processing of a single event.
const handleTimeout = 30 * time.Second

// Dispatcher fans events out to per-user workers.
type Dispatcher struct {
	handler Handler
	logger  *logx.Logger
	idle    time.Duration

	mu      sync.Mutex
	workers map[int64]chan proto.Event

	shutdown chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewDispatcher creates a dispatcher delivering to the given handler.
func NewDispatcher(handler Handler) *Dispatcher {
	return &Dispatcher{
		handler:  handler,
		logger:   logx.NewLogger("dispatch"),
		idle:     idleTimeout,
		workers:  make(map[int64]chan proto.Event),
		shutdown: make(chan struct{}),
	}
}

// Dispatch enqueues an event for its user. Returns false when the event was
// dropped: the dispatcher is stopping or the user's backlog is full.
func (d *Dispatcher) Dispatch(event proto.Event) bool {
	select {
	case <-d.shutdown:
		return false
	default:
	}

	// The enqueue must happen while the worker is still registered. A retiring
	// worker deletes its map entry under the same lock before draining, so any
	// event that lands in the queue here is guaranteed to be processed.
	d.mu.Lock()
	defer d.mu.Unlock()

	queue, ok := d.workers[event.UserID]
	if !ok {
		queue = make(chan proto.Event, userQueueSize)
		d.workers[event.UserID] = queue
		d.wg.Add(1)
		go d.runWorker(event.UserID, queue)
	}

	select {
	case queue <- event:
		return true
	default:
		d.logger.Warn("Dropping event for user %d: backlog full", event.UserID)
		return false
	}
}

// Stop shuts the dispatcher down and waits for in-flight events to finish,
// bounded by ctx.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.stopOnce.Do(func() { close(d.shutdown) })

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) runWorker(userID int64, queue chan proto.Event) {
	defer d.wg.Done()

	idle := time.NewTimer(d.idle)
	defer idle.Stop()

	for {
		select {
		case event := <-queue:
			d.process(event)
			if !idle.Stop() {
				<-idle.C
			}
			idle.Reset(d.idle)

		case <-idle.C:
			d.retire(userID, queue)
			return

		case <-d.shutdown:
			d.retire(userID, queue)
			return
		}
	}
}

// retire removes the worker from the map, then drains anything that raced in
// between the trigger and the map delete.
func (d *Dispatcher) retire(userID int64, queue chan proto.Event) {
	d.mu.Lock()
	delete(d.workers, userID)
	d.mu.Unlock()

	for {
		select {
		case event := <-queue:
			d.process(event)
		default:
			return
		}
	}
}

func (d *Dispatcher) process(event proto.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	if err := d.handler.Handle(ctx, event); err != nil {
		d.logger.Error("Event handling failed for user %d: %v", event.UserID, err)
	}
}
