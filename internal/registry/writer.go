package registry

import (
	"context"
	"sync"

	"giftwell/internal/log"
	"giftwell/internal/pubsub"
)

// StoreFailure is published on the failure broker when a best-effort
// storage operation fails. In-memory state is not rolled back.
type StoreFailure struct {
	Op   string // "write" or "delete"
	GUID string
	Err  string
}

// persistWriter executes storage operations on a single goroutine, in the
// order they were scheduled. Callers never block and never observe storage
// errors; failures go to the log and the failure broker.
//
// One writer per collection keeps per-item writes ordered, which is what
// makes idempotent last-write-wins safe.
type persistWriter struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queue    []func(ctx context.Context)
	closed   bool
	busy     bool
	failures *pubsub.Broker[StoreFailure]
}

func newPersistWriter() *persistWriter {
	w := &persistWriter{
		failures: pubsub.NewBroker[StoreFailure](),
	}
	w.cond = sync.NewCond(&w.mu)
	go w.run()
	return w
}

// schedule enqueues a storage operation. Never blocks the caller.
func (w *persistWriter) schedule(op func(ctx context.Context)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.queue = append(w.queue, op)
	w.cond.Broadcast()
}

// Flush blocks until every operation scheduled so far has been attempted.
func (w *persistWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for len(w.queue) > 0 || w.busy {
		w.cond.Wait()
	}
}

// Close drains the queue and stops the writer goroutine.
func (w *persistWriter) Close() {
	w.mu.Lock()
	w.closed = true
	w.cond.Broadcast()
	for len(w.queue) > 0 || w.busy {
		w.cond.Wait()
	}
	w.mu.Unlock()
	w.failures.Close()
}

func (w *persistWriter) run() {
	ctx := context.Background()
	w.mu.Lock()
	for {
		for len(w.queue) == 0 && !w.closed {
			w.cond.Wait()
		}
		if len(w.queue) == 0 && w.closed {
			w.cond.Broadcast()
			w.mu.Unlock()
			return
		}
		op := w.queue[0]
		w.queue = w.queue[1:]
		w.busy = true
		w.mu.Unlock()

		op(ctx)

		w.mu.Lock()
		w.busy = false
		w.cond.Broadcast()
	}
}

// fail logs a storage failure and publishes it for the UI toast.
func (w *persistWriter) fail(op, guid string, err error) {
	log.ErrorErr(log.CatStore, "storage operation failed", err, "op", op, "guid", guid)
	w.failures.Publish(pubsub.ChangedEvent, StoreFailure{Op: op, GUID: guid, Err: err.Error()})
}
