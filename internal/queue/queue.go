// drivesend/internal/queue/queue.go

// Package queue is the ordered, deduplicating handoff between the watcher
// and the upload workers. A path is tracked from enqueue until its terminal
// outcome, which is what guarantees no two workers ever process the same
// file concurrently.
package queue

import (
	"sync"

	"drivesend/internal/core/domain"
)

// Queue is a FIFO of upload items with at-most-one-outstanding-per-path
// semantics. The in-flight set is the only mutable state shared between the
// producer and the workers, guarded by a single mutex.
type Queue struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
	closed   bool
	senders  sync.WaitGroup

	items chan domain.QueueItem
	quit  chan struct{}
}

func New(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 1024
	}
	return &Queue{
		inFlight: make(map[string]struct{}),
		items:    make(chan domain.QueueItem, capacity),
		quit:     make(chan struct{}),
	}
}

// Enqueue adds item unless its path is already queued or in-flight, in which
// case the duplicate is discarded. When the channel is full, Enqueue blocks
// until a worker makes room: pressure propagates back to the producer rather
// than losing a file that will never be re-emitted. Returns whether the item
// was accepted; false means a duplicate or a closed queue.
func (q *Queue) Enqueue(item domain.QueueItem) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	if _, dup := q.inFlight[item.Path]; dup {
		q.mu.Unlock()
		return false
	}
	q.inFlight[item.Path] = struct{}{}
	q.senders.Add(1)
	q.mu.Unlock()
	defer q.senders.Done()

	select {
	case q.items <- item:
		return true
	case <-q.quit:
		q.mu.Lock()
		delete(q.inFlight, item.Path)
		q.mu.Unlock()
		return false
	}
}

// Items is the dispatch channel. Items come out in enqueue order; it is
// closed by Close once drained producers are done.
func (q *Queue) Items() <-chan domain.QueueItem {
	return q.items
}

// Done releases path from the in-flight set. Workers call it only after a
// terminal outcome (success or permanent failure).
func (q *Queue) Done(path string) {
	q.mu.Lock()
	delete(q.inFlight, path)
	q.mu.Unlock()
}

// InFlight reports whether path is currently queued or being processed.
func (q *Queue) InFlight(path string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.inFlight[path]
	return ok
}

// Len returns the number of items waiting for a worker.
func (q *Queue) Len() int {
	return len(q.items)
}

// Close stops accepting new items, releases any Enqueue blocked on a full
// channel, and closes the dispatch channel. Items already queued remain
// readable until drained.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.quit)
	q.mu.Unlock()

	// The closed flag stops new senders; wait out the blocked ones before
	// closing the channel they send on.
	q.senders.Wait()
	close(q.items)
}
