// Package queue holds entries between producers and the drain worker.
package queue

import (
	"context"
	"sync"

	"github.com/bft-labs/logship/internal/domain"
)

// Queue is an unbounded FIFO of entries.
// Append is safe for any number of concurrent producers and never blocks
// on the consumer.
type Queue struct {
	mu    sync.Mutex
	items []domain.Entry
	head  int
	ready chan struct{}
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Append enqueues e at the tail.
func (q *Queue) Append(e domain.Entry) {
	q.mu.Lock()
	q.items = append(q.items, e)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// IsEmpty reports whether the queue holds no entries.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}

// Len returns the number of queued entries.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// TryPop removes and returns the oldest entry.
// ok is false when the queue is empty.
func (q *Queue) TryPop() (e domain.Entry, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head == len(q.items) {
		return domain.Entry{}, false
	}
	e = q.items[q.head]
	q.items[q.head] = domain.Entry{}
	q.head++

	// Reclaim the consumed prefix once it dominates the backing array.
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	} else if q.head > 64 && q.head*2 > len(q.items) {
		n := copy(q.items, q.items[q.head:])
		q.items = q.items[:n]
		q.head = 0
	}
	return e, true
}

// Pop removes and returns the oldest entry, waiting until one is available
// or ctx is done.
func (q *Queue) Pop(ctx context.Context) (domain.Entry, error) {
	for {
		if e, ok := q.TryPop(); ok {
			return e, nil
		}
		select {
		case <-q.ready:
		case <-ctx.Done():
			return domain.Entry{}, ctx.Err()
		}
	}
}
