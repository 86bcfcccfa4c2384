// Package queue provides the unbounded blocking FIFO that connects the
// controller's receive loops to its single sender loop.
package queue

import (
	"sync"
	"time"
)

// Blocking is a thread-safe unbounded FIFO. Offer never blocks the
// producer; Poll blocks the consumer until an element is available.
// One mutex guards the backing slice, so elements are consumed in the
// exact order they were offered regardless of which goroutine offered
// them.
type Blocking[T any] struct {
	mu       sync.Mutex
	nonEmpty *sync.Cond
	items    []T
}

func NewBlocking[T any]() *Blocking[T] {
	q := &Blocking[T]{}
	q.nonEmpty = sync.NewCond(&q.mu)
	return q
}

// Offer appends element to the tail of the queue and wakes any blocked
// consumers.
func (q *Blocking[T]) Offer(element T) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = append(q.items, element)
	q.nonEmpty.Broadcast()
}

// Poll removes and returns the head of the queue, blocking the caller
// until the queue is non-empty.
func (q *Blocking[T]) Poll() T {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 {
		q.nonEmpty.Wait()
	}
	return q.pop()
}

// PollTimeout waits up to timeout to remove and return the head of the
// queue. The second return value is false if the queue stayed empty for
// the whole window.
func (q *Blocking[T]) PollTimeout(timeout time.Duration) (T, bool) {
	deadline := time.Now().Add(timeout)

	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			var zero T
			return zero, false
		}
		// sync.Cond has no timed wait, so a timer broadcasts when the
		// deadline passes and the loop re-checks.
		wakeup := time.AfterFunc(remaining, q.nonEmpty.Broadcast)
		q.nonEmpty.Wait()
		wakeup.Stop()
	}
	return q.pop(), true
}

// Len returns the number of queued elements.
func (q *Blocking[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Empty reports whether the queue has no elements.
func (q *Blocking[T]) Empty() bool {
	return q.Len() == 0
}

// pop removes and returns the head. Callers must hold q.mu.
func (q *Blocking[T]) pop() T {
	head := q.items[0]
	var zero T
	q.items[0] = zero // drop the reference so the element can be collected
	q.items = q.items[1:]
	return head
}
