package broker

import (
	"errors"
	"slices"
	"sync"
)

// ErrClosed is returned by Wait once the broker is closed and nothing
// buffered satisfies the predicate.
var ErrClosed = errors.New("broker closed")

// Broker is a mutex-guarded buffer of unclaimed messages with blocking,
// predicate-based removal. Every element is handed to at most one waiter.
type Broker[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buffer []T
	closed bool
}

// New constructs an empty broker.
func New[T any]() *Broker[T] {
	b := &Broker[T]{}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Push appends msg and wakes every blocked waiter. Messages pushed after
// Close are dropped.
func (b *Broker[T]) Push(msg T) {
	b.mu.Lock()
	if !b.closed {
		b.buffer = append(b.buffer, msg)
	}
	b.cond.Broadcast()
	b.mu.Unlock()
}

// Wait blocks until a buffered element satisfies match, removes it and
// returns it. The predicate runs with the broker lock held and must not call
// back into the broker. When several elements match, the oldest is returned,
// so successive waits with the same predicate observe arrival order.
func (b *Broker[T]) Wait(match func(T) bool) (T, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for {
		if idx := b.indexLocked(match); idx >= 0 {
			return b.takeLocked(idx), nil
		}
		if b.closed {
			var zero T
			return zero, ErrClosed
		}
		b.cond.Wait()
	}
}

// Len reports the number of unclaimed messages. The value is stale as soon
// as it is returned when other goroutines are active.
func (b *Broker[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buffer)
}

// IsEmpty reports whether no messages are buffered.
func (b *Broker[T]) IsEmpty() bool {
	return b.Len() == 0
}

// Close wakes every waiter. Waiters whose predicate still matches a buffered
// element receive it; the rest return ErrClosed. Close is idempotent.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	b.closed = true
	b.cond.Broadcast()
	b.mu.Unlock()
}

// Closed reports whether Close has been called.
func (b *Broker[T]) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

func (b *Broker[T]) indexLocked(match func(T) bool) int {
	for i, msg := range b.buffer {
		if match(msg) {
			return i
		}
	}
	return -1
}

// takeLocked removes buffer[idx], keeping the remaining elements in order.
func (b *Broker[T]) takeLocked(idx int) T {
	msg := b.buffer[idx]
	b.buffer = slices.Delete(b.buffer, idx, idx+1)
	return msg
}
