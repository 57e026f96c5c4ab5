package concurrency

import (
	"context"

	"github.com/sourcegraph/conc/pool"
)

// NewPool returns a new pool where each task respects context cancellation.
// Wait() will only return the first error seen.
func NewPool(ctx context.Context, maxGoroutines int) *pool.ContextPool {
	return pool.New().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError().
		WithMaxGoroutines(maxGoroutines)
}

// TrySendThroughChannel attempts to send an object through a channel.
// If the context is canceled, it will not send the object.
func TrySendThroughChannel[T any](ctx context.Context, msg T, channel chan<- T) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case channel <- msg:
		return true
	}
}

// TrySend performs a non-blocking send. It returns false when the channel
// has no free capacity (or no waiting receiver for an unbuffered channel).
func TrySend[T any](msg T, channel chan<- T) bool {
	select {
	case channel <- msg:
		return true
	default:
		return false
	}
}

// TryReceive blocks until a message arrives or the context is canceled.
func TryReceive[T any](ctx context.Context, channel <-chan T) (T, bool) {
	select {
	case <-ctx.Done():
		var zero T
		return zero, false
	case msg, ok := <-channel:
		return msg, ok
	}
}
