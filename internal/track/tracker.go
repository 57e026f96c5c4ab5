// Package track counts work that is still in flight somewhere in a pipeline.
package track

import (
	"context"
	"sync"
)

// Tracker is a concurrency-safe counter with condition-based waiting.
type Tracker struct {
	value int64
	mu    sync.Mutex
	wait  sync.Cond
}

func NewTracker() *Tracker {
	t := &Tracker{}
	t.wait.L = &t.mu
	return t
}

func (t *Tracker) Inc() {
	t.Add(1)
}

func (t *Tracker) Dec() {
	t.Add(-1)
}

// Add adjusts the counter by delta and wakes waiters when the value crosses
// the region around zero that predicates usually care about.
func (t *Tracker) Add(delta int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.value += delta

	if t.value <= 1 && t.value >= -1 {
		t.wait.Broadcast()
	}
}

func (t *Tracker) Load() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.value
}

// WaitContext blocks until fn returns true, re-evaluating on each count change.
// It gives up once ctx is done.
func (t *Tracker) WaitContext(ctx context.Context, fn func(int64) bool) error {
	stop := context.AfterFunc(ctx, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.wait.Broadcast()
	})
	defer stop()

	t.mu.Lock()
	defer t.mu.Unlock()

	for {
		if fn(t.value) {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		t.wait.Wait()
	}
}
