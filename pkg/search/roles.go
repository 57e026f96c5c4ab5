package search

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/coverwalk/coverwalk/internal/concurrency"
	"github.com/coverwalk/coverwalk/pkg/storage"
	"github.com/coverwalk/coverwalk/pkg/telemetry"
	"github.com/coverwalk/coverwalk/pkg/walk"
)

// receive returns the next walk on ch. ok is false when ctx is done; a
// closed channel is reported as ErrChannelClosed.
func receive(ctx context.Context, ch <-chan walk.Walk) (walk.Walk, bool, error) {
	w, ok := concurrency.TryReceive(ctx, ch)
	if !ok {
		if ctx.Err() != nil {
			return walk.Walk{}, false, nil
		}
		return walk.Walk{}, false, ErrChannelClosed
	}
	return w, true, nil
}

func (s *Search) idleBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.config.IdleInitial
	b.MaxInterval = s.config.IdleMax
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// distribute moves walks from the frontier to the workers one at a time.
func (s *Search) distribute(ctx context.Context, in chan<- walk.Walk) error {
	idle := s.idleBackOff()
	for {
		w, ok, err := s.frontier.Pop()
		if err != nil {
			return fmt.Errorf("pop frontier: %w", err)
		}
		if ok {
			idle.Reset()
			if !concurrency.TrySendThroughChannel(ctx, w, in) {
				return nil
			}
			continue
		}

		timer := time.NewTimer(idle.NextBackOff())
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-s.frontier.Ready():
		case <-timer.C:
		}
		timer.Stop()
	}
}

// collect pushes the children produced by the workers into the frontier.
func (s *Search) collect(ctx context.Context, out <-chan walk.Walk) error {
	for {
		w, ok, err := receive(ctx, out)
		if !ok {
			return err
		}
		if err := s.frontier.Push(w); err != nil {
			return fmt.Errorf("push frontier: %w", err)
		}
	}
}

func (s *Search) work(ctx context.Context, in <-chan walk.Walk, out, samples, solutions chan<- walk.Walk) error {
	for {
		w, ok, err := receive(ctx, in)
		if !ok {
			return err
		}
		if !s.process(ctx, w, out, samples, solutions) {
			return nil
		}
		s.inflight.Dec()
	}
}

// process expands w or decides it. It returns false when ctx ended before
// every result was handed on.
func (s *Search) process(ctx context.Context, w walk.Walk, out, samples, solutions chan<- walk.Walk) bool {
	if w.Terminal() == s.end {
		if !w.Covers() {
			deadEndsCounter.Inc()
			return true
		}
		return concurrency.TrySendThroughChannel(ctx, w, solutions)
	}

	if !concurrency.TrySend(w, samples) {
		droppedSamplesCounter.Inc()
	}

	expansionsCounter.Inc()
	siblings := walk.Expand(w)
	if n := len(s.graph.Edges(w.Terminal())) - len(siblings); n > 0 {
		discardedCounter.WithLabelValues("repetition").Add(float64(n))
	}

	// Least preferred first, so the frontier pops the most preferred first.
	for i := len(siblings) - 1; i >= 0; i-- {
		child := siblings[i].Walk
		if s.config.PruneByBest && child.Length >= s.best.Load() {
			discardedCounter.WithLabelValues("bound").Inc()
			continue
		}
		s.inflight.Inc()
		if !concurrency.TrySendThroughChannel(ctx, child, out) {
			return false
		}
	}
	return true
}

// sinkSolutions records every strict improvement. Writes are not interrupted
// by cancellation once a solution has been accepted.
func (s *Search) sinkSolutions(ctx context.Context, solutions <-chan walk.Walk) error {
	for {
		w, ok, err := receive(ctx, solutions)
		if !ok {
			return err
		}

		if best, found := s.Best(); found && w.Length >= best {
			solutionsCounter.WithLabelValues("discarded").Inc()
			continue
		}

		s.best.Store(w.Length)
		if err := s.record(context.WithoutCancel(ctx), w); err != nil {
			return err
		}
	}
}

func (s *Search) record(ctx context.Context, w walk.Walk) error {
	ctx, span := tracer.Start(ctx, "search.record")
	defer span.End()
	span.SetAttributes(attribute.Int64("length", int64(w.Length)))

	sol := storage.NewSolution(s.runID, w.Length, len(w.States), w.String())
	if err := s.writer.WriteSolution(ctx, sol); err != nil {
		telemetry.TraceError(span, err)
		return fmt.Errorf("record solution: %w", err)
	}

	solutionsCounter.WithLabelValues("recorded").Inc()
	bestLengthGauge.Set(float64(w.Length))
	s.logger.Info("FOUND",
		zap.String("run_id", s.runID),
		zap.Uint32("length", w.Length),
		zap.Int("states", len(w.States)),
		zap.String("walk", sol.Walk),
	)
	return nil
}

// sinkSamples writes one line for every LogSampleInterval samples received.
func (s *Search) sinkSamples(ctx context.Context, samples <-chan walk.Walk) error {
	var count int
	for {
		w, ok, err := receive(ctx, samples)
		if !ok {
			return err
		}

		count++
		if count < s.config.LogSampleInterval {
			continue
		}
		count = 0
		s.sampler.Info("CHECK", zap.Stringer("walk", w))
		if err := s.sampler.Err(); err != nil {
			return fmt.Errorf("write log sample: %w", err)
		}
	}
}
