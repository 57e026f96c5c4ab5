package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/coverwalk/coverwalk/internal/concurrency"
	"github.com/coverwalk/coverwalk/internal/track"
	"github.com/coverwalk/coverwalk/pkg/frontier"
	"github.com/coverwalk/coverwalk/pkg/graph"
	"github.com/coverwalk/coverwalk/pkg/logger"
	"github.com/coverwalk/coverwalk/pkg/storage"
	"github.com/coverwalk/coverwalk/pkg/telemetry"
	"github.com/coverwalk/coverwalk/pkg/walk"
)

var tracer = otel.Tracer("coverwalk/pkg/search")

var (
	ErrChannelClosed = errors.New("pipeline channel closed unexpectedly")
	ErrAlreadyRun    = errors.New("search has already run")
	ErrInvalidNode   = errors.New("node is not part of the graph")
)

const noBest = math.MaxUint32

// Search holds the dependencies and configuration of one run.
type Search struct {
	graph    *graph.Graph
	start    graph.NodeID
	end      graph.NodeID
	frontier frontier.Frontier
	writer   storage.SolutionWriter

	config  Config
	logger  logger.Logger
	sampler SampleLogger
	runID   string

	best       atomic.Uint32
	started    atomic.Bool
	exhaustive bool
	inflight   *track.Tracker
}

// New creates a Search over g from start to end. Walks are kept in f and
// every improvement is written to w.
func New(g *graph.Graph, start, end graph.NodeID, f frontier.Frontier, w storage.SolutionWriter, options ...Option) *Search {
	s := &Search{
		graph:    g,
		start:    start,
		end:      end,
		frontier: f,
		writer:   w,
		config:   DefaultConfig(),
		logger:   logger.NewNoopLogger(),
		sampler:  noopSampler{},
		runID:    storage.NewRunID(),
		inflight: track.NewTracker(),
	}
	s.best.Store(noBest)

	for _, o := range options {
		o(s)
	}
	return s
}

// RunID identifies this run in recorded solutions.
func (s *Search) RunID() string {
	return s.runID
}

// Best returns the length of the best recorded solution. ok is false until
// one has been recorded.
func (s *Search) Best() (length uint32, ok bool) {
	b := s.best.Load()
	return b, b != noBest
}

// Run seeds the frontier with the start node and searches until ctx is
// canceled or a role fails. Cancellation is not an error. A Search can only
// run once.
func (s *Search) Run(ctx context.Context) error {
	if err := s.config.Validate(); err != nil {
		return err
	}
	if int(s.start) >= s.graph.Len() || int(s.end) >= s.graph.Len() {
		return ErrInvalidNode
	}
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyRun
	}

	ctx, span := tracer.Start(ctx, "search.Run")
	defer span.End()
	span.SetAttributes(
		attribute.String("run_id", s.runID),
		attribute.Int("nodes", s.graph.Len()),
		attribute.Int("workers", s.config.Workers),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.inflight.Inc()
	if err := s.frontier.Push(walk.New(s.graph, s.start)); err != nil {
		return fmt.Errorf("seed frontier: %w", err)
	}

	in := make(chan walk.Walk, s.config.InputCapacity)
	out := make(chan walk.Walk, s.config.OutputCapacity)
	samples := make(chan walk.Walk, s.config.LogCapacity)
	solutions := make(chan walk.Walk)

	roles := s.config.Workers + 4
	if s.exhaustive {
		roles++
	}
	p := concurrency.NewPool(ctx, roles)

	s.logger.Info("search started",
		zap.String("run_id", s.runID),
		zap.String("start", s.graph.Name(s.start)),
		zap.String("end", s.graph.Name(s.end)),
		zap.Int("nodes", s.graph.Len()),
		zap.Int("workers", s.config.Workers),
	)

	p.Go(func(ctx context.Context) error {
		return s.distribute(ctx, in)
	})
	p.Go(func(ctx context.Context) error {
		return s.collect(ctx, out)
	})
	p.Go(func(ctx context.Context) error {
		return s.sinkSolutions(ctx, solutions)
	})
	p.Go(func(ctx context.Context) error {
		return s.sinkSamples(ctx, samples)
	})
	for range s.config.Workers {
		p.Go(func(ctx context.Context) error {
			return s.work(ctx, in, out, samples, solutions)
		})
	}
	if s.exhaustive {
		p.Go(func(ctx context.Context) error {
			if s.inflight.WaitContext(ctx, func(v int64) bool { return v == 0 }) == nil {
				s.logger.Info("search space exhausted", zap.String("run_id", s.runID))
				cancel()
			}
			return nil
		})
	}

	err := p.Wait()
	if err != nil {
		telemetry.TraceError(span, err)
		s.logger.Error("search failed", zap.String("run_id", s.runID), zap.Error(err))
		return err
	}

	best, ok := s.Best()
	fields := []zap.Field{zap.String("run_id", s.runID)}
	if ok {
		fields = append(fields, zap.Uint32("best", best))
	}
	s.logger.Info("search stopped", fields...)
	return nil
}
