// Package frontier implements the LIFO store of walks that are waiting to be
// expanded.
//
// The newest walks live in memory. When the in-memory buffer grows past a
// high watermark its oldest entries are spilled to a file until a low
// watermark is reached, and they are read back once the buffer runs low again.
// The two bands of thresholds keep alternating push and pop bursts from
// bouncing entries between memory and disk.
package frontier

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gammazero/deque"
	"go.uber.org/zap"

	"github.com/coverwalk/coverwalk/pkg/graph"
	"github.com/coverwalk/coverwalk/pkg/logger"
	"github.com/coverwalk/coverwalk/pkg/walk"
)

const (
	DefaultHighWatermark = 1_000_000
	DefaultLowWatermark  = 500_000
	DefaultRefillLow     = 2_000
	DefaultRefillHigh    = 50_000
)

var (
	ErrInvalidWatermarks = errors.New("low watermark must be positive and below the high watermark")
	ErrInvalidRefill     = errors.New("refill thresholds must be positive, ordered and not above the low watermark")
	ErrClosed            = errors.New("frontier is closed")
)

// Frontier is a concurrency-safe LIFO stack of walks.
type Frontier interface {
	// Push stores w on top of the stack.
	Push(w walk.Walk) error

	// Pop removes the most recently pushed walk. ok is false when the
	// frontier is empty.
	Pop() (w walk.Walk, ok bool, err error)

	// Ready is signaled after pushes so that an idle consumer can stop
	// waiting. A signal does not guarantee that the next Pop succeeds.
	Ready() <-chan struct{}

	Close() error
}

// Config holds the thresholds of the memory buffer.
type Config struct {
	// HighWatermark is the buffer length that triggers a spill.
	HighWatermark int

	// LowWatermark is the buffer length a spill stops at.
	LowWatermark int

	// RefillLow is the buffer length under which a pop reads records back.
	RefillLow int

	// RefillHigh is the buffer length a refill stops at.
	RefillHigh int
}

func DefaultConfig() Config {
	return Config{
		HighWatermark: DefaultHighWatermark,
		LowWatermark:  DefaultLowWatermark,
		RefillLow:     DefaultRefillLow,
		RefillHigh:    DefaultRefillHigh,
	}
}

func (c Config) Validate() error {
	if c.LowWatermark < 1 || c.LowWatermark >= c.HighWatermark {
		return ErrInvalidWatermarks
	}
	if c.RefillLow < 1 || c.RefillLow >= c.RefillHigh || c.RefillHigh > c.LowWatermark {
		return ErrInvalidRefill
	}
	return nil
}

// Stats is a point in time snapshot of a Store.
type Stats struct {
	Memory          int
	Spilled         int
	SpillEpisodes   uint64
	RefillEpisodes  uint64
	RecordsSpilled  uint64
	RecordsRefilled uint64
}

type StoreOption func(*Store)

func WithConfig(c Config) StoreOption {
	return func(s *Store) {
		s.config = c
	}
}

func WithLogger(l logger.Logger) StoreOption {
	return func(s *Store) {
		s.logger = l
	}
}

// Store is the file backed Frontier. The zero value is not usable; create
// one with Open.
type Store struct {
	mu     sync.Mutex
	config Config
	logger logger.Logger
	hot    deque.Deque[walk.Walk]
	cold   *spillFile
	ready  chan struct{}
	stats  Stats
	closed bool
}

var _ Frontier = (*Store)(nil)

// Open creates a Store whose overflow goes to the file at spillPath. An
// existing file at that path is truncated.
func Open(spillPath string, g *graph.Graph, opts ...StoreOption) (*Store, error) {
	s := &Store{
		config: DefaultConfig(),
		logger: logger.NewNoopLogger(),
		ready:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.config.Validate(); err != nil {
		return nil, err
	}

	cold, err := createSpillFile(spillPath, g)
	if err != nil {
		return nil, err
	}
	s.cold = cold
	return s, nil
}

func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

func (s *Store) Push(w walk.Walk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	s.hot.PushBack(w)
	if s.hot.Len() > s.config.HighWatermark {
		if err := s.spill(); err != nil {
			return err
		}
	}
	frontierMemoryGauge.Set(float64(s.hot.Len()))

	select {
	case s.ready <- struct{}{}:
	default:
	}
	return nil
}

func (s *Store) Pop() (walk.Walk, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return walk.Walk{}, false, ErrClosed
	}

	if s.hot.Len() == 0 {
		if s.cold.Len() == 0 {
			return walk.Walk{}, false, nil
		}
		if err := s.refill(); err != nil {
			return walk.Walk{}, false, err
		}
	}

	w := s.hot.PopBack()
	if s.hot.Len() < s.config.RefillLow && s.cold.Len() > 0 {
		if err := s.refill(); err != nil {
			return walk.Walk{}, false, err
		}
	}
	frontierMemoryGauge.Set(float64(s.hot.Len()))
	return w, true, nil
}

// spill moves the oldest in-memory walks to the file until the low watermark
// is reached. The caller holds mu.
func (s *Store) spill() error {
	var moved uint64
	for s.hot.Len() > s.config.LowWatermark {
		if err := s.cold.push(s.hot.PopFront()); err != nil {
			return err
		}
		moved++
	}
	if err := s.cold.flush(); err != nil {
		return err
	}

	s.stats.SpillEpisodes++
	s.stats.RecordsSpilled += moved
	spillEpisodesCounter.Inc()
	spillRecordsCounter.Add(float64(moved))
	frontierSpilledGauge.Set(float64(s.cold.Len()))

	s.logger.Debug("frontier spilled to disk",
		zap.Uint64("records", moved),
		zap.Int("memory", s.hot.Len()),
		zap.Int("spilled", s.cold.Len()))
	return nil
}

// refill reads the most recently spilled walks back below the in-memory ones
// until the buffer holds RefillHigh walks or the file is empty. The caller
// holds mu.
func (s *Store) refill() error {
	var moved uint64
	for s.hot.Len() < s.config.RefillHigh && s.cold.Len() > 0 {
		w, err := s.cold.pop()
		if err != nil {
			return err
		}
		s.hot.PushFront(w)
		moved++
	}

	s.stats.RefillEpisodes++
	s.stats.RecordsRefilled += moved
	refillEpisodesCounter.Inc()
	refillRecordsCounter.Add(float64(moved))
	frontierSpilledGauge.Set(float64(s.cold.Len()))

	s.logger.Debug("frontier refilled from disk",
		zap.Uint64("records", moved),
		zap.Int("memory", s.hot.Len()),
		zap.Int("spilled", s.cold.Len()))
	return nil
}

// Len returns the number of walks held in memory and on disk.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.hot.Len() + s.cold.Len()
}

func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.stats
	stats.Memory = s.hot.Len()
	stats.Spilled = s.cold.Len()
	return stats
}

// Close releases the spill file. Walks still held are dropped.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.hot.Clear()

	if err := s.cold.Close(); err != nil {
		return fmt.Errorf("close frontier: %w", err)
	}
	return nil
}
