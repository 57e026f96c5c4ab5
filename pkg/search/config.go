package search

import (
	"errors"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/coverwalk/coverwalk/pkg/logger"
)

const (
	DefaultInputCapacity     = 5000
	DefaultOutputCapacity    = 5000
	DefaultLogCapacity       = 5
	DefaultLogSampleInterval = 100_000
	DefaultIdleInitial       = time.Millisecond
	DefaultIdleMax           = 100 * time.Millisecond
)

var (
	ErrInvalidWorkers  = errors.New("worker count must be greater than zero")
	ErrInvalidCapacity = errors.New("channel capacities must not be negative")
	ErrInvalidInterval = errors.New("log sample interval must be greater than zero")
	ErrInvalidIdle     = errors.New("idle backoff intervals must be positive and ordered")
)

// Config contains the tuning parameters of a run.
type Config struct {
	// Workers is the number of expansion goroutines.
	Workers int

	// InputCapacity buffers walks between distribution and the workers.
	InputCapacity int

	// OutputCapacity buffers children between the workers and collection.
	OutputCapacity int

	// LogCapacity buffers samples for the log sink. Samples are dropped when
	// it is full.
	LogCapacity int

	// LogSampleInterval is how many samples the log sink receives per line
	// it writes.
	LogSampleInterval int

	// PruneByBest discards children that are not shorter than the best
	// recorded solution.
	PruneByBest bool

	// IdleInitial and IdleMax bound the wait of the distribution stage while
	// the frontier is empty.
	IdleInitial time.Duration
	IdleMax     time.Duration
}

// DefaultConfig returns the configuration used when no option is given.
func DefaultConfig() Config {
	return Config{
		Workers:           runtime.GOMAXPROCS(0),
		InputCapacity:     DefaultInputCapacity,
		OutputCapacity:    DefaultOutputCapacity,
		LogCapacity:       DefaultLogCapacity,
		LogSampleInterval: DefaultLogSampleInterval,
		IdleInitial:       DefaultIdleInitial,
		IdleMax:           DefaultIdleMax,
	}
}

func (c *Config) Validate() error {
	if c.Workers < 1 {
		return ErrInvalidWorkers
	}
	if c.InputCapacity < 0 || c.OutputCapacity < 0 || c.LogCapacity < 0 {
		return ErrInvalidCapacity
	}
	if c.LogSampleInterval < 1 {
		return ErrInvalidInterval
	}
	if c.IdleInitial <= 0 || c.IdleMax < c.IdleInitial {
		return ErrInvalidIdle
	}
	return nil
}

type Option func(*Search)

// WithConfig replaces the entire configuration.
func WithConfig(c Config) Option {
	return func(s *Search) {
		s.config = c
	}
}

// WithWorkers sets the number of expansion goroutines.
func WithWorkers(n int) Option {
	return func(s *Search) {
		s.config.Workers = n
	}
}

// WithLogSampleInterval sets how many samples make one log line.
func WithLogSampleInterval(n int) Option {
	return func(s *Search) {
		s.config.LogSampleInterval = n
	}
}

// WithPruneByBest enables bound pruning against the best recorded length.
func WithPruneByBest(enabled bool) Option {
	return func(s *Search) {
		s.config.PruneByBest = enabled
	}
}

// WithLogger sets the logger for lifecycle and improvement messages.
func WithLogger(l logger.Logger) Option {
	return func(s *Search) {
		s.logger = l
	}
}

// SampleLogger receives the log sink's sampled walks. Err reports the first
// write that failed; the run stops on it.
type SampleLogger interface {
	Info(msg string, fields ...zap.Field)
	Err() error
}

var (
	_ SampleLogger = (*logger.FileLogger)(nil)
	_ SampleLogger = (*logger.ObserverLogger)(nil)
)

type noopSampler struct{}

func (noopSampler) Info(string, ...zap.Field) {}

func (noopSampler) Err() error { return nil }

// WithSampleLogger sets where the log sink writes its sampled walks.
func WithSampleLogger(l SampleLogger) Option {
	return func(s *Search) {
		s.sampler = l
	}
}

// WithRunID tags every recorded solution with id.
func WithRunID(id string) Option {
	return func(s *Search) {
		s.runID = id
	}
}

// stopWhenExhausted ends the run once the frontier is empty and no walk is
// in flight. A real search space is too large for this to matter.
func stopWhenExhausted() Option {
	return func(s *Search) {
		s.exhaustive = true
	}
}
