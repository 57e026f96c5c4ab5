// Package config contains all knobs and defaults used to configure a coverwalk search.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/coverwalk/coverwalk/pkg/frontier"
	"github.com/coverwalk/coverwalk/pkg/graph"
	"github.com/coverwalk/coverwalk/pkg/search"
)

const (
	DefaultGraphPath   = "dataset.csv"
	DefaultGraphFormat = "auto"
	DefaultStartNode   = "WA"
	DefaultEndNode     = "ME"

	DefaultSpillFile     = "frontier.spill"
	DefaultHighWatermark = frontier.DefaultHighWatermark
	DefaultLowWatermark  = frontier.DefaultLowWatermark
	DefaultRefillLow     = frontier.DefaultRefillLow
	DefaultRefillHigh    = frontier.DefaultRefillHigh

	DefaultLogSampleInterval = search.DefaultLogSampleInterval
	DefaultPruneByBest       = false

	DefaultResultsFile = "results.txt"
	DefaultSampleFile  = "log.txt"

	DefaultHistoryTimeout = 5 * time.Second
)

// GraphConfig defines where the graph is read from and which nodes the walk connects.
type GraphConfig struct {
	// Path is the edge list file.
	Path string

	// Format is 'auto', 'csv' or 'yaml'. With 'auto' the file extension decides.
	Format string

	Start string
	End   string
}

// FrontierConfig defines the memory thresholds of the frontier and its spill file.
type FrontierConfig struct {
	SpillFile     string
	HighWatermark int
	LowWatermark  int
	RefillLow     int
	RefillHigh    int
}

// SearchConfig defines the pipeline settings.
type SearchConfig struct {
	// Workers is the number of expansion goroutines. Zero means GOMAXPROCS.
	Workers int

	// PruneByBest discards children that cannot beat the best recorded solution.
	PruneByBest bool

	// Duration stops the search after the given time. Zero runs until interrupted.
	Duration time.Duration
}

// ResultsConfig defines where improvements are recorded.
type ResultsConfig struct {
	File string

	// HistoryDB is an optional SQLite uri that also stores every improvement.
	HistoryDB      string
	HistoryTimeout time.Duration
}

// LogConfig defines configurations for the process logger and the walk sample log.
type LogConfig struct {
	// Format is the log format to use in the log output (e.g. 'text' or 'json')
	Format string

	// Level is the log level to use in the log output (e.g. 'none', 'debug', or 'info')
	Level string

	// Format of the timestamp in the log output (e.g. 'Unix'(default) or 'ISO8601')
	TimestampFormat string

	// SampleFile receives one walk per SampleInterval walks seen by the workers.
	SampleFile     string
	SampleInterval int
}

type TraceConfig struct {
	Enabled     bool
	OTLP        OTLPTraceConfig `mapstructure:"otlp"`
	SampleRatio float64
	ServiceName string
}

type OTLPTraceConfig struct {
	Endpoint string
	TLS      OTLPTraceTLSConfig
}

type OTLPTraceTLSConfig struct {
	Enabled bool
}

// ProfilerConfig defines configurations specific to pprof profiling.
type ProfilerConfig struct {
	Enabled bool
	Addr    string
}

// MetricConfig defines configurations for serving the prometheus metrics.
type MetricConfig struct {
	Enabled bool
	Addr    string
}

type Config struct {
	Graph    GraphConfig
	Frontier FrontierConfig
	Search   SearchConfig
	Results  ResultsConfig
	Log      LogConfig
	Trace    TraceConfig
	Profiler ProfilerConfig
	Metrics  MetricConfig
}

// FrontierStoreConfig converts the frontier thresholds for [frontier.Open].
func (cfg *Config) FrontierStoreConfig() frontier.Config {
	return frontier.Config{
		HighWatermark: cfg.Frontier.HighWatermark,
		LowWatermark:  cfg.Frontier.LowWatermark,
		RefillLow:     cfg.Frontier.RefillLow,
		RefillHigh:    cfg.Frontier.RefillHigh,
	}
}

// SearchOptions converts the pipeline settings for [search.New].
func (cfg *Config) SearchOptions() []search.Option {
	workers := cfg.Search.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return []search.Option{
		search.WithWorkers(workers),
		search.WithPruneByBest(cfg.Search.PruneByBest),
		search.WithLogSampleInterval(cfg.Log.SampleInterval),
	}
}

func (cfg *Config) Verify() error {
	if cfg.Graph.Path == "" {
		return errors.New("config 'graph.path' must be set")
	}

	if !graph.Format(cfg.Graph.Format).IsValid() {
		return fmt.Errorf("config 'graph.format' must be one of ['auto', 'csv', 'yaml']")
	}

	if cfg.Graph.Start == "" || cfg.Graph.End == "" {
		return errors.New("configs 'graph.start' and 'graph.end' must be set")
	}

	if cfg.Frontier.SpillFile == "" {
		return errors.New("config 'frontier.spillFile' must be set")
	}

	if err := cfg.FrontierStoreConfig().Validate(); err != nil {
		return fmt.Errorf("config 'frontier': %w", err)
	}

	if cfg.Search.Workers < 0 {
		return errors.New("config 'search.workers' cannot be negative")
	}

	if cfg.Search.Duration < 0 {
		return errors.New("config 'search.duration' cannot be negative")
	}

	if cfg.Results.File == "" {
		return errors.New("config 'results.file' must be set")
	}

	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return fmt.Errorf("config 'log.format' must be one of ['text', 'json']")
	}

	if cfg.Log.Level != "none" &&
		cfg.Log.Level != "debug" &&
		cfg.Log.Level != "info" &&
		cfg.Log.Level != "warn" &&
		cfg.Log.Level != "error" &&
		cfg.Log.Level != "panic" &&
		cfg.Log.Level != "fatal" {
		return fmt.Errorf(
			"config 'log.level' must be one of ['none', 'debug', 'info', 'warn', 'error', 'panic', 'fatal']",
		)
	}

	if cfg.Log.TimestampFormat != "Unix" && cfg.Log.TimestampFormat != "ISO8601" {
		return fmt.Errorf("config 'log.TimestampFormat' must be one of ['Unix', 'ISO8601']")
	}

	if cfg.Log.SampleFile == "" {
		return errors.New("config 'log.sampleFile' must be set")
	}

	if cfg.Log.SampleInterval < 1 {
		return errors.New("config 'log.sampleInterval' must be greater than zero")
	}

	if cfg.Trace.Enabled && (cfg.Trace.SampleRatio < 0 || cfg.Trace.SampleRatio > 1) {
		return errors.New("config 'trace.sampleRatio' must be between 0 and 1")
	}

	if cfg.Metrics.Enabled && cfg.Profiler.Enabled && cfg.Metrics.Addr == cfg.Profiler.Addr {
		return fmt.Errorf("configs 'metrics.addr' and 'profiler.addr' cannot share the address %q", cfg.Metrics.Addr)
	}

	return nil
}

// DefaultConfig returns the default coverwalk configuration.
func DefaultConfig() *Config {
	return &Config{
		Graph: GraphConfig{
			Path:   DefaultGraphPath,
			Format: DefaultGraphFormat,
			Start:  DefaultStartNode,
			End:    DefaultEndNode,
		},
		Frontier: FrontierConfig{
			SpillFile:     DefaultSpillFile,
			HighWatermark: DefaultHighWatermark,
			LowWatermark:  DefaultLowWatermark,
			RefillLow:     DefaultRefillLow,
			RefillHigh:    DefaultRefillHigh,
		},
		Search: SearchConfig{
			PruneByBest: DefaultPruneByBest,
		},
		Results: ResultsConfig{
			File:           DefaultResultsFile,
			HistoryTimeout: DefaultHistoryTimeout,
		},
		Log: LogConfig{
			Format:          "text",
			Level:           "info",
			TimestampFormat: "Unix",
			SampleFile:      DefaultSampleFile,
			SampleInterval:  DefaultLogSampleInterval,
		},
		Trace: TraceConfig{
			Enabled:     false,
			OTLP:        OTLPTraceConfig{Endpoint: "0.0.0.0:4317"},
			SampleRatio: 0.2,
			ServiceName: "coverwalk",
		},
		Profiler: ProfilerConfig{
			Enabled: false,
			Addr:    ":3001",
		},
		Metrics: MetricConfig{
			Enabled: false,
			Addr:    "0.0.0.0:2112",
		},
	}
}
