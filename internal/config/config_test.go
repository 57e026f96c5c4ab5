package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Verify())
}

func TestVerifyConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing_graph_path",
			mutate:  func(c *Config) { c.Graph.Path = "" },
			wantErr: "config 'graph.path' must be set",
		},
		{
			name:    "unknown_graph_format",
			mutate:  func(c *Config) { c.Graph.Format = "xml" },
			wantErr: "config 'graph.format' must be one of ['auto', 'csv', 'yaml']",
		},
		{
			name:    "missing_end",
			mutate:  func(c *Config) { c.Graph.End = "" },
			wantErr: "configs 'graph.start' and 'graph.end' must be set",
		},
		{
			name:    "missing_spill_file",
			mutate:  func(c *Config) { c.Frontier.SpillFile = "" },
			wantErr: "config 'frontier.spillFile' must be set",
		},
		{
			name: "refill_above_low_watermark",
			mutate: func(c *Config) {
				c.Frontier.RefillHigh = c.Frontier.LowWatermark + 1
			},
			wantErr: "config 'frontier': refill thresholds must be positive, ordered and not above the low watermark",
		},
		{
			name:    "negative_workers",
			mutate:  func(c *Config) { c.Search.Workers = -1 },
			wantErr: "config 'search.workers' cannot be negative",
		},
		{
			name:    "negative_duration",
			mutate:  func(c *Config) { c.Search.Duration = -time.Second },
			wantErr: "config 'search.duration' cannot be negative",
		},
		{
			name:    "missing_results_file",
			mutate:  func(c *Config) { c.Results.File = "" },
			wantErr: "config 'results.file' must be set",
		},
		{
			name:    "bad_log_format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: "config 'log.format' must be one of ['text', 'json']",
		},
		{
			name:    "bad_log_level",
			mutate:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: "config 'log.level' must be one of ['none', 'debug', 'info', 'warn', 'error', 'panic', 'fatal']",
		},
		{
			name:    "bad_timestamp_format",
			mutate:  func(c *Config) { c.Log.TimestampFormat = "RFC3339" },
			wantErr: "config 'log.TimestampFormat' must be one of ['Unix', 'ISO8601']",
		},
		{
			name:    "zero_sample_interval",
			mutate:  func(c *Config) { c.Log.SampleInterval = 0 },
			wantErr: "config 'log.sampleInterval' must be greater than zero",
		},
		{
			name: "bad_sample_ratio",
			mutate: func(c *Config) {
				c.Trace.Enabled = true
				c.Trace.SampleRatio = 1.5
			},
			wantErr: "config 'trace.sampleRatio' must be between 0 and 1",
		},
		{
			name: "metrics_and_profiler_share_address",
			mutate: func(c *Config) {
				c.Metrics.Enabled = true
				c.Profiler.Enabled = true
				c.Profiler.Addr = c.Metrics.Addr
			},
			wantErr: "configs 'metrics.addr' and 'profiler.addr' cannot share the address \"0.0.0.0:2112\"",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := DefaultConfig()
			test.mutate(cfg)
			require.EqualError(t, cfg.Verify(), test.wantErr)
		})
	}
}

func TestConversions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Frontier.HighWatermark = 40
	cfg.Frontier.LowWatermark = 20
	cfg.Frontier.RefillLow = 5
	cfg.Frontier.RefillHigh = 10

	fc := cfg.FrontierStoreConfig()
	require.Equal(t, 40, fc.HighWatermark)
	require.Equal(t, 20, fc.LowWatermark)
	require.Equal(t, 5, fc.RefillLow)
	require.Equal(t, 10, fc.RefillHigh)
	require.NoError(t, fc.Validate())

	require.Len(t, cfg.SearchOptions(), 3)
}
