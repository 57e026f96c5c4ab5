package search

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/coverwalk/coverwalk/cmd"
	"github.com/coverwalk/coverwalk/cmd/util"
	"github.com/coverwalk/coverwalk/internal/config"
	"github.com/coverwalk/coverwalk/pkg/logger"
	"github.com/coverwalk/coverwalk/pkg/storage"
	"github.com/coverwalk/coverwalk/pkg/storage/sqlite"
)

const diamondCSV = `state,distance,target
A,1,B
B,1,C
C,1,D
B,5,D
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	graphPath := filepath.Join(dir, "diamond.csv")
	require.NoError(t, os.WriteFile(graphPath, []byte(diamondCSV), 0o644))

	cfg := config.DefaultConfig()
	cfg.Graph.Path = graphPath
	cfg.Graph.Start = "A"
	cfg.Graph.End = "D"
	cfg.Frontier.SpillFile = filepath.Join(dir, "frontier.spill")
	cfg.Frontier.HighWatermark = 16
	cfg.Frontier.LowWatermark = 8
	cfg.Frontier.RefillLow = 3
	cfg.Frontier.RefillHigh = 6
	cfg.Results.File = filepath.Join(dir, "results.txt")
	cfg.Log.SampleFile = filepath.Join(dir, "log.txt")
	cfg.Log.SampleInterval = 1
	cfg.Search.Workers = 2
	cfg.Search.Duration = 500 * time.Millisecond
	require.NoError(t, cfg.Verify())
	return cfg
}

func TestReadConfigDefaults(t *testing.T) {
	util.PrepareTempConfigDir(t)
	t.Cleanup(viper.Reset)

	cfg, err := ReadConfig()
	require.NoError(t, err)
	require.Equal(t, config.DefaultConfig(), cfg)
}

func TestParseConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	util.PrepareTempConfigFile(t, `graph:
  path: states.yaml
  start: CA
frontier:
  highWatermark: 100
  lowWatermark: 50
  refillLow: 5
  refillHigh: 20
search:
  pruneByBest: true
  duration: 1m
`)
	t.Setenv("COVERWALK_GRAPH_END", "NY")
	t.Setenv("COVERWALK_LOG_SAMPLE_INTERVAL", "7")

	searchCmd := NewSearchCommand()
	searchCmd.RunE = func(_ *cobra.Command, _ []string) error {
		return nil
	}
	rootCmd := cmd.NewRootCommand()
	rootCmd.AddCommand(searchCmd)
	rootCmd.SetArgs([]string{"search", "--search-workers", "3"})
	require.NoError(t, rootCmd.Execute())

	cfg, err := ReadConfig()
	require.NoError(t, err)
	require.Equal(t, "states.yaml", cfg.Graph.Path)
	require.Equal(t, "CA", cfg.Graph.Start)
	require.Equal(t, "NY", cfg.Graph.End)
	require.Equal(t, 100, cfg.Frontier.HighWatermark)
	require.Equal(t, 20, cfg.Frontier.RefillHigh)
	require.True(t, cfg.Search.PruneByBest)
	require.Equal(t, time.Minute, cfg.Search.Duration)
	require.Equal(t, 3, cfg.Search.Workers)
	require.Equal(t, 7, cfg.Log.SampleInterval)
	require.NoError(t, cfg.Verify())
}

func TestRunSearch(t *testing.T) {
	cfg := testConfig(t)
	cfg.Results.HistoryDB = filepath.Join(t.TempDir(), "history.db")

	searchCtx := &SearchContext{Logger: logger.NewNoopLogger()}
	require.NoError(t, searchCtx.Run(context.Background(), cfg))

	b, err := os.ReadFile(cfg.Results.File)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.NotEmpty(t, lines)
	require.True(t, strings.HasSuffix(lines[len(lines)-1], "FOUND: A->B->C->D->END, states 4, length 3"))

	b, err = os.ReadFile(cfg.Log.SampleFile)
	require.NoError(t, err)
	require.Contains(t, string(b), "CHECK")

	_, err = os.Stat(cfg.Frontier.SpillFile)
	require.ErrorIs(t, err, os.ErrNotExist)

	ds, err := sqlite.New(cfg.Results.HistoryDB)
	require.NoError(t, err)
	defer ds.Close()
	solutions, err := ds.ListSolutions(context.Background(), storage.ListOptions{})
	require.NoError(t, err)
	require.Len(t, solutions, len(lines))
	require.Equal(t, uint32(3), solutions[0].Length)
}

func TestRunSearchFailsFast(t *testing.T) {
	searchCtx := &SearchContext{Logger: logger.NewNoopLogger()}

	t.Run("missing_endpoint", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Graph.End = "Z"
		require.Error(t, searchCtx.Run(context.Background(), cfg))
	})

	t.Run("disconnected_graph", func(t *testing.T) {
		cfg := testConfig(t)
		require.NoError(t, os.WriteFile(cfg.Graph.Path, []byte("state,distance,target\nA,1,B\nC,1,D\n"), 0o644))
		require.Error(t, searchCtx.Run(context.Background(), cfg))
	})

	t.Run("unwritable_results", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Results.File = filepath.Join(t.TempDir(), "missing", "results.txt")
		require.Error(t, searchCtx.Run(context.Background(), cfg))
	})
}
