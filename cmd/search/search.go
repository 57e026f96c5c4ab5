// Package search contains the command that runs a covering walk search.
package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/coverwalk/coverwalk/internal/config"
	"github.com/coverwalk/coverwalk/pkg/frontier"
	"github.com/coverwalk/coverwalk/pkg/graph"
	"github.com/coverwalk/coverwalk/pkg/logger"
	coversearch "github.com/coverwalk/coverwalk/pkg/search"
	"github.com/coverwalk/coverwalk/pkg/storage"
	"github.com/coverwalk/coverwalk/pkg/storage/sqlite"
	"github.com/coverwalk/coverwalk/pkg/storage/textfile"
	"github.com/coverwalk/coverwalk/pkg/telemetry"
)

const shutdownTimeout = 5 * time.Second

func NewSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search for the shortest covering walk",
		Long: `Search for the shortest walk from the start node to the end node that visits every node.

Every strictly shorter walk is appended to the results file as soon as it is found. The search
runs until it is interrupted or 'search.duration' has passed.`,
		RunE: run,
		Args: cobra.NoArgs,
	}

	defaultConfig := config.DefaultConfig()
	flags := cmd.Flags()

	flags.String("graph-path", defaultConfig.Graph.Path, "the edge list file to read the graph from")

	flags.String("graph-format", defaultConfig.Graph.Format, "the edge list format: 'auto', 'csv' or 'yaml'")

	flags.String("graph-start", defaultConfig.Graph.Start, "the name of the node every walk starts at")

	flags.String("graph-end", defaultConfig.Graph.End, "the name of the node every walk ends at")

	flags.String("frontier-spill-file", defaultConfig.Frontier.SpillFile, "the file the frontier overflows to. It is truncated at startup and removed on exit")

	flags.Int("frontier-high-watermark", defaultConfig.Frontier.HighWatermark, "the number of in-memory walks that triggers a spill to disk")

	flags.Int("frontier-low-watermark", defaultConfig.Frontier.LowWatermark, "the number of in-memory walks a spill stops at")

	flags.Int("frontier-refill-low", defaultConfig.Frontier.RefillLow, "the number of in-memory walks under which spilled walks are read back")

	flags.Int("frontier-refill-high", defaultConfig.Frontier.RefillHigh, "the number of in-memory walks a refill stops at")

	flags.Int("search-workers", defaultConfig.Search.Workers, "the number of expansion goroutines. 0 uses GOMAXPROCS")

	flags.Bool("search-prune-by-best", defaultConfig.Search.PruneByBest, "discard walks that are not shorter than the best recorded solution")

	flags.Duration("search-duration", defaultConfig.Search.Duration, "stop the search after this long. 0 runs until interrupted")

	flags.String("results-file", defaultConfig.Results.File, "the file improvements are appended to")

	flags.String("results-history-db", defaultConfig.Results.HistoryDB, "an optional SQLite uri that also stores every improvement")

	flags.Duration("results-history-timeout", defaultConfig.Results.HistoryTimeout, "how long to wait for the history database at startup")

	flags.String("log-format", defaultConfig.Log.Format, "the log format to output logs in")

	flags.String("log-level", defaultConfig.Log.Level, "the log level to output logs in")

	flags.String("log-timestamp-format", defaultConfig.Log.TimestampFormat, "the timestamp format to use for log messages")

	flags.String("log-sample-file", defaultConfig.Log.SampleFile, "the file sampled walks are appended to")

	flags.Int("log-sample-interval", defaultConfig.Log.SampleInterval, "write one sampled walk per this many walks")

	flags.Bool("trace-enabled", defaultConfig.Trace.Enabled, "enable tracing")

	flags.String("trace-otlp-endpoint", defaultConfig.Trace.OTLP.Endpoint, "the endpoint of the trace collector")

	flags.Bool("trace-otlp-tls-enabled", defaultConfig.Trace.OTLP.TLS.Enabled, "use TLS connection for trace collector")

	flags.Float64("trace-sample-ratio", defaultConfig.Trace.SampleRatio, "the fraction of traces to sample. 1 means all, 0 means none")

	flags.String("trace-service-name", defaultConfig.Trace.ServiceName, "the service name included in sampled traces")

	flags.Bool("profiler-enabled", defaultConfig.Profiler.Enabled, "enable/disable pprof profiling")

	flags.String("profiler-addr", defaultConfig.Profiler.Addr, "the host:port address to serve the pprof profiler server on")

	flags.Bool("metrics-enabled", defaultConfig.Metrics.Enabled, "enable/disable prometheus metrics on the '/metrics' endpoint")

	flags.String("metrics-addr", defaultConfig.Metrics.Addr, "the host:port address to serve the prometheus metrics server on")

	// NOTE: if you add a new flag here, update bindSearchFlagsFunc, too

	cmd.PreRun = bindSearchFlagsFunc(flags)

	return cmd
}

// ReadConfig returns the search configuration based on the values provided in the 'config.yaml' file.
// The 'config.yaml' file is loaded from '/etc/coverwalk', '$HOME/.coverwalk', or the current working directory. If no configuration
// file is present, the default values are returned.
func ReadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()

	viper.SetTypeByDefaultValue(true)
	err := viper.ReadInConfig()
	if err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := ReadConfig()
	if err != nil {
		return err
	}

	if err := cfg.Verify(); err != nil {
		return err
	}

	log, err := logger.NewLogger(cfg.Log.Format, cfg.Log.Level, cfg.Log.TimestampFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	searchCtx := &SearchContext{Logger: log}
	return searchCtx.Run(cmd.Context(), cfg)
}

type SearchContext struct {
	Logger logger.Logger
}

// Run loads the graph, opens every output and searches until ctx is done, a signal arrives or
// 'search.duration' has passed. Stopping is not an error; failing to write an output is.
func (s *SearchContext) Run(ctx context.Context, cfg *config.Config) (err error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Search.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Search.Duration)
		defer cancel()
	}

	tracerProviderCloser := s.telemetryConfig(cfg)
	defer func() {
		if err := tracerProviderCloser(); err != nil {
			s.Logger.Error("failed to shutdown tracing", zap.Error(err))
		}
	}()

	g, start, end, err := s.loadGraph(cfg)
	if err != nil {
		return err
	}

	f, err := frontier.Open(cfg.Frontier.SpillFile, g,
		frontier.WithConfig(cfg.FrontierStoreConfig()),
		frontier.WithLogger(s.Logger),
	)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()

	writers, err := s.openWriters(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, writers.Close()) }()

	sampler, err := logger.NewFileLogger(cfg.Log.SampleFile)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, sampler.Close()) }()

	opts := append(cfg.SearchOptions(),
		coversearch.WithLogger(s.Logger),
		coversearch.WithSampleLogger(sampler),
	)
	srch := coversearch.New(g, start, end, f, writers, opts...)

	grp, grpCtx := errgroup.WithContext(ctx)
	runCtx, cancelRun := context.WithCancel(grpCtx)
	defer cancelRun()

	var servers []*http.Server
	if cfg.Profiler.Enabled {
		mux := http.NewServeMux()
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
		servers = append(servers, s.serve(grp, "pprof profiler", cfg.Profiler.Addr, mux))
	}

	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		servers = append(servers, s.serve(grp, "prometheus metrics", cfg.Metrics.Addr, mux))
	}

	grp.Go(func() error {
		defer cancelRun()
		return srch.Run(runCtx)
	})

	grp.Go(func() error {
		<-runCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				s.Logger.Info("failed to shutdown server", zap.String("addr", srv.Addr), zap.Error(err))
			}
		}
		return nil
	})

	err = grp.Wait()
	if best, ok := srch.Best(); ok {
		s.Logger.Info("best solution", zap.String("run_id", srch.RunID()), zap.Uint32("length", best))
	}
	return err
}

func (s *SearchContext) serve(grp *errgroup.Group, name, addr string, handler http.Handler) *http.Server {
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 5 * time.Second}
	grp.Go(func() error {
		s.Logger.Info(fmt.Sprintf("starting %s on '%s'", name, addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start %s: %w", name, err)
		}
		s.Logger.Info(name + " shut down.")
		return nil
	})
	return srv
}

func (s *SearchContext) loadGraph(cfg *config.Config) (*graph.Graph, graph.NodeID, graph.NodeID, error) {
	g, err := graph.Load(cfg.Graph.Path, graph.Format(cfg.Graph.Format))
	if err != nil {
		return nil, 0, 0, err
	}

	start, end, err := g.Endpoints(cfg.Graph.Start, cfg.Graph.End)
	if err != nil {
		return nil, 0, 0, err
	}

	if err := g.Validate(); err != nil {
		return nil, 0, 0, err
	}

	s.Logger.Info("graph loaded",
		zap.String("path", cfg.Graph.Path),
		zap.Int("nodes", g.Len()),
		zap.String("start", cfg.Graph.Start),
		zap.String("end", cfg.Graph.End),
	)
	return g, start, end, nil
}

// openWriters opens the results file and, when configured, the migrated history database.
func (s *SearchContext) openWriters(ctx context.Context, cfg *config.Config) (storage.MultiWriter, error) {
	results, err := textfile.Open(cfg.Results.File)
	if err != nil {
		return nil, err
	}
	writers := storage.MultiWriter{results}
	s.Logger.Info("appending results", zap.String("path", results.Path()))

	if cfg.Results.HistoryDB == "" {
		return writers, nil
	}

	var migrator storage.MigrationProvider = sqlite.NewSQLiteMigrationProvider()
	err = migrator.RunMigrations(ctx, storage.MigrationConfig{
		Engine:  migrator.GetSupportedEngine(),
		URI:     cfg.Results.HistoryDB,
		Timeout: cfg.Results.HistoryTimeout,
		Logger:  s.Logger,
	})
	if err != nil {
		return nil, multierr.Append(err, writers.Close())
	}

	history, err := sqlite.New(cfg.Results.HistoryDB, sqlite.WithLogger(s.Logger))
	if err != nil {
		return nil, multierr.Append(err, writers.Close())
	}
	return append(writers, history), nil
}

func (s *SearchContext) telemetryConfig(cfg *config.Config) func() error {
	if !cfg.Trace.Enabled {
		return func() error { return nil }
	}

	s.Logger.Info(fmt.Sprintf("🕵 tracing enabled: sampling ratio is %v and sending traces to '%s', tls: %t", cfg.Trace.SampleRatio, cfg.Trace.OTLP.Endpoint, cfg.Trace.OTLP.TLS.Enabled))

	options := []telemetry.TracerOption{
		telemetry.WithOTLPEndpoint(cfg.Trace.OTLP.Endpoint),
		telemetry.WithServiceName(cfg.Trace.ServiceName),
		telemetry.WithSamplingRatio(cfg.Trace.SampleRatio),
	}
	if !cfg.Trace.OTLP.TLS.Enabled {
		options = append(options, telemetry.WithOTLPInsecure())
	}

	tp := telemetry.MustNewTracerProvider(options...)
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := tp.ForceFlush(ctx); err != nil {
			return err
		}
		return tp.Shutdown(ctx)
	}
}
