package search

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/coverwalk/coverwalk/cmd/util"
)

// bindSearchFlagsFunc binds the cobra cmd flags to the equivalent config value being managed
// by viper. This bridges the config between cobra flags and viper flags.
func bindSearchFlagsFunc(flags *pflag.FlagSet) func(*cobra.Command, []string) {
	return func(_ *cobra.Command, _ []string) {
		util.MustBindPFlag("graph.path", flags.Lookup("graph-path"))
		util.MustBindEnv("graph.path", "COVERWALK_GRAPH_PATH")

		util.MustBindPFlag("graph.format", flags.Lookup("graph-format"))
		util.MustBindEnv("graph.format", "COVERWALK_GRAPH_FORMAT")

		util.MustBindPFlag("graph.start", flags.Lookup("graph-start"))
		util.MustBindEnv("graph.start", "COVERWALK_GRAPH_START")

		util.MustBindPFlag("graph.end", flags.Lookup("graph-end"))
		util.MustBindEnv("graph.end", "COVERWALK_GRAPH_END")

		util.MustBindPFlag("frontier.spillFile", flags.Lookup("frontier-spill-file"))
		util.MustBindEnv("frontier.spillFile", "COVERWALK_FRONTIER_SPILL_FILE", "COVERWALK_FRONTIER_SPILLFILE")

		util.MustBindPFlag("frontier.highWatermark", flags.Lookup("frontier-high-watermark"))
		util.MustBindEnv("frontier.highWatermark", "COVERWALK_FRONTIER_HIGH_WATERMARK", "COVERWALK_FRONTIER_HIGHWATERMARK")

		util.MustBindPFlag("frontier.lowWatermark", flags.Lookup("frontier-low-watermark"))
		util.MustBindEnv("frontier.lowWatermark", "COVERWALK_FRONTIER_LOW_WATERMARK", "COVERWALK_FRONTIER_LOWWATERMARK")

		util.MustBindPFlag("frontier.refillLow", flags.Lookup("frontier-refill-low"))
		util.MustBindEnv("frontier.refillLow", "COVERWALK_FRONTIER_REFILL_LOW", "COVERWALK_FRONTIER_REFILLLOW")

		util.MustBindPFlag("frontier.refillHigh", flags.Lookup("frontier-refill-high"))
		util.MustBindEnv("frontier.refillHigh", "COVERWALK_FRONTIER_REFILL_HIGH", "COVERWALK_FRONTIER_REFILLHIGH")

		util.MustBindPFlag("search.workers", flags.Lookup("search-workers"))
		util.MustBindEnv("search.workers", "COVERWALK_SEARCH_WORKERS")

		util.MustBindPFlag("search.pruneByBest", flags.Lookup("search-prune-by-best"))
		util.MustBindEnv("search.pruneByBest", "COVERWALK_SEARCH_PRUNE_BY_BEST", "COVERWALK_SEARCH_PRUNEBYBEST")

		util.MustBindPFlag("search.duration", flags.Lookup("search-duration"))
		util.MustBindEnv("search.duration", "COVERWALK_SEARCH_DURATION")

		util.MustBindPFlag("results.file", flags.Lookup("results-file"))
		util.MustBindEnv("results.file", "COVERWALK_RESULTS_FILE")

		util.MustBindPFlag("results.historyDB", flags.Lookup("results-history-db"))
		util.MustBindEnv("results.historyDB", "COVERWALK_RESULTS_HISTORY_DB", "COVERWALK_RESULTS_HISTORYDB")

		util.MustBindPFlag("results.historyTimeout", flags.Lookup("results-history-timeout"))
		util.MustBindEnv("results.historyTimeout", "COVERWALK_RESULTS_HISTORY_TIMEOUT", "COVERWALK_RESULTS_HISTORYTIMEOUT")

		util.MustBindPFlag("log.format", flags.Lookup("log-format"))
		util.MustBindEnv("log.format", "COVERWALK_LOG_FORMAT")

		util.MustBindPFlag("log.level", flags.Lookup("log-level"))
		util.MustBindEnv("log.level", "COVERWALK_LOG_LEVEL")

		util.MustBindPFlag("log.timestampFormat", flags.Lookup("log-timestamp-format"))
		util.MustBindEnv("log.timestampFormat", "COVERWALK_LOG_TIMESTAMP_FORMAT", "COVERWALK_LOG_TIMESTAMPFORMAT")

		util.MustBindPFlag("log.sampleFile", flags.Lookup("log-sample-file"))
		util.MustBindEnv("log.sampleFile", "COVERWALK_LOG_SAMPLE_FILE", "COVERWALK_LOG_SAMPLEFILE")

		util.MustBindPFlag("log.sampleInterval", flags.Lookup("log-sample-interval"))
		util.MustBindEnv("log.sampleInterval", "COVERWALK_LOG_SAMPLE_INTERVAL", "COVERWALK_LOG_SAMPLEINTERVAL")

		util.MustBindPFlag("trace.enabled", flags.Lookup("trace-enabled"))
		util.MustBindEnv("trace.enabled", "COVERWALK_TRACE_ENABLED")

		util.MustBindPFlag("trace.otlp.endpoint", flags.Lookup("trace-otlp-endpoint"))
		util.MustBindEnv("trace.otlp.endpoint", "COVERWALK_TRACE_OTLP_ENDPOINT")

		util.MustBindPFlag("trace.otlp.tls.enabled", flags.Lookup("trace-otlp-tls-enabled"))
		util.MustBindEnv("trace.otlp.tls.enabled", "COVERWALK_TRACE_OTLP_TLS_ENABLED")

		util.MustBindPFlag("trace.sampleRatio", flags.Lookup("trace-sample-ratio"))
		util.MustBindEnv("trace.sampleRatio", "COVERWALK_TRACE_SAMPLE_RATIO", "COVERWALK_TRACE_SAMPLERATIO")

		util.MustBindPFlag("trace.serviceName", flags.Lookup("trace-service-name"))
		util.MustBindEnv("trace.serviceName", "COVERWALK_TRACE_SERVICE_NAME", "COVERWALK_TRACE_SERVICENAME")

		util.MustBindPFlag("profiler.enabled", flags.Lookup("profiler-enabled"))
		util.MustBindEnv("profiler.enabled", "COVERWALK_PROFILER_ENABLED")

		util.MustBindPFlag("profiler.addr", flags.Lookup("profiler-addr"))
		util.MustBindEnv("profiler.addr", "COVERWALK_PROFILER_ADDR")

		util.MustBindPFlag("metrics.enabled", flags.Lookup("metrics-enabled"))
		util.MustBindEnv("metrics.enabled", "COVERWALK_METRICS_ENABLED")

		util.MustBindPFlag("metrics.addr", flags.Lookup("metrics-addr"))
		util.MustBindEnv("metrics.addr", "COVERWALK_METRICS_ADDR")
	}
}
