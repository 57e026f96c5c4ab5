package search

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/coverwalk/coverwalk/internal/build"
)

const subsystem = "search"

var (
	expansionsCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: build.ProjectName,
		Subsystem: subsystem,
		Name:      "expansions_total",
		Help:      "The total number of walks expanded into children.",
	})

	discardedCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: build.ProjectName,
		Subsystem: subsystem,
		Name:      "discarded_walks_total",
		Help:      "The total number of children discarded at creation.",
	}, []string{"reason"})

	deadEndsCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: build.ProjectName,
		Subsystem: subsystem,
		Name:      "dead_ends_total",
		Help:      "The total number of walks that reached the end node without covering the graph.",
	})

	solutionsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: build.ProjectName,
		Subsystem: subsystem,
		Name:      "solutions_total",
		Help:      "The total number of covering walks handed to the solution sink.",
	}, []string{"outcome"})

	bestLengthGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: build.ProjectName,
		Subsystem: subsystem,
		Name:      "best_length",
		Help:      "The length of the best recorded solution.",
	})

	droppedSamplesCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: build.ProjectName,
		Subsystem: subsystem,
		Name:      "dropped_samples_total",
		Help:      "The total number of walks not sampled because the log sink was busy.",
	})
)
