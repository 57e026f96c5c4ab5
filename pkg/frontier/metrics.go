package frontier

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/coverwalk/coverwalk/internal/build"
)

var (
	frontierMemoryGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: build.ProjectName,
		Subsystem: "frontier",
		Name:      "memory_walks",
		Help:      "The number of walks held in the in-memory buffer of the frontier.",
	})

	frontierSpilledGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: build.ProjectName,
		Subsystem: "frontier",
		Name:      "spilled_walks",
		Help:      "The number of walks held in the frontier spill file.",
	})

	spillEpisodesCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: build.ProjectName,
		Subsystem: "frontier",
		Name:      "spill_episodes_total",
		Help:      "The total number of times the in-memory buffer was spilled to disk.",
	})

	spillRecordsCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: build.ProjectName,
		Subsystem: "frontier",
		Name:      "spilled_records_total",
		Help:      "The total number of walks written to the spill file.",
	})

	refillEpisodesCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: build.ProjectName,
		Subsystem: "frontier",
		Name:      "refill_episodes_total",
		Help:      "The total number of times the in-memory buffer was refilled from disk.",
	})

	refillRecordsCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: build.ProjectName,
		Subsystem: "frontier",
		Name:      "refilled_records_total",
		Help:      "The total number of walks read back from the spill file.",
	})
)
