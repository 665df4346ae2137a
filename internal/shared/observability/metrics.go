package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	FilesParsed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "refimpact_files_parsed_total",
		Help: "Total number of source files parsed successfully.",
	})

	ParseFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "refimpact_parse_failures_total",
		Help: "Total number of source files skipped due to parse errors.",
	})

	GraphModules = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "refimpact_graph_modules_total",
		Help: "Number of modules in the most recently built dependency graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "refimpact_graph_edges_total",
		Help: "Number of import edges in the most recently built dependency graph.",
	})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "refimpact_analysis_seconds",
		Help:    "Time spent on each analysis stage.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})
)
