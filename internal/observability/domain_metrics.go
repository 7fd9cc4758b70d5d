package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	translationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studentsql_translations_total",
			Help: "Total number of question translations by outcome.",
		},
		[]string{"outcome"},
	)
	translationLatencyMs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "studentsql_translation_latency_ms",
			Help:    "Completion service round-trip latency in milliseconds.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2000, 5000, 10000, 30000},
		},
	)
	queryExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studentsql_query_executions_total",
			Help: "Total number of statements executed against the student store.",
		},
		[]string{"kind", "outcome"},
	)
	queryRows = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "studentsql_query_rows",
			Help:    "Rows returned per successful query.",
			Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000, 5000},
		},
	)
	exportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studentsql_exports_total",
			Help: "Total number of table snapshot exports by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		translationsTotal,
		translationLatencyMs,
		queryExecutionsTotal,
		queryRows,
		exportsTotal,
	)
}

func ObserveTranslation(ok bool, elapsed time.Duration) {
	translationsTotal.WithLabelValues(outcome(ok)).Inc()
	translationLatencyMs.Observe(float64(elapsed.Milliseconds()))
}

// ObserveQueryExecution records one execution. kind is "translated" or "full_table".
func ObserveQueryExecution(kind string, ok bool, rows int) {
	queryExecutionsTotal.WithLabelValues(kind, outcome(ok)).Inc()
	if ok {
		if rows < 0 {
			rows = 0
		}
		queryRows.Observe(float64(rows))
	}
}

func ObserveExport(ok bool) {
	exportsTotal.WithLabelValues(outcome(ok)).Inc()
}

func outcome(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
