package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/seantiz/asyncdemo/internal/model"
)

var (
	runDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "asyncdemo_scenario_duration_seconds",
			Help:    "Duration of scenario runs in seconds.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 15, 30, 60, 120},
		},
		[]string{"scenario", "status"},
	)

	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asyncdemo_runs_total",
			Help: "Total number of finished scenario runs.",
		},
		[]string{"scenario", "status"},
	)
)

func init() {
	prometheus.MustRegister(runDuration)
	prometheus.MustRegister(runsTotal)

	// Pre-initialize label combinations so they appear in /metrics with value 0.
	for _, name := range model.ComparisonOrder {
		runsTotal.WithLabelValues(name, model.StatusCompleted)
		runsTotal.WithLabelValues(name, model.StatusFailed)
	}
}

func observeRun(scenarioName, status string, d time.Duration) {
	runDuration.WithLabelValues(scenarioName, status).Observe(d.Seconds())
	runsTotal.WithLabelValues(scenarioName, status).Inc()
}
