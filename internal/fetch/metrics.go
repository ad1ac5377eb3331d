package fetch

import "github.com/prometheus/client_golang/prometheus"

// Metric label values for fetch outcomes.
const (
	outcomeOK         = "ok"
	outcomeTimeout    = "timeout"
	outcomeCanceled   = "canceled"
	outcomeNetwork    = "network"
	outcomeStatus     = "status"
	outcomeUnexpected = "unexpected"
)

var fetchTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "asyncdemo_fetch_total",
		Help: "Total number of API fetches by outcome.",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(fetchTotal)

	for _, o := range []string{outcomeOK, outcomeTimeout, outcomeCanceled, outcomeNetwork, outcomeStatus, outcomeUnexpected} {
		fetchTotal.WithLabelValues(o)
	}
}
