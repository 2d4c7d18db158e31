package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "semsync_store_requests_total",
		Help: "Graph store requests by subject and status.",
	}, []string{"subject", "status"})

	requestSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "semsync_store_request_seconds",
		Help:    "Graph store request latency by subject.",
		Buckets: prometheus.DefBuckets,
	}, []string{"subject"})
)

func observeRequest(subject string, seconds float64, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	requestsTotal.WithLabelValues(subject, status).Inc()
	requestSeconds.WithLabelValues(subject).Observe(seconds)
}
