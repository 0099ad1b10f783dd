package api

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the Prometheus instruments exposed on /metrics
type metrics struct {
	cyclesTotal    prometheus.Counter
	articlesAdded  prometheus.Counter
	cycleDuration  prometheus.Histogram
	verifyRequests *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		cyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "marketbeacon",
			Name:      "collection_cycles_total",
			Help:      "Completed collection cycles.",
		}),
		articlesAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "marketbeacon",
			Name:      "articles_added_total",
			Help:      "Articles admitted and persisted.",
		}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "marketbeacon",
			Name:      "collection_cycle_seconds",
			Help:      "Collection cycle wall time.",
			Buckets:   prometheus.DefBuckets,
		}),
		verifyRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marketbeacon",
			Name:      "verify_requests_total",
			Help:      "Ad-hoc verification requests by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(m.cyclesTotal, m.articlesAdded, m.cycleDuration, m.verifyRequests)
	return m
}
