package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments of the ranking service.
type Metrics struct {
	RunsTotal      *prometheus.CounterVec
	RunDuration    *prometheus.HistogramVec
	EntitiesRanked *prometheus.GaugeVec
}

// NewMetrics registers the service metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fleetrank",
			Name:      "runs_total",
			Help:      "Ranking runs by domain and outcome.",
		}, []string{"domain", "status"}),
		RunDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fleetrank",
			Name:      "run_duration_seconds",
			Help:      "Wall time of a ranking run.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"domain"}),
		EntitiesRanked: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "fleetrank",
			Name:      "entities_ranked",
			Help:      "Entities in the most recent ranking per domain.",
		}, []string{"domain"}),
	}
}
