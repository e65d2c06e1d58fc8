package trip

import (
	"github.com/baechuer/trip-service/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tripMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trip_service",
			Name:      "trip_mutations_total",
			Help:      "Total number of trip mutations by operation and outcome",
		},
		[]string{"op", "outcome"}, // outcome: ok, rejected, error
	)

	detailCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trip_service",
			Name:      "trip_detail_cache_total",
			Help:      "Trip detail cache lookups",
		},
		[]string{"result"}, // hit, miss, error
	)
)

func recordMutation(op string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case domain.CodeOf(err) != "":
		outcome = "rejected"
	default:
		outcome = "error"
	}
	tripMutationsTotal.WithLabelValues(op, outcome).Inc()
}
