package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var evaluationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "session_evaluations_total",
		Help: "Session lookups by resulting state.",
	},
	[]string{"outcome"},
)
