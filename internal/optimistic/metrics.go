package optimistic

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	appliedMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contentops_mutations_applied_total",
		Help: "Mutations confirmed by the store.",
	}, []string{"collection"})

	rolledBackMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contentops_mutations_rolled_back_total",
		Help: "Optimistic mutations rolled back after a store failure.",
	}, []string{"collection"})

	pendingMutations = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "contentops_mutations_pending",
		Help: "Mutations applied locally but not yet reconciled.",
	}, []string{"collection"})
)
