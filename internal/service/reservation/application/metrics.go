// internal/service/reservation/application/metrics.go
package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reservationsCommittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reservations_committed_total",
		Help: "Committed ledger operations, by operation kind.",
	}, []string{"op"})

	insufficientStockTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reservations_insufficient_stock_total",
		Help: "Requests rejected because requested quantity exceeded available stock.",
	})

	stockConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reservations_stock_conflicts_total",
		Help: "Transactions rolled back by a guarded stock update losing a concurrent race.",
	})
)
