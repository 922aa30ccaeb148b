package exchange

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// OrdersPlacedTotal tracks placed orders by kind (onchain/offchain).
	OrdersPlacedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "etherdelta_orders_placed_total",
			Help: "Total number of orders placed",
		},
		[]string{"kind"},
	)

	// TradesTotal tracks successfully mined trade transactions.
	TradesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "etherdelta_trades_total",
		Help: "Total number of trades executed",
	})

	// TrackedOrders tracks the current size of the on-chain order set.
	TrackedOrders = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "etherdelta_tracked_orders",
		Help: "Number of open on-chain orders currently tracked",
	})

	// TrackerRefreshDuration tracks the time spent pruning filled orders.
	TrackerRefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "etherdelta_tracker_refresh_duration_seconds",
		Help:    "Duration of order tracker refresh (seconds)",
		Buckets: prometheus.DefBuckets,
	})

	// CallErrorsTotal tracks failed read-only contract calls.
	CallErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "etherdelta_call_errors_total",
		Help: "Total number of failed contract calls",
	})
)
