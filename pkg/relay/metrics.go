package relay

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// SubmissionsTotal tracks order submissions by outcome.
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "etherdelta_relay_submissions_total",
			Help: "Total number of off-chain order submissions to the relay",
		},
		[]string{"outcome"},
	)

	// FeedOrdersTotal tracks orders received on the relay feed.
	FeedOrdersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "etherdelta_relay_feed_orders_total",
		Help: "Total number of off-chain orders received on the relay feed",
	})

	// FeedReconnectsTotal tracks relay feed reconnection attempts.
	FeedReconnectsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "etherdelta_relay_feed_reconnects_total",
		Help: "Total number of relay feed reconnection attempts",
	})
)
