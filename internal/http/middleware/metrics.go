package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RLRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_requests_total",
			Help: "Total requests seen by the rate limiter",
		},
		[]string{"endpoint"},
	)
	RLBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_blocked_total",
			Help: "Total requests blocked by the rate limiter",
		},
		[]string{"endpoint"},
	)
	ShopSpends = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_spends_total",
			Help: "Completed cookie spends by kind (purchase or donation)",
		},
		[]string{"kind"},
	)
	ShopSpendFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_spend_failures_total",
			Help: "Rejected cookie spends by reason",
		},
		[]string{"reason"},
	)
	UpstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_api_requests_total",
			Help: "Proxied upstream API requests by status code",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(RLRequests)
	prometheus.MustRegister(RLBlocked)
	prometheus.MustRegister(ShopSpends)
	prometheus.MustRegister(ShopSpendFailures)
	prometheus.MustRegister(UpstreamRequests)
}
