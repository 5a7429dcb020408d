package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PushesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "byout_pushes_sent_total",
		Help: "Push messages accepted by the gateway.",
	})
	PushesFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "byout_pushes_failed_total",
		Help: "Push messages that failed delivery.",
	})
	TokensInvalidated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "byout_device_tokens_invalidated_total",
		Help: "Device tokens cleared after the gateway reported them invalid.",
	})
)

func init() {
	prometheus.MustRegister(PushesSent, PushesFailed, TokensInvalidated)
}

// Handler returns an http.Handler for Prometheus scraping
func Handler() http.Handler {
	return promhttp.Handler()
}
