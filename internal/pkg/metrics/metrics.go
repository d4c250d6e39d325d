package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "strompris",
	Name:      "http_requests_total",
	Help:      "API requests by route and status.",
}, []string{"route", "status"})

var upstreamErrorCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "strompris",
	Name:      "upstream_errors_total",
	Help:      "Failed upstream fetches by source.",
}, []string{"source"})

var fallbackCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "strompris",
	Name:      "fallback_substitutions_total",
	Help:      "Responses served from a static fallback instead of upstream data.",
}, []string{"route"})

func CountRequest(route, status string) {
	if route == "" {
		return
	}
	requestCounter.With(prometheus.Labels{"route": route, "status": status}).Inc()
}

func CountUpstreamError(source string) {
	if source == "" {
		return
	}
	upstreamErrorCounter.With(prometheus.Labels{"source": source}).Inc()
}

func CountFallback(route string) {
	if route == "" {
		return
	}
	fallbackCounter.With(prometheus.Labels{"route": route}).Inc()
}
