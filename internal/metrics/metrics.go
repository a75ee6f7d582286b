// Package metrics holds the Prometheus collectors for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Auth counts authentication outcomes.
type Auth struct {
	Signups prometheus.Counter
	Logins  *prometheus.CounterVec
	Logouts prometheus.Counter
}

// NewAuth builds and registers the auth collectors on reg.
func NewAuth(reg prometheus.Registerer) *Auth {
	a := &Auth{
		Signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "roster_signups_total",
			Help: "Number of successful signups.",
		}),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_logins_total",
			Help: "Number of login attempts by result.",
		}, []string{"result"}),
		Logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "roster_logouts_total",
			Help: "Number of revoked sessions via logout.",
		}),
	}
	if reg != nil {
		reg.MustRegister(a.Signups, a.Logins, a.Logouts)
	}
	return a
}

// NewAuthNop builds auth collectors that are not registered anywhere.
// Useful in tests and as a nil-safe default.
func NewAuthNop() *Auth {
	return NewAuth(nil)
}

// HTTP observes request traffic.
type HTTP struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewHTTP builds and registers the HTTP collectors on reg.
func NewHTTP(reg prometheus.Registerer) *HTTP {
	h := &HTTP{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_http_requests_total",
			Help: "Number of HTTP requests by method, route, and status.",
		}, []string{"method", "route", "status"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "roster_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	if reg != nil {
		reg.MustRegister(h.Requests, h.Duration)
	}
	return h
}
