package northbound

import (
	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
)

// WithLogger sets up the parent logger for the API.
func WithLogger(l hclog.Logger) Option {
	return func(a *API) {
		a.l = l.Named("northbound")
	}
}

// WithConfig exposes the configuration at /api/2.0/config.
func WithConfig(c ConfigStore) Option {
	return func(a *API) {
		a.cfg = c
	}
}

// WithMetrics serves the gatherer's metrics at /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(a *API) {
		a.gatherer = g
	}
}
