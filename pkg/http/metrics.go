package http

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// connMetrics is safe to use as a nil pointer, which is what a Server
// built without WithMetrics carries.
type connMetrics struct {
	acceptedTotal  prometheus.Counter
	live           prometheus.Gauge
	destroyedTotal prometheus.Counter
}

// WithMetrics registers connection metrics for this endpoint with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(s *Server) error {
		m, err := newConnMetrics(reg, s.address())
		if err != nil {
			return err
		}
		s.metrics = m
		return nil
	}
}

func newConnMetrics(reg prometheus.Registerer, endpoint string) (*connMetrics, error) {
	labels := prometheus.Labels{"endpoint": endpoint}
	m := &connMetrics{
		acceptedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "rackhttp",
			Name:        "connections_accepted_total",
			Help:        "Connections accepted by the listener.",
			ConstLabels: labels,
		}),
		live: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "rackhttp",
			Name:        "connections_live",
			Help:        "Connections currently held in the registry.",
			ConstLabels: labels,
		}),
		destroyedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "rackhttp",
			Name:        "connections_destroyed_total",
			Help:        "Connections forcibly closed on shutdown.",
			ConstLabels: labels,
		}),
	}

	var err error
	if m.acceptedTotal, err = registerCounter(reg, m.acceptedTotal); err != nil {
		return nil, err
	}
	if m.destroyedTotal, err = registerCounter(reg, m.destroyedTotal); err != nil {
		return nil, err
	}
	if err := reg.Register(m.live); err != nil {
		are := prometheus.AlreadyRegisteredError{}
		if !errors.As(err, &are) {
			return nil, err
		}
		m.live = are.ExistingCollector.(prometheus.Gauge)
	}
	return m, nil
}

func registerCounter(reg prometheus.Registerer, c prometheus.Counter) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		are := prometheus.AlreadyRegisteredError{}
		if !errors.As(err, &are) {
			return nil, err
		}
		return are.ExistingCollector.(prometheus.Counter), nil
	}
	return c, nil
}

func (m *connMetrics) accepted() {
	if m == nil {
		return
	}
	m.acceptedTotal.Inc()
}

func (m *connMetrics) destroyed(n int) {
	if m == nil {
		return
	}
	m.destroyedTotal.Add(float64(n))
}

func (m *connMetrics) setLive(n int) {
	if m == nil {
		return
	}
	m.live.Set(float64(n))
}
