package rl

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks server sessions.
type Metrics struct {
	Sessions prometheus.Counter
	Active   prometheus.Gauge
	Plays    prometheus.Counter
	Errors   prometheus.Counter
}

// NewMetrics creates the server metrics and registers them with reg. A nil
// reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Sessions: f.NewCounter(prometheus.CounterOpts{
			Name: "mabsim_server_sessions_total",
			Help: "Episodes started",
		}),
		Active: f.NewGauge(prometheus.GaugeOpts{
			Name: "mabsim_server_sessions_active",
			Help: "Episodes in progress",
		}),
		Plays: f.NewCounter(prometheus.CounterOpts{
			Name: "mabsim_server_plays_total",
			Help: "Arm pulls served",
		}),
		Errors: f.NewCounter(prometheus.CounterOpts{
			Name: "mabsim_server_request_errors_total",
			Help: "Rejected requests",
		}),
	}
}
