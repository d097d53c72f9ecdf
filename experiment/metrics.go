package experiment

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts harness activity.
type Metrics struct {
	// Runs counts finished runs by policy kind.
	Runs *prometheus.CounterVec

	// Plays counts arm pulls by policy kind.
	Plays *prometheus.CounterVec

	// PointDuration observes the wall time of one sweep value.
	PointDuration *prometheus.HistogramVec
}

// NewMetrics creates the harness metrics and registers them with reg. A nil
// reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mabsim_runs_total",
			Help: "Finished policy runs by policy kind",
		}, []string{"policy"}),
		Plays: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mabsim_plays_total",
			Help: "Arm pulls by policy kind",
		}, []string{"policy"}),
		PointDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mabsim_sweep_point_duration_seconds",
			Help:    "Time to run every repeat of one sweep value",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"policy"}),
	}
}
