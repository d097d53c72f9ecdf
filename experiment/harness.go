// Package experiment repeats policy runs over parameter sweeps and reports
// the mean cumulative reward for every swept value.
package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"mabsim/logging"
	"mabsim/policy"
	"mabsim/sim"
)

// Swept parameter names.
const (
	ParamExplorationInterval = "exploration_interval"
	ParamEpsilon             = "epsilon"
)

// Config configures a Harness.
type Config struct {
	// Horizon is the number of rounds T of every run.
	Horizon int

	// Repeats is the number of independent runs per swept value.
	Repeats int

	// Seed is the base seed; run r of value v uses DeriveSeed(Seed, v, r).
	Seed int64

	// Workers bounds parallel runs. 0 means GOMAXPROCS.
	Workers int

	Logger         *slog.Logger
	Metrics        *Metrics
	TracerProvider trace.TracerProvider
}

// Point is the aggregate for one swept value.
type Point struct {
	Value      float64 `json:"value"`
	MeanReward float64 `json:"mean_reward"`
	StdDev     float64 `json:"std_dev"`
	Runs       int     `json:"runs"`
}

// SweepResult holds one point per swept value, in sweep order.
type SweepResult struct {
	ID        string      `json:"id"`
	Parameter string      `json:"parameter"`
	Policy    policy.Kind `json:"policy"`
	Horizon   int         `json:"horizon"`
	Points    []Point     `json:"points"`
}

// Harness runs sweeps against one shared bandit. Every repeat sees the
// same true means, so the spread of results comes from sampling and policy
// randomness only.
type Harness struct {
	bandit  *sim.Bandit
	cfg     Config
	logger  *slog.Logger
	metrics *Metrics
	tracer  *tracer
}

// New validates cfg and returns a harness for b.
func New(b *sim.Bandit, cfg Config) (*Harness, error) {
	if b == nil {
		return nil, fmt.Errorf("nil bandit: %w", sim.ErrInvalidParameter)
	}
	if cfg.Horizon < 0 {
		return nil, fmt.Errorf("horizon %d is negative: %w", cfg.Horizon, sim.ErrInvalidParameter)
	}
	if cfg.Repeats <= 0 {
		return nil, fmt.Errorf("repeats %d must be positive: %w", cfg.Repeats, sim.ErrInvalidParameter)
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("workers %d is negative: %w", cfg.Workers, sim.ErrInvalidParameter)
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NewMetrics(nil)
	}

	return &Harness{
		bandit:  b,
		cfg:     cfg,
		logger:  logging.Component(cfg.Logger, "harness"),
		metrics: metrics,
		tracer:  newTracer(cfg.TracerProvider),
	}, nil
}

// SweepExploration runs explore-then-exploit once per interval.
func (h *Harness) SweepExploration(ctx context.Context, intervals []int) (*SweepResult, error) {
	values := make([]float64, len(intervals))
	for i, v := range intervals {
		if v < 0 {
			return nil, fmt.Errorf("exploration interval %d is negative: %w", v, sim.ErrInvalidParameter)
		}
		values[i] = float64(v)
	}
	return h.Sweep(ctx, ParamExplorationInterval, values, func(v float64) policy.Policy {
		return policy.ExploreThenExploit{Interval: int(v)}
	})
}

// SweepEpsilon runs epsilon-greedy once per epsilon.
func (h *Harness) SweepEpsilon(ctx context.Context, epsilons []float64) (*SweepResult, error) {
	for _, e := range epsilons {
		if math.IsNaN(e) || e < 0 || e > 1 {
			return nil, fmt.Errorf("epsilon %v not in [0, 1]: %w", e, sim.ErrInvalidParameter)
		}
	}
	return h.Sweep(ctx, ParamEpsilon, epsilons, func(v float64) policy.Policy {
		return policy.EpsilonGreedy{Epsilon: v}
	})
}

// Sweep runs Repeats independent runs of build(v) for every value and
// aggregates their total rewards.
func (h *Harness) Sweep(ctx context.Context, parameter string, values []float64, build func(v float64) policy.Policy) (res *SweepResult, err error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("empty sweep: %w", sim.ErrInvalidParameter)
	}

	ctx, span := h.tracer.startSweep(ctx, parameter, len(values), h.cfg.Horizon, h.cfg.Repeats)
	defer func() { endSpan(span, err) }()

	res = &SweepResult{
		ID:        uuid.NewString(),
		Parameter: parameter,
		Horizon:   h.cfg.Horizon,
		Points:    make([]Point, 0, len(values)),
	}
	h.logger.Info("sweep started",
		slog.String("sweep_id", res.ID),
		slog.String("parameter", parameter),
		slog.Int("values", len(values)),
		slog.Int("repeats", h.cfg.Repeats),
		slog.Int("horizon", h.cfg.Horizon),
	)

	for vi, v := range values {
		p := build(v)
		res.Policy = p.Kind()

		pt, err := h.runPoint(ctx, vi, v, p)
		if err != nil {
			return nil, fmt.Errorf("%s=%v: %w", parameter, v, err)
		}
		res.Points = append(res.Points, pt)

		h.logger.Debug("sweep point done",
			slog.String("sweep_id", res.ID),
			slog.Float64("value", v),
			slog.Float64("mean_reward", pt.MeanReward),
			slog.Float64("std_dev", pt.StdDev),
		)
	}

	h.logger.Info("sweep finished", slog.String("sweep_id", res.ID))
	return res, nil
}

func (h *Harness) runPoint(ctx context.Context, vi int, v float64, p policy.Policy) (pt Point, err error) {
	ctx, span := h.tracer.startPoint(ctx, v)
	defer func() {
		endSpan(span, err,
			attribute.Float64("sweep.mean_reward", pt.MeanReward),
			attribute.Float64("sweep.std_dev", pt.StdDev),
		)
	}()

	start := time.Now()
	kind := string(p.Kind())
	totals := make([]float64, h.cfg.Repeats)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.cfg.Workers)
	for r := 0; r < h.cfg.Repeats; r++ {
		r := r
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			view := h.bandit.WithStream(sim.NewStream(sim.DeriveSeed(h.cfg.Seed, vi, r)))
			out, err := p.Run(view, h.cfg.Horizon)
			if err != nil {
				return fmt.Errorf("repeat %d: %w", r, err)
			}
			totals[r] = out.TotalReward
			h.metrics.Runs.WithLabelValues(kind).Inc()
			h.metrics.Plays.WithLabelValues(kind).Add(float64(out.Plays))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Point{}, err
	}
	h.metrics.PointDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	mean, std := meanStdDev(totals)
	return Point{Value: v, MeanReward: mean, StdDev: std, Runs: len(totals)}, nil
}

// meanStdDev returns the mean and population standard deviation.
func meanStdDev(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))

	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(len(xs)))
}
