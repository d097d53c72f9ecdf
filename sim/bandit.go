package sim

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidArmIndex is returned when an arm outside [0, K) is played.
	ErrInvalidArmIndex = errors.New("invalid arm index")

	// ErrInvalidParameter is returned for out-of-range construction or run
	// parameters (K <= 0, negative horizons, epsilon outside [0, 1], ...).
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Bandit is a K-armed stochastic bandit with gaussian rewards.
//
// The true means are drawn once from N(0, 1) when the bandit is built and
// never change afterwards. Each Play draws a reward from N(mean[a], 1) using
// the bandit's stream.
type Bandit struct {
	means []float64 // true mean reward per arm, read-only after construction
	rng   Stream
}

// NewBandit creates a bandit with k arms whose true means are sampled from
// the standard normal distribution using rng. The same rng is kept for
// reward sampling.
func NewBandit(k int, rng Stream) (*Bandit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("arm count %d must be positive: %w", k, ErrInvalidParameter)
	}
	if rng == nil {
		return nil, fmt.Errorf("nil stream: %w", ErrInvalidParameter)
	}

	means := make([]float64, k)
	for i := 0; i < k; i++ {
		means[i] = rng.NormFloat64()
	}
	return &Bandit{means: means, rng: rng}, nil
}

// NewBanditWithMeans creates a bandit with fixed true means. The slice is
// copied.
func NewBanditWithMeans(means []float64, rng Stream) (*Bandit, error) {
	if len(means) == 0 {
		return nil, fmt.Errorf("no arms: %w", ErrInvalidParameter)
	}
	if rng == nil {
		return nil, fmt.Errorf("nil stream: %w", ErrInvalidParameter)
	}
	for i, m := range means {
		if math.IsNaN(m) || math.IsInf(m, 0) {
			return nil, fmt.Errorf("arm %d mean %v is not finite: %w", i, m, ErrInvalidParameter)
		}
	}

	cp := make([]float64, len(means))
	copy(cp, means)
	return &Bandit{means: cp, rng: rng}, nil
}

// WithStream returns a bandit sharing the same true means but sampling
// rewards from rng. Runs executing in parallel each get their own view.
func (b *Bandit) WithStream(rng Stream) *Bandit {
	return &Bandit{means: b.means, rng: rng}
}

// Stream returns the stream rewards are sampled from.
func (b *Bandit) Stream() Stream {
	return b.rng
}

// Arms returns K.
func (b *Bandit) Arms() int {
	return len(b.means)
}

// Play pulls arm a once and returns the sampled reward.
func (b *Bandit) Play(a int) (float64, error) {
	if a < 0 || a >= len(b.means) {
		return 0, fmt.Errorf("arm %d not in [0, %d): %w", a, len(b.means), ErrInvalidArmIndex)
	}
	return b.means[a] + b.rng.NormFloat64(), nil
}

// Means returns a copy of the true means.
func (b *Bandit) Means() []float64 {
	cp := make([]float64, len(b.means))
	copy(cp, b.means)
	return cp
}

// BestArm returns the arm with the highest true mean, lowest index on ties.
func (b *Bandit) BestArm() int {
	best := 0
	for i := 1; i < len(b.means); i++ {
		if b.means[i] > b.means[best] {
			best = i
		}
	}
	return best
}

// BestMean returns the highest true mean.
func (b *Bandit) BestMean() float64 {
	return b.means[b.BestArm()]
}
