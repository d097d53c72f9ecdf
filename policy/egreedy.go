package policy

import (
	"fmt"
	"math"

	"mabsim/sim"
)

// State is the epsilon-greedy learner's per-arm estimate table.
type State struct {
	Q []float64 // running mean reward per arm
	N []int     // pulls per arm
}

func newState(k int) *State {
	return &State{Q: make([]float64, k), N: make([]int, k)}
}

func (s *State) clone() State {
	q := make([]float64, len(s.Q))
	n := make([]int, len(s.N))
	copy(q, s.Q)
	copy(n, s.N)
	return State{Q: q, N: n}
}

// update folds reward into arm's running mean.
func (s *State) update(arm int, reward float64) {
	s.N[arm]++
	s.Q[arm] += (reward - s.Q[arm]) / float64(s.N[arm])
}

// Observer is called after every round with a snapshot of the state.
type Observer func(round, arm int, reward float64, st State)

// EpsilonGreedy explores a uniformly random arm with probability Epsilon and
// otherwise plays the arm with the best running estimate.
type EpsilonGreedy struct {
	Epsilon float64

	// Observer, if set, sees every round.
	Observer Observer
}

// RunEpisode is shorthand for EpsilonGreedy{epsilon}.Run.
func RunEpisode(b *sim.Bandit, horizon int, epsilon float64) (*Result, error) {
	return EpsilonGreedy{Epsilon: epsilon}.Run(b, horizon)
}

// Run implements Policy. Estimates start at zero and are discarded when the
// run ends.
func (p EpsilonGreedy) Run(b *sim.Bandit, horizon int) (*Result, error) {
	if horizon < 0 {
		return nil, fmt.Errorf("horizon %d is negative: %w", horizon, sim.ErrInvalidParameter)
	}
	if math.IsNaN(p.Epsilon) || p.Epsilon < 0 || p.Epsilon > 1 {
		return nil, fmt.Errorf("epsilon %v not in [0, 1]: %w", p.Epsilon, sim.ErrInvalidParameter)
	}

	k := b.Arms()
	rng := b.Stream()
	st := newState(k)
	rewards := make([]float64, horizon)

	var total float64
	for i := 0; i < horizon; i++ {
		var arm int
		if rng.Float64() > p.Epsilon {
			arm = Argmax(st.Q)
		} else {
			arm = rng.Intn(k)
		}

		r, err := b.Play(arm)
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", i, err)
		}
		st.update(arm, r)
		total += r
		rewards[i] = r

		if p.Observer != nil {
			p.Observer(i, arm, r, st.clone())
		}
	}

	return &Result{
		TotalReward: total,
		Plays:       horizon,
		Rewards:     rewards,
		Arm:         Argmax(st.Q),
		Counts:      st.N,
	}, nil
}

func (p EpsilonGreedy) Kind() Kind {
	return EpsilonGreedyKind
}
