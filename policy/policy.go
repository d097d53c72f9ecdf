// Package policy implements the arm-selection strategies that play a
// sim.Bandit for a fixed budget of rounds.
package policy

import (
	"mabsim/sim"
)

// Kind names a policy.
type Kind string

const (
	ExploreThenExploitKind Kind = "explore-then-exploit"
	EpsilonGreedyKind      Kind = "epsilon-greedy"
	OracleKind             Kind = "oracle"
)

// Policy is the interface every strategy implements.
type Policy interface {
	// Run plays b for horizon rounds and reports what happened.
	// All randomness comes from b's stream.
	Run(b *sim.Bandit, horizon int) (*Result, error)

	// Kind returns the type of the policy.
	Kind() Kind
}

// Result is the outcome of one run. It is not modified after Run returns.
type Result struct {
	TotalReward float64
	Plays       int

	// Rewards holds every reward in play order.
	Rewards []float64

	// Exploration and Exploitation split Rewards for explore-then-exploit;
	// both are nil for other policies.
	Exploration  []float64
	Exploitation []float64

	// Arm is the arm the policy committed to: the selected arm for
	// explore-then-exploit, the final greedy arm for epsilon-greedy and the
	// best arm for the oracle.
	Arm int

	// Counts holds pulls per arm.
	Counts []int
}

// MeanReward returns TotalReward / Plays, or 0 when nothing was played.
func (r *Result) MeanReward() float64 {
	if r.Plays == 0 {
		return 0
	}
	return r.TotalReward / float64(r.Plays)
}

// ExpectedRegret is the gap between an oracle that always plays the best arm
// (in expectation) and what the run actually collected.
func ExpectedRegret(b *sim.Bandit, r *Result) float64 {
	return float64(r.Plays)*b.BestMean() - r.TotalReward
}

// Argmax returns the index of the largest value. Ties go to the lowest
// index; an empty slice returns -1.
func Argmax(xs []float64) int {
	if len(xs) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(xs); i++ {
		if xs[i] > xs[best] {
			best = i
		}
	}
	return best
}
