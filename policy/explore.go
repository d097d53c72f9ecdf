package policy

import (
	"fmt"

	"mabsim/sim"
)

// ExploreThenExploit samples every arm Interval times, then commits the rest
// of the budget to the arm with the best sample mean.
type ExploreThenExploit struct {
	Interval int
}

// RunExploreThenExploit is shorthand for ExploreThenExploit{interval}.Run.
func RunExploreThenExploit(b *sim.Bandit, horizon, interval int) (*Result, error) {
	return ExploreThenExploit{Interval: interval}.Run(b, horizon)
}

// Run implements Policy.
//
// When Interval*K exceeds the horizon the exploration phase still runs in
// full and the exploitation phase is simply empty.
func (p ExploreThenExploit) Run(b *sim.Bandit, horizon int) (*Result, error) {
	if horizon < 0 {
		return nil, fmt.Errorf("horizon %d is negative: %w", horizon, sim.ErrInvalidParameter)
	}
	if p.Interval < 0 {
		return nil, fmt.Errorf("exploration interval %d is negative: %w", p.Interval, sim.ErrInvalidParameter)
	}

	batch, err := sim.Simulate(b, p.Interval)
	if err != nil {
		return nil, fmt.Errorf("exploration: %w", err)
	}
	best := Argmax(batch.Means())
	exploration := batch.Flatten()

	k := b.Arms()
	budget := horizon - p.Interval*k
	if budget < 0 {
		budget = 0
	}

	exploitation := make([]float64, budget)
	for i := range exploitation {
		r, err := b.Play(best)
		if err != nil {
			return nil, fmt.Errorf("exploitation: %w", err)
		}
		exploitation[i] = r
	}

	rewards := make([]float64, 0, len(exploration)+len(exploitation))
	rewards = append(rewards, exploration...)
	rewards = append(rewards, exploitation...)

	var total float64
	for _, r := range rewards {
		total += r
	}

	counts := make([]int, k)
	for a := range counts {
		counts[a] = p.Interval
	}
	counts[best] += budget

	return &Result{
		TotalReward:  total,
		Plays:        len(rewards),
		Rewards:      rewards,
		Exploration:  exploration,
		Exploitation: exploitation,
		Arm:          best,
		Counts:       counts,
	}, nil
}

func (p ExploreThenExploit) Kind() Kind {
	return ExploreThenExploitKind
}
