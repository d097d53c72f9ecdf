package policy

import (
	"fmt"

	"mabsim/sim"
)

// Oracle always plays the arm with the highest true mean. It is the
// baseline the learning policies are measured against.
type Oracle struct{}

// Run implements Policy.
func (Oracle) Run(b *sim.Bandit, horizon int) (*Result, error) {
	if horizon < 0 {
		return nil, fmt.Errorf("horizon %d is negative: %w", horizon, sim.ErrInvalidParameter)
	}

	best := b.BestArm()
	rewards := make([]float64, horizon)
	var total float64
	for i := range rewards {
		r, err := b.Play(best)
		if err != nil {
			return nil, err
		}
		rewards[i] = r
		total += r
	}

	counts := make([]int, b.Arms())
	counts[best] = horizon
	return &Result{
		TotalReward: total,
		Plays:       horizon,
		Rewards:     rewards,
		Arm:         best,
		Counts:      counts,
	}, nil
}

func (Oracle) Kind() Kind {
	return OracleKind
}
