package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"mabsim/policy"
	"mabsim/sim"
)

// armSummary is one row of the simulate report.
type armSummary struct {
	Arm        int     `json:"arm"`
	TrueMean   float64 `json:"true_mean"`
	SampleMean float64 `json:"sample_mean"`
}

type simulateReport struct {
	Trials      int          `json:"trials"`
	Plays       int          `json:"plays"`
	TotalReward float64      `json:"total_reward"`
	Arms        []armSummary `json:"arms"`
}

// runReport is the printable form of a policy.Result.
type runReport struct {
	Policy            policy.Kind `json:"policy"`
	Parameter         float64     `json:"parameter,omitempty"`
	Arm               int         `json:"arm"`
	BestArm           int         `json:"best_arm"`
	Plays             int         `json:"plays"`
	ExplorationPlays  int         `json:"exploration_plays,omitempty"`
	ExploitationPlays int         `json:"exploitation_plays,omitempty"`
	TotalReward       float64     `json:"total_reward"`
	MeanReward        float64     `json:"mean_reward"`
	Regret            float64     `json:"regret"`
	Counts            []int       `json:"counts"`
	Rewards           []float64   `json:"rewards,omitempty"`
}

func newRunReport(b *sim.Bandit, p policy.Policy, param float64, res *policy.Result, withRewards bool) runReport {
	r := runReport{
		Policy:            p.Kind(),
		Parameter:         param,
		Arm:               res.Arm,
		BestArm:           b.BestArm(),
		Plays:             res.Plays,
		ExplorationPlays:  len(res.Exploration),
		ExploitationPlays: len(res.Exploitation),
		TotalReward:       res.TotalReward,
		MeanReward:        res.MeanReward(),
		Regret:            policy.ExpectedRegret(b, res),
		Counts:            res.Counts,
	}
	if withRewards {
		r.Rewards = res.Rewards
	}
	return r
}

func (o *options) runSimulate(cmd *cobra.Command, _ []string) error {
	b, err := o.newBandit()
	if err != nil {
		return err
	}
	batch, err := sim.Simulate(b, o.trials)
	if err != nil {
		return err
	}

	report := simulateReport{
		Trials:      batch.Trials(),
		Plays:       batch.Arms() * batch.Trials(),
		TotalReward: batch.Sum(),
	}
	means := batch.Means()
	for a, m := range b.Means() {
		report.Arms = append(report.Arms, armSummary{Arm: a, TrueMean: m, SampleMean: means[a]})
	}

	o.logger.Debug("simulation done", slog.Int("arms", batch.Arms()), slog.Int("trials", batch.Trials()))
	return o.printSimulate(cmd.OutOrStdout(), report)
}

func (o *options) runExplore(cmd *cobra.Command, _ []string) error {
	p := policy.ExploreThenExploit{Interval: o.cfg.Explore.Interval}
	return o.runPolicy(cmd, p, float64(p.Interval))
}

func (o *options) runEpsilonGreedy(cmd *cobra.Command, _ []string) error {
	p := policy.EpsilonGreedy{Epsilon: o.cfg.EpsilonGreedy.Epsilon}
	return o.runPolicy(cmd, p, p.Epsilon)
}

func (o *options) runOracle(cmd *cobra.Command, _ []string) error {
	return o.runPolicy(cmd, policy.Oracle{}, 0)
}

func (o *options) runPolicy(cmd *cobra.Command, p policy.Policy, param float64) error {
	b, err := o.newBandit()
	if err != nil {
		return err
	}
	res, err := p.Run(b, o.cfg.Experiment.Horizon)
	if err != nil {
		return err
	}

	o.logger.Info("run finished",
		slog.String("policy", string(p.Kind())),
		slog.Int("plays", res.Plays),
		slog.Float64("total_reward", res.TotalReward),
	)
	return o.printRun(cmd.OutOrStdout(), newRunReport(b, p, param, res, o.rewards))
}
