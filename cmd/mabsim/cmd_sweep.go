package main

import (
	"github.com/spf13/cobra"

	"mabsim/experiment"
)

func (o *options) newHarness() (*experiment.Harness, error) {
	b, err := o.newBandit()
	if err != nil {
		return nil, err
	}
	return experiment.New(b, experiment.Config{
		Horizon: o.cfg.Experiment.Horizon,
		Repeats: o.cfg.Experiment.Repeats,
		Seed:    o.cfg.Bandit.Seed,
		Workers: o.cfg.Experiment.Workers,
		Logger:  o.logger,
	})
}

func (o *options) runSweepExplore(cmd *cobra.Command, _ []string) error {
	h, err := o.newHarness()
	if err != nil {
		return err
	}
	res, err := h.SweepExploration(cmd.Context(), o.cfg.Explore.Intervals)
	if err != nil {
		return err
	}
	return o.printSweep(cmd.OutOrStdout(), res)
}

func (o *options) runSweepEpsilon(cmd *cobra.Command, _ []string) error {
	h, err := o.newHarness()
	if err != nil {
		return err
	}
	res, err := h.SweepEpsilon(cmd.Context(), o.cfg.EpsilonGreedy.Epsilons)
	if err != nil {
		return err
	}
	return o.printSweep(cmd.OutOrStdout(), res)
}
