package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"mabsim/experiment"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (o *options) printSimulate(w io.Writer, r simulateReport) error {
	if o.jsonOutput {
		return writeJSON(w, r)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ARM\tTRUE MEAN\tSAMPLE MEAN")
	for _, a := range r.Arms {
		fmt.Fprintf(tw, "%d\t%.4f\t%.4f\n", a.Arm+1, a.TrueMean, a.SampleMean)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "plays: %d | reward: %.4f\n", r.Plays, r.TotalReward)
	return err
}

func (o *options) printRun(w io.Writer, r runReport) error {
	if o.jsonOutput {
		return writeJSON(w, r)
	}
	if r.ExplorationPlays > 0 || r.ExploitationPlays > 0 {
		fmt.Fprintf(w, "EXPLORATION: # of plays: %d\n", r.ExplorationPlays)
		fmt.Fprintf(w, "EXPLOITATION: arm: %d | # of plays: %d\n", r.Arm+1, r.ExploitationPlays)
	}
	_, err := fmt.Fprintf(w, "%s: arm: %d (best %d) | # of plays: %d | reward: %.4f (%.4f) | regret: %.4f\n",
		r.Policy, r.Arm+1, r.BestArm+1, r.Plays, r.TotalReward, r.MeanReward, r.Regret)
	return err
}

func (o *options) printSweep(w io.Writer, res *experiment.SweepResult) error {
	if o.jsonOutput {
		return writeJSON(w, res)
	}
	fmt.Fprintf(w, "sweep %s: %s over %s (T=%d)\n", res.ID, res.Policy, res.Parameter, res.Horizon)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VALUE\tMEAN REWARD\tSTD DEV\tRUNS")
	for _, p := range res.Points {
		fmt.Fprintf(tw, "%g\t%.4f\t%.4f\t%d\n", p.Value, p.MeanReward, p.StdDev, p.Runs)
	}
	return tw.Flush()
}
