package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"mabsim/config"
	"mabsim/logging"
	"mabsim/sim"
)

// options holds flag values and the resolved configuration for one
// invocation.
type options struct {
	configPath string
	logLevel   string
	logJSON    bool
	jsonOutput bool
	rewards    bool

	arms    int
	seed    int64
	horizon int

	trials    int
	interval  int
	epsilon   float64
	intervals []int
	epsilons  []float64
	repeats   int
	workers   int

	addr        string
	metricsAddr string
	maxSteps    int

	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	o := &options{}

	rootCmd := &cobra.Command{
		Use:           "mabsim",
		Short:         "Simulate multi-armed bandits and compare exploration strategies",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.resolve(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "Path to a YAML config file")
	pf.StringVar(&o.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.BoolVar(&o.logJSON, "log-json", false, "Log as JSON")
	pf.BoolVar(&o.jsonOutput, "json", false, "Print results as JSON")
	pf.IntVarP(&o.arms, "arms", "k", 0, "Number of arms K")
	pf.Int64Var(&o.seed, "seed", 0, "Random seed")
	pf.IntVarP(&o.horizon, "horizon", "t", 0, "Rounds per run T")

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Sample every arm a fixed number of times (pure exploration)",
		Args:  cobra.NoArgs,
		RunE:  o.runSimulate, // Defined in cmd_run.go
	}
	simulateCmd.Flags().IntVarP(&o.trials, "trials", "n", 10, "Samples per arm")

	exploreCmd := &cobra.Command{
		Use:   "explore",
		Short: "Explore every arm, then exploit the best sample mean",
		Args:  cobra.NoArgs,
		RunE:  o.runExplore, // Defined in cmd_run.go
	}
	exploreCmd.Flags().IntVar(&o.interval, "interval", 0, "Exploration plays per arm")
	exploreCmd.Flags().BoolVar(&o.rewards, "rewards", false, "Include the reward sequence in the output")

	egreedyCmd := &cobra.Command{
		Use:   "egreedy",
		Short: "Run one epsilon-greedy episode",
		Args:  cobra.NoArgs,
		RunE:  o.runEpsilonGreedy, // Defined in cmd_run.go
	}
	egreedyCmd.Flags().Float64Var(&o.epsilon, "epsilon", 0, "Exploration probability")
	egreedyCmd.Flags().BoolVar(&o.rewards, "rewards", false, "Include the reward sequence in the output")

	oracleCmd := &cobra.Command{
		Use:   "oracle",
		Short: "Always play the truly best arm (baseline)",
		Args:  cobra.NoArgs,
		RunE:  o.runOracle, // Defined in cmd_run.go
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Repeat runs over a range of parameter values",
	}
	sweepCmd.PersistentFlags().IntVar(&o.repeats, "repeats", 0, "Independent runs per value")
	sweepCmd.PersistentFlags().IntVar(&o.workers, "workers", 0, "Parallel runs (0 = GOMAXPROCS)")

	sweepExploreCmd := &cobra.Command{
		Use:   "explore",
		Short: "Sweep the exploration interval of explore-then-exploit",
		Args:  cobra.NoArgs,
		RunE:  o.runSweepExplore, // Defined in cmd_sweep.go
	}
	sweepExploreCmd.Flags().IntSliceVar(&o.intervals, "intervals", nil, "Exploration intervals to try")

	sweepEpsilonCmd := &cobra.Command{
		Use:   "epsilon",
		Short: "Sweep epsilon of epsilon-greedy",
		Args:  cobra.NoArgs,
		RunE:  o.runSweepEpsilon, // Defined in cmd_sweep.go
	}
	sweepEpsilonCmd.Flags().Float64SliceVar(&o.epsilons, "epsilons", nil, "Epsilon values to try")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve interactive bandit episodes over TCP",
		Args:  cobra.NoArgs,
		RunE:  o.runServe, // Defined in cmd_serve.go
	}
	serveCmd.Flags().StringVar(&o.addr, "addr", "", "TCP listen address")
	serveCmd.Flags().StringVar(&o.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	serveCmd.Flags().IntVar(&o.maxSteps, "max-steps", 0, "Episode length")

	rootCmd.AddCommand(simulateCmd, exploreCmd, egreedyCmd, oracleCmd, sweepCmd, serveCmd)
	sweepCmd.AddCommand(sweepExploreCmd, sweepEpsilonCmd)
	return rootCmd
}

// resolve loads the configuration and applies flags the user set.
func (o *options) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if flags.Changed("log-json") {
		cfg.Log.JSON = o.logJSON
	}
	if flags.Changed("arms") {
		cfg.Bandit.Arms = o.arms
	}
	if flags.Changed("seed") {
		cfg.Bandit.Seed = o.seed
	}
	if flags.Changed("horizon") {
		cfg.Experiment.Horizon = o.horizon
	}
	if flags.Changed("interval") {
		cfg.Explore.Interval = o.interval
	}
	if flags.Changed("epsilon") {
		cfg.EpsilonGreedy.Epsilon = o.epsilon
	}
	if flags.Changed("intervals") {
		cfg.Explore.Intervals = o.intervals
	}
	if flags.Changed("epsilons") {
		cfg.EpsilonGreedy.Epsilons = o.epsilons
	}
	if flags.Changed("repeats") {
		cfg.Experiment.Repeats = o.repeats
	}
	if flags.Changed("workers") {
		cfg.Experiment.Workers = o.workers
	}
	if flags.Changed("addr") {
		cfg.Server.Addr = o.addr
	}
	if flags.Changed("metrics-addr") {
		cfg.Server.MetricsAddr = o.metricsAddr
	}
	if flags.Changed("max-steps") {
		cfg.Server.MaxSteps = o.maxSteps
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	o.cfg = cfg
	o.logger = logging.New(logging.Config{
		Level:  cfg.Log.Level,
		JSON:   cfg.Log.JSON,
		Output: cmd.ErrOrStderr(),
	})
	return nil
}

// newBandit builds the bandit every command plays against.
func (o *options) newBandit() (*sim.Bandit, error) {
	return sim.NewBandit(o.cfg.Bandit.Arms, sim.NewStream(o.cfg.Bandit.Seed))
}
