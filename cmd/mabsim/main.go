// Command mabsim runs multi-armed bandit simulations.
//
// Usage:
//
//	mabsim simulate --trials 50
//	mabsim explore --horizon 1000 --interval 10
//	mabsim egreedy --epsilon 0.1
//	mabsim sweep epsilon --epsilons 0,0.001,0.005,0.1,0.5 --repeats 5000
//	mabsim serve --addr :1337 --metrics-addr :9090
//
// Settings come from defaults, then --config (YAML), then MAB_* environment
// variables, then flags.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
