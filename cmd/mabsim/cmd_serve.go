package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"mabsim/rl"
)

func (o *options) runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	server, err := rl.NewServer(rl.Config{
		Arms:     o.cfg.Bandit.Arms,
		Seed:     o.cfg.Bandit.Seed,
		MaxSteps: o.cfg.Server.MaxSteps,
		Logger:   o.logger,
		Metrics:  rl.NewMetrics(reg),
	})
	if err != nil {
		return err
	}

	if addr := o.cfg.Server.MetricsAddr; addr != "" {
		stop := o.serveMetrics(addr, reg)
		defer stop()
	}

	return server.Run(ctx, o.cfg.Server.Addr)
}

// serveMetrics exposes reg on /metrics and returns a shutdown func.
func (o *options) serveMetrics(addr string, reg *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		o.logger.Info("metrics listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			o.logger.Error("metrics server failed", slog.Any("error", err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
