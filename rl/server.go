// Package rl serves interactive bandit episodes over TCP so that an external
// agent can play arms and learn from the rewards.
package rl

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync/atomic"

	"github.com/google/uuid"

	"mabsim/logging"
	"mabsim/sim"
)

// Request is what the agent sends each step: {"arm": <int>}
type Request struct {
	Arm *int `json:"arm"`
}

// Response is what we send back: the reward, the step counter, whether the
// episode is over and some running statistics.
type Response struct {
	Session    string             `json:"session"`
	Arms       int                `json:"arms"`
	Step       int                `json:"step"`
	Reward     float64            `json:"reward"`
	Terminated bool               `json:"terminated"`
	Error      string             `json:"error,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Config configures a Server.
type Config struct {
	Arms     int
	Seed     int64
	MaxSteps int // episode horizon
	Logger   *slog.Logger
	Metrics  *Metrics
}

// Server hands every TCP connection a fresh bandit and runs exactly one
// episode on it.
type Server struct {
	cfg      Config
	logger   *slog.Logger
	metrics  *Metrics
	sessions atomic.Int64
}

// NewServer validates cfg and creates a server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Arms <= 0 {
		return nil, fmt.Errorf("arm count %d must be positive: %w", cfg.Arms, sim.ErrInvalidParameter)
	}
	if cfg.MaxSteps <= 0 {
		return nil, fmt.Errorf("max steps %d must be positive: %w", cfg.MaxSteps, sim.ErrInvalidParameter)
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Server{
		cfg:     cfg,
		logger:  logging.Component(cfg.Logger, "server"),
		metrics: metrics,
	}, nil
}

// Run listens on addr and serves until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections from ln until ctx is done, then closes ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("listening", slog.String("addr", ln.Addr().String()))

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Warn("accept failed", slog.Any("error", err))
			continue
		}
		go s.handleConnection(conn)
	}
}

// newBandit builds the bandit for the n-th session.
func (s *Server) newBandit(n int) (*sim.Bandit, error) {
	return sim.NewBandit(s.cfg.Arms, sim.NewStream(sim.DeriveSeed(s.cfg.Seed, n)))
}

// handleConnection runs one episode per connection.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	n := int(s.sessions.Add(1) - 1)
	session := uuid.NewString()
	logger := s.logger.With(slog.String("session", session), slog.String("remote", conn.RemoteAddr().String()))
	logger.Info("client connected")

	s.metrics.Sessions.Inc()
	s.metrics.Active.Inc()
	defer s.metrics.Active.Dec()

	bandit, err := s.newBandit(n)
	if err != nil {
		logger.Error("failed to create bandit", slog.Any("error", err))
		return
	}

	writer := bufio.NewWriter(conn)
	encoder := json.NewEncoder(writer)
	scanner := bufio.NewScanner(conn)

	send := func(resp *Response) bool {
		if err := encoder.Encode(resp); err != nil {
			logger.Warn("encode failed", slog.Any("error", err))
			return false
		}
		if err := writer.Flush(); err != nil {
			logger.Warn("flush failed", slog.Any("error", err))
			return false
		}
		return true
	}

	// ---- Initial state ----
	if !send(&Response{
		Session: session,
		Arms:    bandit.Arms(),
		Metrics: map[string]float64{"step": 0, "total_reward": 0, "avg_reward": 0},
	}) {
		return
	}

	// ---- Main loop: read arms, play, send back rewards ----
	var (
		step  int
		total float64
	)
	for {
		if !scanner.Scan() {
			logger.Info("client went away", slog.Int("step", step))
			return
		}

		resp := Response{Session: session, Arms: bandit.Arms(), Step: step}

		var req Request
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			resp.Error = fmt.Sprintf("bad request: %v", err)
		} else if req.Arm == nil {
			resp.Error = "bad request: missing arm"
		} else if reward, err := bandit.Play(*req.Arm); err != nil {
			resp.Error = err.Error()
		} else {
			step++
			total += reward
			resp.Step = step
			resp.Reward = reward
			resp.Terminated = step >= s.cfg.MaxSteps
			s.metrics.Plays.Inc()
		}
		if resp.Error != "" {
			s.metrics.Errors.Inc()
			logger.Debug("rejected request", slog.String("error", resp.Error))
		}

		avg := 0.0
		if step > 0 {
			avg = total / float64(step)
		}
		resp.Metrics = map[string]float64{
			"step":         float64(step),
			"total_reward": total,
			"avg_reward":   avg,
		}

		if !send(&resp) {
			return
		}
		if resp.Terminated {
			logger.Info("episode finished", slog.Int("step", step), slog.Float64("total_reward", total))
			return
		}
	}
}
