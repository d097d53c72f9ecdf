package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 10, cfg.Bandit.Arms)
	assert.Equal(t, int64(50), cfg.Bandit.Seed)
	assert.Equal(t, 1000, cfg.Experiment.Horizon)
	assert.Equal(t, 5000, cfg.Experiment.Repeats)
	assert.Equal(t, 10, cfg.Explore.Interval)
	assert.Len(t, cfg.Explore.Intervals, 20)
	assert.Equal(t, 1, cfg.Explore.Intervals[0])
	assert.Equal(t, 20, cfg.Explore.Intervals[19])
	assert.Equal(t, []float64{0, 0.001, 0.005, 0.1, 0.5}, cfg.EpsilonGreedy.Epsilons)
	assert.Equal(t, ":1337", cfg.Server.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantError bool
	}{
		{"valid default config", func(_ *Config) {}, false},
		{"zero arms", func(c *Config) { c.Bandit.Arms = 0 }, true},
		{"negative horizon", func(c *Config) { c.Experiment.Horizon = -1 }, true},
		{"zero horizon", func(c *Config) { c.Experiment.Horizon = 0 }, false},
		{"zero repeats", func(c *Config) { c.Experiment.Repeats = 0 }, true},
		{"negative interval", func(c *Config) { c.Explore.Interval = -2 }, true},
		{"negative sweep interval", func(c *Config) { c.Explore.Intervals = []int{1, -1} }, true},
		{"epsilon above one", func(c *Config) { c.EpsilonGreedy.Epsilon = 1.5 }, true},
		{"epsilon one", func(c *Config) { c.EpsilonGreedy.Epsilon = 1 }, false},
		{"sweep epsilon below zero", func(c *Config) { c.EpsilonGreedy.Epsilons = []float64{0.1, -0.1} }, true},
		{"missing server addr", func(c *Config) { c.Server.Addr = "" }, true},
		{"zero max steps", func(c *Config) { c.Server.MaxSteps = 0 }, true},
		{"unknown log level", func(c *Config) { c.Log.Level = "verbose" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mabsim.yaml")
	content := `
bandit:
  arms: 5
  seed: 7
experiment:
  horizon: 200
  repeats: 10
epsilon_greedy:
  epsilons: [0, 0.2]
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Bandit.Arms)
	assert.Equal(t, int64(7), cfg.Bandit.Seed)
	assert.Equal(t, 200, cfg.Experiment.Horizon)
	assert.Equal(t, 10, cfg.Experiment.Repeats)
	assert.Equal(t, []float64{0, 0.2}, cfg.EpsilonGreedy.Epsilons)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Untouched sections keep their defaults.
	assert.Equal(t, 10, cfg.Explore.Interval)
	assert.Equal(t, ":1337", cfg.Server.Addr)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Bandit, cfg.Bandit)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bandit: [not, a, map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bandit:\n  arms: -1\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mabsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bandit:\n  arms: 5\n"), 0o644))

	t.Setenv("MAB_ARMS", "3")
	t.Setenv("MAB_SEED", "99")
	t.Setenv("MAB_EPSILON", "0.25")
	t.Setenv("MAB_LOG_LEVEL", "WARN")
	t.Setenv("MAB_LOG_JSON", "true")
	t.Setenv("MAB_HORIZON", "not-a-number")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Bandit.Arms)
	assert.Equal(t, int64(99), cfg.Bandit.Seed)
	assert.Equal(t, 0.25, cfg.EpsilonGreedy.Epsilon)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, 1000, cfg.Experiment.Horizon, "unparsable env values are ignored")
}
