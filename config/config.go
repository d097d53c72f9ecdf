// Package config loads mabsim settings from defaults, an optional YAML file
// and MAB_* environment variables, in that order of increasing priority.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	Bandit        BanditConfig        `yaml:"bandit"`
	Experiment    ExperimentConfig    `yaml:"experiment"`
	Explore       ExploreConfig       `yaml:"explore"`
	EpsilonGreedy EpsilonGreedyConfig `yaml:"epsilon_greedy"`
	Server        ServerConfig        `yaml:"server"`
	Log           LogConfig           `yaml:"log"`
}

// BanditConfig describes the reward model.
type BanditConfig struct {
	Arms int   `yaml:"arms" validate:"gt=0"`
	Seed int64 `yaml:"seed"` // 0 seeds from the clock
}

// ExperimentConfig holds the run budget shared by every policy.
type ExperimentConfig struct {
	Horizon int `yaml:"horizon" validate:"gte=0"`
	Repeats int `yaml:"repeats" validate:"gt=0"`
	Workers int `yaml:"workers" validate:"gte=0"` // 0 means GOMAXPROCS
}

// ExploreConfig configures explore-then-exploit.
type ExploreConfig struct {
	Interval  int   `yaml:"interval" validate:"gte=0"`
	Intervals []int `yaml:"intervals" validate:"dive,gte=0"`
}

// EpsilonGreedyConfig configures epsilon-greedy.
type EpsilonGreedyConfig struct {
	Epsilon  float64   `yaml:"epsilon" validate:"gte=0,lte=1"`
	Epsilons []float64 `yaml:"epsilons" validate:"dive,gte=0,lte=1"`
}

// ServerConfig configures the interactive episode server.
type ServerConfig struct {
	Addr        string `yaml:"addr" validate:"required"`
	MetricsAddr string `yaml:"metrics_addr"`
	MaxSteps    int    `yaml:"max_steps" validate:"gt=0"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `yaml:"json"`
}

// Default returns the configuration used when nothing else is given: ten
// arms, a thousand rounds and five thousand repeats per sweep value.
func Default() Config {
	intervals := make([]int, 20)
	for i := range intervals {
		intervals[i] = i + 1
	}
	return Config{
		Bandit: BanditConfig{
			Arms: 10,
			Seed: 50,
		},
		Experiment: ExperimentConfig{
			Horizon: 1000,
			Repeats: 5000,
			Workers: 0,
		},
		Explore: ExploreConfig{
			Interval:  10,
			Intervals: intervals,
		},
		EpsilonGreedy: EpsilonGreedyConfig{
			Epsilon:  0.1,
			Epsilons: []float64{0, 0.001, 0.005, 0.1, 0.5},
		},
		Server: ServerConfig{
			Addr:     ":1337",
			MaxSteps: 500,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration with priority env > file > defaults.
//
// An empty path or a missing file leaves the defaults in place; a file that
// exists but does not parse is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	loadEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func loadEnv(cfg *Config) {
	if v := os.Getenv("MAB_ARMS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Bandit.Arms = i
		}
	}
	if v := os.Getenv("MAB_SEED"); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Bandit.Seed = i
		}
	}
	if v := os.Getenv("MAB_HORIZON"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Experiment.Horizon = i
		}
	}
	if v := os.Getenv("MAB_REPEATS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Experiment.Repeats = i
		}
	}
	if v := os.Getenv("MAB_WORKERS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Experiment.Workers = i
		}
	}
	if v := os.Getenv("MAB_INTERVAL"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Explore.Interval = i
		}
	}
	if v := os.Getenv("MAB_EPSILON"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.EpsilonGreedy.Epsilon = f
		}
	}
	if v := os.Getenv("MAB_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("MAB_METRICS_ADDR"); v != "" {
		cfg.Server.MetricsAddr = v
	}
	if v := os.Getenv("MAB_MAX_STEPS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Server.MaxSteps = i
		}
	}
	if v := os.Getenv("MAB_LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("MAB_LOG_JSON"); v != "" {
		cfg.Log.JSON = v == "true" || v == "1"
	}
}

var validate = validator.New()

// Validate checks field ranges.
func (c Config) Validate() error {
	return validate.Struct(c)
}
