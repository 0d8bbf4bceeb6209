// Package config holds the solver's tunable settings: the grid size of the
// business plan, which regime it optimizes under by default, and the
// tolerance the greedy signer is allowed relative to the optimal one.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds the trading core's settings (in-memory representation).
// There is no persistence layer: Load builds a fresh Config from defaults,
// the environment and an optional file on each call; nothing is persisted.
type Config struct {
	QMax                   int     `mapstructure:"q_max"`
	DefaultHorizon         int     `mapstructure:"default_horizon"`
	Optimistic             bool    `mapstructure:"optimistic"`
	Step                   int     `mapstructure:"step"`
	SolverVerbose          bool    `mapstructure:"solver_verbose"`
	GreedyToleranceEpsilon float64 `mapstructure:"greedy_tolerance_epsilon"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		QMax:                   50,
		DefaultHorizon:         10,
		Optimistic:             true,
		Step:                   0,
		SolverVerbose:          false,
		GreedyToleranceEpsilon: 1e-5,
	}
}

// Load reads configuration from environment variables prefixed
// TRADINGCORE_ and, if present, from a config file named configPath,
// layered over Default(). An empty configPath skips the file layer.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("tradingcore")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("q_max", def.QMax)
	v.SetDefault("default_horizon", def.DefaultHorizon)
	v.SetDefault("optimistic", def.Optimistic)
	v.SetDefault("step", def.Step)
	v.SetDefault("solver_verbose", def.SolverVerbose)
	v.SetDefault("greedy_tolerance_epsilon", def.GreedyToleranceEpsilon)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
