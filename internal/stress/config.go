// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stress

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".rbstress"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for stress settings.
const envPrefix = "RBSTRESS"

// Defaults for a run.
const (
	DefaultOps        = 100_000
	DefaultKeys       = 10_000
	DefaultSeed       = 1
	DefaultEraseRatio = 0.3
	DefaultFindRatio  = 0.2
	DefaultCheckEvery = 10_000
	DefaultNodeLimit  = 0
)

// ErrInvalidConfig is returned when a Config fails validation.
var ErrInvalidConfig = errors.New("invalid stress config")

// Config describes a stress run.
// Field tags use mapstructure for viper unmarshalling; the yaml tags
// match, so a marshalled Config can be read back as a config file.
type Config struct {
	Ops        int     `mapstructure:"ops" yaml:"ops"`                 // operations to perform
	Keys       int     `mapstructure:"keys" yaml:"keys"`               // keys are drawn from [0, Keys)
	Seed       uint64  `mapstructure:"seed" yaml:"seed"`               // random seed; runs with equal seeds are identical
	EraseRatio float64 `mapstructure:"erase_ratio" yaml:"erase_ratio"` // share of operations that erase
	FindRatio  float64 `mapstructure:"find_ratio" yaml:"find_ratio"`   // share of operations that look up
	CheckEvery int     `mapstructure:"check_every" yaml:"check_every"` // validate the tree every N operations; 0 only at the end
	NodeLimit  int     `mapstructure:"node_limit" yaml:"node_limit"`   // cap on live nodes; 0 means no cap
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Ops:        DefaultOps,
		Keys:       DefaultKeys,
		Seed:       DefaultSeed,
		EraseRatio: DefaultEraseRatio,
		FindRatio:  DefaultFindRatio,
		CheckEvery: DefaultCheckEvery,
		NodeLimit:  DefaultNodeLimit,
	}
}

// Validate reports the first problem with c.
func (c Config) Validate() error {
	switch {
	case c.Ops < 0:
		return fmt.Errorf("%w: ops must not be negative, got %d", ErrInvalidConfig, c.Ops)
	case c.Keys <= 0:
		return fmt.Errorf("%w: keys must be positive, got %d", ErrInvalidConfig, c.Keys)
	case c.EraseRatio < 0 || c.FindRatio < 0 || c.EraseRatio+c.FindRatio > 1:
		return fmt.Errorf("%w: erase_ratio %g and find_ratio %g must be non-negative and sum to at most 1",
			ErrInvalidConfig, c.EraseRatio, c.FindRatio)
	case c.CheckEvery < 0:
		return fmt.Errorf("%w: check_every must not be negative, got %d", ErrInvalidConfig, c.CheckEvery)
	case c.NodeLimit < 0:
		return fmt.Errorf("%w: node_limit must not be negative, got %d", ErrInvalidConfig, c.NodeLimit)
	}
	return nil
}

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, .rbstress.yaml is looked up in the current directory.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	return LoadViper(viper.New(), configPath)
}

// LoadViper is like LoadConfig but reads through v.
// Flags bound to v with BindPFlag take precedence over env vars
// and the config file.
func LoadViper(v *viper.Viper, configPath string) (*Config, error) {
	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
	}

	readErr := v.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("ops", DefaultOps)
	v.SetDefault("keys", DefaultKeys)
	v.SetDefault("seed", DefaultSeed)
	v.SetDefault("erase_ratio", DefaultEraseRatio)
	v.SetDefault("find_ratio", DefaultFindRatio)
	v.SetDefault("check_every", DefaultCheckEvery)
	v.SetDefault("node_limit", DefaultNodeLimit)
}
