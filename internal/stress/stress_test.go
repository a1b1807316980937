// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stress

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Ops = 20_000
	cfg.Keys = 500
	cfg.CheckEvery = 1000
	return cfg
}

func TestRun(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rbtree")
	defer teardown()

	res, err := Run(context.Background(), smallConfig())
	require.NoError(t, err)
	assert.Equal(t, 20_000, res.Ops)
	assert.Equal(t, res.Ops, res.Inserts+res.Duplicates+res.Erases+res.Misses+res.Finds)
	assert.Equal(t, res.Inserts-res.Erases, res.FinalLen)
	assert.Equal(t, 21, res.Checks)
	assert.Positive(t, res.Rotations)
	assert.LessOrEqual(t, res.MaxLen, 500)
	assert.Zero(t, res.Refused)
}

func TestRunIsDeterministic(t *testing.T) {
	cfg := smallConfig()
	a, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	b, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	a.Elapsed, b.Elapsed = 0, 0
	assert.Equal(t, a, b)

	cfg.Seed++
	c, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	c.Elapsed = 0
	assert.NotEqual(t, a, c)
}

func TestRunWithNodeLimit(t *testing.T) {
	cfg := smallConfig()
	cfg.NodeLimit = 50
	cfg.EraseRatio = 0.1
	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Positive(t, res.Refused)
	assert.LessOrEqual(t, res.MaxLen, 50)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Run(ctx, smallConfig())
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, res.Ops)
}

func TestRunRejectsBadConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.EraseRatio = 0.9
	cfg.FindRatio = 0.2
	_, err := Run(context.Background(), cfg)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"negative ops":      func(c *Config) { c.Ops = -1 },
		"zero keys":         func(c *Config) { c.Keys = 0 },
		"negative ratio":    func(c *Config) { c.FindRatio = -0.1 },
		"negative check":    func(c *Config) { c.CheckEvery = -1 },
		"negative limit":    func(c *Config) { c.NodeLimit = -5 },
		"ratios exceed one": func(c *Config) { c.EraseRatio, c.FindRatio = 0.6, 0.6 },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
	require.NoError(t, DefaultConfig().Validate())
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stress.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ops: 500\nkeys: 64\nerase_ratio: 0.5\n"), 0o600))
	t.Setenv("RBSTRESS_SEED", "42")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Ops)
	assert.Equal(t, 64, cfg.Keys)
	assert.InDelta(t, 0.5, cfg.EraseRatio, 1e-9)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, DefaultCheckEvery, cfg.CheckEvery)
}

func TestLoadViperOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	v := viper.New()
	v.Set("node_limit", 10)
	cfg, err := LoadViper(v, "")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.NodeLimit)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("keys: 0\n"), 0o600))
	_, err = LoadConfig(bad)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestMatchReverse(t *testing.T) {
	keys := []int{1, 4, 9}
	for _, test := range []struct {
		name string
		walk []int
		ok   bool
	}{
		{"exact", []int{9, 4, 1}, true},
		{"extra", []int{9, 4, 1, 0}, false},
		{"short", []int{9, 4}, false},
		{"wrong key", []int{9, 5, 1}, false},
		{"empty", nil, false},
	} {
		t.Run(test.name, func(t *testing.T) {
			err := matchReverse(keys, slices.Values(test.walk))
			if test.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrMismatch)
			}
		})
	}
	require.NoError(t, matchReverse(nil, slices.Values([]int(nil))))
	require.ErrorIs(t, matchReverse(nil, slices.Values([]int{7})), ErrMismatch)
}

func TestOpsPerSecond(t *testing.T) {
	assert.Zero(t, Result{Ops: 10}.OpsPerSecond())
	assert.InDelta(t, 5.0, Result{Ops: 10, Elapsed: 2e9}.OpsPerSecond(), 1e-9)
}
