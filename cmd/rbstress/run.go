// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/jba/rbtree/internal/stress"
)

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"ops":         "ops",
	"keys":        "keys",
	"seed":        "seed",
	"erase-ratio": "erase_ratio",
	"find-ratio":  "find_ratio",
	"check-every": "check_every",
	"node-limit":  "node_limit",
}

func newRunCommand() *cobra.Command {
	var configPath, output string
	def := stress.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a randomized workload",
		Long: `Run performs random operations on a tree, comparing each result with a
Go map and checking the tree's invariants every --check-every operations.

Settings come from flags, then RBSTRESS_* environment variables
(for example RBSTRESS_NODE_LIMIT), then the config file, then defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := viper.New()
			for flag, key := range flagKeys {
				if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
					return fmt.Errorf("bind flag %s: %w", flag, err)
				}
			}
			if output != "table" && output != "yaml" {
				return fmt.Errorf("unknown output format %q", output)
			}
			cfg, err := stress.LoadViper(v, configPath)
			if err != nil {
				return err
			}
			res, runErr := stress.Run(cmd.Context(), *cfg)
			switch output {
			case "table":
				report(cmd.OutOrStdout(), *cfg, res, runErr)
			case "yaml":
				if err := reportYAML(cmd.OutOrStdout(), *cfg, res, runErr); err != nil {
					return err
				}
			}
			if runErr != nil {
				return errors.New("stress run failed")
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "config file (default .rbstress.yaml)")
	f.StringVarP(&output, "output", "o", "table", "report format: table or yaml")
	f.Int("ops", def.Ops, "number of operations")
	f.Int("keys", def.Keys, "keys are drawn from [0, keys)")
	f.Uint64("seed", def.Seed, "random seed")
	f.Float64("erase-ratio", def.EraseRatio, "share of operations that erase")
	f.Float64("find-ratio", def.FindRatio, "share of operations that look up")
	f.Int("check-every", def.CheckEvery, "validate the tree every N operations (0: only at the end)")
	f.Int("node-limit", def.NodeLimit, "maximum live nodes (0: unlimited)")
	return cmd
}

// report writes a table describing res, followed by a status line.
func report(w io.Writer, cfg stress.Config, res stress.Result, runErr error) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle("rbstress seed %d, %s keys", cfg.Seed, humanize.Comma(int64(cfg.Keys)))
	tbl.AppendHeader(table.Row{"Metric", "Value"})
	count := func(name string, n int) {
		tbl.AppendRow(table.Row{name, humanize.Comma(int64(n))})
	}
	count("operations", res.Ops)
	count("inserts", res.Inserts)
	count("duplicate inserts", res.Duplicates)
	if cfg.NodeLimit > 0 {
		count("refused inserts", res.Refused)
	}
	count("erases", res.Erases)
	count("erase misses", res.Misses)
	count("lookups", res.Finds)
	count("invariant checks", res.Checks)
	count("rotations", res.Rotations)
	count("peak size", res.MaxLen)
	count("final size", res.FinalLen)
	tbl.AppendFooter(table.Row{
		"throughput",
		fmt.Sprintf("%s ops/s in %s", humanize.Comma(int64(res.OpsPerSecond())), res.Elapsed.Round(time.Millisecond)),
	})
	tbl.Render()

	if runErr != nil {
		color.New(color.FgRed).Fprintf(w, "FAIL: %v\n", runErr)
		return
	}
	color.New(color.FgGreen).Fprintln(w, "PASS")
}

// yamlReport is the document written by --output yaml.
// The report itself is not a config file, but its config section,
// saved on its own, can be passed to --config to repeat the run.
type yamlReport struct {
	Status string        `yaml:"status"`
	Error  string        `yaml:"error,omitempty"`
	Config stress.Config `yaml:"config"`
	Result stress.Result `yaml:"result"`
}

func reportYAML(w io.Writer, cfg stress.Config, res stress.Result, runErr error) error {
	doc := yamlReport{Status: "pass", Config: cfg, Result: res}
	if runErr != nil {
		doc.Status = "fail"
		doc.Error = runErr.Error()
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}
