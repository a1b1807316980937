// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stress drives random workloads against an rbtree.Tree and
// checks every result against a Go map.
package stress

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"maps"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/npillmayer/schuko/tracing"

	"github.com/jba/rbtree"
)

// tracer writes to trace with key 'rbtree'
func tracer() tracing.Trace {
	return tracing.Select("rbtree")
}

// ErrMismatch is returned when the tree and the oracle disagree.
var ErrMismatch = errors.New("tree disagrees with oracle")

// Result summarizes a run. Apart from Elapsed, two runs with the same
// Config produce the same Result.
type Result struct {
	Ops        int           `yaml:"ops"`        // operations performed
	Inserts    int           `yaml:"inserts"`    // inserts that added an entry
	Duplicates int           `yaml:"duplicates"` // inserts of a key already present
	Refused    int           `yaml:"refused"`    // inserts refused by the node limit
	Erases     int           `yaml:"erases"`     // erases that removed an entry
	Misses     int           `yaml:"misses"`     // erases of an absent key
	Finds      int           `yaml:"finds"`      // lookups
	Checks     int           `yaml:"checks"`     // full invariant checks
	Rotations  int           `yaml:"rotations"`  // rotations done by the tree
	MaxLen     int           `yaml:"max_len"`    // largest size reached
	FinalLen   int           `yaml:"final_len"`  // size at the end of the run
	Elapsed    time.Duration `yaml:"elapsed"`
}

// OpsPerSecond returns the throughput of the run.
func (r Result) OpsPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Ops) / r.Elapsed.Seconds()
}

// Run performs cfg.Ops random operations. It returns an error wrapping
// ErrMismatch or rbtree.ErrInvariant at the first problem found, or
// ctx.Err() if ctx is done. The Result covers the operations performed
// up to that point.
func Run(ctx context.Context, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	var opts []rbtree.Option
	if cfg.NodeLimit > 0 {
		opts = append(opts, rbtree.WithAllocator(rbtree.NewLimitAllocator(cfg.NodeLimit)))
	}
	d := &driver{
		cfg:    cfg,
		rnd:    rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		tree:   rbtree.New[int, int](opts...),
		oracle: map[int]int{},
	}
	tracer().Infof("stress: %d ops over %d keys, seed %d", cfg.Ops, cfg.Keys, cfg.Seed)
	start := time.Now()
	err := d.run(ctx)
	d.res.Elapsed = time.Since(start)
	d.res.Rotations = d.tree.Stats().Rotations
	d.res.FinalLen = d.tree.Len()
	if err != nil {
		tracer().Errorf("stress: %v", err)
	}
	return d.res, err
}

type driver struct {
	cfg    Config
	rnd    *rand.Rand
	tree   *rbtree.Tree[int, int]
	oracle map[int]int
	res    Result
}

func (d *driver) run(ctx context.Context) error {
	for i := range d.cfg.Ops {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := d.step(i); err != nil {
			return fmt.Errorf("op %d: %w", i, err)
		}
		d.res.Ops++
		d.res.MaxLen = max(d.res.MaxLen, d.tree.Len())
		if d.cfg.CheckEvery > 0 && d.res.Ops%d.cfg.CheckEvery == 0 {
			if err := d.check(); err != nil {
				return fmt.Errorf("op %d: %w", i, err)
			}
			tracer().Debugf("stress: %d ops, size %d", d.res.Ops, d.tree.Len())
		}
	}
	if err := d.check(); err != nil {
		return err
	}
	return d.compareAll()
}

func (d *driver) step(i int) error {
	k := d.rnd.IntN(d.cfg.Keys)
	p := d.rnd.Float64()
	switch {
	case p < d.cfg.EraseRatio:
		return d.erase(k)
	case p < d.cfg.EraseRatio+d.cfg.FindRatio:
		return d.find(k)
	default:
		return d.insert(k, i)
	}
}

func (d *driver) insert(k, v int) error {
	before := d.tree.Len()
	it, added, err := d.tree.Insert(k, v)
	if errors.Is(err, rbtree.ErrAllocation) {
		d.res.Refused++
		if d.tree.Len() != before {
			return fmt.Errorf("%w: refused insert of %d changed size %d to %d", ErrMismatch, k, before, d.tree.Len())
		}
		if _, ok := d.oracle[k]; ok {
			return fmt.Errorf("%w: insert of present key %d needed a node", ErrMismatch, k)
		}
		return nil
	}
	if err != nil {
		return err
	}
	want, present := d.oracle[k]
	switch {
	case added == present:
		return fmt.Errorf("%w: Insert(%d) added=%t, oracle has it: %t", ErrMismatch, k, added, present)
	case present && it.Value() != want:
		return fmt.Errorf("%w: Insert(%d) found value %d, want %d", ErrMismatch, k, it.Value(), want)
	case present:
		d.res.Duplicates++
	default:
		d.oracle[k] = v
		d.res.Inserts++
	}
	return nil
}

// erase alternates between erasing by key and through an iterator.
func (d *driver) erase(k int) error {
	_, present := d.oracle[k]
	var n int
	if k%2 == 0 {
		n = d.tree.Erase(k)
	} else if it := d.tree.Find(k); !it.IsEnd() {
		d.tree.EraseAt(it)
		n = 1
	}
	if n != 0 != present {
		return fmt.Errorf("%w: Erase(%d) = %d, oracle has it: %t", ErrMismatch, k, n, present)
	}
	if present {
		delete(d.oracle, k)
		d.res.Erases++
	} else {
		d.res.Misses++
	}
	return nil
}

func (d *driver) find(k int) error {
	d.res.Finds++
	want, present := d.oracle[k]
	got, ok := d.tree.Get(k)
	if ok != present || got != want {
		return fmt.Errorf("%w: Get(%d) = %d, %t, want %d, %t", ErrMismatch, k, got, ok, want, present)
	}
	// The lower bound of an absent key is the next present key.
	if !present {
		it := d.tree.LowerBound(k)
		if !it.IsEnd() {
			if it.Key() <= k {
				return fmt.Errorf("%w: LowerBound(%d) = %d", ErrMismatch, k, it.Key())
			}
			if prev := it.Prev(); prev.Valid() && prev.Key() >= k {
				return fmt.Errorf("%w: LowerBound(%d) skipped %d", ErrMismatch, k, prev.Key())
			}
		}
	}
	return nil
}

func (d *driver) check() error {
	d.res.Checks++
	if err := d.tree.Check(); err != nil {
		return err
	}
	if d.tree.Len() != len(d.oracle) {
		return fmt.Errorf("%w: size %d, oracle has %d", ErrMismatch, d.tree.Len(), len(d.oracle))
	}
	return nil
}

// compareAll walks the tree in both directions against the sorted oracle.
func (d *driver) compareAll() error {
	keys := slices.Sorted(maps.Keys(d.oracle))
	i := 0
	for k, v := range d.tree.All() {
		if i >= len(keys) || k != keys[i] || v != d.oracle[k] {
			return fmt.Errorf("%w: entry %d is (%d, %d)", ErrMismatch, i, k, v)
		}
		i++
	}
	if i != len(keys) {
		return fmt.Errorf("%w: visited %d entries, want %d", ErrMismatch, i, len(keys))
	}
	return matchReverse(keys, func(yield func(int) bool) {
		for it := d.tree.RBegin(); it.Valid() && yield(it.Key()); it = it.Next() {
		}
	})
}

// matchReverse checks that seq yields exactly keys, last to first.
func matchReverse(keys []int, seq iter.Seq[int]) error {
	i := len(keys)
	for k := range seq {
		if i == 0 {
			return fmt.Errorf("%w: reverse walk yielded extra key %d", ErrMismatch, k)
		}
		i--
		if k != keys[i] {
			return fmt.Errorf("%w: reverse entry %d is %d, want %d", ErrMismatch, i, k, keys[i])
		}
	}
	if i != 0 {
		return fmt.Errorf("%w: reverse walk missed %d entries", ErrMismatch, i)
	}
	return nil
}
