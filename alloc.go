// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rbtree

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrAllocation is returned when an Allocator refuses to provide
	// storage for new nodes. The operation that needed the nodes
	// has not changed the tree.
	ErrAllocation = errors.New("rbtree: node allocation failed")

	// ErrInvariant is returned by [Tree.Check] when the tree's
	// structure is corrupt.
	ErrInvariant = errors.New("rbtree: invariant violated")
)

// An Allocator accounts for the nodes of one or more trees.
//
// A tree reserves storage before it creates nodes and releases it when
// nodes are removed. Node memory itself is managed by the Go runtime;
// an Allocator decides only whether a tree may grow.
type Allocator interface {
	// Reserve requests storage for n more nodes.
	// A non-nil error, which should wrap ErrAllocation,
	// aborts the operation that needed the nodes.
	Reserve(n int) error

	// Release returns storage for n nodes.
	Release(n int)

	// MaxSize reports the largest number of nodes the allocator
	// could ever provide.
	MaxSize() int
}

// heapAllocator places no limit on the number of nodes.
type heapAllocator struct{}

func (heapAllocator) Reserve(int) error { return nil }
func (heapAllocator) Release(int)       {}
func (heapAllocator) MaxSize() int      { return math.MaxInt }

// A LimitAllocator provides at most a fixed number of nodes.
// A single LimitAllocator may be shared by several trees,
// in which case the limit applies to all of them together.
type LimitAllocator struct {
	limit int
	used  int
}

// NewLimitAllocator returns an allocator that provides at most limit nodes.
func NewLimitAllocator(limit int) *LimitAllocator {
	return &LimitAllocator{limit: max(limit, 0)}
}

// Reserve implements [Allocator].
func (a *LimitAllocator) Reserve(n int) error {
	if n > a.limit-a.used {
		return fmt.Errorf("%w: %d of %d nodes in use, %d requested", ErrAllocation, a.used, a.limit, n)
	}
	a.used += n
	return nil
}

// Release implements [Allocator].
func (a *LimitAllocator) Release(n int) {
	a.used -= n
	assert(a.used >= 0)
}

// MaxSize implements [Allocator].
func (a *LimitAllocator) MaxSize() int { return a.limit }

// InUse reports the number of nodes currently reserved.
func (a *LimitAllocator) InUse() int { return a.used }
