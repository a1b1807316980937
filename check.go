// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rbtree

import (
	"fmt"
)

// Check validates the structure of t: parent links, key order,
// the red-black coloring rules, uniform black height and the
// entry count. It returns an error wrapping [ErrInvariant] describing
// the first problem found.
//
// A correct Tree always passes Check; it is meant for tests.
func (t *Tree[K, V]) Check() error {
	err := t.check()
	if err != nil {
		tracer().Errorf("rbtree: %v", err)
	}
	return err
}

func (t *Tree[K, V]) check() error {
	if t.end == nil {
		return fmt.Errorf("%w: tree has no sentinel; use New", ErrInvariant)
	}
	if t.end.color != black || t.end.right != nil || t.end.parent != nil || t.end.dead {
		return fmt.Errorf("%w: corrupt sentinel", ErrInvariant)
	}
	r := t.root()
	if r == nil {
		if t.size != 0 {
			return fmt.Errorf("%w: empty tree has size %d", ErrInvariant, t.size)
		}
		return nil
	}
	if r.parent != t.end {
		return fmt.Errorf("%w: root's parent is not the sentinel", ErrInvariant)
	}
	if r.color != black {
		return fmt.Errorf("%w: root %v is red", ErrInvariant, r.key)
	}
	n, _, err := t.checkNode(r)
	if err != nil {
		return err
	}
	if n != t.size {
		return fmt.Errorf("%w: counted %d nodes, size is %d", ErrInvariant, n, t.size)
	}
	// In-order walk along parent links, the way iterators move.
	var prev *node[K, V]
	for x := t.end.minNode(); x != t.end; x = x.next() {
		if prev != nil && t.cmp(prev.key, x.key) >= 0 {
			return fmt.Errorf("%w: key %v does not sort before %v", ErrInvariant, prev.key, x.key)
		}
		prev = x
	}
	return nil
}

// checkNode checks the subtree rooted at x, which must not be nil.
// It returns the number of nodes and the black height of the subtree.
func (t *Tree[K, V]) checkNode(x *node[K, V]) (count, blackHeight int, err error) {
	if x.dead {
		return 0, 0, fmt.Errorf("%w: erased node %v still linked", ErrInvariant, x.key)
	}
	if x.color == red && (isRed(x.left) || isRed(x.right)) {
		return 0, 0, fmt.Errorf("%w: red node %v has a red child", ErrInvariant, x.key)
	}
	var counts, heights [2]int
	for i, c := range []*node[K, V]{x.left, x.right} {
		if c == nil {
			continue
		}
		if c.parent != x {
			return 0, 0, fmt.Errorf("%w: child %v of %v has wrong parent", ErrInvariant, c.key, x.key)
		}
		if i == 0 && t.cmp(c.key, x.key) >= 0 || i == 1 && t.cmp(c.key, x.key) <= 0 {
			return 0, 0, fmt.Errorf("%w: child %v on wrong side of %v", ErrInvariant, c.key, x.key)
		}
		counts[i], heights[i], err = t.checkNode(c)
		if err != nil {
			return 0, 0, err
		}
	}
	if heights[0] != heights[1] {
		return 0, 0, fmt.Errorf("%w: black heights %d and %d below %v", ErrInvariant, heights[0], heights[1], x.key)
	}
	blackHeight = heights[0]
	if x.color == black {
		blackHeight++
	}
	return 1 + counts[0] + counts[1], blackHeight, nil
}
