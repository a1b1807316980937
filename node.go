// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rbtree

type color bool

const (
	red   color = false
	black color = true
)

func (c color) String() string {
	if c == red {
		return "red"
	}
	return "black"
}

// A node is a node in the red-black tree.
//
// Every tree has one extra node, its end sentinel, which holds no entry.
// The root of the tree is the left child of the sentinel, so the sentinel
// is both the root's parent and the successor of the maximum node.
type node[K, V any] struct {
	parent *node[K, V]
	left   *node[K, V]
	right  *node[K, V]
	key    K
	val    V
	color  color
	dead   bool // removed from its tree
}

func newSentinel[K, V any]() *node[K, V] {
	return &node[K, V]{color: black}
}

// isRed reports whether x is a red node. Missing children are black.
func isRed[K, V any](x *node[K, V]) bool {
	return x != nil && x.color == red
}

// minNode returns the node in x's subtree with the smallest key.
// x must not be nil.
// Called on a sentinel, it returns the first node of the tree,
// or the sentinel itself if the tree is empty.
func (x *node[K, V]) minNode() *node[K, V] {
	for x.left != nil {
		x = x.left
	}
	return x
}

// maxNode returns the node in x's subtree with the largest key.
// x must not be nil.
func (x *node[K, V]) maxNode() *node[K, V] {
	for x.right != nil {
		x = x.right
	}
	return x
}

// next returns the in-order successor of x.
// The successor of the maximum node is the sentinel.
// x must be a live node, not the sentinel.
func (x *node[K, V]) next() *node[K, V] {
	if x.right != nil {
		return x.right.minNode()
	}
	// The root is a left child of the sentinel, so this loop
	// stops at the sentinel at the latest.
	for x.parent.right == x {
		x = x.parent
	}
	return x.parent
}

// prev returns the in-order predecessor of x.
// The predecessor of the sentinel is the maximum node,
// and the predecessor of the minimum node is nil.
func (x *node[K, V]) prev() *node[K, V] {
	if x.left != nil {
		return x.left.maxNode()
	}
	for x.parent != nil && x.parent.left == x {
		x = x.parent
	}
	return x.parent
}

// clone returns a deep copy of the subtree rooted at x,
// attached to parent. Colors and shape are preserved.
func (x *node[K, V]) clone(parent *node[K, V]) *node[K, V] {
	if x == nil {
		return nil
	}
	c := *x
	x2 := &c
	x2.left = x.left.clone(x2)
	x2.right = x.right.clone(x2)
	x2.parent = parent
	return x2
}

// markDead releases the subtree rooted at x.
// Nodes are marked dead and unlinked so that stale iterators
// cannot walk back into the tree.
func markDead[K, V any](x *node[K, V]) {
	if x == nil {
		return
	}
	markDead(x.left)
	markDead(x.right)
	x.parent, x.left, x.right = nil, nil, nil
	x.dead = true
}
