// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rbtree

// The balancing code follows Cormen, Leiserson, Rivest and Stein,
// "Introduction to Algorithms", chapter 13, with nil children standing
// in for the black leaves. Because the root is the left child of the
// tree's sentinel, no rotation or transplant needs a root special case.

// rotateLeft rotates the subtree rooted at node x,
// turning (x a (y b c)) into (y (x a b) c).
func (t *Tree[K, V]) rotateLeft(x *node[K, V]) {
	t.stats.Rotations++
	// p -> (x a (y b c))
	p := x.parent
	y := x.right
	b := y.left

	y.left = x
	x.parent = y
	x.right = b
	if b != nil {
		b.parent = x
	}

	y.parent = p
	replaceChild(p, x, y)
}

// rotateRight rotates the subtree rooted at node y,
// turning (y (x a b) c) into (x a (y b c)).
func (t *Tree[K, V]) rotateRight(y *node[K, V]) {
	t.stats.Rotations++
	// p -> (y (x a b) c)
	p := y.parent
	x := y.left
	b := x.right

	x.right = y
	y.parent = x
	y.left = b
	if b != nil {
		b.parent = y
	}

	x.parent = p
	replaceChild(p, y, x)
}

// replaceChild makes v the child of p that u used to be.
func replaceChild[K, V any](p, u, v *node[K, V]) {
	switch {
	case p.left == u:
		p.left = v
	case p.right == u:
		p.right = v
	default:
		// unreachable
		panic("rbtree: corrupt tree")
	}
}

// transplant replaces the subtree rooted at u with the subtree rooted at v.
// v may be nil.
func transplant[K, V any](u, v *node[K, V]) {
	p := u.parent
	replaceChild(p, u, v)
	if v != nil {
		v.parent = p
	}
}

// insertFixup restores the red-black properties after z,
// a new red leaf, has been linked into the tree.
func (t *Tree[K, V]) insertFixup(z *node[K, V]) {
	// The sentinel is black, so the loop ends when z reaches the root.
	for isRed(z.parent) {
		p := z.parent
		// p is red, so it is not the root and has a real grandparent.
		g := p.parent
		if p == g.left {
			if u := g.right; isRed(u) {
				p.color, u.color, g.color = black, black, red
				z = g
				continue
			}
			if z == p.right {
				// Zig-zag: straighten it out first.
				z = p
				t.rotateLeft(z)
				p = z.parent
			}
			p.color = black
			g.color = red
			t.rotateRight(g)
		} else {
			if u := g.left; isRed(u) {
				p.color, u.color, g.color = black, black, red
				z = g
				continue
			}
			if z == p.left {
				z = p
				t.rotateRight(z)
				p = z.parent
			}
			p.color = black
			g.color = red
			t.rotateLeft(g)
		}
	}
	t.root().color = black
}

// erase unlinks z from the tree and rebalances.
// Only z changes position in the in-order sequence; every other node
// keeps its identity, so iterators to other entries stay valid.
func (t *Tree[K, V]) erase(z *node[K, V]) {
	// x moves into the position that lost a node; it may be nil,
	// so its parent is tracked separately.
	var x, xp *node[K, V]
	removed := z.color
	switch {
	case z.left == nil:
		x, xp = z.right, z.parent
		transplant(z, z.right)
	case z.right == nil:
		x, xp = z.left, z.parent
		transplant(z, z.left)
	default:
		// Two children: the successor y has no left child.
		// Unlink y from its place and put it where z was.
		y := z.right.minNode()
		removed = y.color
		x = y.right
		if y.parent == z {
			xp = y
		} else {
			xp = y.parent
			transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}
		transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}
	if removed == black {
		t.eraseFixup(x, xp)
	}
	z.parent, z.left, z.right = nil, nil, nil
	z.dead = true
}

// eraseFixup resolves the missing black on the path through x,
// whose parent is xp.
func (t *Tree[K, V]) eraseFixup(x, xp *node[K, V]) {
	for x != t.root() && !isRed(x) {
		if x == xp.left {
			// x carries a double black, so its sibling subtree
			// has black height at least one and w is not nil.
			w := xp.right
			if isRed(w) {
				w.color = black
				xp.color = red
				t.rotateLeft(xp)
				w = xp.right
			}
			if !isRed(w.left) && !isRed(w.right) {
				w.color = red
				x, xp = xp, xp.parent
				continue
			}
			if !isRed(w.right) {
				w.left.color = black
				w.color = red
				t.rotateRight(w)
				w = xp.right
			}
			w.color = xp.color
			xp.color = black
			w.right.color = black
			t.rotateLeft(xp)
			x = t.root()
		} else {
			w := xp.left
			if isRed(w) {
				w.color = black
				xp.color = red
				t.rotateRight(xp)
				w = xp.left
			}
			if !isRed(w.right) && !isRed(w.left) {
				w.color = red
				x, xp = xp, xp.parent
				continue
			}
			if !isRed(w.left) {
				w.right.color = black
				w.color = red
				t.rotateLeft(w)
				w = xp.left
			}
			w.color = xp.color
			xp.color = black
			w.left.color = black
			t.rotateRight(xp)
			x = t.root()
		}
	}
	if x != nil {
		x.color = black
	}
}
