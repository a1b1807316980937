// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rbtree

import (
	"iter"

	"github.com/jba/rbtree/rng"
)

// Range returns an iterator over the entries of t whose keys lie in r,
// from smallest to largest key, or from largest to smallest if r is
// backwards.
// If t is modified during the iteration, some keys may not be visited.
// No keys will be visited multiple times.
func (t *Tree[K, V]) Range(r rng.Range[K]) iter.Seq2[K, V] {
	if r.IsBackwards() {
		return func(yield func(K, V) bool) {
			for x := t.last(r); x != nil && r.AboveLow(t.cmp, x.key) && yield(x.key, x.val); {
				x = t.before(x)
			}
		}
	}
	return func(yield func(K, V) bool) {
		for x := t.first(r); x != t.end && r.BelowHigh(t.cmp, x.key) && yield(x.key, x.val); {
			x = t.after(x)
		}
	}
}

// DeleteRange removes the entries of t whose keys lie in r
// and returns the number removed. The direction of r does not matter.
func (t *Tree[K, V]) DeleteRange(r rng.Range[K]) int {
	n := 0
	for x := t.first(r); x != t.end && r.BelowHigh(t.cmp, x.key); n++ {
		next := x.next()
		t.remove(x)
		x = next
	}
	return n
}

// first returns the first node that satisfies r's low bound,
// or the sentinel.
func (t *Tree[K, V]) first(r rng.Range[K]) *node[K, V] {
	lo, inf, incl := r.Low()
	switch {
	case inf:
		return t.end.minNode()
	case incl:
		return t.lowerBound(lo)
	default:
		return t.upperBound(lo)
	}
}

// last returns the last node that satisfies r's high bound, or nil.
func (t *Tree[K, V]) last(r rng.Range[K]) *node[K, V] {
	hi, inf, incl := r.High()
	switch {
	case inf:
		return t.end.prev()
	case incl:
		return t.upperBound(hi).prev()
	default:
		return t.lowerBound(hi).prev()
	}
}
