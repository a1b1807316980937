// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rbtree

import "cmp"

// Equal reports whether a and b hold the same entries:
// the same number of entries, with equivalent keys under a's
// comparison function and equal values, in the same order.
func Equal[K any, V comparable](a, b *Tree[K, V]) bool {
	return EqualFunc(a, b, func(v1, v2 V) bool { return v1 == v2 })
}

// EqualFunc is like [Equal] but compares values using eq.
func EqualFunc[K, V any](a, b *Tree[K, V], eq func(V, V) bool) bool {
	if a.size != b.size {
		return false
	}
	for x, y := a.end.minNode(), b.end.minNode(); x != a.end; x, y = x.next(), y.next() {
		if a.cmp(x.key, y.key) != 0 || !eq(x.val, y.val) {
			return false
		}
	}
	return true
}

// Compare compares the entries of a and b lexicographically,
// as a sequence of (key, value) pairs in key order. Keys are compared
// with a's comparison function. If one tree's entries are a prefix of
// the other's, the shorter tree is less.
// The result is 0 if a == b, -1 if a < b, and +1 if a > b.
func Compare[K any, V cmp.Ordered](a, b *Tree[K, V]) int {
	return CompareFunc(a, b, cmp.Compare[V])
}

// CompareFunc is like [Compare] but compares values using vcmp.
func CompareFunc[K, V any](a, b *Tree[K, V], vcmp func(V, V) int) int {
	x, y := a.end.minNode(), b.end.minNode()
	for ; x != a.end && y != b.end; x, y = x.next(), y.next() {
		if c := a.cmp(x.key, y.key); c != 0 {
			return sign(c)
		}
		if c := vcmp(x.val, y.val); c != 0 {
			return sign(c)
		}
	}
	switch {
	case x != a.end:
		return +1
	case y != b.end:
		return -1
	default:
		return 0
	}
}

// Less reports whether a sorts before b according to [Compare].
func Less[K any, V cmp.Ordered](a, b *Tree[K, V]) bool {
	return Compare(a, b) < 0
}

func sign(c int) int {
	switch {
	case c < 0:
		return -1
	case c > 0:
		return +1
	default:
		return 0
	}
}
