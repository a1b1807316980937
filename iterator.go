// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rbtree

// An Iterator is a position in a [Tree]: an entry, the end position
// one past the last entry, or the position one before the first entry.
//
// Iterators are small values. Two iterators are equal, with == or
// [Iterator.Equal], when they denote the same position of the same tree.
//
// Iterator invalidation follows C++'s std::map: erasing an entry
// invalidates only the iterators positioned at that entry. After
// [Tree.Swap], iterators stay valid and refer to the tree that now
// holds their entries.
type Iterator[K, V any] struct {
	n   *node[K, V] // nil before the first entry
	end *node[K, V] // the tree's sentinel
}

// Valid reports whether it is positioned at an entry.
func (it Iterator[K, V]) Valid() bool {
	return it.n != nil && it.n != it.end
}

// IsEnd reports whether it is positioned one past the last entry.
func (it Iterator[K, V]) IsEnd() bool {
	return it.n != nil && it.n == it.end
}

// IsBeforeBegin reports whether it is positioned one before the first entry.
func (it Iterator[K, V]) IsBeforeBegin() bool {
	return it.n == nil && it.end != nil
}

// Equal reports whether it and other denote the same position.
func (it Iterator[K, V]) Equal(other Iterator[K, V]) bool {
	return it == other
}

// Key returns the key of the entry at it.
// It panics if it is not [Iterator.Valid].
func (it Iterator[K, V]) Key() K {
	it.mustDeref()
	return it.n.key
}

// Value returns the value of the entry at it.
// It panics if it is not [Iterator.Valid].
func (it Iterator[K, V]) Value() V {
	it.mustDeref()
	return it.n.val
}

// SetValue replaces the value of the entry at it.
// The key cannot be changed.
// It panics if it is not [Iterator.Valid].
func (it Iterator[K, V]) SetValue(v V) {
	it.mustDeref()
	it.n.val = v
}

func (it Iterator[K, V]) mustDeref() {
	if !it.Valid() {
		panic("rbtree: dereference of end iterator")
	}
	if it.n.dead {
		panic("rbtree: use of erased iterator")
	}
}

// Next returns the position after it.
// Next of the position before the first entry is the first entry,
// or the end position if the tree is empty.
// It panics if it is the end position.
func (it Iterator[K, V]) Next() Iterator[K, V] {
	switch {
	case it.n == nil:
		return Iterator[K, V]{it.end.minNode(), it.end}
	case it.n == it.end:
		panic("rbtree: Next of end iterator")
	case it.n.dead:
		panic("rbtree: use of erased iterator")
	}
	return Iterator[K, V]{it.n.next(), it.end}
}

// Prev returns the position before it.
// Prev of the end position is the last entry,
// and Prev of the first entry is the position before the first entry.
// It panics if it is the position before the first entry.
func (it Iterator[K, V]) Prev() Iterator[K, V] {
	switch {
	case it.n == nil:
		panic("rbtree: Prev of before-begin iterator")
	case it.n.dead:
		panic("rbtree: use of erased iterator")
	}
	return Iterator[K, V]{it.n.prev(), it.end}
}

// A ReverseIterator walks a [Tree] from its last entry to its first.
// Its Next moves toward smaller keys.
type ReverseIterator[K, V any] struct {
	it Iterator[K, V]
}

// Base returns the forward iterator at the same entry.
// The Base of [Tree.REnd] is the position before the first entry.
func (r ReverseIterator[K, V]) Base() Iterator[K, V] { return r.it }

// Valid reports whether r is positioned at an entry.
func (r ReverseIterator[K, V]) Valid() bool { return r.it.Valid() }

// Key returns the key of the entry at r.
func (r ReverseIterator[K, V]) Key() K { return r.it.Key() }

// Value returns the value of the entry at r.
func (r ReverseIterator[K, V]) Value() V { return r.it.Value() }

// Next returns the position before r in key order.
func (r ReverseIterator[K, V]) Next() ReverseIterator[K, V] {
	return ReverseIterator[K, V]{r.it.Prev()}
}

// Prev returns the position after r in key order.
func (r ReverseIterator[K, V]) Prev() ReverseIterator[K, V] {
	return ReverseIterator[K, V]{r.it.Next()}
}

// Equal reports whether r and other denote the same position.
func (r ReverseIterator[K, V]) Equal(other ReverseIterator[K, V]) bool {
	return r == other
}
