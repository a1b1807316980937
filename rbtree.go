// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rbtree implements an ordered container of unique keys
// backed by a red-black tree.
//
// A [Tree] supports insertion, lookup, deletion and bound queries in
// O(log n) time, and in-order traversal in both directions through
// [Iterator] values that step along parent links. The API follows the
// tree underneath C++'s std::map: Insert reports whether the key was
// new, LowerBound and UpperBound return positions, and End is a real
// position one past the last entry.
//
// A Tree is not safe for concurrent use.
package rbtree

import (
	"cmp"
	"fmt"
	"iter"
	"math"
	"unsafe"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'rbtree'
func tracer() tracing.Trace {
	return tracing.Select("rbtree")
}

// A Tree is a set of key-value entries ordered by a comparison function,
// with no two keys comparing equal.
// The zero value of a Tree is not meaningful since it has no comparison
// function. Use [New], [NewFunc] or [NewLess] to create a Tree.
type Tree[K, V any] struct {
	end   *node[K, V] // sentinel; end.left is the root
	size  int
	cmp   func(K, K) int
	alloc Allocator
	stats Stats
	mods  uint64 // bumped by every change to the set of nodes
}

// Stats counts the structural work a tree has done.
type Stats struct {
	Rotations int // single rotations performed while rebalancing
}

// An Option configures a Tree.
type Option func(*options)

type options struct {
	alloc Allocator
}

// WithAllocator makes the tree reserve its nodes from a.
// By default a tree may grow without limit.
func WithAllocator(a Allocator) Option {
	return func(o *options) { o.alloc = a }
}

// New returns an empty Tree[K, V] ordered according to K's standard Go ordering.
func New[K cmp.Ordered, V any](opts ...Option) *Tree[K, V] {
	return NewFunc[K, V](cmp.Compare[K], opts...)
}

// NewFunc returns an empty Tree[K, V] ordered according to cmp,
// which must return a negative number when a < b, a positive number
// when a > b and zero when a and b are equivalent.
func NewFunc[K, V any](cmp func(K, K) int, opts ...Option) *Tree[K, V] {
	o := options{alloc: heapAllocator{}}
	for _, opt := range opts {
		opt(&o)
	}
	return &Tree[K, V]{
		end:   newSentinel[K, V](),
		cmp:   cmp,
		alloc: o.alloc,
	}
}

// NewLess returns an empty Tree[K, V] ordered according to less,
// a strict weak ordering. Keys a and b are equivalent when neither
// less(a, b) nor less(b, a).
func NewLess[K, V any](less func(a, b K) bool, opts ...Option) *Tree[K, V] {
	return NewFunc[K, V](func(a, b K) int {
		switch {
		case less(a, b):
			return -1
		case less(b, a):
			return 1
		default:
			return 0
		}
	}, opts...)
}

func (t *Tree[K, V]) root() *node[K, V] { return t.end.left }

func (t *Tree[K, V]) iter(x *node[K, V]) Iterator[K, V] {
	return Iterator[K, V]{x, t.end}
}

// find looks up the key k in the tree.
// It returns the position where k is or would be attached, and its parent.
// *pos is non-nil if k is present, nil if k is missing.
// If the tree is empty, pos is the root slot and parent is the sentinel.
func (t *Tree[K, V]) find(k K) (pos **node[K, V], parent *node[K, V]) {
	pos, parent = &t.end.left, t.end
	for x := *pos; x != nil; x = *pos {
		c := t.cmp(k, x.key)
		if c == 0 {
			break
		}
		parent = x
		if c < 0 {
			pos = &x.left
		} else {
			pos = &x.right
		}
	}
	return pos, parent
}

// Len returns the number of entries in t.
func (t *Tree[K, V]) Len() int { return t.size }

// Empty reports whether t has no entries.
func (t *Tree[K, V]) Empty() bool { return t.size == 0 }

// MaxSize returns the largest number of entries t could hold:
// the allocator's limit or the number of nodes that fit in the
// address space, whichever is smaller.
func (t *Tree[K, V]) MaxSize() int {
	return min(t.alloc.MaxSize(), math.MaxInt/int(unsafe.Sizeof(node[K, V]{})))
}

// KeyCompare returns the comparison function that orders t.
func (t *Tree[K, V]) KeyCompare() func(K, K) int { return t.cmp }

// Stats returns counters describing the work t has done.
func (t *Tree[K, V]) Stats() Stats { return t.stats }

// Insert adds an entry for key with value val.
// If an entry with an equivalent key is present, Insert leaves the tree
// unchanged and returns an iterator to that entry and false.
// Otherwise it returns an iterator to the new entry and true.
// The error is non-nil only if the allocator refused the new node;
// the tree is then unchanged.
func (t *Tree[K, V]) Insert(key K, val V) (Iterator[K, V], bool, error) {
	pos, parent := t.find(key)
	if x := *pos; x != nil {
		return t.iter(x), false, nil
	}
	x, err := t.attach(pos, parent, key, val)
	if err != nil {
		return t.End(), false, err
	}
	return t.iter(x), true, nil
}

// attach links a new red node for key at *pos, below parent,
// and rebalances.
func (t *Tree[K, V]) attach(pos **node[K, V], parent *node[K, V], key K, val V) (*node[K, V], error) {
	if err := t.alloc.Reserve(1); err != nil {
		tracer().Debugf("rbtree: insert refused at size %d: %v", t.size, err)
		return nil, fmt.Errorf("insert: %w", err)
	}
	x := &node[K, V]{parent: parent, key: key, val: val, color: red}
	*pos = x
	t.size++
	t.mods++
	t.insertFixup(x)
	return x, nil
}

// InsertAll inserts the entries of seq in order.
// Like [Tree.Insert], it keeps the first value seen for each key.
// Keys that arrive in increasing order are appended at the right edge
// of the tree without a search.
// InsertAll stops at the first allocation failure; entries inserted
// before the failure remain. It returns the number of entries added.
// seq may modify t between entries.
func (t *Tree[K, V]) InsertAll(seq iter.Seq2[K, V]) (int, error) {
	// hi is the rightmost node of the tree anchored at end,
	// as of modification count mods.
	var (
		hi   *node[K, V]
		end  *node[K, V]
		mods uint64
	)
	n := 0
	for k, v := range seq {
		if t.end != end || t.mods != mods {
			// First pass, or seq changed the tree.
			end, mods, hi = t.end, t.mods, nil
			if r := t.root(); r != nil {
				hi = r.maxNode()
			}
		}
		var x *node[K, V]
		var err error
		if hi != nil && t.cmp(k, hi.key) > 0 {
			x, err = t.attach(&hi.right, hi, k, v)
			if err == nil {
				hi = x
			}
		} else {
			pos, parent := t.find(k)
			if *pos != nil {
				continue
			}
			x, err = t.attach(pos, parent, k, v)
			if err == nil && hi == nil {
				hi = x
			}
		}
		if err != nil {
			return n, err
		}
		mods = t.mods
		n++
	}
	return n, nil
}

// Get returns the value of the entry for key and reports whether it exists.
func (t *Tree[K, V]) Get(key K) (V, bool) {
	pos, _ := t.find(key)
	if x := *pos; x != nil {
		return x.val, true
	}
	var zero V
	return zero, false
}

// Find returns an iterator to the entry for key,
// or t.End() if there is none.
func (t *Tree[K, V]) Find(key K) Iterator[K, V] {
	pos, _ := t.find(key)
	if x := *pos; x != nil {
		return t.iter(x)
	}
	return t.End()
}

// Count returns the number of entries for key: 0 or 1.
func (t *Tree[K, V]) Count(key K) int {
	if pos, _ := t.find(key); *pos != nil {
		return 1
	}
	return 0
}

// lowerBound returns the first node whose key is not less than key,
// or the sentinel.
func (t *Tree[K, V]) lowerBound(key K) *node[K, V] {
	res := t.end
	for x := t.root(); x != nil; {
		if t.cmp(x.key, key) >= 0 {
			res = x
			x = x.left
		} else {
			x = x.right
		}
	}
	return res
}

// upperBound returns the first node whose key is greater than key,
// or the sentinel.
func (t *Tree[K, V]) upperBound(key K) *node[K, V] {
	res := t.end
	for x := t.root(); x != nil; {
		if t.cmp(x.key, key) > 0 {
			res = x
			x = x.left
		} else {
			x = x.right
		}
	}
	return res
}

// LowerBound returns an iterator to the first entry whose key is not
// less than key, or t.End().
func (t *Tree[K, V]) LowerBound(key K) Iterator[K, V] {
	return t.iter(t.lowerBound(key))
}

// UpperBound returns an iterator to the first entry whose key is
// greater than key, or t.End().
func (t *Tree[K, V]) UpperBound(key K) Iterator[K, V] {
	return t.iter(t.upperBound(key))
}

// EqualRange returns the range [lo, hi) of entries whose keys are
// equivalent to key. Since keys are unique it holds at most one entry.
func (t *Tree[K, V]) EqualRange(key K) (lo, hi Iterator[K, V]) {
	return t.LowerBound(key), t.UpperBound(key)
}

// Begin returns an iterator to the entry with the smallest key,
// or t.End() if t is empty.
func (t *Tree[K, V]) Begin() Iterator[K, V] {
	return t.iter(t.end.minNode())
}

// End returns the position one past the last entry.
func (t *Tree[K, V]) End() Iterator[K, V] {
	return t.iter(t.end)
}

// RBegin returns a reverse iterator to the entry with the largest key,
// or t.REnd() if t is empty.
func (t *Tree[K, V]) RBegin() ReverseIterator[K, V] {
	return ReverseIterator[K, V]{t.End().Prev()}
}

// REnd returns the reverse position one before the first entry.
func (t *Tree[K, V]) REnd() ReverseIterator[K, V] {
	return ReverseIterator[K, V]{t.iter(nil)}
}

// Min returns the smallest key in t and true.
// If t is empty, the second return value is false.
func (t *Tree[K, V]) Min() (K, bool) {
	if x := t.root(); x != nil {
		return x.minNode().key, true
	}
	var z K
	return z, false
}

// Max returns the largest key in t and true.
// If t is empty, the second return value is false.
func (t *Tree[K, V]) Max() (K, bool) {
	if x := t.root(); x != nil {
		return x.maxNode().key, true
	}
	var z K
	return z, false
}

// Erase removes the entry for key, if any,
// and returns the number of entries removed.
func (t *Tree[K, V]) Erase(key K) int {
	pos, _ := t.find(key)
	x := *pos
	if x == nil {
		return 0
	}
	t.remove(x)
	return 1
}

// EraseAt removes the entry at it and returns an iterator to the
// entry that followed it. It panics if it is not [Iterator.Valid].
func (t *Tree[K, V]) EraseAt(it Iterator[K, V]) Iterator[K, V] {
	it.mustDeref()
	assert(it.end == t.end)
	next := it.n.next()
	t.remove(it.n)
	return t.iter(next)
}

// EraseRange removes the entries in [first, last)
// and returns the number removed.
// last must be reachable from first.
func (t *Tree[K, V]) EraseRange(first, last Iterator[K, V]) int {
	assert(first.end == t.end && last.end == t.end)
	n := 0
	for first != last {
		first = t.EraseAt(first)
		n++
	}
	return n
}

func (t *Tree[K, V]) remove(x *node[K, V]) {
	t.erase(x)
	t.size--
	t.mods++
	t.alloc.Release(1)
}

// Clear removes all entries from t.
func (t *Tree[K, V]) Clear() {
	if t.size > 0 {
		tracer().Debugf("rbtree: clearing %d entries", t.size)
	}
	markDead(t.root())
	t.end.left = nil
	t.alloc.Release(t.size)
	t.size = 0
	t.mods++
}

// Swap exchanges the contents of t and other, including their
// comparison functions and allocators. No entries are copied.
// Iterators into either tree remain valid and follow their entries.
func (t *Tree[K, V]) Swap(other *Tree[K, V]) {
	tracer().Debugf("rbtree: swapping trees of size %d and %d", t.size, other.size)
	*t, *other = *other, *t
}

// Clone returns a copy of t with the same entries, shape and colors,
// the same comparison function and the same allocator.
func (t *Tree[K, V]) Clone() (*Tree[K, V], error) {
	if err := t.alloc.Reserve(t.size); err != nil {
		return nil, fmt.Errorf("clone: %w", err)
	}
	t2 := &Tree[K, V]{
		end:   newSentinel[K, V](),
		size:  t.size,
		cmp:   t.cmp,
		alloc: t.alloc,
	}
	t2.end.left = t.root().clone(t2.end)
	return t2, nil
}

// Assign replaces the contents of t with a copy of src.
// t's previous entries are released first and t takes src's comparison
// function; t keeps its own allocator. If the allocator cannot provide
// the copy, t is left unchanged.
func (t *Tree[K, V]) Assign(src *Tree[K, V]) error {
	if t == src {
		return nil
	}
	t.alloc.Release(t.size)
	if err := t.alloc.Reserve(src.size); err != nil {
		// The nodes were just released, so taking them back cannot fail.
		assert(t.alloc.Reserve(t.size) == nil)
		return fmt.Errorf("assign: %w", err)
	}
	tracer().Debugf("rbtree: assigning %d entries over %d", src.size, t.size)
	markDead(t.root())
	t.end.left = src.root().clone(t.end)
	t.size = src.size
	t.cmp = src.cmp
	t.mods++
	return nil
}

// All returns an iterator over the entries of t from smallest to largest key.
// If t is modified during the iteration, some keys may not be visited.
// No keys will be visited multiple times.
func (t *Tree[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for x := t.end.minNode(); x != t.end && yield(x.key, x.val); {
			x = t.after(x)
		}
	}
}

// Backward returns an iterator over the entries of t from largest to smallest key.
// If t is modified during the iteration, some keys may not be visited.
// No keys will be visited multiple times.
func (t *Tree[K, V]) Backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for x := t.end.prev(); x != nil && yield(x.key, x.val); {
			x = t.before(x)
		}
	}
}

// after returns the successor of x in t,
// even if x has been removed from t.
func (t *Tree[K, V]) after(x *node[K, V]) *node[K, V] {
	if x.dead {
		// Find where x.key would be in the current tree.
		return t.upperBound(x.key)
	}
	return x.next()
}

// before returns the predecessor of x in t, or nil,
// even if x has been removed from t.
func (t *Tree[K, V]) before(x *node[K, V]) *node[K, V] {
	if x.dead {
		return t.lowerBound(x.key).prev()
	}
	return x.prev()
}

func assert(b bool) {
	if !b {
		panic("rbtree: assertion failed")
	}
}
