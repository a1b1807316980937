// Copyright 2024 The Go Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// These benchmarks are based on the ones in github.com/google/btree.

package rbtree

import (
	"maps"
	"math/rand/v2"
	"slices"
	"sort"
	"testing"

	"github.com/jba/rbtree/rng"
)

const benchmarkTreeSize = 10_000

func BenchmarkInsert(b *testing.B) {
	b.StopTimer()
	insertP := rand.Perm(benchmarkTreeSize)
	b.StartTimer()
	i := 0
	for i < b.N {
		m := New[int, int]()
		for _, item := range insertP {
			m.Insert(item, item)
			i++
			if i >= b.N {
				return
			}
		}
	}
}

func BenchmarkInsertAllSorted(b *testing.B) {
	b.StopTimer()
	src := make(map[int]int, benchmarkTreeSize)
	for i := range benchmarkTreeSize {
		src[i] = i
	}
	keys := slices.Sorted(maps.Keys(src))
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		m := New[int, int]()
		m.InsertAll(func(yield func(int, int) bool) {
			for _, k := range keys {
				if !yield(k, src[k]) {
					return
				}
			}
		})
	}
}

func randTree(size int) (*Tree[int, int], []int) {
	insertP := rand.Perm(size)
	m := New[int, int]()
	for _, item := range insertP {
		m.Insert(item, item)
	}
	return m, insertP
}

func newTree(els []int) *Tree[int, int] {
	m := New[int, int]()
	for _, item := range els {
		m.Insert(item, item)
	}
	return m
}

// iterator setup
func BenchmarkSeek(b *testing.B) {
	b.StopTimer()
	size := 100_000
	m, _ := randTree(size)
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		for range m.Range(rng.From(i % size)) {
			break
		}
	}
}

func BenchmarkLowerBound(b *testing.B) {
	b.StopTimer()
	size := 100_000
	m, _ := randTree(size)
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		m.LowerBound(i % size)
	}
}

func BenchmarkEraseInsert(b *testing.B) {
	b.StopTimer()
	m, insertP := randTree(benchmarkTreeSize)
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		m.Erase(insertP[i%benchmarkTreeSize])
		m.Insert(insertP[i%benchmarkTreeSize], i)
	}
}

func BenchmarkErase(b *testing.B) {
	b.StopTimer()
	insertP := rand.Perm(benchmarkTreeSize)
	removeP := rand.Perm(benchmarkTreeSize)
	b.StartTimer()
	i := 0
	for i < b.N {
		b.StopTimer()
		m := newTree(insertP)
		b.StartTimer()
		for _, item := range removeP {
			m.Erase(item)
			i++
			if i >= b.N {
				return
			}
		}
	}
}

func BenchmarkGet(b *testing.B) {
	b.StopTimer()
	insertP := rand.Perm(benchmarkTreeSize)
	removeP := rand.Perm(benchmarkTreeSize)
	b.StartTimer()
	i := 0
	for i < b.N {
		b.StopTimer()
		m := newTree(insertP)
		b.StartTimer()
		for _, item := range removeP {
			m.Get(item)
			i++
			if i >= b.N {
				return
			}
		}
	}
}

func BenchmarkAscend(b *testing.B) {
	arr := rand.Perm(benchmarkTreeSize)
	m := newTree(arr)
	sort.Ints(arr)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		j := 0
		for k := range m.All() {
			if k != arr[j] {
				b.Fatalf("mismatch: expected: %v, got %v", arr[j], k)
			}
			j++
		}
	}
}

func BenchmarkIterate(b *testing.B) {
	arr := rand.Perm(benchmarkTreeSize)
	m := newTree(arr)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		n := 0
		for it := m.Begin(); !it.IsEnd(); it = it.Next() {
			n++
		}
		if n != benchmarkTreeSize {
			b.Fatalf("visited %d, want %d", n, benchmarkTreeSize)
		}
	}
}

func BenchmarkClone(b *testing.B) {
	m, _ := randTree(benchmarkTreeSize)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := m.Clone(); err != nil {
			b.Fatal(err)
		}
	}
}
