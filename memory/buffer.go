// Package memory implements the ownership protocol ciphertext views are built on.
//
// A Buffer is a handle on a reference-counted allocation. Every live handle holds one
// reference; the release that drops the last reference hands the allocation back to
// the Allocator it came from, exactly once. Ownership moves between callers and
// entities with Move, which transfers a handle without touching the count, so an
// owned container can be consumed by view creation and produced again by retrieval
// without copying or reconstructing anything.
//
// Misuse (a second release, or access through a released or revoked handle) panics.
//
// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause
package memory

import (
	"sync/atomic"
)

type block[T any] struct {
	data    []T
	alloc   Allocator[T]
	refs    atomic.Int64
	revoked atomic.Bool
}

// Buffer is one handle on a shared allocation.
type Buffer[T any] struct {
	blk  *block[T]
	dead atomic.Bool
}

// New allocates n elements from alloc. A nil alloc uses the heap.
func New[T any](alloc Allocator[T], n int) *Buffer[T] {
	if alloc == nil {
		alloc = HeapAllocator[T]{}
	}
	return From(alloc.Allocate(n), alloc)
}

// From takes ownership of data. The allocation is reclaimed through alloc when the
// last handle is released; a nil alloc leaves reclamation to the garbage collector.
func From[T any](data []T, alloc Allocator[T]) *Buffer[T] {
	if alloc == nil {
		alloc = HeapAllocator[T]{}
	}
	blk := &block[T]{data: data, alloc: alloc}
	blk.refs.Store(1)
	return &Buffer[T]{blk: blk}
}

func (b *Buffer[T]) live() *block[T] {
	if b.dead.Load() {
		panic("memory: use of released buffer handle")
	}
	if b.blk.revoked.Load() {
		panic("memory: use of buffer handle outside its borrow scope")
	}
	return b.blk
}

// Data returns the backing slice. The slice must not be retained past the handle.
func (b *Buffer[T]) Data() []T {
	return b.live().data
}

// Len returns the number of elements.
func (b *Buffer[T]) Len() int {
	return len(b.live().data)
}

// Refs returns the number of live handles on the allocation.
func (b *Buffer[T]) Refs() int {
	return int(b.live().refs.Load())
}

// Exclusive reports whether this handle is the only one on its allocation.
func (b *Buffer[T]) Exclusive() bool {
	return b.Refs() == 1
}

// Released reports whether this handle was released or moved.
func (b *Buffer[T]) Released() bool {
	return b.dead.Load() || b.blk.revoked.Load()
}

// Share returns a new handle on the same allocation.
func (b *Buffer[T]) Share() *Buffer[T] {
	blk := b.live()
	blk.refs.Add(1)
	return &Buffer[T]{blk: blk}
}

// Move transfers this handle's reference to a new handle. b is dead afterwards.
func (b *Buffer[T]) Move() *Buffer[T] {
	blk := b.live()
	if !b.dead.CompareAndSwap(false, true) {
		panic("memory: buffer handle moved concurrently")
	}
	return &Buffer[T]{blk: blk}
}

// Release drops this handle's reference, reclaiming the allocation if it was the last.
// Releasing a handle twice panics.
func (b *Buffer[T]) Release() {
	if b.blk.revoked.Load() {
		panic("memory: release of buffer handle outside its borrow scope")
	}
	if !b.dead.CompareAndSwap(false, true) {
		panic("memory: buffer handle released twice")
	}
	b.blk.drop()
}

func (blk *block[T]) drop() {
	switch refs := blk.refs.Add(-1); {
	case refs == 0:
		data := blk.data
		blk.data = nil
		blk.alloc.Reclaim(data)
	case refs < 0:
		panic("memory: allocation reclaimed twice")
	}
}
