// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package memory

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// Allocator hands out slices and takes them back when their last owner is done.
type Allocator[T any] interface {
	Allocate(n int) []T
	Reclaim(data []T)
}

// HeapAllocator allocates with make and leaves reclamation to the garbage collector.
type HeapAllocator[T any] struct{}

func (HeapAllocator[T]) Allocate(n int) []T { return make([]T, n) }

func (HeapAllocator[T]) Reclaim([]T) {}

type callerOwned[T any] struct{}

func (callerOwned[T]) Allocate(int) []T { panic("memory: borrowed allocations cannot allocate") }

func (callerOwned[T]) Reclaim([]T) {}

// PoolAllocator recycles slices by length. Recycled slices are zeroed before reuse.
type PoolAllocator[T any] struct {
	mu    sync.Mutex
	pools map[int]*sync.Pool
	live  atomic.Int64
}

// NewPoolAllocator creates an empty pool allocator.
func NewPoolAllocator[T any]() *PoolAllocator[T] {
	return &PoolAllocator[T]{pools: make(map[int]*sync.Pool)}
}

func (a *PoolAllocator[T]) pool(n int) *sync.Pool {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.pools[n]
	if !ok {
		p = &sync.Pool{}
		a.pools[n] = p
	}
	return p
}

func (a *PoolAllocator[T]) Allocate(n int) []T {
	a.live.Add(int64(n))
	if v, ok := a.pool(n).Get().(*[]T); ok {
		s := *v
		clear(s)
		return s
	}
	return make([]T, n)
}

func (a *PoolAllocator[T]) Reclaim(data []T) {
	a.live.Add(-int64(len(data)))
	a.pool(len(data)).Put(&data)
}

// Live returns the number of elements currently handed out.
func (a *PoolAllocator[T]) Live() int64 {
	return a.live.Load()
}

// Tracking errors.
var (
	ErrLeak          = errors.New("allocations were never reclaimed")
	ErrDoubleReclaim = errors.New("allocation reclaimed more than once")
	ErrForeign       = errors.New("reclaimed a region this allocator never handed out")
)

// TrackingAllocator records every allocation and reclamation made through it.
// It stands in for a real allocator in tests of the ownership protocol.
type TrackingAllocator[T any] struct {
	mu          sync.Mutex
	inner       Allocator[T]
	live        map[*T]int
	reclaimed   map[*T]int
	allocations int
	reclaims    int
	doubles     int
	foreign     int
	empty       int
}

// NewTrackingAllocator wraps inner; a nil inner allocates from the heap.
func NewTrackingAllocator[T any](inner Allocator[T]) *TrackingAllocator[T] {
	if inner == nil {
		inner = HeapAllocator[T]{}
	}
	return &TrackingAllocator[T]{
		inner:     inner,
		live:      make(map[*T]int),
		reclaimed: make(map[*T]int),
	}
}

func (a *TrackingAllocator[T]) Allocate(n int) []T {
	s := a.inner.Allocate(n)

	a.mu.Lock()
	defer a.mu.Unlock()

	a.allocations++
	if len(s) == 0 {
		a.empty++
		return s
	}
	a.live[&s[0]] = len(s)
	return s
}

func (a *TrackingAllocator[T]) Reclaim(data []T) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.reclaims++
	if len(data) == 0 {
		a.empty--
		return
	}

	key := &data[0]
	if _, ok := a.live[key]; !ok {
		if a.reclaimed[key] > 0 {
			a.reclaimed[key]++
			a.doubles++
		} else {
			a.foreign++
		}
		return
	}

	delete(a.live, key)
	a.reclaimed[key]++
	a.inner.Reclaim(data)
}

// Allocations returns the number of Allocate calls.
func (a *TrackingAllocator[T]) Allocations() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocations
}

// Reclaims returns the number of Reclaim calls.
func (a *TrackingAllocator[T]) Reclaims() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reclaims
}

// Outstanding returns the number of allocations not yet reclaimed.
func (a *TrackingAllocator[T]) Outstanding() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live) + a.empty
}

// ReclaimCount returns how many times the region starting at data[0] was reclaimed.
func (a *TrackingAllocator[T]) ReclaimCount(data []T) int {
	if len(data) == 0 {
		return 0
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reclaimed[&data[0]]
}

// Check returns an error if any allocation leaked, was reclaimed twice, or did not
// come from this allocator.
func (a *TrackingAllocator[T]) Check() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var errs []error
	if n := len(a.live) + a.empty; n > 0 {
		errs = append(errs, fmt.Errorf("%w: %d outstanding", ErrLeak, n))
	}
	if a.doubles > 0 {
		errs = append(errs, fmt.Errorf("%w: %d times", ErrDoubleReclaim, a.doubles))
	}
	if a.foreign > 0 {
		errs = append(errs, fmt.Errorf("%w: %d regions", ErrForeign, a.foreign))
	}
	return errors.Join(errs...)
}
