// Package core implements every capability of package lwe over the native moduli
// 2^32 and 2^64 with binary secret keys.
//
// An Engine owns a CSPRNG and is not safe for concurrent use: run one engine per
// goroutine. Entities created by an engine are backed by memory.Buffer handles taken
// from the engine's allocator; Destroy hands them back.
//
// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause
package core

import (
	"fmt"
	"math"

	"github.com/luxfi/lwe"
	"github.com/luxfi/lwe/internal/csprng"
	"github.com/luxfi/lwe/memory"
)

// EngineConfig configures an Engine.
type EngineConfig[T lwe.Numeric] struct {
	// Seed makes the engine deterministic. Leave nil to seed from the operating system.
	Seed []byte
	// Allocator backs every entity the engine allocates. Nil allocates from the heap.
	Allocator memory.Allocator[T]
}

// Engine is the native-modulus backend.
type Engine[T lwe.Numeric] struct {
	rng   *csprng.Generator
	alloc memory.Allocator[T]
}

// NewEngine creates an engine from cfg.
func NewEngine[T lwe.Numeric](cfg EngineConfig[T]) (*Engine[T], error) {
	var (
		rng *csprng.Generator
		err error
	)
	if cfg.Seed != nil {
		rng, err = csprng.New(cfg.Seed)
	} else {
		rng, err = csprng.NewRandom()
	}
	if err != nil {
		return nil, fmt.Errorf("seed engine: %w", err)
	}

	alloc := cfg.Allocator
	if alloc == nil {
		alloc = memory.HeapAllocator[T]{}
	}

	return &Engine[T]{rng: rng, alloc: alloc}, nil
}

// Fork returns an engine sharing the allocator with an independent randomness stream.
func (e *Engine[T]) Fork(label string) (*Engine[T], error) {
	rng, err := e.rng.Fork(label)
	if err != nil {
		return nil, fmt.Errorf("fork engine: %w", err)
	}
	return &Engine[T]{rng: rng, alloc: e.alloc}, nil
}

func (e *Engine[T]) allocate(n int) *memory.Buffer[T] {
	return memory.New(e.alloc, n)
}

func consumed[T lwe.Numeric](entities ...owner[T]) bool {
	for _, o := range entities {
		if o.buffer().Released() {
			return true
		}
	}
	return false
}

func checkVariance(v lwe.Variance) error {
	if v < 0 || math.IsNaN(float64(v)) || v > 1 {
		return lwe.ErrInvalidVariance
	}
	return nil
}
