// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package core

import (
	"fmt"

	"github.com/luxfi/lwe"
)

// CreatePlaintext encodes v. It cannot fail.
func (e *Engine[T]) CreatePlaintext(v T) (*Plaintext[T], error) {
	return e.CreatePlaintextUnchecked(v), nil
}

// CreatePlaintextUnchecked encodes v.
func (e *Engine[T]) CreatePlaintextUnchecked(v T) *Plaintext[T] {
	return &Plaintext[T]{value: v}
}

// CreatePlaintextVector copies values into a new plaintext vector.
func (e *Engine[T]) CreatePlaintextVector(values []T) (*PlaintextVector[T], error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("create plaintext vector: %w", lwe.ErrEmptyContainer)
	}
	return e.CreatePlaintextVectorUnchecked(values), nil
}

// CreatePlaintextVectorUnchecked requires a non-empty values.
func (e *Engine[T]) CreatePlaintextVectorUnchecked(values []T) *PlaintextVector[T] {
	pv := e.newPlaintextVector(len(values))
	copy(pv.Data(), values)
	return pv
}

func (e *Engine[T]) newPlaintextVector(n int) *PlaintextVector[T] {
	return &PlaintextVector[T]{
		held:  held[T]{buf: e.allocate(n)},
		count: lwe.PlaintextCount(n),
	}
}

// RetrievePlaintextVector copies the values of pv out. pv stays live.
func (e *Engine[T]) RetrievePlaintextVector(pv *PlaintextVector[T]) ([]T, error) {
	if consumed[T](pv) {
		return nil, fmt.Errorf("retrieve plaintext vector: %w", lwe.ErrEntityConsumed)
	}
	return e.RetrievePlaintextVectorUnchecked(pv), nil
}

// RetrievePlaintextVectorUnchecked requires a live pv.
func (e *Engine[T]) RetrievePlaintextVectorUnchecked(pv *PlaintextVector[T]) []T {
	return append([]T(nil), pv.Data()...)
}
