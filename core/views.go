// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package core

import (
	"fmt"

	"github.com/luxfi/lwe"
	"github.com/luxfi/lwe/memory"
)

// Creation moves the caller's handle into the view: the caller's handle is dead
// afterwards and the memory is not copied. Callers that want to keep reading the
// memory Share the buffer first. Retrieval moves the handle back out.

// CreateLweCiphertextView wraps buf into a shared LWE view of dimension len(buf)-1.
func (e *Engine[T]) CreateLweCiphertextView(buf *memory.Buffer[T]) (*LweCiphertextView[T], error) {
	if err := checkContainer(buf); err != nil {
		return nil, fmt.Errorf("create lwe ciphertext view: %w", err)
	}
	return e.CreateLweCiphertextViewUnchecked(buf), nil
}

// CreateLweCiphertextViewUnchecked requires a live, non-empty buf.
func (e *Engine[T]) CreateLweCiphertextViewUnchecked(buf *memory.Buffer[T]) *LweCiphertextView[T] {
	b := buf.Move()
	return &LweCiphertextView[T]{
		held:     held[T]{buf: b},
		lweShape: lweShape{dim: lwe.LweSize(b.Len()).ToLweDimension()},
	}
}

// CreateLweCiphertextMutView wraps an exclusive buf into a mutable LWE view.
func (e *Engine[T]) CreateLweCiphertextMutView(buf *memory.Buffer[T]) (*LweCiphertextMutView[T], error) {
	if err := checkContainer(buf); err != nil {
		return nil, fmt.Errorf("create lwe ciphertext mut view: %w", err)
	}
	if !buf.Exclusive() {
		return nil, fmt.Errorf("create lwe ciphertext mut view: %w", lwe.ErrBufferAliased)
	}
	return e.CreateLweCiphertextMutViewUnchecked(buf), nil
}

// CreateLweCiphertextMutViewUnchecked requires a live, non-empty, exclusive buf.
func (e *Engine[T]) CreateLweCiphertextMutViewUnchecked(buf *memory.Buffer[T]) *LweCiphertextMutView[T] {
	b := buf.Move()
	return &LweCiphertextMutView[T]{
		held:     held[T]{buf: b},
		lweShape: lweShape{dim: lwe.LweSize(b.Len()).ToLweDimension()},
	}
}

func checkContainer[T lwe.Numeric](buf *memory.Buffer[T]) error {
	switch {
	case buf.Released():
		return lwe.ErrEntityConsumed
	case buf.Len() == 0:
		return lwe.ErrEmptyContainer
	}
	return nil
}

func checkGlweContainer[T lwe.Numeric](buf *memory.Buffer[T], n lwe.PolynomialSize) error {
	if err := checkContainer(buf); err != nil {
		return err
	}
	if n <= 0 || buf.Len()%int(n) != 0 {
		return lwe.ErrInvalidContainerSize
	}
	return nil
}

// CreateGlweCiphertextView wraps buf into a shared GLWE view of polynomial size n.
func (e *Engine[T]) CreateGlweCiphertextView(buf *memory.Buffer[T], n lwe.PolynomialSize) (*GlweCiphertextView[T], error) {
	if err := checkGlweContainer(buf, n); err != nil {
		return nil, fmt.Errorf("create glwe ciphertext view: %w", err)
	}
	return e.CreateGlweCiphertextViewUnchecked(buf, n), nil
}

// CreateGlweCiphertextViewUnchecked requires a live, non-empty buf whose length is a multiple of n.
func (e *Engine[T]) CreateGlweCiphertextViewUnchecked(buf *memory.Buffer[T], n lwe.PolynomialSize) *GlweCiphertextView[T] {
	b := buf.Move()
	return &GlweCiphertextView[T]{
		held:      held[T]{buf: b},
		glweShape: glweShapeOf(b.Len(), n),
	}
}

// CreateGlweCiphertextMutView wraps an exclusive buf into a mutable GLWE view.
func (e *Engine[T]) CreateGlweCiphertextMutView(buf *memory.Buffer[T], n lwe.PolynomialSize) (*GlweCiphertextMutView[T], error) {
	if err := checkGlweContainer(buf, n); err != nil {
		return nil, fmt.Errorf("create glwe ciphertext mut view: %w", err)
	}
	if !buf.Exclusive() {
		return nil, fmt.Errorf("create glwe ciphertext mut view: %w", lwe.ErrBufferAliased)
	}
	return e.CreateGlweCiphertextMutViewUnchecked(buf, n), nil
}

// CreateGlweCiphertextMutViewUnchecked requires a live, exclusive buf whose length is a
// non-zero multiple of n.
func (e *Engine[T]) CreateGlweCiphertextMutViewUnchecked(buf *memory.Buffer[T], n lwe.PolynomialSize) *GlweCiphertextMutView[T] {
	b := buf.Move()
	return &GlweCiphertextMutView[T]{
		held:      held[T]{buf: b},
		glweShape: glweShapeOf(b.Len(), n),
	}
}

func glweShapeOf(length int, n lwe.PolynomialSize) glweShape {
	return glweShape{
		k: lwe.GlweSize(length / int(n)).ToGlweDimension(),
		n: n,
	}
}

// RetrieveLweCiphertextView consumes v and returns its buffer handle.
func (e *Engine[T]) RetrieveLweCiphertextView(v *LweCiphertextView[T]) (*memory.Buffer[T], error) {
	if consumed[T](v) {
		return nil, fmt.Errorf("retrieve lwe ciphertext view: %w", lwe.ErrEntityConsumed)
	}
	return e.RetrieveLweCiphertextViewUnchecked(v), nil
}

// RetrieveLweCiphertextViewUnchecked requires a live view.
func (e *Engine[T]) RetrieveLweCiphertextViewUnchecked(v *LweCiphertextView[T]) *memory.Buffer[T] {
	return v.buf.Move()
}

// RetrieveLweCiphertextMutView consumes v and returns its buffer handle.
func (e *Engine[T]) RetrieveLweCiphertextMutView(v *LweCiphertextMutView[T]) (*memory.Buffer[T], error) {
	if consumed[T](v) {
		return nil, fmt.Errorf("retrieve lwe ciphertext mut view: %w", lwe.ErrEntityConsumed)
	}
	return e.RetrieveLweCiphertextMutViewUnchecked(v), nil
}

// RetrieveLweCiphertextMutViewUnchecked requires a live view.
func (e *Engine[T]) RetrieveLweCiphertextMutViewUnchecked(v *LweCiphertextMutView[T]) *memory.Buffer[T] {
	return v.buf.Move()
}

// RetrieveGlweCiphertextView consumes v and returns its buffer handle.
func (e *Engine[T]) RetrieveGlweCiphertextView(v *GlweCiphertextView[T]) (*memory.Buffer[T], error) {
	if consumed[T](v) {
		return nil, fmt.Errorf("retrieve glwe ciphertext view: %w", lwe.ErrEntityConsumed)
	}
	return e.RetrieveGlweCiphertextViewUnchecked(v), nil
}

// RetrieveGlweCiphertextViewUnchecked requires a live view.
func (e *Engine[T]) RetrieveGlweCiphertextViewUnchecked(v *GlweCiphertextView[T]) *memory.Buffer[T] {
	return v.buf.Move()
}

// RetrieveGlweCiphertextMutView consumes v and returns its buffer handle.
func (e *Engine[T]) RetrieveGlweCiphertextMutView(v *GlweCiphertextMutView[T]) (*memory.Buffer[T], error) {
	if consumed[T](v) {
		return nil, fmt.Errorf("retrieve glwe ciphertext mut view: %w", lwe.ErrEntityConsumed)
	}
	return e.RetrieveGlweCiphertextMutViewUnchecked(v), nil
}

// RetrieveGlweCiphertextMutViewUnchecked requires a live view.
func (e *Engine[T]) RetrieveGlweCiphertextMutViewUnchecked(v *GlweCiphertextMutView[T]) *memory.Buffer[T] {
	return v.buf.Move()
}
