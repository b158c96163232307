// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package core

import (
	"fmt"

	"github.com/luxfi/lwe"
	"github.com/luxfi/lwe/internal/backend"
)

// GenerateNewLweSecretKey samples a binary LWE key of dimension n.
func (e *Engine[T]) GenerateNewLweSecretKey(n lwe.LweDimension) (*LweSecretKey[T], error) {
	if n <= 0 {
		return nil, fmt.Errorf("generate lwe secret key: %w", lwe.ErrZeroDimension)
	}
	return e.GenerateNewLweSecretKeyUnchecked(n), nil
}

// GenerateNewLweSecretKeyUnchecked requires n > 0.
func (e *Engine[T]) GenerateNewLweSecretKeyUnchecked(n lwe.LweDimension) *LweSecretKey[T] {
	buf := e.allocate(int(n))
	backend.FillBinary(e.rng, buf.Data())
	return &LweSecretKey[T]{held: held[T]{buf: buf}, lweShape: lweShape{dim: n}}
}

// GenerateNewGlweSecretKey samples a binary GLWE key of k polynomials of size n.
func (e *Engine[T]) GenerateNewGlweSecretKey(k lwe.GlweDimension, n lwe.PolynomialSize) (*GlweSecretKey[T], error) {
	if k <= 0 || n <= 0 {
		return nil, fmt.Errorf("generate glwe secret key: %w", lwe.ErrZeroDimension)
	}
	return e.GenerateNewGlweSecretKeyUnchecked(k, n), nil
}

// GenerateNewGlweSecretKeyUnchecked requires k > 0 and n > 0.
func (e *Engine[T]) GenerateNewGlweSecretKeyUnchecked(k lwe.GlweDimension, n lwe.PolynomialSize) *GlweSecretKey[T] {
	buf := e.allocate(int(k) * int(n))
	backend.FillBinary(e.rng, buf.Data())
	return &GlweSecretKey[T]{held: held[T]{buf: buf}, glweShape: glweShape{k: k, n: n}}
}

// CreateLweSecretKey copies existing key material into a new LWE secret key.
func (e *Engine[T]) CreateLweSecretKey(values []T) (*LweSecretKey[T], error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("create lwe secret key: %w", lwe.ErrEmptyContainer)
	}
	return e.CreateLweSecretKeyUnchecked(values), nil
}

// CreateLweSecretKeyUnchecked requires a non-empty values of binary coefficients.
func (e *Engine[T]) CreateLweSecretKeyUnchecked(values []T) *LweSecretKey[T] {
	buf := e.allocate(len(values))
	copy(buf.Data(), values)
	return &LweSecretKey[T]{held: held[T]{buf: buf}, lweShape: lweShape{dim: lwe.LweDimension(len(values))}}
}

// CreateGlweSecretKey copies existing key material into a new GLWE secret key of
// polynomial size n.
func (e *Engine[T]) CreateGlweSecretKey(values []T, n lwe.PolynomialSize) (*GlweSecretKey[T], error) {
	switch {
	case len(values) == 0:
		return nil, fmt.Errorf("create glwe secret key: %w", lwe.ErrEmptyContainer)
	case n <= 0 || len(values)%int(n) != 0:
		return nil, fmt.Errorf("create glwe secret key: %w", lwe.ErrInvalidContainerSize)
	}
	return e.CreateGlweSecretKeyUnchecked(values, n), nil
}

// CreateGlweSecretKeyUnchecked requires len(values) to be a non-zero multiple of n.
func (e *Engine[T]) CreateGlweSecretKeyUnchecked(values []T, n lwe.PolynomialSize) *GlweSecretKey[T] {
	buf := e.allocate(len(values))
	copy(buf.Data(), values)
	return &GlweSecretKey[T]{
		held:      held[T]{buf: buf},
		glweShape: glweShape{k: lwe.GlweDimension(len(values) / int(n)), n: n},
	}
}

// GenerateNewLweKeyswitchKey derives a keyswitch key from in to out. It performs no
// validation: compatible keys are guaranteed by the signature, and
// level·baseLog must not exceed the word width.
func (e *Engine[T]) GenerateNewLweKeyswitchKey(
	in, out *LweSecretKey[T],
	level lwe.DecompositionLevelCount,
	baseLog lwe.DecompositionBaseLog,
	v lwe.Variance,
) (*LweKeyswitchKey[T], error) {
	return e.GenerateNewLweKeyswitchKeyUnchecked(in, out, level, baseLog, v), nil
}

// GenerateNewLweKeyswitchKeyUnchecked is identical to GenerateNewLweKeyswitchKey.
func (e *Engine[T]) GenerateNewLweKeyswitchKeyUnchecked(
	in, out *LweSecretKey[T],
	level lwe.DecompositionLevelCount,
	baseLog lwe.DecompositionBaseLog,
	v lwe.Variance,
) *LweKeyswitchKey[T] {
	nIn, nOut := int(in.LweDimension()), int(out.LweDimension())

	buf := e.allocate(nIn * int(level) * (nOut + 1))
	backend.FillKeyswitchKey(e.rng, buf.Data(), in.Data(), out.Data(), int(baseLog), int(level), v)

	return &LweKeyswitchKey[T]{
		held:    held[T]{buf: buf},
		in:      in.LweDimension(),
		out:     out.LweDimension(),
		baseLog: baseLog,
		level:   level,
	}
}
