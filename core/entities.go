// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package core

import (
	"github.com/luxfi/lwe"
	"github.com/luxfi/lwe/memory"
)

// owner is implemented by every entity backed by a buffer handle.
type owner[T lwe.Numeric] interface {
	buffer() *memory.Buffer[T]
}

type held[T lwe.Numeric] struct {
	buf *memory.Buffer[T]
}

func (h held[T]) buffer() *memory.Buffer[T] { return h.buf }

// KeyFlavor implements lwe.Entity.
func (held[T]) KeyFlavor() lwe.KeyFlavor { return lwe.BinaryFlavor[T]() }

// Data returns the backing words. It panics once the entity was retrieved or destroyed.
func (h held[T]) Data() []T { return h.buf.Data() }

type lweShape struct {
	dim lwe.LweDimension
}

// LweDimension implements lwe.LweCiphertextEntity.
func (s lweShape) LweDimension() lwe.LweDimension { return s.dim }

type glweShape struct {
	k lwe.GlweDimension
	n lwe.PolynomialSize
}

// GlweDimension implements lwe.GlweCiphertextEntity.
func (s glweShape) GlweDimension() lwe.GlweDimension { return s.k }

// PolynomialSize implements lwe.GlweCiphertextEntity.
func (s glweShape) PolynomialSize() lwe.PolynomialSize { return s.n }

type counted struct {
	count lwe.CiphertextCount
}

// CiphertextCount implements the vector entity interfaces.
func (c counted) CiphertextCount() lwe.CiphertextCount { return c.count }

// LweSecretKey is a binary LWE secret key.
type LweSecretKey[T lwe.Numeric] struct {
	held[T]
	lweShape
}

// GlweSecretKey is a binary GLWE secret key of k polynomials of size N.
type GlweSecretKey[T lwe.Numeric] struct {
	held[T]
	glweShape
}

// LweCiphertext is an LWE ciphertext owning its memory.
type LweCiphertext[T lwe.Numeric] struct {
	held[T]
	lweShape
}

func (*LweCiphertext[T]) writable() {}

// LweCiphertextView is an LWE ciphertext aliasing a shared buffer.
type LweCiphertextView[T lwe.Numeric] struct {
	held[T]
	lweShape
}

// LweCiphertextMutView is an LWE ciphertext aliasing an exclusive buffer.
type LweCiphertextMutView[T lwe.Numeric] struct {
	held[T]
	lweShape
}

func (*LweCiphertextMutView[T]) writable() {}

// LweCiphertextVector is a run of LWE ciphertexts of one dimension.
type LweCiphertextVector[T lwe.Numeric] struct {
	held[T]
	lweShape
	counted
}

// GlweCiphertext is a GLWE ciphertext owning its memory.
type GlweCiphertext[T lwe.Numeric] struct {
	held[T]
	glweShape
}

func (*GlweCiphertext[T]) writable() {}

// GlweCiphertextView is a GLWE ciphertext aliasing a shared buffer.
type GlweCiphertextView[T lwe.Numeric] struct {
	held[T]
	glweShape
}

// GlweCiphertextMutView is a GLWE ciphertext aliasing an exclusive buffer.
type GlweCiphertextMutView[T lwe.Numeric] struct {
	held[T]
	glweShape
}

func (*GlweCiphertextMutView[T]) writable() {}

// GlweCiphertextVector is a run of GLWE ciphertexts of one shape.
type GlweCiphertextVector[T lwe.Numeric] struct {
	held[T]
	glweShape
	counted
}

// Plaintext is a single encoded message.
type Plaintext[T lwe.Numeric] struct {
	value T
}

// KeyFlavor implements lwe.Entity.
func (*Plaintext[T]) KeyFlavor() lwe.KeyFlavor { return lwe.BinaryFlavor[T]() }

// Value returns the encoded message.
func (p *Plaintext[T]) Value() T { return p.value }

// PlaintextVector is a vector of encoded messages.
type PlaintextVector[T lwe.Numeric] struct {
	held[T]
	count lwe.PlaintextCount
}

// PlaintextCount implements lwe.PlaintextVectorEntity.
func (p *PlaintextVector[T]) PlaintextCount() lwe.PlaintextCount { return p.count }

// LweKeyswitchKey holds, for each input key coefficient and each level, an LWE
// encryption under the output key.
type LweKeyswitchKey[T lwe.Numeric] struct {
	held[T]
	in      lwe.LweDimension
	out     lwe.LweDimension
	baseLog lwe.DecompositionBaseLog
	level   lwe.DecompositionLevelCount
}

func (k *LweKeyswitchKey[T]) InputLweDimension() lwe.LweDimension  { return k.in }
func (k *LweKeyswitchKey[T]) OutputLweDimension() lwe.LweDimension { return k.out }

func (k *LweKeyswitchKey[T]) DecompositionBaseLog() lwe.DecompositionBaseLog { return k.baseLog }

func (k *LweKeyswitchKey[T]) DecompositionLevelCount() lwe.DecompositionLevelCount {
	return k.level
}

// LweCiphertextReader is any LWE ciphertext an engine can read from.
type LweCiphertextReader[T lwe.Numeric] interface {
	lwe.LweCiphertextEntity
	owner[T]
	Data() []T
}

// LweCiphertextWriter is an LWE ciphertext an engine can overwrite: an owned
// ciphertext or a mutable view.
type LweCiphertextWriter[T lwe.Numeric] interface {
	LweCiphertextReader[T]
	writable()
}

// GlweCiphertextReader is any GLWE ciphertext an engine can read from.
type GlweCiphertextReader[T lwe.Numeric] interface {
	lwe.GlweCiphertextEntity
	owner[T]
	Data() []T
}

// GlweCiphertextWriter is a GLWE ciphertext an engine can overwrite.
type GlweCiphertextWriter[T lwe.Numeric] interface {
	GlweCiphertextReader[T]
	writable()
}
