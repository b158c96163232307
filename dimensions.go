// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package lwe

// LweDimension is the number of mask elements of an LWE ciphertext.
type LweDimension int

// ToLweSize returns the ciphertext length, mask plus body.
func (d LweDimension) ToLweSize() LweSize { return LweSize(d + 1) }

// LweSize is the number of words of an LWE ciphertext.
type LweSize int

// ToLweDimension returns the mask length.
func (s LweSize) ToLweDimension() LweDimension { return LweDimension(s - 1) }

// GlweDimension is the number of mask polynomials of a GLWE ciphertext.
type GlweDimension int

// ToGlweSize returns the number of polynomials, mask plus body.
func (d GlweDimension) ToGlweSize() GlweSize { return GlweSize(d + 1) }

// GlweSize is the number of polynomials of a GLWE ciphertext.
type GlweSize int

// ToGlweDimension returns the number of mask polynomials.
func (s GlweSize) ToGlweDimension() GlweDimension { return GlweDimension(s - 1) }

// PolynomialSize is the degree bound N of Z_q[X]/(X^N+1).
type PolynomialSize int

// PlaintextCount is the number of plaintexts in a plaintext vector.
type PlaintextCount int

// CiphertextCount is the number of ciphertexts in a ciphertext vector.
type CiphertextCount int

// LweCiphertextIndex addresses a ciphertext within a vector.
type LweCiphertextIndex int

// DecompositionBaseLog is log2 of the gadget decomposition base.
type DecompositionBaseLog int

// DecompositionLevelCount is the number of levels of a gadget decomposition.
type DecompositionLevelCount int

// Variance is a noise variance expressed on the torus, i.e. relative to a modulus of 1.
type Variance float64
