// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package core

import (
	"fmt"

	"github.com/luxfi/lwe"
	"github.com/luxfi/lwe/internal/backend"
)

// EncryptGlweCiphertext encrypts the N plaintexts of pv under sk.
func (e *Engine[T]) EncryptGlweCiphertext(sk *GlweSecretKey[T], pv *PlaintextVector[T], v lwe.Variance) (*GlweCiphertext[T], error) {
	switch {
	case consumed[T](sk, pv):
		return nil, fmt.Errorf("encrypt glwe ciphertext: %w", lwe.ErrEntityConsumed)
	case int(pv.PlaintextCount()) != int(sk.PolynomialSize()):
		return nil, fmt.Errorf("encrypt glwe ciphertext: %w", lwe.ErrPlaintextCountMismatch)
	}
	if err := checkVariance(v); err != nil {
		return nil, fmt.Errorf("encrypt glwe ciphertext: %w", err)
	}
	return e.EncryptGlweCiphertextUnchecked(sk, pv, v), nil
}

// EncryptGlweCiphertextUnchecked requires the plaintext count to equal the polynomial size.
func (e *Engine[T]) EncryptGlweCiphertextUnchecked(sk *GlweSecretKey[T], pv *PlaintextVector[T], v lwe.Variance) *GlweCiphertext[T] {
	shape := sk.glweShape
	buf := e.allocate(int(shape.k.ToGlweSize()) * int(shape.n))
	backend.EncryptGlwe(e.rng, buf.Data(), sk.Data(), pv.Data(), v)
	return &GlweCiphertext[T]{held: held[T]{buf: buf}, glweShape: shape}
}

// EncryptGlweCiphertextVector encrypts consecutive runs of N plaintexts of pv.
func (e *Engine[T]) EncryptGlweCiphertextVector(sk *GlweSecretKey[T], pv *PlaintextVector[T], v lwe.Variance) (*GlweCiphertextVector[T], error) {
	switch {
	case consumed[T](sk, pv):
		return nil, fmt.Errorf("encrypt glwe ciphertext vector: %w", lwe.ErrEntityConsumed)
	case int(pv.PlaintextCount())%int(sk.PolynomialSize()) != 0:
		return nil, fmt.Errorf("encrypt glwe ciphertext vector: %w", lwe.ErrPlaintextCountMismatch)
	}
	if err := checkVariance(v); err != nil {
		return nil, fmt.Errorf("encrypt glwe ciphertext vector: %w", err)
	}
	return e.EncryptGlweCiphertextVectorUnchecked(sk, pv, v), nil
}

// EncryptGlweCiphertextVectorUnchecked requires the plaintext count to be a multiple of
// the polynomial size.
func (e *Engine[T]) EncryptGlweCiphertextVectorUnchecked(sk *GlweSecretKey[T], pv *PlaintextVector[T], v lwe.Variance) *GlweCiphertextVector[T] {
	shape := sk.glweShape
	count := int(pv.PlaintextCount()) / int(shape.n)
	buf := e.allocate(count * int(shape.k.ToGlweSize()) * int(shape.n))
	backend.EncryptGlweList(e.rng, buf.Data(), sk.Data(), pv.Data(), int(shape.n), v)
	return &GlweCiphertextVector[T]{
		held:      held[T]{buf: buf},
		glweShape: shape,
		counted:   counted{count: lwe.CiphertextCount(count)},
	}
}

type glweShaped interface {
	GlweDimension() lwe.GlweDimension
	PolynomialSize() lwe.PolynomialSize
}

func checkGlweDecryption(sk, ct glweShaped) error {
	switch {
	case sk.PolynomialSize() != ct.PolynomialSize():
		return lwe.ErrPolynomialSizeMismatch
	case sk.GlweDimension() != ct.GlweDimension():
		return lwe.ErrGlweDimensionMismatch
	}
	return nil
}

// DecryptGlweCiphertext decrypts any GLWE ciphertext, owned or viewed.
func (e *Engine[T]) DecryptGlweCiphertext(sk *GlweSecretKey[T], ct GlweCiphertextReader[T]) (*PlaintextVector[T], error) {
	if consumed[T](sk, ct) {
		return nil, fmt.Errorf("decrypt glwe ciphertext: %w", lwe.ErrEntityConsumed)
	}
	if err := checkGlweDecryption(sk, ct); err != nil {
		return nil, fmt.Errorf("decrypt glwe ciphertext: %w", err)
	}
	return e.DecryptGlweCiphertextUnchecked(sk, ct), nil
}

// DecryptGlweCiphertextUnchecked requires the shapes of sk and ct to match.
func (e *Engine[T]) DecryptGlweCiphertextUnchecked(sk *GlweSecretKey[T], ct GlweCiphertextReader[T]) *PlaintextVector[T] {
	pv := e.newPlaintextVector(int(ct.PolynomialSize()))
	backend.DecryptGlwe(pv.Data(), ct.Data(), sk.Data())
	return pv
}

// DiscardDecryptGlweCiphertext decrypts ct into out.
func (e *Engine[T]) DiscardDecryptGlweCiphertext(sk *GlweSecretKey[T], out *PlaintextVector[T], ct GlweCiphertextReader[T]) error {
	if consumed[T](sk, out, ct) {
		return fmt.Errorf("discard decrypt glwe ciphertext: %w", lwe.ErrEntityConsumed)
	}
	if err := checkGlweDecryption(sk, ct); err != nil {
		return fmt.Errorf("discard decrypt glwe ciphertext: %w", err)
	}
	if int(out.PlaintextCount()) != int(ct.PolynomialSize()) {
		return fmt.Errorf("discard decrypt glwe ciphertext: %w", lwe.ErrPlaintextCountMismatch)
	}
	e.DiscardDecryptGlweCiphertextUnchecked(sk, out, ct)
	return nil
}

// DiscardDecryptGlweCiphertextUnchecked requires matching shapes and an output of N plaintexts.
func (e *Engine[T]) DiscardDecryptGlweCiphertextUnchecked(sk *GlweSecretKey[T], out *PlaintextVector[T], ct GlweCiphertextReader[T]) {
	backend.DecryptGlwe(out.Data(), ct.Data(), sk.Data())
}

// DecryptGlweCiphertextVector decrypts every ciphertext of cv into one plaintext vector.
func (e *Engine[T]) DecryptGlweCiphertextVector(sk *GlweSecretKey[T], cv *GlweCiphertextVector[T]) (*PlaintextVector[T], error) {
	if consumed[T](sk, cv) {
		return nil, fmt.Errorf("decrypt glwe ciphertext vector: %w", lwe.ErrEntityConsumed)
	}
	if err := checkGlweDecryption(sk, cv); err != nil {
		return nil, fmt.Errorf("decrypt glwe ciphertext vector: %w", err)
	}
	return e.DecryptGlweCiphertextVectorUnchecked(sk, cv), nil
}

// DecryptGlweCiphertextVectorUnchecked requires matching shapes.
func (e *Engine[T]) DecryptGlweCiphertextVectorUnchecked(sk *GlweSecretKey[T], cv *GlweCiphertextVector[T]) *PlaintextVector[T] {
	n := int(cv.PolynomialSize())
	pv := e.newPlaintextVector(int(cv.CiphertextCount()) * n)
	backend.DecryptGlweList(pv.Data(), cv.Data(), sk.Data(), n)
	return pv
}
