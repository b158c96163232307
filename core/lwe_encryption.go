// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package core

import (
	"fmt"

	"github.com/luxfi/lwe"
	"github.com/luxfi/lwe/internal/backend"
)

// EncryptLweCiphertext encrypts pt under sk into a fresh ciphertext.
func (e *Engine[T]) EncryptLweCiphertext(sk *LweSecretKey[T], pt *Plaintext[T], v lwe.Variance) (*LweCiphertext[T], error) {
	if consumed[T](sk) {
		return nil, fmt.Errorf("encrypt lwe ciphertext: %w", lwe.ErrEntityConsumed)
	}
	if err := checkVariance(v); err != nil {
		return nil, fmt.Errorf("encrypt lwe ciphertext: %w", err)
	}
	return e.EncryptLweCiphertextUnchecked(sk, pt, v), nil
}

// EncryptLweCiphertextUnchecked requires a live sk and 0 ≤ v ≤ 1.
func (e *Engine[T]) EncryptLweCiphertextUnchecked(sk *LweSecretKey[T], pt *Plaintext[T], v lwe.Variance) *LweCiphertext[T] {
	buf := e.allocate(int(sk.LweDimension().ToLweSize()))
	backend.EncryptLwe(e.rng, buf.Data(), sk.Data(), pt.Value(), v)
	return &LweCiphertext[T]{held: held[T]{buf: buf}, lweShape: lweShape{dim: sk.LweDimension()}}
}

// DiscardEncryptLweCiphertext overwrites out with an encryption of pt under sk.
// out may be an owned ciphertext or a mutable view.
func (e *Engine[T]) DiscardEncryptLweCiphertext(sk *LweSecretKey[T], out LweCiphertextWriter[T], pt *Plaintext[T], v lwe.Variance) error {
	switch {
	case consumed[T](sk, out):
		return fmt.Errorf("discard encrypt lwe ciphertext: %w", lwe.ErrEntityConsumed)
	case sk.LweDimension() != out.LweDimension():
		return fmt.Errorf("discard encrypt lwe ciphertext: %w", lwe.ErrLweDimensionMismatch)
	}
	if err := checkVariance(v); err != nil {
		return fmt.Errorf("discard encrypt lwe ciphertext: %w", err)
	}
	e.DiscardEncryptLweCiphertextUnchecked(sk, out, pt, v)
	return nil
}

// DiscardEncryptLweCiphertextUnchecked requires the dimensions of sk and out to match.
func (e *Engine[T]) DiscardEncryptLweCiphertextUnchecked(sk *LweSecretKey[T], out LweCiphertextWriter[T], pt *Plaintext[T], v lwe.Variance) {
	backend.EncryptLwe(e.rng, out.Data(), sk.Data(), pt.Value(), v)
}

// EncryptLweCiphertextVector encrypts every plaintext of pv into a fresh vector.
func (e *Engine[T]) EncryptLweCiphertextVector(sk *LweSecretKey[T], pv *PlaintextVector[T], v lwe.Variance) (*LweCiphertextVector[T], error) {
	if consumed[T](sk, pv) {
		return nil, fmt.Errorf("encrypt lwe ciphertext vector: %w", lwe.ErrEntityConsumed)
	}
	if err := checkVariance(v); err != nil {
		return nil, fmt.Errorf("encrypt lwe ciphertext vector: %w", err)
	}
	return e.EncryptLweCiphertextVectorUnchecked(sk, pv, v), nil
}

// EncryptLweCiphertextVectorUnchecked requires live entities and 0 ≤ v ≤ 1.
func (e *Engine[T]) EncryptLweCiphertextVectorUnchecked(sk *LweSecretKey[T], pv *PlaintextVector[T], v lwe.Variance) *LweCiphertextVector[T] {
	cv := e.newLweCiphertextVector(sk.LweDimension(), lwe.CiphertextCount(pv.PlaintextCount()))
	backend.EncryptLweList(e.rng, cv.Data(), sk.Data(), pv.Data(), v)
	return cv
}

func (e *Engine[T]) newLweCiphertextVector(n lwe.LweDimension, count lwe.CiphertextCount) *LweCiphertextVector[T] {
	return &LweCiphertextVector[T]{
		held:     held[T]{buf: e.allocate(int(n.ToLweSize()) * int(count))},
		lweShape: lweShape{dim: n},
		counted:  counted{count: count},
	}
}

// DiscardEncryptLweCiphertextVector encrypts pv in place into out.
func (e *Engine[T]) DiscardEncryptLweCiphertextVector(sk *LweSecretKey[T], out *LweCiphertextVector[T], pv *PlaintextVector[T], v lwe.Variance) error {
	switch {
	case consumed[T](sk, out, pv):
		return fmt.Errorf("discard encrypt lwe ciphertext vector: %w", lwe.ErrEntityConsumed)
	case sk.LweDimension() != out.LweDimension():
		return fmt.Errorf("discard encrypt lwe ciphertext vector: %w", lwe.ErrLweDimensionMismatch)
	case int(pv.PlaintextCount()) != int(out.CiphertextCount()):
		return fmt.Errorf("discard encrypt lwe ciphertext vector: %d plaintexts into %d ciphertexts: %w",
			pv.PlaintextCount(), out.CiphertextCount(), lwe.ErrCiphertextCountMismatch)
	}
	if err := checkVariance(v); err != nil {
		return fmt.Errorf("discard encrypt lwe ciphertext vector: %w", err)
	}
	e.DiscardEncryptLweCiphertextVectorUnchecked(sk, out, pv, v)
	return nil
}

// DiscardEncryptLweCiphertextVectorUnchecked requires the key dimension to equal the
// output dimension and the plaintext count to equal the ciphertext count.
func (e *Engine[T]) DiscardEncryptLweCiphertextVectorUnchecked(sk *LweSecretKey[T], out *LweCiphertextVector[T], pv *PlaintextVector[T], v lwe.Variance) {
	backend.EncryptLweList(e.rng, out.Data(), sk.Data(), pv.Data(), v)
}

// DecryptLweCiphertext decrypts any LWE ciphertext, owned or viewed.
func (e *Engine[T]) DecryptLweCiphertext(sk *LweSecretKey[T], ct LweCiphertextReader[T]) (*Plaintext[T], error) {
	switch {
	case consumed[T](sk, ct):
		return nil, fmt.Errorf("decrypt lwe ciphertext: %w", lwe.ErrEntityConsumed)
	case sk.LweDimension() != ct.LweDimension():
		return nil, fmt.Errorf("decrypt lwe ciphertext: %w", lwe.ErrLweDimensionMismatch)
	}
	return e.DecryptLweCiphertextUnchecked(sk, ct), nil
}

// DecryptLweCiphertextUnchecked requires matching dimensions.
func (e *Engine[T]) DecryptLweCiphertextUnchecked(sk *LweSecretKey[T], ct LweCiphertextReader[T]) *Plaintext[T] {
	return &Plaintext[T]{value: backend.DecryptLwe(ct.Data(), sk.Data())}
}

// DecryptLweCiphertextVector decrypts every ciphertext of cv.
func (e *Engine[T]) DecryptLweCiphertextVector(sk *LweSecretKey[T], cv *LweCiphertextVector[T]) (*PlaintextVector[T], error) {
	switch {
	case consumed[T](sk, cv):
		return nil, fmt.Errorf("decrypt lwe ciphertext vector: %w", lwe.ErrEntityConsumed)
	case sk.LweDimension() != cv.LweDimension():
		return nil, fmt.Errorf("decrypt lwe ciphertext vector: %w", lwe.ErrLweDimensionMismatch)
	}
	return e.DecryptLweCiphertextVectorUnchecked(sk, cv), nil
}

// DecryptLweCiphertextVectorUnchecked requires matching dimensions.
func (e *Engine[T]) DecryptLweCiphertextVectorUnchecked(sk *LweSecretKey[T], cv *LweCiphertextVector[T]) *PlaintextVector[T] {
	pv := e.newPlaintextVector(int(cv.CiphertextCount()))
	backend.DecryptLweList(pv.Data(), cv.Data(), sk.Data())
	return pv
}

// LoadLweCiphertext copies the i-th ciphertext of cv into a fresh ciphertext.
func (e *Engine[T]) LoadLweCiphertext(cv *LweCiphertextVector[T], i lwe.LweCiphertextIndex) (*LweCiphertext[T], error) {
	switch {
	case consumed[T](cv):
		return nil, fmt.Errorf("load lwe ciphertext: %w", lwe.ErrEntityConsumed)
	case i < 0 || int(i) >= int(cv.CiphertextCount()):
		return nil, fmt.Errorf("load lwe ciphertext %d of %d: %w", i, cv.CiphertextCount(), lwe.ErrIndexOutOfRange)
	}
	return e.LoadLweCiphertextUnchecked(cv, i), nil
}

// LoadLweCiphertextUnchecked requires 0 ≤ i < count.
func (e *Engine[T]) LoadLweCiphertextUnchecked(cv *LweCiphertextVector[T], i lwe.LweCiphertextIndex) *LweCiphertext[T] {
	size := int(cv.LweDimension().ToLweSize())
	buf := e.allocate(size)
	copy(buf.Data(), cv.Data()[int(i)*size:(int(i)+1)*size])
	return &LweCiphertext[T]{held: held[T]{buf: buf}, lweShape: lweShape{dim: cv.LweDimension()}}
}
