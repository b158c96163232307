// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package lattice

import (
	"fmt"

	"github.com/luxfi/lattice/v7/core/rlwe"

	"github.com/luxfi/lwe"
)

// Engine implements GLWE key generation, encryption and decryption over one
// parameter set. It is not safe for concurrent use.
type Engine struct {
	params Parameters
	kgen   *rlwe.KeyGenerator

	// One parameter set per encryption variance: the error distribution is part of
	// the RLWE parameters.
	byVariance map[lwe.Variance]rlwe.Parameters
}

// NewEngine creates an engine over params.
func NewEngine(params Parameters) *Engine {
	return &Engine{
		params:     params,
		kgen:       rlwe.NewKeyGenerator(params.rlwe),
		byVariance: make(map[lwe.Variance]rlwe.Parameters),
	}
}

// Parameters returns the parameter set of e.
func (e *Engine) Parameters() Parameters {
	return e.params
}

func (e *Engine) parametersFor(v lwe.Variance) (rlwe.Parameters, error) {
	if p, ok := e.byVariance[v]; ok {
		return p, nil
	}
	p, err := e.params.withVariance(v)
	if err != nil {
		return rlwe.Parameters{}, err
	}
	e.byVariance[v] = p
	return p, nil
}

// GenerateNewGlweSecretKey samples a ternary key. k must be 1 and n the ring degree.
func (e *Engine) GenerateNewGlweSecretKey(k lwe.GlweDimension, n lwe.PolynomialSize) (*GlweSecretKey, error) {
	switch {
	case k <= 0 || n <= 0:
		return nil, fmt.Errorf("generate glwe secret key: %w", lwe.ErrZeroDimension)
	case k != 1:
		return nil, fmt.Errorf("generate glwe secret key: %w", lwe.ErrGlweDimensionMismatch)
	case n != e.params.N():
		return nil, fmt.Errorf("generate glwe secret key: %w", lwe.ErrPolynomialSizeMismatch)
	}
	return e.GenerateNewGlweSecretKeyUnchecked(k, n), nil
}

// GenerateNewGlweSecretKeyUnchecked ignores k and n.
func (e *Engine) GenerateNewGlweSecretKeyUnchecked(lwe.GlweDimension, lwe.PolynomialSize) *GlweSecretKey {
	return &GlweSecretKey{sk: e.kgen.GenSecretKeyNew(), n: e.params.N()}
}

// CreatePlaintextVector copies values, reduced modulo Q, into a plaintext vector.
func (e *Engine) CreatePlaintextVector(values []uint64) (*PlaintextVector, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("create plaintext vector: %w", lwe.ErrEmptyContainer)
	}
	return e.CreatePlaintextVectorUnchecked(values), nil
}

// CreatePlaintextVectorUnchecked requires a non-empty values.
func (e *Engine) CreatePlaintextVectorUnchecked(values []uint64) *PlaintextVector {
	q := e.params.Q()
	out := make([]uint64, len(values))
	for i, v := range values {
		out[i] = v % q
	}
	return &PlaintextVector{values: out}
}

// RetrievePlaintextVector copies the values of pv out.
func (e *Engine) RetrievePlaintextVector(pv *PlaintextVector) ([]uint64, error) {
	if pv.consumed() {
		return nil, fmt.Errorf("retrieve plaintext vector: %w", lwe.ErrEntityConsumed)
	}
	return e.RetrievePlaintextVectorUnchecked(pv), nil
}

// RetrievePlaintextVectorUnchecked requires a live pv.
func (e *Engine) RetrievePlaintextVectorUnchecked(pv *PlaintextVector) []uint64 {
	return append([]uint64(nil), pv.values...)
}

// EncryptGlweCiphertext encrypts the N plaintexts of pv under sk with a fresh error
// of torus variance v.
func (e *Engine) EncryptGlweCiphertext(sk *GlweSecretKey, pv *PlaintextVector, v lwe.Variance) (*GlweCiphertext, error) {
	switch {
	case sk.consumed() || pv.consumed():
		return nil, fmt.Errorf("encrypt glwe ciphertext: %w", lwe.ErrEntityConsumed)
	case int(pv.PlaintextCount()) != int(sk.PolynomialSize()):
		return nil, fmt.Errorf("encrypt glwe ciphertext: %w", lwe.ErrPlaintextCountMismatch)
	case !(v > 0 && v <= 1):
		return nil, fmt.Errorf("encrypt glwe ciphertext: %w", lwe.ErrInvalidVariance)
	}

	params, err := e.parametersFor(v)
	if err != nil {
		return nil, fmt.Errorf("encrypt glwe ciphertext: %w", err)
	}
	ct, err := encrypt(params, sk, pv)
	if err != nil {
		return nil, fmt.Errorf("encrypt glwe ciphertext: %w", err)
	}
	return ct, nil
}

// EncryptGlweCiphertextUnchecked requires N plaintexts and 0 < v <= 1. It panics if
// the RLWE backend rejects the derived parameters.
func (e *Engine) EncryptGlweCiphertextUnchecked(sk *GlweSecretKey, pv *PlaintextVector, v lwe.Variance) *GlweCiphertext {
	params, err := e.parametersFor(v)
	if err != nil {
		panic(err)
	}
	ct, err := encrypt(params, sk, pv)
	if err != nil {
		panic(err)
	}
	return ct
}

func encrypt(params rlwe.Parameters, sk *GlweSecretKey, pv *PlaintextVector) (*GlweCiphertext, error) {
	pt := rlwe.NewPlaintext(params, params.MaxLevel())
	copy(pt.Value.Coeffs[0], pv.values)
	if pt.IsNTT {
		params.RingQ().NTT(pt.Value, pt.Value)
	}

	ct := rlwe.NewCiphertext(params, 1, params.MaxLevel())
	if err := rlwe.NewEncryptor(params, sk.sk).Encrypt(pt, ct); err != nil {
		return nil, err
	}
	return &GlweCiphertext{ct: ct, n: sk.n}, nil
}

// DecryptGlweCiphertext decrypts ct under sk.
func (e *Engine) DecryptGlweCiphertext(sk *GlweSecretKey, ct *GlweCiphertext) (*PlaintextVector, error) {
	switch {
	case sk.consumed() || ct.consumed():
		return nil, fmt.Errorf("decrypt glwe ciphertext: %w", lwe.ErrEntityConsumed)
	case sk.PolynomialSize() != ct.PolynomialSize():
		return nil, fmt.Errorf("decrypt glwe ciphertext: %w", lwe.ErrPolynomialSizeMismatch)
	}
	return e.DecryptGlweCiphertextUnchecked(sk, ct), nil
}

// DecryptGlweCiphertextUnchecked requires matching shapes.
func (e *Engine) DecryptGlweCiphertextUnchecked(sk *GlweSecretKey, ct *GlweCiphertext) *PlaintextVector {
	params := e.params.rlwe
	pt := rlwe.NewPlaintext(params, ct.ct.Level())
	rlwe.NewDecryptor(params, sk.sk).Decrypt(ct.ct, pt)
	if pt.IsNTT {
		params.RingQ().INTT(pt.Value, pt.Value)
	}
	return &PlaintextVector{values: append([]uint64(nil), pt.Value.Coeffs[0]...)}
}

// Destroy marks an entity of this engine as consumed. Its memory belongs to the
// garbage collector.
func (e *Engine) Destroy(entity lwe.Entity) error {
	d, ok := entity.(destroyable)
	if !ok {
		return fmt.Errorf("destroy %T: %w", entity, lwe.ErrUnknownEntity)
	}
	if d.consumed() {
		return fmt.Errorf("destroy: %w", lwe.ErrEntityConsumed)
	}
	d.destroy()
	return nil
}

// DestroyUnchecked requires an entity of this engine.
func (e *Engine) DestroyUnchecked(entity lwe.Entity) {
	entity.(destroyable).destroy()
}

var (
	_ lwe.GlweSecretKeyGenerationEngine[*GlweSecretKey]                                     = (*Engine)(nil)
	_ lwe.PlaintextVectorCreationEngine[[]uint64, *PlaintextVector]                         = (*Engine)(nil)
	_ lwe.PlaintextVectorRetrievalEngine[*PlaintextVector, []uint64]                        = (*Engine)(nil)
	_ lwe.GlweCiphertextEncryptionEngine[*GlweSecretKey, *PlaintextVector, *GlweCiphertext] = (*Engine)(nil)
	_ lwe.GlweCiphertextDecryptionEngine[*GlweSecretKey, *GlweCiphertext, *PlaintextVector] = (*Engine)(nil)
	_ lwe.EntityDestructionEngine[lwe.Entity]                                               = (*Engine)(nil)
)
