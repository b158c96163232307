// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package fixture

import (
	"math"

	"github.com/luxfi/lwe"
	"github.com/luxfi/lwe/core"
	"github.com/luxfi/lwe/noise"
)

// precisionVariance picks the variance matching the word width of T.
func precisionVariance[T lwe.Numeric](logV32, logV64 int) lwe.Variance {
	if lwe.PrecisionOf[T]() == lwe.Precision32 {
		return lwe.Variance(math.Ldexp(1, logV32))
	}
	return lwe.Variance(math.Ldexp(1, logV64))
}

// LweEncryptionParameters is a key dimension, a batch size and a noise variance.
type LweEncryptionParameters struct {
	Dimension lwe.LweDimension
	Count     lwe.CiphertextCount
	Variance  lwe.Variance
}

type lweVectorEncryptionPre[T lwe.Numeric] struct {
	sk *core.LweSecretKey[T]
	pv *core.PlaintextVector[T]
}

type lweVectorEncryption[T lwe.Numeric] struct{}

// LweCiphertextVectorEncryption encrypts a batch of messages with the engine and
// decrypts it with the prototype engine. Noiseless parameter sets encrypt zeros and
// must decrypt to zeros exactly.
func LweCiphertextVectorEncryption[T lwe.Numeric]() Fixture[T, *core.Engine[T], LweEncryptionParameters, ProtoLweSecretKey[T], []T, lweVectorEncryptionPre[T], *core.LweCiphertextVector[T]] {
	return lweVectorEncryption[T]{}
}

func (lweVectorEncryption[T]) Name() string { return "lwe-ciphertext-vector-encryption" }

func (lweVectorEncryption[T]) Parameters() []LweEncryptionParameters {
	return []LweEncryptionParameters{
		{Dimension: 512, Count: 100, Variance: 0},
		{Dimension: 630, Count: 10, Variance: precisionVariance[T](-28, -40)},
	}
}

func (lweVectorEncryption[T]) RepetitionPrototypes(m *Maker[T], p LweEncryptionParameters) ProtoLweSecretKey[T] {
	return m.NewLweSecretKey(p.Dimension)
}

func (lweVectorEncryption[T]) SamplePrototypes(m *Maker[T], p LweEncryptionParameters, _ ProtoLweSecretKey[T]) []T {
	if p.Variance == 0 {
		return make([]T, p.Count)
	}
	return m.RandomRawVec(int(p.Count))
}

func (lweVectorEncryption[T]) PrepareContext(m *Maker[T], _ LweEncryptionParameters, sk ProtoLweSecretKey[T], raw []T) lweVectorEncryptionPre[T] {
	return lweVectorEncryptionPre[T]{
		sk: m.SynthesizeLweSecretKey(sk),
		pv: m.SynthesizePlaintextVector(m.TransformRawVecToPlaintextVector(raw)),
	}
}

func (lweVectorEncryption[T]) ExecuteEngine(e *core.Engine[T], p LweEncryptionParameters, pre lweVectorEncryptionPre[T], mode Mode) (*core.LweCiphertextVector[T], error) {
	if mode == Unchecked {
		return e.EncryptLweCiphertextVectorUnchecked(pre.sk, pre.pv, p.Variance), nil
	}
	return e.EncryptLweCiphertextVector(pre.sk, pre.pv, p.Variance)
}

func (lweVectorEncryption[T]) ProcessContext(
	m *Maker[T],
	_ LweEncryptionParameters,
	sk ProtoLweSecretKey[T],
	raw []T,
	pre lweVectorEncryptionPre[T],
	cv *core.LweCiphertextVector[T],
) Outcome[T] {
	actual := m.DecryptLweCiphertextVector(sk, cv)
	m.Destroy(pre.sk, pre.pv, cv)
	return Outcome[T]{Expected: raw, Actual: actual}
}

func (lweVectorEncryption[T]) ComputeCriteria(p LweEncryptionParameters) noise.Criteria {
	return noise.Gaussian(p.Variance)
}

// GlweEncryptionParameters is a GLWE shape and a noise variance.
type GlweEncryptionParameters struct {
	Dimension      lwe.GlweDimension
	PolynomialSize lwe.PolynomialSize
	Variance       lwe.Variance
}

type glweDecryptionSample[T lwe.Numeric] struct {
	raw []T
	ct  ProtoGlweCiphertext[T]
}

type glweDecryptionPre[T lwe.Numeric] struct {
	sk *core.GlweSecretKey[T]
	ct *core.GlweCiphertextView[T]
}

type glweDecryption[T lwe.Numeric] struct{}

// GlweCiphertextDecryption decrypts, through a view, GLWE ciphertexts encrypted by the
// prototype engine.
func GlweCiphertextDecryption[T lwe.Numeric]() Fixture[T, *core.Engine[T], GlweEncryptionParameters, ProtoGlweSecretKey[T], glweDecryptionSample[T], glweDecryptionPre[T], *core.PlaintextVector[T]] {
	return glweDecryption[T]{}
}

func (glweDecryption[T]) Name() string { return "glwe-ciphertext-decryption" }

func (glweDecryption[T]) Parameters() []GlweEncryptionParameters {
	v := precisionVariance[T](-30, -50)
	return []GlweEncryptionParameters{
		{Dimension: 1, PolynomialSize: 256, Variance: v},
		{Dimension: 2, PolynomialSize: 256, Variance: v},
	}
}

func (glweDecryption[T]) RepetitionPrototypes(m *Maker[T], p GlweEncryptionParameters) ProtoGlweSecretKey[T] {
	return m.NewGlweSecretKey(p.Dimension, p.PolynomialSize)
}

func (glweDecryption[T]) SamplePrototypes(m *Maker[T], p GlweEncryptionParameters, sk ProtoGlweSecretKey[T]) glweDecryptionSample[T] {
	raw := m.RandomRawVec(int(p.PolynomialSize))
	pt := m.TransformRawVecToPlaintextVector(raw)
	return glweDecryptionSample[T]{raw: raw, ct: m.EncryptGlweCiphertext(sk, pt, p.Variance)}
}

func (glweDecryption[T]) PrepareContext(m *Maker[T], p GlweEncryptionParameters, sk ProtoGlweSecretKey[T], s glweDecryptionSample[T]) glweDecryptionPre[T] {
	return glweDecryptionPre[T]{
		sk: m.SynthesizeGlweSecretKey(sk),
		ct: m.SynthesizeGlweCiphertextView(s.ct.ct.Data(), p.PolynomialSize),
	}
}

func (glweDecryption[T]) ExecuteEngine(e *core.Engine[T], _ GlweEncryptionParameters, pre glweDecryptionPre[T], mode Mode) (*core.PlaintextVector[T], error) {
	if mode == Unchecked {
		return e.DecryptGlweCiphertextUnchecked(pre.sk, pre.ct), nil
	}
	return e.DecryptGlweCiphertext(pre.sk, pre.ct)
}

func (glweDecryption[T]) ProcessContext(
	m *Maker[T],
	_ GlweEncryptionParameters,
	_ ProtoGlweSecretKey[T],
	s glweDecryptionSample[T],
	pre glweDecryptionPre[T],
	pv *core.PlaintextVector[T],
) Outcome[T] {
	actual := m.UnsynthesizePlaintextVector(pv)
	m.Destroy(pre.sk)
	m.UnsynthesizeGlweCiphertextView(pre.ct)
	return Outcome[T]{Expected: s.raw, Actual: actual}
}

func (glweDecryption[T]) ComputeCriteria(p GlweEncryptionParameters) noise.Criteria {
	return noise.Gaussian(noise.GlweDecryptionVariance(p.Variance))
}
