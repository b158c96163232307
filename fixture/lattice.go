// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package fixture

import (
	"math"

	"github.com/luxfi/lwe"
	"github.com/luxfi/lwe/lattice"
	"github.com/luxfi/lwe/noise"
)

// LatticeParameters is the encryption variance of a lattice GLWE fixture.
type LatticeParameters struct {
	Variance lwe.Variance
}

type latticePre struct {
	sk *lattice.GlweSecretKey
	pv *lattice.PlaintextVector
}

type latticeGlweEncryption struct {
	params lattice.Parameters
	proto  *lattice.Engine
}

// LatticeGlweEncryption encrypts with a lattice engine over params and decrypts with
// a separate prototype engine over the same ring. Errors are measured modulo Q.
func LatticeGlweEncryption(params lattice.Parameters) Fixture[uint64, *lattice.Engine, LatticeParameters, *lattice.GlweSecretKey, []uint64, latticePre, *lattice.GlweCiphertext] {
	return &latticeGlweEncryption{params: params, proto: lattice.NewEngine(params)}
}

func (*latticeGlweEncryption) Name() string { return "lattice-glwe-encryption" }

func (*latticeGlweEncryption) Parameters() []LatticeParameters {
	return []LatticeParameters{
		{Variance: lwe.Variance(math.Ldexp(1, -80))},
		{Variance: lwe.Variance(math.Ldexp(1, -100))},
	}
}

func (f *latticeGlweEncryption) RepetitionPrototypes(*Maker[uint64], LatticeParameters) *lattice.GlweSecretKey {
	return f.proto.GenerateNewGlweSecretKeyUnchecked(1, f.params.N())
}

func (f *latticeGlweEncryption) SamplePrototypes(m *Maker[uint64], _ LatticeParameters, _ *lattice.GlweSecretKey) []uint64 {
	raw := m.RandomRawVec(int(f.params.N()))
	q := f.params.Q()
	for i := range raw {
		raw[i] %= q
	}
	return raw
}

func (f *latticeGlweEncryption) PrepareContext(_ *Maker[uint64], _ LatticeParameters, sk *lattice.GlweSecretKey, raw []uint64) latticePre {
	return latticePre{sk: sk, pv: f.proto.CreatePlaintextVectorUnchecked(raw)}
}

func (*latticeGlweEncryption) ExecuteEngine(e *lattice.Engine, p LatticeParameters, pre latticePre, mode Mode) (*lattice.GlweCiphertext, error) {
	if mode == Unchecked {
		return e.EncryptGlweCiphertextUnchecked(pre.sk, pre.pv, p.Variance), nil
	}
	return e.EncryptGlweCiphertext(pre.sk, pre.pv, p.Variance)
}

func (f *latticeGlweEncryption) ProcessContext(
	_ *Maker[uint64],
	_ LatticeParameters,
	_ *lattice.GlweSecretKey,
	raw []uint64,
	pre latticePre,
	ct *lattice.GlweCiphertext,
) Outcome[uint64] {
	pv := f.proto.DecryptGlweCiphertextUnchecked(pre.sk, ct)
	actual := f.proto.RetrievePlaintextVectorUnchecked(pv)
	f.proto.DestroyUnchecked(pv)
	f.proto.DestroyUnchecked(pre.pv)
	f.proto.DestroyUnchecked(ct)
	return Outcome[uint64]{Expected: raw, Actual: actual, Modulus: f.params.Q()}
}

func (*latticeGlweEncryption) ComputeCriteria(p LatticeParameters) noise.Criteria {
	return noise.Gaussian(p.Variance)
}
