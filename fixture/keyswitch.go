// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package fixture

import (
	"github.com/luxfi/lwe"
	"github.com/luxfi/lwe/core"
	"github.com/luxfi/lwe/noise"
)

// KeyswitchParameters describes a keyswitch from Input to Output. Variance is used for
// both the input ciphertexts and the keyswitch key.
type KeyswitchParameters struct {
	Input    lwe.LweDimension
	Output   lwe.LweDimension
	BaseLog  lwe.DecompositionBaseLog
	Level    lwe.DecompositionLevelCount
	Variance lwe.Variance
}

type keyswitchRepetition[T lwe.Numeric] struct {
	in, out ProtoLweSecretKey[T]
	ksk     ProtoLweKeyswitchKey[T]
}

type keyswitchSample[T lwe.Numeric] struct {
	msg T
	ct  ProtoLweCiphertext[T]
}

type keyswitchPre[T lwe.Numeric] struct {
	ksk *core.LweKeyswitchKey[T]
	ct  *core.LweCiphertextView[T]
}

type lweKeyswitch[T lwe.Numeric] struct{}

// LweCiphertextKeyswitch switches viewed ciphertexts to the output key and decrypts
// them there. The criteria is an upper bound on the output variance.
func LweCiphertextKeyswitch[T lwe.Numeric]() Fixture[T, *core.Engine[T], KeyswitchParameters, keyswitchRepetition[T], keyswitchSample[T], keyswitchPre[T], *core.LweCiphertext[T]] {
	return lweKeyswitch[T]{}
}

func (lweKeyswitch[T]) Name() string { return "lwe-ciphertext-keyswitch" }

func (lweKeyswitch[T]) Parameters() []KeyswitchParameters {
	return []KeyswitchParameters{
		{Input: 256, Output: 128, BaseLog: 4, Level: 3, Variance: precisionVariance[T](-40, -60)},
	}
}

func (lweKeyswitch[T]) RepetitionPrototypes(m *Maker[T], p KeyswitchParameters) keyswitchRepetition[T] {
	in := m.NewLweSecretKey(p.Input)
	out := m.NewLweSecretKey(p.Output)
	return keyswitchRepetition[T]{
		in:  in,
		out: out,
		ksk: m.NewLweKeyswitchKey(in, out, p.Level, p.BaseLog, p.Variance),
	}
}

func (lweKeyswitch[T]) SamplePrototypes(m *Maker[T], p KeyswitchParameters, r keyswitchRepetition[T]) keyswitchSample[T] {
	msg := m.RandomRawVec(1)[0]
	return keyswitchSample[T]{msg: msg, ct: m.EncryptLweCiphertext(r.in, msg, p.Variance)}
}

func (lweKeyswitch[T]) PrepareContext(m *Maker[T], _ KeyswitchParameters, r keyswitchRepetition[T], s keyswitchSample[T]) keyswitchPre[T] {
	return keyswitchPre[T]{
		ksk: m.SynthesizeLweKeyswitchKey(r.ksk),
		ct:  m.SynthesizeLweCiphertextView(s.ct),
	}
}

func (lweKeyswitch[T]) ExecuteEngine(e *core.Engine[T], _ KeyswitchParameters, pre keyswitchPre[T], mode Mode) (*core.LweCiphertext[T], error) {
	if mode == Unchecked {
		return e.KeyswitchLweCiphertextUnchecked(pre.ksk, pre.ct), nil
	}
	return e.KeyswitchLweCiphertext(pre.ksk, pre.ct)
}

func (lweKeyswitch[T]) ProcessContext(
	m *Maker[T],
	_ KeyswitchParameters,
	r keyswitchRepetition[T],
	s keyswitchSample[T],
	pre keyswitchPre[T],
	out *core.LweCiphertext[T],
) Outcome[T] {
	actual := m.DecryptLweCiphertext(r.out, out)
	m.Destroy(out)
	m.UnsynthesizeLweCiphertextView(pre.ct)
	return Outcome[T]{Expected: []T{s.msg}, Actual: []T{actual}}
}

func (lweKeyswitch[T]) ComputeCriteria(p KeyswitchParameters) noise.Criteria {
	return noise.AtMost(noise.LweKeyswitchVariance(p.Variance, p.Input, p.Level, p.BaseLog, p.Variance, lwe.BitsOf[T]()))
}
