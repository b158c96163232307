// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package fixture

import (
	"fmt"

	"github.com/luxfi/lwe"
	"github.com/luxfi/lwe/core"
	"github.com/luxfi/lwe/internal/csprng"
	"github.com/luxfi/lwe/memory"
)

// Prototypes are the Maker's own copies of test inputs. They are produced by an engine
// the fixtures do not test and live on the heap, so they never show up in the leak
// accounting of the tracking allocator.
type (
	ProtoLweSecretKey[T lwe.Numeric]    struct{ key *core.LweSecretKey[T] }
	ProtoGlweSecretKey[T lwe.Numeric]   struct{ key *core.GlweSecretKey[T] }
	ProtoLweKeyswitchKey[T lwe.Numeric] struct{ ksk *core.LweKeyswitchKey[T] }
	ProtoPlaintextVector[T lwe.Numeric] struct{ pv *core.PlaintextVector[T] }
	ProtoLweCiphertext[T lwe.Numeric]   struct{ ct *core.LweCiphertext[T] }
	ProtoGlweCiphertext[T lwe.Numeric]  struct{ ct *core.GlweCiphertext[T] }
)

// Maker converts between raw vectors, prototypes and live entities.
//
// Synthesized entities are allocated from a TrackingAllocator shared with the engines
// made by NewEngine, so after a run CheckLeaks proves that every region handed to an
// engine came back exactly once. Reclaimed regions go back to a PoolAllocator and are
// recycled by the next repetition.
type Maker[T lwe.Numeric] struct {
	rng   *csprng.Generator
	proto *core.Engine[T]
	synth *core.Engine[T]
	pool  *memory.PoolAllocator[T]
	alloc *memory.TrackingAllocator[T]
}

// NewMaker creates a maker. A nil seed draws one from the operating system.
func NewMaker[T lwe.Numeric](seed []byte) (*Maker[T], error) {
	var (
		rng *csprng.Generator
		err error
	)
	if seed == nil {
		rng, err = csprng.NewRandom()
	} else {
		rng, err = csprng.New(seed)
	}
	if err != nil {
		return nil, fmt.Errorf("maker: %w", err)
	}

	pool := memory.NewPoolAllocator[T]()
	m := &Maker[T]{rng: rng, pool: pool, alloc: memory.NewTrackingAllocator[T](pool)}
	if m.proto, err = m.engine("proto", nil); err != nil {
		return nil, err
	}
	if m.synth, err = m.engine("synth", m.alloc); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Maker[T]) engine(label string, alloc memory.Allocator[T]) (*core.Engine[T], error) {
	child, err := m.rng.Fork(label)
	if err != nil {
		return nil, fmt.Errorf("maker: %w", err)
	}
	seed := make([]byte, 32)
	if _, err := child.Read(seed); err != nil {
		return nil, fmt.Errorf("maker: %w", err)
	}
	return core.NewEngine(core.EngineConfig[T]{Seed: seed, Allocator: alloc})
}

// NewEngine returns an engine under test that allocates through the maker's tracking
// allocator.
func (m *Maker[T]) NewEngine(label string) (*core.Engine[T], error) {
	return m.engine("engine/"+label, m.alloc)
}

// Allocator returns the tracking allocator.
func (m *Maker[T]) Allocator() *memory.TrackingAllocator[T] {
	return m.alloc
}

// CheckLeaks reports regions that were never reclaimed, reclaimed twice, or foreign.
func (m *Maker[T]) CheckLeaks() error {
	if err := m.alloc.Check(); err != nil {
		return err
	}
	if live := m.pool.Live(); live != 0 {
		return fmt.Errorf("%w: %d words still pooled as live", memory.ErrLeak, live)
	}
	return nil
}

// RandomRawVec returns n uniform words.
func (m *Maker[T]) RandomRawVec(n int) []T {
	raw := make([]T, n)
	for i := range raw {
		raw[i] = T(m.rng.Uint64())
	}
	return raw
}

// NewLweSecretKey samples a prototype LWE key.
func (m *Maker[T]) NewLweSecretKey(n lwe.LweDimension) ProtoLweSecretKey[T] {
	return ProtoLweSecretKey[T]{key: m.proto.GenerateNewLweSecretKeyUnchecked(n)}
}

// NewGlweSecretKey samples a prototype GLWE key.
func (m *Maker[T]) NewGlweSecretKey(k lwe.GlweDimension, n lwe.PolynomialSize) ProtoGlweSecretKey[T] {
	return ProtoGlweSecretKey[T]{key: m.proto.GenerateNewGlweSecretKeyUnchecked(k, n)}
}

// NewLweKeyswitchKey derives a prototype keyswitch key.
func (m *Maker[T]) NewLweKeyswitchKey(
	in, out ProtoLweSecretKey[T],
	level lwe.DecompositionLevelCount,
	baseLog lwe.DecompositionBaseLog,
	v lwe.Variance,
) ProtoLweKeyswitchKey[T] {
	return ProtoLweKeyswitchKey[T]{ksk: m.proto.GenerateNewLweKeyswitchKeyUnchecked(in.key, out.key, level, baseLog, v)}
}

// TransformRawVecToPlaintextVector encodes raw.
func (m *Maker[T]) TransformRawVecToPlaintextVector(raw []T) ProtoPlaintextVector[T] {
	return ProtoPlaintextVector[T]{pv: m.proto.CreatePlaintextVectorUnchecked(raw)}
}

// TransformPlaintextVectorToRawVec decodes p.
func (m *Maker[T]) TransformPlaintextVectorToRawVec(p ProtoPlaintextVector[T]) []T {
	return m.proto.RetrievePlaintextVectorUnchecked(p.pv)
}

// EncryptLweCiphertext encrypts msg under sk on the prototype engine.
func (m *Maker[T]) EncryptLweCiphertext(sk ProtoLweSecretKey[T], msg T, v lwe.Variance) ProtoLweCiphertext[T] {
	pt := m.proto.CreatePlaintextUnchecked(msg)
	return ProtoLweCiphertext[T]{ct: m.proto.EncryptLweCiphertextUnchecked(sk.key, pt, v)}
}

// EncryptGlweCiphertext encrypts p under sk on the prototype engine.
func (m *Maker[T]) EncryptGlweCiphertext(sk ProtoGlweSecretKey[T], p ProtoPlaintextVector[T], v lwe.Variance) ProtoGlweCiphertext[T] {
	return ProtoGlweCiphertext[T]{ct: m.proto.EncryptGlweCiphertextUnchecked(sk.key, p.pv, v)}
}

// DecryptLweCiphertext decrypts any LWE ciphertext under a prototype key.
func (m *Maker[T]) DecryptLweCiphertext(sk ProtoLweSecretKey[T], ct core.LweCiphertextReader[T]) T {
	return m.proto.DecryptLweCiphertextUnchecked(sk.key, ct).Value()
}

// DecryptLweCiphertextVector decrypts a ciphertext vector under a prototype key.
func (m *Maker[T]) DecryptLweCiphertextVector(sk ProtoLweSecretKey[T], cv *core.LweCiphertextVector[T]) []T {
	pv := m.proto.DecryptLweCiphertextVectorUnchecked(sk.key, cv)
	defer m.proto.DestroyUnchecked(pv)
	return m.proto.RetrievePlaintextVectorUnchecked(pv)
}

// SynthesizeBuffer copies raw into a tracked buffer.
func (m *Maker[T]) SynthesizeBuffer(raw []T) *memory.Buffer[T] {
	buf := memory.New[T](m.alloc, len(raw))
	copy(buf.Data(), raw)
	return buf
}

// UnsynthesizeBuffer copies buf out and releases it.
func (m *Maker[T]) UnsynthesizeBuffer(buf *memory.Buffer[T]) []T {
	raw := append([]T(nil), buf.Data()...)
	buf.Release()
	return raw
}

// SynthesizeLweCiphertextMutView wraps a tracked copy of raw into a mutable view.
func (m *Maker[T]) SynthesizeLweCiphertextMutView(raw []T) *core.LweCiphertextMutView[T] {
	return m.synth.CreateLweCiphertextMutViewUnchecked(m.SynthesizeBuffer(raw))
}

// SynthesizeLweCiphertextView wraps a tracked copy of p into a shared view.
func (m *Maker[T]) SynthesizeLweCiphertextView(p ProtoLweCiphertext[T]) *core.LweCiphertextView[T] {
	return m.synth.CreateLweCiphertextViewUnchecked(m.SynthesizeBuffer(p.ct.Data()))
}

// SynthesizeGlweCiphertextView wraps a tracked copy of raw into a shared view.
func (m *Maker[T]) SynthesizeGlweCiphertextView(raw []T, n lwe.PolynomialSize) *core.GlweCiphertextView[T] {
	return m.synth.CreateGlweCiphertextViewUnchecked(m.SynthesizeBuffer(raw), n)
}

// UnsynthesizeLweCiphertextView retrieves the memory of v and copies it out.
func (m *Maker[T]) UnsynthesizeLweCiphertextView(v *core.LweCiphertextView[T]) []T {
	return m.UnsynthesizeBuffer(m.synth.RetrieveLweCiphertextViewUnchecked(v))
}

// UnsynthesizeLweCiphertextMutView retrieves the memory of v and copies it out.
func (m *Maker[T]) UnsynthesizeLweCiphertextMutView(v *core.LweCiphertextMutView[T]) []T {
	return m.UnsynthesizeBuffer(m.synth.RetrieveLweCiphertextMutViewUnchecked(v))
}

// UnsynthesizeGlweCiphertextView retrieves the memory of v and copies it out.
func (m *Maker[T]) UnsynthesizeGlweCiphertextView(v *core.GlweCiphertextView[T]) []T {
	return m.UnsynthesizeBuffer(m.synth.RetrieveGlweCiphertextViewUnchecked(v))
}

// UnsynthesizeGlweCiphertextMutView retrieves the memory of v and copies it out.
func (m *Maker[T]) UnsynthesizeGlweCiphertextMutView(v *core.GlweCiphertextMutView[T]) []T {
	return m.UnsynthesizeBuffer(m.synth.RetrieveGlweCiphertextMutViewUnchecked(v))
}

// SynthesizeGlweCiphertextMutView wraps a tracked copy of raw into a mutable view.
func (m *Maker[T]) SynthesizeGlweCiphertextMutView(raw []T, n lwe.PolynomialSize) *core.GlweCiphertextMutView[T] {
	return m.synth.CreateGlweCiphertextMutViewUnchecked(m.SynthesizeBuffer(raw), n)
}

// SynthesizeLweSecretKey copies p into a tracked key.
func (m *Maker[T]) SynthesizeLweSecretKey(p ProtoLweSecretKey[T]) *core.LweSecretKey[T] {
	return m.synth.CreateLweSecretKeyUnchecked(p.key.Data())
}

// SynthesizeGlweSecretKey copies p into a tracked key.
func (m *Maker[T]) SynthesizeGlweSecretKey(p ProtoGlweSecretKey[T]) *core.GlweSecretKey[T] {
	return m.synth.CreateGlweSecretKeyUnchecked(p.key.Data(), p.key.PolynomialSize())
}

// SynthesizeLweKeyswitchKey returns the key of p. Engines only read keyswitch keys, so
// the prototype is shared rather than copied.
func (m *Maker[T]) SynthesizeLweKeyswitchKey(p ProtoLweKeyswitchKey[T]) *core.LweKeyswitchKey[T] {
	return p.ksk
}

// SynthesizePlaintextVector copies p into a tracked plaintext vector.
func (m *Maker[T]) SynthesizePlaintextVector(p ProtoPlaintextVector[T]) *core.PlaintextVector[T] {
	return m.synth.CreatePlaintextVectorUnchecked(p.pv.Data())
}

// UnsynthesizePlaintextVector copies pv out and destroys it.
func (m *Maker[T]) UnsynthesizePlaintextVector(pv *core.PlaintextVector[T]) []T {
	raw := m.synth.RetrievePlaintextVectorUnchecked(pv)
	m.synth.DestroyUnchecked(pv)
	return raw
}

// Destroy destroys synthesized entities.
func (m *Maker[T]) Destroy(entities ...lwe.Entity) {
	for _, e := range entities {
		m.synth.DestroyUnchecked(e)
	}
}
