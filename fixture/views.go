// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package fixture

import (
	"github.com/luxfi/lwe"
	"github.com/luxfi/lwe/core"
	"github.com/luxfi/lwe/memory"
	"github.com/luxfi/lwe/noise"
)

// LweParameters is an LWE dimension.
type LweParameters struct {
	Dimension lwe.LweDimension
}

// GlweParameters is a GLWE shape.
type GlweParameters struct {
	Dimension      lwe.GlweDimension
	PolynomialSize lwe.PolynomialSize
}

func (p GlweParameters) size() int {
	return int(p.Dimension.ToGlweSize()) * int(p.PolynomialSize)
}

var (
	lweViewParameters = []LweParameters{
		{Dimension: 1},
		{Dimension: 512},
		{Dimension: 751},
	}

	glweViewParameters = []GlweParameters{
		{Dimension: 1, PolynomialSize: 512},
		{Dimension: 2, PolynomialSize: 1024},
		{Dimension: 2, PolynomialSize: 2048},
	}
)

// View fixtures carry no repetition state and a random raw container per sample. The
// round trip must be bit exact.

type lweViewCreation[T lwe.Numeric] struct{}

// LweCiphertextViewCreation checks that a view wraps its container without touching it.
func LweCiphertextViewCreation[T lwe.Numeric]() Fixture[T, *core.Engine[T], LweParameters, struct{}, []T, *memory.Buffer[T], *core.LweCiphertextView[T]] {
	return lweViewCreation[T]{}
}

func (lweViewCreation[T]) Name() string { return "lwe-ciphertext-view-creation" }

func (lweViewCreation[T]) Parameters() []LweParameters { return lweViewParameters }

func (lweViewCreation[T]) RepetitionPrototypes(*Maker[T], LweParameters) struct{} {
	return struct{}{}
}

func (lweViewCreation[T]) SamplePrototypes(m *Maker[T], p LweParameters, _ struct{}) []T {
	return m.RandomRawVec(int(p.Dimension.ToLweSize()))
}

func (lweViewCreation[T]) PrepareContext(m *Maker[T], _ LweParameters, _ struct{}, raw []T) *memory.Buffer[T] {
	return m.SynthesizeBuffer(raw)
}

func (lweViewCreation[T]) ExecuteEngine(e *core.Engine[T], _ LweParameters, buf *memory.Buffer[T], mode Mode) (*core.LweCiphertextView[T], error) {
	if mode == Unchecked {
		return e.CreateLweCiphertextViewUnchecked(buf), nil
	}
	return e.CreateLweCiphertextView(buf)
}

func (lweViewCreation[T]) ProcessContext(m *Maker[T], _ LweParameters, _ struct{}, raw []T, _ *memory.Buffer[T], v *core.LweCiphertextView[T]) Outcome[T] {
	return Outcome[T]{Expected: raw, Actual: m.UnsynthesizeLweCiphertextView(v)}
}

func (lweViewCreation[T]) ComputeCriteria(LweParameters) noise.Criteria { return noise.Exact() }

type lweMutViewCreation[T lwe.Numeric] struct{}

// LweCiphertextMutViewCreation checks that a mutable view wraps its container without
// touching it.
func LweCiphertextMutViewCreation[T lwe.Numeric]() Fixture[T, *core.Engine[T], LweParameters, struct{}, []T, *memory.Buffer[T], *core.LweCiphertextMutView[T]] {
	return lweMutViewCreation[T]{}
}

func (lweMutViewCreation[T]) Name() string { return "lwe-ciphertext-mut-view-creation" }

func (lweMutViewCreation[T]) Parameters() []LweParameters { return lweViewParameters }

func (lweMutViewCreation[T]) RepetitionPrototypes(*Maker[T], LweParameters) struct{} {
	return struct{}{}
}

func (lweMutViewCreation[T]) SamplePrototypes(m *Maker[T], p LweParameters, _ struct{}) []T {
	return m.RandomRawVec(int(p.Dimension.ToLweSize()))
}

func (lweMutViewCreation[T]) PrepareContext(m *Maker[T], _ LweParameters, _ struct{}, raw []T) *memory.Buffer[T] {
	return m.SynthesizeBuffer(raw)
}

func (lweMutViewCreation[T]) ExecuteEngine(e *core.Engine[T], _ LweParameters, buf *memory.Buffer[T], mode Mode) (*core.LweCiphertextMutView[T], error) {
	if mode == Unchecked {
		return e.CreateLweCiphertextMutViewUnchecked(buf), nil
	}
	return e.CreateLweCiphertextMutView(buf)
}

func (lweMutViewCreation[T]) ProcessContext(m *Maker[T], _ LweParameters, _ struct{}, raw []T, _ *memory.Buffer[T], v *core.LweCiphertextMutView[T]) Outcome[T] {
	return Outcome[T]{Expected: raw, Actual: m.UnsynthesizeLweCiphertextMutView(v)}
}

func (lweMutViewCreation[T]) ComputeCriteria(LweParameters) noise.Criteria { return noise.Exact() }

type lweMutViewRetrieval[T lwe.Numeric] struct{}

// LweCiphertextMutViewRetrieval checks that retrieval hands back the exact container a
// mutable view was built on.
func LweCiphertextMutViewRetrieval[T lwe.Numeric]() Fixture[T, *core.Engine[T], LweParameters, struct{}, []T, *core.LweCiphertextMutView[T], *memory.Buffer[T]] {
	return lweMutViewRetrieval[T]{}
}

func (lweMutViewRetrieval[T]) Name() string { return "lwe-ciphertext-mut-view-retrieval" }

func (lweMutViewRetrieval[T]) Parameters() []LweParameters { return lweViewParameters }

func (lweMutViewRetrieval[T]) RepetitionPrototypes(*Maker[T], LweParameters) struct{} {
	return struct{}{}
}

func (lweMutViewRetrieval[T]) SamplePrototypes(m *Maker[T], p LweParameters, _ struct{}) []T {
	return m.RandomRawVec(int(p.Dimension.ToLweSize()))
}

func (lweMutViewRetrieval[T]) PrepareContext(m *Maker[T], _ LweParameters, _ struct{}, raw []T) *core.LweCiphertextMutView[T] {
	return m.SynthesizeLweCiphertextMutView(raw)
}

func (lweMutViewRetrieval[T]) ExecuteEngine(e *core.Engine[T], _ LweParameters, v *core.LweCiphertextMutView[T], mode Mode) (*memory.Buffer[T], error) {
	if mode == Unchecked {
		return e.RetrieveLweCiphertextMutViewUnchecked(v), nil
	}
	return e.RetrieveLweCiphertextMutView(v)
}

func (lweMutViewRetrieval[T]) ProcessContext(m *Maker[T], _ LweParameters, _ struct{}, raw []T, _ *core.LweCiphertextMutView[T], buf *memory.Buffer[T]) Outcome[T] {
	return Outcome[T]{Expected: raw, Actual: m.UnsynthesizeBuffer(buf)}
}

func (lweMutViewRetrieval[T]) ComputeCriteria(LweParameters) noise.Criteria { return noise.Exact() }

type glweViewCreation[T lwe.Numeric] struct{}

// GlweCiphertextViewCreation checks that a GLWE view wraps its container without
// touching it.
func GlweCiphertextViewCreation[T lwe.Numeric]() Fixture[T, *core.Engine[T], GlweParameters, struct{}, []T, *memory.Buffer[T], *core.GlweCiphertextView[T]] {
	return glweViewCreation[T]{}
}

func (glweViewCreation[T]) Name() string { return "glwe-ciphertext-view-creation" }

func (glweViewCreation[T]) Parameters() []GlweParameters { return glweViewParameters }

func (glweViewCreation[T]) RepetitionPrototypes(*Maker[T], GlweParameters) struct{} {
	return struct{}{}
}

func (glweViewCreation[T]) SamplePrototypes(m *Maker[T], p GlweParameters, _ struct{}) []T {
	return m.RandomRawVec(p.size())
}

func (glweViewCreation[T]) PrepareContext(m *Maker[T], _ GlweParameters, _ struct{}, raw []T) *memory.Buffer[T] {
	return m.SynthesizeBuffer(raw)
}

func (glweViewCreation[T]) ExecuteEngine(e *core.Engine[T], p GlweParameters, buf *memory.Buffer[T], mode Mode) (*core.GlweCiphertextView[T], error) {
	if mode == Unchecked {
		return e.CreateGlweCiphertextViewUnchecked(buf, p.PolynomialSize), nil
	}
	return e.CreateGlweCiphertextView(buf, p.PolynomialSize)
}

func (glweViewCreation[T]) ProcessContext(m *Maker[T], _ GlweParameters, _ struct{}, raw []T, _ *memory.Buffer[T], v *core.GlweCiphertextView[T]) Outcome[T] {
	return Outcome[T]{Expected: raw, Actual: m.UnsynthesizeGlweCiphertextView(v)}
}

func (glweViewCreation[T]) ComputeCriteria(GlweParameters) noise.Criteria { return noise.Exact() }

type glweMutViewCreation[T lwe.Numeric] struct{}

// GlweCiphertextMutViewCreation checks that a mutable GLWE view wraps its container
// without touching it.
func GlweCiphertextMutViewCreation[T lwe.Numeric]() Fixture[T, *core.Engine[T], GlweParameters, struct{}, []T, *memory.Buffer[T], *core.GlweCiphertextMutView[T]] {
	return glweMutViewCreation[T]{}
}

func (glweMutViewCreation[T]) Name() string { return "glwe-ciphertext-mut-view-creation" }

func (glweMutViewCreation[T]) Parameters() []GlweParameters { return glweViewParameters }

func (glweMutViewCreation[T]) RepetitionPrototypes(*Maker[T], GlweParameters) struct{} {
	return struct{}{}
}

func (glweMutViewCreation[T]) SamplePrototypes(m *Maker[T], p GlweParameters, _ struct{}) []T {
	return m.RandomRawVec(p.size())
}

func (glweMutViewCreation[T]) PrepareContext(m *Maker[T], _ GlweParameters, _ struct{}, raw []T) *memory.Buffer[T] {
	return m.SynthesizeBuffer(raw)
}

func (glweMutViewCreation[T]) ExecuteEngine(e *core.Engine[T], p GlweParameters, buf *memory.Buffer[T], mode Mode) (*core.GlweCiphertextMutView[T], error) {
	if mode == Unchecked {
		return e.CreateGlweCiphertextMutViewUnchecked(buf, p.PolynomialSize), nil
	}
	return e.CreateGlweCiphertextMutView(buf, p.PolynomialSize)
}

func (glweMutViewCreation[T]) ProcessContext(m *Maker[T], _ GlweParameters, _ struct{}, raw []T, _ *memory.Buffer[T], v *core.GlweCiphertextMutView[T]) Outcome[T] {
	return Outcome[T]{Expected: raw, Actual: m.UnsynthesizeGlweCiphertextMutView(v)}
}

func (glweMutViewCreation[T]) ComputeCriteria(GlweParameters) noise.Criteria { return noise.Exact() }

type glweViewRetrieval[T lwe.Numeric] struct{}

// GlweCiphertextViewRetrieval checks that retrieval hands back the exact container a
// GLWE view was built on.
func GlweCiphertextViewRetrieval[T lwe.Numeric]() Fixture[T, *core.Engine[T], GlweParameters, struct{}, []T, *core.GlweCiphertextView[T], *memory.Buffer[T]] {
	return glweViewRetrieval[T]{}
}

func (glweViewRetrieval[T]) Name() string { return "glwe-ciphertext-view-retrieval" }

func (glweViewRetrieval[T]) Parameters() []GlweParameters { return glweViewParameters }

func (glweViewRetrieval[T]) RepetitionPrototypes(*Maker[T], GlweParameters) struct{} {
	return struct{}{}
}

func (glweViewRetrieval[T]) SamplePrototypes(m *Maker[T], p GlweParameters, _ struct{}) []T {
	return m.RandomRawVec(p.size())
}

func (glweViewRetrieval[T]) PrepareContext(m *Maker[T], p GlweParameters, _ struct{}, raw []T) *core.GlweCiphertextView[T] {
	return m.SynthesizeGlweCiphertextView(raw, p.PolynomialSize)
}

func (glweViewRetrieval[T]) ExecuteEngine(e *core.Engine[T], _ GlweParameters, v *core.GlweCiphertextView[T], mode Mode) (*memory.Buffer[T], error) {
	if mode == Unchecked {
		return e.RetrieveGlweCiphertextViewUnchecked(v), nil
	}
	return e.RetrieveGlweCiphertextView(v)
}

func (glweViewRetrieval[T]) ProcessContext(m *Maker[T], _ GlweParameters, _ struct{}, raw []T, _ *core.GlweCiphertextView[T], buf *memory.Buffer[T]) Outcome[T] {
	return Outcome[T]{Expected: raw, Actual: m.UnsynthesizeBuffer(buf)}
}

func (glweViewRetrieval[T]) ComputeCriteria(GlweParameters) noise.Criteria { return noise.Exact() }
