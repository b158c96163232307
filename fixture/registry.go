// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package fixture

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/luxfi/lwe"
	"github.com/luxfi/lwe/core"
	"github.com/luxfi/lwe/lattice"
)

var (
	ErrUnknownFixture       = errors.New("unknown fixture")
	ErrUnsupportedPrecision = errors.New("fixture does not support this precision")
)

// Runner runs a named fixture at one precision. The seed makes the run reproducible;
// nil draws one from the operating system.
type Runner func(seed []byte, precision lwe.Precision, opts Options) (Report, error)

type precisionRunner func(seed []byte, opts Options) (Report, error)

func byPrecision(r32, r64 precisionRunner) Runner {
	return func(seed []byte, precision lwe.Precision, opts Options) (Report, error) {
		if err := opts.Validate(); err != nil {
			return Report{}, err
		}
		switch {
		case precision == lwe.Precision32 && r32 != nil:
			return r32(seed, opts)
		case precision == lwe.Precision64 && r64 != nil:
			return r64(seed, opts)
		}
		return Report{}, fmt.Errorf("%w: %s", ErrUnsupportedPrecision, precision)
	}
}

func runCore[T lwe.Numeric, P, R, S, Pre, Post any](
	f Fixture[T, *core.Engine[T], P, R, S, Pre, Post],
	seed []byte,
	opts Options,
) (Report, error) {
	m, err := NewMaker[T](seed)
	if err != nil {
		return Report{}, err
	}
	e, err := m.NewEngine(f.Name())
	if err != nil {
		return Report{}, err
	}
	return Run(f, e, m, opts), nil
}

func runLattice(seed []byte, opts Options) (Report, error) {
	params, err := lattice.NewParametersFromLiteral(lattice.PN10QP58)
	if err != nil {
		return Report{}, err
	}
	m, err := NewMaker[uint64](seed)
	if err != nil {
		return Report{}, err
	}
	return Run(LatticeGlweEncryption(params), lattice.NewEngine(params), m, opts), nil
}

var registry = map[string]Runner{
	"lwe-ciphertext-view-creation": byPrecision(
		func(seed []byte, o Options) (Report, error) {
			return runCore(LweCiphertextViewCreation[uint32](), seed, o)
		},
		func(seed []byte, o Options) (Report, error) {
			return runCore(LweCiphertextViewCreation[uint64](), seed, o)
		},
	),
	"lwe-ciphertext-mut-view-creation": byPrecision(
		func(seed []byte, o Options) (Report, error) {
			return runCore(LweCiphertextMutViewCreation[uint32](), seed, o)
		},
		func(seed []byte, o Options) (Report, error) {
			return runCore(LweCiphertextMutViewCreation[uint64](), seed, o)
		},
	),
	"lwe-ciphertext-mut-view-retrieval": byPrecision(
		func(seed []byte, o Options) (Report, error) {
			return runCore(LweCiphertextMutViewRetrieval[uint32](), seed, o)
		},
		func(seed []byte, o Options) (Report, error) {
			return runCore(LweCiphertextMutViewRetrieval[uint64](), seed, o)
		},
	),
	"glwe-ciphertext-view-creation": byPrecision(
		func(seed []byte, o Options) (Report, error) {
			return runCore(GlweCiphertextViewCreation[uint32](), seed, o)
		},
		func(seed []byte, o Options) (Report, error) {
			return runCore(GlweCiphertextViewCreation[uint64](), seed, o)
		},
	),
	"glwe-ciphertext-mut-view-creation": byPrecision(
		func(seed []byte, o Options) (Report, error) {
			return runCore(GlweCiphertextMutViewCreation[uint32](), seed, o)
		},
		func(seed []byte, o Options) (Report, error) {
			return runCore(GlweCiphertextMutViewCreation[uint64](), seed, o)
		},
	),
	"glwe-ciphertext-view-retrieval": byPrecision(
		func(seed []byte, o Options) (Report, error) {
			return runCore(GlweCiphertextViewRetrieval[uint32](), seed, o)
		},
		func(seed []byte, o Options) (Report, error) {
			return runCore(GlweCiphertextViewRetrieval[uint64](), seed, o)
		},
	),
	"lwe-ciphertext-vector-encryption": byPrecision(
		func(seed []byte, o Options) (Report, error) {
			return runCore(LweCiphertextVectorEncryption[uint32](), seed, o)
		},
		func(seed []byte, o Options) (Report, error) {
			return runCore(LweCiphertextVectorEncryption[uint64](), seed, o)
		},
	),
	"glwe-ciphertext-decryption": byPrecision(
		func(seed []byte, o Options) (Report, error) {
			return runCore(GlweCiphertextDecryption[uint32](), seed, o)
		},
		func(seed []byte, o Options) (Report, error) {
			return runCore(GlweCiphertextDecryption[uint64](), seed, o)
		},
	),
	"lwe-ciphertext-keyswitch": byPrecision(
		func(seed []byte, o Options) (Report, error) {
			return runCore(LweCiphertextKeyswitch[uint32](), seed, o)
		},
		func(seed []byte, o Options) (Report, error) {
			return runCore(LweCiphertextKeyswitch[uint64](), seed, o)
		},
	),
	"lattice-glwe-encryption": byPrecision(nil, runLattice),
}

// Lookup returns the runner of a named fixture.
func Lookup(name string) (Runner, error) {
	r, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFixture, name)
	}
	return r, nil
}

// Names returns the registered fixture names in order.
func Names() []string {
	return slices.Sorted(maps.Keys(registry))
}
