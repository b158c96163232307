// Package lwe defines the entity and engine capability framework for LWE and GLWE
// ciphertexts over the native moduli 2^32 and 2^64.
//
// The package holds no arithmetic. It fixes the vocabulary every backend shares:
//   - precision and key-distribution markers
//   - typed dimensions (LWE dimension, polynomial size, counts, decomposition parameters)
//   - entity interfaces exposing read-only shape accessors
//   - one generic capability interface per operation family, each with a checked
//     entry point returning a tagged error and an unchecked entry point that trusts
//     its caller
//
// Backends live in sub-packages: core implements every capability over native moduli,
// lattice implements the GLWE family over the prime-modulus RLWE of luxfi/lattice.
//
// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause
package lwe

import "math"

// Numeric is the set of native words a ciphertext can be built over.
// The type parameter doubles as the compile-time precision marker.
type Numeric interface {
	~uint32 | ~uint64
}

// Precision tags the integer width of an entity.
type Precision uint8

const (
	Precision32 Precision = 32
	Precision64 Precision = 64
)

// String implements fmt.Stringer.
func (p Precision) String() string {
	switch p {
	case Precision32:
		return "32"
	case Precision64:
		return "64"
	default:
		return "unknown"
	}
}

// BitsOf returns the word width of T.
func BitsOf[T Numeric]() uint {
	var z T
	if uint64(^z) == math.MaxUint32 {
		return 32
	}
	return 64
}

// PrecisionOf maps the type parameter to its precision tag.
func PrecisionOf[T Numeric]() Precision {
	return Precision(BitsOf[T]())
}

// KeyDistribution tags the distribution secret key coefficients are drawn from.
type KeyDistribution uint8

const (
	BinaryKeyDistribution KeyDistribution = iota
	TernaryKeyDistribution
	GaussianKeyDistribution
)

// String implements fmt.Stringer.
func (d KeyDistribution) String() string {
	switch d {
	case BinaryKeyDistribution:
		return "binary"
	case TernaryKeyDistribution:
		return "ternary"
	case GaussianKeyDistribution:
		return "gaussian"
	default:
		return "unknown"
	}
}

// KeyFlavor is the compatibility tag every entity carries. Entities can only be
// combined in one operation when their flavors are equal.
type KeyFlavor struct {
	Precision    Precision
	Distribution KeyDistribution
}

// BinaryFlavor returns the flavor of binary-key entities over T.
func BinaryFlavor[T Numeric]() KeyFlavor {
	return KeyFlavor{Precision: PrecisionOf[T](), Distribution: BinaryKeyDistribution}
}

// String implements fmt.Stringer.
func (f KeyFlavor) String() string {
	return f.Distribution.String() + "/" + f.Precision.String()
}

// ToSigned reinterprets a native word as a two's complement integer of the same width.
func ToSigned[T Numeric](x T) int64 {
	if BitsOf[T]() == 32 {
		return int64(int32(uint32(x)))
	}
	return int64(uint64(x))
}

// ToTorus maps a native word to the torus representative in [-1/2, 1/2).
func ToTorus[T Numeric](x T) float64 {
	return math.Ldexp(float64(ToSigned(x)), -int(BitsOf[T]()))
}
