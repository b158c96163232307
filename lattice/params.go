// Package lattice is a GLWE engine backed by the RLWE implementation of
// github.com/luxfi/lattice over an NTT-friendly prime modulus.
//
// Keys are ternary and k is always 1. Ciphertext words live modulo Q, so the
// entities of this package cannot be mixed with those of package core; their
// KeyFlavor says so.
//
// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause
package lattice

import (
	"fmt"
	"math"

	"github.com/luxfi/lattice/v7/core/rlwe"
	"github.com/luxfi/lattice/v7/ring"

	"github.com/luxfi/lwe"
)

// ParametersLiteral is a user-specified parameter set.
type ParametersLiteral struct {
	LogN int
	Q    uint64
}

// q58 is a 58-bit prime with q = 1 mod 2^12, so it supports the NTT up to N = 2048.
const q58 = 0x3ffffffffff9001

var (
	// PN10QP58 is a 1024-coefficient ring over a 58-bit prime.
	PN10QP58 = ParametersLiteral{
		LogN: 10,
		Q:    q58,
	}

	// PN11QP58 is a 2048-coefficient ring over the same prime.
	PN11QP58 = ParametersLiteral{
		LogN: 11,
		Q:    q58,
	}
)

// Presets returns the named parameter literals.
func Presets() map[string]ParametersLiteral {
	return map[string]ParametersLiteral{
		"PN10QP58": PN10QP58,
		"PN11QP58": PN11QP58,
	}
}

// Parameters is an expanded parameter set.
type Parameters struct {
	rlwe rlwe.Parameters
}

// NewParametersFromLiteral expands a literal into Parameters.
func NewParametersFromLiteral(lit ParametersLiteral) (Parameters, error) {
	p, err := newRLWEParameters(lit, rlwe.DefaultXe)
	if err != nil {
		return Parameters{}, err
	}
	return Parameters{rlwe: p}, nil
}

func newRLWEParameters(lit ParametersLiteral, xe ring.DistributionParameters) (rlwe.Parameters, error) {
	p, err := rlwe.NewParametersFromLiteral(rlwe.ParametersLiteral{
		LogN:    lit.LogN,
		Q:       []uint64{lit.Q},
		Xe:      xe,
		NTTFlag: true,
	})
	if err != nil {
		return rlwe.Parameters{}, fmt.Errorf("lattice parameters: %w", err)
	}
	return p, nil
}

// withVariance returns p with a discrete Gaussian error of torus variance v.
func (p Parameters) withVariance(v lwe.Variance) (rlwe.Parameters, error) {
	sigma := math.Sqrt(float64(v)) * float64(p.Q())
	return newRLWEParameters(p.Literal(), ring.DiscreteGaussian{Sigma: sigma, Bound: 6 * sigma})
}

// Literal returns the literal p was built from.
func (p Parameters) Literal() ParametersLiteral {
	return ParametersLiteral{LogN: p.rlwe.LogN(), Q: p.Q()}
}

// N returns the polynomial size.
func (p Parameters) N() lwe.PolynomialSize {
	return lwe.PolynomialSize(p.rlwe.N())
}

// Q returns the ciphertext modulus.
func (p Parameters) Q() uint64 {
	return p.rlwe.Q()[0]
}
