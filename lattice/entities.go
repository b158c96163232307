// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package lattice

import (
	"github.com/luxfi/lattice/v7/core/rlwe"

	"github.com/luxfi/lwe"
)

var flavor = lwe.KeyFlavor{Precision: lwe.Precision64, Distribution: lwe.TernaryKeyDistribution}

type lifetime struct {
	destroyed bool
}

func (l *lifetime) consumed() bool { return l.destroyed }

func (l *lifetime) destroy() { l.destroyed = true }

// GlweSecretKey is a ternary RLWE secret key.
type GlweSecretKey struct {
	lifetime
	sk *rlwe.SecretKey
	n  lwe.PolynomialSize
}

func (*GlweSecretKey) KeyFlavor() lwe.KeyFlavor { return flavor }

func (*GlweSecretKey) GlweDimension() lwe.GlweDimension { return 1 }

func (k *GlweSecretKey) PolynomialSize() lwe.PolynomialSize { return k.n }

// GlweCiphertext is a degree-one RLWE ciphertext.
type GlweCiphertext struct {
	lifetime
	ct *rlwe.Ciphertext
	n  lwe.PolynomialSize
}

func (*GlweCiphertext) KeyFlavor() lwe.KeyFlavor { return flavor }

func (*GlweCiphertext) GlweDimension() lwe.GlweDimension { return 1 }

func (c *GlweCiphertext) PolynomialSize() lwe.PolynomialSize { return c.n }

// PlaintextVector holds coefficients modulo Q.
type PlaintextVector struct {
	lifetime
	values []uint64
}

func (*PlaintextVector) KeyFlavor() lwe.KeyFlavor { return flavor }

func (p *PlaintextVector) PlaintextCount() lwe.PlaintextCount {
	return lwe.PlaintextCount(len(p.values))
}

// Data returns the coefficients.
func (p *PlaintextVector) Data() []uint64 { return p.values }

type destroyable interface {
	lwe.Entity
	consumed() bool
	destroy()
}
