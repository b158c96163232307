// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package lattice

import (
	"math"
	"math/big"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/lwe"
	"github.com/luxfi/lwe/noise"
)

func TestEngine(t *testing.T) {
	params, err := NewParametersFromLiteral(PN10QP58)
	require.NoError(t, err)
	require.Equal(t, lwe.PolynomialSize(1024), params.N())
	require.Equal(t, PN10QP58, params.Literal())

	e := NewEngine(params)
	r := rand.New(rand.NewPCG(7, 11))
	n := int(params.N())
	q := params.Q()

	sk, err := e.GenerateNewGlweSecretKey(1, params.N())
	require.NoError(t, err)
	require.Equal(t, lwe.TernaryKeyDistribution, sk.KeyFlavor().Distribution)

	t.Run("EncryptDecrypt", func(t *testing.T) {
		v := lwe.Variance(math.Ldexp(1, -80))

		var expected, actual []uint64
		for range 2 {
			msg := make([]uint64, n)
			for i := range msg {
				msg[i] = r.Uint64N(q)
			}
			pv, err := e.CreatePlaintextVector(msg)
			require.NoError(t, err)

			ct, err := e.EncryptGlweCiphertext(sk, pv, v)
			require.NoError(t, err)
			out, err := e.DecryptGlweCiphertext(sk, ct)
			require.NoError(t, err)
			got, err := e.RetrievePlaintextVector(out)
			require.NoError(t, err)

			expected = append(expected, msg...)
			actual = append(actual, got...)

			for _, entity := range []lwe.Entity{pv, ct, out} {
				require.NoError(t, e.Destroy(entity))
			}
		}

		require.NoError(t, noise.CheckModular(expected, actual, q, noise.Gaussian(v), noise.DefaultConfidence))
		require.ErrorIs(t, noise.CheckModular(expected, actual, q, noise.Exact(), noise.DefaultConfidence), noise.ErrNotExact)
	})

	t.Run("Preconditions", func(t *testing.T) {
		_, err := e.GenerateNewGlweSecretKey(2, params.N())
		require.ErrorIs(t, err, lwe.ErrGlweDimensionMismatch)
		_, err = e.GenerateNewGlweSecretKey(1, 512)
		require.ErrorIs(t, err, lwe.ErrPolynomialSizeMismatch)
		_, err = e.GenerateNewGlweSecretKey(0, params.N())
		require.ErrorIs(t, err, lwe.ErrZeroDimension)

		_, err = e.CreatePlaintextVector(nil)
		require.ErrorIs(t, err, lwe.ErrEmptyContainer)

		short := e.CreatePlaintextVectorUnchecked(make([]uint64, 10))
		_, err = e.EncryptGlweCiphertext(sk, short, 1e-20)
		require.ErrorIs(t, err, lwe.ErrPlaintextCountMismatch)

		full := e.CreatePlaintextVectorUnchecked(make([]uint64, n))
		_, err = e.EncryptGlweCiphertext(sk, full, 0)
		require.ErrorIs(t, err, lwe.ErrInvalidVariance)

		other, err := NewParametersFromLiteral(PN11QP58)
		require.NoError(t, err)
		big := NewEngine(other)
		bigKey := big.GenerateNewGlweSecretKeyUnchecked(1, other.N())
		ct := e.EncryptGlweCiphertextUnchecked(sk, full, 1e-20)
		_, err = e.DecryptGlweCiphertext(bigKey, ct)
		require.ErrorIs(t, err, lwe.ErrPolynomialSizeMismatch)

		require.NoError(t, e.Destroy(ct))
		require.ErrorIs(t, e.Destroy(ct), lwe.ErrEntityConsumed)
		_, err = e.DecryptGlweCiphertext(sk, ct)
		require.ErrorIs(t, err, lwe.ErrEntityConsumed)
	})
}

func TestPresets(t *testing.T) {
	require.Len(t, Presets(), 2)
	for name, lit := range Presets() {
		t.Run(name, func(t *testing.T) {
			q := new(big.Int).SetUint64(lit.Q)
			require.True(t, q.ProbablyPrime(32))
			require.Equal(t, uint64(1), lit.Q%(2<<lit.LogN))

			params, err := NewParametersFromLiteral(lit)
			require.NoError(t, err)
			require.Equal(t, lit, params.Literal())
			require.Equal(t, lwe.PolynomialSize(1<<lit.LogN), params.N())

			e := NewEngine(params)
			sk := e.GenerateNewGlweSecretKeyUnchecked(1, params.N())
			r := rand.New(rand.NewPCG(uint64(lit.LogN), 3))
			msg := make([]uint64, params.N())
			for i := range msg {
				msg[i] = r.Uint64N(lit.Q)
			}
			v := lwe.Variance(math.Ldexp(1, -80))
			pv := e.CreatePlaintextVectorUnchecked(msg)
			ct, err := e.EncryptGlweCiphertext(sk, pv, v)
			require.NoError(t, err)
			out, err := e.DecryptGlweCiphertext(sk, ct)
			require.NoError(t, err)
			got := e.RetrievePlaintextVectorUnchecked(out)
			require.NoError(t, noise.CheckModular(msg, got, lit.Q, noise.Gaussian(v), noise.DefaultConfidence))

			require.NoError(t, e.Destroy(pv))
			require.NoError(t, e.Destroy(ct))
		})
	}
}
