// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package noise

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/lwe"
)

func gaussianPairs[T lwe.Numeric](r *rand.Rand, n int, v float64, shift float64) (expected, actual []T) {
	scale := math.Ldexp(1, int(lwe.BitsOf[T]()))
	sigma := math.Sqrt(v) * scale

	expected = make([]T, n)
	actual = make([]T, n)
	for i := range expected {
		expected[i] = T(r.Uint64())
		e := int64(math.Round(r.NormFloat64()*sigma + shift*scale))
		actual[i] = expected[i] + T(e)
	}
	return
}

func TestCheck(t *testing.T) {
	testCheck[uint32](t, math.Ldexp(1, -28))
	testCheck[uint64](t, math.Ldexp(1, -40))
}

func testCheck[T lwe.Numeric](t *testing.T, v float64) {
	r := rand.New(rand.NewPCG(1, uint64(lwe.BitsOf[T]())))

	t.Run(lwe.PrecisionOf[T]().String()+"/Gaussian", func(t *testing.T) {
		expected, actual := gaussianPairs[T](r, 2000, v, 0)
		require.NoError(t, Check(expected, actual, Gaussian(lwe.Variance(v)), DefaultConfidence))
	})

	t.Run(lwe.PrecisionOf[T]().String()+"/VarianceTooLarge", func(t *testing.T) {
		expected, actual := gaussianPairs[T](r, 2000, 4*v, 0)
		require.ErrorIs(t, Check(expected, actual, Gaussian(lwe.Variance(v)), DefaultConfidence), ErrVarianceOutOfRange)
	})

	t.Run(lwe.PrecisionOf[T]().String()+"/VarianceTooSmall", func(t *testing.T) {
		expected, actual := gaussianPairs[T](r, 2000, v/4, 0)
		require.ErrorIs(t, Check(expected, actual, Gaussian(lwe.Variance(v)), DefaultConfidence), ErrVarianceOutOfRange)
		require.NoError(t, Check(expected, actual, AtMost(lwe.Variance(v)), DefaultConfidence))
	})

	t.Run(lwe.PrecisionOf[T]().String()+"/Biased", func(t *testing.T) {
		expected, actual := gaussianPairs[T](r, 2000, v, math.Sqrt(v))
		require.ErrorIs(t, Check(expected, actual, Gaussian(lwe.Variance(v)), DefaultConfidence), ErrMeanOutOfRange)
	})

	t.Run(lwe.PrecisionOf[T]().String()+"/Exact", func(t *testing.T) {
		expected, _ := gaussianPairs[T](r, 100, v, 0)
		actual := append([]T(nil), expected...)
		require.NoError(t, Check(expected, actual, Exact(), DefaultConfidence))

		actual[42]++
		require.ErrorIs(t, Check(expected, actual, Exact(), DefaultConfidence), ErrNotExact)
	})
}

func TestCheckPreconditions(t *testing.T) {
	require.ErrorIs(t, Check([]uint32{1, 2}, []uint32{1}, Exact(), DefaultConfidence), ErrLengthMismatch)
	require.ErrorIs(t, Check([]uint32{1}, []uint32{1}, Gaussian(1e-9), DefaultConfidence), ErrTooFewSamples)
	require.ErrorIs(t, Check([]uint32{1, 2}, []uint32{1, 2}, Gaussian(1e-9), 1), ErrInvalidConfidence)
	require.ErrorIs(t, Check([]uint32{1, 2}, []uint32{1, 2}, Gaussian(1e-9), Confidence(math.NaN())), ErrInvalidConfidence)
}

func TestCheckModular(t *testing.T) {
	const q = uint64(0x1fffffffffe00001)
	r := rand.New(rand.NewPCG(2, 3))
	v := math.Ldexp(1, -80)
	sigma := math.Sqrt(v) * float64(q)

	expected := make([]uint64, 1500)
	actual := make([]uint64, 1500)
	for i := range expected {
		expected[i] = r.Uint64N(q)
		e := int64(math.Round(r.NormFloat64() * sigma))
		actual[i] = uint64((int64(expected[i]) + e + int64(q)) % int64(q))
	}

	require.NoError(t, CheckModular(expected, actual, q, Gaussian(lwe.Variance(v)), DefaultConfidence))
	require.ErrorIs(t, CheckModular(expected, actual, q, Exact(), DefaultConfidence), ErrNotExact)
	require.ErrorIs(t, CheckModular(expected, actual, q, Gaussian(lwe.Variance(v/8)), DefaultConfidence), ErrVarianceOutOfRange)
}

func TestChiSquaredQuantile(t *testing.T) {
	// Reference quantiles of chi-squared with 999 degrees of freedom.
	require.InDelta(t, 1073.64, chiSquaredQuantile(999, 1.6448536), 0.5)
	require.InDelta(t, 926.63, chiSquaredQuantile(999, -1.6448536), 0.5)
	require.Zero(t, chiSquaredQuantile(1, -10))
}

func TestLweKeyswitchVariance(t *testing.T) {
	require.Equal(t, lwe.Variance(1e-9), LweKeyswitchVariance(1e-9, 0, 3, 4, 1e-12, 64))

	// l·b == w leaves no rounding term.
	v := LweKeyswitchVariance(0, 10, 8, 8, 1e-20, 64)
	require.InDelta(t, 10*8*(65536.0+2)/12*1e-20, float64(v), 1e-24)

	v = LweKeyswitchVariance(0, 256, 3, 4, 0, 32)
	require.InDelta(t, 256*(math.Ldexp(1, -24)-math.Ldexp(1, -64))/12, float64(v), 1e-15)
	require.Equal(t, lwe.Variance(1e-6), GlweDecryptionVariance(1e-6))
}
