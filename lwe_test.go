// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package lwe

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

type word32 uint32

func TestPrecision(t *testing.T) {
	require.Equal(t, uint(32), BitsOf[uint32]())
	require.Equal(t, uint(64), BitsOf[uint64]())
	require.Equal(t, uint(32), BitsOf[word32]())

	require.Equal(t, Precision32, PrecisionOf[uint32]())
	require.Equal(t, Precision64, PrecisionOf[uint64]())
	require.Equal(t, "64", Precision64.String())
	require.Equal(t, "unknown", Precision(16).String())

	require.Equal(t, KeyFlavor{Precision: Precision32, Distribution: BinaryKeyDistribution}, BinaryFlavor[uint32]())
	require.Equal(t, "binary/64", BinaryFlavor[uint64]().String())
	require.NotEqual(t, BinaryFlavor[uint32](), BinaryFlavor[uint64]())
	require.Equal(t, "ternary", TernaryKeyDistribution.String())
	require.Equal(t, "gaussian", GaussianKeyDistribution.String())
}

func TestTorus(t *testing.T) {
	require.Equal(t, int64(-1), ToSigned(uint32(math.MaxUint32)))
	require.Equal(t, int64(math.MinInt32), ToSigned(uint32(1<<31)))
	require.Equal(t, int64(-1), ToSigned(uint64(math.MaxUint64)))
	require.Equal(t, int64(12), ToSigned(uint64(12)))

	require.Equal(t, 0.0, ToTorus(uint32(0)))
	require.Equal(t, -0.5, ToTorus(uint32(1<<31)))
	require.Equal(t, 0.25, ToTorus(uint64(1<<62)))
	require.Equal(t, -0.25, ToTorus(uint64(3<<62)))
	require.Equal(t, math.Ldexp(-1, -64), ToTorus(uint64(math.MaxUint64)))
}

func TestDimensions(t *testing.T) {
	require.Equal(t, LweSize(513), LweDimension(512).ToLweSize())
	require.Equal(t, LweDimension(512), LweSize(513).ToLweDimension())
	require.Equal(t, GlweSize(3), GlweDimension(2).ToGlweSize())
	require.Equal(t, GlweDimension(2), GlweSize(3).ToGlweDimension())
	require.Equal(t, LweSize(1), LweDimension(0).ToLweSize())
}
