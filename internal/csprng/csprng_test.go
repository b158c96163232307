package csprng

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/luxfi/lattice/v7/utils/sampling"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"
)

func TestDeterministic(t *testing.T) {
	a, err := New([]byte("seed"))
	require.NoError(t, err)
	b, err := New([]byte("seed"))
	require.NoError(t, err)
	c, err := New([]byte("other"))
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		x := a.Uint64()
		require.Equal(t, x, b.Uint64())
		require.NotEqual(t, x, c.Uint64())
	}
}

func TestFork(t *testing.T) {
	g, err := New([]byte("seed"))
	require.NoError(t, err)

	f1, err := g.Fork("worker")
	require.NoError(t, err)
	f2, err := g.Fork("worker")
	require.NoError(t, err)

	require.NotEqual(t, f1.Uint64(), f2.Uint64())
}

func TestNormalMoments(t *testing.T) {
	g, err := New([]byte("normal"))
	require.NoError(t, err)

	const n = 200000
	var sum, sq float64
	for i := 0; i < n; i++ {
		x := g.Normal()
		sum += x
		sq += x * x
	}
	mean := sum / n
	variance := sq/n - mean*mean

	require.InDelta(t, 0, mean, 5/math.Sqrt(n))
	require.InDelta(t, 1, variance, 0.02)
}

func TestFloat64Range(t *testing.T) {
	g, err := NewRandom()
	require.NoError(t, err)

	for i := 0; i < 10000; i++ {
		f := g.Float64()
		require.Greater(t, f, 0.0)
		require.LessOrEqual(t, f, 1.0)
	}
}

func TestEpochStream(t *testing.T) {
	g, err := New([]byte("epoch"))
	require.NoError(t, err)

	seed := blake3.Sum256([]byte("epoch"))
	material := make([]byte, SeedSize+8)
	copy(material, seed[:])
	binary.LittleEndian.PutUint64(material[SeedSize:], 0)
	key := make([]byte, 32)
	blake3.DeriveKey(epochContext, material, key)

	prng, err := sampling.NewKeyedPRNG(key)
	require.NoError(t, err)

	want := make([]byte, 256)
	_, err = prng.Read(want)
	require.NoError(t, err)
	got := make([]byte, 256)
	_, err = g.Read(got)
	require.NoError(t, err)
	require.Equal(t, want, got)

	// A new epoch starts from a different key.
	g.read = epochBytes
	_, err = g.Read(got)
	require.NoError(t, err)
	require.Equal(t, uint64(2), g.epoch)
	_, err = prng.Read(want)
	require.NoError(t, err)
	require.NotEqual(t, want, got)
}
