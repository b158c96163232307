// Package csprng provides the secure randomness source engines draw masks, keys and
// noise from.
//
// A Generator expands a 32-byte seed with a lattice sampling.KeyedPRNG. The PRNG key
// is derived per epoch from the seed with BLAKE3 key derivation, and the generator
// moves to a fresh epoch before the BLAKE2b XOF output limit is reached. Generators are not safe for concurrent
// use; Fork derives an independent child stream for another goroutine.
package csprng

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/luxfi/lattice/v7/utils/sampling"
	"github.com/zeebo/blake3"
)

const (
	// SeedSize is the size of the internal seed.
	SeedSize = 32

	epochBytes   = 1 << 32
	epochContext = "luxfi/lwe csprng 2025-01 epoch"
	forkContext  = "luxfi/lwe csprng 2025-01 fork "
)

// Generator is a deterministic stream keyed by a seed.
type Generator struct {
	seed  [SeedSize]byte
	epoch uint64
	read  uint64
	prng  *sampling.KeyedPRNG

	block [64]byte
	pos   int

	spare    float64
	hasSpare bool
}

// New returns a generator whose output is fully determined by seed.
func New(seed []byte) (*Generator, error) {
	g := &Generator{seed: blake3.Sum256(seed)}
	if err := g.rekey(); err != nil {
		return nil, err
	}
	return g, nil
}

// NewRandom returns a generator seeded from the operating system.
func NewRandom() (*Generator, error) {
	seed := make([]byte, SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("read system seed: %w", err)
	}
	return New(seed)
}

func (g *Generator) rekey() error {
	material := make([]byte, SeedSize+8)
	copy(material, g.seed[:])
	binary.LittleEndian.PutUint64(material[SeedSize:], g.epoch)

	var key [32]byte
	blake3.DeriveKey(epochContext, material, key[:])

	prng, err := sampling.NewKeyedPRNG(key[:])
	if err != nil {
		return fmt.Errorf("create keyed prng: %w", err)
	}

	g.prng = prng
	g.epoch++
	g.read = 0
	g.pos = len(g.block)
	return nil
}

// Read fills p with random bytes. It implements io.Reader.
func (g *Generator) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if g.read == epochBytes {
			if err := g.rekey(); err != nil {
				return n, err
			}
		}
		chunk := p[n:]
		if left := epochBytes - g.read; uint64(len(chunk)) > left {
			chunk = chunk[:left]
		}
		m, err := g.prng.Read(chunk)
		n += m
		g.read += uint64(m)
		if err != nil {
			return n, fmt.Errorf("read keyed prng: %w", err)
		}
	}
	return n, nil
}

// Uint64 returns 64 uniform bits.
func (g *Generator) Uint64() uint64 {
	if g.pos+8 > len(g.block) {
		if _, err := g.Read(g.block[:]); err != nil {
			panic(err)
		}
		g.pos = 0
	}
	v := binary.LittleEndian.Uint64(g.block[g.pos:])
	g.pos += 8
	return v
}

// Float64 returns a uniform float in (0, 1].
func (g *Generator) Float64() float64 {
	return float64(g.Uint64()>>11+1) / (1 << 53)
}

// Normal returns a standard normal sample.
func (g *Generator) Normal() float64 {
	if g.hasSpare {
		g.hasSpare = false
		return g.spare
	}

	r := math.Sqrt(-2 * math.Log(g.Float64()))
	s, c := math.Sincos(2 * math.Pi * g.Float64())

	g.spare = r * s
	g.hasSpare = true
	return r * c
}

// Fork derives an independent generator bound to label. The parent advances, so
// forking twice with the same label yields different streams.
func (g *Generator) Fork(label string) (*Generator, error) {
	material := make([]byte, SeedSize)
	if _, err := g.Read(material); err != nil {
		return nil, err
	}

	child := &Generator{}
	blake3.DeriveKey(forkContext+label, material, child.seed[:])
	if err := child.rekey(); err != nil {
		return nil, err
	}
	return child, nil
}
