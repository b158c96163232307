// Package backend holds the ciphertext arithmetic over the native moduli 2^32 and 2^64.
//
// Every function works on raw, already validated slices: shapes are the caller's
// responsibility and nothing here allocates ciphertext memory. Arithmetic wraps, which
// is reduction modulo 2^w for free.
package backend

import (
	"math"

	"github.com/luxfi/lwe"
)

// Random is the randomness a backend operation consumes.
type Random interface {
	Uint64() uint64
	Normal() float64
}

// FillUniform overwrites dst with uniform words.
func FillUniform[T lwe.Numeric](r Random, dst []T) {
	for i := range dst {
		dst[i] = T(r.Uint64())
	}
}

// FillBinary overwrites dst with uniform bits.
func FillBinary[T lwe.Numeric](r Random, dst []T) {
	var bits uint64
	for i := range dst {
		if i%64 == 0 {
			bits = r.Uint64()
		}
		dst[i] = T(bits & 1)
		bits >>= 1
	}
}

// Noise samples a rounded Gaussian of torus variance v, scaled to the native modulus.
func Noise[T lwe.Numeric](r Random, v lwe.Variance) T {
	if v == 0 {
		return 0
	}
	sigma := math.Sqrt(float64(v)) * math.Ldexp(1, int(lwe.BitsOf[T]()))
	return wrap[T](math.Round(r.Normal() * sigma))
}

func wrap[T lwe.Numeric](x float64) T {
	if math.Abs(x) < 1<<62 {
		return T(int64(x))
	}
	m := math.Ldexp(1, int(lwe.BitsOf[T]()))
	x = math.Mod(x, m)
	if x < 0 {
		x += m
	}
	if x >= m {
		x -= m
	}
	return T(uint64(x))
}

// Dot returns <a, s>.
func Dot[T lwe.Numeric](a, s []T) T {
	var acc T
	for i := range a {
		acc += a[i] * s[i]
	}
	return acc
}

// MulAddNegacyclic accumulates a·s into acc in Z[X]/(X^N+1). All three have length N.
func MulAddNegacyclic[T lwe.Numeric](acc, a, s []T) {
	n := len(acc)
	for j, sj := range s {
		if sj == 0 {
			continue
		}
		for i, ai := range a {
			if k := i + j; k < n {
				acc[k] += ai * sj
			} else {
				acc[k-n] -= ai * sj
			}
		}
	}
}

// MulSubNegacyclic subtracts a·s from acc in Z[X]/(X^N+1).
func MulSubNegacyclic[T lwe.Numeric](acc, a, s []T) {
	n := len(acc)
	for j, sj := range s {
		if sj == 0 {
			continue
		}
		for i, ai := range a {
			if k := i + j; k < n {
				acc[k] -= ai * sj
			} else {
				acc[k-n] += ai * sj
			}
		}
	}
}
