package backend

import (
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/lwe"
	"github.com/luxfi/lwe/internal/csprng"
)

func newRandom(t *testing.T) *csprng.Generator {
	g, err := csprng.New([]byte(t.Name()))
	require.NoError(t, err)
	return g
}

func TestDecompose(t *testing.T) {
	testDecompose[uint32](t)
	testDecompose[uint64](t)
}

func testDecompose[T lwe.Numeric](t *testing.T) {
	w := int(lwe.BitsOf[T]())
	r := newRandom(t)

	for _, p := range []struct{ baseLog, level int }{{4, 3}, {2, 5}, {8, 2}, {1, 8}} {
		t.Run(fmt.Sprintf("w=%d/B=%d/l=%d", w, p.baseLog, p.level), func(t *testing.T) {
			digits := make([]T, p.level)
			half := int64(1) << (p.baseLog - 1)
			dropped := w - p.baseLog*p.level

			for i := 0; i < 1000; i++ {
				x := T(r.Uint64())
				Decompose(x, p.baseLog, p.level, digits)

				var sum T
				for j, d := range digits {
					sd := lwe.ToSigned(d)
					require.GreaterOrEqual(t, sd, -half)
					require.Less(t, sd, half)
					sum += d << uint(w-(j+1)*p.baseLog)
				}

				diff := lwe.ToSigned(x - sum)
				require.LessOrEqual(t, math.Abs(float64(diff)), math.Ldexp(1, dropped-1))
			}
		})
	}
}

func TestMulNegacyclic(t *testing.T) {
	r := newRandom(t)

	const n = 16
	a := make([]uint32, n)
	s := make([]uint32, n)
	FillUniform(r, a)
	FillBinary(r, s)

	want := make([]uint32, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			prod := a[i] * s[j]
			if i+j < n {
				want[i+j] += prod
			} else {
				want[i+j-n] -= prod
			}
		}
	}

	got := make([]uint32, n)
	MulAddNegacyclic(got, a, s)
	require.Empty(t, cmp.Diff(want, got))

	MulSubNegacyclic(got, a, s)
	require.Empty(t, cmp.Diff(make([]uint32, n), got))
}

func TestNoise(t *testing.T) {
	r := newRandom(t)

	require.Zero(t, Noise[uint64](r, 0))

	const n = 20000
	v := lwe.Variance(math.Ldexp(1, -30))
	var sq float64
	for i := 0; i < n; i++ {
		e := lwe.ToTorus(Noise[uint64](r, v))
		sq += e * e
	}
	require.InEpsilon(t, float64(v), sq/n, 0.05)
}

func TestExactRoundTrip(t *testing.T) {
	r := newRandom(t)

	t.Run("Lwe", func(t *testing.T) {
		sk := make([]uint32, 512)
		FillBinary(r, sk)
		pts := make([]uint32, 10)
		FillUniform(r, pts)

		cts := make([]uint32, len(pts)*(len(sk)+1))
		EncryptLweList(r, cts, sk, pts, 0)

		got := make([]uint32, len(pts))
		DecryptLweList(got, cts, sk)
		require.Empty(t, cmp.Diff(pts, got))
	})

	t.Run("Glwe", func(t *testing.T) {
		const k, n = 2, 64
		sk := make([]uint64, k*n)
		FillBinary(r, sk)
		pts := make([]uint64, 3*n)
		FillUniform(r, pts)

		cts := make([]uint64, 3*(k+1)*n)
		EncryptGlweList(r, cts, sk, pts, n, 0)

		got := make([]uint64, len(pts))
		DecryptGlweList(got, cts, sk, n)
		require.Empty(t, cmp.Diff(pts, got))
	})
}

func TestKeyswitch(t *testing.T) {
	r := newRandom(t)

	const nIn, nOut, baseLog, level = 64, 32, 6, 4
	in := make([]uint64, nIn)
	out := make([]uint64, nOut)
	FillBinary(r, in)
	FillBinary(r, out)

	ksk := make([]uint64, nIn*level*(nOut+1))
	FillKeyswitchKey(r, ksk, in, out, baseLog, level, 0)

	for m := uint64(0); m < 16; m++ {
		pt := m << 60
		ct := make([]uint64, nIn+1)
		EncryptLwe(r, ct, in, pt, 0)

		switched := make([]uint64, nOut+1)
		Keyswitch(switched, ct, ksk, baseLog, level)

		err := lwe.ToTorus(DecryptLwe(switched, out) - pt)
		require.Less(t, math.Abs(err), math.Ldexp(1, -10))
	}
}
