package backend

import "github.com/luxfi/lwe"

// Decompose writes the signed balanced digits of x, rounded to the closest multiple
// of 2^(w - level·baseLog), into digits. digits[0] is the most significant level and
// Σ digits[j]·2^(w-(j+1)·baseLog) ≡ round(x) mod 2^w. Negative digits are stored wrapped.
func Decompose[T lwe.Numeric](x T, baseLog, level int, digits []T) {
	w := int(lwe.BitsOf[T]())
	total := baseLog * level

	state := uint64(x)
	if shift := w - total; shift > 0 {
		state = (state >> shift) + ((state >> (shift - 1)) & 1)
	}
	if total < 64 {
		state &= 1<<total - 1
	}

	base := uint64(1) << baseLog
	half := base >> 1
	for j := level - 1; j >= 0; j-- {
		d := state & (base - 1)
		state >>= baseLog
		digit := int64(d)
		if d >= half {
			digit -= int64(base)
			state++
		}
		digits[j] = T(digit)
	}
}

// FillKeyswitchKey writes into ksk, for every input key coefficient i and level j, an
// encryption under out of in[i]·2^(w-(j+1)·baseLog). ksk has length
// len(in)·level·(len(out)+1).
func FillKeyswitchKey[T lwe.Numeric](r Random, ksk, in, out []T, baseLog, level int, v lwe.Variance) {
	w := int(lwe.BitsOf[T]())
	size := len(out) + 1

	for i, si := range in {
		for j := 0; j < level; j++ {
			row := ksk[(i*level+j)*size : (i*level+j+1)*size]
			EncryptLwe(r, row, out, si<<uint(w-(j+1)*baseLog), v)
		}
	}
}

// Keyswitch writes into out the switch of in through ksk:
// out = (0, .., 0, b) - Σ_i Σ_j d_ij·KSK_ij.
func Keyswitch[T lwe.Numeric](out, in, ksk []T, baseLog, level int) {
	nIn := len(in) - 1
	size := len(out)

	clear(out)
	out[size-1] = in[nIn]

	digits := make([]T, level)
	for i := 0; i < nIn; i++ {
		Decompose(in[i], baseLog, level, digits)
		for j, d := range digits {
			if d == 0 {
				continue
			}
			row := ksk[(i*level+j)*size : (i*level+j+1)*size]
			for t := range out {
				out[t] -= d * row[t]
			}
		}
	}
}
