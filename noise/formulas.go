// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package noise

import (
	"math"

	"github.com/luxfi/lwe"
)

// GlweDecryptionVariance is the variance of a decrypted GLWE ciphertext encrypted with
// variance v. Decryption adds no error.
func GlweDecryptionVariance(v lwe.Variance) lwe.Variance {
	return v
}

// LweKeyswitchVariance bounds the output variance of a keyswitch with binary keys.
//
// The three terms are the input noise, the key noise carried by n·l balanced digits in
// [-B/2, B/2], and the rounding of every input mask coefficient to l·b bits.
func LweKeyswitchVariance(
	vIn lwe.Variance,
	nIn lwe.LweDimension,
	level lwe.DecompositionLevelCount,
	baseLog lwe.DecompositionBaseLog,
	vKsk lwe.Variance,
	w uint,
) lwe.Variance {
	n := float64(nIn)
	base := math.Ldexp(1, int(baseLog))
	digits := n * float64(level) * (base*base + 2) / 12 * float64(vKsk)

	var rounding float64
	if kept := int(level) * int(baseLog); kept < int(w) {
		rounding = n * (math.Ldexp(1, -2*kept) - math.Ldexp(1, -2*int(w))) / 12
	}

	return vIn + lwe.Variance(digits+rounding)
}
