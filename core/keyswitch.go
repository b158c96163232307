// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package core

import (
	"fmt"

	"github.com/luxfi/lwe"
	"github.com/luxfi/lwe/internal/backend"
)

// KeyswitchLweCiphertext switches in to the output key of ksk, into a fresh ciphertext.
func (e *Engine[T]) KeyswitchLweCiphertext(ksk *LweKeyswitchKey[T], in LweCiphertextReader[T]) (*LweCiphertext[T], error) {
	switch {
	case consumed[T](ksk, in):
		return nil, fmt.Errorf("keyswitch lwe ciphertext: %w", lwe.ErrEntityConsumed)
	case ksk.InputLweDimension() != in.LweDimension():
		return nil, fmt.Errorf("keyswitch lwe ciphertext: input: %w", lwe.ErrLweDimensionMismatch)
	}
	return e.KeyswitchLweCiphertextUnchecked(ksk, in), nil
}

// KeyswitchLweCiphertextUnchecked requires in to have the input dimension of ksk.
func (e *Engine[T]) KeyswitchLweCiphertextUnchecked(ksk *LweKeyswitchKey[T], in LweCiphertextReader[T]) *LweCiphertext[T] {
	out := &LweCiphertext[T]{
		held:     held[T]{buf: e.allocate(int(ksk.OutputLweDimension().ToLweSize()))},
		lweShape: lweShape{dim: ksk.OutputLweDimension()},
	}
	e.DiscardKeyswitchLweCiphertextUnchecked(ksk, out, in)
	return out
}

// DiscardKeyswitchLweCiphertext switches in to the output key of ksk, overwriting out.
func (e *Engine[T]) DiscardKeyswitchLweCiphertext(ksk *LweKeyswitchKey[T], out LweCiphertextWriter[T], in LweCiphertextReader[T]) error {
	switch {
	case consumed[T](ksk, out, in):
		return fmt.Errorf("discard keyswitch lwe ciphertext: %w", lwe.ErrEntityConsumed)
	case ksk.InputLweDimension() != in.LweDimension():
		return fmt.Errorf("discard keyswitch lwe ciphertext: input: %w", lwe.ErrLweDimensionMismatch)
	case ksk.OutputLweDimension() != out.LweDimension():
		return fmt.Errorf("discard keyswitch lwe ciphertext: output: %w", lwe.ErrLweDimensionMismatch)
	}
	e.DiscardKeyswitchLweCiphertextUnchecked(ksk, out, in)
	return nil
}

// DiscardKeyswitchLweCiphertextUnchecked requires in and out to match the dimensions of ksk.
// in and out must not alias.
func (e *Engine[T]) DiscardKeyswitchLweCiphertextUnchecked(ksk *LweKeyswitchKey[T], out LweCiphertextWriter[T], in LweCiphertextReader[T]) {
	backend.Keyswitch(out.Data(), in.Data(), ksk.Data(), int(ksk.DecompositionBaseLog()), int(ksk.DecompositionLevelCount()))
}
