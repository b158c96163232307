// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package core

import (
	"fmt"

	"github.com/luxfi/lwe"
)

// Destroy releases the buffer handle of an entity. The allocation is reclaimed once
// its last handle is gone: destroying a mutable view or an owned entity always
// reclaims, destroying a shared view reclaims only if nothing else shares the memory.
func (e *Engine[T]) Destroy(entity lwe.Entity) error {
	switch o := entity.(type) {
	case *Plaintext[T]:
		return nil
	case owner[T]:
		if o.buffer().Released() {
			return fmt.Errorf("destroy: %w", lwe.ErrEntityConsumed)
		}
		o.buffer().Release()
		return nil
	default:
		return fmt.Errorf("destroy %T: %w", entity, lwe.ErrUnknownEntity)
	}
}

// DestroyUnchecked requires a live entity produced by an engine of the same precision.
func (e *Engine[T]) DestroyUnchecked(entity lwe.Entity) {
	if o, ok := entity.(owner[T]); ok {
		o.buffer().Release()
	}
}
