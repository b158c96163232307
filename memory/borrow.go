// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package memory

import "fmt"

// Borrow lends data, which the caller keeps owning, to fn as a Buffer without copying.
//
// The lending lasts for the call. When fn returns, the allocation is revoked: any
// handle that escaped the scope panics on use, and Borrow itself panics if handles
// created with Share inside fn are still live. Releasing the lent handle inside fn is
// allowed; it never frees data.
func Borrow[T any](data []T, fn func(b *Buffer[T]) error) error {
	b := From(data, Allocator[T](callerOwned[T]{}))
	blk := b.blk

	err := fn(b)

	refs := blk.refs.Load()
	blk.revoked.Store(true)
	if refs > 1 {
		panic(fmt.Sprintf("memory: %d shared handles outlived their borrow scope", refs-1))
	}
	return err
}
