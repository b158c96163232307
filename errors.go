// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package lwe

import "errors"

// Errors returned by the checked entry points of every engine. Operations wrap them
// with the operation name; match them with errors.Is.
var (
	ErrEmptyContainer          = errors.New("container is empty")
	ErrInvalidContainerSize    = errors.New("container length is not a multiple of the structural size")
	ErrLweDimensionMismatch    = errors.New("lwe dimension mismatch")
	ErrGlweDimensionMismatch   = errors.New("glwe dimension mismatch")
	ErrPolynomialSizeMismatch  = errors.New("polynomial size mismatch")
	ErrPlaintextCountMismatch  = errors.New("plaintext count mismatch")
	ErrCiphertextCountMismatch = errors.New("ciphertext count mismatch")
	ErrIndexOutOfRange         = errors.New("ciphertext index out of range")
	ErrZeroDimension           = errors.New("dimension must be positive")
	ErrInvalidVariance         = errors.New("invalid noise variance")
	ErrBufferAliased           = errors.New("buffer is shared by another handle")
	ErrEntityConsumed          = errors.New("entity was already retrieved or destroyed")
	ErrUnknownEntity           = errors.New("entity does not belong to this engine")
)
