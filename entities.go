// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package lwe

// Entity is implemented by every value an engine accepts or produces.
type Entity interface {
	KeyFlavor() KeyFlavor
}

// LweSecretKeyEntity is a secret key for LWE ciphertexts.
type LweSecretKeyEntity interface {
	Entity
	LweDimension() LweDimension
}

// GlweSecretKeyEntity is a secret key for GLWE ciphertexts.
type GlweSecretKeyEntity interface {
	Entity
	GlweDimension() GlweDimension
	PolynomialSize() PolynomialSize
}

// LweCiphertextEntity is an LWE ciphertext, owned or viewed.
type LweCiphertextEntity interface {
	Entity
	LweDimension() LweDimension
}

// LweCiphertextVectorEntity is a contiguous run of LWE ciphertexts of one dimension.
type LweCiphertextVectorEntity interface {
	Entity
	LweDimension() LweDimension
	CiphertextCount() CiphertextCount
}

// GlweCiphertextEntity is a GLWE ciphertext, owned or viewed.
type GlweCiphertextEntity interface {
	Entity
	GlweDimension() GlweDimension
	PolynomialSize() PolynomialSize
}

// GlweCiphertextVectorEntity is a contiguous run of GLWE ciphertexts of one shape.
type GlweCiphertextVectorEntity interface {
	Entity
	GlweDimension() GlweDimension
	PolynomialSize() PolynomialSize
	CiphertextCount() CiphertextCount
}

// PlaintextEntity is a single encoded message.
type PlaintextEntity interface {
	Entity
}

// PlaintextVectorEntity is a vector of encoded messages.
type PlaintextVectorEntity interface {
	Entity
	PlaintextCount() PlaintextCount
}

// LweKeyswitchKeyEntity switches LWE ciphertexts from an input key to an output key.
type LweKeyswitchKeyEntity interface {
	Entity
	InputLweDimension() LweDimension
	OutputLweDimension() LweDimension
	DecompositionBaseLog() DecompositionBaseLog
	DecompositionLevelCount() DecompositionLevelCount
}
