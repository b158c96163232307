// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package lwe

// Capability interfaces. Each family pairs a checked method, which validates every
// cross-entity invariant and returns a wrapped sentinel error, with an Unchecked
// method that performs the same work without validation. Calling an Unchecked
// method with violated preconditions is undefined: it may panic or silently
// produce garbage.

// LweCiphertextViewCreationEngine wraps a container into a shared LWE view without copying.
type LweCiphertextViewCreationEngine[Container any, Ciphertext LweCiphertextEntity] interface {
	// CreateLweCiphertextView fails with ErrEmptyContainer on an empty container.
	CreateLweCiphertextView(c Container) (Ciphertext, error)
	// CreateLweCiphertextViewUnchecked requires a non-empty container.
	CreateLweCiphertextViewUnchecked(c Container) Ciphertext
}

// LweCiphertextMutViewCreationEngine wraps an exclusively owned container into a mutable LWE view.
type LweCiphertextMutViewCreationEngine[Container any, Ciphertext LweCiphertextEntity] interface {
	// CreateLweCiphertextMutView fails with ErrEmptyContainer or ErrBufferAliased.
	CreateLweCiphertextMutView(c Container) (Ciphertext, error)
	// CreateLweCiphertextMutViewUnchecked requires a non-empty, exclusive container.
	CreateLweCiphertextMutViewUnchecked(c Container) Ciphertext
}

// GlweCiphertextViewCreationEngine wraps a container into a shared GLWE view without copying.
type GlweCiphertextViewCreationEngine[Container any, Ciphertext GlweCiphertextEntity] interface {
	// CreateGlweCiphertextView fails with ErrEmptyContainer, or ErrInvalidContainerSize
	// when the length is not a multiple of the polynomial size.
	CreateGlweCiphertextView(c Container, n PolynomialSize) (Ciphertext, error)
	// CreateGlweCiphertextViewUnchecked requires a non-empty container whose length is a multiple of n.
	CreateGlweCiphertextViewUnchecked(c Container, n PolynomialSize) Ciphertext
}

// GlweCiphertextMutViewCreationEngine wraps an exclusively owned container into a mutable GLWE view.
type GlweCiphertextMutViewCreationEngine[Container any, Ciphertext GlweCiphertextEntity] interface {
	CreateGlweCiphertextMutView(c Container, n PolynomialSize) (Ciphertext, error)
	CreateGlweCiphertextMutViewUnchecked(c Container, n PolynomialSize) Ciphertext
}

// LweCiphertextViewRetrievalEngine consumes a view and hands its container back.
type LweCiphertextViewRetrievalEngine[Ciphertext LweCiphertextEntity, Container any] interface {
	// RetrieveLweCiphertextView fails with ErrEntityConsumed if the view was already consumed.
	RetrieveLweCiphertextView(ct Ciphertext) (Container, error)
	// RetrieveLweCiphertextViewUnchecked requires a live view.
	RetrieveLweCiphertextViewUnchecked(ct Ciphertext) Container
}

// LweCiphertextMutViewRetrievalEngine consumes a mutable view and hands its container back.
type LweCiphertextMutViewRetrievalEngine[Ciphertext LweCiphertextEntity, Container any] interface {
	RetrieveLweCiphertextMutView(ct Ciphertext) (Container, error)
	RetrieveLweCiphertextMutViewUnchecked(ct Ciphertext) Container
}

// GlweCiphertextViewRetrievalEngine consumes a GLWE view and hands its container back.
type GlweCiphertextViewRetrievalEngine[Ciphertext GlweCiphertextEntity, Container any] interface {
	RetrieveGlweCiphertextView(ct Ciphertext) (Container, error)
	RetrieveGlweCiphertextViewUnchecked(ct Ciphertext) Container
}

// GlweCiphertextMutViewRetrievalEngine consumes a mutable GLWE view and hands its container back.
type GlweCiphertextMutViewRetrievalEngine[Ciphertext GlweCiphertextEntity, Container any] interface {
	RetrieveGlweCiphertextMutView(ct Ciphertext) (Container, error)
	RetrieveGlweCiphertextMutViewUnchecked(ct Ciphertext) Container
}

// PlaintextCreationEngine encodes a single value as a plaintext.
type PlaintextCreationEngine[Value any, Plaintext PlaintextEntity] interface {
	CreatePlaintext(v Value) (Plaintext, error)
	CreatePlaintextUnchecked(v Value) Plaintext
}

// PlaintextVectorCreationEngine copies values into a plaintext vector.
type PlaintextVectorCreationEngine[Container any, PlaintextVector PlaintextVectorEntity] interface {
	// CreatePlaintextVector fails with ErrEmptyContainer.
	CreatePlaintextVector(c Container) (PlaintextVector, error)
	CreatePlaintextVectorUnchecked(c Container) PlaintextVector
}

// PlaintextVectorRetrievalEngine copies the values of a plaintext vector out.
type PlaintextVectorRetrievalEngine[PlaintextVector PlaintextVectorEntity, Container any] interface {
	RetrievePlaintextVector(pv PlaintextVector) (Container, error)
	RetrievePlaintextVectorUnchecked(pv PlaintextVector) Container
}

// LweSecretKeyGenerationEngine samples fresh LWE secret keys.
type LweSecretKeyGenerationEngine[SecretKey LweSecretKeyEntity] interface {
	// GenerateNewLweSecretKey fails with ErrZeroDimension.
	GenerateNewLweSecretKey(n LweDimension) (SecretKey, error)
	GenerateNewLweSecretKeyUnchecked(n LweDimension) SecretKey
}

// GlweSecretKeyGenerationEngine samples fresh GLWE secret keys.
type GlweSecretKeyGenerationEngine[SecretKey GlweSecretKeyEntity] interface {
	// GenerateNewGlweSecretKey fails with ErrZeroDimension.
	GenerateNewGlweSecretKey(k GlweDimension, n PolynomialSize) (SecretKey, error)
	GenerateNewGlweSecretKeyUnchecked(k GlweDimension, n PolynomialSize) SecretKey
}

// LweSecretKeyCreationEngine builds LWE secret keys from existing key material.
type LweSecretKeyCreationEngine[Container any, SecretKey LweSecretKeyEntity] interface {
	// CreateLweSecretKey fails with ErrEmptyContainer.
	CreateLweSecretKey(c Container) (SecretKey, error)
	CreateLweSecretKeyUnchecked(c Container) SecretKey
}

// GlweSecretKeyCreationEngine builds GLWE secret keys of polynomial size n from existing
// key material.
type GlweSecretKeyCreationEngine[Container any, SecretKey GlweSecretKeyEntity] interface {
	// CreateGlweSecretKey fails with ErrEmptyContainer or ErrInvalidContainerSize.
	CreateGlweSecretKey(c Container, n PolynomialSize) (SecretKey, error)
	CreateGlweSecretKeyUnchecked(c Container, n PolynomialSize) SecretKey
}

// LweKeyswitchKeyGenerationEngine derives a keyswitch key from an input and an output key.
//
// Both entry points behave identically: key compatibility is carried by the type
// parameters, and the decomposition must satisfy level·baseLog ≤ word width, which is
// the caller's obligation on both paths.
type LweKeyswitchKeyGenerationEngine[InputKey, OutputKey LweSecretKeyEntity, KeyswitchKey LweKeyswitchKeyEntity] interface {
	GenerateNewLweKeyswitchKey(in InputKey, out OutputKey, level DecompositionLevelCount, baseLog DecompositionBaseLog, v Variance) (KeyswitchKey, error)
	GenerateNewLweKeyswitchKeyUnchecked(in InputKey, out OutputKey, level DecompositionLevelCount, baseLog DecompositionBaseLog, v Variance) KeyswitchKey
}

// LweCiphertextEncryptionEngine encrypts a plaintext into a fresh LWE ciphertext.
type LweCiphertextEncryptionEngine[SecretKey LweSecretKeyEntity, Plaintext PlaintextEntity, Ciphertext LweCiphertextEntity] interface {
	// EncryptLweCiphertext fails with ErrInvalidVariance.
	EncryptLweCiphertext(sk SecretKey, pt Plaintext, v Variance) (Ciphertext, error)
	EncryptLweCiphertextUnchecked(sk SecretKey, pt Plaintext, v Variance) Ciphertext
}

// LweCiphertextDiscardingEncryptionEngine encrypts a plaintext into an existing ciphertext.
type LweCiphertextDiscardingEncryptionEngine[SecretKey LweSecretKeyEntity, Plaintext PlaintextEntity, Ciphertext LweCiphertextEntity] interface {
	// DiscardEncryptLweCiphertext fails with ErrLweDimensionMismatch or ErrInvalidVariance.
	DiscardEncryptLweCiphertext(sk SecretKey, out Ciphertext, pt Plaintext, v Variance) error
	// DiscardEncryptLweCiphertextUnchecked requires matching dimensions.
	DiscardEncryptLweCiphertextUnchecked(sk SecretKey, out Ciphertext, pt Plaintext, v Variance)
}

// LweCiphertextVectorEncryptionEngine encrypts every plaintext of a vector.
type LweCiphertextVectorEncryptionEngine[SecretKey LweSecretKeyEntity, PlaintextVector PlaintextVectorEntity, CiphertextVector LweCiphertextVectorEntity] interface {
	EncryptLweCiphertextVector(sk SecretKey, pv PlaintextVector, v Variance) (CiphertextVector, error)
	EncryptLweCiphertextVectorUnchecked(sk SecretKey, pv PlaintextVector, v Variance) CiphertextVector
}

// LweCiphertextVectorDiscardingEncryptionEngine encrypts a plaintext vector in place.
type LweCiphertextVectorDiscardingEncryptionEngine[SecretKey LweSecretKeyEntity, PlaintextVector PlaintextVectorEntity, CiphertextVector LweCiphertextVectorEntity] interface {
	// DiscardEncryptLweCiphertextVector fails with ErrLweDimensionMismatch, or with
	// ErrCiphertextCountMismatch when out does not hold one ciphertext per plaintext.
	DiscardEncryptLweCiphertextVector(sk SecretKey, out CiphertextVector, pv PlaintextVector, v Variance) error
	// DiscardEncryptLweCiphertextVectorUnchecked requires the key dimension to equal the output
	// dimension and the plaintext count to equal the output ciphertext count.
	DiscardEncryptLweCiphertextVectorUnchecked(sk SecretKey, out CiphertextVector, pv PlaintextVector, v Variance)
}

// LweCiphertextDecryptionEngine decrypts one LWE ciphertext.
type LweCiphertextDecryptionEngine[SecretKey LweSecretKeyEntity, Ciphertext LweCiphertextEntity, Plaintext PlaintextEntity] interface {
	// DecryptLweCiphertext fails with ErrLweDimensionMismatch.
	DecryptLweCiphertext(sk SecretKey, ct Ciphertext) (Plaintext, error)
	DecryptLweCiphertextUnchecked(sk SecretKey, ct Ciphertext) Plaintext
}

// LweCiphertextVectorDecryptionEngine decrypts every ciphertext of a vector.
type LweCiphertextVectorDecryptionEngine[SecretKey LweSecretKeyEntity, CiphertextVector LweCiphertextVectorEntity, PlaintextVector PlaintextVectorEntity] interface {
	DecryptLweCiphertextVector(sk SecretKey, cv CiphertextVector) (PlaintextVector, error)
	DecryptLweCiphertextVectorUnchecked(sk SecretKey, cv CiphertextVector) PlaintextVector
}

// GlweCiphertextEncryptionEngine encrypts N plaintexts into one GLWE ciphertext.
type GlweCiphertextEncryptionEngine[SecretKey GlweSecretKeyEntity, PlaintextVector PlaintextVectorEntity, Ciphertext GlweCiphertextEntity] interface {
	// EncryptGlweCiphertext fails with ErrPlaintextCountMismatch or ErrInvalidVariance.
	EncryptGlweCiphertext(sk SecretKey, pv PlaintextVector, v Variance) (Ciphertext, error)
	EncryptGlweCiphertextUnchecked(sk SecretKey, pv PlaintextVector, v Variance) Ciphertext
}

// GlweCiphertextVectorEncryptionEngine encrypts a multiple of N plaintexts into GLWE ciphertexts.
type GlweCiphertextVectorEncryptionEngine[SecretKey GlweSecretKeyEntity, PlaintextVector PlaintextVectorEntity, CiphertextVector GlweCiphertextVectorEntity] interface {
	EncryptGlweCiphertextVector(sk SecretKey, pv PlaintextVector, v Variance) (CiphertextVector, error)
	EncryptGlweCiphertextVectorUnchecked(sk SecretKey, pv PlaintextVector, v Variance) CiphertextVector
}

// GlweCiphertextDecryptionEngine decrypts one GLWE ciphertext.
type GlweCiphertextDecryptionEngine[SecretKey GlweSecretKeyEntity, Ciphertext GlweCiphertextEntity, PlaintextVector PlaintextVectorEntity] interface {
	// DecryptGlweCiphertext fails with ErrGlweDimensionMismatch or ErrPolynomialSizeMismatch.
	DecryptGlweCiphertext(sk SecretKey, ct Ciphertext) (PlaintextVector, error)
	DecryptGlweCiphertextUnchecked(sk SecretKey, ct Ciphertext) PlaintextVector
}

// GlweCiphertextDiscardingDecryptionEngine decrypts a GLWE ciphertext into an existing plaintext vector.
type GlweCiphertextDiscardingDecryptionEngine[SecretKey GlweSecretKeyEntity, Ciphertext GlweCiphertextEntity, PlaintextVector PlaintextVectorEntity] interface {
	// DiscardDecryptGlweCiphertext fails with ErrPolynomialSizeMismatch, ErrGlweDimensionMismatch
	// or ErrPlaintextCountMismatch, checked in that order.
	DiscardDecryptGlweCiphertext(sk SecretKey, out PlaintextVector, ct Ciphertext) error
	DiscardDecryptGlweCiphertextUnchecked(sk SecretKey, out PlaintextVector, ct Ciphertext)
}

// GlweCiphertextVectorDecryptionEngine decrypts every ciphertext of a GLWE vector.
type GlweCiphertextVectorDecryptionEngine[SecretKey GlweSecretKeyEntity, CiphertextVector GlweCiphertextVectorEntity, PlaintextVector PlaintextVectorEntity] interface {
	DecryptGlweCiphertextVector(sk SecretKey, cv CiphertextVector) (PlaintextVector, error)
	DecryptGlweCiphertextVectorUnchecked(sk SecretKey, cv CiphertextVector) PlaintextVector
}

// LweCiphertextKeyswitchEngine switches a ciphertext to the output key of a keyswitch key.
type LweCiphertextKeyswitchEngine[KeyswitchKey LweKeyswitchKeyEntity, Input, Output LweCiphertextEntity] interface {
	// KeyswitchLweCiphertext fails with ErrLweDimensionMismatch.
	KeyswitchLweCiphertext(ksk KeyswitchKey, in Input) (Output, error)
	KeyswitchLweCiphertextUnchecked(ksk KeyswitchKey, in Input) Output
}

// LweCiphertextDiscardingKeyswitchEngine switches a ciphertext into an existing output ciphertext.
type LweCiphertextDiscardingKeyswitchEngine[KeyswitchKey LweKeyswitchKeyEntity, Input, Output LweCiphertextEntity] interface {
	// DiscardKeyswitchLweCiphertext fails with ErrLweDimensionMismatch when either side
	// disagrees with the key.
	DiscardKeyswitchLweCiphertext(ksk KeyswitchKey, out Output, in Input) error
	DiscardKeyswitchLweCiphertextUnchecked(ksk KeyswitchKey, out Output, in Input)
}

// LweCiphertextLoadingEngine copies one ciphertext out of a vector.
type LweCiphertextLoadingEngine[CiphertextVector LweCiphertextVectorEntity, Ciphertext LweCiphertextEntity] interface {
	// LoadLweCiphertext fails with ErrIndexOutOfRange.
	LoadLweCiphertext(cv CiphertextVector, i LweCiphertextIndex) (Ciphertext, error)
	LoadLweCiphertextUnchecked(cv CiphertextVector, i LweCiphertextIndex) Ciphertext
}

// EntityDestructionEngine releases the memory held by an entity.
type EntityDestructionEngine[E Entity] interface {
	// Destroy fails with ErrEntityConsumed or ErrUnknownEntity.
	Destroy(e E) error
	// DestroyUnchecked requires a live entity produced by this engine.
	DestroyUnchecked(e E)
}
