// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package core

import (
	"github.com/luxfi/lwe"
	"github.com/luxfi/lwe/memory"
)

// Capabilities is the full set of capability interfaces an Engine[T] implements.
type Capabilities[T lwe.Numeric] interface {
	lwe.LweCiphertextViewCreationEngine[*memory.Buffer[T], *LweCiphertextView[T]]
	lwe.LweCiphertextMutViewCreationEngine[*memory.Buffer[T], *LweCiphertextMutView[T]]
	lwe.GlweCiphertextViewCreationEngine[*memory.Buffer[T], *GlweCiphertextView[T]]
	lwe.GlweCiphertextMutViewCreationEngine[*memory.Buffer[T], *GlweCiphertextMutView[T]]
	lwe.LweCiphertextViewRetrievalEngine[*LweCiphertextView[T], *memory.Buffer[T]]
	lwe.LweCiphertextMutViewRetrievalEngine[*LweCiphertextMutView[T], *memory.Buffer[T]]
	lwe.GlweCiphertextViewRetrievalEngine[*GlweCiphertextView[T], *memory.Buffer[T]]
	lwe.GlweCiphertextMutViewRetrievalEngine[*GlweCiphertextMutView[T], *memory.Buffer[T]]
	lwe.PlaintextCreationEngine[T, *Plaintext[T]]
	lwe.PlaintextVectorCreationEngine[[]T, *PlaintextVector[T]]
	lwe.PlaintextVectorRetrievalEngine[*PlaintextVector[T], []T]
	lwe.LweSecretKeyGenerationEngine[*LweSecretKey[T]]
	lwe.GlweSecretKeyGenerationEngine[*GlweSecretKey[T]]
	lwe.LweSecretKeyCreationEngine[[]T, *LweSecretKey[T]]
	lwe.GlweSecretKeyCreationEngine[[]T, *GlweSecretKey[T]]
	lwe.LweKeyswitchKeyGenerationEngine[*LweSecretKey[T], *LweSecretKey[T], *LweKeyswitchKey[T]]
	lwe.LweCiphertextEncryptionEngine[*LweSecretKey[T], *Plaintext[T], *LweCiphertext[T]]
	lwe.LweCiphertextDiscardingEncryptionEngine[*LweSecretKey[T], *Plaintext[T], LweCiphertextWriter[T]]
	lwe.LweCiphertextVectorEncryptionEngine[*LweSecretKey[T], *PlaintextVector[T], *LweCiphertextVector[T]]
	lwe.LweCiphertextVectorDiscardingEncryptionEngine[*LweSecretKey[T], *PlaintextVector[T], *LweCiphertextVector[T]]
	lwe.LweCiphertextDecryptionEngine[*LweSecretKey[T], LweCiphertextReader[T], *Plaintext[T]]
	lwe.LweCiphertextVectorDecryptionEngine[*LweSecretKey[T], *LweCiphertextVector[T], *PlaintextVector[T]]
	lwe.GlweCiphertextEncryptionEngine[*GlweSecretKey[T], *PlaintextVector[T], *GlweCiphertext[T]]
	lwe.GlweCiphertextVectorEncryptionEngine[*GlweSecretKey[T], *PlaintextVector[T], *GlweCiphertextVector[T]]
	lwe.GlweCiphertextDecryptionEngine[*GlweSecretKey[T], GlweCiphertextReader[T], *PlaintextVector[T]]
	lwe.GlweCiphertextDiscardingDecryptionEngine[*GlweSecretKey[T], GlweCiphertextReader[T], *PlaintextVector[T]]
	lwe.GlweCiphertextVectorDecryptionEngine[*GlweSecretKey[T], *GlweCiphertextVector[T], *PlaintextVector[T]]
	lwe.LweCiphertextKeyswitchEngine[*LweKeyswitchKey[T], LweCiphertextReader[T], *LweCiphertext[T]]
	lwe.LweCiphertextDiscardingKeyswitchEngine[*LweKeyswitchKey[T], LweCiphertextReader[T], LweCiphertextWriter[T]]
	lwe.LweCiphertextLoadingEngine[*LweCiphertextVector[T], *LweCiphertext[T]]
	lwe.EntityDestructionEngine[lwe.Entity]
}

var (
	_ Capabilities[uint32] = (*Engine[uint32])(nil)
	_ Capabilities[uint64] = (*Engine[uint64])(nil)
)
