// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import (
	"hash"
	"sync"

	"golang.org/x/crypto/sha3"
)

// Keccak256 computes the legacy Keccak-256 digest of the concatenation of
// the given byte slices.
func Keccak256(data ...[]byte) Hash {
	hasher := keccakHasherPool.Get().(hash.Hash)
	hasher.Reset()
	for _, cur := range data {
		hasher.Write(cur)
	}
	var res Hash
	hasher.Sum(res[:0])
	keccakHasherPool.Put(hasher)
	return res
}

// Keccak256ForPair hashes the 64-byte concatenation of two hashes. It is the
// inner node compression function of balance trees.
func Keccak256ForPair(left, right Hash) Hash {
	return Keccak256(left[:], right[:])
}

var keccakHasherPool = sync.Pool{New: func() any { return sha3.NewLegacyKeccak256() }}
