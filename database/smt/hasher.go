// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package smt

import (
	"github.com/Fantom-foundation/smt-token/common"
	"github.com/Fantom-foundation/smt-token/common/amount"
)

// MaxDepth is the maximum depth of a tree, equal to the width of an address.
const MaxDepth = common.AddressBits

// defaultHashes[i] is the hash of an empty subtree of height i.
var defaultHashes = func() [MaxDepth + 1]common.Hash {
	var res [MaxDepth + 1]common.Hash
	var zero [amount.BytesLength]byte
	res[0] = common.Keccak256(zero[:])
	for i := 1; i <= MaxDepth; i++ {
		res[i] = common.Keccak256ForPair(res[i-1], res[i-1])
	}
	return res
}()

// DefaultHashes returns the depth+1 hashes of empty subtrees of height
// 0 to depth. Entry 0 is the hash of a leaf holding a zero balance.
func DefaultHashes(depth int) []common.Hash {
	if depth < 0 || depth > MaxDepth {
		return nil
	}
	res := make([]common.Hash, depth+1)
	copy(res, defaultHashes[:depth+1])
	return res
}

// LeafHash computes the hash of the leaf of the given address holding the
// given balance. Zero balances hash to the default leaf, such that a leaf
// set to zero is indistinguishable from an absent one. For any other
// balance the address is part of the hashed data, so equal balances of
// different accounts produce different leaves.
func LeafHash(addr common.Address, balance amount.Amount) common.Hash {
	if balance.IsZero() {
		return defaultHashes[0]
	}
	value := balance.Bytes32()
	return common.Keccak256(addr[:], value[:])
}

// NodeHash computes the hash of an inner node from the hashes of its children.
func NodeHash(left, right common.Hash) common.Hash {
	return common.Keccak256ForPair(left, right)
}

// combine merges the hash of a subtree with the hash of its sibling. The bit
// selects whether cur is the left (0) or the right (1) child.
func combine(cur, sibling common.Hash, bit byte) common.Hash {
	if bit == 0 {
		return NodeHash(cur, sibling)
	}
	return NodeHash(sibling, cur)
}
