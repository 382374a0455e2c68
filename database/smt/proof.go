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
	"fmt"

	"github.com/Fantom-foundation/smt-token/common"
	"github.com/Fantom-foundation/smt-token/common/amount"
)

// ErrMalformedProof is returned when a serialized proof does not consist of
// exactly depth hashes.
const ErrMalformedProof = common.ConstError("malformed proof")

// Proof is the audit path of a single leaf: the hashes of the siblings of
// all nodes on the path from the leaf up to, but excluding, the root. The
// sibling of the leaf is the first element.
type Proof []common.Hash

// ParseProof decodes the wire encoding of a proof for a tree of the given
// depth. The input must be exactly depth*32 bytes long; anything else is
// rejected instead of being folded into a bogus root.
func ParseProof(data []byte, depth int) (Proof, error) {
	if depth < 1 || depth > MaxDepth {
		return nil, fmt.Errorf("%w: unsupported depth %d", ErrMalformedProof, depth)
	}
	if len(data) != depth*common.HashSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrMalformedProof, depth*common.HashSize, len(data))
	}
	res := make(Proof, depth)
	for i := range res {
		copy(res[i][:], data[i*common.HashSize:])
	}
	return res, nil
}

// Bytes produces the wire encoding of the proof, the concatenation of its
// hashes in order.
func (p Proof) Bytes() []byte {
	res := make([]byte, 0, len(p)*common.HashSize)
	for _, h := range p {
		res = append(res, h[:]...)
	}
	return res
}

// Depth returns the depth of the tree the proof was taken from.
func (p Proof) Depth() int {
	return len(p)
}

// ComputeRoot folds the leaf of the given address and balance up through
// the siblings of the proof and returns the resulting root. Sibling k is
// combined using address bit depth-1-k.
//
// Since a proof only contains siblings, the proof of an address stays valid
// when the address' own leaf is rewritten. ComputeRoot with the new balance
// therefore yields the root after such a write.
func ComputeRoot(addr common.Address, balance amount.Amount, proof Proof) common.Hash {
	depth := len(proof)
	cur := LeafHash(addr, balance)
	for k, sibling := range proof {
		cur = combine(cur, sibling, addr.Bit(depth-1-k))
	}
	return cur
}

// Verify checks whether the given address holds the given balance in the
// tree with the given root according to the provided proof. Proofs of
// unsupported depth never verify.
func Verify(root common.Hash, addr common.Address, balance amount.Amount, proof Proof) bool {
	if len(proof) < 1 || len(proof) > MaxDepth {
		return false
	}
	return ComputeRoot(addr, balance, proof) == root
}
