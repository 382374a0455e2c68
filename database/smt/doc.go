// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package smt implements a sparse Merkle tree over account balances.
//
// The tree has a fixed depth D (at most 160) and one leaf per address; the
// first D bits of an address, most significant bit of its first byte first,
// form the path from the root to the leaf, a 0 bit selecting the left child.
// Absent addresses hold a zero balance. Subtrees containing only zero leaves
// are never materialized: their hashes are taken from a table of default
// hashes, where level 0 is the hash of the all-zero leaf and level i+1 is
// the hash of two level-i defaults.
//
// An audit proof for an address consists of exactly D sibling hashes. The
// sibling of the leaf comes first, the child of the root last. The wire
// encoding of a proof is the plain concatenation of these hashes; there is
// no length prefix, so ParseProof insists on exactly D*32 bytes.
//
// Engine instances are immutable after construction and may be shared by
// concurrent readers. Verify and ComputeRoot do not need an Engine at all;
// they are all a verifier holding nothing but a root needs.
package smt
