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
	"sort"
	"unsafe"

	"github.com/Fantom-foundation/smt-token/common"
	"github.com/Fantom-foundation/smt-token/common/amount"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ErrKeyCollision is returned when two non-zero accounts share the same
// path in a tree whose depth is smaller than the address width.
const ErrKeyCollision = common.ConstError("key collision")

// ErrInvalidDepth is returned for depths outside of [1, MaxDepth].
const ErrInvalidDepth = common.ConstError("invalid depth")

// Engine is an immutable sparse Merkle tree over a mapping of addresses to
// balances. Internally it is a compressed binary trie: every branch node
// splits at the first bit on which the leaves below it disagree, so the
// number of nodes is linear in the number of non-zero balances.
type Engine struct {
	depth    int
	balances map[common.Address]amount.Amount
	root     *node
	rootHash common.Hash
}

// node is either a leaf (left == right == nil) or a branch with two
// non-nil children. All leaves below a node share the first `bits` bits of
// `key`. For a leaf bits equals the tree depth, for a branch it is the
// position of the bit its children differ in.
type node struct {
	key         common.Address
	bits        int
	balance     amount.Amount
	left, right *node
	hash        common.Hash // at height depth-bits
}

func (n *node) isLeaf() bool {
	return n.left == nil
}

// Build creates an engine over the given mapping. Zero balances are treated
// as absent. The mapping is copied and may be modified after the call.
func Build(mapping map[common.Address]amount.Amount, depth int) (*Engine, error) {
	if depth < 1 || depth > MaxDepth {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDepth, depth)
	}
	balances := make(map[common.Address]amount.Amount, len(mapping))
	for addr, balance := range mapping {
		if !balance.IsZero() {
			balances[addr] = balance
		}
	}

	keys := maps.Keys(balances)
	slices.SortFunc(keys, func(a, b common.Address) int { return a.Compare(b) })
	for i := 1; i < len(keys); i++ {
		if common.CommonPrefixLength(keys[i-1], keys[i], depth) == depth {
			return nil, fmt.Errorf("%w: %v and %v share all %d path bits", ErrKeyCollision, keys[i-1], keys[i], depth)
		}
	}

	e := &Engine{
		depth:    depth,
		balances: balances,
	}
	if len(keys) == 0 {
		e.rootHash = defaultHashes[depth]
		return e, nil
	}
	e.root = e.build(keys)
	e.rootHash = e.lift(e.root, depth)
	return e, nil
}

// build constructs the sub-trie of the given sorted, non-empty list of keys.
func (e *Engine) build(keys []common.Address) *node {
	if len(keys) == 1 {
		key := keys[0]
		balance := e.balances[key]
		return &node{
			key:     key,
			bits:    e.depth,
			balance: balance,
			hash:    LeafHash(key, balance),
		}
	}
	split := common.CommonPrefixLength(keys[0], keys[len(keys)-1], e.depth)
	pos := sort.Search(len(keys), func(i int) bool {
		return keys[i].Bit(split) == 1
	})
	left := e.build(keys[:pos])
	right := e.build(keys[pos:])
	height := e.depth - split - 1
	return &node{
		key:   keys[0],
		bits:  split,
		left:  left,
		right: right,
		hash:  NodeHash(e.lift(left, height), e.lift(right, height)),
	}
}

// lift returns the hash of the smallest subtree of the given height that
// contains n, padding with default hashes on the way up.
func (e *Engine) lift(n *node, height int) common.Hash {
	cur := n.hash
	for h := e.depth - n.bits; h < height; h++ {
		cur = combine(cur, defaultHashes[h], n.key.Bit(e.depth-1-h))
	}
	return cur
}

// Depth returns the depth of the tree.
func (e *Engine) Depth() int {
	return e.depth
}

// Root returns the commitment to the full mapping.
func (e *Engine) Root() common.Hash {
	return e.rootHash
}

// Len returns the number of accounts with a non-zero balance.
func (e *Engine) Len() int {
	return len(e.balances)
}

// Get returns the balance of the given address, zero if absent.
func (e *Engine) Get(addr common.Address) amount.Amount {
	return e.balances[addr]
}

// Balances returns a copy of the non-zero balances covered by this tree.
func (e *Engine) Balances() map[common.Address]amount.Amount {
	return maps.Clone(e.balances)
}

// Apply returns a new engine in which the leaf of addr holds the given
// balance. The receiver remains unchanged. This is used to derive the
// transitional tree between the two writes of a transfer.
func (e *Engine) Apply(addr common.Address, balance amount.Amount) (*Engine, error) {
	next := maps.Clone(e.balances)
	if next == nil {
		next = map[common.Address]amount.Amount{}
	}
	if balance.IsZero() {
		delete(next, addr)
	} else {
		next[addr] = balance
	}
	return Build(next, e.depth)
}

// Proof returns the audit path of the given address. Proofs can be created
// for any address, including those holding a zero balance.
func (e *Engine) Proof(addr common.Address) Proof {
	res := make(Proof, e.depth)
	copy(res, defaultHashes[:e.depth])

	cur := e.root
	for cur != nil {
		shared := common.CommonPrefixLength(cur.key, addr, cur.bits)
		if shared < cur.bits {
			// The path of addr leaves the sub-trie of cur at bit `shared`; the
			// whole sub-trie becomes the sibling at that level and everything
			// below is empty.
			height := e.depth - shared - 1
			res[height] = e.lift(cur, height)
			return res
		}
		if cur.isLeaf() {
			return res
		}
		height := e.depth - cur.bits - 1
		if addr.Bit(cur.bits) == 0 {
			res[height] = e.lift(cur.right, height)
			cur = cur.left
		} else {
			res[height] = e.lift(cur.left, height)
			cur = cur.right
		}
	}
	return res
}

// GetMemoryFootprint provides the approximate size of the engine in memory in bytes.
func (e *Engine) GetMemoryFootprint() *common.MemoryFootprint {
	mf := common.NewMemoryFootprint(unsafe.Sizeof(*e))
	entry := unsafe.Sizeof(common.Address{}) + unsafe.Sizeof(amount.Amount{})
	mf.AddChild("balances", common.NewMemoryFootprint(uintptr(len(e.balances))*entry))
	nodes := 0
	if e.root != nil {
		nodes = 2*len(e.balances) - 1
	}
	mf.AddChild("nodes", common.NewMemoryFootprint(uintptr(nodes)*unsafe.Sizeof(node{})))
	return mf
}
