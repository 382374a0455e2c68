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
	"errors"
	"math/rand"
	"testing"

	"github.com/Fantom-foundation/smt-token/common"
	"github.com/Fantom-foundation/smt-token/common/amount"
)

// referenceRoot computes the root of a tree by visiting every level of the
// tree for every populated path, without any compression.
func referenceRoot(mapping map[common.Address]amount.Amount, depth int) common.Hash {
	keys := []common.Address{}
	for addr, balance := range mapping {
		if !balance.IsZero() {
			keys = append(keys, addr)
		}
	}
	var hashAt func(keys []common.Address, bit int) common.Hash
	hashAt = func(keys []common.Address, bit int) common.Hash {
		if len(keys) == 0 {
			return DefaultHashes(depth)[depth-bit]
		}
		if bit == depth {
			return LeafHash(keys[0], mapping[keys[0]])
		}
		var left, right []common.Address
		for _, key := range keys {
			if key.Bit(bit) == 0 {
				left = append(left, key)
			} else {
				right = append(right, key)
			}
		}
		return NodeHash(hashAt(left, bit+1), hashAt(right, bit+1))
	}
	return hashAt(keys, 0)
}

func randomMapping(r *rand.Rand, size int) map[common.Address]amount.Amount {
	res := map[common.Address]amount.Amount{}
	for i := 0; i < size; i++ {
		var addr common.Address
		r.Read(addr[:])
		res[addr] = amount.New(uint64(r.Intn(1_000_000) + 1))
	}
	return res
}

func TestEngine_EmptyTreeHasDefaultRoot(t *testing.T) {
	for _, depth := range []int{1, 8, 64, MaxDepth} {
		engine, err := Build(nil, depth)
		if err != nil {
			t.Fatalf("failed to build empty tree: %v", err)
		}
		if got, want := engine.Root(), DefaultHashes(depth)[depth]; got != want {
			t.Errorf("unexpected root of empty tree of depth %d, got %v, want %v", depth, got, want)
		}
		if engine.Len() != 0 {
			t.Errorf("empty tree should have no leaves, got %d", engine.Len())
		}
	}
}

func TestEngine_ZeroBalancesAreTreatedAsAbsent(t *testing.T) {
	a := common.Address{1}
	b := common.Address{2}
	withZero, err := Build(map[common.Address]amount.Amount{a: amount.New(5), b: amount.New()}, MaxDepth)
	if err != nil {
		t.Fatalf("failed to build tree: %v", err)
	}
	without, err := Build(map[common.Address]amount.Amount{a: amount.New(5)}, MaxDepth)
	if err != nil {
		t.Fatalf("failed to build tree: %v", err)
	}
	if withZero.Root() != without.Root() {
		t.Errorf("zero balance changed the root")
	}
	if withZero.Len() != 1 {
		t.Errorf("unexpected number of leaves, got %d, want 1", withZero.Len())
	}
}

func TestEngine_RootMatchesReferenceImplementation(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for _, size := range []int{1, 2, 3, 10, 50} {
		mapping := randomMapping(r, size)
		engine, err := Build(mapping, MaxDepth)
		if err != nil {
			t.Fatalf("failed to build tree: %v", err)
		}
		if got, want := engine.Root(), referenceRoot(mapping, MaxDepth); got != want {
			t.Errorf("unexpected root for %d leaves, got %v, want %v", size, got, want)
		}
	}
}

func TestEngine_RootMatchesReferenceImplementationForNeighbours(t *testing.T) {
	// Addresses differing only in their last bits produce long shared paths.
	mapping := map[common.Address]amount.Amount{
		{19: 0x01}: amount.New(1),
		{19: 0x02}: amount.New(2),
		{19: 0x03}: amount.New(3),
		{0x80}:     amount.New(4),
	}
	engine, err := Build(mapping, MaxDepth)
	if err != nil {
		t.Fatalf("failed to build tree: %v", err)
	}
	if got, want := engine.Root(), referenceRoot(mapping, MaxDepth); got != want {
		t.Errorf("unexpected root, got %v, want %v", got, want)
	}
}

func TestEngine_RootIsIndependentOfInsertionOrder(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	mapping := randomMapping(r, 20)
	first, err := Build(mapping, MaxDepth)
	if err != nil {
		t.Fatalf("failed to build tree: %v", err)
	}
	for i := 0; i < 5; i++ {
		// Go randomizes map iteration, so copying rebuilds the map in a new order.
		copied := map[common.Address]amount.Amount{}
		for addr := range mapping {
			copied[addr] = mapping[addr]
		}
		second, err := Build(copied, MaxDepth)
		if err != nil {
			t.Fatalf("failed to build tree: %v", err)
		}
		if first.Root() != second.Root() {
			t.Fatalf("root depends on insertion order")
		}
		for addr := range mapping {
			if string(first.Proof(addr).Bytes()) != string(second.Proof(addr).Bytes()) {
				t.Errorf("proof of %v depends on insertion order", addr)
			}
		}
	}
}

func TestEngine_ReducedDepthUsesAddressPrefix(t *testing.T) {
	mapping := map[common.Address]amount.Amount{
		{0x00}: amount.New(1),
		{0x40}: amount.New(2),
		{0xC0}: amount.New(3),
	}
	engine, err := Build(mapping, 2)
	if err != nil {
		t.Fatalf("failed to build tree: %v", err)
	}
	d := DefaultHashes(2)
	want := NodeHash(
		NodeHash(LeafHash(common.Address{0x00}, amount.New(1)), LeafHash(common.Address{0x40}, amount.New(2))),
		NodeHash(d[0], LeafHash(common.Address{0xC0}, amount.New(3))),
	)
	if got := engine.Root(); got != want {
		t.Errorf("unexpected root, got %v, want %v", got, want)
	}
}

func TestEngine_ReducedDepthDetectsCollisions(t *testing.T) {
	mapping := map[common.Address]amount.Amount{
		{0x00, 1}: amount.New(1),
		{0x00, 2}: amount.New(2),
	}
	if _, err := Build(mapping, 8); !errors.Is(err, ErrKeyCollision) {
		t.Errorf("expected collision error, got %v", err)
	}
	if _, err := Build(mapping, 16); err != nil {
		t.Errorf("unexpected error for sufficient depth: %v", err)
	}
}

func TestEngine_InvalidDepthIsRejected(t *testing.T) {
	for _, depth := range []int{-1, 0, MaxDepth + 1} {
		if _, err := Build(nil, depth); !errors.Is(err, ErrInvalidDepth) {
			t.Errorf("expected invalid depth error for %d, got %v", depth, err)
		}
	}
}

func TestEngine_GetReturnsZeroForAbsentAddresses(t *testing.T) {
	a := common.Address{1}
	engine, err := Build(map[common.Address]amount.Amount{a: amount.New(10000)}, MaxDepth)
	if err != nil {
		t.Fatalf("failed to build tree: %v", err)
	}
	if got, want := engine.Get(a), amount.New(10000); got != want {
		t.Errorf("unexpected balance, got %v, want %v", got, want)
	}
	if got := engine.Get(common.Address{2}); !got.IsZero() {
		t.Errorf("absent address should have zero balance, got %v", got)
	}
}

func TestEngine_ApplyLeavesReceiverUnchanged(t *testing.T) {
	a := common.Address{1}
	b := common.Address{2}
	before, err := Build(map[common.Address]amount.Amount{a: amount.New(10000)}, MaxDepth)
	if err != nil {
		t.Fatalf("failed to build tree: %v", err)
	}
	root := before.Root()
	after, err := before.Apply(b, amount.New(1000))
	if err != nil {
		t.Fatalf("failed to apply update: %v", err)
	}
	if before.Root() != root || before.Len() != 1 {
		t.Errorf("apply modified the original engine")
	}
	want, err := Build(map[common.Address]amount.Amount{a: amount.New(10000), b: amount.New(1000)}, MaxDepth)
	if err != nil {
		t.Fatalf("failed to build tree: %v", err)
	}
	if after.Root() != want.Root() {
		t.Errorf("unexpected root after apply, got %v, want %v", after.Root(), want.Root())
	}

	cleared, err := after.Apply(b, amount.New())
	if err != nil {
		t.Fatalf("failed to apply update: %v", err)
	}
	if cleared.Root() != root {
		t.Errorf("writing zero should restore the previous root")
	}
}

func TestEngine_MemoryFootprintGrowsWithLeaves(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	small, _ := Build(randomMapping(r, 1), MaxDepth)
	large, _ := Build(randomMapping(r, 100), MaxDepth)
	if small.GetMemoryFootprint().Total() >= large.GetMemoryFootprint().Total() {
		t.Errorf("memory footprint should grow with the number of leaves")
	}
}

func BenchmarkBuild(b *testing.B) {
	r := rand.New(rand.NewSource(1))
	mapping := randomMapping(r, 1000)
	for i := 0; i < b.N; i++ {
		if _, err := Build(mapping, MaxDepth); err != nil {
			b.Fatal(err)
		}
	}
}
