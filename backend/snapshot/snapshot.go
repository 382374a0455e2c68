// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package snapshot

//go:generate mockgen -source snapshot.go -destination snapshot_mocks.go -package snapshot

import (
	"context"

	"github.com/Fantom-foundation/smt-token/common"
	"github.com/Fantom-foundation/smt-token/common/amount"
	"golang.org/x/exp/maps"
)

// ErrNotFound is returned by Load if no snapshot has been saved yet.
const ErrNotFound = common.ConstError("snapshot not found")

// Snapshot is the mirrored mapping of balances as of a ledger position.
// All writes emitted at positions up to and including Position are covered.
// Absent addresses hold a zero balance.
type Snapshot struct {
	Position uint64
	Balances map[common.Address]amount.Amount
}

// Empty returns the snapshot of the ledger before its genesis.
func Empty() Snapshot {
	return Snapshot{Balances: map[common.Address]amount.Amount{}}
}

// Clone returns a deep copy of the snapshot. Zero balances are dropped.
func (s Snapshot) Clone() Snapshot {
	res := Snapshot{
		Position: s.Position,
		Balances: make(map[common.Address]amount.Amount, len(s.Balances)),
	}
	for addr, balance := range s.Balances {
		if !balance.IsZero() {
			res.Balances[addr] = balance
		}
	}
	return res
}

// Equal reports whether both snapshots have the same position and balances.
func (s Snapshot) Equal(other Snapshot) bool {
	return s.Position == other.Position && maps.Equal(s.Clone().Balances, other.Clone().Balances)
}

// Store is a durable location of the latest snapshot of a mirror.
// Implementations must be safe for concurrent use.
type Store interface {
	// Load returns the latest saved snapshot or ErrNotFound.
	Load(ctx context.Context) (Snapshot, error)
	// Save replaces the stored snapshot atomically.
	Save(ctx context.Context, snapshot Snapshot) error
	// Close releases the resources of the store.
	Close() error
}
