// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package memory

import (
	"context"
	"sync"

	"github.com/Fantom-foundation/smt-token/backend/snapshot"
)

// Store keeps the latest snapshot in memory. It is intended for tests and
// for mirrors living in the same process as the ledger.
type Store struct {
	mu       sync.Mutex
	snapshot *snapshot.Snapshot
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// NewStoreWith creates a store holding the given snapshot.
func NewStoreWith(s snapshot.Snapshot) *Store {
	clone := s.Clone()
	return &Store{snapshot: &clone}
}

func (s *Store) Load(ctx context.Context) (snapshot.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return snapshot.Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return snapshot.Snapshot{}, snapshot.ErrNotFound
	}
	return s.snapshot.Clone(), nil
}

func (s *Store) Save(ctx context.Context, snap snapshot.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clone := snap.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = &clone
	return nil
}

func (s *Store) Close() error {
	return nil
}
