// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package ldb

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/Fantom-foundation/smt-token/backend"
	"github.com/Fantom-foundation/smt-token/backend/snapshot"
	"github.com/Fantom-foundation/smt-token/common"
	"github.com/Fantom-foundation/smt-token/common/amount"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Store persists a snapshot in a LevelDB instance. The position is stored
// under the PositionKey table space and every non-zero balance under the
// BalanceKey table space followed by the raw address.
type Store struct {
	db *backend.LevelDbMemoryFootprintWrapper
	mu sync.Mutex // guards the scan and write of Save against other accesses
}

// NewStore opens or creates the LevelDB database in the given directory.
func NewStore(directory string) (*Store, error) {
	db, err := backend.OpenLevelDb(directory, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}
	return &Store{db: db}, nil
}

var positionKey = backend.PositionKey.ToDBKey(nil)

func (s *Store) Load(ctx context.Context) (snapshot.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return snapshot.Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ldbSnapshot, err := s.db.GetSnapshot()
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	defer ldbSnapshot.Release()

	data, err := ldbSnapshot.Get(positionKey.ToBytes(), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return snapshot.Snapshot{}, snapshot.ErrNotFound
	}
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	if len(data) != 8 {
		return snapshot.Snapshot{}, fmt.Errorf("%w: position must be 8 bytes, got %d", common.ErrUnexpectedEncoding, len(data))
	}
	res := snapshot.Empty()
	res.Position = binary.BigEndian.Uint64(data)

	iter := ldbSnapshot.NewIterator(util.BytesPrefix(backend.BalanceKey.Prefix()), nil)
	defer iter.Release()
	for iter.Next() {
		addr, err := common.AddressFromBytes(iter.Key()[1:])
		if err != nil {
			return snapshot.Snapshot{}, err
		}
		balance, err := amount.FromBytes(iter.Value())
		if err != nil {
			return snapshot.Snapshot{}, err
		}
		res.Balances[addr] = balance
	}
	if err := iter.Error(); err != nil {
		return snapshot.Snapshot{}, err
	}
	return res, nil
}

// Save replaces the stored snapshot in a single batch. Balances that are no
// longer present are deleted.
func (s *Store) Save(ctx context.Context, snap snapshot.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	batch := new(leveldb.Batch)

	iter := s.db.NewIterator(util.BytesPrefix(backend.BalanceKey.Prefix()), nil)
	for iter.Next() {
		addr, err := common.AddressFromBytes(iter.Key()[1:])
		if err != nil {
			iter.Release()
			return err
		}
		if balance := snap.Balances[addr]; balance.IsZero() {
			batch.Delete(iter.Key())
		}
	}
	err := iter.Error()
	iter.Release()
	if err != nil {
		return err
	}

	for addr, balance := range snap.Balances {
		if balance.IsZero() {
			continue
		}
		value := balance.Bytes32()
		batch.Put(backend.BalanceKey.ToDBKey(addr[:]).ToBytes(), value[:])
	}
	var position [8]byte
	binary.BigEndian.PutUint64(position[:], snap.Position)
	batch.Put(positionKey.ToBytes(), position[:])

	return s.db.Write(batch, nil)
}

// GetMemoryFootprint provides the memory used by the underlying database.
func (s *Store) GetMemoryFootprint() *common.MemoryFootprint {
	mf := common.NewMemoryFootprint(0)
	mf.AddChild("leveldb", s.db.GetMemoryFootprint())
	return mf
}

func (s *Store) Close() error {
	return s.db.Close()
}
