// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/Fantom-foundation/smt-token/backend/snapshot"
	"github.com/Fantom-foundation/smt-token/backend/utils"
	"github.com/Fantom-foundation/smt-token/common"
	"github.com/Fantom-foundation/smt-token/common/amount"
)

// document is the persisted form of a snapshot. Addresses are rendered in
// their EIP-55 form and balances as 0x-prefixed 64 digit hex strings.
type document struct {
	BlockNumber uint64            `json:"blockNumber"`
	Leaves      map[string]string `json:"leaves"`
}

// Store keeps a snapshot in a single JSON file. While the store is open it
// holds a lock file next to the snapshot, so at most one process writes it.
type Store struct {
	mu   sync.Mutex
	path string
	lock *common.LockFile
}

// NewStore opens the snapshot file at the given path. The file does not
// need to exist. Opening fails if another store holds the file.
func NewStore(path string) (*Store, error) {
	lock, err := common.CreateLockFile(path + ".lock")
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot file %s: %w", path, err)
	}
	return &Store{path: path, lock: lock}, nil
}

func (s *Store) Load(ctx context.Context) (snapshot.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return snapshot.Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := utils.ReadJsonFile[document](s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return snapshot.Snapshot{}, snapshot.ErrNotFound
	}
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	return decode(doc)
}

func (s *Store) Save(ctx context.Context, snap snapshot.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return utils.WriteJsonFile(s.path, encode(snap))
}

func (s *Store) Close() error {
	return s.lock.Release()
}

func encode(snap snapshot.Snapshot) document {
	doc := document{
		BlockNumber: snap.Position,
		Leaves:      make(map[string]string, len(snap.Balances)),
	}
	for addr, balance := range snap.Balances {
		if !balance.IsZero() {
			doc.Leaves[addr.Checksum()] = balance.Hex()
		}
	}
	return doc
}

func decode(doc document) (snapshot.Snapshot, error) {
	res := snapshot.Empty()
	res.Position = doc.BlockNumber
	for key, value := range doc.Leaves {
		addr, err := common.ParseAddress(key)
		if err != nil {
			return snapshot.Snapshot{}, err
		}
		balance, err := amount.ParseHex(value)
		if err != nil {
			return snapshot.Snapshot{}, fmt.Errorf("balance of %v: %w", addr, err)
		}
		if _, exists := res.Balances[addr]; exists {
			return snapshot.Snapshot{}, fmt.Errorf("%w: duplicate leaf for %v", common.ErrUnexpectedEncoding, addr)
		}
		if !balance.IsZero() {
			res.Balances[addr] = balance
		}
	}
	return res, nil
}
