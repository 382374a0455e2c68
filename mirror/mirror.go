// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package mirror

import (
	"context"
	"errors"
	"fmt"

	"github.com/Fantom-foundation/smt-token/backend/snapshot"
	"github.com/Fantom-foundation/smt-token/common"
	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/sync/singleflight"
)

// ErrCacheUnavailable is returned by Refresh if the stored snapshot can not
// be loaded. A mirror never continues from an assumed empty mapping unless
// explicitly configured to do so.
const ErrCacheUnavailable = common.ConstError("snapshot cache unavailable")

// Config summarizes the options of a mirror.
type Config struct {
	// Key identifies the mirrored mapping. Refreshes of all mirrors of a
	// process sharing a non-empty key are joined, so at most one of them is
	// in flight. Such mirrors must be backed by the same store. Mirrors
	// without a key coordinate only their own refreshes.
	Key string
	// AllowEmpty permits starting from an empty mapping at the genesis
	// position if the store has never been written.
	AllowEmpty bool
	// Logger receives non-fatal anomalies. Defaults to the root logger.
	Logger log.Logger
}

// DefaultConfig returns the configuration of a mirror that does not share
// its refreshes.
func DefaultConfig() Config {
	return Config{}
}

// shared joins the refreshes of mirrors configured with the same key.
var shared singleflight.Group

// Mirror maintains an off-ledger copy of the committed balances by replaying
// write notifications onto a stored snapshot.
type Mirror struct {
	store  snapshot.Store
	source WriteSource
	config Config
	log    log.Logger
	group  *singleflight.Group
}

// New creates a mirror keeping the given store in sync with the source.
func New(store snapshot.Store, source WriteSource, config Config) *Mirror {
	group := &shared
	if config.Key == "" {
		group = new(singleflight.Group)
	}
	logger := config.Logger
	if logger == nil {
		logger = log.New("module", "mirror", "key", config.Key)
	}
	return &Mirror{
		store:  store,
		source: source,
		config: config,
		log:    logger,
		group:  group,
	}
}

// Refresh brings the stored snapshot up to date and returns it. Concurrent
// callers share a single refresh, and a new refresh only starts once the
// previous one finished. The returned snapshot is owned by the caller.
func (m *Mirror) Refresh(ctx context.Context) (snapshot.Snapshot, error) {
	res, err, _ := m.group.Do(m.config.Key, func() (any, error) {
		return m.refresh(ctx)
	})
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	return res.(snapshot.Snapshot).Clone(), nil
}

func (m *Mirror) refresh(ctx context.Context) (snapshot.Snapshot, error) {
	current, err := m.store.Load(ctx)
	missing := errors.Is(err, snapshot.ErrNotFound)
	if missing && m.config.AllowEmpty {
		current, err = snapshot.Empty(), nil
	}
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}

	writes, err := m.source.WritesSince(ctx, current.Position)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("failed to fetch writes since position %d: %w", current.Position, err)
	}
	merged := Merge(current, writes)

	// Writes at the snapshot position are delivered again on every refresh.
	if missing || !merged.Equal(current) {
		if err := m.store.Save(ctx, merged); err != nil {
			m.log.Warn("Failed to save snapshot", "position", merged.Position, "err", err)
		}
	}
	m.log.Debug("Refreshed snapshot", "position", merged.Position, "writes", len(writes), "accounts", len(merged.Balances))
	return merged, nil
}

// Merge applies the given writes to a copy of the snapshot. The last write
// of an address wins. Writes at positions before the snapshot position are
// already covered and ignored, so merging the same writes twice is a no-op
// as long as they are ordered by position.
func Merge(s snapshot.Snapshot, writes []Write) snapshot.Snapshot {
	res := s.Clone()
	for _, w := range writes {
		if w.Position < s.Position {
			continue
		}
		if w.Value.IsZero() {
			delete(res.Balances, w.Address)
		} else {
			res.Balances[w.Address] = w.Value
		}
		if w.Position > res.Position {
			res.Position = w.Position
		}
	}
	return res
}
