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

	"github.com/Fantom-foundation/smt-token/common/ticker"
)

// Follow refreshes the mirror on every tick until the context is done. A
// failed refresh is logged and retried on the next tick. The ticker is
// stopped before Follow returns the context's error.
func (m *Mirror) Follow(ctx context.Context, t ticker.Ticker) error {
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C():
			if _, err := m.Refresh(ctx); err != nil && ctx.Err() == nil {
				m.log.Warn("Failed to refresh snapshot", "err", err)
			}
		}
	}
}
