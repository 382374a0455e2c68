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

//go:generate mockgen -source source.go -destination source_mocks.go -package mirror

import (
	"context"
	"fmt"

	"github.com/Fantom-foundation/smt-token/common"
	"github.com/Fantom-foundation/smt-token/common/amount"
)

// Write is a notification of a single leaf write emitted by the ledger.
type Write struct {
	Position uint64
	Address  common.Address
	Value    amount.Amount
}

func (w Write) String() string {
	return fmt.Sprintf("Write@%d(%v, %v)", w.Position, w.Address, w.Value)
}

// WriteSource provides the write notifications of the ledger.
type WriteSource interface {
	// WritesSince returns all writes at positions greater than or equal to
	// the given position, in emission order.
	WritesSince(ctx context.Context, position uint64) ([]Write, error)
}
