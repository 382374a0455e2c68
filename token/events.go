// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package token

import (
	"fmt"

	"github.com/Fantom-foundation/smt-token/common"
	"github.com/Fantom-foundation/smt-token/common/amount"
)

// Event is a notification emitted by an accepted Verifier operation.
type Event interface {
	// Name returns the name of the event kind.
	Name() string
}

// WriteEvent reports the new value of a single leaf. Replaying all write
// events in order reproduces the committed mapping.
type WriteEvent struct {
	Address common.Address
	Value   amount.Amount
}

func (WriteEvent) Name() string { return "Write" }

func (e WriteEvent) String() string {
	return fmt.Sprintf("Write(%v, %v)", e.Address, e.Value)
}

// TransferEvent reports a completed transfer.
type TransferEvent struct {
	From  common.Address
	To    common.Address
	Value amount.Amount
}

func (TransferEvent) Name() string { return "Transfer" }

func (e TransferEvent) String() string {
	return fmt.Sprintf("Transfer(%v, %v, %v)", e.From, e.To, e.Value)
}

// ApprovalEvent reports the new allowance of a spender.
type ApprovalEvent struct {
	Owner   common.Address
	Spender common.Address
	Value   amount.Amount
}

func (ApprovalEvent) Name() string { return "Approval" }

func (e ApprovalEvent) String() string {
	return fmt.Sprintf("Approval(%v, %v, %v)", e.Owner, e.Spender, e.Value)
}
