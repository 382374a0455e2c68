// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package prover

import (
	"github.com/Fantom-foundation/smt-token/common"
	"github.com/Fantom-foundation/smt-token/common/amount"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// BalanceProof is the answer to a balance request. It can be passed to the
// Query operation of the verifier as is.
type BalanceProof struct {
	Position uint64         `json:"position"`
	Root     common.Hash    `json:"root"`
	Address  common.Address `json:"address"`
	Balance  amount.Amount  `json:"balance"`
	Proof    hexutil.Bytes  `json:"proof"`
}

// TransferBundle holds the arguments of a transfer call. The sender proof
// is taken from the current tree, the recipient proof and balance from the
// transitional tree in which only the sender leaf has been updated.
type TransferBundle struct {
	Position         uint64         `json:"position"`
	Root             common.Hash    `json:"root"`
	TransitionalRoot common.Hash    `json:"transitionalRoot"`
	Sender           common.Address `json:"sender"`
	SenderBalance    amount.Amount  `json:"senderBalance"`
	SenderProof      hexutil.Bytes  `json:"senderProof"`
	Recipient        common.Address `json:"recipient"`
	RecipientBalance amount.Amount  `json:"recipientBalance"`
	RecipientProof   hexutil.Bytes  `json:"recipientProof"`
	Amount           amount.Amount  `json:"amount"`
}
