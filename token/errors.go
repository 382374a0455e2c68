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
	"errors"

	"github.com/Fantom-foundation/smt-token/common"
)

const (
	// ErrSenderProofInvalid indicates that the claimed balance and proof of
	// the sender do not fold to the current root.
	ErrSenderProofInvalid = common.ConstError("sender balance or proof is incorrect")
	// ErrStaleRecipientProof indicates that the claimed balance and proof of
	// the recipient do not fold to the root after the sender write.
	ErrStaleRecipientProof = common.ConstError("recipient balance or proof is not valid for the transitional root")
	// ErrInsufficientBalance indicates a transfer exceeding the sender balance.
	ErrInsufficientBalance = common.ConstError("transfer amount exceeds balance")
	// ErrInsufficientAllowance indicates a delegated transfer exceeding the allowance.
	ErrInsufficientAllowance = common.ConstError("transfer amount exceeds allowance")
	// ErrAllowanceRange indicates an allowance change leaving [0, 2^256).
	ErrAllowanceRange = common.ConstError("allowance out of range")
	// ErrZeroAddress indicates the zero address used as recipient, spender or owner.
	ErrZeroAddress = common.ConstError("zero address")
	// ErrBalanceOverflow indicates a recipient balance exceeding 2^256-1.
	ErrBalanceOverflow = common.ConstError("balance overflow")
)

// IsRetryable reports whether a rejected call may succeed when resubmitted
// with proofs computed against a fresher root. Arithmetic failures are final.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrSenderProofInvalid) || errors.Is(err, ErrStaleRecipientProof)
}
