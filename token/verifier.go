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
	"github.com/Fantom-foundation/smt-token/database/smt"
)

// Verifier is the on-ledger part of the token. It commits to all balances by
// a single root and checks every balance mutation against proofs supplied by
// the caller. Allowances and the total supply are held explicitly.
//
// A Verifier is not safe for concurrent use. Mutating calls must be
// serialized by the ledger hosting it.
type Verifier struct {
	depth       int
	root        common.Hash
	totalSupply amount.Amount
	allowances  map[allowanceKey]amount.Amount
}

type allowanceKey struct {
	owner, spender common.Address
}

// NewVerifier mints the initial supply to the deployer. The resulting root
// is the root of the tree in which the deployer is the only account.
func NewVerifier(depth int, deployer common.Address, initialSupply amount.Amount) (*Verifier, []Event, error) {
	if depth < 1 || depth > smt.MaxDepth {
		return nil, nil, fmt.Errorf("%w: %d", smt.ErrInvalidDepth, depth)
	}
	if deployer == (common.Address{}) {
		return nil, nil, fmt.Errorf("%w: cannot mint to the zero address", ErrZeroAddress)
	}
	empty := smt.Proof(smt.DefaultHashes(depth)[:depth])
	v := &Verifier{
		depth:       depth,
		root:        smt.ComputeRoot(deployer, initialSupply, empty),
		totalSupply: initialSupply,
		allowances:  map[allowanceKey]amount.Amount{},
	}
	return v, []Event{WriteEvent{Address: deployer, Value: initialSupply}}, nil
}

// Depth returns the depth of the committed tree and thus the number of
// hashes expected in every proof.
func (v *Verifier) Depth() int {
	return v.depth
}

// Root returns the current commitment to all balances.
func (v *Verifier) Root() common.Hash {
	return v.root
}

// TotalSupply returns the amount minted at creation.
func (v *Verifier) TotalSupply() amount.Amount {
	return v.totalSupply
}

// Allowance returns the amount spender may still move on behalf of owner.
func (v *Verifier) Allowance(owner, spender common.Address) amount.Amount {
	return v.allowances[allowanceKey{owner, spender}]
}

// Query checks whether addr holds the given balance under the current root.
// Malformed proofs simply do not match.
func (v *Verifier) Query(addr common.Address, balance amount.Amount, proof []byte) bool {
	path, err := smt.ParseProof(proof, v.depth)
	if err != nil {
		return false
	}
	return smt.Verify(v.root, addr, balance, path)
}

// Transfer moves amount from caller to recipient. The sender proof must be
// valid against the current root. The recipient proof and balance must be
// valid against the transitional root, the root after the sender leaf has
// been rewritten. If caller and recipient coincide, the recipient balance is
// thus the already reduced sender balance.
//
// On success the root advances twice and the events Write(sender),
// Write(recipient) and Transfer are returned. On failure nothing changes.
func (v *Verifier) Transfer(
	caller common.Address, senderBalance amount.Amount, senderProof []byte,
	recipient common.Address, recipientBalance amount.Amount, recipientProof []byte,
	value amount.Amount,
) ([]Event, error) {
	root, events, err := v.transfer(caller, senderBalance, senderProof, recipient, recipientBalance, recipientProof, value)
	if err != nil {
		return nil, err
	}
	v.root = root
	return events, nil
}

// TransferFrom moves amount from owner to recipient on behalf of spender.
// It consumes allowance and otherwise behaves like Transfer with owner as
// the sender. The events are Approval, Write(owner), Write(recipient) and
// Transfer.
func (v *Verifier) TransferFrom(
	spender common.Address,
	owner common.Address, ownerBalance amount.Amount, ownerProof []byte,
	recipient common.Address, recipientBalance amount.Amount, recipientProof []byte,
	value amount.Amount,
) ([]Event, error) {
	key := allowanceKey{owner, spender}
	remaining, underflow := amount.SubUnderflow(v.allowances[key], value)
	if underflow {
		return nil, fmt.Errorf("%w: %v of %v approved by %v requested by %v", ErrInsufficientAllowance, value, v.allowances[key], owner, spender)
	}
	root, events, err := v.transfer(owner, ownerBalance, ownerProof, recipient, recipientBalance, recipientProof, value)
	if err != nil {
		return nil, err
	}
	v.setAllowance(key, remaining)
	v.root = root
	approval := ApprovalEvent{Owner: owner, Spender: spender, Value: remaining}
	return append([]Event{approval}, events...), nil
}

// transfer performs all checks of a transfer on scratch values and returns
// the final root and the events to emit. The receiver is not modified.
func (v *Verifier) transfer(
	sender common.Address, senderBalance amount.Amount, senderProof []byte,
	recipient common.Address, recipientBalance amount.Amount, recipientProof []byte,
	value amount.Amount,
) (common.Hash, []Event, error) {
	if recipient == (common.Address{}) {
		return common.Hash{}, nil, fmt.Errorf("%w: cannot transfer to the zero address", ErrZeroAddress)
	}

	senderPath, err := smt.ParseProof(senderProof, v.depth)
	if err != nil {
		return common.Hash{}, nil, fmt.Errorf("sender proof: %w", err)
	}
	if !smt.Verify(v.root, sender, senderBalance, senderPath) {
		return common.Hash{}, nil, fmt.Errorf("%w: %v claiming %v", ErrSenderProofInvalid, sender, senderBalance)
	}
	newSender, underflow := amount.SubUnderflow(senderBalance, value)
	if underflow {
		return common.Hash{}, nil, fmt.Errorf("%w: %v holds %v, requested %v", ErrInsufficientBalance, sender, senderBalance, value)
	}
	// A leaf write does not change the siblings on its own path, so the
	// verified sender proof yields the transitional root.
	transitional := smt.ComputeRoot(sender, newSender, senderPath)

	recipientPath, err := smt.ParseProof(recipientProof, v.depth)
	if err != nil {
		return common.Hash{}, nil, fmt.Errorf("recipient proof: %w", err)
	}
	if sender == recipient && recipientBalance != newSender {
		return common.Hash{}, nil, fmt.Errorf("%w: self transfer must claim the reduced balance %v, got %v", ErrStaleRecipientProof, newSender, recipientBalance)
	}
	if !smt.Verify(transitional, recipient, recipientBalance, recipientPath) {
		return common.Hash{}, nil, fmt.Errorf("%w: %v claiming %v", ErrStaleRecipientProof, recipient, recipientBalance)
	}
	newRecipient, overflow := amount.AddOverflow(recipientBalance, value)
	if overflow {
		return common.Hash{}, nil, fmt.Errorf("%w: %v holding %v cannot receive %v", ErrBalanceOverflow, recipient, recipientBalance, value)
	}
	root := smt.ComputeRoot(recipient, newRecipient, recipientPath)

	return root, []Event{
		WriteEvent{Address: sender, Value: newSender},
		WriteEvent{Address: recipient, Value: newRecipient},
		TransferEvent{From: sender, To: recipient, Value: value},
	}, nil
}

// Approve sets the allowance of spender over the balance of owner.
func (v *Verifier) Approve(owner, spender common.Address, value amount.Amount) ([]Event, error) {
	if err := checkApprovalParties(owner, spender); err != nil {
		return nil, err
	}
	return v.setAllowance(allowanceKey{owner, spender}, value), nil
}

// IncreaseAllowance raises the allowance of spender by delta.
func (v *Verifier) IncreaseAllowance(owner, spender common.Address, delta amount.Amount) ([]Event, error) {
	if err := checkApprovalParties(owner, spender); err != nil {
		return nil, err
	}
	key := allowanceKey{owner, spender}
	next, overflow := amount.AddOverflow(v.allowances[key], delta)
	if overflow {
		return nil, fmt.Errorf("%w: increasing %v by %v overflows", ErrAllowanceRange, v.allowances[key], delta)
	}
	return v.setAllowance(key, next), nil
}

// DecreaseAllowance lowers the allowance of spender by delta.
func (v *Verifier) DecreaseAllowance(owner, spender common.Address, delta amount.Amount) ([]Event, error) {
	if err := checkApprovalParties(owner, spender); err != nil {
		return nil, err
	}
	key := allowanceKey{owner, spender}
	next, underflow := amount.SubUnderflow(v.allowances[key], delta)
	if underflow {
		return nil, fmt.Errorf("%w: decreasing %v by %v underflows", ErrAllowanceRange, v.allowances[key], delta)
	}
	return v.setAllowance(key, next), nil
}

func (v *Verifier) setAllowance(key allowanceKey, value amount.Amount) []Event {
	if value.IsZero() {
		delete(v.allowances, key)
	} else {
		v.allowances[key] = value
	}
	return []Event{ApprovalEvent{Owner: key.owner, Spender: key.spender, Value: value}}
}

func checkApprovalParties(owner, spender common.Address) error {
	if owner == (common.Address{}) {
		return fmt.Errorf("%w: approve from the zero address", ErrZeroAddress)
	}
	if spender == (common.Address{}) {
		return fmt.Errorf("%w: approve to the zero address", ErrZeroAddress)
	}
	return nil
}
