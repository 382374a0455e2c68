// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package ledger

import (
	"context"
	"sync"

	"github.com/Fantom-foundation/smt-token/common"
	"github.com/Fantom-foundation/smt-token/common/amount"
	"github.com/Fantom-foundation/smt-token/mirror"
	"github.com/Fantom-foundation/smt-token/token"
)

// Entry is an event accepted by the ledger together with its position.
type Entry struct {
	Position uint64
	Event    token.Event
}

// Ledger hosts a single Verifier and imposes a total order on all calls to
// it. Every accepted mutating call is assigned the next position. Position 0
// is the mint. Rejected calls leave no trace.
//
// A Ledger is safe for concurrent use.
type Ledger struct {
	mu       sync.Mutex
	verifier *token.Verifier
	journal  []Entry
	position uint64
}

// New deploys a token minting the initial supply to the deployer.
func New(depth int, deployer common.Address, initialSupply amount.Amount) (*Ledger, error) {
	verifier, events, err := token.NewVerifier(depth, deployer, initialSupply)
	if err != nil {
		return nil, err
	}
	l := &Ledger{verifier: verifier}
	l.record(events)
	return l, nil
}

// record appends the events of an accepted call at the current position.
func (l *Ledger) record(events []token.Event) {
	for _, event := range events {
		l.journal = append(l.journal, Entry{Position: l.position, Event: event})
	}
}

// apply runs a mutating call at the next position.
func (l *Ledger) apply(call func(v *token.Verifier) ([]token.Event, error)) (uint64, []token.Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	events, err := call(l.verifier)
	if err != nil {
		return 0, nil, err
	}
	l.position++
	l.record(events)
	return l.position, events, nil
}

// Query checks a balance claim against the current root.
func (l *Ledger) Query(addr common.Address, balance amount.Amount, proof []byte) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.verifier.Query(addr, balance, proof)
}

// Transfer submits a transfer of the caller. It returns the position of the
// accepted call and its events.
func (l *Ledger) Transfer(
	caller common.Address, senderBalance amount.Amount, senderProof []byte,
	recipient common.Address, recipientBalance amount.Amount, recipientProof []byte,
	value amount.Amount,
) (uint64, []token.Event, error) {
	return l.apply(func(v *token.Verifier) ([]token.Event, error) {
		return v.Transfer(caller, senderBalance, senderProof, recipient, recipientBalance, recipientProof, value)
	})
}

// TransferFrom submits a delegated transfer of the spender.
func (l *Ledger) TransferFrom(
	spender common.Address,
	owner common.Address, ownerBalance amount.Amount, ownerProof []byte,
	recipient common.Address, recipientBalance amount.Amount, recipientProof []byte,
	value amount.Amount,
) (uint64, []token.Event, error) {
	return l.apply(func(v *token.Verifier) ([]token.Event, error) {
		return v.TransferFrom(spender, owner, ownerBalance, ownerProof, recipient, recipientBalance, recipientProof, value)
	})
}

func (l *Ledger) Approve(owner, spender common.Address, value amount.Amount) (uint64, []token.Event, error) {
	return l.apply(func(v *token.Verifier) ([]token.Event, error) {
		return v.Approve(owner, spender, value)
	})
}

func (l *Ledger) IncreaseAllowance(owner, spender common.Address, delta amount.Amount) (uint64, []token.Event, error) {
	return l.apply(func(v *token.Verifier) ([]token.Event, error) {
		return v.IncreaseAllowance(owner, spender, delta)
	})
}

func (l *Ledger) DecreaseAllowance(owner, spender common.Address, delta amount.Amount) (uint64, []token.Event, error) {
	return l.apply(func(v *token.Verifier) ([]token.Event, error) {
		return v.DecreaseAllowance(owner, spender, delta)
	})
}

// Position returns the position of the last accepted call.
func (l *Ledger) Position() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.position
}

// Root returns the current balance commitment.
func (l *Ledger) Root() common.Hash {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.verifier.Root()
}

func (l *Ledger) Depth() int {
	return l.verifier.Depth()
}

func (l *Ledger) TotalSupply() amount.Amount {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.verifier.TotalSupply()
}

func (l *Ledger) Allowance(owner, spender common.Address) amount.Amount {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.verifier.Allowance(owner, spender)
}

// Events returns all journal entries at positions greater than or equal to
// the given position.
func (l *Ledger) Events(from uint64) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var res []Entry
	for _, entry := range l.journal {
		if entry.Position >= from {
			res = append(res, entry)
		}
	}
	return res
}

// WritesSince returns the write notifications at positions greater than or
// equal to the given position in emission order.
func (l *Ledger) WritesSince(ctx context.Context, position uint64) ([]mirror.Write, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var res []mirror.Write
	for _, entry := range l.Events(position) {
		if write, ok := entry.Event.(token.WriteEvent); ok {
			res = append(res, mirror.Write{
				Position: entry.Position,
				Address:  write.Address,
				Value:    write.Value,
			})
		}
	}
	return res, nil
}
