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
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/Fantom-foundation/smt-token/common"
	"github.com/Fantom-foundation/smt-token/common/amount"
	"github.com/Fantom-foundation/smt-token/database/smt"
	"github.com/Fantom-foundation/smt-token/mirror"
	"github.com/Fantom-foundation/smt-token/token"
)

var (
	alice = common.Address{0xA1}
	bob   = common.Address{0xB0}
	carol = common.Address{0xC0}
)

func proofs(t *testing.T, balances map[common.Address]amount.Amount, sender common.Address, newSender uint64, recipient common.Address) ([]byte, []byte) {
	t.Helper()
	current, err := smt.Build(balances, smt.MaxDepth)
	if err != nil {
		t.Fatalf("failed to build tree: %v", err)
	}
	transitional, err := current.Apply(sender, amount.New(newSender))
	if err != nil {
		t.Fatalf("failed to apply update: %v", err)
	}
	return current.Proof(sender).Bytes(), transitional.Proof(recipient).Bytes()
}

func TestLedger_MintIsAtGenesisPosition(t *testing.T) {
	l, err := New(smt.MaxDepth, alice, amount.New(10000))
	if err != nil {
		t.Fatalf("failed to create ledger: %v", err)
	}
	if got := l.Position(); got != 0 {
		t.Errorf("unexpected position, got %d, want 0", got)
	}
	want := []Entry{{Position: 0, Event: token.WriteEvent{Address: alice, Value: amount.New(10000)}}}
	if got := l.Events(0); !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected journal, got %v, want %v", got, want)
	}
	if got, want := l.TotalSupply(), amount.New(10000); got != want {
		t.Errorf("unexpected total supply, got %v, want %v", got, want)
	}
}

func TestLedger_AcceptedCallsAdvancePosition(t *testing.T) {
	l, err := New(smt.MaxDepth, alice, amount.New(10000))
	if err != nil {
		t.Fatalf("failed to create ledger: %v", err)
	}
	senderProof, recipientProof := proofs(t, map[common.Address]amount.Amount{alice: amount.New(10000)}, alice, 9000, bob)
	position, events, err := l.Transfer(alice, amount.New(10000), senderProof, bob, amount.New(), recipientProof, amount.New(1000))
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if position != 1 || len(events) != 3 {
		t.Errorf("unexpected result, got position %d with %d events", position, len(events))
	}

	position, _, err = l.Approve(alice, carol, amount.New(5))
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if position != 2 {
		t.Errorf("unexpected position, got %d, want 2", position)
	}
	if got, want := l.Allowance(alice, carol), amount.New(5); got != want {
		t.Errorf("unexpected allowance, got %v, want %v", got, want)
	}
	if got, want := len(l.Events(1)), 4; got != want {
		t.Errorf("unexpected number of events since position 1, got %d, want %d", got, want)
	}
}

func TestLedger_RejectedCallsLeaveNoTrace(t *testing.T) {
	l, err := New(smt.MaxDepth, alice, amount.New(10000))
	if err != nil {
		t.Fatalf("failed to create ledger: %v", err)
	}
	root := l.Root()
	if _, _, err := l.DecreaseAllowance(alice, bob, amount.New(1)); !errors.Is(err, token.ErrAllowanceRange) {
		t.Fatalf("expected range error, got %v", err)
	}
	senderProof, _ := proofs(t, map[common.Address]amount.Amount{alice: amount.New(10000)}, alice, 9000, bob)
	if _, _, err := l.Transfer(alice, amount.New(10000), senderProof, bob, amount.New(), senderProof, amount.New(1000)); !errors.Is(err, token.ErrStaleRecipientProof) {
		t.Fatalf("expected stale recipient proof, got %v", err)
	}
	if l.Position() != 0 || l.Root() != root || len(l.Events(0)) != 1 {
		t.Errorf("rejected calls modified the ledger")
	}
}

func TestLedger_WritesSinceIsInclusive(t *testing.T) {
	l, err := New(smt.MaxDepth, alice, amount.New(10000))
	if err != nil {
		t.Fatalf("failed to create ledger: %v", err)
	}
	senderProof, recipientProof := proofs(t, map[common.Address]amount.Amount{alice: amount.New(10000)}, alice, 9000, bob)
	if _, _, err := l.Transfer(alice, amount.New(10000), senderProof, bob, amount.New(), recipientProof, amount.New(1000)); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if _, _, err := l.IncreaseAllowance(alice, carol, amount.New(1)); err != nil {
		t.Fatalf("increase failed: %v", err)
	}

	tests := map[uint64][]mirror.Write{
		0: {
			{Position: 0, Address: alice, Value: amount.New(10000)},
			{Position: 1, Address: alice, Value: amount.New(9000)},
			{Position: 1, Address: bob, Value: amount.New(1000)},
		},
		1: {
			{Position: 1, Address: alice, Value: amount.New(9000)},
			{Position: 1, Address: bob, Value: amount.New(1000)},
		},
		2: nil,
		3: nil,
	}
	for from, want := range tests {
		got, err := l.WritesSince(context.Background(), from)
		if err != nil {
			t.Fatalf("failed to fetch writes: %v", err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("unexpected writes since %d, got %v, want %v", from, got, want)
		}
	}
}

func TestLedger_RacingTransfersOnlyFirstSucceeds(t *testing.T) {
	l, err := New(smt.MaxDepth, alice, amount.New(10000))
	if err != nil {
		t.Fatalf("failed to create ledger: %v", err)
	}
	balances := map[common.Address]amount.Amount{alice: amount.New(10000)}
	const N = 8
	var wg sync.WaitGroup
	errs := make([]error, N)
	wg.Add(N)
	for i := 0; i < N; i++ {
		recipient := common.Address{0xD0, byte(i)}
		senderProof, recipientProof := proofs(t, balances, alice, 9990, recipient)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = l.Transfer(alice, amount.New(10000), senderProof, recipient, amount.New(), recipientProof, amount.New(10))
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, err := range errs {
		if err == nil {
			accepted++
		} else if !token.IsRetryable(err) {
			t.Errorf("unexpected rejection: %v", err)
		}
	}
	if accepted != 1 {
		t.Errorf("expected exactly one accepted transfer, got %d", accepted)
	}
	if got := l.Position(); got != 1 {
		t.Errorf("unexpected position, got %d, want 1", got)
	}
}

func TestLedger_CanceledContextIsReported(t *testing.T) {
	l, err := New(smt.MaxDepth, alice, amount.New(1))
	if err != nil {
		t.Fatalf("failed to create ledger: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.WritesSince(ctx, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("expected canceled error, got %v", err)
	}
}
