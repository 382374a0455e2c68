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
	"context"
	"fmt"
	"time"

	"github.com/Fantom-foundation/smt-token/backend/snapshot"
	"github.com/Fantom-foundation/smt-token/common"
	"github.com/Fantom-foundation/smt-token/common/amount"
	"github.com/Fantom-foundation/smt-token/database/smt"
	"github.com/Fantom-foundation/smt-token/token"
	"github.com/ethereum/go-ethereum/log"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// Source provides up-to-date snapshots of the balances. It is implemented
// by *mirror.Mirror.
type Source interface {
	Refresh(ctx context.Context) (snapshot.Snapshot, error)
}

// Config summarizes the options of a prover.
type Config struct {
	// Depth is the depth of the trees, it must match the verifier.
	Depth int
	// CacheSize is the number of trees kept for recent snapshots.
	CacheSize int
	// Registerer receives the prover metrics. May be nil.
	Registerer prometheus.Registerer
}

// DefaultConfig returns the configuration of a prover for full-depth trees.
func DefaultConfig() Config {
	return Config{
		Depth:     smt.MaxDepth,
		CacheSize: 8,
	}
}

// Prover derives the proofs needed by clients of the verifier from the
// mirrored balances. It only reads immutable trees and may be used
// concurrently.
type Prover struct {
	source  Source
	depth   int
	engines *lru.Cache[uint64, *smt.Engine]
	metrics *metrics
	log     log.Logger
}

// New creates a prover reading snapshots from the given source.
func New(source Source, config Config) (*Prover, error) {
	if config.Depth < 1 || config.Depth > smt.MaxDepth {
		return nil, fmt.Errorf("%w: %d", smt.ErrInvalidDepth, config.Depth)
	}
	if config.CacheSize < 1 {
		config.CacheSize = DefaultConfig().CacheSize
	}
	engines, err := lru.New[uint64, *smt.Engine](config.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Prover{
		source:  source,
		depth:   config.Depth,
		engines: engines,
		metrics: newMetrics(config.Registerer),
		log:     log.New("module", "prover"),
	}, nil
}

// engine returns the tree of the latest snapshot and its position. Trees are
// cached by snapshot position since a position determines its balances.
func (p *Prover) engine(ctx context.Context) (*smt.Engine, uint64, error) {
	snap, err := p.source.Refresh(ctx)
	if err != nil {
		return nil, 0, err
	}
	if engine, found := p.engines.Get(snap.Position); found {
		p.metrics.cache.WithLabelValues(cacheHit).Inc()
		return engine, snap.Position, nil
	}
	p.metrics.cache.WithLabelValues(cacheMiss).Inc()

	start := time.Now()
	engine, err := smt.Build(snap.Balances, p.depth)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build tree of position %d: %w", snap.Position, err)
	}
	elapsed := time.Since(start)
	p.metrics.build.Observe(elapsed.Seconds())
	p.log.Debug("Built balance tree", "position", snap.Position, "accounts", engine.Len(), "root", engine.Root(), "elapsed", elapsed)

	p.engines.Add(snap.Position, engine)
	return engine, snap.Position, nil
}

// BalanceOf returns the balance of the given address with its proof.
// Unknown addresses hold a zero balance with a valid proof.
func (p *Prover) BalanceOf(ctx context.Context, addr common.Address) (BalanceProof, error) {
	engine, position, err := p.engine(ctx)
	if err != nil {
		return BalanceProof{}, err
	}
	p.metrics.proofs.WithLabelValues(kindBalance).Inc()
	return BalanceProof{
		Position: position,
		Root:     engine.Root(),
		Address:  addr,
		Balance:  engine.Get(addr),
		Proof:    engine.Proof(addr).Bytes(),
	}, nil
}

// Transfer prepares the arguments of a transfer of the given amount.
func (p *Prover) Transfer(ctx context.Context, sender, recipient common.Address, value amount.Amount) (TransferBundle, error) {
	return p.bundle(ctx, kindTransfer, sender, recipient, value)
}

// TransferFrom prepares the balances and proofs of a delegated transfer out
// of the balance of owner. The allowance is not checked.
func (p *Prover) TransferFrom(ctx context.Context, owner, recipient common.Address, value amount.Amount) (TransferBundle, error) {
	return p.bundle(ctx, kindTransferFrom, owner, recipient, value)
}

func (p *Prover) bundle(ctx context.Context, kind string, sender, recipient common.Address, value amount.Amount) (TransferBundle, error) {
	if recipient == (common.Address{}) {
		return TransferBundle{}, fmt.Errorf("%w: cannot transfer to the zero address", token.ErrZeroAddress)
	}
	current, position, err := p.engine(ctx)
	if err != nil {
		return TransferBundle{}, err
	}
	senderBalance := current.Get(sender)
	newSender, underflow := amount.SubUnderflow(senderBalance, value)
	if underflow {
		return TransferBundle{}, fmt.Errorf("%w: %v holds %v, requested %v", token.ErrInsufficientBalance, sender, senderBalance, value)
	}
	transitional, err := current.Apply(sender, newSender)
	if err != nil {
		return TransferBundle{}, err
	}
	p.metrics.proofs.WithLabelValues(kind).Inc()
	return TransferBundle{
		Position:         position,
		Root:             current.Root(),
		TransitionalRoot: transitional.Root(),
		Sender:           sender,
		SenderBalance:    senderBalance,
		SenderProof:      current.Proof(sender).Bytes(),
		Recipient:        recipient,
		RecipientBalance: transitional.Get(recipient),
		RecipientProof:   transitional.Proof(recipient).Bytes(),
		Amount:           value,
	}, nil
}
