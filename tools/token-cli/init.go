// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"errors"
	"fmt"

	"github.com/Fantom-foundation/smt-token/backend/snapshot"
	"github.com/Fantom-foundation/smt-token/common"
	"github.com/Fantom-foundation/smt-token/common/amount"
	"github.com/Fantom-foundation/smt-token/database/smt"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

var (
	deployerFlag = cli.StringFlag{
		Name:     "deployer",
		Usage:    "the address receiving the initial supply",
		Required: true,
	}
	supplyFlag = cli.StringFlag{
		Name:     "supply",
		Usage:    "the initial supply, decimal or 0x-prefixed 64 digit hex",
		Required: true,
	}
)

var initCommand = cli.Command{
	Action: initSnapshot,
	Name:   "init",
	Usage:  "writes the genesis snapshot of a token minting its supply to the deployer",
	Flags: append([]cli.Flag{
		&deployerFlag,
		&supplyFlag,
		&depthFlag,
	}, storeFlags...),
}

func initSnapshot(ctx *cli.Context) (err error) {
	deployer, err := parseAddressFlag(ctx, &deployerFlag)
	if err != nil {
		return err
	}
	supply, err := parseAmountFlag(ctx, &supplyFlag)
	if err != nil {
		return err
	}
	genesis := snapshot.Snapshot{
		Position: 0,
		Balances: map[common.Address]amount.Amount{deployer: supply},
	}
	engine, err := smt.Build(genesis.Balances, ctx.Int(depthFlag.Name))
	if err != nil {
		return err
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore(store, &err)

	if _, err := store.Load(ctx.Context); err == nil {
		return fmt.Errorf("snapshot already initialized")
	} else if !errors.Is(err, snapshot.ErrNotFound) {
		return err
	}
	log.Info("Writing genesis snapshot", "deployer", deployer, "supply", supply)
	if err := store.Save(ctx.Context, genesis); err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "Genesis root: %v\n", engine.Root())
	return nil
}
