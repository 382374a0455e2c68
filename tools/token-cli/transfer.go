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
	"github.com/Fantom-foundation/smt-token/prover"
	"github.com/urfave/cli/v2"
)

var (
	fromFlag = cli.StringFlag{
		Name:     "from",
		Usage:    "the account the tokens are taken from",
		Required: true,
	}
	toFlag = cli.StringFlag{
		Name:     "to",
		Usage:    "the account receiving the tokens",
		Required: true,
	}
	amountFlag = cli.StringFlag{
		Name:     "amount",
		Usage:    "the amount to transfer, decimal or 0x-prefixed 64 digit hex",
		Required: true,
	}
	delegatedFlag = cli.BoolFlag{
		Name:  "delegated",
		Usage: "prepare a transferFrom call spending an allowance of the sender",
	}
)

var transferCommand = cli.Command{
	Action: prepareTransfer,
	Name:   "transfer",
	Usage:  "prints the balances and proofs needed to submit a transfer",
	Flags: append([]cli.Flag{
		&fromFlag,
		&toFlag,
		&amountFlag,
		&delegatedFlag,
		&depthFlag,
	}, storeFlags...),
}

func prepareTransfer(ctx *cli.Context) (err error) {
	from, err := parseAddressFlag(ctx, &fromFlag)
	if err != nil {
		return err
	}
	to, err := parseAddressFlag(ctx, &toFlag)
	if err != nil {
		return err
	}
	value, err := parseAmountFlag(ctx, &amountFlag)
	if err != nil {
		return err
	}
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore(store, &err)

	p, err := openProver(ctx, store)
	if err != nil {
		return err
	}
	var bundle prover.TransferBundle
	if ctx.Bool(delegatedFlag.Name) {
		bundle, err = p.TransferFrom(ctx.Context, from, to, value)
	} else {
		bundle, err = p.Transfer(ctx.Context, from, to, value)
	}
	if err != nil {
		return err
	}
	return printJson(ctx.App.Writer, bundle)
}
