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
	"github.com/urfave/cli/v2"
)

var addressFlag = cli.StringFlag{
	Name:     "address",
	Usage:    "the account to report",
	Required: true,
}

var balanceCommand = cli.Command{
	Action: getBalance,
	Name:   "balance",
	Usage:  "prints the balance of an account together with its proof",
	Flags: append([]cli.Flag{
		&addressFlag,
		&depthFlag,
	}, storeFlags...),
}

func getBalance(ctx *cli.Context) (err error) {
	addr, err := parseAddressFlag(ctx, &addressFlag)
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
	res, err := p.BalanceOf(ctx.Context, addr)
	if err != nil {
		return err
	}
	return printJson(ctx.App.Writer, res)
}
