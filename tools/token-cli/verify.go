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
	"fmt"

	"github.com/Fantom-foundation/smt-token/common"
	"github.com/Fantom-foundation/smt-token/database/smt"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"
)

var (
	rootFlag = cli.StringFlag{
		Name:     "root",
		Usage:    "the committed root, 0x-prefixed",
		Required: true,
	}
	balanceFlag = cli.StringFlag{
		Name:     "balance",
		Usage:    "the claimed balance",
		Required: true,
	}
	proofFlag = cli.StringFlag{
		Name:     "proof",
		Usage:    "the proof, 0x-prefixed hex",
		Required: true,
	}
)

var verifyCommand = cli.Command{
	Action: verifyProof,
	Name:   "verify",
	Usage:  "checks a balance claim against a root without any snapshot",
	Flags: []cli.Flag{
		&rootFlag,
		&addressFlag,
		&balanceFlag,
		&proofFlag,
		&depthFlag,
	},
}

func verifyProof(ctx *cli.Context) error {
	root, err := common.ParseHash(ctx.String(rootFlag.Name))
	if err != nil {
		return fmt.Errorf("invalid --%s: %w", rootFlag.Name, err)
	}
	addr, err := parseAddressFlag(ctx, &addressFlag)
	if err != nil {
		return err
	}
	balance, err := parseAmountFlag(ctx, &balanceFlag)
	if err != nil {
		return err
	}
	data, err := hexutil.Decode(ctx.String(proofFlag.Name))
	if err != nil {
		return fmt.Errorf("invalid --%s: %w", proofFlag.Name, err)
	}
	proof, err := smt.ParseProof(data, ctx.Int(depthFlag.Name))
	if err != nil {
		return err
	}
	if !smt.Verify(root, addr, balance, proof) {
		return fmt.Errorf("proof does not confirm balance %v of %v under root %v", balance, addr, root)
	}
	fmt.Fprintln(ctx.App.Writer, "valid")
	return nil
}
