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
	"time"

	"github.com/Fantom-foundation/smt-token/database/smt"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

var getInfoCommand = cli.Command{
	Action: getInfo,
	Name:   "info",
	Usage:  "prints summary information about a balance snapshot",
	Flags: append([]cli.Flag{
		&depthFlag,
		&cpuProfilingFlag,
	}, storeFlags...),
}

func getInfo(ctx *cli.Context) (err error) {
	profileTarget := ctx.String(cpuProfilingFlag.Name)
	if len(profileTarget) != 0 {
		if err := StartCPUProfile(profileTarget); err != nil {
			return err
		}
		defer StopCPUProfile()
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore(store, &err)

	snap, err := store.Load(ctx.Context)
	if err != nil {
		return err
	}

	log.Info("Building balance tree", "accounts", len(snap.Balances))
	start := time.Now()
	engine, err := smt.Build(snap.Balances, ctx.Int(depthFlag.Name))
	if err != nil {
		return err
	}
	log.Info("Built balance tree", "elapsed", time.Since(start))

	out := ctx.App.Writer
	fmt.Fprintf(out, "Position: %d\n", snap.Position)
	fmt.Fprintf(out, "Accounts: %d\n", engine.Len())
	fmt.Fprintf(out, "Depth:    %d\n", engine.Depth())
	fmt.Fprintf(out, "Root:     %v\n", engine.Root())
	footprint, err := engine.GetMemoryFootprint().ToString("tree")
	if err != nil {
		return err
	}
	fmt.Fprint(out, footprint)
	return nil
}
