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

	"github.com/Fantom-foundation/smt-token/backend/snapshot"
	"github.com/Fantom-foundation/smt-token/common"
	"github.com/Fantom-foundation/smt-token/common/interrupt"
	"github.com/Fantom-foundation/smt-token/database/smt"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

var (
	srcDirFlag = cli.StringFlag{
		Name:  "src-dir",
		Usage: "the LevelDB directory holding the source snapshot",
	}
	srcFileFlag = cli.StringFlag{
		Name:  "src-file",
		Usage: "the JSON file holding the source snapshot",
	}
	trgDirFlag = cli.StringFlag{
		Name:  "trg-dir",
		Usage: "the LevelDB directory receiving the snapshot",
	}
	trgFileFlag = cli.StringFlag{
		Name:  "trg-file",
		Usage: "the JSON file receiving the snapshot",
	}
)

var syncCommand = cli.Command{
	Action: sync,
	Name:   "sync",
	Usage:  "copies a balance snapshot from one store to another",
	Flags: []cli.Flag{
		&srcDirFlag,
		&srcFileFlag,
		&trgDirFlag,
		&trgFileFlag,
		&depthFlag,
		&cpuProfilingFlag,
	},
}

func sync(ctx *cli.Context) (err error) {
	profileTarget := ctx.String(cpuProfilingFlag.Name)
	if len(profileTarget) != 0 {
		if err := StartCPUProfile(profileTarget); err != nil {
			return err
		}
		defer StopCPUProfile()
	}

	source, err := openStoreAt(ctx.String(srcDirFlag.Name), ctx.String(srcFileFlag.Name))
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	defer closeStore(source, &err)

	target, err := openStoreAt(ctx.String(trgDirFlag.Name), ctx.String(trgFileFlag.Name))
	if err != nil {
		return fmt.Errorf("target: %w", err)
	}
	defer closeStore(target, &err)

	depth := ctx.Int(depthFlag.Name)
	out := ctx.App.Writer

	snap, err := source.Load(ctx.Context)
	if err != nil {
		return err
	}
	sourceRoot, err := rootOf(snap, depth)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Source root: %v (position %d)\n", sourceRoot, snap.Position)

	if interrupt.IsCancelled(ctx.Context) {
		return ctx.Context.Err()
	}
	log.Info("Synching snapshots", "accounts", len(snap.Balances))
	start := time.Now()
	if err := target.Save(ctx.Context, snap); err != nil {
		return err
	}
	log.Info("Synching complete", "elapsed", time.Since(start))

	copied, err := target.Load(ctx.Context)
	if err != nil {
		return err
	}
	targetRoot, err := rootOf(copied, depth)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Target root: %v (position %d)\n", targetRoot, copied.Position)

	if sourceRoot != targetRoot || snap.Position != copied.Position {
		return fmt.Errorf("sync failed, roots are not equivalent")
	}
	return nil
}

func rootOf(snap snapshot.Snapshot, depth int) (common.Hash, error) {
	engine, err := smt.Build(snap.Balances, depth)
	if err != nil {
		return common.Hash{}, err
	}
	return engine.Root(), nil
}
