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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime/pprof"

	"github.com/Fantom-foundation/smt-token/backend/snapshot"
	"github.com/Fantom-foundation/smt-token/backend/snapshot/file"
	"github.com/Fantom-foundation/smt-token/backend/snapshot/ldb"
	"github.com/Fantom-foundation/smt-token/common"
	"github.com/Fantom-foundation/smt-token/common/amount"
	"github.com/Fantom-foundation/smt-token/database/smt"
	"github.com/Fantom-foundation/smt-token/mirror"
	"github.com/Fantom-foundation/smt-token/prover"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

var (
	dbDirectoryFlag = cli.StringFlag{
		Name:  "dir",
		Usage: "the LevelDB directory holding the snapshot",
	}
	snapshotFileFlag = cli.StringFlag{
		Name:  "file",
		Usage: "the JSON file holding the snapshot",
	}
	depthFlag = cli.IntFlag{
		Name:  "depth",
		Usage: "the depth of the balance tree",
		Value: smt.MaxDepth,
	}
	cpuProfilingFlag = cli.StringFlag{
		Name:  "cpu-profile",
		Usage: "enable the recording of a CPU profile",
	}
)

var storeFlags = []cli.Flag{&dbDirectoryFlag, &snapshotFileFlag}

// openStore opens the snapshot store selected by the --dir or --file flag.
func openStore(ctx *cli.Context) (snapshot.Store, error) {
	return openStoreAt(ctx.String(dbDirectoryFlag.Name), ctx.String(snapshotFileFlag.Name))
}

func openStoreAt(dir, path string) (snapshot.Store, error) {
	switch {
	case dir != "" && path != "":
		return nil, fmt.Errorf("only one of --%s and --%s may be given", dbDirectoryFlag.Name, snapshotFileFlag.Name)
	case dir != "":
		log.Info("Opening snapshot database", "dir", dir)
		return ldb.NewStore(dir)
	case path != "":
		log.Info("Opening snapshot file", "file", path)
		return file.NewStore(path)
	}
	return nil, fmt.Errorf("one of --%s and --%s is required", dbDirectoryFlag.Name, snapshotFileFlag.Name)
}

// closeStore closes the store, reporting a failure unless an earlier error
// is already being returned.
func closeStore(store snapshot.Store, err *error) {
	if closeErr := store.Close(); closeErr != nil {
		if *err == nil {
			*err = closeErr
		} else {
			log.Error("Failure closing snapshot store", "err", closeErr)
		}
	}
}

// noWrites is the write source of an offline mirror. The stored snapshot is
// served as is.
type noWrites struct{}

func (noWrites) WritesSince(context.Context, uint64) ([]mirror.Write, error) {
	return nil, nil
}

// openProver creates a prover serving the stored snapshot.
func openProver(ctx *cli.Context, store snapshot.Store) (*prover.Prover, error) {
	config := prover.DefaultConfig()
	config.Depth = ctx.Int(depthFlag.Name)
	return prover.New(mirror.New(store, noWrites{}, mirror.DefaultConfig()), config)
}

func parseAddressFlag(ctx *cli.Context, flag *cli.StringFlag) (common.Address, error) {
	addr, err := common.ParseAddress(ctx.String(flag.Name))
	if err != nil {
		return common.Address{}, fmt.Errorf("invalid --%s: %w", flag.Name, err)
	}
	return addr, nil
}

func parseAmountFlag(ctx *cli.Context, flag *cli.StringFlag) (amount.Amount, error) {
	var res amount.Amount
	if err := res.UnmarshalText([]byte(ctx.String(flag.Name))); err != nil {
		return amount.Amount{}, fmt.Errorf("invalid --%s: %w", flag.Name, err)
	}
	return res, nil
}

func printJson(out io.Writer, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func StartCPUProfile(profileName string) error {
	f, err := os.Create(profileName)
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %s", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		return fmt.Errorf("could not start CPU profile: %s", err)
	}
	return nil
}

func StopCPUProfile() {
	pprof.StopCPUProfile()
}
