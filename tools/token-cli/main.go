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
	"fmt"
	"log/slog"
	"os"

	"github.com/Fantom-foundation/smt-token/common/interrupt"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

// Run with `go run ./tools/token-cli`

var verbosityFlag = cli.IntFlag{
	Name:  "verbosity",
	Usage: "log level: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
	Value: 3,
}

func main() {
	if err := newApp().RunContext(interrupt.Register(context.Background()), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "SMT Token Toolbox",
		HelpName:  "token",
		Usage:     "A set of utilities to inspect balance snapshots and to prepare token calls",
		Copyright: "(c) 2024 Fantom Foundation",
		Flags: []cli.Flag{
			&verbosityFlag,
		},
		Before: func(ctx *cli.Context) error {
			setupLogging(ctx.Int(verbosityFlag.Name))
			return nil
		},
		Commands: []*cli.Command{
			&initCommand,
			&getInfoCommand,
			&balanceCommand,
			&transferCommand,
			&verifyCommand,
			&syncCommand,
		},
	}
}

func setupLogging(verbosity int) {
	var lvl slog.Level
	switch {
	case verbosity <= 0:
		lvl = log.LevelCrit + 1
	case verbosity == 1:
		lvl = slog.LevelError
	case verbosity == 2:
		lvl = slog.LevelWarn
	case verbosity == 3:
		lvl = slog.LevelInfo
	case verbosity == 4:
		lvl = slog.LevelDebug
	default:
		lvl = log.LevelTrace
	}
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, lvl, true)))
}
