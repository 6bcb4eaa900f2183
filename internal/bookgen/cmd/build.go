// Copyright © 2024 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"laptudirm.com/x/bookgen/pkg/builder"
	"laptudirm.com/x/bookgen/pkg/oracle"
)

// bookgen build
func Build() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build an opening book using an oracle",
		Args:  cobra.ExactArgs(0),
		Long: heredoc.Doc(`build enumerates every legal position up to the given
			depth, asks the oracle for the best move in each of them, and
			writes the results into a sorted binary opening book.

			The oracle is run once per position as <oracle> <moves>,
			where <moves> is the sequence of one-based columns played,
			and has to print a single line of integers following the
			configured protocol. Positions the oracle rejects or takes
			too long on are skipped. If the oracle prints anything that
			doesn't follow the protocol, the build is stopped and no
			book is written.`),

		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			process, err := oracle.NewProcess(config.Oracle)
			if err != nil {
				return err
			}

			bookBuilder, err := builder.New(config, process)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			stats, err := bookBuilder.Build(ctx)
			if stats != nil {
				fmt.Println()
				stats.Report(os.Stdout)
			}

			if err != nil {
				return fmt.Errorf("build failed, no book written: %w", err)
			}

			if stats.Skipped > 0 {
				logrus.Warnf("Skipped \x1b[31m%d\x1b[0m positions", stats.Skipped)
			}

			fmt.Printf("\nWrote \x1b[92m%d\x1b[0m entries to \x1b[33m%s\x1b[0m.\n", stats.Entries, config.Output)
			return nil
		},
	}

	configFlags(cmd)

	defaults := builder.DefaultConfig()
	cmd.Flags().IntP("depth", "d", defaults.Depth, "Maximum number of moves in a book position")
	cmd.Flags().IntP("workers", "j", defaults.Workers, "Number of positions analyzed concurrently")
	cmd.Flags().StringP("output", "O", defaults.Output, "File the book is written to")
	cmd.Flags().Bool("no-progress", false, "Don't show the progress spinner")

	return cmd
}
