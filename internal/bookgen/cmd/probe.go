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

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"laptudirm.com/x/bookgen/pkg/board"
	"laptudirm.com/x/bookgen/pkg/book"
	"laptudirm.com/x/bookgen/pkg/builder"
	"laptudirm.com/x/bookgen/pkg/oracle"
)

// bookgen probe
func Probe() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe moves",
		Short: "Look the given position up in an opening book",
		Args:  cobra.ExactArgs(1),
		Long: heredoc.Doc(`probe finds the book move for the position reached by
			playing the given one-based columns from the empty board.

			The position's key is found using the oracle. Books only
			store one of every pair of mirrored positions, so if the
			position itself is missing, its mirror is looked up and the
			move found is mirrored back.`),

		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if path, _ := cmd.Flags().GetString("book"); path != "" {
				config.Output = path
			}

			pos, err := board.Parse(args[0])
			if err != nil {
				return err
			}

			if !pos.Legal(config.Geometry) {
				return fmt.Errorf("probe: position %s is illegal on a %dx%d board", pos, config.Width, config.Height)
			}

			openings, err := book.Load(config.Output, config.Format())
			if err != nil {
				return err
			}

			process, err := oracle.NewProcess(config.Oracle)
			if err != nil {
				return err
			}

			hit, err := builder.Probe(context.Background(), config.Geometry, process, openings, pos)
			if err != nil {
				return err
			}

			if !hit.Found {
				fmt.Printf("Position \x1b[33m%q\x1b[0m is \x1b[31mnot in the book\x1b[0m.\n", pos.String())
				return nil
			}

			via := ""
			if hit.Mirrored {
				via = " (via mirror)"
			}

			fmt.Printf("Book move for \x1b[33m%q\x1b[0m: column \x1b[32m%d\x1b[0m%s\n", pos.String(), hit.Move+1, via)
			return nil
		},
	}

	configFlags(cmd)
	cmd.Flags().StringP("book", "b", "", "Opening book to look the position up in (default from config)")

	return cmd
}
