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
	"fmt"

	"github.com/spf13/cobra"

	"laptudirm.com/x/bookgen/pkg/board"
	"laptudirm.com/x/bookgen/pkg/builder"
)

// bookgen enumerate
func Enumerate() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enumerate",
		Short: "Count the positions a book of the given depth analyzes",
		Args:  cobra.ExactArgs(0),

		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			list, _ := cmd.Flags().GetBool("list")

			total := 0
			for depth, frontier := range board.Frontiers(config.Geometry, config.Depth) {
				total += len(frontier)
				if list {
					for _, pos := range frontier {
						fmt.Println(pos)
					}
					continue
				}

				fmt.Printf("Depth %2d: %10d positions\n", depth, len(frontier))
			}

			if !list {
				fmt.Printf("\x1b[32mTotal\x1b[0m:   %10d positions\n", total)
			}

			return nil
		},
	}

	configFlags(cmd)

	defaults := builder.DefaultConfig()
	cmd.Flags().IntP("depth", "d", defaults.Depth, "Maximum number of moves in a position")
	cmd.Flags().BoolP("list", "l", false, "Print the move strings instead of the counts")

	return cmd
}
