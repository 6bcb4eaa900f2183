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
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func Root() *cobra.Command {
	root := &cobra.Command{
		Use:   "bookgen",
		Short: "Build opening books for connection games",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`bookgen precomputes the opening of a connect-four style
			game. Every position up to a fixed depth is handed to an
			external solver, one of each mirrored pair is kept, and the
			move leaving the opponent the worst score is written into a
			sorted binary book which engines look positions up in.

			Start with 'bookgen config' to write a configuration file,
			check the positions with 'bookgen enumerate', and run
			'bookgen build'. 'bookgen probe' looks a position up in a
			finished book.`),

		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// If --trace flag is provided, set logging level to Trace.
			if cmd.Flag("trace").Changed {
				logrus.SetLevel(logrus.TraceLevel)
			}
		},
	}

	// global flags
	root.PersistentFlags().BoolP("help", "h", false, "Show Help Information")
	root.PersistentFlags().BoolP("version", "v", false, "Show Bookgen's Version")
	root.PersistentFlags().BoolP("trace", "t", false, "Show Trace Information")

	root.Version = "v0.1.0"
	root.SetVersionTemplate("bookgen {{.Version}}\n")

	// Register the various commands.
	root.AddCommand(Build())
	root.AddCommand(Probe())
	root.AddCommand(Enumerate())
	root.AddCommand(Config())

	return root
}
