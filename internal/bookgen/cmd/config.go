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

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"laptudirm.com/x/bookgen/pkg/builder"
	bookgen "laptudirm.com/x/bookgen/pkg/common"
	"laptudirm.com/x/bookgen/pkg/oracle"
)

// bookgen config
func Config() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Write the default configuration file",
		Args:  cobra.ExactArgs(0),
		Long: heredoc.Doc(`config writes the default configuration file into
			bookgen's configuration directory, if a configuration file
			doesn't already exist there.

			The configuration file is read by every command when no
			--config flag is given. Flags given on the command line
			always override the values in the file.`),

		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bookgen.TryMkdir(bookgen.Directory); err != nil {
				return err
			}

			created, err := bookgen.TryCreate(bookgen.ConfigFile, bookgen.BaseConfigFile)
			if err != nil {
				return err
			}

			if created {
				fmt.Printf("\x1b[32mCreated Configuration:\x1b[0m %s\n", bookgen.ConfigFile)
			} else {
				fmt.Printf("Configuration \x1b[33m%s\x1b[0m already exists.\n", bookgen.ConfigFile)
			}

			return nil
		},
	}
}

// configFlags registers the flags which override the configuration file.
func configFlags(cmd *cobra.Command) {
	defaults := builder.DefaultConfig()

	flags := cmd.Flags()
	flags.StringP("config", "c", "", "Read the configuration from the given YAML file")
	flags.Int("width", defaults.Width, "Number of columns on the board")
	flags.Int("height", defaults.Height, "Number of rows on the board")
	flags.StringP("oracle", "o", defaults.Oracle.Path, "Path to the oracle executable")
	flags.String("protocol", string(defaults.Oracle.Protocol), "Output protocol of the oracle (narrow, wide)")
	flags.Duration("timeout", defaults.Oracle.Timeout, "Time limit for a single oracle call")
	flags.String("empty-arg", defaults.Oracle.EmptyArg, "Argument passed to the oracle for the empty board")
}

// loadConfig reads the configuration file, if any, and applies the flags
// which were set on the command line.
func loadConfig(cmd *cobra.Command) (builder.Config, error) {
	config := builder.DefaultConfig()
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	if path == "" && bookgen.Exists(bookgen.ConfigFile) {
		path = bookgen.ConfigFile
	}

	if path != "" {
		logrus.WithField("path", path).Debug("Reading configuration file")

		var err error
		if config, err = builder.LoadConfig(path); err != nil {
			return config, err
		}
	}

	if flags.Changed("width") {
		config.Width, _ = flags.GetInt("width")
	}

	if flags.Changed("height") {
		config.Height, _ = flags.GetInt("height")
	}

	if flags.Changed("depth") {
		config.Depth, _ = flags.GetInt("depth")
	}

	if flags.Changed("workers") {
		config.Workers, _ = flags.GetInt("workers")
	}

	if flags.Changed("output") {
		config.Output, _ = flags.GetString("output")
	}

	if flags.Changed("no-progress") {
		noProgress, _ := flags.GetBool("no-progress")
		config.Progress = !noProgress
	}

	if flags.Changed("oracle") {
		config.Oracle.Path, _ = flags.GetString("oracle")
	}

	if flags.Changed("protocol") {
		protocol, _ := flags.GetString("protocol")
		config.Oracle.Protocol = oracle.Protocol(protocol)
	}

	if flags.Changed("timeout") {
		config.Oracle.Timeout, _ = flags.GetDuration("timeout")
	}

	if flags.Changed("empty-arg") {
		config.Oracle.EmptyArg, _ = flags.GetString("empty-arg")
	}

	return config, config.Validate()
}
