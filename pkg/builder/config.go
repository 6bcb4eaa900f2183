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

package builder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"laptudirm.com/x/bookgen/pkg/board"
	"laptudirm.com/x/bookgen/pkg/book"
	"laptudirm.com/x/bookgen/pkg/oracle"
)

type Config struct {
	// Size of the board.
	board.Geometry `yaml:",inline"`

	// Positions with up to Depth moves are put in the book.
	Depth int `yaml:"depth"`

	// Number of positions analyzed concurrently.
	Workers int `yaml:"workers"`

	// File the book is written to.
	Output string `yaml:"output"`

	Oracle oracle.Config `yaml:"oracle"`

	// Show a progress spinner while analyzing.
	Progress bool `yaml:"progress"`
}

// DefaultConfig returns the configuration used when nothing is specified.
func DefaultConfig() Config {
	return Config{
		Geometry: board.Standard,
		Depth:    6,
		Workers:  runtime.NumCPU(),
		Output:   "book.bin",
		Oracle: oracle.Config{
			Path:     filepath.Join("bin", "solver"),
			Protocol: oracle.Narrow,
			Timeout:  5 * time.Minute,
		},
		Progress: true,
	}
}

// LoadConfig reads a YAML configuration file on top of the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		return config, err
	}

	if err := yaml.Unmarshal(file, &config); err != nil {
		return config, fmt.Errorf("config %s: %w", path, err)
	}

	return config, nil
}

// Validate checks the configuration and fills in defaults for unset values.
func (config *Config) Validate() error {
	if err := config.Geometry.Validate(); err != nil {
		return err
	}

	if config.Depth < 0 {
		return fmt.Errorf("builder: negative depth %d", config.Depth)
	}

	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}

	protocol, err := oracle.ParseProtocol(string(config.Oracle.Protocol))
	if err != nil {
		return err
	}

	config.Oracle.Protocol = protocol

	if config.Oracle.Timeout <= 0 {
		return fmt.Errorf("builder: oracle timeout %s is not positive", config.Oracle.Timeout)
	}

	format, ok := protocol.Format()
	if !ok {
		return fmt.Errorf("builder: protocol %s does not report position keys", protocol)
	}

	if config.Width-1 > format.MaxMove() {
		return fmt.Errorf("builder: %d columns don't fit in %s book records", config.Width, format)
	}

	if config.Output == "" {
		return errors.New("builder: no output file")
	}

	return nil
}

// Format returns the record format of the book being built.
func (config *Config) Format() book.Format {
	format, _ := config.Oracle.Protocol.Format()
	return format
}
