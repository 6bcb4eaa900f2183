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

// Package oracle talks to the external program which scores and identifies
// positions. Each evaluation is a single run of the program with the move
// string as its only argument.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/sirupsen/logrus"

	"laptudirm.com/x/bookgen/pkg/board"
	"laptudirm.com/x/bookgen/pkg/book"
	"laptudirm.com/x/bookgen/pkg/internal/util"
)

// Result is a parsed oracle response.
type Result struct {
	Score  int
	Key    book.Key
	HasKey bool

	// Node counts and timings, if the oracle prints them.
	Diagnostics []int64

	// Protocol and raw line the result was parsed from.
	Protocol Protocol
	Output   string
}

// MissingKey returns the error for a result which was needed for its key
// but doesn't carry one.
func (result Result) MissingKey(moves string) error {
	return &ProtocolError{
		Protocol: result.Protocol,
		Moves:    moves,
		Output:   result.Output,
		Reason:   "no position key",
	}
}

// Evaluator evaluates positions. The child process client implements it,
// and so can anything else which maps positions to results.
type Evaluator interface {
	Evaluate(ctx context.Context, pos board.Position) (Result, error)
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(ctx context.Context, pos board.Position) (Result, error)

func (fn EvaluatorFunc) Evaluate(ctx context.Context, pos board.Position) (Result, error) {
	return fn(ctx, pos)
}

type Config struct {
	// Path to the oracle executable.
	Path string `yaml:"path"`

	Protocol Protocol `yaml:"protocol"`

	// Time limit for a single oracle call. Zero disables the limit, which
	// builds don't allow.
	Timeout time.Duration `yaml:"timeout"`

	// Argument passed in place of the empty move string.
	EmptyArg string `yaml:"empty-arg"`
}

// Check makes sure that an executable file exists at the given path.
func Check(path string) error {
	if path == "" {
		return fmt.Errorf("%w: no path configured", ErrMissingOracle)
	}

	resolved, err := exec.LookPath(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrMissingOracle, path)
	}

	info, err := os.Stat(resolved)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w: %s", ErrMissingOracle, path)
	}

	return nil
}

// Process evaluates positions by running the oracle executable.
type Process struct {
	config Config
}

// NewProcess checks that the configured oracle exists and returns a client
// for it. No process is started until a position is evaluated.
func NewProcess(config Config) (*Process, error) {
	protocol, err := ParseProtocol(string(config.Protocol))
	if err != nil {
		return nil, err
	}

	config.Protocol = protocol

	if err := Check(config.Path); err != nil {
		return nil, err
	}

	return &Process{config: config}, nil
}

func (process *Process) Protocol() Protocol {
	return process.config.Protocol
}

// Evaluate runs the oracle once for the given position. The call is never
// retried.
func (process *Process) Evaluate(ctx context.Context, pos board.Position) (Result, error) {
	moves := pos.String()

	arg := moves
	if len(pos) == 0 {
		arg = process.config.EmptyArg
	}

	output, err := util.Output(ctx, process.config.Timeout, process.config.Path, arg)
	if err != nil {
		var exitErr *util.ExitError
		switch {
		case errors.Is(err, util.ErrTimeout):
			return Result{}, fmt.Errorf("%w: %q after %s", ErrTimeout, moves, process.config.Timeout)

		case errors.As(err, &exitErr):
			return Result{}, &ProcessError{
				Moves:  moves,
				Code:   exitErr.Code,
				Stderr: exitErr.Stderr,
			}

		case errors.Is(err, exec.ErrNotFound), errors.Is(err, os.ErrNotExist):
			return Result{}, fmt.Errorf("%w: %s", ErrMissingOracle, process.config.Path)

		default:
			return Result{}, err
		}
	}

	result, err := process.config.Protocol.Parse(moves, output)
	if err != nil {
		return Result{}, err
	}

	logrus.WithFields(logrus.Fields{
		"moves": moves,
		"score": result.Score,
		"key":   result.Key,
	}).Trace("Oracle evaluated position")

	return result, nil
}
