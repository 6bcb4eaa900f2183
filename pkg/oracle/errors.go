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

package oracle

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned when a single oracle call runs out of time.
	// Only the position being evaluated is affected.
	ErrTimeout = errors.New("oracle: read i/o timeout")

	// ErrProcessFailure is returned when the oracle exits with a non-zero
	// status, which it does for illegal positions.
	ErrProcessFailure = errors.New("oracle: process failed")

	// ErrUnparseable is returned when the oracle's output does not follow
	// the configured protocol. Every later result is untrustworthy too.
	ErrUnparseable = errors.New("oracle: unparseable output")

	// ErrMissingOracle is returned when the oracle executable doesn't exist.
	ErrMissingOracle = errors.New("oracle: executable not found")
)

// ProtocolError describes oracle output which didn't match the protocol.
type ProtocolError struct {
	Protocol Protocol
	Moves    string
	Output   string
	Reason   string
}

func (err *ProtocolError) Error() string {
	return fmt.Sprintf(
		"%v: %s for %q with protocol %s (output %q)",
		ErrUnparseable, err.Reason, err.Moves, err.Protocol, err.Output,
	)
}

func (err *ProtocolError) Unwrap() error {
	return ErrUnparseable
}

// ProcessError describes an oracle call which exited unsuccessfully.
type ProcessError struct {
	Moves  string
	Code   int
	Stderr string
}

func (err *ProcessError) Error() string {
	if err.Stderr == "" {
		return fmt.Sprintf("%v: %q exited with status %d", ErrProcessFailure, err.Moves, err.Code)
	}

	return fmt.Sprintf("%v: %q exited with status %d: %s", ErrProcessFailure, err.Moves, err.Code, err.Stderr)
}

func (err *ProcessError) Unwrap() error {
	return ErrProcessFailure
}

// IsSystemic reports whether err means that the oracle as a whole can't be
// trusted, rather than a single position failing.
func IsSystemic(err error) bool {
	return errors.Is(err, ErrUnparseable) || errors.Is(err, ErrMissingOracle)
}
