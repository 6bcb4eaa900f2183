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
	"fmt"
	"strconv"
	"strings"

	"laptudirm.com/x/bookgen/pkg/book"
)

// Protocol names the layout of the integers an oracle prints for a position.
//
//	narrow: key score [nodes time_us]
//	wide:   position mask score
//	score:  score [nodes time_us]
//
// Scores are from the point of view of the player to move.
type Protocol string

const (
	Narrow Protocol = "narrow"
	Wide   Protocol = "wide"
	Score  Protocol = "score"
)

// ParseProtocol parses a protocol name, defaulting to narrow.
func ParseProtocol(name string) (Protocol, error) {
	switch protocol := Protocol(name); protocol {
	case "":
		return Narrow, nil
	case Narrow, Wide, Score:
		return protocol, nil
	default:
		return "", fmt.Errorf("oracle: unknown protocol %q", name)
	}
}

// Format returns the book record format matching the protocol's keys. It
// returns false for protocols which don't report keys.
func (protocol Protocol) Format() (book.Format, bool) {
	switch protocol {
	case Narrow, "":
		return book.Narrow, true
	case Wide:
		return book.Wide, true
	default:
		return 0, false
	}
}

// fields returns the minimum and maximum number of integers in a line.
func (protocol Protocol) fields() (int, int) {
	switch protocol {
	case Wide:
		return 3, 3
	case Score:
		return 1, 3
	default:
		return 2, 4
	}
}

// Parse parses the oracle's output for the given move string.
func (protocol Protocol) Parse(moves, output string) (Result, error) {
	fail := func(format string, a ...any) (Result, error) {
		return Result{}, &ProtocolError{
			Protocol: protocol,
			Moves:    moves,
			Output:   output,
			Reason:   fmt.Sprintf(format, a...),
		}
	}

	line := strings.TrimSpace(output)
	if strings.ContainsAny(line, "\r\n") {
		return fail("more than one line")
	}

	fields := strings.Fields(line)
	least, most := protocol.fields()
	if len(fields) < least || len(fields) > most {
		return fail("%d integers, expected %d to %d", len(fields), least, most)
	}

	result := Result{Protocol: protocol, Output: line}
	var err error

	switch protocol {
	case Wide:
		var position, mask uint64
		if position, err = strconv.ParseUint(fields[0], 10, 64); err != nil {
			return fail("bad position %q", fields[0])
		}

		if mask, err = strconv.ParseUint(fields[1], 10, 64); err != nil {
			return fail("bad mask %q", fields[1])
		}

		result.Key = book.WideKey(position, mask)
		result.HasKey = true
		fields = fields[2:]

	case Score:

	default:
		var key uint64
		if key, err = strconv.ParseUint(fields[0], 10, 64); err != nil {
			return fail("bad key %q", fields[0])
		}

		if key > book.MaxNarrowKey {
			return fail("key %d does not fit %d bits", key, book.NarrowKeyBits)
		}

		result.Key = book.NarrowKey(key)
		result.HasKey = true
		fields = fields[1:]
	}

	if result.Score, err = strconv.Atoi(fields[0]); err != nil {
		return fail("bad score %q", fields[0])
	}

	for _, field := range fields[1:] {
		diagnostic, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return fail("bad diagnostic %q", field)
		}

		result.Diagnostics = append(result.Diagnostics, diagnostic)
	}

	return result, nil
}
