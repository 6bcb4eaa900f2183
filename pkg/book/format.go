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

package book

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Format is the layout of a single fixed-size little-endian record.
type Format int

const (
	// Narrow records are one uint64: the key in the upper 60 bits and the
	// move in the lower 4 bits.
	Narrow Format = iota

	// Wide records are the position bitmask, the played-cell mask, and a
	// single move byte, without padding.
	Wide
)

const (
	NarrowKeyBits = 60
	MaxNarrowKey  = 1<<NarrowKeyBits - 1
	MaxNarrowMove = 0xF
	MaxWideMove   = 0xFF
)

var ErrRecord = errors.New("book: record out of range")

// ParseFormat parses the names used in configuration files.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "narrow":
		return Narrow, nil
	case "wide":
		return Wide, nil
	default:
		return 0, fmt.Errorf("book: unknown format %q", name)
	}
}

func (format Format) String() string {
	switch format {
	case Narrow:
		return "narrow"
	case Wide:
		return "wide"
	default:
		return fmt.Sprintf("Format(%d)", int(format))
	}
}

// RecordSize returns the size in bytes of one record.
func (format Format) RecordSize() int {
	if format == Wide {
		return 17
	}

	return 8
}

// MaxMove returns the largest move a record can hold.
func (format Format) MaxMove() int {
	if format == Wide {
		return MaxWideMove
	}

	return MaxNarrowMove
}

// Append encodes entry and appends the record to buf.
func (format Format) Append(buf []byte, entry Entry) ([]byte, error) {
	if entry.Move < 0 || entry.Move > format.MaxMove() {
		return buf, fmt.Errorf("%w: move %d in %s record", ErrRecord, entry.Move, format)
	}

	switch format {
	case Narrow:
		if entry.Key.Hi != 0 || entry.Key.Lo > MaxNarrowKey {
			return buf, fmt.Errorf("%w: key %s does not fit %d bits", ErrRecord, entry.Key, NarrowKeyBits)
		}

		return binary.LittleEndian.AppendUint64(buf, entry.Key.Lo<<4|uint64(entry.Move)), nil

	case Wide:
		buf = binary.LittleEndian.AppendUint64(buf, entry.Key.Lo)
		buf = binary.LittleEndian.AppendUint64(buf, entry.Key.Hi)
		return append(buf, byte(entry.Move)), nil

	default:
		return buf, fmt.Errorf("book: unknown format %d", int(format))
	}
}

// Decode decodes one record of exactly RecordSize bytes.
func (format Format) Decode(record []byte) Entry {
	if format == Wide {
		return Entry{
			Key:  WideKey(binary.LittleEndian.Uint64(record[0:8]), binary.LittleEndian.Uint64(record[8:16])),
			Move: int(record[16]),
		}
	}

	packed := binary.LittleEndian.Uint64(record)
	return Entry{
		Key:  NarrowKey(packed >> 4),
		Move: int(packed & MaxNarrowMove),
	}
}
