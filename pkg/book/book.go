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

// Package book implements the sorted binary opening book: its keys, its two
// record layouts, the assembler which builds a book from unordered results,
// and the reader used to look positions up.
package book

import (
	"fmt"
	"sort"
)

// Key identifies a board state independent of the move order which reached
// it. Narrow keys only use Lo; wide keys hold the mask of played cells in Hi
// and the cells of the player to move in Lo, so that keys order like the
// 128-bit value Hi<<64 | Lo.
type Key struct {
	Hi, Lo uint64
}

// NarrowKey returns the key for a single 64-bit oracle key.
func NarrowKey(key uint64) Key {
	return Key{Lo: key}
}

// WideKey returns the key for an oracle key made of a position bitmask and
// the mask of all played cells.
func WideKey(position, mask uint64) Key {
	return Key{Hi: mask, Lo: position}
}

// Compare returns -1, 0, or +1 depending on whether key is less than, equal
// to, or greater than other.
func (key Key) Compare(other Key) int {
	switch {
	case key.Hi < other.Hi:
		return -1
	case key.Hi > other.Hi:
		return +1
	case key.Lo < other.Lo:
		return -1
	case key.Lo > other.Lo:
		return +1
	default:
		return 0
	}
}

// Less reports whether key sorts before other.
func (key Key) Less(other Key) bool {
	return key.Compare(other) < 0
}

func (key Key) String() string {
	if key.Hi == 0 {
		return fmt.Sprint(key.Lo)
	}

	return fmt.Sprintf("%d/%d", key.Hi, key.Lo)
}

// Entry maps a board state to the zero-based column of its best move.
type Entry struct {
	Key  Key
	Move int
}

// Book is an immutable list of entries sorted by strictly increasing keys.
type Book struct {
	entries []Entry
}

// Len returns the number of entries in the book.
func (book *Book) Len() int {
	return len(book.entries)
}

// Entries returns a copy of the book's entries in key order.
func (book *Book) Entries() []Entry {
	entries := make([]Entry, len(book.entries))
	copy(entries, book.entries)
	return entries
}

// Lookup binary searches the book for the given key.
func (book *Book) Lookup(key Key) (int, bool) {
	i := sort.Search(len(book.entries), func(i int) bool {
		return !book.entries[i].Key.Less(key)
	})

	if i < len(book.entries) && book.entries[i].Key == key {
		return book.entries[i].Move, true
	}

	return 0, false
}
