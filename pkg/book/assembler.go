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
	"sort"

	"github.com/sirupsen/logrus"
)

// Assembler collects entries in any order and turns them into a Book. It is
// not safe for concurrent use; a single goroutine should drain the results.
type Assembler struct {
	moves     map[Key]int
	conflicts int
}

func NewAssembler() *Assembler {
	return &Assembler{moves: make(map[Key]int)}
}

// Add records an entry. Transposed sequences reach the same key, in which
// case the last entry added wins.
func (asm *Assembler) Add(entry Entry) {
	if move, found := asm.moves[entry.Key]; found && move != entry.Move {
		asm.conflicts++
		logrus.WithFields(logrus.Fields{
			"key": entry.Key,
			"old": move,
			"new": entry.Move,
		}).Warn("Transposed positions disagree on the best move")
	}

	asm.moves[entry.Key] = entry.Move
}

// Len returns the number of distinct keys added so far.
func (asm *Assembler) Len() int {
	return len(asm.moves)
}

// Conflicts returns how many times an entry replaced a different move.
func (asm *Assembler) Conflicts() int {
	return asm.conflicts
}

// Book returns the collected entries sorted by key.
func (asm *Assembler) Book() *Book {
	entries := make([]Entry, 0, len(asm.moves))
	for key, move := range asm.moves {
		entries = append(entries, Entry{Key: key, Move: move})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key.Less(entries[j].Key)
	})

	return &Book{entries: entries}
}
