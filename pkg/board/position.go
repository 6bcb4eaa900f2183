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

package board

import (
	"errors"
	"fmt"
	"strings"
)

// MaxWidth is the widest board whose moves can be written one digit per
// move, which is how the oracle receives its positions.
const MaxWidth = 9

// Geometry is the size of the board a position is played on.
type Geometry struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Standard is the usual 7 column by 6 row board.
var Standard = Geometry{Width: 7, Height: 6}

// Validate checks if the geometry can be represented in move strings.
func (g Geometry) Validate() error {
	switch {
	case g.Width < 1 || g.Width > MaxWidth:
		return fmt.Errorf("board: width %d not in [1, %d]", g.Width, MaxWidth)
	case g.Height < 1:
		return fmt.Errorf("board: height %d is not positive", g.Height)
	}

	return nil
}

// Cells returns the number of cells on the board.
func (g Geometry) Cells() int {
	return g.Width * g.Height
}

// Position is a sequence of one-based column numbers played in order from
// the empty board.
type Position []int

var ErrInvalidMove = errors.New("board: invalid move")

// Parse parses a move string like "4453" into a Position. The columns are
// only checked to be non-zero digits; use Legal to check them against a
// Geometry.
func Parse(moves string) (Position, error) {
	pos := make(Position, 0, len(moves))
	for i, r := range moves {
		if r < '1' || r > '9' {
			return nil, fmt.Errorf("%w: %q at index %d of %q", ErrInvalidMove, r, i, moves)
		}

		pos = append(pos, int(r-'0'))
	}

	return pos, nil
}

// String returns the move string of the position, which is empty for the
// empty board.
func (pos Position) String() string {
	var b strings.Builder
	b.Grow(len(pos))
	for _, col := range pos {
		b.WriteByte(byte('0' + col))
	}

	return b.String()
}

// Heights returns the number of pieces in each column, indexed by the
// zero-based column. Out-of-range moves are ignored.
func (pos Position) Heights(g Geometry) []int {
	heights := make([]int, g.Width)
	for _, col := range pos {
		if col >= 1 && col <= g.Width {
			heights[col-1]++
		}
	}

	return heights
}

// Legal reports whether every move of the position is on the board and
// never drops a piece into a full column.
func (pos Position) Legal(g Geometry) bool {
	heights := make([]int, g.Width)
	for _, col := range pos {
		if col < 1 || col > g.Width || heights[col-1] >= g.Height {
			return false
		}

		heights[col-1]++
	}

	return true
}

// Moves returns the one-based columns which can be played from the position
// in ascending order. The position is assumed to be legal.
func (pos Position) Moves(g Geometry) []int {
	heights := pos.Heights(g)

	moves := make([]int, 0, g.Width)
	for i, height := range heights {
		if height < g.Height {
			moves = append(moves, i+1)
		}
	}

	return moves
}

// Play returns a new position with the given column played after pos. The
// receiver is never modified.
func (pos Position) Play(col int) Position {
	next := make(Position, len(pos), len(pos)+1)
	copy(next, pos)
	return append(next, col)
}

// Mirror returns the position reflected about the board's vertical axis:
// every column c becomes Width+1-c.
func (pos Position) Mirror(g Geometry) Position {
	mirror := make(Position, len(pos))
	for i, col := range pos {
		mirror[i] = g.Width + 1 - col
	}

	return mirror
}

// Equal reports whether both positions have the same move sequence.
func (pos Position) Equal(other Position) bool {
	if len(pos) != len(other) {
		return false
	}

	for i := range pos {
		if pos[i] != other[i] {
			return false
		}
	}

	return true
}
