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

// Frontiers returns the legal positions of every length from 0 to maxDepth,
// indexed by length. Each frontier is built only from the legal children of
// the previous one, so illegal sequences are never generated. Enumeration
// stops early once a frontier is empty, which happens when the board is full.
func Frontiers(g Geometry, maxDepth int) [][]Position {
	if maxDepth < 0 {
		return nil
	}

	frontier := []Position{{}}
	frontiers := [][]Position{frontier}

	for depth := 1; depth <= maxDepth; depth++ {
		next := make([]Position, 0, len(frontier)*g.Width)
		for _, pos := range frontier {
			for _, col := range pos.Moves(g) {
				next = append(next, pos.Play(col))
			}
		}

		if len(next) == 0 {
			break
		}

		frontiers = append(frontiers, next)
		frontier = next
	}

	return frontiers
}

// Enumerate returns every legal position with at most maxDepth moves,
// ordered by length and then by ascending columns.
func Enumerate(g Geometry, maxDepth int) []Position {
	var positions []Position
	for _, frontier := range Frontiers(g, maxDepth) {
		positions = append(positions, frontier...)
	}

	return positions
}
