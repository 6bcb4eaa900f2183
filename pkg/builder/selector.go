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
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"laptudirm.com/x/bookgen/pkg/board"
	"laptudirm.com/x/bookgen/pkg/oracle"
)

var ErrNoMove = errors.New("builder: no move found")

// Selection is the move chosen for a position.
type Selection struct {
	// Zero-based column of the chosen move.
	Move int

	// The opponent's score after the chosen move.
	Score int

	// Opponent scores of every evaluated child, by zero-based column.
	Scores map[int]int
}

// SelectMove evaluates every legal child of the position and picks the move
// which leaves the opponent with the lowest score. Children are tried in
// ascending column order and ties keep the lowest column.
//
// Children which time out or which the oracle rejects are left out. If no
// child could be evaluated, or there are no legal moves at all, the error is
// ErrNoMove. Any other error aborts the selection.
func SelectMove(ctx context.Context, g board.Geometry, evaluator oracle.Evaluator, pos board.Position) (Selection, error) {
	selection := Selection{
		Move:   -1,
		Scores: make(map[int]int),
	}

	for _, col := range pos.Moves(g) {
		child := pos.Play(col)

		result, err := evaluator.Evaluate(ctx, child)
		switch {
		case err == nil:
		case errors.Is(err, oracle.ErrTimeout):
			logrus.WithField("moves", child.String()).Warn("Oracle timed out; skipping move")
			continue
		case errors.Is(err, oracle.ErrProcessFailure):
			logrus.WithField("moves", child.String()).Debug("Oracle rejected move")
			continue
		default:
			return Selection{}, err
		}

		selection.Scores[col-1] = result.Score
		if selection.Move == -1 || result.Score < selection.Score {
			selection.Move = col - 1
			selection.Score = result.Score
		}
	}

	if selection.Move == -1 {
		return Selection{}, ErrNoMove
	}

	return selection, nil
}
