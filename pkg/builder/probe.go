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
	"fmt"

	"laptudirm.com/x/bookgen/pkg/board"
	"laptudirm.com/x/bookgen/pkg/book"
	"laptudirm.com/x/bookgen/pkg/oracle"
)

// Hit is the result of looking a position up in a book.
type Hit struct {
	Found    bool
	Mirrored bool // the move was found for the mirrored position
	Move     int  // zero-based column, already mirrored back
}

// Probe looks the position up in the book like the runtime engine does. If
// the position's key is missing, the mirrored position is looked up instead
// and its move reflected back onto the original board.
func Probe(ctx context.Context, g board.Geometry, evaluator oracle.Evaluator, openings *book.Book, pos board.Position) (Hit, error) {
	result, err := evaluator.Evaluate(ctx, pos)
	if err != nil {
		return Hit{}, err
	}

	if !result.HasKey {
		return Hit{}, result.MissingKey(pos.String())
	}

	if move, found := openings.Lookup(result.Key); found {
		return Hit{Found: true, Move: move}, nil
	}

	mirror := pos.Mirror(g)
	if mirror.Equal(pos) {
		return Hit{}, nil
	}

	result, err = evaluator.Evaluate(ctx, mirror)
	if err != nil {
		return Hit{}, fmt.Errorf("mirror %s: %w", mirror, err)
	}

	if !result.HasKey {
		return Hit{}, result.MissingKey(mirror.String())
	}

	if move, found := openings.Lookup(result.Key); found {
		return Hit{Found: true, Mirrored: true, Move: g.Width - 1 - move}, nil
	}

	return Hit{}, nil
}
