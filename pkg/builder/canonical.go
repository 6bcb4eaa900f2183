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

// Canonical reports whether a position with the given key is the one of its
// mirror pair which is stored in the book: the one with the smaller key. A
// position whose mirror has the same key is kept, so exactly one of every
// pair survives. The empty position is always canonical.
func Canonical(ctx context.Context, g board.Geometry, evaluator oracle.Evaluator, pos board.Position, key book.Key) (bool, error) {
	if len(pos) == 0 {
		return true, nil
	}

	mirror := pos.Mirror(g)
	if mirror.Equal(pos) {
		return true, nil
	}

	result, err := evaluator.Evaluate(ctx, mirror)
	if err != nil {
		return false, fmt.Errorf("mirror %s: %w", mirror, err)
	}

	if !result.HasKey {
		return false, result.MissingKey(mirror.String())
	}

	return key.Compare(result.Key) <= 0, nil
}
