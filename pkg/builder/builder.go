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

// Package builder builds opening books: it analyzes enumerated positions in
// parallel with an oracle and assembles the results into a sorted book.
package builder

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"laptudirm.com/x/bookgen/pkg/board"
	"laptudirm.com/x/bookgen/pkg/book"
	"laptudirm.com/x/bookgen/pkg/internal/util"
	"laptudirm.com/x/bookgen/pkg/oracle"
)

// ErrNotCanonical is returned for positions whose mirror is stored instead.
var ErrNotCanonical = errors.New("builder: mirror position is canonical")

func New(config Config, evaluator oracle.Evaluator) (*Builder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Builder{
		Config:    config,
		evaluator: evaluator,
	}, nil
}

type Builder struct {
	Config Config

	evaluator oracle.Evaluator
}

// outcome is the immutable result of analyzing one position.
type outcome struct {
	Position board.Position
	Entry    book.Entry
	Err      error
	Elapsed  time.Duration
}

// Analyze finds the book entry for a single position: it evaluates the
// position for its key, drops it if its mirror is canonical, and selects
// the best move.
func (builder *Builder) Analyze(ctx context.Context, pos board.Position) (book.Entry, error) {
	self, err := builder.evaluator.Evaluate(ctx, pos)
	if err != nil {
		return book.Entry{}, err
	}

	if !self.HasKey {
		return book.Entry{}, self.MissingKey(pos.String())
	}

	canonical, err := Canonical(ctx, builder.Config.Geometry, builder.evaluator, pos, self.Key)
	if err != nil {
		return book.Entry{}, err
	}

	if !canonical {
		return book.Entry{}, ErrNotCanonical
	}

	selection, err := SelectMove(ctx, builder.Config.Geometry, builder.evaluator, pos)
	if err != nil {
		return book.Entry{}, err
	}

	return book.Entry{Key: self.Key, Move: selection.Move}, nil
}

// Run analyzes the positions with a pool of workers and assembles the book.
// Failures of single positions are counted in the returned stats. An oracle
// which breaks its protocol stops any new positions from being analyzed;
// the positions already being analyzed are finished before Run returns the
// error without a book.
func (builder *Builder) Run(ctx context.Context, positions []board.Position) (*book.Book, *Stats, error) {
	stats := &Stats{Positions: len(positions)}

	jobs := make(chan board.Position)
	results := make(chan outcome)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		defer close(jobs)
		for _, pos := range positions {
			select {
			case jobs <- pos:
			case <-groupCtx.Done():
				return nil
			}
		}

		return nil
	})

	for i := 0; i < builder.Config.Workers; i++ {
		group.Go(func() error {
			for pos := range jobs {
				if groupCtx.Err() != nil {
					return nil
				}

				// In-flight oracle calls use the parent context so that a
				// failing worker doesn't kill the others' processes.
				start := time.Now()
				entry, err := builder.Analyze(ctx, pos)
				results <- outcome{
					Position: pos,
					Entry:    entry,
					Err:      err,
					Elapsed:  time.Since(start),
				}

				if oracle.IsSystemic(err) || ctx.Err() != nil {
					return err
				}
			}

			return nil
		})
	}

	wait := make(chan error, 1)
	go func() {
		wait <- group.Wait()
		close(results)
	}()

	var progress *util.Progress
	if builder.Config.Progress {
		progress = util.StartProgress("Analyzing positions", len(positions))
	}

	assembler := book.NewAssembler()
	for result := range results {
		stats.Record(result)
		if result.Err == nil {
			assembler.Add(result.Entry)
		}

		progress.Update(stats.Done)
	}

	progress.Stop()

	stats.Conflicts = assembler.Conflicts()

	if err := <-wait; err != nil {
		return nil, stats, err
	}

	if err := ctx.Err(); err != nil {
		return nil, stats, err
	}

	return assembler.Book(), stats, nil
}

// Build enumerates the positions of the configured depth, analyzes them,
// and writes the book file. Nothing is written if the run fails.
func (builder *Builder) Build(ctx context.Context) (*Stats, error) {
	positions := board.Enumerate(builder.Config.Geometry, builder.Config.Depth)

	logrus.WithFields(logrus.Fields{
		"depth":     builder.Config.Depth,
		"positions": len(positions),
		"workers":   builder.Config.Workers,
	}).Info("Building opening book")

	openings, stats, err := builder.Run(ctx, positions)
	if err != nil {
		return stats, err
	}

	if err := book.WriteFile(builder.Config.Output, builder.Config.Format(), openings); err != nil {
		return stats, err
	}

	return stats, nil
}
