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
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"laptudirm.com/x/bookgen/pkg/oracle"
)

// Stats counts what happened to the positions of a run.
type Stats struct {
	Positions int // positions given to the run
	Done      int // positions analyzed

	Entries   int // positions which produced a book entry
	Mirrored  int // positions dropped for their mirror
	NoMove    int // positions without any evaluated move
	Conflicts int // transposed entries which disagreed

	Skipped  int // positions which failed
	Timeouts int
	Illegal  int

	elapsed []float64 // analysis time per position in seconds
}

// Record counts the outcome of a single position.
func (stats *Stats) Record(result outcome) {
	stats.Done++
	stats.elapsed = append(stats.elapsed, result.Elapsed.Seconds())

	moves := result.Position.String()
	switch err := result.Err; {
	case err == nil:
		stats.Entries++

	case errors.Is(err, ErrNotCanonical):
		stats.Mirrored++

	case errors.Is(err, ErrNoMove):
		stats.NoMove++
		logrus.WithField("moves", moves).Debug("No book entry for position")

	case errors.Is(err, oracle.ErrTimeout):
		stats.Skipped++
		stats.Timeouts++
		logrus.WithField("moves", moves).Warn("Oracle timed out; skipping position")

	case errors.Is(err, oracle.ErrProcessFailure):
		stats.Skipped++
		stats.Illegal++
		logrus.WithField("moves", moves).Debugf("Oracle rejected position: %v", err)

	case oracle.IsSystemic(err):
		logrus.WithField("moves", moves).Error(err)

	default:
		stats.Skipped++
		logrus.WithField("moves", moves).Warnf("Skipping position: %v", err)
	}
}

// Timing returns the mean, standard deviation, and 95th percentile of the
// time spent analyzing a position.
func (stats *Stats) Timing() (mean, stddev, p95 time.Duration) {
	if len(stats.elapsed) == 0 {
		return 0, 0, 0
	}

	sorted := make([]float64, len(stats.elapsed))
	copy(sorted, stats.elapsed)
	sort.Float64s(sorted)

	m, s := stat.MeanStdDev(sorted, nil)
	if len(sorted) < 2 {
		s = 0
	}

	q := stat.Quantile(0.95, stat.Empirical, sorted, nil)

	return seconds(m), seconds(s), seconds(q)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Report prints a summary of the run.
func (stats *Stats) Report(w io.Writer) {
	mean, stddev, p95 := stats.Timing()

	fmt.Fprintln(w, "╔══════════════════════════════════════════════════╗")
	fmt.Fprintf(w, "║ %-20s %27d ║\n", "Positions", stats.Positions)
	fmt.Fprintf(w, "║ %-20s %27d ║\n", "Analyzed", stats.Done)
	fmt.Fprintf(w, "║ %-20s \x1b[32m%27d\x1b[0m ║\n", "Book Entries", stats.Entries)
	fmt.Fprintf(w, "║ %-20s %27d ║\n", "Mirrored", stats.Mirrored)
	fmt.Fprintf(w, "║ %-20s %27d ║\n", "Without Moves", stats.NoMove)
	fmt.Fprintf(w, "║ %-20s %27d ║\n", "Conflicts", stats.Conflicts)
	if stats.Skipped > 0 {
		fmt.Fprintf(w, "║ %-20s \x1b[31m%27d\x1b[0m ║\n", "Skipped", stats.Skipped)
	} else {
		fmt.Fprintf(w, "║ %-20s %27d ║\n", "Skipped", stats.Skipped)
	}
	fmt.Fprintf(w, "║ %-20s %27d ║\n", "  Timeouts", stats.Timeouts)
	fmt.Fprintf(w, "║ %-20s %27d ║\n", "  Illegal", stats.Illegal)
	fmt.Fprintf(w, "║ %-20s %27s ║\n", "Time / Position", fmt.Sprintf("%s ± %s", round(mean), round(stddev)))
	fmt.Fprintf(w, "║ %-20s %27s ║\n", "95th Percentile", round(p95))
	fmt.Fprintln(w, "╚══════════════════════════════════════════════════╝")
}

func round(d time.Duration) time.Duration {
	return d.Round(time.Millisecond)
}
