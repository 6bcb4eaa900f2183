package builder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"laptudirm.com/x/bookgen/pkg/board"
	"laptudirm.com/x/bookgen/pkg/book"
	"laptudirm.com/x/bookgen/pkg/oracle"
)

// fakeOracle identifies positions with the usual bitboard key, the sum of
// the current player's stones and the mask of played cells, and scores
// them with a configurable function.
type fakeOracle struct {
	g     board.Geometry
	score func(board.Position) int
	fail  func(board.Position) error
	calls atomic.Int64
}

func (fake *fakeOracle) Evaluate(ctx context.Context, pos board.Position) (oracle.Result, error) {
	fake.calls.Add(1)

	if fake.fail != nil {
		if err := fake.fail(pos); err != nil {
			return oracle.Result{}, err
		}
	}

	if !pos.Legal(fake.g) {
		return oracle.Result{}, &oracle.ProcessError{Moves: pos.String(), Code: 1}
	}

	result := oracle.Result{
		Key:    book.NarrowKey(bitboardKey(fake.g, pos)),
		HasKey: true,
	}

	if fake.score != nil {
		result.Score = fake.score(pos)
	}

	return result, nil
}

func bitboardKey(g board.Geometry, pos board.Position) uint64 {
	var current, mask uint64
	for _, col := range pos {
		current ^= mask
		mask |= mask + 1<<uint((col-1)*(g.Height+1))
	}

	return current + mask
}

func testConfig(workers int) Config {
	config := DefaultConfig()
	config.Workers = workers
	config.Progress = false
	return config
}

func newBuilder(t *testing.T, config Config, evaluator oracle.Evaluator) *Builder {
	t.Helper()

	builder, err := New(config, evaluator)
	if err != nil {
		t.Fatal(err)
	}

	return builder
}

func TestMirrorReductionAtDepthOne(t *testing.T) {
	fake := &fakeOracle{g: board.Standard}
	builder := newBuilder(t, testConfig(4), fake)

	positions := board.Frontiers(board.Standard, 1)[1]
	openings, stats, err := builder.Run(context.Background(), positions)
	if err != nil {
		t.Fatal(err)
	}

	if openings.Len() != 4 || stats.Mirrored != 3 {
		t.Fatalf("expected 4 entries and 3 mirrored, got %d and %d", openings.Len(), stats.Mirrored)
	}

	for col := 1; col <= 4; col++ {
		result, _ := fake.Evaluate(context.Background(), board.Position{col})
		if _, ok := openings.Lookup(result.Key); !ok {
			t.Errorf("position %d missing from the book", col)
		}
	}
}

func TestRunDepthTwo(t *testing.T) {
	fake := &fakeOracle{
		g:     board.Standard,
		score: func(pos board.Position) int { return -len(pos) },
	}
	builder := newBuilder(t, testConfig(8), fake)

	positions := board.Enumerate(board.Standard, 2)
	if len(positions) != 57 {
		t.Fatalf("expected 57 positions, got %d", len(positions))
	}

	openings, stats, err := builder.Run(context.Background(), positions)
	if err != nil {
		t.Fatal(err)
	}

	// 1 empty, 4 of 7 at depth one, and at depth two "44" plus one of
	// each of the 24 mirrored pairs.
	if openings.Len() != 30 {
		t.Fatalf("expected 30 entries, got %d", openings.Len())
	}

	if stats.Done != 57 || stats.Entries != 30 || stats.Mirrored != 27 || stats.Skipped != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	entries := openings.Entries()
	for i, entry := range entries {
		if i > 0 && !entries[i-1].Key.Less(entry.Key) {
			t.Fatalf("keys not strictly increasing at %d", i)
		}

		// Every child ties, so the lowest column wins.
		if entry.Move != 0 {
			t.Fatalf("entry %s: expected move 0, got %d", entry.Key, entry.Move)
		}
	}
}

func TestRunIsDeterministic(t *testing.T) {
	// Scores depend on the board only, so transpositions agree.
	score := func(pos board.Position) int {
		return int(bitboardKey(board.Standard, pos) % 5)
	}

	var books [2][]book.Entry
	for i := range books {
		fake := &fakeOracle{g: board.Standard, score: score}
		builder := newBuilder(t, testConfig(i*5+1), fake)

		openings, _, err := builder.Run(context.Background(), board.Enumerate(board.Standard, 3))
		if err != nil {
			t.Fatal(err)
		}

		books[i] = openings.Entries()
	}

	if fmt.Sprint(books[0]) != fmt.Sprint(books[1]) {
		t.Fatalf("books differ between runs")
	}
}

func TestRunAllTimeouts(t *testing.T) {
	fake := &fakeOracle{
		g: board.Standard,
		fail: func(pos board.Position) error {
			return fmt.Errorf("%w: %q", oracle.ErrTimeout, pos.String())
		},
	}
	builder := newBuilder(t, testConfig(3), fake)

	openings, stats, err := builder.Run(context.Background(), board.Enumerate(board.Standard, 2))
	if err != nil {
		t.Fatalf("timeouts should not fail the run: %v", err)
	}

	if openings.Len() != 0 {
		t.Fatalf("expected an empty book, got %d entries", openings.Len())
	}

	if stats.Skipped != 57 || stats.Timeouts != 57 {
		t.Fatalf("expected 57 skipped positions, got %+v", stats)
	}
}

func TestRunSkipsIllegalPositions(t *testing.T) {
	fake := &fakeOracle{g: board.Standard}
	builder := newBuilder(t, testConfig(2), fake)

	positions := []board.Position{{}, {4, 4, 4, 4, 4, 4, 4}, {1}}
	openings, stats, err := builder.Run(context.Background(), positions)
	if err != nil {
		t.Fatal(err)
	}

	if openings.Len() != 2 || stats.Illegal != 1 || stats.Skipped != 1 {
		t.Fatalf("unexpected result: %d entries, stats %+v", openings.Len(), stats)
	}
}

func TestRunAbortsOnProtocolMismatch(t *testing.T) {
	fake := &fakeOracle{
		g: board.Standard,
		fail: func(pos board.Position) error {
			if pos.String() == "1" {
				return &oracle.ProtocolError{Protocol: oracle.Narrow, Moves: "1", Output: "garbage", Reason: "bad key"}
			}
			return nil
		},
	}
	builder := newBuilder(t, testConfig(1), fake)

	positions := board.Enumerate(board.Standard, 2)
	openings, stats, err := builder.Run(context.Background(), positions)
	if !errors.Is(err, oracle.ErrUnparseable) {
		t.Fatalf("expected ErrUnparseable, got %v", err)
	}

	if openings != nil {
		t.Fatalf("no book should be returned on protocol mismatch")
	}

	if stats.Done >= len(positions) {
		t.Fatalf("dispatch should have stopped, analyzed %d of %d", stats.Done, len(positions))
	}

	if !strings.Contains(err.Error(), "garbage") {
		t.Fatalf("error should include the raw output: %v", err)
	}
}

func TestRunFinishesInFlightOnProtocolMismatch(t *testing.T) {
	fake := &fakeOracle{g: board.Standard}

	started := make(chan struct{})
	mismatched := make(chan struct{})
	var canceled atomic.Bool

	evaluator := oracle.EvaluatorFunc(func(ctx context.Context, pos board.Position) (oracle.Result, error) {
		switch pos.String() {
		case "1":
			<-started
			close(mismatched)
			return oracle.Result{}, &oracle.ProtocolError{Protocol: oracle.Narrow, Moves: "1", Output: "garbage", Reason: "bad key"}

		case "2":
			close(started)
			<-mismatched

			// The dispatcher stops once the failing worker returns; the
			// context of this call has to outlive that.
			select {
			case <-ctx.Done():
				canceled.Store(true)
			case <-time.After(100 * time.Millisecond):
			}
		}

		return fake.Evaluate(ctx, pos)
	})

	positions := []board.Position{{1}, {2}, {3}, {4}, {5}}
	openings, stats, err := newBuilder(t, testConfig(2), evaluator).Run(context.Background(), positions)
	if !errors.Is(err, oracle.ErrUnparseable) {
		t.Fatalf("expected ErrUnparseable, got %v", err)
	}

	if openings != nil {
		t.Fatalf("no book should be returned on protocol mismatch")
	}

	if canceled.Load() {
		t.Fatalf("in-flight oracle call was canceled")
	}

	if stats.Done != 2 || stats.Entries != 1 {
		t.Fatalf("expected the in-flight position to be recorded, got %+v", stats)
	}

	if stats.Done >= len(positions) {
		t.Fatalf("dispatch should have stopped, analyzed %d of %d", stats.Done, len(positions))
	}
}

func TestBuildWritesBook(t *testing.T) {
	config := testConfig(4)
	config.Depth = 2
	config.Output = filepath.Join(t.TempDir(), "book.bin")

	builder := newBuilder(t, config, &fakeOracle{g: board.Standard})
	stats, err := builder.Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	openings, err := book.Load(config.Output, book.Narrow)
	if err != nil {
		t.Fatal(err)
	}

	if openings.Len() != stats.Entries || stats.Entries != 30 {
		t.Fatalf("book has %d entries, stats report %d", openings.Len(), stats.Entries)
	}

	var report bytes.Buffer
	stats.Report(&report)
	if !strings.Contains(report.String(), "Book Entries") {
		t.Fatalf("report is missing entry count:\n%s", report.String())
	}
}

func TestBuildWritesNothingOnFailure(t *testing.T) {
	config := testConfig(2)
	config.Depth = 2
	config.Output = filepath.Join(t.TempDir(), "book.bin")

	fake := &fakeOracle{
		g: board.Standard,
		fail: func(pos board.Position) error {
			return &oracle.ProtocolError{Moves: pos.String(), Reason: "bad"}
		},
	}

	if _, err := newBuilder(t, config, fake).Build(context.Background()); err == nil {
		t.Fatalf("expected the build to fail")
	}

	if _, err := os.Stat(config.Output); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("book file should not exist, stat returned %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	config := testConfig(0)
	if err := config.Validate(); err != nil {
		t.Fatal(err)
	}

	if config.Workers <= 0 {
		t.Fatalf("workers should default to the number of cpus")
	}

	config.Oracle.Protocol = oracle.Score
	if err := config.Validate(); err == nil {
		t.Fatalf("score protocol accepted for building")
	}

	config = testConfig(1)
	config.Depth = -1
	if err := config.Validate(); err == nil {
		t.Fatalf("negative depth accepted")
	}

	for _, timeout := range []time.Duration{0, -time.Second} {
		config = testConfig(1)
		config.Oracle.Timeout = timeout
		if err := config.Validate(); err == nil {
			t.Fatalf("oracle timeout %s accepted", timeout)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "width: 5\nheight: 4\ndepth: 3\noracle:\n  path: ./solver\n  protocol: wide\n  timeout: 30s\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	if config.Width != 5 || config.Height != 4 || config.Depth != 3 {
		t.Fatalf("unexpected geometry %+v", config)
	}

	if config.Oracle.Protocol != oracle.Wide || config.Oracle.Timeout.Seconds() != 30 {
		t.Fatalf("unexpected oracle config %+v", config.Oracle)
	}

	if config.Output != "book.bin" {
		t.Fatalf("unset fields should keep their defaults, got output %q", config.Output)
	}

	if err := config.Validate(); err != nil || config.Format() != book.Wide {
		t.Fatalf("wide protocol should build wide books (%v)", err)
	}
}

func TestAnalyzeReportsMissingKey(t *testing.T) {
	scores := oracle.EvaluatorFunc(func(ctx context.Context, pos board.Position) (oracle.Result, error) {
		return oracle.Score.Parse(pos.String(), "3 100 20")
	})

	_, err := newBuilder(t, testConfig(1), scores).Analyze(context.Background(), board.Position{4})
	if !errors.Is(err, oracle.ErrUnparseable) {
		t.Fatalf("expected ErrUnparseable, got %v", err)
	}

	for _, want := range []string{"protocol score", `"3 100 20"`, `"4"`} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q should contain %s", err, want)
		}
	}
}
