package builder

import (
	"context"
	"testing"

	"laptudirm.com/x/bookgen/pkg/board"
)

func TestProbeFindsMirroredPositions(t *testing.T) {
	scores := map[int]int{1: 5, 2: 4, 3: 3, 4: 2, 5: 1, 6: 0, 7: -1}
	fake := &fakeOracle{g: board.Standard, score: scoreTable(scores)}

	openings, _, err := newBuilder(t, testConfig(2), fake).Run(context.Background(), board.Enumerate(board.Standard, 1))
	if err != nil {
		t.Fatal(err)
	}

	// "1" is stored directly, "7" only through its mirror "1".
	direct, err := Probe(context.Background(), board.Standard, fake, openings, board.Position{1})
	if err != nil {
		t.Fatal(err)
	}

	if !direct.Found || direct.Mirrored || direct.Move != 6 {
		t.Fatalf("unexpected direct hit %+v", direct)
	}

	mirrored, err := Probe(context.Background(), board.Standard, fake, openings, board.Position{7})
	if err != nil {
		t.Fatal(err)
	}

	if !mirrored.Found || !mirrored.Mirrored || mirrored.Move != 0 {
		t.Fatalf("unexpected mirrored hit %+v", mirrored)
	}
}

func TestProbeMiss(t *testing.T) {
	fake := &fakeOracle{g: board.Standard}

	openings, _, err := newBuilder(t, testConfig(1), fake).Run(context.Background(), board.Enumerate(board.Standard, 0))
	if err != nil {
		t.Fatal(err)
	}

	hit, err := Probe(context.Background(), board.Standard, fake, openings, board.Position{2, 3})
	if err != nil {
		t.Fatal(err)
	}

	if hit.Found {
		t.Fatalf("position outside the book was found: %+v", hit)
	}
}
