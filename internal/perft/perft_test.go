package perft

import (
	"testing"

	"github.com/treepeck/corechess/board"
	"github.com/treepeck/corechess/geometry"
	"github.com/treepeck/corechess/position"
)

func TestMain(m *testing.M) {
	geometry.Init()
	m.Run()
}

func newPos(t *testing.T, fen string) *position.Position {
	t.Helper()
	pos, err := position.New(fen)
	if err != nil {
		t.Fatal(err)
	}
	return pos
}

type perftCase struct {
	depth int
	want  uint64
}

func TestCountStartingPosition(t *testing.T) {
	pos := newPos(t, board.StartingFEN)

	cases := []perftCase{
		{1, 20},
		{2, 400},
		{3, 8902},
	}
	if !testing.Short() {
		cases = append(cases, perftCase{4, 197281}, perftCase{5, 4865609})
	}
	for _, c := range cases {
		if got := Count(pos, c.depth); got != c.want {
			t.Errorf("depth %d: got %d, want %d", c.depth, got, c.want)
		}
	}
}

func TestCountKiwipeteDepth2(t *testing.T) {
	pos := newPos(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if got := Count(pos, 2); got != 2039 {
		t.Fatalf("got %d, want 2039", got)
	}
}

func TestCountKiwipeteDeeper(t *testing.T) {
	if testing.Short() {
		t.Skip("slow perft depth, skipped with -short")
	}
	pos := newPos(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")

	cases := []perftCase{
		{3, 97862},
		{4, 4085603},
	}
	for _, c := range cases {
		if got := Count(pos, c.depth); got != c.want {
			t.Errorf("depth %d: got %d, want %d", c.depth, got, c.want)
		}
	}
}

func TestDivideSumsToCount(t *testing.T) {
	pos := newPos(t, board.StartingFEN)
	divide := Divide(pos, 3)

	var total uint64
	for _, n := range divide {
		total += n
	}
	if total != Count(pos, 3) {
		t.Fatalf("divide total %d does not match Count %d", total, Count(pos, 3))
	}
	if len(divide) != 20 {
		t.Fatalf("expected 20 root moves, got %d", len(divide))
	}
}

func TestVerboseCountsCapturesAndCastles(t *testing.T) {
	pos := newPos(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	r := Verbose(pos, 1)
	if r.Nodes != 48 {
		t.Fatalf("expected 48 root moves, got %d", r.Nodes)
	}
	if r.Castles == 0 {
		t.Fatal("expected at least one castling move available from Kiwipete")
	}
}
