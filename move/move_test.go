package move

import (
	"testing"

	"github.com/treepeck/corechess/chesstypes"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	m := New(chesstypes.E2, chesstypes.E4, Normal, PromoQueen,
		chesstypes.Pawn, chesstypes.PieceNone,
		chesstypes.WhiteKingside|chesstypes.WhiteQueenside, chesstypes.NoEnPassantFile, 0)

	if m.Origin() != chesstypes.E2 || m.Destination() != chesstypes.E4 {
		t.Fatalf("origin/destination mismatch: %d %d", m.Origin(), m.Destination())
	}
	if m.Type() != Normal {
		t.Fatalf("expected Normal, got %v", m.Type())
	}
	if m.IsCapture() {
		t.Fatal("quiet move reported as capture")
	}
	if m.IsNone() {
		t.Fatal("legal move reported as None")
	}
}

func TestCaptureMVVOrdering(t *testing.T) {
	queenCapture := New(chesstypes.D1, chesstypes.D8, Normal, PromoQueen,
		chesstypes.Queen, chesstypes.Queen, 0, chesstypes.NoEnPassantFile, 0)
	pawnCapture := New(chesstypes.D1, chesstypes.D8, Normal, PromoQueen,
		chesstypes.Queen, chesstypes.Pawn, 0, chesstypes.NoEnPassantFile, 0)

	if !queenCapture.IsCapture() || !pawnCapture.IsCapture() {
		t.Fatal("expected both moves to be captures")
	}
	if queenCapture <= pawnCapture {
		t.Fatalf("capturing a queen should sort above capturing a pawn at equal score: %d vs %d",
			queenCapture, pawnCapture)
	}
	if queenCapture.CapturedPiece() != chesstypes.Queen {
		t.Fatalf("expected Queen, got %v", queenCapture.CapturedPiece())
	}
}

func TestWithScorePreservesDigest(t *testing.T) {
	m := New(chesstypes.G1, chesstypes.F3, Normal, PromoQueen,
		chesstypes.Knight, chesstypes.PieceNone, 0, chesstypes.NoEnPassantFile, 0)
	scored := m.WithScore(-5)
	if scored.Digest() != m.Digest() {
		t.Fatal("WithScore must not disturb the digest")
	}
	if scored.Score() != -5 {
		t.Fatalf("expected score -5, got %d", scored.Score())
	}
}

func TestZeroMoveIsNone(t *testing.T) {
	if !None.IsNone() {
		t.Fatal("zero-value Move must be None")
	}
}

func TestMoveString(t *testing.T) {
	m := New(chesstypes.E7, chesstypes.E8, Promotion, PromoQueen,
		chesstypes.Pawn, chesstypes.PieceNone, 0, chesstypes.NoEnPassantFile, 0)
	if got, want := m.String(), "e7e8q"; got != want {
		t.Fatalf("expected %q got %q", want, got)
	}
}

func TestListSnapshotRestore(t *testing.T) {
	var l List
	l.Push(New(0, 1, Normal, PromoQueen, chesstypes.Pawn, chesstypes.PieceNone, 0, chesstypes.NoEnPassantFile, 0))
	mark := l.Snapshot()
	l.Push(New(1, 2, Normal, PromoQueen, chesstypes.Pawn, chesstypes.PieceNone, 0, chesstypes.NoEnPassantFile, 0))
	if l.Len() != 2 {
		t.Fatalf("expected 2 moves, got %d", l.Len())
	}
	l.Restore(mark)
	if l.Len() != 1 {
		t.Fatalf("expected restore to 1 move, got %d", l.Len())
	}
}

func TestPopBestPicksHighestScore(t *testing.T) {
	var l List
	l.Push(New(0, 1, Normal, PromoQueen, chesstypes.Pawn, chesstypes.PieceNone, 0, chesstypes.NoEnPassantFile, 10))
	l.Push(New(1, 2, Normal, PromoQueen, chesstypes.Pawn, chesstypes.PieceNone, 0, chesstypes.NoEnPassantFile, 99))
	l.Push(New(2, 3, Normal, PromoQueen, chesstypes.Pawn, chesstypes.PieceNone, 0, chesstypes.NoEnPassantFile, 50))

	best, ok := l.PopBest(0)
	if !ok || best.Score() != 99 {
		t.Fatalf("expected best score 99, got %d (ok=%v)", best.Score(), ok)
	}
	if l.Len() != 2 {
		t.Fatalf("expected 2 remaining, got %d", l.Len())
	}
}
