package movegen

import (
	"testing"

	"github.com/treepeck/corechess/board"
	"github.com/treepeck/corechess/chesstypes"
	"github.com/treepeck/corechess/geometry"
	"github.com/treepeck/corechess/move"
)

func init() { geometry.Init() }

// applyMove is a minimal board-only make used to drive perft in this
// package's own tests without depending on package position (which in turn
// depends on movegen for its own tests); the full incremental
// Position.DoMove with Zobrist hashing lives in package position.
func applyMove(b board.Board, m move.Move) board.Board {
	side := b.SideToMove
	opp := side.Opponent()
	from, to := m.Origin(), m.Destination()
	played := m.PlayedPiece()

	b.RemovePiece(played, side, from)
	if m.IsCapture() && m.Type() != move.EnPassant {
		captured, _ := b.PieceAt(to)
		b.RemovePiece(captured, opp, to)
	}

	switch m.Type() {
	case move.EnPassant:
		b.PlacePiece(played, side, to)
		capSq := to - 8
		if side == chesstypes.Black {
			capSq = to + 8
		}
		b.RemovePiece(chesstypes.Pawn, opp, capSq)
	case move.Castling:
		b.PlacePiece(played, side, to)
		switch to {
		case chesstypes.G1:
			b.RemovePiece(chesstypes.Rook, side, chesstypes.H1)
			b.PlacePiece(chesstypes.Rook, side, chesstypes.F1)
		case chesstypes.C1:
			b.RemovePiece(chesstypes.Rook, side, chesstypes.A1)
			b.PlacePiece(chesstypes.Rook, side, chesstypes.D1)
		case chesstypes.G8:
			b.RemovePiece(chesstypes.Rook, side, chesstypes.H8)
			b.PlacePiece(chesstypes.Rook, side, chesstypes.F8)
		case chesstypes.C8:
			b.RemovePiece(chesstypes.Rook, side, chesstypes.A8)
			b.PlacePiece(chesstypes.Rook, side, chesstypes.D8)
		}
	case move.Promotion:
		b.PlacePiece(m.PromotedPiece(), side, to)
	default:
		b.PlacePiece(played, side, to)
	}

	b.EPFile = chesstypes.NoEnPassantFile
	if played == chesstypes.Pawn && abs(to-from) == 16 {
		b.EPFile = to % 8
	}

	switch played {
	case chesstypes.Rook:
		switch from {
		case chesstypes.A1:
			b.Castling &^= chesstypes.WhiteQueenside
		case chesstypes.H1:
			b.Castling &^= chesstypes.WhiteKingside
		case chesstypes.A8:
			b.Castling &^= chesstypes.BlackQueenside
		case chesstypes.H8:
			b.Castling &^= chesstypes.BlackKingside
		}
	case chesstypes.King:
		if side == chesstypes.White {
			b.Castling &^= chesstypes.WhiteKingside | chesstypes.WhiteQueenside
		} else {
			b.Castling &^= chesstypes.BlackKingside | chesstypes.BlackQueenside
		}
	}
	// A rook captured on its home square also forfeits that right.
	switch to {
	case chesstypes.A1:
		b.Castling &^= chesstypes.WhiteQueenside
	case chesstypes.H1:
		b.Castling &^= chesstypes.WhiteKingside
	case chesstypes.A8:
		b.Castling &^= chesstypes.BlackQueenside
	case chesstypes.H8:
		b.Castling &^= chesstypes.BlackKingside
	}

	b.SideToMove = opp
	return b
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func perft(b board.Board, depth int) int {
	if depth == 0 {
		return 1
	}
	var l move.List
	GenerateAll(&b, &l)
	if depth == 1 {
		return l.Len()
	}
	nodes := 0
	for i := range l.Len() {
		nodes += perft(applyMove(b, l.At(i)), depth-1)
	}
	return nodes
}

func TestGenerateAllStartingPositionCount(t *testing.T) {
	b, _, _, err := board.ParseFEN(board.StartingFEN)
	if err != nil {
		t.Fatal(err)
	}
	var l move.List
	GenerateAll(&b, &l)
	if l.Len() != 20 {
		t.Fatalf("expected 20 legal moves from the starting position, got %d", l.Len())
	}
}

func TestPerftStartingPositionDepth3(t *testing.T) {
	b, _, _, err := board.ParseFEN(board.StartingFEN)
	if err != nil {
		t.Fatal(err)
	}
	// Well-known perft(3) node count from the starting position.
	if got := perft(b, 3); got != 8902 {
		t.Fatalf("perft(3) from start: got %d want 8902", got)
	}
}

func TestPerftStartingPositionDeeper(t *testing.T) {
	if testing.Short() {
		t.Skip("slow perft depth, skipped with -short")
	}
	b, _, _, err := board.ParseFEN(board.StartingFEN)
	if err != nil {
		t.Fatal(err)
	}
	if got := perft(b, 4); got != 197281 {
		t.Fatalf("perft(4) from start: got %d want 197281", got)
	}
	if got := perft(b, 5); got != 4865609 {
		t.Fatalf("perft(5) from start: got %d want 4865609", got)
	}
}

func TestPerftKiwipeteDepth2(t *testing.T) {
	// The "Kiwipete" position: a standard move-generator stress test that
	// exercises castling, en passant, and promotions together.
	b, _, _, err := board.ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if got := perft(b, 2); got != 2039 {
		t.Fatalf("perft(2) Kiwipete: got %d want 2039", got)
	}
}

func TestPerftKiwipeteDeeper(t *testing.T) {
	if testing.Short() {
		t.Skip("slow perft depth, skipped with -short")
	}
	// Depths 3-4 exercise far more positions under check than depth 2
	// does, including ones reached only after an en-passant capture;
	// a generator that lets an illegal en-passant reply through a check
	// inflates these counts.
	b, _, _, err := board.ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if got := perft(b, 3); got != 97862 {
		t.Fatalf("perft(3) Kiwipete: got %d want 97862", got)
	}
	if got := perft(b, 4); got != 4085603 {
		t.Fatalf("perft(4) Kiwipete: got %d want 4085603", got)
	}
}

func TestGenerateAllDoubleCheckOnlyKingMoves(t *testing.T) {
	b, _, _, err := board.ParseFEN("4r1k1/8/8/8/8/3n4/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	var l move.List
	GenerateAll(&b, &l)
	for i := range l.Len() {
		if l.At(i).PlayedPiece() != chesstypes.King {
			t.Fatalf("expected only king moves under double check, got a %v move", l.At(i).PlayedPiece())
		}
	}
}
