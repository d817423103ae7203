// Package chesstypes declares the core enumerations shared across the
// engine: piece and color identities, castling rights, and square indices.
// Kept free of any bitboard or move logic so every other package can depend
// on it without cycles.
package chesstypes

// Piece identifies a chessman kind. It indexes board.Board.Pieces, the
// material table, and the per-piece attack tables in package geometry.
type Piece int

const (
	King Piece = iota
	Queen
	Rook
	Bishop
	Knight
	Pawn
	PieceCount
)

// PieceNone marks the absence of a piece on a square.
const PieceNone Piece = -1

// Color is a side to move.
type Color int

const (
	White Color = iota
	Black
	ColorCount
)

// Opponent returns the other color.
func (c Color) Opponent() Color { return c ^ 1 }

// CastlingRights packs the four independent castling permissions.
type CastlingRights uint8

const (
	WhiteKingside CastlingRights = 1 << iota
	WhiteQueenside
	BlackKingside
	BlackQueenside
)

// NoEnPassantFile marks the absence of an en-passant target file (field
// value 8 in the four-bit file encoding).
const NoEnPassantFile = 8

// Square indices, a1 = 0 .. h8 = 63, file-major within each rank.
const (
	A1 = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

// SquareNames maps a square index to its algebraic name, used for move
// notation and board dumps.
var SquareNames = [64]string{
	"a1", "b1", "c1", "d1", "e1", "f1", "g1", "h1",
	"a2", "b2", "c2", "d2", "e2", "f2", "g2", "h2",
	"a3", "b3", "c3", "d3", "e3", "f3", "g3", "h3",
	"a4", "b4", "c4", "d4", "e4", "f4", "g4", "h4",
	"a5", "b5", "c5", "d5", "e5", "f5", "g5", "h5",
	"a6", "b6", "c6", "d6", "e6", "f6", "g6", "h6",
	"a7", "b7", "c7", "d7", "e7", "f7", "g7", "h7",
	"a8", "b8", "c8", "d8", "e8", "f8", "g8", "h8",
}

// PieceLetters maps a Piece to its FEN letter (white, uppercase).
var PieceLetters = [6]byte{'K', 'Q', 'R', 'B', 'N', 'P'}

// File returns square's file, 0 (a) .. 7 (h).
func File(square int) int { return square & 7 }

// Rank returns square's rank, 0 (1st) .. 7 (8th).
func Rank(square int) int { return square >> 3 }
