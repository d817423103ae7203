// Package move implements a packed 64-bit move representation: a single
// integer carries enough information to make and unmake the move without
// consulting the board again, plus an ordering score used by the
// search's move picker.
//
// Grounded on chego's 16-bit Move in types.go/types/types.go, widened
// to the spec's 64-bit encoding (chego's to/from/promo/type fields
// become the move digest — the low 16 bits here — so hash-move lookups
// against a transposition-table digest stay compatible with the narrower
// encoding's semantics).
package move

import (
	"strings"

	"github.com/treepeck/corechess/chesstypes"
)

// Type is the kind of move, 2 bits.
type Type uint64

const (
	Normal Type = iota
	Castling
	Promotion
	EnPassant
)

// Promo is the promotion piece tag, 2 bits. Queen = 0 so that a queen
// promotion and a zero-valued aux field agree; this ordering must be
// preserved across sessions for transposition-table digest compatibility.
type Promo uint64

const (
	PromoQueen Promo = iota
	PromoRook
	PromoBishop
	PromoKnight
)

// bit offsets within the packed word.
const (
	shiftOrigin      = 0
	shiftDestination = 6
	shiftType        = 12
	shiftAux         = 14
	shiftPriorEP     = 16
	shiftPriorCastle = 20
	shiftPlayed      = 24
	shiftCaptured    = 27
	shiftScore       = 30

	maskSquare = 0x3F
	maskType   = 0x3
	maskAux    = 0x3
	maskEP     = 0xF
	maskCastle = 0xF
	maskPiece  = 0x7
)

// digestMask covers the low 16 bits: origin, destination, type, aux. This is
// the minimum information needed to unambiguously identify a move within a
// known position.
const digestMask = 0xFFFF

// Move is the packed move representation. The zero Move is the invalid
// move (digest 0); every legal move has a non-zero digest because a
// legal move's origin and destination squares always differ.
type Move uint64

// New packs a move. capturedPiece is chesstypes.PieceNone for a non-capture.
// score is the initial ordering key (higher sorts first) and is stored as
// given; package movegen seeds captures with an MVV-LVA value, promotions
// with 900 plus any capture value, and quiet moves with 0.
func New(origin, destination int, typ Type, promo Promo, played, capturedPiece chesstypes.Piece,
	priorCastling chesstypes.CastlingRights, priorEPFile int, score int32) Move {

	captured := uint64(chesstypes.PieceCount - 1)
	if capturedPiece != chesstypes.PieceNone {
		// Invert so the sentinel (chesstypes.PieceCount-1, no
		// capture) is the maximum value a captured-piece field can hold;
		// IsCapture checks against that sentinel. Move ordering itself is
		// driven entirely by the explicit Score field below, which
		// PopBest compares in isolation.
		captured = uint64(chesstypes.PieceCount-1) - uint64(capturedPiece)
	}

	return Move(
		uint64(origin&maskSquare)<<shiftOrigin |
			uint64(destination&maskSquare)<<shiftDestination |
			uint64(typ)<<shiftType |
			uint64(promo)<<shiftAux |
			uint64(priorEPFile&maskEP)<<shiftPriorEP |
			uint64(priorCastling&maskCastle)<<shiftPriorCastle |
			uint64(played&maskPiece)<<shiftPlayed |
			captured<<shiftCaptured |
			uint64(uint32(score))<<shiftScore,
	)
}

// None is the invalid move: an all-zero word.
const None Move = 0

// IsNone reports whether m carries no digest, i.e. it is the invalid move.
func (m Move) IsNone() bool { return m&digestMask == 0 }

// Digest returns the 16-bit subset of m that identifies it within a given
// position: origin, destination, type, and promotion/aux tag.
func (m Move) Digest() uint16 { return uint16(m & digestMask) }

func (m Move) Origin() int      { return int(m>>shiftOrigin) & maskSquare }
func (m Move) Destination() int { return int(m>>shiftDestination) & maskSquare }
func (m Move) Type() Type       { return Type(m>>shiftType) & maskType }
func (m Move) Promo() Promo     { return Promo(m>>shiftAux) & maskAux }

// PromotedPiece maps the packed promotion tag to a chesstypes.Piece.
func (m Move) PromotedPiece() chesstypes.Piece {
	switch m.Promo() {
	case PromoQueen:
		return chesstypes.Queen
	case PromoRook:
		return chesstypes.Rook
	case PromoBishop:
		return chesstypes.Bishop
	default:
		return chesstypes.Knight
	}
}

// PriorEPFile is the en-passant file that was active before this move was
// played (chesstypes.NoEnPassantFile when none), needed by undo.
func (m Move) PriorEPFile() int { return int(m>>shiftPriorEP) & maskEP }

// PriorCastlingRights are the rights in effect before this move was played.
func (m Move) PriorCastlingRights() chesstypes.CastlingRights {
	return chesstypes.CastlingRights(m>>shiftPriorCastle) & maskCastle
}

// PlayedPiece is the piece that moved (before any promotion).
func (m Move) PlayedPiece() chesstypes.Piece { return chesstypes.Piece(m>>shiftPlayed) & maskPiece }

// CapturedPiece recovers the captured piece, or chesstypes.PieceNone for a
// quiet move. En passant always reports Pawn.
func (m Move) CapturedPiece() chesstypes.Piece {
	if !m.IsCapture() {
		return chesstypes.PieceNone
	}
	if m.Type() == EnPassant {
		return chesstypes.Pawn
	}
	return chesstypes.Piece(uint64(chesstypes.PieceCount-1) - uint64(m>>shiftCaptured&maskPiece))
}

// IsCapture reports whether the move captures a piece (including en
// passant, whose captured pawn never occupies the destination square).
func (m Move) IsCapture() bool {
	return m.Type() == EnPassant || uint64(m>>shiftCaptured&maskPiece) != uint64(chesstypes.PieceCount-1)
}

// Score is the ordering key used by the move picker; higher sorts first.
func (m Move) Score() int32 { return int32(uint32(m >> shiftScore)) }

// WithScore returns a copy of m with its ordering score replaced.
func (m Move) WithScore(score int32) Move {
	return Move(uint64(m)&^(uint64(0xFFFFFFFF)<<shiftScore) | uint64(uint32(score))<<shiftScore)
}

// String formats m in long algebraic notation: origin square, destination
// square, optional promotion letter. Grounded on chego's
// Move2UCI (uci.go).
func (m Move) String() string {
	var b strings.Builder
	b.Grow(5)
	b.WriteString(chesstypes.SquareNames[m.Origin()])
	b.WriteString(chesstypes.SquareNames[m.Destination()])
	if m.Type() == Promotion {
		switch m.PromotedPiece() {
		case chesstypes.Knight:
			b.WriteByte('n')
		case chesstypes.Bishop:
			b.WriteByte('b')
		case chesstypes.Rook:
			b.WriteByte('r')
		default:
			b.WriteByte('q')
		}
	}
	return b.String()
}

// MaxMoves bounds the legal moves reachable from a single chess position.
// See https://www.talkchess.com/forum/viewtopic.php?t=61792
const MaxMoves = 218

// List stores moves in a preallocated array to avoid per-node heap
// allocation, with explicit checkpoints so the search can save and restore
// a sub-range as it walks phases of the move loop: a single growable move
// container with snapshot/restore semantics, not one allocation per ply.
// Grounded on chego's MoveList
// (types.go/types/types.go), extended with Snapshot/Restore and pop-best.
type List struct {
	moves [MaxMoves]Move
	n     int
}

// Len returns the number of moves currently stored.
func (l *List) Len() int { return l.n }

// At returns the move at index i.
func (l *List) At(i int) Move { return l.moves[i] }

// Set overwrites the move at index i, used to demote a capture to "bad"
// ordering during the move loop's capture-scoring phase.
func (l *List) Set(i int, m Move) { l.moves[i] = m }

// Push appends a move.
func (l *List) Push(m Move) {
	l.moves[l.n] = m
	l.n++
}

// Reset empties the list without reallocating its backing array.
func (l *List) Reset() { l.n = 0 }

// Snapshot returns a checkpoint that Restore can roll back to.
func (l *List) Snapshot() int { return l.n }

// Restore truncates the list back to a previously taken Snapshot.
func (l *List) Restore(mark int) { l.n = mark }

// PopBest removes and returns the highest-scored move at or after `from`,
// swapping it into place with the element currently occupying the removed
// slot's position (order among the rest is not preserved, as this feeds a
// picker that exhausts the whole range once anyway).
func (l *List) PopBest(from int) (Move, bool) {
	if from >= l.n {
		return None, false
	}
	best := from
	for i := from + 1; i < l.n; i++ {
		if l.moves[i].Score() > l.moves[best].Score() {
			best = i
		}
	}
	m := l.moves[best]
	l.n--
	l.moves[best] = l.moves[l.n]
	return m, true
}
