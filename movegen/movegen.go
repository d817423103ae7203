// Package movegen implements legal move generation, both the full move
// set and the "forcing" subset (captures, queen promotions, and
// optionally checks) used by quiescence search.
//
// chego (movegen.go) generates pseudo-legal moves and verifies
// legality by copy-making each one and recounting checks on the resulting
// position. This module instead masks destinations directly against the
// pin and checker tables built by package board/geometry (grounded on
// FrankyGo's pin-aware generator in attacks.go), avoiding the make/unmake
// round trip per candidate move — chego's own precalculated magic
// attack tables and leaper tables are reused unchanged via package
// geometry.
package movegen

import (
	"github.com/treepeck/corechess/board"
	"github.com/treepeck/corechess/chesstypes"
	"github.com/treepeck/corechess/geometry"
	"github.com/treepeck/corechess/move"
)

// Forcing selects the move subset fed to quiescence search: captures
// (a capturing promotion in all four promotion pieces) and non-capturing
// queen promotions. IncludeChecks is carried but not read: GenerateForcing
// emits no non-capturing checking moves whatever its value.
type Forcing struct {
	IncludeChecks bool
}

// GenerateAll appends every legal move for b's side to move into l.
func GenerateAll(b *board.Board, l *move.List) {
	generate(b, l, false, Forcing{})
}

// GenerateForcing appends the forcing subset described by f into l.
func GenerateForcing(b *board.Board, l *move.List, f Forcing) {
	generate(b, l, true, f)
}

func generate(b *board.Board, l *move.List, forcingOnly bool, f Forcing) {
	side := b.SideToMove
	opp := side.Opponent()
	king := b.KingSquare(side)
	checkers := b.Checkers(side)
	numCheckers := popcount(checkers)

	genKingMoves(b, l, side, opp, king, forcingOnly)
	if numCheckers > 1 {
		// Double check: only the king can move.
		return
	}

	pinned := b.Pinned(side)

	// legalMask restricts non-king destinations: with no checker, every
	// square is legal; with one checker, a move must capture it or block
	// the ray between it and the king.
	legalMask := ^uint64(0)
	if numCheckers == 1 {
		checkerSquare := bitscan(checkers)
		legalMask = uint64(1)<<checkerSquare | geometry.Between[king][checkerSquare]
	}

	genPawnMoves(b, l, side, opp, legalMask, pinned, king, forcingOnly, f)
	genKnightMoves(b, l, side, opp, legalMask, pinned, forcingOnly)
	genSliderMoves(b, l, side, opp, chesstypes.Bishop, legalMask, pinned, king, forcingOnly)
	genSliderMoves(b, l, side, opp, chesstypes.Rook, legalMask, pinned, king, forcingOnly)
	genSliderMoves(b, l, side, opp, chesstypes.Queen, legalMask, pinned, king, forcingOnly)
}

// TryMoveDigest regenerates b's legal moves and returns the one whose
// digest equals digest, or move.None if none matches. Used to turn a
// transposition-table move digest (or any other 16-bit digest a caller
// holds) back into a playable move without trusting stale state.
func TryMoveDigest(b *board.Board, digest uint16) move.Move {
	var l move.List
	GenerateAll(b, &l)
	for i := 0; i < l.Len(); i++ {
		if l.At(i).Digest() == digest {
			return l.At(i)
		}
	}
	return move.None
}

func popcount(bb uint64) int {
	n := 0
	for bb != 0 {
		bb &= bb - 1
		n++
	}
	return n
}

func bitscan(bb uint64) int {
	for i := range 64 {
		if bb&(1<<i) != 0 {
			return i
		}
	}
	return -1
}

// pinRay returns the line through king and sq (the full line, since a
// pinned piece may still slide along it) or ^0 when sq is not pinned.
func pinRay(king, sq int, pinned uint64) uint64 {
	if pinned&(uint64(1)<<sq) == 0 {
		return ^uint64(0)
	}
	return geometry.Line[king][sq]
}

func genKingMoves(b *board.Board, l *move.List, side, opp chesstypes.Color, king int, forcingOnly bool) {
	// Attacked-square computation must not let the king itself block a
	// slider's line, or the destination square behind the king would be
	// wrongly considered safe.
	occWithoutKing := b.Occupied() &^ (uint64(1) << king)
	dests := geometry.KingAttacks(king) &^ b.ColorOccupied(side)

	for dests != 0 {
		dst := bitscan(dests)
		dests &^= 1 << dst
		if b.AttacksTo(dst, opp, occWithoutKing) != 0 {
			continue
		}
		captured, _ := b.PieceAt(dst)
		if forcingOnly && captured == chesstypes.PieceNone {
			continue
		}
		score := int32(0)
		if captured != chesstypes.PieceNone {
			score = mvvScore(chesstypes.King, captured)
		}
		l.Push(move.New(king, dst, move.Normal, move.PromoQueen, chesstypes.King, captured,
			b.Castling, b.EPFile, score))
	}

	if forcingOnly {
		return
	}
	genCastling(b, l, side, opp, king)
}

func genCastling(b *board.Board, l *move.List, side, opp chesstypes.Color, king int) {
	occ := b.Occupied()
	if side == chesstypes.White {
		if b.Castling&chesstypes.WhiteKingside != 0 && occ&0x60 == 0 &&
			!b.IsAttacked(chesstypes.E1, opp) && !b.IsAttacked(chesstypes.F1, opp) && !b.IsAttacked(chesstypes.G1, opp) {
			l.Push(move.New(king, chesstypes.G1, move.Castling, move.PromoQueen, chesstypes.King, chesstypes.PieceNone, b.Castling, b.EPFile, 0))
		}
		if b.Castling&chesstypes.WhiteQueenside != 0 && occ&0xE == 0 &&
			!b.IsAttacked(chesstypes.E1, opp) && !b.IsAttacked(chesstypes.D1, opp) && !b.IsAttacked(chesstypes.C1, opp) {
			l.Push(move.New(king, chesstypes.C1, move.Castling, move.PromoQueen, chesstypes.King, chesstypes.PieceNone, b.Castling, b.EPFile, 0))
		}
	} else {
		if b.Castling&chesstypes.BlackKingside != 0 && occ&0x6000000000000000 == 0 &&
			!b.IsAttacked(chesstypes.E8, opp) && !b.IsAttacked(chesstypes.F8, opp) && !b.IsAttacked(chesstypes.G8, opp) {
			l.Push(move.New(king, chesstypes.G8, move.Castling, move.PromoQueen, chesstypes.King, chesstypes.PieceNone, b.Castling, b.EPFile, 0))
		}
		if b.Castling&chesstypes.BlackQueenside != 0 && occ&0xE00000000000000 == 0 &&
			!b.IsAttacked(chesstypes.E8, opp) && !b.IsAttacked(chesstypes.D8, opp) && !b.IsAttacked(chesstypes.C8, opp) {
			l.Push(move.New(king, chesstypes.C8, move.Castling, move.PromoQueen, chesstypes.King, chesstypes.PieceNone, b.Castling, b.EPFile, 0))
		}
	}
}

func genKnightMoves(b *board.Board, l *move.List, side, opp chesstypes.Color, legalMask, pinned uint64, forcingOnly bool) {
	knights := b.Pieces(chesstypes.Knight, side)
	for knights != 0 {
		from := bitscan(knights)
		knights &^= 1 << from
		if pinned&(uint64(1)<<from) != 0 {
			// A pinned knight can never move without exposing the king.
			continue
		}
		dests := geometry.KnightAttacks(from) &^ b.ColorOccupied(side) & legalMask
		for dests != 0 {
			dst := bitscan(dests)
			dests &^= 1 << dst
			captured, _ := b.PieceAt(dst)
			if forcingOnly && captured == chesstypes.PieceNone {
				continue
			}
			score := int32(0)
			if captured != chesstypes.PieceNone {
				score = mvvScore(chesstypes.Knight, captured)
			}
			l.Push(move.New(from, dst, move.Normal, move.PromoQueen, chesstypes.Knight, captured,
				b.Castling, b.EPFile, score))
		}
	}
}

func genSliderMoves(b *board.Board, l *move.List, side, opp chesstypes.Color, piece chesstypes.Piece,
	legalMask, pinned uint64, king int, forcingOnly bool) {

	pieces := b.Pieces(piece, side)
	occ := b.Occupied()
	for pieces != 0 {
		from := bitscan(pieces)
		pieces &^= 1 << from
		dests := geometry.AttacksFrom(piece, side, from, occ) &^ b.ColorOccupied(side) & legalMask & pinRay(king, from, pinned)
		for dests != 0 {
			dst := bitscan(dests)
			dests &^= 1 << dst
			captured, _ := b.PieceAt(dst)
			if forcingOnly && captured == chesstypes.PieceNone {
				continue
			}
			score := int32(0)
			if captured != chesstypes.PieceNone {
				score = mvvScore(piece, captured)
			}
			l.Push(move.New(from, dst, move.Normal, move.PromoQueen, piece, captured,
				b.Castling, b.EPFile, score))
		}
	}
}

func genPawnMoves(b *board.Board, l *move.List, side, opp chesstypes.Color, legalMask, pinned uint64, king int,
	forcingOnly bool, f Forcing) {

	pawns := b.Pieces(chesstypes.Pawn, side)
	occ := b.Occupied()
	forward := 8
	startRank := 1
	promoRank := 7
	epRank := 4
	if side == chesstypes.Black {
		forward = -8
		startRank = 6
		promoRank = 0
		epRank = 3
	}

	for pawns != 0 {
		from := bitscan(pawns)
		pawns &^= 1 << from
		ray := pinRay(king, from, pinned)

		// Captures.
		attacks := geometry.PawnAttacks(side, from) & b.ColorOccupied(opp) & ray
		for attacks != 0 {
			dst := bitscan(attacks)
			attacks &^= 1 << dst
			if legalMask&(uint64(1)<<dst) == 0 {
				continue
			}
			captured, _ := b.PieceAt(dst)
			pushPawnMove(l, b, side, from, dst, chesstypes.Pawn, captured, chesstypes.Rank(dst) == promoRank)
		}

		// En passant. Under check, this is only legal when capturing the
		// en-passant target resolves the check: either the double-pushed
		// pawn being removed is the checker itself, or the destination
		// square interposes on the checker's ray to the king.
		if b.EPFile != chesstypes.NoEnPassantFile && chesstypes.Rank(from) == epRank {
			epSquare := (epRank+forwardRankDelta(side))*8 + b.EPFile
			capturedPawnSquare := epSquare - forwardStep(side)
			if geometry.PawnAttacks(side, from)&(uint64(1)<<epSquare) != 0 && ray&(uint64(1)<<epSquare) != 0 &&
				(legalMask&(uint64(1)<<epSquare) != 0 || legalMask&(uint64(1)<<capturedPawnSquare) != 0) {
				if isLegalEnPassant(b, side, opp, from, epSquare, king) {
					l.Push(move.New(from, epSquare, move.EnPassant, move.PromoQueen, chesstypes.Pawn, chesstypes.Pawn,
						b.Castling, b.EPFile, mvvScore(chesstypes.Pawn, chesstypes.Pawn)))
				}
			}
		}

		// Single push.
		one := from + forward
		if one >= 0 && one < 64 && occ&(uint64(1)<<one) == 0 && ray&(uint64(1)<<one) != 0 {
			isPromo := chesstypes.Rank(one) == promoRank
			if legalMask&(uint64(1)<<one) == 0 {
				// The single push does not resolve a check; the double
				// push below may still interpose.
			} else if !forcingOnly {
				pushPawnMove(l, b, side, from, one, chesstypes.Pawn, chesstypes.PieceNone, isPromo)
			} else if isPromo {
				l.Push(move.New(from, one, move.Promotion, move.PromoQueen, chesstypes.Pawn, chesstypes.PieceNone,
					b.Castling, b.EPFile, 900))
			}
			// Double push.
			if chesstypes.Rank(from) == startRank {
				two := one + forward
				if occ&(uint64(1)<<two) == 0 && ray&(uint64(1)<<two) != 0 && legalMask&(uint64(1)<<two) != 0 && !forcingOnly {
					l.Push(move.New(from, two, move.Normal, move.PromoQueen, chesstypes.Pawn, chesstypes.PieceNone,
						b.Castling, b.EPFile, 0))
				}
			}
		}
	}
}

func forwardRankDelta(c chesstypes.Color) int {
	if c == chesstypes.White {
		return 1
	}
	return -1
}

// isLegalEnPassant guards the rare case where capturing en passant exposes
// the king to a rook/queen along the rank the two pawns shared: the
// fourth/fifth-rank discovered-check exception.
func isLegalEnPassant(b *board.Board, side, opp chesstypes.Color, from, epSquare, king int) bool {
	capturedPawnSquare := epSquare - forwardStep(side)
	occ := b.Occupied()
	occ &^= uint64(1) << from
	occ &^= uint64(1) << capturedPawnSquare
	occ |= uint64(1) << epSquare

	rookLike := (b.Pieces(chesstypes.Rook, opp) | b.Pieces(chesstypes.Queen, opp))
	if geometry.RookAttacks(king, occ)&rookLike != 0 {
		return false
	}
	bishopLike := (b.Pieces(chesstypes.Bishop, opp) | b.Pieces(chesstypes.Queen, opp))
	if geometry.BishopAttacks(king, occ)&bishopLike != 0 {
		return false
	}
	return true
}

func forwardStep(c chesstypes.Color) int {
	if c == chesstypes.White {
		return 8
	}
	return -8
}

func pushPawnMove(l *move.List, b *board.Board, side chesstypes.Color, from, dst int, piece, captured chesstypes.Piece, isPromo bool) {
	if !isPromo {
		score := int32(0)
		if captured != chesstypes.PieceNone {
			score = mvvScore(piece, captured)
		}
		l.Push(move.New(from, dst, move.Normal, move.PromoQueen, piece, captured, b.Castling, b.EPFile, score))
		return
	}
	promos := [4]move.Promo{move.PromoQueen, move.PromoRook, move.PromoBishop, move.PromoKnight}
	for _, promo := range promos {
		score := int32(900)
		if captured != chesstypes.PieceNone {
			score += mvvScore(piece, captured)
		}
		l.Push(move.New(from, dst, move.Promotion, promo, piece, captured, b.Castling, b.EPFile, score))
	}
}

// mvvScore is the most-valuable-victim/least-valuable-attacker seed used as
// a move's initial ordering score.
func mvvScore(attacker, victim chesstypes.Piece) int32 {
	values := [chesstypes.PieceCount]int32{10000, 900, 500, 330, 320, 100}
	return 10*values[victim] - values[attacker]
}
