// see.go implements static exchange evaluation: given a capture, estimate
// the net material gain after both sides
// exchange every attacker on the destination square in ascending value
// order.
//
// Grounded on the swap-off algorithm in
// _examples/other_examples/2b14c265_frankkopp-FrankyGo__internal-search-see.go.go
// (gain[] array, x-ray rescans via AttacksTo as attackers are removed),
// adapted to this module's board/geometry types; chego has no SEE of
// its own.
package position

import (
	"github.com/treepeck/corechess/board"
	"github.com/treepeck/corechess/chesstypes"
)

// seeValues mirrors the material evaluator's piece values; CalcSEE's
// result is a sum and difference of these values.
var seeValues = [chesstypes.PieceCount]int{10000, 975, 500, 325, 325, 100}

// CalcSEE estimates the net material swing of playing a capture from
// origin to target, with attacker (of color side) already assumed to have
// moved there and captured victim. It does not mutate the board.
func (p *Position) CalcSEE(origin, target int, attackerPiece chesstypes.Piece, victimPiece chesstypes.Piece, side chesstypes.Color) int {
	b := &p.Board

	var gain [32]int
	depth := 0
	gain[0] = seeValues[victimPiece]

	// The attacker already left origin for target, so origin must not be
	// counted as a defender of its own destination (a slider's line
	// through it must look x-rayed, and a leaper sitting there must not
	// be "rediscovered" attacking the square it just vacated).
	occ := b.Occupied() &^ (uint64(1) << origin)
	attackingColor := side.Opponent()
	lastAttackerValue := seeValues[attackerPiece]
	cutoff := false

	for {
		attackers := b.AttacksTo(target, attackingColor, occ) & occ
		if attackers == 0 {
			break
		}
		from, piece := leastValuableAttacker(b, attackers, attackingColor)
		if from < 0 {
			break
		}
		depth++
		gain[depth] = lastAttackerValue - gain[depth-1]
		if max(-gain[depth-1], gain[depth]) < 0 {
			// The side to move would not actually play this recapture;
			// stop extending the exchange here and let the back-
			// propagation below neutralize it (standard SEE cutoff).
			cutoff = true
			break
		}
		occ &^= uint64(1) << from
		lastAttackerValue = seeValues[piece]
		attackingColor = attackingColor.Opponent()
	}

	// Back-propagate the negamax of "stop here" vs. "continue the
	// exchange". The ply at which the loop above broke (if it broke on
	// the cutoff, rather than running out of attackers) represents a
	// continuation neither side would actually choose, so it is
	// discarded here rather than folded into gain[depth-1].
	if cutoff {
		depth--
	}
	for ; depth > 0; depth-- {
		gain[depth-1] = -max(-gain[depth-1], gain[depth])
	}
	return gain[0]
}

// leastValuableAttacker finds the cheapest piece of color among attackers
// (already filtered to occupied squares of that color).
func leastValuableAttacker(b *board.Board, attackers uint64, color chesstypes.Color) (int, chesstypes.Piece) {
	best := -1
	bestPiece := chesstypes.PieceNone
	bestValue := 1 << 30
	bb := attackers
	for bb != 0 {
		sq := bitscan(bb)
		bb &^= 1 << sq
		piece, pieceColor := b.PieceAt(sq)
		if piece == chesstypes.PieceNone || pieceColor != color {
			continue
		}
		if seeValues[piece] < bestValue {
			bestValue = seeValues[piece]
			best = sq
			bestPiece = piece
		}
	}
	return best, bestPiece
}
