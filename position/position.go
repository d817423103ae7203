// Package position implements Position: a board.Board wrapped with an
// incrementally maintained Zobrist hash and a make/unmake move stack,
// plus static exchange evaluation and the evaluator capability contract
// the search core drives.
//
// Grounded on chego's position.go (MakeMove's piece-placement
// bookkeeping) and zobrist.go (incremental hashing), with unmake added —
// chego instead keeps a full FEN string per ply in game.Game and
// re-parses it to undo (game/game.go's CompletedMove.FenString); true
// incremental undo/redo is used here instead.
package position

import (
	"github.com/treepeck/corechess/board"
	"github.com/treepeck/corechess/chesstypes"
	"github.com/treepeck/corechess/move"
)

// undoRecord carries everything DoMove destroys that UndoMove needs back:
// the board state is mutated in place, so only the non-reconstructible
// fields are saved.
type undoRecord struct {
	move          move.Move
	priorHash     uint64
	priorHalfmove int
}

// Position layers move history and a running Zobrist hash on top of a
// board.Board.
type Position struct {
	Board     board.Board
	Halfmove  int
	Fullmove  int
	hash      uint64
	stack     []undoRecord
}

// New builds a Position from a FEN string.
func New(fen string) (*Position, error) {
	initZobrist()
	b, half, full, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	p := &Position{
		Board:    b,
		Halfmove: half,
		Fullmove: full,
		stack:    make([]undoRecord, 0, 64),
	}
	p.hash = p.computeHash()
	return p, nil
}

func (p *Position) computeHash() uint64 {
	var h uint64
	for c := range chesstypes.ColorCount {
		for pc := chesstypes.King; pc < chesstypes.PieceCount; pc++ {
			bb := p.Board.Pieces(pc, chesstypes.Color(c))
			for bb != 0 {
				sq := bitscan(bb)
				bb &^= 1 << sq
				h ^= pieceKeys[c][pc][sq]
			}
		}
	}
	if p.Board.EPFile != chesstypes.NoEnPassantFile {
		h ^= epKeys[p.Board.EPFile]
	}
	h ^= castlingKeys[p.Board.Castling]
	if p.Board.SideToMove == chesstypes.Black {
		h ^= sideKey
	}
	return h
}

// Hash returns the position's current Zobrist key.
func (p *Position) Hash() uint64 { return p.hash }

func bitscan(bb uint64) int {
	for i := range 64 {
		if bb&(1<<i) != 0 {
			return i
		}
	}
	return -1
}

// DoMove applies m, updating the board, the move counters, and the hash
// incrementally, and pushes an undo record onto the internal stack.
func (p *Position) DoMove(m move.Move) {
	b := &p.Board
	side := b.SideToMove
	opp := side.Opponent()
	from, to := m.Origin(), m.Destination()
	played := m.PlayedPiece()

	rec := undoRecord{move: m, priorHash: p.hash, priorHalfmove: p.Halfmove}

	h := p.hash
	h ^= pieceKeys[side][played][from]
	h ^= castlingKeys[b.Castling]
	if b.EPFile != chesstypes.NoEnPassantFile {
		h ^= epKeys[b.EPFile]
	}

	b.RemovePiece(played, side, from)

	p.Halfmove++
	if m.IsCapture() {
		if m.Type() == move.EnPassant {
			capSq := to - 8
			if side == chesstypes.Black {
				capSq = to + 8
			}
			b.RemovePiece(chesstypes.Pawn, opp, capSq)
			h ^= pieceKeys[opp][chesstypes.Pawn][capSq]
		} else {
			captured, _ := b.PieceAt(to)
			b.RemovePiece(captured, opp, to)
			h ^= pieceKeys[opp][captured][to]
		}
		p.Halfmove = 0
	}

	switch m.Type() {
	case move.Castling:
		b.PlacePiece(played, side, to)
		h ^= pieceKeys[side][played][to]
		rookFrom, rookTo := castlingRookSquares(to)
		b.RemovePiece(chesstypes.Rook, side, rookFrom)
		b.PlacePiece(chesstypes.Rook, side, rookTo)
		h ^= pieceKeys[side][chesstypes.Rook][rookFrom]
		h ^= pieceKeys[side][chesstypes.Rook][rookTo]
	case move.Promotion:
		promoted := m.PromotedPiece()
		b.PlacePiece(promoted, side, to)
		h ^= pieceKeys[side][promoted][to]
	default:
		b.PlacePiece(played, side, to)
		h ^= pieceKeys[side][played][to]
	}

	if played == chesstypes.Pawn {
		p.Halfmove = 0
	}

	b.EPFile = chesstypes.NoEnPassantFile
	if played == chesstypes.Pawn && abs(to-from) == 16 {
		b.EPFile = chesstypes.File(to)
	}
	if b.EPFile != chesstypes.NoEnPassantFile {
		h ^= epKeys[b.EPFile]
	}

	switch played {
	case chesstypes.Rook:
		clearCastlingForRookSquare(b, from)
	case chesstypes.King:
		if side == chesstypes.White {
			b.Castling &^= chesstypes.WhiteKingside | chesstypes.WhiteQueenside
		} else {
			b.Castling &^= chesstypes.BlackKingside | chesstypes.BlackQueenside
		}
	}
	// A rook captured on its home square also forfeits that right.
	clearCastlingForRookSquare(b, to)
	h ^= castlingKeys[b.Castling]

	if side == chesstypes.Black {
		p.Fullmove++
	}

	b.SideToMove = opp
	h ^= sideKey
	p.hash = h

	p.stack = append(p.stack, rec)
}

func castlingRookSquares(kingTo int) (from, to int) {
	switch kingTo {
	case chesstypes.G1:
		return chesstypes.H1, chesstypes.F1
	case chesstypes.C1:
		return chesstypes.A1, chesstypes.D1
	case chesstypes.G8:
		return chesstypes.H8, chesstypes.F8
	default:
		return chesstypes.A8, chesstypes.D8
	}
}

func clearCastlingForRookSquare(b *board.Board, sq int) {
	switch sq {
	case chesstypes.A1:
		b.Castling &^= chesstypes.WhiteQueenside
	case chesstypes.H1:
		b.Castling &^= chesstypes.WhiteKingside
	case chesstypes.A8:
		b.Castling &^= chesstypes.BlackQueenside
	case chesstypes.H8:
		b.Castling &^= chesstypes.BlackKingside
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// UndoMove reverses the most recent DoMove. It panics if called with no
// prior DoMove, since that always indicates a driver bug, not bad input.
func (p *Position) UndoMove() {
	n := len(p.stack)
	rec := p.stack[n-1]
	p.stack = p.stack[:n-1]

	m := rec.move
	b := &p.Board
	opp := b.SideToMove
	side := opp.Opponent()
	from, to := m.Origin(), m.Destination()
	played := m.PlayedPiece()

	b.SideToMove = side
	if side == chesstypes.Black {
		p.Fullmove--
	}

	switch m.Type() {
	case move.Castling:
		b.RemovePiece(played, side, to)
		rookFrom, rookTo := castlingRookSquares(to)
		b.RemovePiece(chesstypes.Rook, side, rookTo)
		b.PlacePiece(chesstypes.Rook, side, rookFrom)
	case move.Promotion:
		b.RemovePiece(m.PromotedPiece(), side, to)
	default:
		b.RemovePiece(played, side, to)
	}

	if m.IsCapture() {
		if m.Type() == move.EnPassant {
			capSq := to - 8
			if side == chesstypes.Black {
				capSq = to + 8
			}
			b.PlacePiece(chesstypes.Pawn, opp, capSq)
		} else {
			b.PlacePiece(m.CapturedPiece(), opp, to)
		}
	}

	b.PlacePiece(played, side, from)

	b.Castling = m.PriorCastlingRights()
	b.EPFile = m.PriorEPFile()
	p.Halfmove = rec.priorHalfmove
	p.hash = rec.priorHash
}

// NullMove flips the side to move without touching the board, used by the
// search core's null-move pruning. The caller must restore with
// UndoNullMove.
func (p *Position) NullMove() (priorEPFile int, priorHash uint64) {
	priorEPFile = p.Board.EPFile
	priorHash = p.hash
	if priorEPFile != chesstypes.NoEnPassantFile {
		p.hash ^= epKeys[priorEPFile]
	}
	p.Board.EPFile = chesstypes.NoEnPassantFile
	p.Board.SideToMove = p.Board.SideToMove.Opponent()
	p.hash ^= sideKey
	return priorEPFile, priorHash
}

// UndoNullMove reverses NullMove.
func (p *Position) UndoNullMove(priorEPFile int, priorHash uint64) {
	p.Board.SideToMove = p.Board.SideToMove.Opponent()
	p.Board.EPFile = priorEPFile
	p.hash = priorHash
}

// IsInCheck reports whether the side to move's king is currently attacked.
func (p *Position) IsInCheck() bool {
	return p.Board.Checkers(p.Board.SideToMove) != 0
}
