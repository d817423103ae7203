// Package search implements the principal-variation-search alpha-beta
// core, with transposition-table cutoffs, null-move pruning, and
// quiescence search at the horizon.
//
// Grounded on the negamax/PVS shape in
// _examples/other_examples/d8413515_algerbrex-Blunder---Pre-Release__core-search.go.go
// (mate-score encoding relative to remaining depth, TT probe before move
// generation, beta-cutoff bookkeeping) and the quiescence loop in
// 0e570885_AdamGriffiths31-ChessEngine__game-ai-search-quiescence.go.go;
// chego has no search of its own — chego only generates moves.
package search

import (
	"github.com/treepeck/corechess/chesstypes"
	"github.com/treepeck/corechess/move"
	"github.com/treepeck/corechess/movegen"
	"github.com/treepeck/corechess/position"
	"github.com/treepeck/corechess/tt"
)

// Mate and Infinity bound the score range; a mate score encodes how many
// plies away the mate is so shallower mates are always preferred.
const (
	Infinity = 30000
	Mate     = 20000
	MaxPly   = 128
)

// Limits groups the depth and alpha-beta window of a single search call.
// Root and RootN take these as separate arguments; no caller in this
// module builds a Limits.
type Limits struct {
	Depth int
	Alpha int
	Beta  int
}

// Searcher holds everything one search needs that should not be
// reallocated per node: the position being searched, its evaluator, the
// shared transposition table, and per-ply scratch state.
type Searcher struct {
	Pos       *position.Position
	Eval      position.Evaluator
	TT        *tt.Table
	Stopped   func() bool
	Nodes     uint64

	killers [MaxPly][2]move.Move
	history [64][64]int32
}

// New builds a Searcher over pos, scoring with eval and probing table.
// stopped is polled at the start of every pvs node and after each root
// move (quiescence nodes do not poll it); it should be cheap (an
// atomic load), since the search calls it millions of times per second.
func New(pos *position.Position, eval position.Evaluator, table *tt.Table, stopped func() bool) *Searcher {
	return &Searcher{Pos: pos, Eval: eval, TT: table, Stopped: stopped}
}

// Root runs a single fixed-depth PVS search and returns the best move, its
// score, and whether the search was stopped before completing (in which
// case the result is unreliable and the driver should discard it).
func (s *Searcher) Root(depth, alpha, beta int) (move.Move, int, bool) {
	s.TT.NewSearch()
	alphaOrig := alpha
	var l move.List
	movegen.GenerateAll(&s.Pos.Board, &l)
	orderMoves(s, &l, 0, move.None)

	best := move.None
	bestScore := -Infinity

	for {
		m, ok := l.PopBest(0)
		if !ok {
			break
		}

		s.Pos.DoMove(m)
		score := -s.pvs(depth-1, 1, -beta, -alpha)
		s.Pos.UndoMove()

		if s.Stopped() {
			return best, bestScore, true
		}

		if score > bestScore {
			bestScore = score
			best = m
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			break
		}
	}

	// Record the root itself so a caller can reconstruct the PV by
	// walking the table forward from the starting position; pvs only
	// stores the nodes below the root.
	bound := tt.BoundExact
	if bestScore <= alphaOrig {
		bound = tt.BoundUpper
	} else if bestScore >= beta {
		bound = tt.BoundLower
	}
	s.TT.Store(s.Pos.Hash(), int16(clampScore(bestScore)), bound, depth, best, 0)

	return best, bestScore, false
}

// RootLine is one entry of a multi-PV result: a root move and the score
// the search settled on for it.
type RootLine struct {
	Move  move.Move
	Score int
}

// RootN runs a multi-PV root search restricted to searchMoves (or every
// legal move when searchMoves is empty), returning the k best lines
// sorted by descending score. Each candidate move is searched with a
// window whose lower bound is the current k-th best value, so later
// moves only need to prove they beat the weakest surviving line: the
// window for candidate k is (-upper, -max(values[k-1], lower)).
func (s *Searcher) RootN(depth, k, lowerBound, upperBound int, searchMoves []move.Move) ([]RootLine, bool) {
	s.TT.NewSearch()
	var l move.List
	if len(searchMoves) > 0 {
		for _, m := range searchMoves {
			l.Push(m)
		}
	} else {
		movegen.GenerateAll(&s.Pos.Board, &l)
	}
	orderMoves(s, &l, 0, move.None)

	if l.Len() == 0 {
		return nil, false
	}
	if k > l.Len() {
		k = l.Len()
	}

	lines := make([]RootLine, 0, k)

	for {
		m, ok := l.PopBest(0)
		if !ok {
			break
		}

		alpha := lowerBound
		if len(lines) >= k {
			alpha = max(lines[k-1].Score, lowerBound)
		}

		s.Pos.DoMove(m)
		score := -s.pvs(depth-1, 1, -upperBound, -alpha)
		s.Pos.UndoMove()

		if s.Stopped() {
			return lines, true
		}

		if len(lines) < k || score > lines[k-1].Score {
			lines = insertRootLine(lines, RootLine{Move: m, Score: score}, k)
		}
	}

	if len(lines) > 0 {
		bestBound := tt.BoundExact
		if lines[0].Score >= upperBound {
			bestBound = tt.BoundLower
		}
		s.TT.Store(s.Pos.Hash(), int16(clampScore(lines[0].Score)), bestBound, depth, lines[0].Move, 0)
	}

	return lines, false
}

// insertRootLine inserts line into the descending-sorted lines, keeping
// at most limit entries (dropping the weakest when over capacity).
func insertRootLine(lines []RootLine, line RootLine, limit int) []RootLine {
	i := 0
	for i < len(lines) && lines[i].Score >= line.Score {
		i++
	}
	lines = append(lines, RootLine{})
	copy(lines[i+1:], lines[i:])
	lines[i] = line
	if len(lines) > limit {
		lines = lines[:limit]
	}
	return lines
}

// pvs is the recursive alpha-beta core. ply counts plies from the root,
// used for mate-distance scoring and killer-move slotting.
func (s *Searcher) pvs(depth, ply, alpha, beta int) int {
	if s.Stopped() {
		return 0
	}
	s.Nodes++

	alphaOrig := alpha
	hash := s.Pos.Hash()
	ttMove := move.None

	if probe := s.TT.Probe(hash); probe.Found {
		ttMove = move.Move(uint64(probe.MoveDigest))
		if probe.Depth >= depth {
			v := int(probe.Value)
			switch probe.Bound {
			case tt.BoundExact:
				return v
			case tt.BoundLower:
				if v > alpha {
					alpha = v
				}
			case tt.BoundUpper:
				if v < beta {
					beta = v
				}
			}
			if alpha >= beta {
				return v
			}
		}
	}

	inCheck := s.Pos.IsInCheck()

	if depth <= 0 {
		return s.quiescence(ply, alpha, beta)
	}

	// Null-move pruning: skip a turn and see if the opponent is still in
	// trouble even with a free move; if so, this node is unlikely to need
	// full-depth search. Disabled in check, in zugzwang-prone endgames,
	// and unless the static eval already looks at least as good as beta
	// (a null move can only make things worse for the side to move).
	if !inCheck && depth >= 3 && ply > 0 && !s.Eval.IsZugzwangy(&s.Pos.Board) && beta < Infinity-MaxPly &&
		s.Eval.Evaluate(&s.Pos.Board, s.Pos.Halfmove) >= beta {
		reduction := 2
		if depth > 6 {
			reduction = 3
		}
		epFile, priorHash := s.Pos.NullMove()
		score := -s.pvs(depth-1-reduction, ply+1, -beta, -beta+1)
		s.Pos.UndoNullMove(epFile, priorHash)
		if score >= beta {
			s.TT.Store(hash, int16(clampScore(beta)), tt.BoundLower, depth, move.None, 0)
			return beta
		}
	}

	var l move.List
	movegen.GenerateAll(&s.Pos.Board, &l)
	if l.Len() == 0 {
		if inCheck {
			return -Mate + ply
		}
		return 0
	}

	orderMoves(s, &l, ply, ttMove)

	best := move.None
	bestScore := -Infinity
	movesSearched := 0

	for {
		m, ok := l.PopBest(0)
		if !ok {
			break
		}
		s.Pos.DoMove(m)

		var score int
		if movesSearched == 0 {
			score = -s.pvs(depth-1, ply+1, -beta, -alpha)
		} else {
			// Null-window search first; only re-search at full width if it
			// beats alpha, the standard PVS speculation.
			score = -s.pvs(depth-1, ply+1, -alpha-1, -alpha)
			if score > alpha && score < beta {
				score = -s.pvs(depth-1, ply+1, -beta, -alpha)
			}
		}
		s.Pos.UndoMove()
		movesSearched++

		if score > bestScore {
			bestScore = score
			best = m
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			if !m.IsCapture() {
				s.recordKiller(ply, m)
				s.history[m.Origin()][m.Destination()] += int32(depth * depth)
			}
			break
		}
	}

	bound := tt.BoundExact
	if bestScore <= alphaOrig {
		bound = tt.BoundUpper
	} else if bestScore >= beta {
		bound = tt.BoundLower
	}
	s.TT.Store(hash, int16(clampScore(bestScore)), bound, depth, best, 0)

	return bestScore
}

// quiescence extends the search along forcing lines only (captures and
// queen promotions) so the static evaluator is never asked to judge a
// position where a capture is hanging.
func (s *Searcher) quiescence(ply, alpha, beta int) int {
	s.Nodes++
	standPat := s.Eval.Evaluate(&s.Pos.Board, s.Pos.Halfmove)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}
	if ply >= MaxPly {
		return alpha
	}

	var l move.List
	movegen.GenerateForcing(&s.Pos.Board, &l, movegen.Forcing{})
	orderMoves(s, &l, ply, move.None)

	for {
		m, ok := l.PopBest(0)
		if !ok {
			break
		}
		if m.IsCapture() {
			victim := m.CapturedPiece()
			if victim != chesstypes.PieceNone {
				see := s.Pos.CalcSEE(m.Origin(), m.Destination(), m.PlayedPiece(), victim, s.Pos.Board.SideToMove)
				if see < 0 {
					continue
				}
			}
		}
		s.Pos.DoMove(m)
		score := -s.quiescence(ply+1, -beta, -alpha)
		s.Pos.UndoMove()

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

func (s *Searcher) recordKiller(ply int, m move.Move) {
	if ply >= MaxPly {
		return
	}
	if s.killers[ply][0].Digest() != m.Digest() {
		s.killers[ply][1] = s.killers[ply][0]
		s.killers[ply][0] = m
	}
}

func clampScore(v int) int {
	if v > Infinity {
		return Infinity
	}
	if v < -Infinity {
		return -Infinity
	}
	return v
}

// badCapturePenalty demotes a SEE-losing capture below the killers and
// good captures, but keeps it above a plain quiet move: the spec's
// "good captures / bad captures" split realized as a single ordering
// pass instead of two separate pop phases.
const badCapturePenalty = 50_000

// orderMoves scores every move in l for the picker: the TT move first,
// then winning captures via SEE/MVV-LVA, killers, SEE-losing captures,
// then history-ordered quiets, in the usual phased move-ordering loop.
// It rewrites each move's score field in place via move.WithScore;
// PopBest then walks the list highest-first without a separate sort.
func orderMoves(s *Searcher, l *move.List, ply int, ttMove move.Move) {
	for i := 0; i < l.Len(); i++ {
		m := l.At(i)
		score := m.Score()
		switch {
		case !ttMove.IsNone() && m.Digest() == ttMove.Digest():
			score = 1_000_000
		case m.IsCapture():
			score += 100_000
			if victim := m.CapturedPiece(); victim != chesstypes.PieceNone {
				if s.Pos.CalcSEE(m.Origin(), m.Destination(), m.PlayedPiece(), victim, s.Pos.Board.SideToMove) < 0 {
					score -= badCapturePenalty
				}
			}
		case m.Type() == move.Promotion && m.Promo() == move.PromoQueen:
			// A queen promotion gets the same ordering score as a capture.
			score += 100_000
		case ply < MaxPly && m.Digest() == s.killers[ply][0].Digest():
			score = 90_000
		case ply < MaxPly && m.Digest() == s.killers[ply][1].Digest():
			score = 80_000
		default:
			score += s.history[m.Origin()][m.Destination()]
		}
		l.Set(i, m.WithScore(score))
	}
}
