// Package driver implements iterative deepening with aspiration windows
// wrapped around the search package's fixed-depth PVS core, reporting one
// PV per completed depth over a channel so a caller can stream "info"
// lines without blocking on the final result.
//
// Grounded on herohde-morlock's engine.Engine (pkg/engine/engine.go:
// Options struct, mutex-guarded state, logw.Infof progress logging) and
// hailam-chessplay's Worker (internal/engine/worker.go: atomic stop flag,
// per-depth WorkerResult sent over a channel); chego has no search
// driver at all.
package driver

import (
	"context"
	"time"

	"github.com/seekerror/logw"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/treepeck/corechess/move"
	"github.com/treepeck/corechess/movegen"
	"github.com/treepeck/corechess/position"
	"github.com/treepeck/corechess/search"
	"github.com/treepeck/corechess/tt"
)

var reportPrinter = message.NewPrinter(language.English)

// Limits bounds an iterative-deepening run. A zero Depth means "search
// until MoveTime elapses or the context is cancelled"; a zero MoveTime
// means "search until Depth completes". VariationCount requests multi-PV
// reporting; zero or one means a single principal variation. SearchMoves
// restricts the root to a caller-supplied move list, defaulting to every
// legal move when empty.
type Limits struct {
	Depth          int
	MoveTime       time.Duration
	VariationCount int
	SearchMoves    []move.Move
}

// Variation is one root line: the score it settled on and its principal
// variation, first move first.
type Variation struct {
	Score int
	PV    []move.Move
}

// Report is sent once per completed depth: the best move found so far,
// its score, the node count accumulated across the whole run, and the
// principal variation reconstructed from the transposition table. When
// Limits.VariationCount > 1, Variations holds every requested line,
// sorted by descending score, with Variations[0] mirroring Score/PV.
type Report struct {
	Depth      int
	Score      int
	Nodes      uint64
	Time       time.Duration
	PV         []move.Move
	Variations []Variation
}

// String formats a Report the way a UCI "info" line would, with
// thousands separators on the node count so a human skimming the log
// doesn't have to count digits.
func (r Report) String() string {
	pv := ""
	for i, m := range r.PV {
		if i > 0 {
			pv += " "
		}
		pv += m.String()
	}
	return reportPrinter.Sprintf("depth %d score %d nodes %d time %v pv %s",
		r.Depth, r.Score, r.Nodes, r.Time, pv)
}

// Driver runs iterative deepening over a single position, reusing one
// search.Searcher (and its killer/history tables) across depths so move
// ordering keeps improving as the search deepens.
type Driver struct {
	Pos  *position.Position
	Eval position.Evaluator
	TT   *tt.Table

	stop chan struct{}
}

// New builds a Driver over pos, scoring with eval and probing table.
func New(pos *position.Position, eval position.Evaluator, table *tt.Table) *Driver {
	return &Driver{Pos: pos, Eval: eval, TT: table}
}

// Stop makes an in-flight Search abandon the depth it is searching and
// close its Report channel without reporting that depth; safe to call
// from another goroutine.
func (d *Driver) Stop() {
	if d.stop != nil {
		close(d.stop)
	}
}

// Search launches iterative deepening on a new goroutine and returns a
// channel of Reports, one per completed depth. The channel
// is closed when the run ends, whether by exhausting limits.Depth, by
// limits.MoveTime elapsing, by ctx being cancelled, or by Stop being
// called.
func (d *Driver) Search(ctx context.Context, limits Limits) <-chan Report {
	d.stop = make(chan struct{})
	out := make(chan Report)

	maxDepth := limits.Depth
	if maxDepth <= 0 || maxDepth > search.MaxPly {
		maxDepth = search.MaxPly
	}

	var deadline <-chan time.Time
	var timer *time.Timer
	if limits.MoveTime > 0 {
		timer = time.NewTimer(limits.MoveTime)
		deadline = timer.C
	}

	stopped := func() bool {
		select {
		case <-d.stop:
			return true
		case <-ctx.Done():
			return true
		default:
			if deadline != nil {
				select {
				case <-deadline:
					return true
				default:
				}
			}
			return false
		}
	}

	s := search.New(d.Pos, d.Eval, d.TT, stopped)

	go func() {
		defer close(out)
		if timer != nil {
			defer timer.Stop()
		}

		start := time.Now()
		score := 0
		variationCount := limits.VariationCount

		for depth := 1; depth <= maxDepth; depth++ {
			if stopped() {
				return
			}

			var report Report
			var halted bool

			if variationCount > 1 {
				report, halted = d.searchMultiPV(s, depth, variationCount, limits.SearchMoves)
			} else {
				var best move.Move
				best, score, halted = d.aspirate(s, depth, score)
				if !halted && best.IsNone() {
					// No legal move at the root: checkmate or stalemate.
					return
				}
				if !halted {
					pv := extractPV(d.Pos, d.TT, depth)
					report = Report{Score: score, PV: pv, Variations: []Variation{{Score: score, PV: pv}}}
				}
			}
			if halted {
				return
			}
			if len(report.Variations) == 0 {
				// No legal move at the root: checkmate or stalemate.
				return
			}

			report.Depth = depth
			report.Nodes = s.Nodes
			report.Time = time.Since(start)
			logw.Infof(ctx, "%v", report)

			select {
			case out <- report:
			case <-ctx.Done():
				return
			}

			if report.Score > search.Mate-search.MaxPly || report.Score < -search.Mate+search.MaxPly {
				// Found a forced mate; no need to search deeper.
				return
			}
		}
	}()

	return out
}

// searchMultiPV runs one multi-PV depth and assembles a Report whose
// Variations holds every requested line.
func (d *Driver) searchMultiPV(s *search.Searcher, depth, k int, searchMoves []move.Move) (Report, bool) {
	lines, halted := s.RootN(depth, k, -search.Infinity, search.Infinity, searchMoves)
	if halted {
		return Report{}, true
	}
	if len(lines) == 0 {
		return Report{}, false
	}

	variations := make([]Variation, len(lines))
	for i, line := range lines {
		variations[i] = Variation{Score: line.Score, PV: buildVariationPV(d.Pos, d.TT, line.Move, depth)}
	}
	return Report{Score: variations[0].Score, PV: variations[0].PV, Variations: variations}, false
}

// aspirationInitialDelta is the initial half-width around the predicted
// value; aspirationWideningCeiling is the half-width past which a failed
// side jumps straight to the full window instead of keeping pace with the
// 3/8 growth schedule.
const (
	aspirationInitialDelta    = 16
	aspirationWideningCeiling = 1500
	aspirationWideningCap     = 1_000_000
)

// widenDelta grows delta by 3/8 of itself, jumping straight to the cap
// once that growth would carry it past aspirationWideningCeiling.
func widenDelta(delta int) int {
	delta += 3 * delta / 8
	if delta > aspirationWideningCeiling {
		return aspirationWideningCap
	}
	return delta
}

// aspirate runs one depth with a window centered on prevScore (the value
// the previous iteration settled on), widening on whichever side fails
// until the result lands strictly inside the window. depth <= 1 has no
// predicted value to center on, so it searches the full width directly.
func (d *Driver) aspirate(s *search.Searcher, depth, prevScore int) (move.Move, int, bool) {
	if depth <= 1 {
		return s.Root(depth, -search.Infinity, search.Infinity)
	}

	deltaLow, deltaHigh := aspirationInitialDelta, aspirationInitialDelta
	alpha := max(prevScore-deltaLow, -search.Infinity)
	beta := min(prevScore+deltaHigh, search.Infinity)

	for {
		best, score, stopped := s.Root(depth, alpha, beta)
		if stopped {
			return best, score, true
		}
		if score <= alpha {
			deltaLow = widenDelta(deltaLow)
			alpha = max(prevScore-deltaLow, -search.Infinity)
			continue
		}
		if score >= beta {
			deltaHigh = widenDelta(deltaHigh)
			beta = min(prevScore+deltaHigh, search.Infinity)
			continue
		}
		return best, score, false
	}
}

// extractPV walks the transposition table from the current position
// forward, following each stored best-move digest as long as it matches
// a currently legal move, up to maxLen plies.
func extractPV(pos *position.Position, table *tt.Table, maxLen int) []move.Move {
	line := make([]move.Move, 0, maxLen)
	undone := 0
	defer func() {
		for ; undone > 0; undone-- {
			pos.UndoMove()
		}
	}()

	for len(line) < maxLen {
		probe := table.Probe(pos.Hash())
		if !probe.Found || probe.MoveDigest == 0 {
			break
		}

		m := movegen.TryMoveDigest(&pos.Board, probe.MoveDigest)
		if m.IsNone() {
			break
		}
		line = append(line, m)
		pos.DoMove(m)
		undone++
	}
	return line
}

// buildVariationPV plays first on pos, reconstructs the rest of the line
// from the table, then restores pos before returning.
func buildVariationPV(pos *position.Position, table *tt.Table, first move.Move, maxLen int) []move.Move {
	pos.DoMove(first)
	cont := extractPV(pos, table, maxLen-1)
	pos.UndoMove()

	line := make([]move.Move, 0, 1+len(cont))
	line = append(line, first)
	line = append(line, cont...)
	return line
}
