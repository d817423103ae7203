// Package perft implements the debugging and benchmarking tool that
// exercises move-generator invariance: walking the legal move generator
// to a fixed depth and counting leaf nodes, optionally broken down by
// move category, to validate movegen against well-known reference
// counts.
//
// Grounded on chego's internal/perft.go (the same result struct —
// captures, en-passant captures, castles, promotions, checks, double
// checks, checkmates — and the same recursive perft/perftVerbose split
// between a fast counting pass and a slow instrumented one), ported from
// chego's copy-make Position to this module's position.Position
// make/unmake.
package perft

import (
	"fmt"

	"github.com/treepeck/corechess/move"
	"github.com/treepeck/corechess/movegen"
	"github.com/treepeck/corechess/position"
)

// Result accumulates the move-category counts a verbose perft run
// reports alongside the raw node count.
type Result struct {
	Nodes        uint64
	Captures     uint64
	EPCaptures   uint64
	Castles      uint64
	Promotions   uint64
	Checks       uint64
	DoubleChecks uint64
	Checkmates   uint64
}

// Count walks the legal-move tree rooted at pos to depth plies and
// returns the number of leaf nodes. depth 0 counts the root itself as a
// single leaf; this matches the convention perft tables are published
// under (https://www.chessprogramming.org/Perft_Results).
func Count(pos *position.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	var l move.List
	movegen.GenerateAll(&pos.Board, &l)
	if depth == 1 {
		return uint64(l.Len())
	}

	var nodes uint64
	for i := 0; i < l.Len(); i++ {
		m := l.At(i)
		pos.DoMove(m)
		nodes += Count(pos, depth-1)
		pos.UndoMove()
	}
	return nodes
}

// Divide runs one ply of move generation at the root, then counts the
// subtree under each root move separately — the standard technique for
// isolating which root move diverges from a reference perft tool.
func Divide(pos *position.Position, depth int) map[string]uint64 {
	out := make(map[string]uint64)
	if depth == 0 {
		return out
	}

	var l move.List
	movegen.GenerateAll(&pos.Board, &l)
	for i := 0; i < l.Len(); i++ {
		m := l.At(i)
		pos.DoMove(m)
		out[m.String()] = Count(pos, depth-1)
		pos.UndoMove()
	}
	return out
}

// Verbose runs a perft pass that also classifies every move played along
// the way, for debugging a movegen regression that a plain node-count
// mismatch doesn't localize.
func Verbose(pos *position.Position, depth int) Result {
	var r Result
	verbose(pos, depth, &r)
	r.Nodes = Count(pos, depth)
	return r
}

func verbose(pos *position.Position, depth int, r *Result) {
	if depth == 0 {
		return
	}

	var l move.List
	movegen.GenerateAll(&pos.Board, &l)

	for i := 0; i < l.Len(); i++ {
		m := l.At(i)
		if m.IsCapture() {
			r.Captures++
			if m.Type() == move.EnPassant {
				r.EPCaptures++
			}
		}
		switch m.Type() {
		case move.Castling:
			r.Castles++
		case move.Promotion:
			r.Promotions++
		}

		pos.DoMove(m)

		checkers := pos.Board.Checkers(pos.Board.SideToMove)
		switch {
		case checkers == 0:
		case checkers&(checkers-1) != 0:
			r.DoubleChecks++
			r.Checks++
		default:
			r.Checks++
		}
		if checkers != 0 {
			var reply move.List
			movegen.GenerateAll(&pos.Board, &reply)
			if reply.Len() == 0 {
				r.Checkmates++
			}
		}

		verbose(pos, depth-1, r)
		pos.UndoMove()
	}
}

// FormatDivide renders a Divide result the way reference perft tools
// print it: one "move: count" line per root move, then the total.
func FormatDivide(divide map[string]uint64) string {
	var total uint64
	lines := make([]string, 0, len(divide)+1)
	for uci, n := range divide {
		lines = append(lines, fmt.Sprintf("%s: %d", uci, n))
		total += n
	}
	lines = append(lines, fmt.Sprintf("\nMoves: %d\nNodes: %d", len(divide), total))

	out := ""
	for _, line := range lines {
		out += line + "\n"
	}
	return out
}
