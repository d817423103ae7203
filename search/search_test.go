package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/treepeck/corechess/board"
	"github.com/treepeck/corechess/geometry"
	"github.com/treepeck/corechess/position"
	"github.com/treepeck/corechess/tt"
)

func TestMain(m *testing.M) {
	geometry.Init()
	m.Run()
}

func newSearcher(t *testing.T, fen string) *Searcher {
	t.Helper()
	pos, err := position.New(fen)
	require.NoError(t, err)
	table := tt.New(1)
	return New(pos, position.MaterialEvaluator{}, table, func() bool { return false })
}

func TestFindsBackRankMateInOne(t *testing.T) {
	// Ra1-a8 is mate: the black king on g8 is boxed in by its own pawns.
	s := newSearcher(t, "6k1/5ppp/8/8/8/8/8/R6K w - - 0 1")
	best, score, stopped := s.Root(3, -Infinity, Infinity)
	require.False(t, stopped, "search reported stopped")
	require.False(t, best.IsNone(), "expected a move")
	require.EqualValues(t, 56, best.Destination(), "expected Ra8#")
	require.GreaterOrEqual(t, score, Mate-10, "expected a near-immediate mate score")
}

func TestPicksWinningCaptureOverQuietMove(t *testing.T) {
	// Black queen on d8 hangs to the white rook on d1; nothing defends it.
	s := newSearcher(t, "3q3k/8/8/8/8/8/8/3R3K w - - 0 1")
	best, _, stopped := s.Root(3, -Infinity, Infinity)
	require.False(t, stopped, "search reported stopped")
	require.EqualValues(t, 59, best.Destination(), "expected Rxd8")
}

func TestRootNReturnsKDistinctSortedLines(t *testing.T) {
	s := newSearcher(t, board.StartingFEN)
	lines, stopped := s.RootN(3, 4, -Infinity, Infinity, nil)
	require.False(t, stopped)
	require.Len(t, lines, 4)

	seen := map[uint16]bool{}
	for i, l := range lines {
		require.False(t, seen[l.Move.Digest()], "move reported twice")
		seen[l.Move.Digest()] = true
		if i > 0 {
			require.GreaterOrEqual(t, lines[i-1].Score, l.Score)
		}
	}
}

func TestStalemateHasNoBestMove(t *testing.T) {
	// Classic queen-and-king stalemate: the black king on h8 has no legal
	// move and is not in check.
	s := newSearcher(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	best, score, stopped := s.Root(2, -Infinity, Infinity)
	require.False(t, stopped, "search reported stopped")
	require.True(t, best.IsNone(), "expected no legal move in stalemate, got one scored %d", score)
}
