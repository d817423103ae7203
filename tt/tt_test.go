package tt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/treepeck/corechess/move"
)

func TestStoreThenProbeRoundTrip(t *testing.T) {
	table := New(1)
	hash := uint64(0xDEADBEEFCAFEF00D)
	m := move.New(8, 16, move.Normal, move.PromoQueen, 5, -1, 0, 8, 0)

	table.Store(hash, 125, BoundExact, 6, m, 100)
	p := table.Probe(hash)
	require.True(t, p.Found, "expected entry to be found")
	require.Equal(t, int16(125), p.Value)
	require.Equal(t, BoundExact, p.Bound)
	require.Equal(t, 6, p.Depth)
	require.Equal(t, m.Digest(), p.MoveDigest)
	require.Equal(t, int16(100), p.StaticEval)
}

func TestProbeMissReturnsNotFound(t *testing.T) {
	table := New(1)
	p := table.Probe(0x1234)
	require.False(t, p.Found, "expected miss on empty table")
}

func TestNegativeValueRoundTrips(t *testing.T) {
	table := New(1)
	hash := uint64(42)
	table.Store(hash, -500, BoundUpper, 3, move.None, -200)
	p := table.Probe(hash)
	require.True(t, p.Found)
	require.EqualValues(t, -500, p.Value)
	require.EqualValues(t, -200, p.StaticEval)
}

func TestClusterCollisionKeepsBothUntilFull(t *testing.T) {
	table := New(1)
	base := uint64(0)
	for i := range slotsPerCluster {
		table.Store(base+uint64(i)<<20, int16(i), BoundExact, i, move.None, 0)
	}
	for i := range slotsPerCluster {
		p := table.Probe(base + uint64(i)<<20)
		require.True(t, p.Found, "entry %d should still be present in a non-full cluster", i)
	}
}

func TestClearEmptiesTable(t *testing.T) {
	table := New(1)
	hash := uint64(77)
	table.Store(hash, 1, BoundExact, 1, move.None, 0)
	require.NoError(t, table.Clear(context.Background()))
	require.False(t, table.Probe(hash).Found, "expected table to be empty after Clear")
}

func TestResizeChangesCapacity(t *testing.T) {
	table := New(1)
	small := len(table.clusters)
	require.NoError(t, table.Resize(context.Background(), 4))
	require.Greater(t, len(table.clusters), small)
}
