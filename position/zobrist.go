// zobrist.go implements the incremental Zobrist hashing scheme, grounded
// directly on chego's zobrist.go. Keys are process-wide and
// generated once; every Position shares the same table.
package position

import (
	"math/rand/v2"
	"sync"

	"github.com/treepeck/corechess/chesstypes"
)

var (
	pieceKeys    [chesstypes.ColorCount][chesstypes.PieceCount][64]uint64
	epKeys       [8]uint64
	castlingKeys [16]uint64
	sideKey      uint64

	zobristOnce sync.Once
)

// initZobrist seeds every key with a process-wide PRNG, exactly once.
func initZobrist() {
	zobristOnce.Do(func() {
		for c := range chesstypes.ColorCount {
			for p := chesstypes.King; p < chesstypes.PieceCount; p++ {
				for sq := range 64 {
					pieceKeys[c][p][sq] = rand.Uint64()
				}
			}
		}
		for f := range 8 {
			epKeys[f] = rand.Uint64()
		}
		for i := range 16 {
			castlingKeys[i] = rand.Uint64()
		}
		sideKey = rand.Uint64()
	})
}
