// Package tt implements a fixed-size, lock-less transposition table.
// Entries live in four-slot clusters; each slot
// stores the full 64-bit Zobrist key XOR-folded against the stored payload
// (so a torn read is self-detecting without a mutex) and that payload: a
// value, a bound type, a depth, a best-move digest, a static eval, and a
// search generation used to age out stale entries.
//
// Grounded on the cluster/generation scheme in
// _examples/other_examples/22c7bdea_AdamGriffiths31-ChessEngine__game-ai-search-transposition.go.go
// (packed depth/type/age byte, power-of-two sizing) and
// herohde-morlock's transposition table (manifests/herohde-morlock/go.mod
// pulls in a fixed-capacity hash map for the same purpose); chego has no
// transposition table at all. golang.org/x/sync/semaphore serializes
// the rare Resize/Clear lifecycle calls against each other; Probe and
// Store do not acquire it.
package tt

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/treepeck/corechess/move"
)

// Bound classifies how a stored score relates to the true minimax value.
type Bound uint8

const (
	BoundNone Bound = iota
	BoundExact
	BoundLower
	BoundUpper
)

const slotsPerCluster = 4

// entry is one 16-byte slot: key (8 bytes, XOR-folded with the payload)
// plus the 8-byte payload (value, bound, depth, move digest, static eval,
// generation).
type entry struct {
	key     uint64
	payload uint64
}

// payload bit layout, low to high: value(16) bound(2) depth(8)
// moveDigest(16) staticEval(16) generation(6).
const (
	shiftValue      = 0
	shiftBound      = 16
	shiftDepth      = 18
	shiftMoveDigest = 26
	shiftStaticEval = 42
	shiftGeneration = 58

	maskValue      = 0xFFFF
	maskBound      = 0x3
	maskDepth      = 0xFF
	maskMoveDigest = 0xFFFF
	maskStaticEval = 0xFFFF
	maskGeneration = 0x3F
)

func packPayload(value int16, bound Bound, depth int, moveDigest uint16, staticEval int16, generation uint8) uint64 {
	return uint64(uint16(value))<<shiftValue |
		uint64(bound)<<shiftBound |
		uint64(depth&maskDepth)<<shiftDepth |
		uint64(moveDigest)<<shiftMoveDigest |
		uint64(uint16(staticEval))<<shiftStaticEval |
		uint64(generation&maskGeneration)<<shiftGeneration
}

// Probe is a decoded table lookup result.
type Probe struct {
	Found      bool
	Value      int16
	Bound      Bound
	Depth      int
	MoveDigest uint16
	StaticEval int16
}

// Table is the transposition table. The zero value is not usable; build
// one with New.
type Table struct {
	clusters []entryCluster
	mask     uint64
	gen      atomic.Uint32
	lifecycle *semaphore.Weighted
}

type entryCluster [slotsPerCluster]entry

// New allocates a table sized to the nearest power-of-two cluster count
// that fits within sizeMB megabytes.
func New(sizeMB int) *Table {
	t := &Table{lifecycle: semaphore.NewWeighted(1)}
	t.resizeLocked(sizeMB)
	return t
}

const clusterSize = slotsPerCluster * 16 // bytes

func (t *Table) resizeLocked(sizeMB int) {
	bytes := uint64(sizeMB) * 1024 * 1024
	numClusters := bytes / clusterSize
	size := uint64(1)
	for size*2 <= numClusters && size < 1<<30 {
		size *= 2
	}
	if size == 0 {
		size = 1
	}
	t.clusters = make([]entryCluster, size)
	t.mask = size - 1
}

// Resize reallocates the table to sizeMB megabytes, discarding all
// entries. It serializes with Clear via the lifecycle semaphore; Probe
// and Store do not take that semaphore.
func (t *Table) Resize(ctx context.Context, sizeMB int) error {
	if err := t.lifecycle.Acquire(ctx, 1); err != nil {
		return err
	}
	defer t.lifecycle.Release(1)
	t.resizeLocked(sizeMB)
	return nil
}

// Clear empties every slot without reallocating, for a fresh game.
func (t *Table) Clear(ctx context.Context) error {
	if err := t.lifecycle.Acquire(ctx, 1); err != nil {
		return err
	}
	defer t.lifecycle.Release(1)
	for i := range t.clusters {
		t.clusters[i] = entryCluster{}
	}
	t.gen.Store(0)
	return nil
}

// newSearchSampleClusters is how many clusters NewSearch inspects to
// detect a generation wraparound colliding with still-current entries.
const newSearchSampleClusters = 128

// NewSearch advances the generation counter, wrapping at the 6-bit field
// width. Call once per root search: entries written under an older
// generation are preferred for replacement.
//
// If the 6-bit generation counter has wrapped all the way back around and
// collided with entries this same table instance wrote under what is now
// (numerically) the current generation, those stale entries would read as
// fresh and never get replaced. Guard against that by sampling the first
// newSearchSampleClusters clusters and advancing again until at least one
// record there is not marked with the current generation.
func (t *Table) NewSearch() {
	t.gen.Add(1)
	for t.allSampledClustersCurrent() {
		t.gen.Add(1)
	}
}

func (t *Table) allSampledClustersCurrent() bool {
	generation := uint8(t.gen.Load() & maskGeneration)
	n := len(t.clusters)
	if n > newSearchSampleClusters {
		n = newSearchSampleClusters
	}
	for i := 0; i < n; i++ {
		cluster := &t.clusters[i]
		for s := range cluster {
			entryGen := uint8(cluster[s].payload >> shiftGeneration & maskGeneration)
			if entryGen != generation {
				return false
			}
		}
	}
	return true
}

func (t *Table) clusterIndex(hash uint64) uint64 { return hash & t.mask }

// Probe looks up hash and returns the decoded entry if the stored key
// matches. Safe to call concurrently with Store (never with Resize/Clear,
// which the caller must serialize via the lifecycle semaphore — the
// search goroutine holds no lock across a single probe/store pair, so a
// resize mid-iteration is only unsafe if issued from another goroutine
// without going through Resize/Clear).
func (t *Table) Probe(hash uint64) Probe {
	cluster := &t.clusters[t.clusterIndex(hash)]
	for i := range cluster {
		e := cluster[i]
		if e.key^e.payload == hash {
			generation := uint8(t.gen.Load() & maskGeneration)
			entryGen := uint8(e.payload >> shiftGeneration & maskGeneration)
			if entryGen == generation {
				return decode(e.payload)
			}
			// Refresh the record's generation on a hit so a position that
			// keeps getting re-probed across iterative-deepening steps
			// doesn't age out from under an ongoing search.
			payload := e.payload&^(uint64(maskGeneration)<<shiftGeneration) | uint64(generation)<<shiftGeneration
			cluster[i] = entry{key: hash ^ payload, payload: payload}
			return decode(payload)
		}
	}
	return Probe{}
}

func decode(payload uint64) Probe {
	return Probe{
		Found:      true,
		Value:      int16(payload >> shiftValue),
		Bound:      Bound(payload >> shiftBound & maskBound),
		Depth:      int(payload >> shiftDepth & maskDepth),
		MoveDigest: uint16(payload >> shiftMoveDigest & maskMoveDigest),
		StaticEval: int16(payload >> shiftStaticEval),
	}
}

// Store writes an entry for hash, replacing the shallowest or oldest slot
// in the cluster. best is move.None when no move is known (e.g. an
// all-node fail-low).
func (t *Table) Store(hash uint64, value int16, bound Bound, depth int, best move.Move, staticEval int16) {
	cluster := &t.clusters[t.clusterIndex(hash)]
	generation := uint8(t.gen.Load() & maskGeneration)

	moveDigest := uint16(0)
	if !best.IsNone() {
		moveDigest = best.Digest()
	}

	replace := 0
	replaceScore := -1 << 30
	for i := range cluster {
		e := cluster[i]
		if e.key == 0 && e.payload == 0 {
			// An untouched slot always wins outright.
			replace = i
			break
		}
		if e.key^e.payload == hash {
			// Same position: keep the previously stored best move when the
			// incoming store carries none, so a shallower re-probe never
			// erases a hash move a deeper search already found.
			if moveDigest == 0 {
				moveDigest = decode(e.payload).MoveDigest
			}
			replace = i
			break
		}
		p := decode(e.payload)
		entryGen := int((e.payload >> shiftGeneration) & maskGeneration)
		// Prefer replacing older, shallower entries: a bigger generation
		// gap and a shallower depth both push the score up, since the
		// slot with the highest score here is the one overwritten.
		score := (int(generation) - entryGen) * 64
		score -= p.Depth
		if score > replaceScore {
			replaceScore = score
			replace = i
		}
	}

	payload := packPayload(value, bound, depth, moveDigest, staticEval, generation)
	cluster[replace] = entry{key: hash ^ payload, payload: payload}
}
