// Command perftbench runs a perft node count against a FEN position and
// reports its wall-clock time and nodes-per-second, following the
// teacher's internal/perft.go and cli/cli.go CLI conventions (flag-based
// depth/verbose switches, optional CPU/heap profiling output).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/treepeck/corechess/board"
	"github.com/treepeck/corechess/geometry"
	"github.com/treepeck/corechess/internal/perft"
	"github.com/treepeck/corechess/position"
)

func main() {
	fen := flag.String("fen", board.StartingFEN, "FEN of the position to benchmark")
	depth := flag.Int("depth", 5, "perft depth")
	divide := flag.Bool("divide", false, "print a per-root-move node count breakdown")
	verbose := flag.Bool("verbose", false, "classify moves (captures, castles, checks, ...)")
	cpuprofile := flag.String("cpuprofile", "", "write a CPU profile to this file")
	memprofile := flag.String("memprofile", "", "write a heap profile to this file")
	flag.Parse()

	geometry.Init()

	pos, err := position.New(*fen)
	if err != nil {
		log.Fatalf("invalid FEN: %v", err)
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal(err)
		}
		defer pprof.StopCPUProfile()
	}

	start := time.Now()

	switch {
	case *divide:
		result := perft.Divide(pos, *depth)
		fmt.Print(perft.FormatDivide(result))

	case *verbose:
		r := perft.Verbose(pos, *depth)
		fmt.Printf("nodes: %d\ncaptures: %d\nen passant: %d\ncastles: %d\n"+
			"promotions: %d\nchecks: %d\ndouble checks: %d\ncheckmates: %d\n",
			r.Nodes, r.Captures, r.EPCaptures, r.Castles, r.Promotions,
			r.Checks, r.DoubleChecks, r.Checkmates)

	default:
		nodes := perft.Count(pos, *depth)
		elapsed := time.Since(start)
		nps := uint64(0)
		if elapsed > 0 {
			nps = uint64(float64(nodes) / elapsed.Seconds())
		}
		fmt.Printf("depth %d: %d nodes in %s (%d nps)\n", *depth, nodes, elapsed, nps)
	}

	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal(err)
		}
	}
}
