// Package executor implements the concurrency and resource model forming
// the thread boundary between a protocol front-end (UCI, a GUI, a test
// harness) and the search driver.
// Commands are submitted on a buffered channel and processed by a single
// background goroutine, so "set position" and "go" can never race each
// other even if the caller fires them back to back; reports are published
// under a mutex and a caller can block on WaitReport with a timeout
// instead of polling.
//
// Grounded on the command/result channel shape in
// _examples/other_examples/3a1f7e37_hailam-chessplay__internal-engine-worker.go.go
// (WorkerResult sent over resultCh, stopFlag shared via atomic.Bool) and
// the single-session dispatch in
// _examples/other_examples/e52b7afb_blunext-chess__engine-session.go.go
// (one Session serializes Search/SearchWithTime calls against shared
// killers/history/TT state); chego has no concurrent search
// boundary of its own. The timed WaitReport is a standard sync.Cond +
// time.AfterFunc idiom; no retrieved source shows a timed condition wait,
// and the standard library covers it directly.
package executor

import (
	"context"
	"sync"
	"time"

	"github.com/treepeck/corechess/driver"
	"github.com/treepeck/corechess/position"
	"github.com/treepeck/corechess/tt"
)

type commandKind int

const (
	cmdSetPosition commandKind = iota
	cmdGo
	cmdStop
	cmdNewGame
)

type command struct {
	kind   commandKind
	fen    string
	limits driver.Limits
}

// Executor serializes position/search commands for one engine instance
// behind a single goroutine, and fans iterative-deepening reports back out
// to whatever is waiting on them.
type Executor struct {
	eval  position.Evaluator
	table *tt.Table

	cmds chan command
	quit chan struct{}

	mu        sync.Mutex
	cond      *sync.Cond
	pos       *position.Position
	active    *driver.Driver
	cancel    context.CancelFunc
	busy      bool
	latest    driver.Report
	hasReport bool
}

// New starts an Executor backed by a transposition table of hashMB
// megabytes, scoring positions with eval. Call Close when done to stop
// the background goroutine.
func New(eval position.Evaluator, hashMB int) *Executor {
	e := &Executor{
		eval:  eval,
		table: tt.New(hashMB),
		cmds:  make(chan command, 16),
		quit:  make(chan struct{}),
	}
	e.cond = sync.NewCond(&e.mu)
	go e.run()
	return e
}

// SetPosition queues a new root position, identified by fen. A malformed
// FEN is silently ignored by the background goroutine; callers that need
// to surface a parse error should validate with position.New themselves
// before calling SetPosition.
func (e *Executor) SetPosition(fen string) {
	e.cmds <- command{kind: cmdSetPosition, fen: fen}
}

// Go starts a search under limits over the current position, stopping
// any search already in flight first.
func (e *Executor) Go(limits driver.Limits) {
	e.cmds <- command{kind: cmdGo, limits: limits}
}

// Stop halts the in-flight search, if any; the depth it was searching is
// abandoned without a report.
func (e *Executor) Stop() {
	e.cmds <- command{kind: cmdStop}
}

// NewGame clears the transposition table for a fresh game.
func (e *Executor) NewGame() {
	e.cmds <- command{kind: cmdNewGame}
}

// Close stops the background goroutine and any in-flight search.
func (e *Executor) Close() {
	close(e.quit)
}

// IsBusy reports whether a search is currently running.
func (e *Executor) IsBusy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.busy
}

// WaitReport blocks until a new iterative-deepening report arrives or
// timeout elapses, returning (report, true) or (zero value, false).
func (e *Executor) WaitReport(timeout time.Duration) (driver.Report, bool) {
	timer := time.AfterFunc(timeout, func() {
		e.mu.Lock()
		e.cond.Broadcast()
		e.mu.Unlock()
	})
	defer timer.Stop()

	deadline := time.Now().Add(timeout)
	e.mu.Lock()
	defer e.mu.Unlock()
	for !e.hasReport {
		if !time.Now().Before(deadline) {
			return driver.Report{}, false
		}
		e.cond.Wait()
	}
	r := e.latest
	e.hasReport = false
	return r, true
}

func (e *Executor) run() {
	for {
		select {
		case <-e.quit:
			e.mu.Lock()
			if e.cancel != nil {
				e.cancel()
			}
			e.mu.Unlock()
			return
		case cmd := <-e.cmds:
			e.dispatch(cmd)
		}
	}
}

func (e *Executor) dispatch(cmd command) {
	switch cmd.kind {
	case cmdSetPosition:
		pos, err := position.New(cmd.fen)
		if err != nil {
			return
		}
		e.mu.Lock()
		e.pos = pos
		e.mu.Unlock()

	case cmdNewGame:
		_ = e.table.Clear(context.Background())

	case cmdStop:
		e.mu.Lock()
		if e.active != nil {
			e.active.Stop()
		}
		e.mu.Unlock()

	case cmdGo:
		e.startSearch(cmd.limits)
	}
}

func (e *Executor) startSearch(limits driver.Limits) {
	e.mu.Lock()
	if e.pos == nil {
		e.mu.Unlock()
		return
	}
	if e.active != nil {
		e.active.Stop()
	}
	pos := e.pos
	ctx, cancel := context.WithCancel(context.Background())
	d := driver.New(pos, e.eval, e.table)
	e.active = d
	e.cancel = cancel
	e.busy = true
	e.mu.Unlock()

	reports := d.Search(ctx, limits)
	go func() {
		for r := range reports {
			e.mu.Lock()
			e.latest = r
			e.hasReport = true
			e.cond.Broadcast()
			e.mu.Unlock()
		}
		e.mu.Lock()
		e.busy = false
		e.active = nil
		cancel()
		e.cond.Broadcast()
		e.mu.Unlock()
	}()
}
