package engine

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lynxchess/lynx/pkg/chess"
)

const (
	maxHeight     = 128
	valueInfinity = 30000
	valueMate     = 29000
	valueWin      = valueMate - maxHeight
)

// Engine is a small alpha-beta searcher behind the uci.Engine interface.
// Exported fields are bound to UCI options by the caller.
type Engine struct {
	Hash    int // transposition table size, megabytes
	Threads int // perft worker bound

	tt []ttEntry

	// per-search state; Search runs one search at a time
	ctx         context.Context
	pondering   *atomic.Bool
	progress    func(chess.SearchInfo)
	start       time.Time
	deadline    time.Time
	hasDeadline bool
	nodeLimit   int64
	nodes       int64
	repeats     map[uint64]int
}

func NewEngine() *Engine {
	return &Engine{
		Hash:    16,
		Threads: 1,
	}
}

// Prepare re-sizes the transposition table when the Hash option changed.
func (e *Engine) Prepare() {
	var size = ttSize(e.Hash)
	if len(e.tt) != size {
		e.tt = make([]ttEntry, size)
	}
}

// Clear wipes cross-game cached state.
func (e *Engine) Clear() {
	for i := range e.tt {
		e.tt[i] = ttEntry{}
	}
}

// Search honors the limits until done or canceled and reports the result.
// With Limits.Perft set it runs a perft count instead of a search.
func (e *Engine) Search(ctx context.Context, params chess.SearchParams) chess.SearchInfo {
	if len(e.tt) == 0 {
		e.Prepare()
	}
	if params.Limits.Perft > 0 {
		return e.perft(ctx, params)
	}
	return e.iterate(ctx, params)
}

// perft splits the root moves across errgroup workers bounded by the
// Threads option.
func (e *Engine) perft(ctx context.Context, params chess.SearchParams) chess.SearchInfo {
	var start = params.Limits.StartTime
	if start.IsZero() {
		start = time.Now()
	}
	var pos = params.Positions[len(params.Positions)-1]
	var depth = params.Limits.Perft

	var total int64
	var g, _ = errgroup.WithContext(ctx)
	var workers = e.Threads
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)
	for _, m := range pos.GenerateLegalMoves() {
		if depth <= 1 {
			atomic.AddInt64(&total, 1)
			continue
		}
		var child, _ = pos.ApplyMove(m)
		g.Go(func() error {
			atomic.AddInt64(&total, chess.Perft(&child, depth-1))
			return nil
		})
	}
	g.Wait()
	return chess.SearchInfo{
		Depth: depth,
		Nodes: atomic.LoadInt64(&total),
		Time:  time.Since(start),
	}
}

func ttSize(megabytes int) int {
	var target = megabytes * (1 << 20) / ttEntryBytes
	var size = 1
	for size*2 <= target {
		size *= 2
	}
	return size
}
