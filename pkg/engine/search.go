package engine

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/lynxchess/lynx/pkg/chess"
)

// errSearchTimeout aborts the recursion when a limit fires. iterate
// recovers it and reports the best line of the last finished iteration.
var errSearchTimeout = errors.New("search timeout")

const defaultMaxDepth = 60

type pvLine struct {
	moves []chess.Move
}

func (pv *pvLine) clear() {
	pv.moves = pv.moves[:0]
}

func (pv *pvLine) set(m chess.Move, child *pvLine) {
	pv.moves = append(pv.moves[:0], m)
	pv.moves = append(pv.moves, child.moves...)
}

func (e *Engine) iterate(ctx context.Context, params chess.SearchParams) chess.SearchInfo {
	var limits = params.Limits
	e.ctx = ctx
	e.pondering = params.Pondering
	e.progress = params.Progress
	e.nodes = 0
	e.nodeLimit = limits.Nodes
	e.start = limits.StartTime
	if e.start.IsZero() {
		e.start = time.Now()
	}
	e.initDeadline(&params)

	// positions already played score as draws when reached again
	e.repeats = make(map[uint64]int, len(params.Positions))
	for i := range params.Positions[:len(params.Positions)-1] {
		e.repeats[params.Positions[i].Key]++
	}

	var pos = params.Positions[len(params.Positions)-1]
	var rootMoves []chess.Move
	if len(limits.SearchMoves) != 0 {
		for _, m := range limits.SearchMoves {
			if m != chess.MoveNone {
				rootMoves = append(rootMoves, m)
			}
		}
	} else {
		rootMoves = pos.GenerateLegalMoves()
	}
	if len(rootMoves) == 0 {
		return chess.SearchInfo{Time: time.Since(e.start)}
	}

	var maxDepth = limits.Depth
	if maxDepth <= 0 || maxDepth >= maxHeight {
		maxDepth = defaultMaxDepth
	}

	var result = chess.SearchInfo{MainLine: []chess.Move{rootMoves[0]}}
	func() {
		defer func() {
			if r := recover(); r != nil && r != errSearchTimeout {
				panic(r)
			}
		}()
		for depth := 1; depth <= maxDepth; depth++ {
			var score, line = e.searchRoot(&pos, rootMoves, depth)
			result = chess.SearchInfo{
				Score:    uciScore(score),
				Depth:    depth,
				Nodes:    e.nodes,
				Time:     time.Since(e.start),
				MainLine: line,
			}
			if e.progress != nil {
				e.progress(result)
			}
			moveToFront(rootMoves, line[0])
			if limits.Mate > 0 && result.Score.Mate > 0 &&
				result.Score.Mate <= limits.Mate {
				break
			}
			if !limits.Infinite && (score >= valueWin || score <= -valueWin) {
				break
			}
			if e.deadlineExceeded() {
				break
			}
		}
	}()
	result.Nodes = e.nodes
	result.Time = time.Since(e.start)
	return result
}

func (e *Engine) searchRoot(pos *chess.Position, rootMoves []chess.Move, depth int) (int, []chess.Move) {
	var alpha = -valueInfinity
	var line []chess.Move
	var child pvLine
	for _, m := range rootMoves {
		var next, ok = pos.ApplyMove(m)
		if !ok {
			continue
		}
		var score = -e.alphabeta(&next, -valueInfinity, -alpha, depth-1, 1, &child)
		if score > alpha {
			alpha = score
			line = append(line[:0], m)
			line = append(line, child.moves...)
		}
	}
	e.ttStore(pos.Key, line[0])
	return alpha, line
}

func (e *Engine) alphabeta(pos *chess.Position, alpha, beta, depth, height int, pv *pvLine) int {
	pv.clear()
	e.incNodes()
	if height >= maxHeight {
		return e.evaluate(pos)
	}
	if pos.Rule50 >= 100 || e.repeats[pos.Key] > 0 {
		return 0
	}
	var inCheck = pos.IsCheck()
	if depth <= 0 && !inCheck {
		return e.quiescence(pos, alpha, beta, height)
	}
	e.repeats[pos.Key]++
	defer func() { e.repeats[pos.Key]-- }()

	var buf [chess.MaxMoves]chess.Move
	var moves = pos.GeneratePseudoMoves(buf[:0])
	sortMoves(moves, e.ttRead(pos.Key))

	var child pvLine
	var moveCount int
	var best = -valueInfinity
	var bestMove = chess.MoveNone
	for _, m := range moves {
		var next, ok = pos.ApplyMove(m)
		if !ok {
			continue
		}
		moveCount++
		var score = -e.alphabeta(&next, -beta, -alpha, depth-1, height+1, &child)
		if score > best {
			best = score
			bestMove = m
			if score > alpha {
				alpha = score
				pv.set(m, &child)
				if alpha >= beta {
					break
				}
			}
		}
	}
	if moveCount == 0 {
		if inCheck {
			return -valueMate + height
		}
		return 0
	}
	if bestMove != chess.MoveNone {
		e.ttStore(pos.Key, bestMove)
	}
	return best
}

// quiescence resolves captures and promotions so evaluate is only
// called on quiet positions.
func (e *Engine) quiescence(pos *chess.Position, alpha, beta, height int) int {
	e.incNodes()
	var best = e.evaluate(pos)
	if best >= beta {
		return best
	}
	if best > alpha {
		alpha = best
	}
	if height >= maxHeight {
		return best
	}
	var buf [chess.MaxMoves]chess.Move
	var moves = pos.GeneratePseudoMoves(buf[:0])
	sortMoves(moves, chess.MoveNone)
	for _, m := range moves {
		if m.CapturedPiece() == chess.Empty && m.Promotion() == chess.Empty {
			continue
		}
		var next, ok = pos.ApplyMove(m)
		if !ok {
			continue
		}
		var score = -e.quiescence(&next, -beta, -alpha, height+1)
		if score > best {
			best = score
			if score > alpha {
				alpha = score
				if alpha >= beta {
					break
				}
			}
		}
	}
	return best
}

func (e *Engine) incNodes() {
	e.nodes++
	if e.nodes&1023 == 0 {
		e.checkLimits()
	}
}

func (e *Engine) checkLimits() {
	if e.ctx != nil && e.ctx.Err() != nil {
		panic(errSearchTimeout)
	}
	if e.nodeLimit > 0 && e.nodes >= e.nodeLimit {
		panic(errSearchTimeout)
	}
	if e.deadlineExceeded() {
		panic(errSearchTimeout)
	}
}

func (e *Engine) deadlineExceeded() bool {
	if !e.hasDeadline {
		return false
	}
	// the clock is frozen until ponderhit
	if e.pondering != nil && e.pondering.Load() {
		return false
	}
	return time.Now().After(e.deadline)
}

func (e *Engine) initDeadline(params *chess.SearchParams) {
	e.hasDeadline = false
	var limits = params.Limits
	if limits.Infinite {
		return
	}
	if limits.MoveTime > 0 {
		e.deadline = e.start.Add(time.Duration(limits.MoveTime) * time.Millisecond)
		e.hasDeadline = true
		return
	}
	var pos = &params.Positions[len(params.Positions)-1]
	var main, inc int
	if pos.WhiteMove {
		main, inc = limits.WhiteTime, limits.WhiteIncrement
	} else {
		main, inc = limits.BlackTime, limits.BlackIncrement
	}
	if main <= 0 {
		return
	}
	var movesToGo = limits.MovesToGo
	if movesToGo <= 0 {
		movesToGo = 35
	}
	var budget = main/movesToGo + inc
	if budget > main/2 {
		budget = main / 2
	}
	if budget < 1 {
		budget = 1
	}
	e.deadline = e.start.Add(time.Duration(budget) * time.Millisecond)
	e.hasDeadline = true
}

func sortMoves(ml []chess.Move, ttMove chess.Move) {
	sort.Slice(ml, func(i, j int) bool {
		return moveOrder(ml[i], ttMove) > moveOrder(ml[j], ttMove)
	})
}

// moveOrder ranks the table move first, then captures by MVV/LVA.
func moveOrder(m, ttMove chess.Move) int {
	if m == ttMove {
		return 1 << 20
	}
	var score int
	if captured := m.CapturedPiece(); captured != chess.Empty {
		score = 8*pieceValues[captured] - pieceValues[m.MovingPiece()]
	}
	if promotion := m.Promotion(); promotion != chess.Empty {
		score += pieceValues[promotion]
	}
	return score
}

func moveToFront(ml []chess.Move, m chess.Move) {
	for i := range ml {
		if ml[i] == m {
			copy(ml[1:i+1], ml[:i])
			ml[0] = m
			return
		}
	}
}

func uciScore(v int) chess.UciScore {
	switch {
	case v >= valueWin:
		return chess.UciScore{Mate: (valueMate - v + 1) / 2}
	case v <= -valueWin:
		return chess.UciScore{Mate: -(valueMate + v) / 2}
	default:
		return chess.UciScore{Centipawns: v}
	}
}
