package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/lynxchess/lynx/pkg/chess"
)

// Engine is the search service the protocol drives. Search blocks until
// the search ends; the protocol invokes it on its own goroutine and
// cancels it through the context.
type Engine interface {
	Prepare()
	Clear()
	Search(ctx context.Context, params chess.SearchParams) chess.SearchInfo
	EvalTrace(p *chess.Position) string
}

// history is an arena of immutable snapshots indexed by ply; the active
// position is the last element. Setting a new base position discards the
// whole arena, never a suffix of it.
type history struct {
	states []chess.Position
}

func (h *history) Reset(p chess.Position) {
	h.states = []chess.Position{p}
}

func (h *history) Append(p chess.Position) {
	h.states = append(h.states, p)
}

func (h *history) Current() *chess.Position {
	return &h.states[len(h.states)-1]
}

func (h *history) Len() int {
	return len(h.states)
}

func (h *history) Snapshot() []chess.Position {
	return append([]chess.Position(nil), h.states...)
}

type Protocol struct {
	name    string
	author  string
	version string
	engine  Engine
	options *Options

	input io.Reader
	out   io.Writer
	diag  io.Writer

	hist      history
	pondering atomic.Bool
	cancel    context.CancelFunc
	done      chan struct{}
	last      chess.SearchInfo // valid once done is closed
}

func New(name, author, version string, engine Engine, options *Options) *Protocol {
	var initPosition, err = chess.NewPositionFromFEN(chess.InitialPositionFen, false)
	if err != nil {
		panic(err)
	}
	var uci = &Protocol{
		name:    name,
		author:  author,
		version: version,
		engine:  engine,
		options: options,
		input:   os.Stdin,
		out:     os.Stdout,
		diag:    os.Stderr,
	}
	uci.hist.Reset(initPosition)
	// a pre-closed handle means "no search outstanding"
	var done = make(chan struct{})
	close(done)
	uci.done = done
	return uci
}

// SetStreams redirects protocol input, response output and the diagnostic
// stream. Mainly a test seam.
func (uci *Protocol) SetStreams(in io.Reader, out, diag io.Writer) {
	uci.input = in
	uci.out = out
	uci.diag = diag
}

// Run drives the command loop. With args, they are concatenated into a
// single command line which is executed once before returning, whatever
// the command was. Without args it blocks on standard input; end of input
// is treated as "quit" so the engine exits cleanly when the GUI dies.
func (uci *Protocol) Run(args []string) {
	var oneShot = len(args) > 0
	var cmd = strings.Join(args, " ")
	var scanner = bufio.NewScanner(uci.input)
	for {
		if !oneShot {
			if scanner.Scan() {
				cmd = scanner.Text()
			} else {
				cmd = "quit"
			}
		}
		var token = uci.handle(cmd)
		if oneShot || token == "quit" {
			return
		}
	}
}

// handle tokenizes one command line, dispatches on the first token and
// runs the handler to completion. It returns the first token so the loop
// can spot "quit". Malformed input never propagates an error: it either
// degrades to a no-op or produces a diagnostic response line.
func (uci *Protocol) handle(line string) string {
	var fields = strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	var token = fields[0]
	var args = fields[1:]

	switch token {
	case "quit", "stop":
		uci.stopSearch()
	case "ponderhit":
		// the opponent played the expected move: keep searching, but
		// from now on the clock applies
		uci.pondering.Store(false)
	case "uci":
		fmt.Fprintf(uci.out, "id name %v %v\n", uci.name, uci.version)
		fmt.Fprintf(uci.out, "id author %v\n", uci.author)
		if s := uci.options.String(); s != "" {
			fmt.Fprintln(uci.out, s)
		}
		fmt.Fprintln(uci.out, "uciok")
	case "setoption":
		uci.setOptionCommand(args)
	case "isready":
		uci.engine.Prepare()
		fmt.Fprintln(uci.out, "readyok")
	case "position":
		uci.positionCommand(args)
	case "go":
		uci.goCommand(args)
	case "ucinewgame":
		uci.engine.Clear()
	case "bench":
		uci.benchCommand(args)
	case "flip":
		uci.hist.states[uci.hist.Len()-1] = uci.hist.Current().Mirror()
	case "d":
		fmt.Fprintln(uci.out, uci.hist.Current().String())
	case "eval":
		fmt.Fprintln(uci.out, uci.engine.EvalTrace(uci.hist.Current()))
	default:
		fmt.Fprintf(uci.out, "Unknown command: %v\n", line)
	}
	return token
}

// stopSearch asks the running search to wind down and returns immediately.
// Nobody waits here; the bench harness is the only caller that ever blocks
// on the done handle.
func (uci *Protocol) stopSearch() {
	if uci.cancel != nil {
		uci.cancel()
	}
}

func (uci *Protocol) setOptionCommand(args []string) {
	var i = 0
	if i < len(args) && args[i] == "name" {
		i++
	}
	// option names and values may contain spaces
	var nameParts []string
	for ; i < len(args) && args[i] != "value"; i++ {
		nameParts = append(nameParts, args[i])
	}
	var valueParts []string
	if i < len(args) && args[i] == "value" {
		valueParts = args[i+1:]
	}
	var name = strings.Join(nameParts, " ")
	var value = strings.Join(valueParts, " ")

	var option = uci.options.Find(name)
	if option == nil {
		fmt.Fprintf(uci.out, "No such option: %v\n", name)
		return
	}
	if err := option.Set(value); err != nil {
		fmt.Fprintf(uci.out, "info string %v\n", err)
	}
}

// positionCommand resolves a base position and replays an optional move
// list on top of it. Any leading keyword other than "startpos" or "fen"
// leaves the current position untouched; that silent-ignore is deliberate.
func (uci *Protocol) positionCommand(args []string) {
	if len(args) == 0 {
		return
	}
	var fen string
	var moves []string
	switch args[0] {
	case "startpos":
		fen = chess.InitialPositionFen
		if len(args) > 1 && args[1] == "moves" {
			moves = args[2:]
		}
	case "fen":
		var movesIndex = findIndexString(args, "moves")
		if movesIndex == -1 {
			fen = strings.Join(args[1:], " ")
		} else {
			fen = strings.Join(args[1:movesIndex], " ")
			moves = args[movesIndex+1:]
		}
	default:
		return
	}

	// the variant flag is sampled now, not cached: positions already set
	// keep the flag they were created with
	var chess960 = false
	if v, ok := uci.options.Get("UCI_Chess960"); ok {
		chess960 = v == "true"
	}
	var p, err = chess.NewPositionFromFEN(fen, chess960)
	if err != nil {
		fmt.Fprintf(uci.out, "info string %v\n", err)
		return
	}
	uci.hist.Reset(p)

	for _, token := range moves {
		var m = chess.ParseMove(uci.hist.Current(), token)
		if m == chess.MoveNone {
			// first undecodable token ends the move list; the rest of
			// the line is not reinterpreted
			break
		}
		var next, ok = uci.hist.Current().ApplyMove(m)
		if !ok {
			break
		}
		uci.hist.Append(next)
	}
}

// goCommand parses the limits and hands the search to a worker. The
// protocol keeps only the cancellation function and the done handle; it
// never touches the worker's state while the search runs. The engine
// runs one search at a time, so an outstanding one is wound down and
// waited for before its state is reused.
func (uci *Protocol) goCommand(args []string) {
	uci.stopSearch()
	<-uci.done

	var limits, ponder = parseLimits(args, uci.hist.Current())
	var ctx, cancel = context.WithCancel(context.Background())
	uci.cancel = cancel
	uci.pondering.Store(ponder)
	var done = make(chan struct{})
	uci.done = done

	var params = chess.SearchParams{
		Positions: uci.hist.Snapshot(),
		Limits:    limits,
		Pondering: &uci.pondering,
		Progress: func(si chess.SearchInfo) {
			fmt.Fprintln(uci.out, searchInfoString(si))
		},
	}
	go func() {
		var result = uci.engine.Search(ctx, params)
		cancel() // release the context when the search ends on its own
		uci.last = result
		fmt.Fprintln(uci.out, searchInfoString(result))
		if len(result.MainLine) != 0 {
			fmt.Fprintf(uci.out, "bestmove %v\n", result.MainLine[0])
		} else {
			fmt.Fprintf(uci.out, "bestmove %v\n", chess.MoveNone)
		}
		close(done)
	}()
}

func searchInfoString(si chess.SearchInfo) string {
	var sb = &strings.Builder{}
	fmt.Fprintf(sb, "info depth %v", si.Depth)
	if si.Score.Mate != 0 {
		fmt.Fprintf(sb, " score mate %v", si.Score.Mate)
	} else {
		fmt.Fprintf(sb, " score cp %v", si.Score.Centipawns)
	}
	var timeMs = si.Time.Milliseconds()
	fmt.Fprintf(sb, " nodes %v time %v nps %v", si.Nodes, timeMs, si.Nodes*1000/(timeMs+1))
	if len(si.MainLine) != 0 {
		sb.WriteString(" pv")
		for _, move := range si.MainLine {
			sb.WriteString(" ")
			sb.WriteString(move.String())
		}
	}
	return sb.String()
}

func findIndexString(slice []string, value string) int {
	for p, v := range slice {
		if v == value {
			return p
		}
	}
	return -1
}
