package uci

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Standard bench suite shared by many engines; variety of middlegame,
// endgame, castling and promotion positions.
var benchFENs = []string{
	"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"r3k2r/1bp1qpb1/p1np1np1/4p2p/2P1P3/1PN2N1P/PB1PQPB1/R3K2R w KQkq - 0 1",
	"2kr3r/pbpn1pq1/1p2pn1p/3p2p1/2PP4/P1N1P1P1/1PQ1NPBP/R4RK1 w - - 0 1",
	"r2qk2r/ppp1bppp/2n1bn2/3pp3/8/2NPBNP1/PPP1PPBP/R2QK2R w KQkq - 0 1",
	"r1bq1rk1/ppp2ppp/2nb1n2/3pp3/2B1P3/2NP1N2/PPP2PPP/R1BQ1RK1 w - - 0 1",
}

const defaultBenchDepth = 6

// setupBench assembles the scripted command list the harness replays: a
// fresh game, then each suite position followed by a fixed-depth search.
// An optional first argument overrides the depth.
func setupBench(args []string) []string {
	var depth = defaultBenchDepth
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil && d > 0 {
			depth = d
		}
	}
	var list = []string{"ucinewgame"}
	for _, fen := range benchFENs {
		list = append(list, "position fen "+fen)
		list = append(list, fmt.Sprintf("go depth %v", depth))
	}
	return list
}

// benchCommand replays the script through the same handlers the command
// loop uses, accumulates nodes across every search, and reports aggregate
// throughput on the diagnostic stream. Unlike interactive mode it waits
// for each search to finish: nodes cannot be tallied before that.
func (uci *Protocol) benchCommand(args []string) {
	var list = setupBench(args)

	var total = 0
	for _, cmd := range list {
		if fields := strings.Fields(cmd); len(fields) != 0 && fields[0] == "go" {
			total++
		}
	}

	var nodes int64
	var cnt = 1
	var start = time.Now()
	for _, cmd := range list {
		var fields = strings.Fields(cmd)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "go":
			fmt.Fprintf(uci.diag, "\nPosition: %d/%d\n", cnt, total)
			cnt++
			uci.goCommand(fields[1:])
			<-uci.done
			nodes += uci.last.Nodes
		case "position":
			uci.positionCommand(fields[1:])
		case "setoption":
			uci.setOptionCommand(fields[1:])
		case "ucinewgame":
			// clearing cross-game state may be slow and should not count
			// against search throughput
			uci.engine.Clear()
			start = time.Now()
		}
	}

	var elapsed = time.Since(start).Milliseconds() + 1 // ensure positivity
	fmt.Fprintf(uci.diag, "\n==========================="+
		"\nTotal time (ms) : %v"+
		"\nNodes searched  : %v"+
		"\nNodes/second    : %v\n", elapsed, nodes, 1000*nodes/elapsed)
}
