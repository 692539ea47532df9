package uci

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/lynxchess/lynx/pkg/chess"
)

const (
	whiteKingSym   = "♔"
	whiteQueenSym  = "♕"
	whiteRookSym   = "♖"
	whiteBishopSym = "♗"
	whiteKnightSym = "♘"
	whitePawnSym   = "♙"
	blackKingSym   = "♚"
	blackQueenSym  = "♛"
	blackRookSym   = "♜"
	blackBishopSym = "♝"
	blackKnightSym = "♞"
	blackPawnSym   = "♟"
)

var chessSymbols = [2][7]string{
	{" ", whitePawnSym, whiteKnightSym, whiteBishopSym, whiteRookSym, whiteQueenSym, whiteKingSym},
	{" ", blackPawnSym, blackKnightSym, blackBishopSym, blackRookSym, blackQueenSym, blackKingSym},
}

const (
	fgBlack   = 30
	bgWhite   = 47
	bgHiWhite = 107
)

func pieceCell(pieceType int, white, darkSquare bool) string {
	var s string
	if white {
		s = chessSymbols[0][pieceType]
	} else {
		s = chessSymbols[1][pieceType]
	}
	var bgColor = bgHiWhite
	if darkSquare {
		bgColor = bgWhite
	}
	return fmt.Sprintf("\x1b[%d;%dm%s \x1b[0m", fgBlack, bgColor, s)
}

func printBoard(p *chess.Position) string {
	var sb strings.Builder
	for i := 0; i < 64; i++ {
		var sq = chess.FlipSquare(i)
		var pieceType, white = p.PieceOn(sq)
		sb.WriteString(pieceCell(pieceType, white, chess.IsDarkSquare(sq)))
		if chess.File(sq) == chess.FileH {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// RunConsole is a human-vs-engine session in the terminal, outside the UCI
// state machine. Moves are entered in coordinate notation; the engine
// answers with a fixed move time.
func (uci *Protocol) RunConsole(moveTimeMs int) error {
	var rl, err = readline.New("lynx> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	var start, _ = chess.NewPositionFromFEN(chess.InitialPositionFen, false)
	uci.hist.Reset(start)
	fmt.Fprintln(uci.out, "enter moves in coordinate notation (e2e4); new starts over, quit exits")

	for {
		var pos = uci.hist.Current()
		fmt.Fprintln(uci.out, printBoard(pos))
		if len(pos.GenerateLegalMoves()) == 0 {
			if pos.IsCheck() {
				fmt.Fprintln(uci.out, "checkmate")
			} else {
				fmt.Fprintln(uci.out, "stalemate")
			}
			return nil
		}

		var line string
		line, err = rl.Readline()
		if err != nil {
			// interrupt or EOF ends the session
			return nil
		}
		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "new":
			uci.hist.Reset(start)
			continue
		}

		var m = chess.ParseMove(pos, line)
		if m == chess.MoveNone {
			fmt.Fprintf(uci.out, "illegal move: %v\n", line)
			continue
		}
		var next, _ = pos.ApplyMove(m)
		uci.hist.Append(next)

		if len(uci.hist.Current().GenerateLegalMoves()) == 0 {
			continue // loop top reports the game result
		}
		uci.goCommand([]string{"movetime", strconv.Itoa(moveTimeMs)})
		<-uci.done
		if len(uci.last.MainLine) == 0 {
			continue
		}
		var reply = uci.last.MainLine[0]
		fmt.Fprintf(uci.out, "my move: %v\n", reply)
		if answered, ok := uci.hist.Current().ApplyMove(reply); ok {
			uci.hist.Append(answered)
		}
	}
}
