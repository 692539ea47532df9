package uci

import (
	"strconv"
	"time"

	"github.com/lynxchess/lynx/pkg/chess"
)

// parseLimits consumes the token stream after "go". The start timestamp is
// recorded before any token is touched so parsing cost never counts
// against the clock. Unrecognized keywords hit the default ignore arm:
// tolerant parsing buys forward compatibility with future GUIs. The ponder
// flag is a dispatch-time mode, returned separately rather than stored in
// the limits.
func parseLimits(args []string, pos *chess.Position) (limits chess.LimitsType, ponder bool) {
	limits.StartTime = time.Now()
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "searchmoves":
			// every remaining token is a root move; tokens that decode to
			// nothing append MoveNone, preserving the behavior GUIs see
			// from the reference engines
			for i++; i < len(args); i++ {
				limits.SearchMoves = append(limits.SearchMoves, chess.ParseMove(pos, args[i]))
			}
		case "wtime":
			limits.WhiteTime = nextInt(args, &i)
		case "btime":
			limits.BlackTime = nextInt(args, &i)
		case "winc":
			limits.WhiteIncrement = nextInt(args, &i)
		case "binc":
			limits.BlackIncrement = nextInt(args, &i)
		case "movestogo":
			limits.MovesToGo = nextInt(args, &i)
		case "depth":
			limits.Depth = nextInt(args, &i)
		case "nodes":
			limits.Nodes = int64(nextInt(args, &i))
		case "movetime":
			limits.MoveTime = nextInt(args, &i)
		case "mate":
			limits.Mate = nextInt(args, &i)
		case "perft":
			limits.Perft = nextInt(args, &i)
		case "infinite":
			limits.Infinite = true
		case "ponder":
			ponder = true
		default:
			// skip unknown keywords
		}
	}
	return limits, ponder
}

func nextInt(args []string, i *int) int {
	if *i+1 >= len(args) {
		return 0
	}
	*i++
	var v, _ = strconv.Atoi(args[*i])
	return v
}
