package engine

import (
	"fmt"
	"strings"

	"github.com/lynxchess/lynx/pkg/chess"
)

var pieceValues = [7]int{0, 100, 320, 330, 500, 900, 0}

const tempoBonus = 10

// Piece-square tables from white's point of view, a1 first.
var pieceSquare = [7][64]int{
	chess.Pawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 10, 10, -20, -20, 10, 10, 5,
		5, -5, -10, 0, 0, -10, -5, 5,
		0, 0, 0, 20, 20, 0, 0, 0,
		5, 5, 10, 25, 25, 10, 5, 5,
		10, 10, 20, 30, 30, 20, 10, 10,
		50, 50, 50, 50, 50, 50, 50, 50,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	chess.Knight: {
		-50, -40, -30, -30, -30, -30, -40, -50,
		-40, -20, 0, 5, 5, 0, -20, -40,
		-30, 5, 10, 15, 15, 10, 5, -30,
		-30, 0, 15, 20, 20, 15, 0, -30,
		-30, 5, 15, 20, 20, 15, 5, -30,
		-30, 0, 10, 15, 15, 10, 0, -30,
		-40, -20, 0, 0, 0, 0, -20, -40,
		-50, -40, -30, -30, -30, -30, -40, -50,
	},
	chess.Bishop: {
		-20, -10, -10, -10, -10, -10, -10, -20,
		-10, 5, 0, 0, 0, 0, 5, -10,
		-10, 10, 10, 10, 10, 10, 10, -10,
		-10, 0, 10, 10, 10, 10, 0, -10,
		-10, 5, 5, 10, 10, 5, 5, -10,
		-10, 0, 5, 10, 10, 5, 0, -10,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	},
	chess.Rook: {
		0, 0, 0, 5, 5, 0, 0, 0,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		5, 10, 10, 10, 10, 10, 10, 5,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	chess.Queen: {
		-20, -10, -10, -5, -5, -10, -10, -20,
		-10, 0, 5, 0, 0, 0, 0, -10,
		-10, 5, 5, 5, 5, 5, 0, -10,
		0, 0, 5, 5, 5, 5, 0, -5,
		-5, 0, 5, 5, 5, 5, 0, -5,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-20, -10, -10, -5, -5, -10, -10, -20,
	},
	chess.King: {
		20, 30, 10, 0, 0, 10, 30, 20,
		20, 20, 0, 0, 0, 0, 20, 20,
		-10, -20, -20, -20, -20, -20, -20, -10,
		-20, -30, -30, -40, -40, -30, -30, -20,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
	},
}

// evaluate scores the position in centipawns from the side to move.
func (e *Engine) evaluate(pos *chess.Position) int {
	var score int
	for sq := 0; sq < 64; sq++ {
		var pieceType, white = pos.PieceOn(sq)
		if pieceType == chess.Empty {
			continue
		}
		if white {
			score += pieceValues[pieceType] + pieceSquare[pieceType][sq]
		} else {
			score -= pieceValues[pieceType] + pieceSquare[pieceType][chess.FlipSquare(sq)]
		}
	}
	if !pos.WhiteMove {
		score = -score
	}
	return score + tempoBonus
}

var pieceNames = [7]string{"", "Pawn", "Knight", "Bishop", "Rook", "Queen", "King"}

// EvalTrace formats a per-piece-type breakdown of the static evaluation,
// white's perspective, for the "eval" command.
func (e *Engine) EvalTrace(pos *chess.Position) string {
	var white, black [7]int
	for sq := 0; sq < 64; sq++ {
		var pieceType, isWhite = pos.PieceOn(sq)
		if pieceType == chess.Empty {
			continue
		}
		if isWhite {
			white[pieceType] += pieceValues[pieceType] + pieceSquare[pieceType][sq]
		} else {
			black[pieceType] += pieceValues[pieceType] + pieceSquare[pieceType][chess.FlipSquare(sq)]
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%-8s | %7s | %7s | %7s\n", "Term", "White", "Black", "Total")
	sb.WriteString(strings.Repeat("-", 40))
	sb.WriteByte('\n')
	var totalWhite, totalBlack int
	for pieceType := chess.Pawn; pieceType <= chess.King; pieceType++ {
		totalWhite += white[pieceType]
		totalBlack += black[pieceType]
		fmt.Fprintf(&sb, "%-8s | %7d | %7d | %7d\n",
			pieceNames[pieceType], white[pieceType], black[pieceType],
			white[pieceType]-black[pieceType])
	}
	sb.WriteString(strings.Repeat("-", 40))
	sb.WriteByte('\n')
	var total = totalWhite - totalBlack
	fmt.Fprintf(&sb, "%-8s | %7d | %7d | %7d\n", "Total", totalWhite, totalBlack, total)
	fmt.Fprintf(&sb, "\nFinal evaluation: %+.2f (white side)\n", float64(total)/100)
	return sb.String()
}
