package chess

import (
	"fmt"
	"strconv"
	"strings"
)

const pieceChars = " PNBRQK"

func pieceFromChar(ch byte) (int8, bool) {
	var t = strings.IndexByte("pnbrqk", byte(ch|0x20))
	if t < 0 {
		return 0, false
	}
	var pc = int8(t + Pawn)
	if ch >= 'a' {
		pc = -pc
	}
	return pc, true
}

func pieceToChar(pc int8) byte {
	if pc == 0 {
		return ' '
	}
	if pc > 0 {
		return pieceChars[pc]
	}
	return pieceChars[-pc] | 0x20
}

// NewPositionFromFEN parses a FEN string. The halfmove and fullmove
// counters may be absent, as in many test suites. The chess960 flag is
// recorded on the snapshot; it is sampled by the caller at parse time, not
// read from configuration later.
func NewPositionFromFEN(fen string, chess960 bool) (Position, error) {
	var fields = strings.Fields(fen)
	if len(fields) < 3 {
		return Position{}, fmt.Errorf("bad fen: %q", fen)
	}
	var p = Position{EpSquare: SquareNone, MoveNumber: 1, Chess960: chess960}

	var ranks = strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return Position{}, fmt.Errorf("bad fen board: %q", fen)
	}
	for i, rankStr := range ranks {
		var rank = 7 - i
		var file = 0
		for j := 0; j < len(rankStr); j++ {
			var ch = rankStr[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			var pc, ok = pieceFromChar(ch)
			if !ok || file > 7 {
				return Position{}, fmt.Errorf("bad fen board: %q", fen)
			}
			p.squares[MakeSquare(file, rank)] = pc
			file++
		}
		if file != 8 {
			return Position{}, fmt.Errorf("bad fen rank %v: %q", 8-i, fen)
		}
	}

	switch fields[1] {
	case "w":
		p.WhiteMove = true
	case "b":
		p.WhiteMove = false
	default:
		return Position{}, fmt.Errorf("bad fen side: %q", fen)
	}

	for _, ch := range fields[2] {
		switch ch {
		case 'K':
			p.CastleRights |= WhiteKingSide
		case 'Q':
			p.CastleRights |= WhiteQueenSide
		case 'k':
			p.CastleRights |= BlackKingSide
		case 'q':
			p.CastleRights |= BlackQueenSide
		}
	}

	if len(fields) > 3 {
		p.EpSquare = ParseSquare(fields[3])
	}
	if len(fields) > 4 {
		p.Rule50, _ = strconv.Atoi(fields[4])
	}
	if len(fields) > 5 {
		p.MoveNumber, _ = strconv.Atoi(fields[5])
	}

	if p.kingSquare(true) == SquareNone || p.kingSquare(false) == SquareNone {
		return Position{}, fmt.Errorf("fen without kings: %q", fen)
	}

	p.Key = p.computeKey()
	return p, nil
}

// FEN is the inverse of NewPositionFromFEN.
func (p *Position) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		var empty = 0
		for file := 0; file < 8; file++ {
			var pc = p.squares[MakeSquare(file, rank)]
			if pc == 0 {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			sb.WriteByte(pieceToChar(pc))
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	if p.WhiteMove {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	if p.CastleRights == 0 {
		sb.WriteByte('-')
	} else {
		for i, ch := range "KQkq" {
			if p.CastleRights&(1<<i) != 0 {
				sb.WriteRune(ch)
			}
		}
	}

	if p.EpSquare == SquareNone {
		sb.WriteString(" -")
	} else {
		sb.WriteString(" " + SquareName(p.EpSquare))
	}

	fmt.Fprintf(&sb, " %d %d", p.Rule50, p.MoveNumber)
	return sb.String()
}
