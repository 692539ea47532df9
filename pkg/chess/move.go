package chess

import "strings"

// Move packs from, to, moving piece, captured piece and promotion piece
// into an int32. Two sentinels exist outside that packing: MoveNone means
// "no move" and MoveNull is the null move.
type Move int32

const (
	MoveNone Move = 0
	MoveNull Move = 1 << 24
)

const promotionNames = "nbrq"

func makeMove(from, to, piece, captured, promotion int) Move {
	return Move(from | to<<6 | piece<<12 | captured<<15 | promotion<<18)
}

func (m Move) From() int {
	return int(m & 63)
}

func (m Move) To() int {
	return int((m >> 6) & 63)
}

func (m Move) MovingPiece() int {
	return int((m >> 12) & 7)
}

func (m Move) CapturedPiece() int {
	return int((m >> 15) & 7)
}

func (m Move) Promotion() int {
	return int((m >> 18) & 7)
}

// String renders coordinate notation: origin square, destination square
// and a lowercase promotion letter when the move promotes. The sentinels
// have fixed spellings.
func (m Move) String() string {
	if m == MoveNone {
		return "(none)"
	}
	if m == MoveNull {
		return "0000"
	}
	var s = SquareName(m.From()) + SquareName(m.To())
	if promotion := m.Promotion(); promotion != Empty {
		s += string(promotionNames[promotion-Knight])
	}
	return s
}

// ParseMove maps a coordinate-notation string to the matching legal move
// in pos. It is the single source of truth for "is this string a legal
// move right now": anything that does not name a legal move, including
// garbage or wrong-length input, comes back as MoveNone and the caller
// stops consuming move tokens.
func ParseMove(pos *Position, s string) Move {
	if len(s) == 5 {
		// some senders upper-case the promotion letter
		s = s[:4] + strings.ToLower(s[4:])
	}
	for _, m := range pos.GenerateLegalMoves() {
		if m.String() == s {
			return m
		}
	}
	return MoveNone
}
