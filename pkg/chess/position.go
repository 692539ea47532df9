package chess

import (
	"fmt"
	"math/rand"
	"strings"
)

var (
	pieceKeys    [2][King + 1][64]uint64
	castleKeys   [16]uint64
	epFileKeys   [8]uint64
	whiteMoveKey uint64
	castleMask   [64]int
)

func init() {
	var rnd = rand.New(rand.NewSource(0x7a5c95e8d6f3b0a1))
	for side := 0; side < 2; side++ {
		for piece := Pawn; piece <= King; piece++ {
			for sq := 0; sq < 64; sq++ {
				pieceKeys[side][piece][sq] = rnd.Uint64()
			}
		}
	}
	for i := range castleKeys {
		castleKeys[i] = rnd.Uint64()
	}
	for i := range epFileKeys {
		epFileKeys[i] = rnd.Uint64()
	}
	whiteMoveKey = rnd.Uint64()

	var all = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
	for sq := range castleMask {
		castleMask[sq] = all
	}
	castleMask[MakeSquare(FileA, Rank1)] &^= WhiteQueenSide
	castleMask[MakeSquare(FileE, Rank1)] &^= WhiteKingSide | WhiteQueenSide
	castleMask[MakeSquare(FileH, Rank1)] &^= WhiteKingSide
	castleMask[MakeSquare(FileA, Rank8)] &^= BlackQueenSide
	castleMask[MakeSquare(FileE, Rank8)] &^= BlackKingSide | BlackQueenSide
	castleMask[MakeSquare(FileH, Rank8)] &^= BlackKingSide
}

func makePiece(pieceType int, white bool) int8 {
	if white {
		return int8(pieceType)
	}
	return int8(-pieceType)
}

func pieceIsWhite(pc int8) bool {
	return pc > 0
}

func typeOf(pc int8) int {
	if pc < 0 {
		return int(-pc)
	}
	return int(pc)
}

func pieceSquareKey(pc int8, sq int) uint64 {
	if pc > 0 {
		return pieceKeys[0][pc][sq]
	}
	return pieceKeys[1][-pc][sq]
}

// PieceOn reports the piece type and color on sq; Empty when vacant.
func (p *Position) PieceOn(sq int) (pieceType int, white bool) {
	var pc = p.squares[sq]
	return typeOf(pc), pieceIsWhite(pc)
}

func (p *Position) computeKey() uint64 {
	var key uint64
	for sq, pc := range p.squares {
		if pc != 0 {
			key ^= pieceSquareKey(pc, sq)
		}
	}
	key ^= castleKeys[p.CastleRights]
	if p.EpSquare != SquareNone {
		key ^= epFileKeys[File(p.EpSquare)]
	}
	if p.WhiteMove {
		key ^= whiteMoveKey
	}
	return key
}

func (p *Position) putPiece(sq int, pc int8) {
	p.squares[sq] = pc
	p.Key ^= pieceSquareKey(pc, sq)
}

func (p *Position) removePiece(sq int) {
	if pc := p.squares[sq]; pc != 0 {
		p.Key ^= pieceSquareKey(pc, sq)
		p.squares[sq] = 0
	}
}

func (p *Position) kingSquare(white bool) int {
	var king = makePiece(King, white)
	for sq, pc := range p.squares {
		if pc == king {
			return sq
		}
	}
	return SquareNone
}

// ApplyMove plays m on a copy of the snapshot. The second result is false
// when the move leaves the mover's own king attacked; the original
// snapshot is never mutated.
func (p *Position) ApplyMove(m Move) (Position, bool) {
	var next = *p
	var from, to = m.From(), m.To()
	var moving = m.MovingPiece()
	var white = p.WhiteMove

	next.Rule50++
	if next.EpSquare != SquareNone {
		next.Key ^= epFileKeys[File(next.EpSquare)]
		next.EpSquare = SquareNone
	}

	if m.CapturedPiece() != Empty {
		next.Rule50 = 0
		var capSq = to
		if moving == Pawn && to == p.EpSquare {
			if white {
				capSq = to - 8
			} else {
				capSq = to + 8
			}
		}
		next.removePiece(capSq)
	}

	next.removePiece(from)
	var placed = makePiece(moving, white)
	if promotion := m.Promotion(); promotion != Empty {
		placed = makePiece(promotion, white)
	}
	next.putPiece(to, placed)

	switch moving {
	case Pawn:
		next.Rule50 = 0
		if white && to-from == 16 {
			next.EpSquare = from + 8
			next.Key ^= epFileKeys[File(from)]
		} else if !white && from-to == 16 {
			next.EpSquare = from - 8
			next.Key ^= epFileKeys[File(from)]
		}
	case King:
		// castling moves the rook as well
		if to-from == 2 {
			var rook = next.squares[to+1]
			next.removePiece(to + 1)
			next.putPiece(to-1, rook)
		} else if from-to == 2 {
			var rook = next.squares[to-2]
			next.removePiece(to - 2)
			next.putPiece(to+1, rook)
		}
	}

	next.Key ^= castleKeys[next.CastleRights]
	next.CastleRights &= castleMask[from] & castleMask[to]
	next.Key ^= castleKeys[next.CastleRights]

	next.WhiteMove = !white
	next.Key ^= whiteMoveKey
	if !white {
		next.MoveNumber++
	}

	if next.attacked(next.kingSquare(white), !white) {
		return Position{}, false
	}
	return next, true
}

var (
	knightSteps = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps   = [8][2]int{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}
	bishopDirs  = [4][2]int{{1, 1}, {1, -1}, {-1, -1}, {-1, 1}}
	rookDirs    = [4][2]int{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}
)

func (p *Position) at(file, rank int) (int8, bool) {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return 0, false
	}
	return p.squares[MakeSquare(file, rank)], true
}

func (p *Position) attacked(sq int, byWhite bool) bool {
	var f, r = File(sq), Rank(sq)

	var pawnRank = r + 1
	if byWhite {
		pawnRank = r - 1
	}
	var pawn = makePiece(Pawn, byWhite)
	if pc, ok := p.at(f-1, pawnRank); ok && pc == pawn {
		return true
	}
	if pc, ok := p.at(f+1, pawnRank); ok && pc == pawn {
		return true
	}

	var knight = makePiece(Knight, byWhite)
	for _, d := range knightSteps {
		if pc, ok := p.at(f+d[0], r+d[1]); ok && pc == knight {
			return true
		}
	}

	var king = makePiece(King, byWhite)
	for _, d := range kingSteps {
		if pc, ok := p.at(f+d[0], r+d[1]); ok && pc == king {
			return true
		}
	}

	for _, d := range bishopDirs {
		for i := 1; ; i++ {
			var pc, ok = p.at(f+d[0]*i, r+d[1]*i)
			if !ok {
				break
			}
			if pc == 0 {
				continue
			}
			if pieceIsWhite(pc) == byWhite && (typeOf(pc) == Bishop || typeOf(pc) == Queen) {
				return true
			}
			break
		}
	}
	for _, d := range rookDirs {
		for i := 1; ; i++ {
			var pc, ok = p.at(f+d[0]*i, r+d[1]*i)
			if !ok {
				break
			}
			if pc == 0 {
				continue
			}
			if pieceIsWhite(pc) == byWhite && (typeOf(pc) == Rook || typeOf(pc) == Queen) {
				return true
			}
			break
		}
	}
	return false
}

func (p *Position) IsCheck() bool {
	return p.attacked(p.kingSquare(p.WhiteMove), !p.WhiteMove)
}

// Mirror swaps colors and reflects the board vertically. Debug helper for
// the "flip" command and for checking evaluation symmetry.
func (p *Position) Mirror() Position {
	var m = Position{
		WhiteMove:  !p.WhiteMove,
		EpSquare:   SquareNone,
		Rule50:     p.Rule50,
		MoveNumber: p.MoveNumber,
		Chess960:   p.Chess960,
	}
	for sq, pc := range p.squares {
		if pc != 0 {
			m.squares[FlipSquare(sq)] = -pc
		}
	}
	if p.CastleRights&WhiteKingSide != 0 {
		m.CastleRights |= BlackKingSide
	}
	if p.CastleRights&WhiteQueenSide != 0 {
		m.CastleRights |= BlackQueenSide
	}
	if p.CastleRights&BlackKingSide != 0 {
		m.CastleRights |= WhiteKingSide
	}
	if p.CastleRights&BlackQueenSide != 0 {
		m.CastleRights |= WhiteQueenSide
	}
	if p.EpSquare != SquareNone {
		m.EpSquare = FlipSquare(p.EpSquare)
	}
	m.Key = m.computeKey()
	return m
}

func (p *Position) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteString(" +---+---+---+---+---+---+---+---+\n")
		for file := 0; file < 8; file++ {
			fmt.Fprintf(&sb, " | %c", pieceToChar(p.squares[MakeSquare(file, rank)]))
		}
		fmt.Fprintf(&sb, " | %d\n", rank+1)
	}
	sb.WriteString(" +---+---+---+---+---+---+---+---+\n")
	sb.WriteString("   a   b   c   d   e   f   g   h\n")
	fmt.Fprintf(&sb, "\nFen: %s\nKey: %016X", p.FEN(), p.Key)
	return sb.String()
}
