package chess

import (
	"sync/atomic"
	"time"
)

const InitialPositionFen = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

const (
	Empty = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

const (
	WhiteKingSide = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide
)

const (
	FileA = iota
	FileB
	FileC
	FileD
	FileE
	FileF
	FileG
	FileH
)

const (
	Rank1 = iota
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
)

const SquareNone = -1

const MaxMoves = 256

// Position is one snapshot of the game. Boards are value types: applying a
// move copies the snapshot, so a slice of positions doubles as the undo
// chain. A snapshot is only meaningful relative to the history that
// produced it.
type Position struct {
	squares      [64]int8
	WhiteMove    bool
	CastleRights int
	EpSquare     int
	Rule50       int
	MoveNumber   int
	Key          uint64
	Chess960     bool
}

// LimitsType carries the constraints parsed from a "go" command. Fields are
// not mutually exclusive at parse level; reconciling combinations like
// depth+infinite is the search's business.
type LimitsType struct {
	StartTime      time.Time
	WhiteTime      int
	BlackTime      int
	WhiteIncrement int
	BlackIncrement int
	MovesToGo      int
	Depth          int
	Nodes          int64
	MoveTime       int
	Mate           int
	Perft          int
	Infinite       bool
	SearchMoves    []Move
}

type SearchParams struct {
	Positions []Position
	Limits    LimitsType
	// Pondering is shared with the protocol loop; "ponderhit" clears it
	// without restarting the search.
	Pondering *atomic.Bool
	Progress  func(si SearchInfo)
}

type SearchInfo struct {
	Score    UciScore
	Depth    int
	Nodes    int64
	Time     time.Duration
	MainLine []Move
}

// UciScore is either a centipawn value or a signed distance to mate in
// full moves, never both.
type UciScore struct {
	Centipawns int
	Mate       int
}
