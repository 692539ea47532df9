package uci

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lynxchess/lynx/pkg/chess"
)

func parseTestLimits(t *testing.T, line string) (chess.LimitsType, bool) {
	t.Helper()
	var pos, err = chess.NewPositionFromFEN(chess.InitialPositionFen, false)
	require.NoError(t, err)
	return parseLimits(strings.Fields(line), &pos)
}

func TestParseLimitsClock(t *testing.T) {
	var limits, ponder = parseTestLimits(t,
		"wtime 300000 btime 295000 winc 2000 binc 2000 movestogo 40")
	require.False(t, ponder)
	require.Equal(t, 300000, limits.WhiteTime)
	require.Equal(t, 295000, limits.BlackTime)
	require.Equal(t, 2000, limits.WhiteIncrement)
	require.Equal(t, 2000, limits.BlackIncrement)
	require.Equal(t, 40, limits.MovesToGo)
	require.False(t, limits.StartTime.IsZero())
}

func TestParseLimitsFixed(t *testing.T) {
	var limits, _ = parseTestLimits(t, "depth 10 nodes 5000 movetime 2500 mate 3")
	require.Equal(t, 10, limits.Depth)
	require.Equal(t, int64(5000), limits.Nodes)
	require.Equal(t, 2500, limits.MoveTime)
	require.Equal(t, 3, limits.Mate)
}

func TestParseLimitsInfinitePonder(t *testing.T) {
	var limits, ponder = parseTestLimits(t, "infinite ponder")
	require.True(t, limits.Infinite)
	require.True(t, ponder)
}

func TestParseLimitsPerft(t *testing.T) {
	var limits, _ = parseTestLimits(t, "perft 5")
	require.Equal(t, 5, limits.Perft)
}

func TestParseLimitsSearchMoves(t *testing.T) {
	// an undecodable token still occupies a slot, as MoveNone
	var limits, _ = parseTestLimits(t, "depth 2 searchmoves e2e4 bogus d2d4")
	require.Equal(t, 2, limits.Depth)
	require.Len(t, limits.SearchMoves, 3)
	require.Equal(t, "e2e4", limits.SearchMoves[0].String())
	require.Equal(t, chess.MoveNone, limits.SearchMoves[1])
	require.Equal(t, "d2d4", limits.SearchMoves[2].String())
}

func TestParseLimitsUnknownKeyword(t *testing.T) {
	var limits, _ = parseTestLimits(t, "shallow depth 3")
	require.Equal(t, 3, limits.Depth)
}

func TestParseLimitsTruncated(t *testing.T) {
	var limits, _ = parseTestLimits(t, "movetime")
	require.Equal(t, 0, limits.MoveTime)
}
