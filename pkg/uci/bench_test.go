package uci

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lynxchess/lynx/pkg/chess"
)

func TestSetupBench(t *testing.T) {
	var list = setupBench(nil)
	require.Equal(t, 1+2*len(benchFENs), len(list))
	require.Equal(t, "ucinewgame", list[0])
	require.Equal(t, "position fen "+benchFENs[0], list[1])
	require.Equal(t, "go depth 6", list[2])

	list = setupBench([]string{"3"})
	require.Equal(t, "go depth 3", list[2])

	// a malformed depth argument falls back to the default
	list = setupBench([]string{"soon"})
	require.Equal(t, "go depth 6", list[2])
}

func TestBenchCommand(t *testing.T) {
	var engine = &stubEngine{result: chess.SearchInfo{Nodes: 42}}
	var uci, _, diag = newTestProtocol(engine, nil)
	uci.handle("bench 1")

	var s = diag.String()
	require.Contains(t, s, "Position: 1/10")
	require.Contains(t, s, "Position: 10/10")
	require.Contains(t, s, "Nodes searched  : 420")
	require.Contains(t, s, "Nodes/second    :")
	require.GreaterOrEqual(t, engine.cleared, 1)

	// elapsed is floored at 1ms so the throughput division is safe
	var match = regexp.MustCompile(`Total time \(ms\) : (\d+)`).FindStringSubmatch(s)
	require.Len(t, match, 2)
	var elapsed, err = strconv.Atoi(match[1])
	require.NoError(t, err)
	require.GreaterOrEqual(t, elapsed, 1)
}

func TestBenchSuiteFENsParse(t *testing.T) {
	for _, fen := range benchFENs {
		var _, err = chess.NewPositionFromFEN(fen, false)
		require.NoError(t, err, fen)
	}
}
