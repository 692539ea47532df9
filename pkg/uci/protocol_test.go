package uci

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lynxchess/lynx/pkg/chess"
)

// stubEngine records what the protocol asks of it. With block set, Search
// parks until the context is canceled or the channel is closed.
type stubEngine struct {
	mu        sync.Mutex
	prepared  int
	cleared   int
	params    []chess.SearchParams
	ctxs      []context.Context
	result    chess.SearchInfo
	block     chan struct{}
	active    int
	maxActive int
}

func (s *stubEngine) Prepare() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prepared++
}

func (s *stubEngine) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleared++
}

func (s *stubEngine) Search(ctx context.Context, params chess.SearchParams) chess.SearchInfo {
	s.mu.Lock()
	s.params = append(s.params, params)
	s.ctxs = append(s.ctxs, ctx)
	s.active++
	if s.active > s.maxActive {
		s.maxActive = s.active
	}
	var block = s.block
	var result = s.result
	s.mu.Unlock()
	if block != nil {
		select {
		case <-ctx.Done():
		case <-block:
		}
	}
	s.mu.Lock()
	s.active--
	s.mu.Unlock()
	return result
}

func (s *stubEngine) EvalTrace(p *chess.Position) string {
	return "stub eval trace"
}

func (s *stubEngine) lastParams(t *testing.T) chess.SearchParams {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.params)
	return s.params[len(s.params)-1]
}

func newTestProtocol(engine Engine, options *Options) (*Protocol, *bytes.Buffer, *bytes.Buffer) {
	if options == nil {
		options = NewOptions()
	}
	var uci = New("Lynx", "the Lynx authors", "1.0", engine, options)
	var out, diag bytes.Buffer
	uci.SetStreams(strings.NewReader(""), &out, &diag)
	return uci, &out, &diag
}

func waitSearch(t *testing.T, uci *Protocol) {
	t.Helper()
	select {
	case <-uci.done:
	case <-time.After(2 * time.Second):
		t.Fatal("search did not finish")
	}
}

func TestPositionStartposMoves(t *testing.T) {
	var uci, _, _ = newTestProtocol(&stubEngine{}, nil)
	uci.handle("position startpos moves e2e4 e7e5")
	require.Equal(t, 3, uci.hist.Len())
	require.Equal(t,
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2",
		uci.hist.Current().FEN())
}

func TestPositionResetsHistory(t *testing.T) {
	var uci, _, _ = newTestProtocol(&stubEngine{}, nil)
	uci.handle("position startpos moves e2e4 e7e5")
	uci.handle("position startpos")
	require.Equal(t, 1, uci.hist.Len())
	require.Equal(t, chess.InitialPositionFen, uci.hist.Current().FEN())
}

func TestPositionTruncatesOnBadMove(t *testing.T) {
	var uci, _, _ = newTestProtocol(&stubEngine{}, nil)
	// e2e4 is not legal the second time; the tail is dropped
	uci.handle("position startpos moves e2e4 e7e5 e2e4 g1f3")
	require.Equal(t, 3, uci.hist.Len())
}

func TestPositionFen(t *testing.T) {
	var uci, _, _ = newTestProtocol(&stubEngine{}, nil)
	var fen = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	uci.handle("position fen " + fen + " moves e2a6")
	require.Equal(t, 2, uci.hist.Len())
	require.False(t, uci.hist.Current().WhiteMove)
}

func TestPositionUnknownKeywordIgnored(t *testing.T) {
	var uci, _, _ = newTestProtocol(&stubEngine{}, nil)
	uci.handle("position startpos moves e2e4")
	uci.handle("position current")
	require.Equal(t, 2, uci.hist.Len())
}

func TestPositionBadFen(t *testing.T) {
	var uci, out, _ = newTestProtocol(&stubEngine{}, nil)
	uci.handle("position fen not a position")
	require.Contains(t, out.String(), "info string")
	require.Equal(t, 1, uci.hist.Len())
}

func TestUciCommand(t *testing.T) {
	var hash = 16
	var options = NewOptions(&IntOption{Name: "Hash", Min: 4, Max: 1 << 12, Value: &hash})
	var uci, out, _ = newTestProtocol(&stubEngine{}, options)
	uci.handle("uci")
	var s = out.String()
	require.Contains(t, s, "id name Lynx 1.0")
	require.Contains(t, s, "id author the Lynx authors")
	require.Contains(t, s, "option name Hash type spin default 16 min 4 max 4096")
	require.True(t, strings.HasSuffix(s, "uciok\n"))
}

func TestIsReady(t *testing.T) {
	var engine = &stubEngine{}
	var uci, out, _ = newTestProtocol(engine, nil)
	uci.handle("isready")
	require.Equal(t, "readyok\n", out.String())
	require.Equal(t, 1, engine.prepared)
}

func TestUciNewGame(t *testing.T) {
	var engine = &stubEngine{}
	var uci, _, _ = newTestProtocol(engine, nil)
	uci.handle("ucinewgame")
	require.Equal(t, 1, engine.cleared)
}

func TestSetOption(t *testing.T) {
	var hash = 16
	var options = NewOptions(&IntOption{Name: "Hash", Min: 4, Max: 1 << 12, Value: &hash})
	var uci, out, _ = newTestProtocol(&stubEngine{}, options)

	uci.handle("setoption name Hash value 64")
	require.Equal(t, 64, hash)

	uci.handle("setoption name hash value 128")
	require.Equal(t, 128, hash, "option names are case-insensitive")

	uci.handle("setoption name Hash value 99999")
	require.Equal(t, 128, hash)
	require.Contains(t, out.String(), "info string argument out of range")

	uci.handle("setoption name Foo value 1")
	require.Contains(t, out.String(), "No such option: Foo")
}

func TestUnknownCommand(t *testing.T) {
	var uci, out, _ = newTestProtocol(&stubEngine{}, nil)
	uci.handle("bogus stuff here")
	require.Equal(t, "Unknown command: bogus stuff here\n", out.String())
}

func TestGoPassesLimitsAndHistory(t *testing.T) {
	var engine = &stubEngine{result: chess.SearchInfo{
		Depth:    1,
		MainLine: []chess.Move{chess.ParseMove(mustStartpos(t), "e2e4")},
	}}
	var uci, out, _ = newTestProtocol(engine, nil)
	uci.handle("position startpos moves e2e4 e7e5")
	uci.handle("go depth 1 searchmoves g1f3 d2d4")
	waitSearch(t, uci)

	var params = engine.lastParams(t)
	require.Len(t, params.Positions, 3)
	require.Equal(t, 1, params.Limits.Depth)
	require.Len(t, params.Limits.SearchMoves, 2)
	require.Equal(t, "g1f3", params.Limits.SearchMoves[0].String())
	require.Equal(t, "d2d4", params.Limits.SearchMoves[1].String())
	require.Contains(t, out.String(), "bestmove e2e4")
}

func TestGoReportsNoMove(t *testing.T) {
	var engine = &stubEngine{}
	var uci, out, _ = newTestProtocol(engine, nil)
	uci.handle("go depth 1")
	waitSearch(t, uci)
	require.Contains(t, out.String(), "bestmove (none)")
}

func TestGoWhileSearching(t *testing.T) {
	var engine = &stubEngine{block: make(chan struct{})}
	var uci, _, _ = newTestProtocol(engine, nil)
	// a second go must wind down the first search before the engine is
	// reused; the two searches never overlap
	uci.handle("go infinite")
	uci.handle("go infinite")
	uci.handle("stop")
	waitSearch(t, uci)
	engine.mu.Lock()
	defer engine.mu.Unlock()
	require.Len(t, engine.params, 2)
	require.Equal(t, 1, engine.maxActive)
}

func TestSearchContextReleased(t *testing.T) {
	var engine = &stubEngine{}
	var uci, _, _ = newTestProtocol(engine, nil)
	uci.handle("go depth 1")
	waitSearch(t, uci)
	engine.mu.Lock()
	defer engine.mu.Unlock()
	require.Error(t, engine.ctxs[0].Err(), "the worker must release its context when Search returns")
}

func TestStopCancelsSearch(t *testing.T) {
	var engine = &stubEngine{block: make(chan struct{})}
	var uci, _, _ = newTestProtocol(engine, nil)
	uci.handle("go infinite")
	uci.handle("stop")
	waitSearch(t, uci)
}

func TestPonderhit(t *testing.T) {
	var engine = &stubEngine{block: make(chan struct{})}
	var uci, _, _ = newTestProtocol(engine, nil)
	uci.handle("go ponder movetime 100")
	require.True(t, uci.pondering.Load())
	uci.handle("ponderhit")
	require.False(t, uci.pondering.Load())
	uci.handle("stop")
	waitSearch(t, uci)
}

func TestFlip(t *testing.T) {
	var uci, _, _ = newTestProtocol(&stubEngine{}, nil)
	uci.handle("position startpos moves e2e4")
	var before = uci.hist.Current().FEN()
	uci.handle("flip")
	require.True(t, uci.hist.Current().WhiteMove)
	uci.handle("flip")
	require.Equal(t, before, uci.hist.Current().FEN())
}

func TestDisplayCommand(t *testing.T) {
	var uci, out, _ = newTestProtocol(&stubEngine{}, nil)
	uci.handle("d")
	require.Contains(t, out.String(), "Fen: "+chess.InitialPositionFen)
}

func TestEvalCommand(t *testing.T) {
	var uci, out, _ = newTestProtocol(&stubEngine{}, nil)
	uci.handle("eval")
	require.Contains(t, out.String(), "stub eval trace")
}

func TestRunOneShot(t *testing.T) {
	var uci, out, _ = newTestProtocol(&stubEngine{}, nil)
	uci.Run([]string{"d"})
	require.Contains(t, out.String(), "Fen:")
}

func TestRunStopsOnQuit(t *testing.T) {
	var engine = &stubEngine{}
	var uci, out, _ = newTestProtocol(engine, nil)
	uci.SetStreams(strings.NewReader("isready\nquit\nisready\n"), out, out)
	uci.Run(nil)
	require.Equal(t, "readyok\n", out.String())
}

func TestRunStopsOnEOF(t *testing.T) {
	var uci, out, _ = newTestProtocol(&stubEngine{}, nil)
	uci.SetStreams(strings.NewReader("isready\n"), out, out)
	uci.Run(nil)
	require.Equal(t, "readyok\n", out.String())
}

func mustStartpos(t *testing.T) *chess.Position {
	t.Helper()
	var pos, err = chess.NewPositionFromFEN(chess.InitialPositionFen, false)
	require.NoError(t, err)
	return &pos
}
