package engine

import "github.com/lynxchess/lynx/pkg/chess"

// The table stores only the best move per position and is consulted for
// move ordering. Score bounds are deliberately not cached: mate-distance
// adjustment is where small engines go wrong, and ordering is where most
// of the benefit lives anyway.
type ttEntry struct {
	key  uint64
	move chess.Move
}

const ttEntryBytes = 16

func (e *Engine) ttRead(key uint64) chess.Move {
	if len(e.tt) == 0 {
		return chess.MoveNone
	}
	var entry = &e.tt[key&uint64(len(e.tt)-1)]
	if entry.key == key {
		return entry.move
	}
	return chess.MoveNone
}

func (e *Engine) ttStore(key uint64, move chess.Move) {
	if len(e.tt) == 0 {
		return
	}
	e.tt[key&uint64(len(e.tt)-1)] = ttEntry{key: key, move: move}
}
