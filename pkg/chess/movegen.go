package chess

// GeneratePseudoMoves fills ml with pseudo-legal moves for the side to
// move. King safety is settled by ApplyMove; castling legality (rights,
// empty path, no attacked transit square) is settled here.
func (p *Position) GeneratePseudoMoves(ml []Move) []Move {
	ml = ml[:0]
	var white = p.WhiteMove
	for sq, pc := range p.squares {
		if pc == 0 || pieceIsWhite(pc) != white {
			continue
		}
		switch typeOf(pc) {
		case Pawn:
			ml = p.genPawnMoves(ml, sq, white)
		case Knight:
			ml = p.genStepMoves(ml, sq, Knight, knightSteps[:], white)
		case Bishop:
			ml = p.genSlideMoves(ml, sq, Bishop, bishopDirs[:], white)
		case Rook:
			ml = p.genSlideMoves(ml, sq, Rook, rookDirs[:], white)
		case Queen:
			ml = p.genSlideMoves(ml, sq, Queen, bishopDirs[:], white)
			ml = p.genSlideMoves(ml, sq, Queen, rookDirs[:], white)
		case King:
			ml = p.genStepMoves(ml, sq, King, kingSteps[:], white)
			ml = p.genCastleMoves(ml, white)
		}
	}
	return ml
}

// GenerateLegalMoves is the convenience form used by the move codec and by
// mate/stalemate detection.
func (p *Position) GenerateLegalMoves() []Move {
	var buf [MaxMoves]Move
	var legal []Move
	for _, m := range p.GeneratePseudoMoves(buf[:]) {
		if _, ok := p.ApplyMove(m); ok {
			legal = append(legal, m)
		}
	}
	return legal
}

func (p *Position) genStepMoves(ml []Move, from, piece int, steps [][2]int, white bool) []Move {
	var f, r = File(from), Rank(from)
	for _, d := range steps {
		var pc, ok = p.at(f+d[0], r+d[1])
		if !ok {
			continue
		}
		var to = MakeSquare(f+d[0], r+d[1])
		if pc == 0 {
			ml = append(ml, makeMove(from, to, piece, Empty, Empty))
		} else if pieceIsWhite(pc) != white {
			ml = append(ml, makeMove(from, to, piece, typeOf(pc), Empty))
		}
	}
	return ml
}

func (p *Position) genSlideMoves(ml []Move, from, piece int, dirs [][2]int, white bool) []Move {
	var f, r = File(from), Rank(from)
	for _, d := range dirs {
		for i := 1; ; i++ {
			var pc, ok = p.at(f+d[0]*i, r+d[1]*i)
			if !ok {
				break
			}
			var to = MakeSquare(f+d[0]*i, r+d[1]*i)
			if pc == 0 {
				ml = append(ml, makeMove(from, to, piece, Empty, Empty))
				continue
			}
			if pieceIsWhite(pc) != white {
				ml = append(ml, makeMove(from, to, piece, typeOf(pc), Empty))
			}
			break
		}
	}
	return ml
}

func appendPromotions(ml []Move, from, to, captured int) []Move {
	for _, promotion := range [4]int{Queen, Rook, Bishop, Knight} {
		ml = append(ml, makeMove(from, to, Pawn, captured, promotion))
	}
	return ml
}

func (p *Position) genPawnMoves(ml []Move, from int, white bool) []Move {
	var f, r = File(from), Rank(from)
	var dr, startRank, promoRank = 1, Rank2, Rank7
	if !white {
		dr, startRank, promoRank = -1, Rank7, Rank2
	}

	if pc, ok := p.at(f, r+dr); ok && pc == 0 {
		var to = MakeSquare(f, r+dr)
		if r == promoRank {
			ml = appendPromotions(ml, from, to, Empty)
		} else {
			ml = append(ml, makeMove(from, to, Pawn, Empty, Empty))
			if r == startRank {
				if pc2, ok2 := p.at(f, r+2*dr); ok2 && pc2 == 0 {
					ml = append(ml, makeMove(from, MakeSquare(f, r+2*dr), Pawn, Empty, Empty))
				}
			}
		}
	}

	for _, df := range [2]int{-1, 1} {
		var pc, ok = p.at(f+df, r+dr)
		if !ok {
			continue
		}
		var to = MakeSquare(f+df, r+dr)
		if pc != 0 && pieceIsWhite(pc) != white {
			if r == promoRank {
				ml = appendPromotions(ml, from, to, typeOf(pc))
			} else {
				ml = append(ml, makeMove(from, to, Pawn, typeOf(pc), Empty))
			}
		} else if pc == 0 && to == p.EpSquare {
			ml = append(ml, makeMove(from, to, Pawn, Pawn, Empty))
		}
	}
	return ml
}

func (p *Position) genCastleMoves(ml []Move, white bool) []Move {
	var rank = Rank1
	var kingSideRight, queenSideRight = WhiteKingSide, WhiteQueenSide
	if !white {
		rank = Rank8
		kingSideRight, queenSideRight = BlackKingSide, BlackQueenSide
	}
	var enemy = !white
	var e = MakeSquare(FileE, rank)
	if p.squares[e] != makePiece(King, white) || p.attacked(e, enemy) {
		return ml
	}

	if p.CastleRights&kingSideRight != 0 &&
		p.squares[MakeSquare(FileH, rank)] == makePiece(Rook, white) &&
		p.squares[MakeSquare(FileF, rank)] == 0 &&
		p.squares[MakeSquare(FileG, rank)] == 0 &&
		!p.attacked(MakeSquare(FileF, rank), enemy) &&
		!p.attacked(MakeSquare(FileG, rank), enemy) {
		ml = append(ml, makeMove(e, MakeSquare(FileG, rank), King, Empty, Empty))
	}

	if p.CastleRights&queenSideRight != 0 &&
		p.squares[MakeSquare(FileA, rank)] == makePiece(Rook, white) &&
		p.squares[MakeSquare(FileB, rank)] == 0 &&
		p.squares[MakeSquare(FileC, rank)] == 0 &&
		p.squares[MakeSquare(FileD, rank)] == 0 &&
		!p.attacked(MakeSquare(FileD, rank), enemy) &&
		!p.attacked(MakeSquare(FileC, rank), enemy) {
		ml = append(ml, makeMove(e, MakeSquare(FileC, rank), King, Empty, Empty))
	}
	return ml
}

// Perft counts leaf nodes of the legal move tree to the given depth.
func Perft(p *Position, depth int) int64 {
	if depth <= 0 {
		return 1
	}
	var buf [MaxMoves]Move
	var nodes int64
	for _, m := range p.GeneratePseudoMoves(buf[:]) {
		var child, ok = p.ApplyMove(m)
		if !ok {
			continue
		}
		if depth == 1 {
			nodes++
		} else {
			nodes += Perft(&child, depth-1)
		}
	}
	return nodes
}
