package chess

// GenerateLegalMoves fills ml with every legal move in the position.
func (b *Board) GenerateLegalMoves(ml *MoveList) {
	var pseudo MoveList
	b.generatePseudo(&pseudo, false)
	b.filterLegal(&pseudo, ml)
}

// GenerateNoisyMoves fills ml with legal captures and promotions, the move
// set searched in quiescence.
func (b *Board) GenerateNoisyMoves(ml *MoveList) {
	var pseudo MoveList
	b.generatePseudo(&pseudo, true)
	b.filterLegal(&pseudo, ml)
}

// generatePseudo produces pseudo-legal moves; captures and promotions only
// when noisyOnly is set.
func (b *Board) generatePseudo(ml *MoveList, noisyOnly bool) {
	us := b.SideToMove
	occ := b.Occupancy
	enemies := b.Colors[us.Opposite()]

	// Quiet targets are empty squares; noisy generation targets enemies only.
	targets := ^b.Colors[us]
	if noisyOnly {
		targets = enemies
	}

	b.genPawnMoves(ml, noisyOnly)

	for pt := Knight; pt <= Queen; pt++ {
		for pieces := b.Pieces[us][pt]; pieces != 0; {
			from := pieces.Pop()
			var att Bitboard
			switch pt {
			case Knight:
				att = KnightAttacks(from)
			case Bishop:
				att = BishopAttacks(from, occ)
			case Rook:
				att = RookAttacks(from, occ)
			case Queen:
				att = QueenAttacks(from, occ)
			}
			for att &= targets; att != 0; {
				ml.Add(NewMove(from, att.Pop()))
			}
		}
	}

	ksq := b.KingSquare[us]
	for att := KingAttacks(ksq) & targets; att != 0; {
		ml.Add(NewMove(ksq, att.Pop()))
	}

	if !noisyOnly {
		b.genCastles(ml)
	}
}

func (b *Board) genPawnMoves(ml *MoveList, noisyOnly bool) {
	us := b.SideToMove
	pawns := b.Pieces[us][Pawn]
	empty := ^b.Occupancy
	enemies := b.Colors[us.Opposite()]

	var push1, push2, capL, capR, promoRank Bitboard
	var up int
	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & Rank3BB).North() & empty
		capL = pawns.NorthWest() & enemies
		capR = pawns.NorthEast() & enemies
		promoRank = Rank8BB
		up = 8
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & Rank6BB).South() & empty
		capL = pawns.SouthWest() & enemies
		capR = pawns.SouthEast() & enemies
		promoRank = Rank1BB
		up = -8
	}

	addFrom := func(bb Bitboard, delta int, promo bool) {
		for bb != 0 {
			to := bb.Pop()
			from := Square(int(to) - delta)
			if promo {
				ml.Add(NewPromotion(from, to, Queen))
				ml.Add(NewPromotion(from, to, Rook))
				ml.Add(NewPromotion(from, to, Bishop))
				ml.Add(NewPromotion(from, to, Knight))
			} else {
				ml.Add(NewMove(from, to))
			}
		}
	}

	if !noisyOnly {
		addFrom(push1&^promoRank, up, false)
		addFrom(push2, 2*up, false)
	}

	addFrom(capL&^promoRank, up-1, false)
	addFrom(capR&^promoRank, up+1, false)
	addFrom(capL&promoRank, up-1, true)
	addFrom(capR&promoRank, up+1, true)
	// Push promotions count as noisy: they change material.
	addFrom(push1&promoRank, up, true)

	if b.EnPassant != NoSquare {
		// Our pawns attack the en passant square exactly when an enemy-side
		// pawn attack from that square reaches them.
		for att := pawnAttacks[us.Opposite()][b.EnPassant] & pawns; att != 0; {
			ml.Add(NewEnPassant(att.Pop(), b.EnPassant))
		}
	}
}

func (b *Board) genCastles(ml *MoveList) {
	us := b.SideToMove
	them := us.Opposite()

	type castle struct {
		right           CastlingRights
		kFrom, kTo      Square
		emptyMask       Bitboard
		transit         [3]Square // squares the king must not leave attacked
	}
	var castles [2]castle
	if us == White {
		castles = [2]castle{
			{WhiteOO, E1, G1, BB(F1) | BB(G1), [3]Square{E1, F1, G1}},
			{WhiteOOO, E1, C1, BB(B1) | BB(C1) | BB(D1), [3]Square{E1, D1, C1}},
		}
	} else {
		castles = [2]castle{
			{BlackOO, E8, G8, BB(F8) | BB(G8), [3]Square{E8, F8, G8}},
			{BlackOOO, E8, C8, BB(B8) | BB(C8) | BB(D8), [3]Square{E8, D8, C8}},
		}
	}

	for _, c := range castles {
		if b.Rights&c.right == 0 || b.Occupancy&c.emptyMask != 0 {
			continue
		}
		ok := true
		for _, sq := range c.transit {
			if b.IsAttacked(sq, them) {
				ok = false
				break
			}
		}
		if ok {
			ml.Add(NewCastle(c.kFrom, c.kTo))
		}
	}
}

// filterLegal copies the legal subset of pseudo into out. Non-pinned,
// non-king, non-en-passant moves need no validation when not in check, which
// covers the vast majority of moves.
func (b *Board) filterLegal(pseudo, out *MoveList) {
	pinned := b.Pinned()
	ksq := b.KingSquare[b.SideToMove]
	inCheck := b.Checkers != 0

	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Get(i)
		if !inCheck && m.From() != ksq && !m.IsEnPassant() && pinned&BB(m.From()) == 0 {
			out.Add(m)
		} else if b.isLegal(m, pinned) {
			out.Add(m)
		}
	}
}

// isLegal validates a pseudo-legal move against checks and pins.
func (b *Board) isLegal(m Move, pinned Bitboard) bool {
	us := b.SideToMove
	them := us.Opposite()
	ksq := b.KingSquare[us]
	from, to := m.From(), m.To()

	if from == ksq {
		if m.IsCastle() {
			// Transit squares were verified at generation, which also
			// rejects castling out of check.
			return b.Checkers == 0
		}
		// Drop the king from the occupancy so sliders see through it.
		return b.Attackers(to, them, b.Occupancy&^BB(from)) == 0
	}

	if b.Checkers != 0 {
		if b.Checkers&(b.Checkers-1) != 0 {
			// Double check, only the king may move.
			return false
		}
		checker := b.Checkers.First()

		if m.IsEnPassant() {
			// En passant can answer a pawn check by capturing the checker.
			if b.epVictim(to) == checker {
				return b.epIsSafe(m)
			}
			return false
		}

		// Capture the checker or interpose.
		if (BB(checker)|Between(checker, ksq))&BB(to) == 0 {
			return false
		}
		return pinned&BB(from) == 0 || Aligned(from, to, ksq)
	}

	if m.IsEnPassant() {
		// Removing two pawns from one rank can uncover a rook or queen, a
		// case the pin mask cannot express. Play it out.
		return b.epIsSafe(m)
	}

	return pinned&BB(from) == 0 || Aligned(from, to, ksq)
}

// epVictim returns the square of the pawn an en passant capture removes.
func (b *Board) epVictim(to Square) Square {
	if b.SideToMove == White {
		return to - 8
	}
	return to + 8
}

func (b *Board) epIsSafe(m Move) bool {
	us := b.SideToMove
	ksq := b.KingSquare[us]
	u := b.MakeMove(m)
	safe := !b.IsAttacked(ksq, us.Opposite())
	b.UnmakeMove(m, u)
	return safe
}

// MakeMove applies m, which must come from this position's legal move set,
// and returns what UnmakeMove needs to reverse it. The hash is updated
// incrementally.
func (b *Board) MakeMove(m Move) Undo {
	u := Undo{
		Captured:      NoPiece,
		Rights:        b.Rights,
		EnPassant:     b.EnPassant,
		HalfmoveClock: b.HalfmoveClock,
		Hash:          b.Hash,
		Checkers:      b.Checkers,
	}

	us := b.SideToMove
	them := us.Opposite()
	from, to := m.From(), m.To()
	pt := b.PieceAt(from).Type()

	b.Hash ^= zobristSide
	b.Hash ^= zobristCastling[b.Rights]
	if b.EnPassant != NoSquare {
		b.Hash ^= zobristEP[b.EnPassant.File()]
	}
	b.EnPassant = NoSquare

	if m.IsEnPassant() {
		victim := b.epVictim(to)
		u.Captured = MakePiece(Pawn, them)
		b.dropPiece(them, Pawn, victim)
		b.Hash ^= zobristPiece[them][Pawn][victim]
	} else if victim := b.PieceAt(to); victim != NoPiece {
		u.Captured = victim
		b.dropPiece(them, victim.Type(), to)
		b.Hash ^= zobristPiece[them][victim.Type()][to]
	}

	b.shiftPiece(us, pt, from, to)
	b.Hash ^= zobristPiece[us][pt][from] ^ zobristPiece[us][pt][to]

	if m.IsPromotion() {
		promo := m.Promotion()
		b.dropPiece(us, Pawn, to)
		b.putPiece(MakePiece(promo, us), to)
		b.Hash ^= zobristPiece[us][Pawn][to] ^ zobristPiece[us][promo][to]
	}

	if m.IsCastle() {
		rookFrom, rookTo := rookCastleSquares(from, to)
		b.shiftPiece(us, Rook, rookFrom, rookTo)
		b.Hash ^= zobristPiece[us][Rook][rookFrom] ^ zobristPiece[us][Rook][rookTo]
	}

	b.Rights &= rightsMask[from] & rightsMask[to]
	b.Hash ^= zobristCastling[b.Rights]

	if pt == Pawn && absOf(int(to)-int(from)) == 16 {
		ep := Square((int(from) + int(to)) / 2)
		b.EnPassant = ep
		b.Hash ^= zobristEP[ep.File()]
	}

	if pt == Pawn || u.Captured != NoPiece {
		b.HalfmoveClock = 0
	} else {
		b.HalfmoveClock++
	}
	if us == Black {
		b.FullmoveNo++
	}

	b.SideToMove = them
	b.updateCheckers()
	return u
}

// UnmakeMove reverses MakeMove given the same move and its undo record,
// restoring the exact prior state including the hash.
func (b *Board) UnmakeMove(m Move, u Undo) {
	them := b.SideToMove
	us := them.Opposite()
	from, to := m.From(), m.To()

	b.SideToMove = us
	if us == Black {
		b.FullmoveNo--
	}

	if m.IsPromotion() {
		b.dropPiece(us, m.Promotion(), to)
		b.putPiece(MakePiece(Pawn, us), from)
	} else {
		b.shiftPiece(us, b.PieceAt(to).Type(), to, from)
	}

	if m.IsCastle() {
		rookFrom, rookTo := rookCastleSquares(from, to)
		b.shiftPiece(us, Rook, rookTo, rookFrom)
	}

	if u.Captured != NoPiece {
		sq := to
		if m.IsEnPassant() {
			sq = b.epVictim(to)
		}
		b.putPiece(u.Captured, sq)
	}

	b.Rights = u.Rights
	b.EnPassant = u.EnPassant
	b.HalfmoveClock = u.HalfmoveClock
	b.Hash = u.Hash
	b.Checkers = u.Checkers
}

// rookCastleSquares maps a king castling move to the rook's movement.
func rookCastleSquares(kFrom, kTo Square) (from, to Square) {
	rank := kFrom.Rank()
	if kTo > kFrom {
		return SquareOf(7, rank), SquareOf(5, rank)
	}
	return SquareOf(0, rank), SquareOf(3, rank)
}

// rightsMask[sq] clears the castling rights a move touching sq revokes.
var rightsMask [64]CastlingRights

func init() {
	for sq := range rightsMask {
		rightsMask[sq] = AllRights
	}
	rightsMask[A1] &^= WhiteOOO
	rightsMask[E1] &^= WhiteOO | WhiteOOO
	rightsMask[H1] &^= WhiteOO
	rightsMask[A8] &^= BlackOOO
	rightsMask[E8] &^= BlackOO | BlackOOO
	rightsMask[H8] &^= BlackOO
}

// HasLegalMoves reports whether any legal move exists, without building the
// full list.
func (b *Board) HasLegalMoves() bool {
	var pseudo MoveList
	b.generatePseudo(&pseudo, false)
	pinned := b.Pinned()
	ksq := b.KingSquare[b.SideToMove]
	inCheck := b.Checkers != 0
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Get(i)
		if !inCheck && m.From() != ksq && !m.IsEnPassant() && pinned&BB(m.From()) == 0 {
			return true
		}
		if b.isLegal(m, pinned) {
			return true
		}
	}
	return false
}

func (b *Board) IsCheckmate() bool { return b.InCheck() && !b.HasLegalMoves() }
func (b *Board) IsStalemate() bool { return !b.InCheck() && !b.HasLegalMoves() }

// IsDraw covers stalemate, the fifty-move rule and insufficient material.
// Repetition is tracked by the search, which owns the position history.
func (b *Board) IsDraw() bool {
	return b.IsStalemate() || b.HalfmoveClock >= 100 || b.InsufficientMaterial()
}

// InsufficientMaterial reports bare kings or king plus one minor piece
// against a bare king.
func (b *Board) InsufficientMaterial() bool {
	if b.Pieces[White][Pawn]|b.Pieces[Black][Pawn]|
		b.Pieces[White][Rook]|b.Pieces[Black][Rook]|
		b.Pieces[White][Queen]|b.Pieces[Black][Queen] != 0 {
		return false
	}
	wMinors := (b.Pieces[White][Knight] | b.Pieces[White][Bishop]).Count()
	bMinors := (b.Pieces[Black][Knight] | b.Pieces[Black][Bishop]).Count()
	return (wMinors <= 1 && bMinors == 0) || (bMinors <= 1 && wMinors == 0)
}

// Perft counts leaf nodes of the legal move tree to the given depth.
func (b *Board) Perft(depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var ml MoveList
	b.GenerateLegalMoves(&ml)
	if depth == 1 {
		return uint64(ml.Len())
	}
	var nodes uint64
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		u := b.MakeMove(m)
		nodes += b.Perft(depth - 1)
		b.UnmakeMove(m, u)
	}
	return nodes
}
