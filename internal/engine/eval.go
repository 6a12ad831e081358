// Package engine implements the search and evaluation core.
package engine

import (
	"github.com/georgemunyoro/rusty-redtail/internal/chess"
)

// Passed pawn bonus by relative rank. Index 1 is a pawn on its second rank,
// index 6 a pawn one step from promotion.
var passedPawnBonus = [8]int{0, 10, 20, 40, 70, 120, 200, 0}

const (
	passedPawnConnectedBonus = 20
	passedPawnProtectedBonus = 15
	passedPawnFreePathBonus  = 30
)

const (
	bishopPairMgBonus = 25
	bishopPairEgBonus = 50
)

const (
	rookOpenFileMg     = 20
	rookOpenFileEg     = 25
	rookSemiOpenFileMg = 10
	rookSemiOpenFileEg = 15
)

const (
	doubledPawnMgPenalty  = -15
	doubledPawnEgPenalty  = -20
	isolatedPawnMgPenalty = -20
	isolatedPawnEgPenalty = -25
)

// King distance bonus for passed pawns, indexed by closeness.
var kingDistanceBonus = [8]int{0, 0, 10, 20, 30, 40, 50, 60}

const passedPawnUnstoppableBonus = 200

// Piece-square tables, from White's perspective. White squares are flipped
// before lookup because the tables are written with rank 8 on top.

var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var kingMidgamePST = [64]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

var kingEndgamePST = [64]int{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

var psts = [...][64]int{
	pawnPST, knightPST, bishopPST, rookPST, queenPST, kingMidgamePST,
}

func pstSquare(sq chess.Square, c chess.Color) chess.Square {
	if c == chess.White {
		return sq.Flip()
	}
	return sq
}

// Evaluate returns the static evaluation of the position in centipawns from
// the side to move's perspective. Every term is computed identically for both
// colors, so mirroring the position negates the score exactly.
func Evaluate(b *chess.Board) int {
	return evaluate(b, nil)
}

// evaluate is Evaluate with an optional pawn structure cache. A nil cache
// computes everything from scratch and returns the same score.
func evaluate(b *chess.Board, pawns *PawnTable) int {
	var mgScore, egScore int
	var phase int

	for c := chess.White; c <= chess.Black; c++ {
		sign := 1
		if c == chess.Black {
			sign = -1
		}

		for pt := chess.Pawn; pt <= chess.King; pt++ {
			bb := b.Pieces[c][pt]
			for bb != 0 {
				sq := bb.Pop()

				mgScore += sign * chess.PieceValue[pt]
				egScore += sign * chess.PieceValue[pt]

				psq := pstSquare(sq, c)
				if pt == chess.King {
					mgScore += sign * kingMidgamePST[psq]
					egScore += sign * kingEndgamePST[psq]
				} else {
					v := psts[pt][psq]
					mgScore += sign * v
					egScore += sign * v
				}

				switch pt {
				case chess.Knight, chess.Bishop:
					phase++
				case chess.Rook:
					phase += 2
				case chess.Queen:
					phase += 4
				}
			}
		}
	}

	ppMg, ppEg := evaluatePassedPawns(b)
	mgScore += ppMg
	egScore += ppEg

	bpMg, bpEg := evaluateBishopPair(b)
	mgScore += bpMg
	egScore += bpEg

	rfMg, rfEg := evaluateRooksOnFiles(b)
	mgScore += rfMg
	egScore += rfEg

	var psMg, psEg int
	if pawns != nil {
		key := pawnKey(b)
		var ok bool
		psMg, psEg, ok = pawns.probe(key)
		if !ok {
			psMg, psEg = evaluatePawnStructure(b)
			pawns.store(key, psMg, psEg)
		}
	} else {
		psMg, psEg = evaluatePawnStructure(b)
	}
	mgScore += psMg
	egScore += psEg

	const maxPhase = 24
	if phase > maxPhase {
		phase = maxPhase
	}

	score := (mgScore*phase + egScore*(maxPhase-phase)) / maxPhase

	if b.SideToMove == chess.Black {
		return -score
	}
	return score
}

// frontSpan is every square ahead of sq on its own file, in the pawn's
// direction of travel.
func frontSpan(sq chess.Square, c chess.Color) chess.Bitboard {
	bb := chess.BB(sq)
	if c == chess.White {
		return bb.NorthFill() &^ bb
	}
	return bb.SouthFill() &^ bb
}

func adjacentFiles(file int) chess.Bitboard {
	var bb chess.Bitboard
	if file > 0 {
		bb |= chess.FileBB[file-1]
	}
	if file < 7 {
		bb |= chess.FileBB[file+1]
	}
	return bb
}

// isPassedPawn reports whether the pawn on sq has no enemy pawns ahead of it
// on its own or adjacent files.
func isPassedPawn(b *chess.Board, sq chess.Square, c chess.Color) bool {
	file := sq.File()
	zone := (chess.FileBB[file] | adjacentFiles(file)) & frontSpan(sq, c)
	return b.Pieces[c.Opposite()][chess.Pawn]&zone == 0
}

func relativeRank(sq chess.Square, c chess.Color) int {
	r := int(sq.Rank())
	if c == chess.Black {
		r = 7 - r
	}
	return r
}

func chebyshev(a, b chess.Square) int {
	df := int(a.File()) - int(b.File())
	dr := int(a.Rank()) - int(b.Rank())
	if df < 0 {
		df = -df
	}
	if dr < 0 {
		dr = -dr
	}
	if df > dr {
		return df
	}
	return dr
}

func evaluatePassedPawns(b *chess.Board) (mgBonus, egBonus int) {
	for c := chess.White; c <= chess.Black; c++ {
		sign := 1
		if c == chess.Black {
			sign = -1
		}

		friendlyPawns := b.Pieces[c][chess.Pawn]
		enemy := c.Opposite()
		friendlyKing := b.KingSquare[c]
		enemyKing := b.KingSquare[enemy]

		pawns := friendlyPawns
		for pawns != 0 {
			sq := pawns.Pop()

			if !isPassedPawn(b, sq, c) {
				continue
			}

			relRank := relativeRank(sq, c)
			file := sq.File()

			bonus := passedPawnBonus[relRank]
			egExtra := 0

			promoRank := 7
			if c == chess.Black {
				promoRank = 0
			}
			promoSq := chess.SquareOf(file, promoRank)

			// A supporting king nearby and a distant defending king
			// both matter most in the endgame.
			friendlyDist := chebyshev(friendlyKing, sq)
			if friendlyDist > 7 {
				friendlyDist = 7
			}
			egExtra += kingDistanceBonus[7-friendlyDist]

			enemyDistToPromo := chebyshev(enemyKing, promoSq)
			if enemyDistToPromo > 7 {
				enemyDistToPromo = 7
			}
			egExtra += kingDistanceBonus[enemyDistToPromo]

			if chess.PawnAttacks(enemy, sq)&friendlyPawns != 0 {
				bonus += passedPawnProtectedBonus
			}

			connected := friendlyPawns & adjacentFiles(file)
			for tmp := connected; tmp != 0; {
				connSq := tmp.Pop()
				if isPassedPawn(b, connSq, c) {
					bonus += passedPawnConnectedBonus
					break
				}
			}

			path := frontSpan(sq, c) & chess.FileBB[file]
			pathClear := path&b.Occupancy == 0
			if pathClear {
				bonus += passedPawnFreePathBonus
			}

			// Conservative unstoppable test: the defending king cannot
			// catch the pawn even with the move.
			if pathClear && relRank >= 4 {
				squaresToPromo := 7 - relRank
				if chebyshev(enemyKing, sq) > squaresToPromo+1 {
					egExtra += passedPawnUnstoppableBonus
				}
			}

			mgBonus += sign * bonus
			egBonus += sign * (bonus*3/2 + egExtra)
		}
	}
	return mgBonus, egBonus
}

func evaluateBishopPair(b *chess.Board) (mgBonus, egBonus int) {
	if b.Pieces[chess.White][chess.Bishop].Count() >= 2 {
		mgBonus += bishopPairMgBonus
		egBonus += bishopPairEgBonus
	}
	if b.Pieces[chess.Black][chess.Bishop].Count() >= 2 {
		mgBonus -= bishopPairMgBonus
		egBonus -= bishopPairEgBonus
	}
	return mgBonus, egBonus
}

func evaluateRooksOnFiles(b *chess.Board) (mgBonus, egBonus int) {
	for c := chess.White; c <= chess.Black; c++ {
		sign := 1
		if c == chess.Black {
			sign = -1
		}

		ownPawns := b.Pieces[c][chess.Pawn]
		enemyPawns := b.Pieces[c.Opposite()][chess.Pawn]

		rooks := b.Pieces[c][chess.Rook]
		for rooks != 0 {
			sq := rooks.Pop()
			file := chess.FileBB[sq.File()]

			switch {
			case file&(ownPawns|enemyPawns) == 0:
				mgBonus += sign * rookOpenFileMg
				egBonus += sign * rookOpenFileEg
			case file&ownPawns == 0:
				mgBonus += sign * rookSemiOpenFileMg
				egBonus += sign * rookSemiOpenFileEg
			}
		}
	}
	return mgBonus, egBonus
}

func evaluatePawnStructure(b *chess.Board) (mgBonus, egBonus int) {
	for c := chess.White; c <= chess.Black; c++ {
		sign := 1
		if c == chess.Black {
			sign = -1
		}

		pawns := b.Pieces[c][chess.Pawn]

		for file := 0; file < 8; file++ {
			onFile := pawns & chess.FileBB[file]
			if onFile == 0 {
				continue
			}

			if extra := onFile.Count() - 1; extra > 0 {
				mgBonus += sign * extra * doubledPawnMgPenalty
				egBonus += sign * extra * doubledPawnEgPenalty
			}

			if pawns&adjacentFiles(file) == 0 {
				mgBonus += sign * onFile.Count() * isolatedPawnMgPenalty
				egBonus += sign * onFile.Count() * isolatedPawnEgPenalty
			}
		}
	}
	return mgBonus, egBonus
}
