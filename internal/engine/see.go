package engine

import (
	"github.com/georgemunyoro/rusty-redtail/internal/chess"
)

// SEE estimates the material outcome of the capture sequence started by m on
// its destination square, in centipawns for the moving side. Non-captures
// score zero.
func SEE(b *chess.Board, m chess.Move) int {
	from := m.From()
	to := m.To()

	attacker := b.PieceAt(from)
	if attacker == chess.NoPiece {
		return 0
	}

	var gain int
	if m.IsEnPassant() {
		gain = chess.PieceValue[chess.Pawn]
	} else {
		victim := b.PieceAt(to)
		if victim == chess.NoPiece {
			return 0
		}
		gain = victim.Value()
	}

	if m.IsPromotion() {
		gain += chess.PieceValue[m.Promotion()] - chess.PieceValue[chess.Pawn]
	}

	return seeSwap(b, to, from, attacker, gain)
}

// seeSwap runs the swap algorithm: both sides capture on target with their
// least valuable attacker until one side stands pat, then the gain list is
// resolved back to front.
func seeSwap(b *chess.Board, target, firstFrom chess.Square, firstAttacker chess.Piece, initialGain int) int {
	var gain [32]int
	d := 0
	gain[d] = initialGain

	occupied := b.Occupancy &^ chess.BB(firstFrom)
	attackerValue := firstAttacker.Value()
	side := firstAttacker.Color().Opposite()

	for {
		d++
		gain[d] = attackerValue - gain[d-1]

		// Neither continuing nor stopping can help the side to move.
		if max(-gain[d-1], gain[d]) < 0 {
			break
		}

		sq, pt := leastValuableAttacker(b, target, side, occupied)
		if sq == chess.NoSquare {
			break
		}

		// Removing the attacker exposes any x-ray piece behind it to the
		// slider lookups on the next iteration.
		occupied &^= chess.BB(sq)
		attackerValue = chess.PieceValue[pt]
		side = side.Opposite()
	}

	for d--; d > 0; d-- {
		gain[d-1] = -max(-gain[d-1], gain[d])
	}
	return gain[0]
}

// leastValuableAttacker returns the cheapest piece of side attacking target
// given the current occupancy, or NoSquare when none remains.
func leastValuableAttacker(b *chess.Board, target chess.Square, side chess.Color, occupied chess.Bitboard) (chess.Square, chess.PieceType) {
	if att := b.Pieces[side][chess.Pawn] & chess.PawnAttacks(side.Opposite(), target) & occupied; att != 0 {
		return att.First(), chess.Pawn
	}
	if att := b.Pieces[side][chess.Knight] & chess.KnightAttacks(target) & occupied; att != 0 {
		return att.First(), chess.Knight
	}

	bishopAtt := chess.BishopAttacks(target, occupied)
	if att := b.Pieces[side][chess.Bishop] & bishopAtt & occupied; att != 0 {
		return att.First(), chess.Bishop
	}

	rookAtt := chess.RookAttacks(target, occupied)
	if att := b.Pieces[side][chess.Rook] & rookAtt & occupied; att != 0 {
		return att.First(), chess.Rook
	}
	if att := b.Pieces[side][chess.Queen] & (bishopAtt | rookAtt) & occupied; att != 0 {
		return att.First(), chess.Queen
	}
	if att := b.Pieces[side][chess.King] & chess.KingAttacks(target) & occupied; att != 0 {
		return att.First(), chess.King
	}
	return chess.NoSquare, chess.NoPieceType
}
