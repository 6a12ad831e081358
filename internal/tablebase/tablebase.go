// Package tablebase probes endgame tablebases for exact win/draw/loss
// results in low-piece positions.
package tablebase

import (
	"github.com/georgemunyoro/rusty-redtail/internal/chess"
)

// WDL is a win/draw/loss verdict from the perspective of the side to move.
type WDL int

const (
	WDLLoss        WDL = -2
	WDLBlessedLoss WDL = -1 // lost, but the fifty-move rule may save it
	WDLDraw        WDL = 0
	WDLCursedWin   WDL = 1 // won, but the fifty-move rule may spoil it
	WDLWin         WDL = 2
)

// ProbeResult is the outcome of a position lookup.
type ProbeResult struct {
	Found bool
	WDL   WDL
	DTZ   int // distance to the next pawn move or capture
}

// RootResult carries the tablebase-best move for a root position.
type RootResult struct {
	Found bool
	Move  chess.Move
	WDL   WDL
	DTZ   int
}

// Prober is implemented by every tablebase backend and cache tier.
type Prober interface {
	Probe(b *chess.Board) ProbeResult
	ProbeRoot(b *chess.Board) RootResult
	MaxPieces() int
	Available() bool
}

// WDLToScore maps a verdict onto the search score scale.
func WDLToScore(wdl WDL, ply int) int {
	const tbWin = 30000

	switch wdl {
	case WDLWin:
		return tbWin - ply
	case WDLCursedWin:
		return tbWin - 100 - ply
	case WDLBlessedLoss:
		return -tbWin + 100 + ply
	case WDLLoss:
		return -tbWin + ply
	default:
		return 0
	}
}

// NoopProber always misses. It stands in when probing is disabled.
type NoopProber struct{}

func (NoopProber) Probe(*chess.Board) ProbeResult   { return ProbeResult{} }
func (NoopProber) ProbeRoot(*chess.Board) RootResult { return RootResult{} }
func (NoopProber) MaxPieces() int                   { return 0 }
func (NoopProber) Available() bool                  { return false }

// CountPieces returns the number of pieces on the board.
func CountPieces(b *chess.Board) int {
	return b.Occupancy.Count()
}
