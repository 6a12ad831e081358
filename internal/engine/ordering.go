package engine

import (
	"github.com/georgemunyoro/rusty-redtail/internal/chess"
)

// Move ordering scores, highest searched first.
const (
	ttMoveScore     = 10000000
	goodCaptureBase = 1000000
	killerScore1    = 900000
	killerScore2    = 800000
	badCaptureBase  = -100000
)

// MVV-LVA table indexed [victim][attacker]. Capturing a big piece with a
// small one sorts first.
var mvvLva = [6][6]int{
	{15, 14, 14, 13, 12, 11},
	{25, 24, 24, 23, 22, 21},
	{35, 34, 34, 33, 32, 31},
	{45, 44, 44, 43, 42, 41},
	{55, 54, 54, 53, 52, 51},
	{0, 0, 0, 0, 0, 0},
}

// Orderer holds the per-worker move ordering state: killer moves, the
// from-to history table and counter moves.
type Orderer struct {
	killers      [MaxPly][2]chess.Move
	history      [64][64]int
	counterMoves [12][64]chess.Move
}

func NewOrderer() *Orderer {
	return &Orderer{}
}

// Clear resets killers and counter moves and halves history scores so stale
// information fades between searches.
func (o *Orderer) Clear() {
	for i := range o.killers {
		o.killers[i][0] = chess.NoMove
		o.killers[i][1] = chess.NoMove
	}
	for i := range o.history {
		for j := range o.history[i] {
			o.history[i][j] /= 2
		}
	}
	for i := range o.counterMoves {
		for j := range o.counterMoves[i] {
			o.counterMoves[i][j] = chess.NoMove
		}
	}
}

func isCapture(b *chess.Board, m chess.Move) bool {
	return m.IsEnPassant() || b.PieceAt(m.To()) != chess.NoPiece
}

// ScoreMoves assigns an ordering score to every move in the list.
func (o *Orderer) ScoreMoves(b *chess.Board, moves *chess.MoveList, ply int, ttMove, prevMove chess.Move) []int {
	scores := make([]int, moves.Len())
	counter := o.counterMove(b, prevMove)

	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		scores[i] = o.scoreMove(b, m, ply, ttMove)
		if m == counter && scores[i] < killerScore2 {
			scores[i] = killerScore2 - 10000
		}
	}
	return scores
}

func (o *Orderer) scoreMove(b *chess.Board, m chess.Move, ply int, ttMove chess.Move) int {
	if m == ttMove {
		return ttMoveScore
	}

	from := m.From()
	to := m.To()

	if isCapture(b, m) {
		attacker := b.PieceAt(from).Type()

		victim := chess.Pawn
		if !m.IsEnPassant() {
			victim = b.PieceAt(to).Type()
		}

		score := goodCaptureBase + mvvLva[victim][attacker]*1000

		// Equal and winning captures keep their MVV-LVA order; captures
		// that lose material on the exchange sort below the quiet moves.
		if chess.PieceValue[attacker] > chess.PieceValue[victim] && SEE(b, m) < 0 {
			return badCaptureBase + mvvLva[victim][attacker]*1000
		}
		return score
	}

	if m.IsPromotion() {
		return goodCaptureBase - 1000 + int(m.Promotion())*100
	}

	if m == o.killers[ply][0] {
		return killerScore1
	}
	if m == o.killers[ply][1] {
		return killerScore2
	}

	return o.history[from][to]
}

// PickMove moves the best remaining move to index, sorting lazily since most
// nodes cut off after a move or two.
func PickMove(moves *chess.MoveList, scores []int, index int) {
	best := index
	for j := index + 1; j < moves.Len(); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != index {
		moves.Swap(index, best)
		scores[index], scores[best] = scores[best], scores[index]
	}
}

// UpdateKillers records a quiet move that caused a beta cutoff.
func (o *Orderer) UpdateKillers(m chess.Move, ply int) {
	if ply >= MaxPly {
		return
	}
	if o.killers[ply][0] == m {
		return
	}
	o.killers[ply][1] = o.killers[ply][0]
	o.killers[ply][0] = m
}

// UpdateHistory rewards or penalizes a quiet move with a depth-squared bonus.
func (o *Orderer) UpdateHistory(m chess.Move, depth int, good bool) {
	from := m.From()
	to := m.To()

	bonus := depth * depth
	if good {
		o.history[from][to] += bonus
		if o.history[from][to] > 400000 {
			for i := range o.history {
				for j := range o.history[i] {
					o.history[i][j] /= 2
				}
			}
		}
	} else {
		o.history[from][to] -= bonus
		if o.history[from][to] < -400000 {
			o.history[from][to] = -400000
		}
	}
}

// UpdateCounterMove remembers the refutation of the opponent's last move.
func (o *Orderer) UpdateCounterMove(b *chess.Board, prevMove, counter chess.Move) {
	if prevMove == chess.NoMove {
		return
	}
	piece := b.PieceAt(prevMove.To())
	if piece == chess.NoPiece {
		return
	}
	o.counterMoves[piece][prevMove.To()] = counter
}

func (o *Orderer) counterMove(b *chess.Board, prevMove chess.Move) chess.Move {
	if prevMove == chess.NoMove {
		return chess.NoMove
	}
	piece := b.PieceAt(prevMove.To())
	if piece == chess.NoPiece {
		return chess.NoMove
	}
	return o.counterMoves[piece][prevMove.To()]
}

// HistoryScore exposes the history value for pruning decisions.
func (o *Orderer) HistoryScore(m chess.Move) int {
	return o.history[m.From()][m.To()]
}
