package engine

import (
	"math"
	"sync/atomic"

	"github.com/georgemunyoro/rusty-redtail/internal/chess"
)

const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128
)

const lazyEvalMargin = 150

// Precomputed logarithmic late move reductions.
var lmrReductions [64][64]int

func init() {
	for d := 1; d < 64; d++ {
		for m := 1; m < 64; m++ {
			lmrReductions[d][m] = int(21.46 * math.Log(float64(d)) * math.Log(float64(m)) / 1024.0)
		}
	}
}

// pvTable stores the principal variation per ply.
type pvTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]chess.Move
}

// SharedHistory is a lock-free from-to history table shared by all search
// workers, so helper threads feed their cutoff knowledge back into ordering.
type SharedHistory struct {
	table [64][64]atomic.Int32
}

func NewSharedHistory() *SharedHistory {
	return &SharedHistory{}
}

func (h *SharedHistory) Update(from, to chess.Square, bonus int) {
	v := h.table[from][to].Add(int32(bonus))
	if v > 400000 {
		h.table[from][to].Store(v / 2)
	}
}

func (h *SharedHistory) Get(from, to chess.Square) int {
	return int(h.table[from][to].Load())
}

func (h *SharedHistory) Clear() {
	for i := range h.table {
		for j := range h.table[i] {
			h.table[i][j].Store(0)
		}
	}
}

// searcher runs one search thread over its own copy of the position. The
// transposition table, shared history and stop flag are common to all
// threads.
type searcher struct {
	pos     *chess.Board
	tt      *Table
	orderer *Orderer
	shared  *SharedHistory
	pawns   *PawnTable
	stop    *atomic.Bool

	nodes     uint64
	nodeLimit uint64
	seldepth  int

	// pruning enables every speculative technique: null move, reductions,
	// futility margins and transposition cutoffs. With it off the search
	// is plain alpha-beta and returns the exact fixed-depth value.
	pruning bool
	// quiesce controls whether horizon nodes run the capture search or
	// return the static evaluation directly.
	quiesce bool

	pv         pvTable
	undoStack  [MaxPly]chess.Undo
	evalStack  [MaxPly]int
	posHistory []uint64
}

func newSearcher(pos *chess.Board, tt *Table, shared *SharedHistory, stop *atomic.Bool) *searcher {
	return &searcher{
		pos:     pos,
		tt:      tt,
		orderer: NewOrderer(),
		shared:  shared,
		pawns:   NewPawnTable(1),
		stop:    stop,
		pruning: true,
		quiesce: true,
	}
}

// isDraw reports a draw by the fifty-move rule, insufficient material or
// repetition. A single repetition of a position on the search path is enough
// to score it as a draw.
func (s *searcher) isDraw() bool {
	if s.pos.HalfmoveClock >= 100 || s.pos.InsufficientMaterial() {
		return true
	}
	count := 0
	for _, h := range s.posHistory {
		if h == s.pos.Hash {
			count++
			if count >= 2 {
				return true
			}
		}
	}
	return false
}

func (s *searcher) negamax(depth, ply, alpha, beta int, prevMove chess.Move) int {
	if ply >= MaxPly-1 {
		return evaluate(s.pos, s.pawns)
	}

	if s.nodes&4095 == 0 {
		if s.nodeLimit > 0 && s.nodes >= s.nodeLimit {
			s.stop.Store(true)
		}
		if s.stop.Load() {
			return 0
		}
	}
	s.nodes++
	if ply > s.seldepth {
		s.seldepth = ply
	}

	s.pv.length[ply] = ply

	if ply > 0 && s.isDraw() {
		return 0
	}

	var ttMove chess.Move
	ttEntry, found := s.tt.Probe(s.pos.Hash)
	if found {
		ttMove = ttEntry.Move

		// An index collision survived the key check only if the hash
		// itself collided, but a stale move must still match the mover.
		if ttMove != chess.NoMove {
			piece := s.pos.PieceAt(ttMove.From())
			if piece == chess.NoPiece || piece.Color() != s.pos.SideToMove {
				ttMove = chess.NoMove
			}
		}

		if s.pruning && int(ttEntry.Depth) >= depth {
			score := scoreFromTT(int(ttEntry.Score), ply)
			switch ttEntry.Bound {
			case BoundExact:
				if ply == 0 && ttMove != chess.NoMove {
					s.pv.moves[0][0] = ttMove
					s.pv.length[0] = 1
				}
				return score
			case BoundLower:
				if score > alpha {
					alpha = score
				}
			case BoundUpper:
				if score < beta {
					beta = score
				}
			}
			if alpha >= beta {
				if ply == 0 && ttMove != chess.NoMove {
					s.pv.moves[0][0] = ttMove
					s.pv.length[0] = 1
				}
				return score
			}
		}
	}

	// Internal iterative deepening when no hash move is available.
	if s.pruning && depth >= 4 && ttMove == chess.NoMove {
		s.negamax(depth-2, ply, alpha, beta, prevMove)
		if ttEntry, found = s.tt.Probe(s.pos.Hash); found {
			ttMove = ttEntry.Move
		}
	}

	if depth <= 0 {
		if !s.quiesce {
			return evaluate(s.pos, s.pawns)
		}
		return s.quiescence(ply, 0, alpha, beta)
	}

	inCheck := s.pos.InCheck()

	extension := 0
	if s.pruning && inCheck {
		extension = 1
	}

	staticEval := evaluate(s.pos, s.pawns)
	s.evalStack[ply] = staticEval

	improving := false
	if ply >= 2 {
		improving = staticEval > s.evalStack[ply-2]
	}

	if s.pruning && !inCheck && ply > 0 {
		// Reverse futility: a quiet position so far above beta that no
		// tactic at this depth can bring it back down.
		if depth <= 6 {
			margin := 80 * depth
			if !improving {
				margin -= 20
			}
			if staticEval-margin >= beta {
				return beta
			}
		}

		if depth <= 2 && staticEval+300+100*depth <= alpha {
			score := s.quiescence(ply, 0, alpha, beta)
			if score <= alpha {
				return score
			}
		}

		// Null move pruning, skipped in pawn endings where zugzwang
		// makes the null hypothesis unsound.
		if depth >= 3 && s.pos.HasNonPawnMaterial() {
			r := 2 + depth/4
			if r > depth-1 {
				r = depth - 1
			}
			nu := s.pos.MakeNull()
			nullScore := -s.negamax(depth-1-r, ply+1, -beta, -beta+1, chess.NoMove)
			s.pos.UnmakeNull(nu)

			if nullScore >= beta {
				return beta
			}
		}
	}

	pruneQuiets := false
	if s.pruning && depth <= 3 && !inCheck && ply > 0 {
		futilityMargin := [4]int{0, 200, 300, 500}
		if staticEval+futilityMargin[depth] <= alpha {
			pruneQuiets = true
		}
	}

	var moves chess.MoveList
	s.pos.GenerateLegalMoves(&moves)

	if moves.Len() == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return 0
	}

	scores := s.orderer.ScoreMoves(s.pos, &moves, ply, ttMove, prevMove)

	bestScore := -Infinity
	bestMove := chess.NoMove
	bound := BoundUpper
	searched := 0

	// Quiet moves searched before a cutoff get a history penalty when a
	// later quiet move refutes the position.
	var quietsTried [64]chess.Move
	quietCount := 0

	for i := 0; i < moves.Len(); i++ {
		PickMove(&moves, scores, i)
		move := moves.Get(i)

		capture := isCapture(s.pos, move)
		promotion := move.IsPromotion()

		if pruneQuiets && !capture && !promotion && bestMove != chess.NoMove {
			continue
		}

		if s.pruning && capture && depth <= 3 && !inCheck && searched > 0 && SEE(s.pos, move) < 0 {
			continue
		}

		s.undoStack[ply] = s.pos.MakeMove(move)
		s.posHistory = append(s.posHistory, s.pos.Hash)
		searched++

		var score int
		newDepth := depth - 1 + extension

		if s.pruning && searched > 4 && depth >= 3 && !inCheck && !capture && !promotion {
			d := min(depth, 63)
			m := min(searched, 63)
			reduction := lmrReductions[d][m]

			if !improving {
				reduction++
			}
			if move == ttMove {
				reduction -= 2
			}

			hist := (s.orderer.HistoryScore(move) + s.shared.Get(move.From(), move.To())) / 2
			reduction -= hist / 8192

			if reduction < 1 {
				reduction = 1
			}
			reducedDepth := newDepth - reduction
			if reducedDepth < 1 {
				reducedDepth = 1
			}

			score = -s.negamax(reducedDepth, ply+1, -alpha-1, -alpha, move)
			if score > alpha {
				score = -s.negamax(newDepth, ply+1, -beta, -alpha, move)
			}
		} else if searched == 1 || !s.pruning {
			score = -s.negamax(newDepth, ply+1, -beta, -alpha, move)
		} else {
			score = -s.negamax(newDepth, ply+1, -alpha-1, -alpha, move)
			if score > alpha && score < beta {
				score = -s.negamax(newDepth, ply+1, -beta, -alpha, move)
			}
		}

		s.posHistory = s.posHistory[:len(s.posHistory)-1]
		s.pos.UnmakeMove(move, s.undoStack[ply])

		if s.stop.Load() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = move

			if score > alpha {
				alpha = score
				bound = BoundExact

				s.pv.moves[ply][ply] = move
				for j := ply + 1; j < s.pv.length[ply+1]; j++ {
					s.pv.moves[ply][j] = s.pv.moves[ply+1][j]
				}
				s.pv.length[ply] = s.pv.length[ply+1]
			}
		}

		if score >= beta {
			if ply == 0 && bestMove != chess.NoMove {
				s.pv.moves[0][0] = bestMove
				s.pv.length[0] = 1
			}

			s.tt.Store(s.pos.Hash, depth, scoreToTT(score, ply), BoundLower, bestMove)

			if !capture && !promotion {
				s.orderer.UpdateKillers(move, ply)
				s.orderer.UpdateHistory(move, depth, true)
				s.shared.Update(move.From(), move.To(), depth*depth)
				s.orderer.UpdateCounterMove(s.pos, prevMove, move)
				for j := 0; j < quietCount; j++ {
					s.orderer.UpdateHistory(quietsTried[j], depth, false)
				}
			}
			return score
		}

		if !capture && !promotion && quietCount < len(quietsTried) {
			quietsTried[quietCount] = move
			quietCount++
		}
	}

	s.tt.Store(s.pos.Hash, depth, scoreToTT(bestScore, ply), bound, bestMove)
	return bestScore
}

// quiescence resolves captures and promotions at the horizon so the returned
// score reflects a quiet position.
func (s *searcher) quiescence(ply, qPly, alpha, beta int) int {
	const maxQuiescencePly = 32
	if ply >= MaxPly || qPly > maxQuiescencePly {
		return evaluate(s.pos, s.pawns)
	}

	if s.stop.Load() {
		return 0
	}
	s.nodes++
	if ply > s.seldepth {
		s.seldepth = ply
	}

	// A material count alone can show the node is hopelessly outside the
	// window before paying for a full evaluation.
	lazy := materialEval(s.pos)
	if lazy-lazyEvalMargin >= beta {
		return beta
	}
	if lazy+lazyEvalMargin <= alpha {
		return alpha
	}

	standPat := evaluate(s.pos, s.pawns)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	if standPat+chess.PieceValue[chess.Queen] < alpha {
		return alpha
	}

	var moves chess.MoveList
	s.pos.GenerateNoisyMoves(&moves)
	scores := s.orderer.ScoreMoves(s.pos, &moves, min(ply, MaxPly-1), chess.NoMove, chess.NoMove)

	inCheck := s.pos.InCheck()

	for i := 0; i < moves.Len(); i++ {
		PickMove(&moves, scores, i)
		move := moves.Get(i)

		if !inCheck {
			gain := 0
			if move.IsEnPassant() {
				gain = chess.PieceValue[chess.Pawn]
			} else if victim := s.pos.PieceAt(move.To()); victim != chess.NoPiece {
				gain = victim.Value()
			}
			if move.IsPromotion() {
				gain += chess.PieceValue[chess.Queen] - chess.PieceValue[chess.Pawn]
			}
			if standPat+gain+200 < alpha {
				continue
			}
		}

		undo := s.pos.MakeMove(move)
		score := -s.quiescence(ply+1, qPly+1, -beta, -alpha)
		s.pos.UnmakeMove(move, undo)

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}

// materialEval is the bare material balance from the side to move's view.
func materialEval(b *chess.Board) int {
	score := 0
	for pt := chess.Pawn; pt < chess.King; pt++ {
		score += chess.PieceValue[pt] *
			(b.Pieces[chess.White][pt].Count() - b.Pieces[chess.Black][pt].Count())
	}
	if b.SideToMove == chess.Black {
		return -score
	}
	return score
}
