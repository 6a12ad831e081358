package engine

import (
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/georgemunyoro/rusty-redtail/internal/chess"
)

// SearchInfo is the per-iteration progress report surfaced to the protocol
// layer.
type SearchInfo struct {
	Depth    int
	SelDepth int
	Score    int
	Nodes    uint64
	Time     time.Duration
	PV       []chess.Move
	HashFull int
}

// Engine drives iterative deepening over one or more search threads sharing
// a transposition table.
type Engine struct {
	tt      *Table
	shared  *SharedHistory
	orderer *Orderer
	stop    atomic.Bool
	threads int

	OnInfo func(SearchInfo)
}

// NewEngine creates an engine with a transposition table of ttSizeMB
// megabytes.
func NewEngine(ttSizeMB int) *Engine {
	return &Engine{
		tt:      NewTable(ttSizeMB),
		shared:  NewSharedHistory(),
		orderer: NewOrderer(),
		threads: 1,
	}
}

// SetThreads sets the number of search threads for subsequent searches.
func (e *Engine) SetThreads(n int) {
	if n < 1 {
		n = 1
	}
	e.threads = n
}

// ResizeTable replaces the transposition table. Not safe during a search.
func (e *Engine) ResizeTable(sizeMB int) {
	e.tt = NewTable(sizeMB)
}

// Stop aborts the current search; the best move found so far is returned.
func (e *Engine) Stop() {
	e.stop.Store(true)
}

// Clear drops all learned state between games.
func (e *Engine) Clear() {
	e.tt.Clear()
	e.shared.Clear()
	e.orderer = NewOrderer()
}

// Search runs an iterative deepening search on b and returns the best move
// with its score. history carries the hashes of positions played before b so
// repetitions across the game boundary are scored as draws. The board is
// mutated during the search and restored before returning.
func (e *Engine) Search(b *chess.Board, history []uint64, limits Limits) (chess.Move, int) {
	e.stop.Store(false)
	e.tt.NextSearch()
	start := time.Now()

	tm := NewTimeManager(limits, b.SideToMove)
	if maxTime := tm.Maximum(); maxTime > 0 {
		timer := time.AfterFunc(maxTime, func() { e.stop.Store(true) })
		defer timer.Stop()
	}

	maxDepth := MaxPly - 1
	if limits.Depth > 0 && limits.Depth < maxDepth {
		maxDepth = limits.Depth
	}

	// Helper threads run their own deepening loop over board copies. They
	// contribute through the shared transposition table and history and
	// are discarded when the main thread is done.
	var g errgroup.Group
	for i := 1; i < e.threads; i++ {
		offset := i % 2
		helper := newSearcher(b.Copy(), e.tt, e.shared, &e.stop)
		helper.posHistory = append([]uint64(nil), history...)
		g.Go(func() error {
			for depth := 1 + offset; depth <= maxDepth; depth++ {
				if e.stop.Load() {
					break
				}
				helper.negamax(depth, 0, -Infinity, Infinity, chess.NoMove)
			}
			return nil
		})
	}

	// The main thread keeps its ordering state across searches within a
	// game; Clear fades it so a stale refutation cannot dominate.
	e.orderer.Clear()
	main := newSearcher(b, e.tt, e.shared, &e.stop)
	main.orderer = e.orderer
	main.posHistory = append([]uint64(nil), history...)
	main.nodeLimit = limits.Nodes

	bestMove, bestScore := e.iterate(main, tm, start, maxDepth)

	e.stop.Store(true)
	_ = g.Wait()

	return bestMove, bestScore
}

func (e *Engine) iterate(s *searcher, tm *TimeManager, start time.Time, maxDepth int) (chess.Move, int) {
	const initialWindow = 50

	var bestMove chess.Move
	var bestScore int

	for depth := 1; depth <= maxDepth; depth++ {
		if e.stop.Load() {
			break
		}

		var score int
		if depth >= 5 && bestMove != chess.NoMove {
			alpha := bestScore - initialWindow
			beta := bestScore + initialWindow
			for {
				score = s.negamax(depth, 0, alpha, beta, chess.NoMove)
				if e.stop.Load() {
					break
				}
				if score <= alpha {
					alpha = -Infinity
				} else if score >= beta {
					beta = Infinity
				} else {
					break
				}
				if alpha == -Infinity && beta == Infinity {
					score = s.negamax(depth, 0, alpha, beta, chess.NoMove)
					break
				}
			}
		} else {
			score = s.negamax(depth, 0, -Infinity, Infinity, chess.NoMove)
		}

		if e.stop.Load() {
			break
		}

		var move chess.Move
		if s.pv.length[0] > 0 {
			move = s.pv.moves[0][0]
		}
		if move != chess.NoMove {
			tm.Update(move == bestMove)
			bestMove = move
			bestScore = score
		}

		if e.OnInfo != nil {
			e.OnInfo(SearchInfo{
				Depth:    depth,
				SelDepth: s.seldepth + 1,
				Score:    bestScore,
				Nodes:    s.nodes,
				Time:     time.Since(start),
				PV:       s.principalVariation(),
				HashFull: e.tt.Hashfull(),
			})
		}

		if bestScore > MateScore-100 || bestScore < -MateScore+100 {
			break
		}

		// Soft limit: starting another iteration that cannot finish in
		// the remaining optimum time just burns the clock.
		if opt := tm.Optimum(); opt > 0 && time.Since(start) >= opt {
			break
		}
	}

	// The first depth can be cut off before any move lands in the PV.
	if bestMove == chess.NoMove {
		var moves chess.MoveList
		s.pos.GenerateLegalMoves(&moves)
		if moves.Len() > 0 {
			bestMove = moves.Get(0)
		}
	}

	return bestMove, bestScore
}

func (s *searcher) principalVariation() []chess.Move {
	pv := make([]chess.Move, s.pv.length[0])
	copy(pv, s.pv.moves[0][:s.pv.length[0]])
	return pv
}
