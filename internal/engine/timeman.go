package engine

import (
	"time"

	"github.com/georgemunyoro/rusty-redtail/internal/chess"
)

// Limits are the search constraints from the protocol layer. Zero values
// mean unconstrained.
type Limits struct {
	Time      [2]time.Duration // remaining clock per color
	Inc       [2]time.Duration // increment per move per color
	MovesToGo int              // moves until the next time control
	MoveTime  time.Duration    // fixed time for this move
	Depth     int
	Nodes     uint64
	Infinite  bool
}

// TimeManager turns a clock state into a soft optimum and a hard maximum for
// one move. Both are zero when the search is not time limited.
type TimeManager struct {
	optimum   time.Duration
	maximum   time.Duration
	stability int
}

func NewTimeManager(limits Limits, us chess.Color) *TimeManager {
	tm := &TimeManager{}

	if limits.MoveTime > 0 {
		tm.optimum = limits.MoveTime
		tm.maximum = limits.MoveTime
		return tm
	}

	if limits.Infinite || limits.Time[us] == 0 {
		return tm
	}

	timeLeft := limits.Time[us]
	inc := limits.Inc[us]

	// Sudden death: assume the game lasts a few dozen more moves.
	mtg := limits.MovesToGo
	if mtg == 0 {
		mtg = 40
	}

	base := timeLeft/time.Duration(mtg) + inc*9/10
	tm.optimum = base

	// Hard cap: a few times the optimum, but never enough to flag.
	tm.maximum = min(tm.optimum*5, timeLeft*8/10)
	if safety := timeLeft * 95 / 100; tm.maximum > safety {
		tm.maximum = safety
	}

	if tm.optimum < 10*time.Millisecond {
		tm.optimum = 10 * time.Millisecond
	}
	if tm.maximum < 50*time.Millisecond {
		tm.maximum = 50 * time.Millisecond
	}
	return tm
}

func (tm *TimeManager) Optimum() time.Duration { return tm.optimum }
func (tm *TimeManager) Maximum() time.Duration { return tm.maximum }

// Update tells the manager whether the best move survived the last
// iteration. A stable best move shortens the soft limit, a changing one
// stretches it toward the hard limit.
func (tm *TimeManager) Update(stable bool) {
	if tm.optimum == 0 {
		return
	}
	if stable {
		tm.stability++
		if tm.stability >= 4 {
			tm.optimum = tm.optimum * 85 / 100
		}
	} else {
		tm.stability = 0
		tm.optimum = tm.optimum * 120 / 100
		if tm.optimum > tm.maximum {
			tm.optimum = tm.maximum
		}
	}
}
