package tablebase

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/georgemunyoro/rusty-redtail/internal/chess"
)

const lichessEndpoint = "https://tablebase.lichess.ovh/standard"

// LichessProber looks positions up through the Lichess tablebase API. It
// needs network access and is rate limited, so it should sit behind the
// cache tiers.
type LichessProber struct {
	client    *http.Client
	endpoint  string
	maxPieces int
}

// NewLichessProber creates a prober against the public Lichess endpoint,
// which serves up to 7-piece tables.
func NewLichessProber() *LichessProber {
	return &LichessProber{
		client:    &http.Client{Timeout: 5 * time.Second},
		endpoint:  lichessEndpoint,
		maxPieces: 7,
	}
}

// SetMaxPieces lowers the piece count above which probes are skipped.
func (lp *LichessProber) SetMaxPieces(n int) {
	if n > 7 {
		n = 7
	}
	lp.maxPieces = n
}

type lichessResponse struct {
	Category string `json:"category"`
	DTZ      int    `json:"dtz"`
	Moves    []struct {
		UCI      string `json:"uci"`
		Category string `json:"category"`
		DTZ      int    `json:"dtz"`
	} `json:"moves"`
}

func (lp *LichessProber) query(b *chess.Board) (lichessResponse, bool) {
	var result lichessResponse

	// Lichess takes the FEN with underscores in place of spaces.
	fen := strings.ReplaceAll(b.FEN(), " ", "_")

	resp, err := lp.client.Get(fmt.Sprintf("%s?fen=%s", lp.endpoint, fen))
	if err != nil {
		return result, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return result, false
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return result, false
	}
	return result, true
}

func (lp *LichessProber) Probe(b *chess.Board) ProbeResult {
	if CountPieces(b) > lp.maxPieces {
		return ProbeResult{}
	}

	result, ok := lp.query(b)
	if !ok {
		return ProbeResult{}
	}
	return ProbeResult{
		Found: true,
		WDL:   categoryToWDL(result.Category),
		DTZ:   result.DTZ,
	}
}

func (lp *LichessProber) ProbeRoot(b *chess.Board) RootResult {
	if CountPieces(b) > lp.maxPieces {
		return RootResult{}
	}

	result, ok := lp.query(b)
	if !ok || len(result.Moves) == 0 {
		return RootResult{}
	}

	// Moves come back sorted best first for the side to move.
	best := result.Moves[0]
	move, err := chess.ParseMove(best.UCI, b)
	if err != nil {
		return RootResult{}
	}
	var legal chess.MoveList
	b.GenerateLegalMoves(&legal)
	if !legal.Contains(move) {
		return RootResult{}
	}

	return RootResult{
		Found: true,
		Move:  move,
		WDL:   categoryToWDL(best.Category),
		DTZ:   best.DTZ,
	}
}

func (lp *LichessProber) MaxPieces() int { return lp.maxPieces }

func (lp *LichessProber) Available() bool { return true }

func categoryToWDL(category string) WDL {
	switch category {
	case "win":
		return WDLWin
	case "maybe-win":
		return WDLCursedWin
	case "loss":
		return WDLLoss
	case "maybe-loss":
		return WDLBlessedLoss
	default:
		return WDLDraw
	}
}
