// Package uci speaks the Universal Chess Interface protocol over a pair of
// streams.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/georgemunyoro/rusty-redtail/internal/book"
	"github.com/georgemunyoro/rusty-redtail/internal/chess"
	"github.com/georgemunyoro/rusty-redtail/internal/engine"
	"github.com/georgemunyoro/rusty-redtail/internal/storage"
	"github.com/georgemunyoro/rusty-redtail/internal/tablebase"
)

const (
	engineName   = "redtail"
	engineAuthor = "George Munyoro"
)

// Session runs the protocol loop for one GUI connection.
type Session struct {
	engine *engine.Engine
	board  *chess.Board

	// Hashes of every position of the game so far, for repetition scoring.
	history []uint64

	opts   storage.Options
	store  *storage.Store
	book   *book.Book
	prober tablebase.Prober

	in  io.Reader
	out io.Writer
	mu  sync.Mutex // serializes writes from the loop and the search goroutine

	searchDone chan struct{}
}

// New creates a session reading commands from in and writing responses to
// out.
func New(eng *engine.Engine, in io.Reader, out io.Writer) *Session {
	s := &Session{
		engine: eng,
		board:  chess.NewBoard(),
		opts:   storage.DefaultOptions(),
		in:     in,
		out:    out,
	}
	s.history = []uint64{s.board.Hash}
	return s
}

// SetStore attaches the persistent store and applies any saved options.
func (s *Session) SetStore(st *storage.Store) {
	s.store = st
	opts, err := st.LoadOptions()
	if err != nil {
		s.printf("info string stored options unreadable: %v\n", err)
		return
	}
	s.opts = opts
	s.applyOptions()
}

func (s *Session) applyOptions() {
	s.engine.ResizeTable(s.opts.Hash)
	s.engine.SetThreads(s.opts.Threads)
	if s.opts.OwnBook && s.opts.BookFile != "" && s.book == nil {
		s.loadBook(s.opts.BookFile)
	}
	if s.opts.OnlineTablebase {
		s.initProber()
	}
}

func (s *Session) printf(format string, args ...any) {
	s.mu.Lock()
	fmt.Fprintf(s.out, format, args...)
	s.mu.Unlock()
}

// Run processes commands until "quit" or the input stream closes.
func (s *Session) Run() error {
	scanner := bufio.NewScanner(s.in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			s.handleUCI()
		case "isready":
			s.printf("readyok\n")
		case "ucinewgame":
			s.handleNewGame()
		case "position":
			s.handlePosition(args)
		case "go":
			s.handleGo(args)
		case "stop":
			s.handleStop()
		case "setoption":
			s.handleSetOption(args)
		case "quit":
			s.handleStop()
			return scanner.Err()
		case "d":
			s.printf("%s\n", s.board)
		case "perft":
			s.handlePerft(args)
		}
	}
	s.handleStop()
	return scanner.Err()
}

func (s *Session) handleUCI() {
	s.printf("id name %s\n", engineName)
	s.printf("id author %s\n", engineAuthor)
	s.printf("\n")
	s.printf("option name Hash type spin default %d min 1 max 4096\n", storage.DefaultOptions().Hash)
	s.printf("option name Threads type spin default 1 min 1 max 64\n")
	s.printf("option name OwnBook type check default false\n")
	s.printf("option name BookFile type string default <empty>\n")
	s.printf("option name OnlineTablebase type check default false\n")
	s.printf("option name TablebaseMaxPieces type spin default 7 min 3 max 7\n")
	s.printf("uciok\n")
}

func (s *Session) handleNewGame() {
	s.engine.Clear()
	s.board = chess.NewBoard()
	s.history = []uint64{s.board.Hash}
}

// handlePosition handles "position startpos [moves ...]" and
// "position fen <fen> [moves ...]".
func (s *Session) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var board *chess.Board
	switch args[0] {
	case "startpos":
		board = chess.NewBoard()
	case "fen":
		b, err := chess.ParseFEN(strings.Join(args[1:movesAt], " "))
		if err != nil {
			s.printf("info string invalid fen: %v\n", err)
			return
		}
		board = b
	default:
		return
	}

	// A bad move rejects the whole command; the current position stays.
	history := []uint64{board.Hash}
	for _, moveStr := range args[min(movesAt+1, len(args)):] {
		move, err := chess.ParseMove(moveStr, board)
		if err != nil {
			s.printf("info string invalid move %s: %v\n", moveStr, err)
			return
		}
		var legal chess.MoveList
		board.GenerateLegalMoves(&legal)
		if !legal.Contains(move) {
			s.printf("info string illegal move %s\n", moveStr)
			return
		}
		board.MakeMove(move)
		history = append(history, board.Hash)
	}

	s.board = board
	s.history = history
}

func (s *Session) handleGo(args []string) {
	if s.searchActive() {
		return
	}

	limits := parseGoArgs(args)

	// The book and tablebase both answer at the root without searching.
	if move, ok := s.bookMove(); ok {
		s.printf("bestmove %s\n", move)
		return
	}
	if move, ok := s.tablebaseMove(); ok {
		s.printf("bestmove %s\n", move)
		return
	}

	s.engine.OnInfo = func(info engine.SearchInfo) {
		s.sendInfo(info)
	}

	s.searchDone = make(chan struct{})

	b := s.board.Copy()
	history := append([]uint64(nil), s.history...)

	go func() {
		defer close(s.searchDone)

		move, _ := s.engine.Search(b, history, limits)

		var legal chess.MoveList
		b.GenerateLegalMoves(&legal)
		if legal.Contains(move) {
			s.printf("bestmove %s\n", move)
			return
		}
		if legal.Len() > 0 {
			s.printf("bestmove %s\n", legal.Get(0))
			return
		}
		s.printf("bestmove 0000\n")
	}()
}

func (s *Session) bookMove() (chess.Move, bool) {
	if !s.opts.OwnBook || s.book == nil {
		return chess.NoMove, false
	}
	return s.book.Probe(s.board)
}

func (s *Session) tablebaseMove() (chess.Move, bool) {
	if s.prober == nil || !s.prober.Available() {
		return chess.NoMove, false
	}
	if tablebase.CountPieces(s.board) > s.prober.MaxPieces() {
		return chess.NoMove, false
	}
	result := s.prober.ProbeRoot(s.board)
	if !result.Found {
		return chess.NoMove, false
	}
	s.printf("info string tablebase wdl %d dtz %d\n", result.WDL, result.DTZ)
	return result.Move, true
}

func parseGoArgs(args []string) engine.Limits {
	var limits engine.Limits

	ms := func(i int) time.Duration {
		if i >= len(args) {
			return 0
		}
		v, _ := strconv.Atoi(args[i])
		return time.Duration(v) * time.Millisecond
	}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				limits.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "nodes":
			if i+1 < len(args) {
				limits.Nodes, _ = strconv.ParseUint(args[i+1], 10, 64)
				i++
			}
		case "movetime":
			limits.MoveTime = ms(i + 1)
			i++
		case "wtime":
			limits.Time[chess.White] = ms(i + 1)
			i++
		case "btime":
			limits.Time[chess.Black] = ms(i + 1)
			i++
		case "winc":
			limits.Inc[chess.White] = ms(i + 1)
			i++
		case "binc":
			limits.Inc[chess.Black] = ms(i + 1)
			i++
		case "movestogo":
			if i+1 < len(args) {
				limits.MovesToGo, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "infinite":
			limits.Infinite = true
		}
	}

	return limits
}

func (s *Session) sendInfo(info engine.SearchInfo) {
	var parts []string

	parts = append(parts, fmt.Sprintf("depth %d", info.Depth))
	parts = append(parts, fmt.Sprintf("seldepth %d", info.SelDepth))

	switch {
	case info.Score > engine.MateScore-100:
		parts = append(parts, fmt.Sprintf("score mate %d", (engine.MateScore-info.Score+1)/2))
	case info.Score < -engine.MateScore+100:
		parts = append(parts, fmt.Sprintf("score mate %d", -(engine.MateScore+info.Score+1)/2))
	default:
		parts = append(parts, fmt.Sprintf("score cp %d", info.Score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))
	if info.Time > 0 {
		parts = append(parts, fmt.Sprintf("nps %d", uint64(float64(info.Nodes)/info.Time.Seconds())))
	}
	if info.HashFull > 0 {
		parts = append(parts, fmt.Sprintf("hashfull %d", info.HashFull))
	}

	if len(info.PV) > 0 {
		pv := make([]string, len(info.PV))
		for i, m := range info.PV {
			pv[i] = m.String()
		}
		parts = append(parts, "pv "+strings.Join(pv, " "))
	}

	s.printf("info %s\n", strings.Join(parts, " "))
}

// searchActive reports whether a search goroutine is still running.
func (s *Session) searchActive() bool {
	if s.searchDone == nil {
		return false
	}
	select {
	case <-s.searchDone:
		s.searchDone = nil
		return false
	default:
		return true
	}
}

func (s *Session) handleStop() {
	if s.searchDone == nil {
		return
	}
	s.engine.Stop()
	<-s.searchDone
	s.searchDone = nil
}

func (s *Session) handleSetOption(args []string) {
	name, value := parseSetOption(args)

	switch strings.ToLower(name) {
	case "hash":
		if mb, err := strconv.Atoi(value); err == nil && mb >= 1 {
			s.opts.Hash = mb
			s.engine.ResizeTable(mb)
		}
	case "threads":
		if n, err := strconv.Atoi(value); err == nil && n >= 1 {
			s.opts.Threads = n
			s.engine.SetThreads(n)
		}
	case "ownbook":
		s.opts.OwnBook = strings.EqualFold(value, "true")
		if s.opts.OwnBook && s.book == nil && s.opts.BookFile != "" {
			s.loadBook(s.opts.BookFile)
		}
	case "bookfile":
		s.opts.BookFile = value
		s.loadBook(value)
	case "onlinetablebase":
		s.opts.OnlineTablebase = strings.EqualFold(value, "true")
		if s.opts.OnlineTablebase {
			s.initProber()
		} else {
			s.prober = nil
		}
	case "tablebasemaxpieces":
		if n, err := strconv.Atoi(value); err == nil && n >= 3 {
			s.opts.TablebaseMaxPieces = n
			if s.opts.OnlineTablebase {
				s.initProber()
			}
		}
	default:
		return
	}

	if s.store != nil {
		if err := s.store.SaveOptions(s.opts); err != nil {
			s.printf("info string options not saved: %v\n", err)
		}
	}
}

func parseSetOption(args []string) (name, value string) {
	reading := ""
	for _, arg := range args {
		switch arg {
		case "name":
			reading = "name"
		case "value":
			reading = "value"
		default:
			switch reading {
			case "name":
				if name != "" {
					name += " "
				}
				name += arg
			case "value":
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}
	return name, value
}

// UseBook enables the opening book from a Polyglot file, as if the GUI had
// set BookFile and OwnBook.
func (s *Session) UseBook(path string) {
	s.opts.OwnBook = true
	s.opts.BookFile = path
	s.loadBook(path)
}

func (s *Session) loadBook(path string) {
	if path == "" {
		return
	}
	bk, err := book.LoadPolyglot(path)
	if err != nil {
		s.printf("info string book not loaded: %v\n", err)
		return
	}
	s.book = bk
	s.printf("info string book loaded, %d positions\n", bk.Size())
}

// initProber builds the probe chain: memory cache in front, then the
// persistent store when one is attached, then the Lichess API.
func (s *Session) initProber() {
	lichess := tablebase.NewLichessProber()
	lichess.SetMaxPieces(s.opts.TablebaseMaxPieces)

	var chain tablebase.Prober = lichess
	if s.store != nil {
		chain = tablebase.NewPersistentProber(chain, s.store)
	}
	s.prober = tablebase.NewCachedProber(chain, 100000)
}

func (s *Session) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil && d >= 0 {
			depth = d
		}
	}

	start := time.Now()
	nodes := s.board.Perft(depth)
	elapsed := time.Since(start)

	s.printf("nodes %d\n", nodes)
	s.printf("time %v\n", elapsed)
	if elapsed > 0 {
		s.printf("nps %.0f\n", float64(nodes)/elapsed.Seconds())
	}
}
