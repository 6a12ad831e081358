// Package book reads Polyglot opening books and picks weighted book moves.
package book

import (
	"encoding/binary"
	"io"
	"math/rand"
	"os"
	"sort"

	"github.com/georgemunyoro/rusty-redtail/internal/chess"
)

// Entry is one move stored for a position.
type Entry struct {
	Move   chess.Move
	Weight uint16
}

// Book maps position keys to their candidate moves.
type Book struct {
	entries map[uint64][]Entry
}

func New() *Book {
	return &Book{entries: make(map[uint64][]Entry)}
}

// LoadPolyglot reads a Polyglot book file.
func LoadPolyglot(filename string) (*Book, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadPolyglotReader(file)
}

// LoadPolyglotReader reads Polyglot entries from r. Each record is 16 bytes
// big-endian: key, move, weight and four bytes of learn data we ignore.
func LoadPolyglotReader(r io.Reader) (*Book, error) {
	b := New()

	var entry [16]byte
	for {
		if _, err := io.ReadFull(r, entry[:]); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}

		key := binary.BigEndian.Uint64(entry[0:8])
		moveData := binary.BigEndian.Uint16(entry[8:10])
		weight := binary.BigEndian.Uint16(entry[10:12])

		if move := decodePolyglotMove(moveData); move != chess.NoMove {
			b.entries[key] = append(b.entries[key], Entry{Move: move, Weight: weight})
		}
	}

	return b, nil
}

// decodePolyglotMove unpacks the Polyglot move encoding: to in bits 0-5,
// from in bits 6-11, promotion piece in bits 12-14.
func decodePolyglotMove(data uint16) chess.Move {
	to := chess.Square(data & 63)
	from := chess.Square((data >> 6) & 63)
	promo := (data >> 12) & 7

	// Polyglot encodes castling as king-takes-rook.
	switch {
	case from == chess.E1 && to == chess.H1:
		to = chess.G1
	case from == chess.E1 && to == chess.A1:
		to = chess.C1
	case from == chess.E8 && to == chess.H8:
		to = chess.G8
	case from == chess.E8 && to == chess.A8:
		to = chess.C8
	}

	if promo > 0 {
		if promo > 4 {
			return chess.NoMove
		}
		promoTypes := [5]chess.PieceType{0, chess.Knight, chess.Bishop, chess.Rook, chess.Queen}
		return chess.NewPromotion(from, to, promoTypes[promo])
	}
	return chess.NewMove(from, to)
}

// Probe returns a book move for the position, chosen at random in proportion
// to entry weight. Only moves legal in the position are returned.
func (b *Book) Probe(pos *chess.Board) (chess.Move, bool) {
	if b == nil {
		return chess.NoMove, false
	}

	entries, ok := b.entries[pos.PolyglotHash()]
	if !ok || len(entries) == 0 {
		return chess.NoMove, false
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Weight > entries[j].Weight
	})

	totalWeight := uint32(0)
	for _, e := range entries {
		totalWeight += uint32(e.Weight)
	}

	if totalWeight == 0 {
		return verify(pos, entries[0].Move)
	}

	r := rand.Uint32() % totalWeight
	cumulative := uint32(0)
	for _, e := range entries {
		cumulative += uint32(e.Weight)
		if r < cumulative {
			return verify(pos, e.Move)
		}
	}
	return verify(pos, entries[0].Move)
}

// ProbeAll returns every book move for the position, best weighted first.
func (b *Book) ProbeAll(pos *chess.Board) []Entry {
	if b == nil {
		return nil
	}

	entries, ok := b.entries[pos.PolyglotHash()]
	if !ok {
		return nil
	}

	result := make([]Entry, len(entries))
	copy(result, entries)
	sort.Slice(result, func(i, j int) bool {
		return result[i].Weight > result[j].Weight
	})
	return result
}

// verify matches the raw book move against the legal move list, picking up
// the castle and en passant flags the Polyglot encoding lacks.
func verify(pos *chess.Board, move chess.Move) (chess.Move, bool) {
	var legal chess.MoveList
	pos.GenerateLegalMoves(&legal)

	for i := 0; i < legal.Len(); i++ {
		lm := legal.Get(i)
		if lm.From() != move.From() || lm.To() != move.To() {
			continue
		}
		if move.IsPromotion() != lm.IsPromotion() {
			continue
		}
		if move.IsPromotion() && move.Promotion() != lm.Promotion() {
			continue
		}
		return lm, true
	}
	return chess.NoMove, false
}

// Size returns the number of positions in the book.
func (b *Book) Size() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}
