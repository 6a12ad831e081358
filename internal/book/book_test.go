package book

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/georgemunyoro/rusty-redtail/internal/chess"
)

func writeEntry(buf *bytes.Buffer, key uint64, move, weight uint16) {
	binary.Write(buf, binary.BigEndian, key)
	binary.Write(buf, binary.BigEndian, move)
	binary.Write(buf, binary.BigEndian, weight)
	binary.Write(buf, binary.BigEndian, uint32(0))
}

// encodeMove packs a move the Polyglot way: to in the low bits, from above
// it, both as rank*8+file.
func encodeMove(from, to chess.Square) uint16 {
	return uint16(to) | uint16(from)<<6
}

func TestBookLoadAndProbe(t *testing.T) {
	b := chess.NewBoard()
	key := b.PolyglotHash()

	var buf bytes.Buffer
	writeEntry(&buf, key, encodeMove(chess.E2, chess.E4), 100)

	bk, err := LoadPolyglotReader(&buf)
	if err != nil {
		t.Fatalf("LoadPolyglotReader: %v", err)
	}
	if bk.Size() != 1 {
		t.Errorf("book size %d, want 1", bk.Size())
	}

	move, found := bk.Probe(b)
	if !found {
		t.Fatal("book missed the starting position")
	}
	if move.From() != chess.E2 || move.To() != chess.E4 {
		t.Errorf("book move %s, want e2e4", move)
	}
}

func TestBookWeightedProbe(t *testing.T) {
	b := chess.NewBoard()
	key := b.PolyglotHash()

	var buf bytes.Buffer
	writeEntry(&buf, key, encodeMove(chess.E2, chess.E4), 1000)
	writeEntry(&buf, key, encodeMove(chess.D2, chess.D4), 500)
	writeEntry(&buf, key, encodeMove(chess.G1, chess.F3), 0)

	bk, err := LoadPolyglotReader(&buf)
	if err != nil {
		t.Fatalf("LoadPolyglotReader: %v", err)
	}

	all := bk.ProbeAll(b)
	if len(all) != 3 {
		t.Fatalf("ProbeAll returned %d entries, want 3", len(all))
	}
	if all[0].Weight != 1000 || all[2].Weight != 0 {
		t.Errorf("entries not sorted by weight: %+v", all)
	}

	// Every probe must return one of the stored moves, legal on the board.
	var legal chess.MoveList
	b.GenerateLegalMoves(&legal)
	for i := 0; i < 20; i++ {
		move, found := bk.Probe(b)
		if !found {
			t.Fatal("probe missed")
		}
		if !legal.Contains(move) {
			t.Fatalf("book returned illegal move %s", move)
		}
	}
}

func TestBookRejectsIllegalMove(t *testing.T) {
	b := chess.NewBoard()
	key := b.PolyglotHash()

	// e2e5 is not a legal move in the starting position.
	var buf bytes.Buffer
	writeEntry(&buf, key, encodeMove(chess.E2, chess.E5), 100)

	bk, err := LoadPolyglotReader(&buf)
	if err != nil {
		t.Fatalf("LoadPolyglotReader: %v", err)
	}

	if move, found := bk.Probe(b); found {
		t.Errorf("probe returned %s for an illegal book entry", move)
	}
}

func TestBookMiss(t *testing.T) {
	bk := New()
	b := chess.NewBoard()

	move, found := bk.Probe(b)
	if found || move != chess.NoMove {
		t.Errorf("empty book returned %s, found=%v", move, found)
	}
}

func TestDecodePolyglotMove(t *testing.T) {
	move := decodePolyglotMove(encodeMove(chess.E2, chess.E4))
	if move.From() != chess.E2 || move.To() != chess.E4 {
		t.Errorf("decoded %s, want e2e4", move)
	}

	// White kingside castle arrives as king takes own rook.
	move = decodePolyglotMove(encodeMove(chess.E1, chess.H1))
	if move.From() != chess.E1 || move.To() != chess.G1 {
		t.Errorf("decoded castle as %s, want e1g1", move)
	}

	// Promotion to queen.
	promo := encodeMove(chess.E7, chess.E8) | 4<<12
	move = decodePolyglotMove(promo)
	if !move.IsPromotion() || move.Promotion() != chess.Queen {
		t.Errorf("decoded promotion as %s", move)
	}
}
