package chess

import "fmt"

// Move packs a move into 16 bits:
//
//	bits 0-5   from square
//	bits 6-11  to square
//	bits 12-13 promotion piece minus Knight
//	bits 14-15 kind (normal, promotion, en passant, castling)
type Move uint16

const (
	KindNormal    uint16 = 0 << 14
	KindPromotion uint16 = 1 << 14
	KindEnPassant uint16 = 2 << 14
	KindCastle    uint16 = 3 << 14
)

// NoMove is the zero move, used as "none".
const NoMove Move = 0

func NewMove(from, to Square) Move { return Move(from) | Move(to)<<6 }

func NewPromotion(from, to Square, pt PieceType) Move {
	return NewMove(from, to) | Move(pt-Knight)<<12 | Move(KindPromotion)
}

func NewEnPassant(from, to Square) Move { return NewMove(from, to) | Move(KindEnPassant) }
func NewCastle(from, to Square) Move    { return NewMove(from, to) | Move(KindCastle) }

func (m Move) From() Square { return Square(m & 0x3F) }
func (m Move) To() Square   { return Square(m >> 6 & 0x3F) }
func (m Move) Kind() uint16 { return uint16(m) & 0xC000 }

// Promotion is meaningful only when Kind() == KindPromotion.
func (m Move) Promotion() PieceType { return PieceType(m>>12&3) + Knight }

func (m Move) IsPromotion() bool { return m.Kind() == KindPromotion }
func (m Move) IsEnPassant() bool { return m.Kind() == KindEnPassant }
func (m Move) IsCastle() bool    { return m.Kind() == KindCastle }

// String renders long algebraic notation ("e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string("nbrq"[m.Promotion()-Knight])
	}
	return s
}

// ParseMove reads long algebraic notation against a board, classifying
// castling and en passant from the position.
func ParseMove(s string, b *Board) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("bad move %q", s)
	}
	from, err := ParseSquare(s[:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	if len(s) == 5 {
		var pt PieceType
		switch s[4] {
		case 'n':
			pt = Knight
		case 'b':
			pt = Bishop
		case 'r':
			pt = Rook
		case 'q':
			pt = Queen
		default:
			return NoMove, fmt.Errorf("bad promotion piece %q", s[4])
		}
		return NewPromotion(from, to, pt), nil
	}

	p := b.PieceAt(from)
	if p == NoPiece {
		return NoMove, fmt.Errorf("no piece on %s", from)
	}
	if p.Type() == King && absOf(int(to)-int(from)) == 2 {
		return NewCastle(from, to), nil
	}
	if p.Type() == Pawn && to == b.EnPassant {
		return NewEnPassant(from, to), nil
	}
	return NewMove(from, to), nil
}

// MoveList collects moves without heap allocation. 256 bounds the legal
// move count of any reachable position.
type MoveList struct {
	moves [256]Move
	n     int
}

func (ml *MoveList) Add(m Move)      { ml.moves[ml.n] = m; ml.n++ }
func (ml *MoveList) Len() int        { return ml.n }
func (ml *MoveList) Get(i int) Move  { return ml.moves[i] }
func (ml *MoveList) Swap(i, j int)   { ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i] }
func (ml *MoveList) Clear()          { ml.n = 0 }
func (ml *MoveList) Slice() []Move   { return ml.moves[:ml.n] }

func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.n; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Undo records only the state MakeMove destroys. It is small enough to keep
// one per search ply on the stack; UnmakeMove rebuilds everything else by
// reversing the piece movement itself.
type Undo struct {
	Captured      Piece
	Rights        CastlingRights
	EnPassant     Square
	HalfmoveClock int
	Hash          uint64
	Checkers      Bitboard
}
