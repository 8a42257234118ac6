package chess

import (
	"fmt"
	"strings"
)

// StandardBoard64 is the initial position, rank 8 to rank 1, file a to h.
const StandardBoard64 = "rnbqkbnr" + "pppppppp" + "        " + "        " +
	"        " + "        " + "PPPPPPPP" + "RNBQKBNR"

// FiftyMoveLimit is the half-move clock value at which the game is drawn.
const FiftyMoveLimit = 100

// CastlingRights holds whether each castle is still available: true only while
// neither the king nor that rook has left its home square.
type CastlingRights struct {
	WhiteKingside  bool `json:"whiteKingside"`
	WhiteQueenside bool `json:"whiteQueenside"`
	BlackKingside  bool `json:"blackKingside"`
	BlackQueenside bool `json:"blackQueenside"`
}

// Kingside reports the kingside right of c.
func (r CastlingRights) Kingside(c Color) bool {
	if c == White {
		return r.WhiteKingside
	}
	return r.BlackKingside
}

// Queenside reports the queenside right of c.
func (r CastlingRights) Queenside(c Color) bool {
	if c == White {
		return r.WhiteQueenside
	}
	return r.BlackQueenside
}

// BoardState is the full position. It is a comparable value: copying it takes a
// snapshot and == compares two positions bit for bit.
type BoardState struct {
	squares        [8][8]Piece
	toMove         Color
	castling       CastlingRights
	enPassant      Square
	halfMoveClock  int
	fullMoveNumber int
}

// NewBoardState returns the standard initial position with White to move.
func NewBoardState() *BoardState {
	b, err := ParseBoard64(StandardBoard64, White)
	if err != nil {
		panic(err)
	}
	return b
}

// ParseBoard64 builds a position from the 64-character encoding. Castling rights
// are granted for every king and rook standing on its home square.
func ParseBoard64(encoded string, toMove Color) (*BoardState, error) {
	if len(encoded) != 64 {
		return nil, fmt.Errorf("%w: want 64 characters, got %d", ErrInvalidBoard, len(encoded))
	}
	b := &BoardState{toMove: toMove, enPassant: NoSquare, fullMoveNumber: 1}
	for i := 0; i < 64; i++ {
		ch := encoded[i]
		if ch == ' ' {
			continue
		}
		p, ok := PieceFromSymbol(ch)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected %q at index %d", ErrInvalidBoard, ch, i)
		}
		b.squares[i/8][i%8] = p
	}
	b.castling = b.inferCastling()
	return b, nil
}

func (b *BoardState) inferCastling() CastlingRights {
	home := func(c Color, col int, t PieceType) bool {
		return b.squares[c.homeRow()][col].Is(t, c)
	}
	return CastlingRights{
		WhiteKingside:  home(White, 4, King) && home(White, 7, Rook),
		WhiteQueenside: home(White, 4, King) && home(White, 0, Rook),
		BlackKingside:  home(Black, 4, King) && home(Black, 7, Rook),
		BlackQueenside: home(Black, 4, King) && home(Black, 0, Rook),
	}
}

// Board64 renders the placement in the 64-character encoding.
func (b *BoardState) Board64() string {
	var sb strings.Builder
	sb.Grow(64)
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			sb.WriteByte(b.squares[row][col].Symbol())
		}
	}
	return sb.String()
}

// At returns the occupant of sq.
func (b *BoardState) At(sq Square) (Piece, error) {
	if !sq.Valid() {
		return NoPiece, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, sq.Row, sq.Col)
	}
	return b.squares[sq.Row][sq.Col], nil
}

// at is At for squares already known to be on the board.
func (b *BoardState) at(sq Square) Piece {
	return b.squares[sq.Row][sq.Col]
}

func (b *BoardState) set(sq Square, p Piece) {
	b.squares[sq.Row][sq.Col] = p
}

func (b *BoardState) ToMove() Color {
	return b.toMove
}

func (b *BoardState) Castling() CastlingRights {
	return b.castling
}

// EnPassantTarget returns the square skipped by the last double pawn advance.
func (b *BoardState) EnPassantTarget() (Square, bool) {
	return b.enPassant, b.enPassant.Valid()
}

func (b *BoardState) HalfMoveClock() int {
	return b.halfMoveClock
}

func (b *BoardState) FullMoveNumber() int {
	return b.fullMoveNumber
}

// KingSquare locates the king of c.
func (b *BoardState) KingSquare(c Color) (Square, bool) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if b.squares[row][col].Is(King, c) {
				return Square{Row: row, Col: col}, true
			}
		}
	}
	return NoSquare, false
}

// Squares returns every square holding a piece of c, rank 8 first.
func (b *BoardState) Squares(c Color) []Square {
	var out []Square
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := b.squares[row][col]
			if !p.IsEmpty() && p.Color == c {
				out = append(out, Square{Row: row, Col: col})
			}
		}
	}
	return out
}

// Count returns how many pieces c has on the board.
func (b *BoardState) Count(c Color) int {
	return len(b.Squares(c))
}

// ApplyRaw plays m without any legality check and flips the side to move.
// Castling moves relocate the rook, en-passant captures remove the pawn beside
// the mover and promotion replaces the pawn on arrival.
func (b *BoardState) ApplyRaw(m Move) {
	mover := b.at(m.From)
	captured := b.at(m.To)

	b.set(m.To, mover)
	b.set(m.From, NoPiece)

	if m.EnPassant {
		victim := Square{Row: m.From.Row, Col: m.To.Col}
		captured = b.at(victim)
		b.set(victim, NoPiece)
	}

	row := m.From.Row
	switch {
	case m.CastleKingside:
		b.set(Square{Row: row, Col: 5}, b.at(Square{Row: row, Col: 7}))
		b.set(Square{Row: row, Col: 7}, NoPiece)
	case m.CastleQueenside:
		b.set(Square{Row: row, Col: 3}, b.at(Square{Row: row, Col: 0}))
		b.set(Square{Row: row, Col: 0}, NoPiece)
	}

	if m.Promotion != NoPieceType {
		b.set(m.To, Piece{Type: m.Promotion, Color: mover.Color})
	}

	b.clearCastling(m.From)
	b.clearCastling(m.To)

	b.enPassant = NoSquare
	if mover.Type == Pawn && abs(m.To.Row-m.From.Row) == 2 {
		b.enPassant = Square{Row: (m.From.Row + m.To.Row) / 2, Col: m.From.Col}
	}

	if mover.Type == Pawn || !captured.IsEmpty() {
		b.halfMoveClock = 0
	} else {
		b.halfMoveClock++
	}
	if mover.Color == Black {
		b.fullMoveNumber++
	}
	b.toMove = mover.Color.Opposite()
}

// clearCastling drops the rights tied to a home square that a piece left or
// that was captured on.
func (b *BoardState) clearCastling(sq Square) {
	switch sq {
	case Square{Row: 7, Col: 4}:
		b.castling.WhiteKingside, b.castling.WhiteQueenside = false, false
	case Square{Row: 7, Col: 7}:
		b.castling.WhiteKingside = false
	case Square{Row: 7, Col: 0}:
		b.castling.WhiteQueenside = false
	case Square{Row: 0, Col: 4}:
		b.castling.BlackKingside, b.castling.BlackQueenside = false, false
	case Square{Row: 0, Col: 7}:
		b.castling.BlackKingside = false
	case Square{Row: 0, Col: 0}:
		b.castling.BlackQueenside = false
	}
}

// String draws the board as eight text rows, rank 8 first.
func (b *BoardState) String() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		sb.WriteByte(byte('8' - row))
		sb.WriteByte(' ')
		for col := 0; col < 8; col++ {
			ch := b.squares[row][col].Symbol()
			if ch == ' ' {
				ch = '.'
			}
			sb.WriteByte(ch)
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  abcdefgh\n")
	return sb.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
