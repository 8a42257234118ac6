package chess

import "fmt"

// Move is a single ply. Flags are filled in by the generator; a parsed move only
// carries From and To until it is matched against the legal set.
type Move struct {
	From            Square    `json:"from"`
	To              Square    `json:"to"`
	CastleKingside  bool      `json:"castleKingside,omitempty"`
	CastleQueenside bool      `json:"castleQueenside,omitempty"`
	EnPassant       bool      `json:"enPassant,omitempty"`
	Promotion       PieceType `json:"promotion,omitempty"`
}

// IsCastle reports whether m is either castling move.
func (m Move) IsCastle() bool {
	return m.CastleKingside || m.CastleQueenside
}

// SameSquares reports whether m and o move between the same squares.
func (m Move) SameSquares(o Move) bool {
	return m.From == o.From && m.To == o.To
}

// String renders m in coordinate form. Promotions carry a trailing "q" so the
// text stays valid for UCI consumers.
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.Promotion != NoPieceType {
		s += string(Piece{Type: m.Promotion, Color: Black}.Symbol())
	}
	return s
}

// ParseMove parses exactly four characters of coordinate notation, e.g. "e2e4".
// Promotion suffixes are not accepted.
func ParseMove(text string) (Move, error) {
	if len(text) != 4 {
		return Move{}, &MoveError{Err: ErrMalformedMove, Move: text}
	}
	for i := 0; i < 4; i += 2 {
		if text[i] < 'a' || text[i] > 'h' || text[i+1] < '1' || text[i+1] > '8' {
			return Move{}, &MoveError{Err: ErrMalformedMove, Move: text}
		}
	}
	from, _ := ParseSquare(text[:2])
	to, _ := ParseSquare(text[2:])
	return Move{From: from, To: to}, nil
}

// MustParseMove panics if text is not a coordinate move.
func MustParseMove(text string) Move {
	m, err := ParseMove(text)
	if err != nil {
		panic(fmt.Sprintf("chess: %v", err))
	}
	return m
}
