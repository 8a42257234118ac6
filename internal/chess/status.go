package chess

import "fmt"

type Status uint8

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
	Draw
)

var statusNames = [...]string{"ongoing", "checkmate", "stalemate", "draw"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether the game has ended.
func (s Status) Terminal() bool {
	return s != Ongoing
}

type DrawReason uint8

const (
	NoDraw DrawReason = iota
	InsufficientMaterial
	FiftyMoveRule
)

func (r DrawReason) String() string {
	switch r {
	case InsufficientMaterial:
		return "insufficientMaterial"
	case FiftyMoveRule:
		return "fiftyMoveRule"
	}
	return ""
}

func (r DrawReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Outcome classifies a position for its side to move.
type Outcome struct {
	Status     Status     `json:"status"`
	DrawReason DrawReason `json:"drawReason,omitempty"`
	InCheck    bool       `json:"inCheck"`
	// Winner is only meaningful when Status is Checkmate.
	Winner Color `json:"winner"`
}

// Evaluate classifies b for the side to move: checkmate or stalemate when it
// has no legal move, otherwise a draw by insufficient material or the fifty-move
// rule, otherwise ongoing. A missing king yields ErrCorruptState and an Ongoing
// outcome; it is never reported as a finished game.
func Evaluate(b *BoardState) (Outcome, error) {
	side := b.toMove
	king, ok := b.KingSquare(side)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: no %s king", ErrCorruptState, side)
	}
	if _, ok := b.KingSquare(side.Opposite()); !ok {
		return Outcome{}, fmt.Errorf("%w: no %s king", ErrCorruptState, side.Opposite())
	}

	out := Outcome{InCheck: b.IsAttacked(king, side.Opposite())}

	if !b.HasLegalMove(side) {
		if out.InCheck {
			out.Status = Checkmate
			out.Winner = side.Opposite()
		} else {
			out.Status = Stalemate
		}
		return out, nil
	}

	switch {
	case HasInsufficientMaterial(b):
		out.Status, out.DrawReason = Draw, InsufficientMaterial
	case b.halfMoveClock >= FiftyMoveLimit:
		out.Status, out.DrawReason = Draw, FiftyMoveRule
	}
	return out, nil
}

// HasInsufficientMaterial reports K v K, K+minor v K, and K+B v K+B with both
// bishops on squares of the same color.
func HasInsufficientMaterial(b *BoardState) bool {
	var minors [2][]PieceType
	var bishopLight [2]bool

	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := b.squares[row][col]
			switch p.Type {
			case NoPieceType, King:
				continue
			case Pawn, Rook, Queen:
				return false
			case Bishop:
				bishopLight[p.Color] = Square{Row: row, Col: col}.IsLight()
			}
			minors[p.Color] = append(minors[p.Color], p.Type)
		}
	}

	white, black := minors[White], minors[Black]
	switch {
	case len(white) == 0 && len(black) == 0:
		return true
	case len(white) == 0 && len(black) == 1:
		return true
	case len(black) == 0 && len(white) == 1:
		return true
	case len(white) == 1 && len(black) == 1:
		return white[0] == Bishop && black[0] == Bishop && bishopLight[White] == bishopLight[Black]
	}
	return false
}
