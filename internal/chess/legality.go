package chess

import "fmt"

// simulate plays m on b, runs fn, then restores b exactly. The restore is
// deferred so it also runs when fn returns early or panics.
func (b *BoardState) simulate(m Move, fn func(*BoardState) bool) bool {
	saved := *b
	defer func() { *b = saved }()
	b.ApplyRaw(m)
	return fn(b)
}

// leavesKingSafe reports whether m keeps the mover's king out of attack.
func (b *BoardState) leavesKingSafe(m Move) bool {
	mover := b.at(m.From).Color
	return b.simulate(m, func(after *BoardState) bool {
		king, ok := after.KingSquare(mover)
		if !ok {
			return false
		}
		return !after.IsAttacked(king, mover.Opposite())
	})
}

// FilterLegal keeps the moves that do not leave the mover's own king attacked.
// The board is unchanged when it returns.
func (b *BoardState) FilterLegal(moves []Move) []Move {
	legal := make([]Move, 0, len(moves))
	for _, m := range moves {
		if b.leavesKingSafe(m) {
			legal = append(legal, m)
		}
	}
	return legal
}

// LegalMoves returns the fully legal moves of the piece on from.
func (b *BoardState) LegalMoves(from Square) ([]Move, error) {
	pseudo, err := b.PseudoLegalMoves(from)
	if err != nil {
		return nil, err
	}
	if _, ok := b.KingSquare(b.at(from).Color); !ok {
		return nil, fmt.Errorf("%w: no %s king", ErrCorruptState, b.at(from).Color)
	}
	return b.FilterLegal(pseudo), nil
}

// AllLegalMoves returns every legal move of the side to move.
func (b *BoardState) AllLegalMoves() []Move {
	var all []Move
	for _, from := range b.Squares(b.toMove) {
		all = append(all, b.FilterLegal(b.pseudoLegal(from, b.at(from)))...)
	}
	return all
}

// HasLegalMove reports whether c has any legal move, stopping at the first one.
func (b *BoardState) HasLegalMove(c Color) bool {
	for _, from := range b.Squares(c) {
		for _, m := range b.pseudoLegal(from, b.at(from)) {
			if b.leavesKingSafe(m) {
				return true
			}
		}
	}
	return false
}

// ValidateMove checks a from/to request for the side to move and returns the
// matching generated move, flags included. The board is never modified.
func (b *BoardState) ValidateMove(from, to Square) (Move, error) {
	if !to.Valid() {
		return Move{}, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, to.Row, to.Col)
	}
	p, err := b.At(from)
	if err != nil {
		return Move{}, err
	}
	if p.IsEmpty() {
		return Move{}, fmt.Errorf("%w: %s", ErrEmptySquare, from)
	}
	if p.Color != b.toMove {
		return Move{}, fmt.Errorf("%w: %s on %s, %s to move", ErrWrongSideToMove, p, from, b.toMove)
	}
	legal, err := b.LegalMoves(from)
	if err != nil {
		return Move{}, err
	}
	want := Move{From: from, To: to}
	for _, m := range legal {
		if m.SameSquares(want) {
			return m, nil
		}
	}
	return Move{}, fmt.Errorf("%w: %s", ErrIllegalMove, want)
}

// ResolveMove returns the legal move matching m. A move without a promotion
// piece promotes to a queen; one naming a promotion piece must match the
// legal move.
func (b *BoardState) ResolveMove(m Move) (Move, error) {
	legal, err := b.ValidateMove(m.From, m.To)
	if err != nil {
		return Move{}, err
	}
	if m.Promotion != NoPieceType && m.Promotion != legal.Promotion {
		return Move{}, fmt.Errorf("%w: %s does not promote to %s", ErrMalformedMove, legal, m.Promotion)
	}
	return legal, nil
}

// Play validates m for the side to move and applies it.
func (b *BoardState) Play(m Move) (Move, error) {
	legal, err := b.ResolveMove(m)
	if err != nil {
		return Move{}, err
	}
	b.ApplyRaw(legal)
	return legal, nil
}
