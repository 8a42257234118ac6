package chess

import "fmt"

// PseudoLegalMoves returns the moves of the piece on from that respect board
// geometry and never capture an own piece, without regard to king safety.
func (b *BoardState) PseudoLegalMoves(from Square) ([]Move, error) {
	p, err := b.At(from)
	if err != nil {
		return nil, err
	}
	if p.IsEmpty() {
		return nil, fmt.Errorf("%w: %s", ErrEmptySquare, from)
	}
	return b.pseudoLegal(from, p), nil
}

func (b *BoardState) pseudoLegal(from Square, p Piece) []Move {
	switch p.Type {
	case Pawn:
		return b.pawnMoves(from, p.Color)
	case Knight:
		return b.stepMoves(from, p.Color, knightDirs)
	case Bishop:
		return b.slideMoves(from, p.Color, bishopDirs)
	case Rook:
		return b.slideMoves(from, p.Color, rookDirs)
	case Queen:
		return append(b.slideMoves(from, p.Color, rookDirs), b.slideMoves(from, p.Color, bishopDirs)...)
	case King:
		return append(b.stepMoves(from, p.Color, kingDirs), b.castleMoves(from, p.Color)...)
	}
	return nil
}

func (b *BoardState) pawnMoves(from Square, c Color) []Move {
	var moves []Move
	dir := c.forward()
	lastRow := c.Opposite().homeRow()

	add := func(m Move) {
		if m.To.Row == lastRow {
			m.Promotion = Queen
		}
		moves = append(moves, m)
	}

	one := from.offset(dir, 0)
	if one.Valid() && b.at(one).IsEmpty() {
		add(Move{From: from, To: one})
		// Home rank is the row in front of the back rank.
		two := from.offset(2*dir, 0)
		if from.Row == c.homeRow()+dir && b.at(two).IsEmpty() {
			add(Move{From: from, To: two})
		}
	}

	for _, dc := range [2]int{-1, 1} {
		to := from.offset(dir, dc)
		if !to.Valid() {
			continue
		}
		if target := b.at(to); !target.IsEmpty() && target.Color != c {
			add(Move{From: from, To: to})
			continue
		}
		// The en-passant victim stands beside the mover, not on the target.
		if to == b.enPassant && b.at(from.offset(0, dc)).Is(Pawn, c.Opposite()) {
			add(Move{From: from, To: to, EnPassant: true})
		}
	}
	return moves
}

func (b *BoardState) stepMoves(from Square, c Color, dirs []direction) []Move {
	var moves []Move
	for _, d := range dirs {
		to := from.offset(d.dr, d.dc)
		if !to.Valid() {
			continue
		}
		if target := b.at(to); target.IsEmpty() || target.Color != c {
			moves = append(moves, Move{From: from, To: to})
		}
	}
	return moves
}

func (b *BoardState) slideMoves(from Square, c Color, dirs []direction) []Move {
	var moves []Move
	for _, d := range dirs {
		for to := from.offset(d.dr, d.dc); to.Valid(); to = to.offset(d.dr, d.dc) {
			target := b.at(to)
			if target.IsEmpty() {
				moves = append(moves, Move{From: from, To: to})
				continue
			}
			if target.Color != c {
				moves = append(moves, Move{From: from, To: to})
			}
			break
		}
	}
	return moves
}

// castleMoves adds the castles whose rights, occupancy and transit conditions
// hold. The king's destination square is left to the legality filter.
func (b *BoardState) castleMoves(from Square, c Color) []Move {
	row := c.homeRow()
	if from != (Square{Row: row, Col: 4}) {
		return nil
	}
	enemy := c.Opposite()
	if b.IsAttacked(from, enemy) {
		return nil
	}

	var moves []Move
	sq := func(col int) Square { return Square{Row: row, Col: col} }
	empty := func(cols ...int) bool {
		for _, col := range cols {
			if !b.at(sq(col)).IsEmpty() {
				return false
			}
		}
		return true
	}

	if b.castling.Kingside(c) && b.at(sq(7)).Is(Rook, c) &&
		empty(5, 6) && !b.IsAttacked(sq(5), enemy) {
		moves = append(moves, Move{From: from, To: sq(6), CastleKingside: true})
	}
	if b.castling.Queenside(c) && b.at(sq(0)).Is(Rook, c) &&
		empty(1, 2, 3) && !b.IsAttacked(sq(3), enemy) {
		moves = append(moves, Move{From: from, To: sq(2), CastleQueenside: true})
	}
	return moves
}
