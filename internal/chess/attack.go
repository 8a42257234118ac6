package chess

type direction struct{ dr, dc int }

var (
	rookDirs   = []direction{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	bishopDirs = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	knightDirs = []direction{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
	kingDirs   = []direction{{0, 1}, {0, -1}, {1, 0}, {-1, 0}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// IsAttacked reports whether any piece of color by attacks sq. Off-board
// squares are never attacked. It does not consult move generation.
func (b *BoardState) IsAttacked(sq Square, by Color) bool {
	if !sq.Valid() {
		return false
	}

	// A pawn of by attacks sq from one row behind it, relative to by's advance.
	for _, dc := range [2]int{-1, 1} {
		from := sq.offset(-by.forward(), dc)
		if from.Valid() && b.at(from).Is(Pawn, by) {
			return true
		}
	}

	for _, d := range knightDirs {
		from := sq.offset(d.dr, d.dc)
		if from.Valid() && b.at(from).Is(Knight, by) {
			return true
		}
	}

	for _, d := range kingDirs {
		from := sq.offset(d.dr, d.dc)
		if from.Valid() && b.at(from).Is(King, by) {
			return true
		}
	}

	if b.rayHits(sq, rookDirs, by, Rook) || b.rayHits(sq, bishopDirs, by, Bishop) {
		return true
	}
	return false
}

// rayHits casts from sq along dirs and reports whether the first occupant met
// is a slider of type t or a queen belonging to by.
func (b *BoardState) rayHits(sq Square, dirs []direction, by Color, t PieceType) bool {
	for _, d := range dirs {
		for target := sq.offset(d.dr, d.dc); target.Valid(); target = target.offset(d.dr, d.dc) {
			p := b.at(target)
			if p.IsEmpty() {
				continue
			}
			if p.Color == by && (p.Type == t || p.Type == Queen) {
				return true
			}
			break
		}
	}
	return false
}

// InCheck reports whether c's king is attacked. A missing king is not in check.
func (b *BoardState) InCheck(c Color) bool {
	king, ok := b.KingSquare(c)
	if !ok {
		return false
	}
	return b.IsAttacked(king, c.Opposite())
}
