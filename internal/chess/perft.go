package chess

// Perft counts the leaf nodes of the legal move tree to the given depth.
func Perft(b *BoardState, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := b.AllLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		saved := *b
		b.ApplyRaw(m)
		nodes += Perft(b, depth-1)
		*b = saved
	}
	return nodes
}

// DivideEntry is the subtree size below one root move.
type DivideEntry struct {
	Move  Move
	Nodes uint64
}

// PerftDivide returns the perft count below each legal root move, in
// generation order.
func PerftDivide(b *BoardState, depth int) []DivideEntry {
	if depth <= 0 {
		return nil
	}
	var out []DivideEntry
	for _, m := range b.AllLegalMoves() {
		saved := *b
		b.ApplyRaw(m)
		out = append(out, DivideEntry{Move: m, Nodes: Perft(b, depth-1)})
		*b = saved
	}
	return out
}
