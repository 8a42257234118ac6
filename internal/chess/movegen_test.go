package chess_test

import (
	"errors"
	"testing"

	"github.com/benbeisheim/chesscore/internal/chess"
	"github.com/benbeisheim/chesscore/internal/testutil"
)

func TestPseudoLegalMoves_StartPosition(t *testing.T) {
	tests := []struct {
		from string
		want []string
	}{
		{"e2", []string{"e3", "e4"}},
		{"g1", []string{"f3", "h3"}},
		{"b8", []string{"a6", "c6"}},
		{"a1", nil},
		{"d1", nil},
		{"e1", nil},
		{"c8", nil},
	}

	b := chess.NewBoardState()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.from, func(t *testing.T) {
			moves, err := b.PseudoLegalMoves(chess.MustSquare(tt.from))
			if err != nil {
				t.Fatalf("PseudoLegalMoves(%s) error: %v", tt.from, err)
			}
			testutil.AssertSameSet(t, testutil.Destinations(moves), tt.want, "destinations of "+tt.from)
		})
	}
}

func TestPseudoLegalMoves_Errors(t *testing.T) {
	b := chess.NewBoardState()
	if _, err := b.PseudoLegalMoves(chess.MustSquare("e4")); !errors.Is(err, chess.ErrEmptySquare) {
		t.Errorf("PseudoLegalMoves(e4) error = %v, want ErrEmptySquare", err)
	}
	if _, err := b.PseudoLegalMoves(chess.Square{Row: 9, Col: 1}); !errors.Is(err, chess.ErrOutOfBounds) {
		t.Errorf("PseudoLegalMoves(off board) error = %v, want ErrOutOfBounds", err)
	}
}

func TestPseudoLegalMoves_PieceGeometry(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		from string
		want []string
	}{
		{
			name: "rook stops at own piece and captures enemy",
			fen:  "4k3/8/8/8/1p1R2P1/8/8/4K3 w - - 0 1",
			from: "d4",
			want: []string{"d5", "d6", "d7", "d8", "d3", "d2", "d1", "c4", "b4", "e4", "f4"},
		},
		{
			name: "bishop in corner",
			fen:  "4k3/8/8/8/8/8/8/B3K3 w - - 0 1",
			from: "a1",
			want: []string{"b2", "c3", "d4", "e5", "f6", "g7", "h8"},
		},
		{
			name: "queen is rook plus bishop",
			fen:  "4k3/8/8/8/8/8/1P6/QP2K3 w - - 0 1",
			from: "a1",
			want: []string{"a2", "a3", "a4", "a5", "a6", "a7", "a8"},
		},
		{
			name: "knight on rim skips own pieces",
			fen:  "4k3/8/8/8/8/1P6/2P5/N3K3 w - - 0 1",
			from: "a1",
			want: nil,
		},
		{
			name: "king in center",
			fen:  "4k3/8/8/8/3K4/8/8/8 w - - 0 1",
			from: "d4",
			want: []string{"c3", "c4", "c5", "d3", "d5", "e3", "e4", "e5"},
		},
		{
			name: "pawn blocked",
			fen:  "4k3/8/8/8/8/4n3/4P3/4K3 w - - 0 1",
			from: "e2",
			want: nil,
		},
		{
			name: "pawn double step blocked on second square",
			fen:  "4k3/8/8/8/4n3/8/4P3/4K3 w - - 0 1",
			from: "e2",
			want: []string{"e3"},
		},
		{
			name: "pawn off home rank has no double step",
			fen:  "4k3/8/8/8/8/4P3/8/4K3 w - - 0 1",
			from: "e3",
			want: []string{"e4"},
		},
		{
			name: "black pawn captures forward diagonals",
			fen:  "4k3/3p4/2N1B3/8/8/8/8/4K3 b - - 0 1",
			from: "d7",
			want: []string{"d6", "d5", "c6", "e6"},
		},
		{
			name: "en passant needs a pawn beside the mover",
			fen:  "4k3/8/8/4P3/8/8/8/4K3 w - d6 0 1",
			from: "e5",
			want: []string{"e6"},
		},
		{
			name: "en passant onto target",
			fen:  "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1",
			from: "e5",
			want: []string{"e6", "d6"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := testutil.MustFEN(t, tt.fen)
			moves, err := b.PseudoLegalMoves(chess.MustSquare(tt.from))
			if err != nil {
				t.Fatalf("PseudoLegalMoves(%s) error: %v", tt.from, err)
			}
			testutil.AssertSameSet(t, testutil.Destinations(moves), tt.want, tt.name)
		})
	}
}

func TestPseudoLegalMoves_EnPassantFlag(t *testing.T) {
	b := testutil.MustFEN(t, "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1")
	moves, err := b.PseudoLegalMoves(chess.MustSquare("e5"))
	if err != nil {
		t.Fatalf("PseudoLegalMoves() error: %v", err)
	}
	for _, m := range moves {
		if got, want := m.EnPassant, m.To.String() == "d6"; got != want {
			t.Errorf("%s EnPassant = %v, want %v", m, got, want)
		}
	}
}

// TestSlidingPathIntegrity checks that every slider destination has an empty
// path and lands on an empty or enemy square.
func TestSlidingPathIntegrity(t *testing.T) {
	fens := []string{
		chess.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R b KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"3q4/8/8/3Q4/8/8/8/k2K4 w - - 0 1",
	}

	for _, fen := range fens {
		b := testutil.MustFEN(t, fen)
		for _, color := range []chess.Color{chess.White, chess.Black} {
			for _, from := range b.Squares(color) {
				p, _ := b.At(from)
				if p.Type != chess.Rook && p.Type != chess.Bishop && p.Type != chess.Queen {
					continue
				}
				moves, err := b.PseudoLegalMoves(from)
				if err != nil {
					t.Fatalf("PseudoLegalMoves(%s) error: %v", from, err)
				}
				for _, m := range moves {
					checkPath(t, b, p, m)
				}
			}
		}
	}
}

func checkPath(t *testing.T, b *chess.BoardState, mover chess.Piece, m chess.Move) {
	t.Helper()
	dr, dc := sign(m.To.Row-m.From.Row), sign(m.To.Col-m.From.Col)
	sq := chess.Square{Row: m.From.Row + dr, Col: m.From.Col + dc}
	for sq != m.To {
		if p, _ := b.At(sq); !p.IsEmpty() {
			t.Errorf("%s %s: path square %s holds %v", mover, m, sq, p)
			return
		}
		sq = chess.Square{Row: sq.Row + dr, Col: sq.Col + dc}
	}
	if dest, _ := b.At(m.To); !dest.IsEmpty() && dest.Color == mover.Color {
		t.Errorf("%s %s: lands on own %v", mover, m, dest)
	}
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func TestCastling(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		moves []string // played before checking, from fen
		want  []string // castle destinations among legal king moves
	}{
		{"both sides available", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", nil, []string{"g1", "c1"}},
		{"queenside blocked", "r3k2r/8/8/8/8/8/8/RN2K2R w KQkq - 0 1", nil, []string{"g1"}},
		{"queenside right lost", "r3k2r/8/8/8/8/8/8/R3K2R w Kkq - 0 1", nil, []string{"g1"}},
		{"transit square attacked", "r3kr2/8/8/8/8/8/8/R3K2R w KQq - 0 1", nil, []string{"c1"}},
		{"king in check", "r3k2r/8/8/8/4q3/8/8/R3K2R w KQkq - 0 1", nil, nil},
		{"destination attacked", "r3k1r1/8/8/8/8/8/8/R3K2R w KQq - 0 1", nil, []string{"c1"}},
		{"b-file attack does not stop queenside", "1r2k2r/8/8/8/8/8/8/R3K2R w KQk - 0 1", nil, []string{"g1", "c1"}},
		{"king has moved", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", []string{"e1f1", "a8b8", "f1e1", "b8a8"}, nil},
		{"rook has moved", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", []string{"h1h2", "a8b8", "h2h1", "b8a8"}, []string{"c1"}},
		{"black kingside", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", nil, []string{"g8", "c8"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := testutil.MustFEN(t, tt.fen)
			testutil.Play(t, b, tt.moves...)
			king, _ := b.KingSquare(b.ToMove())
			legal, err := b.LegalMoves(king)
			if err != nil {
				t.Fatalf("LegalMoves(%s) error: %v", king, err)
			}
			var castles []string
			for _, m := range legal {
				if m.IsCastle() {
					castles = append(castles, m.To.String())
				}
			}
			testutil.AssertSameSet(t, castles, tt.want, "castle destinations")
		})
	}
}

func TestCastling_DestinationLeftToFilter(t *testing.T) {
	b := testutil.MustFEN(t, "r3k1r1/8/8/8/8/8/8/R3K2R w KQq - 0 1")
	pseudo, err := b.PseudoLegalMoves(chess.MustSquare("e1"))
	if err != nil {
		t.Fatalf("PseudoLegalMoves() error: %v", err)
	}
	found := false
	for _, m := range pseudo {
		if m.CastleKingside {
			found = true
		}
	}
	if !found {
		t.Error("pseudo-legal set lacks kingside castle; the attacked destination is the filter's job")
	}
}
