package chess_test

import (
	"errors"
	"testing"

	"github.com/benbeisheim/chesscore/internal/chess"
	"github.com/benbeisheim/chesscore/internal/testutil"
)

func TestNewBoardState(t *testing.T) {
	b := chess.NewBoardState()

	if got := b.Board64(); got != chess.StandardBoard64 {
		t.Errorf("Board64() = %q, want %q", got, chess.StandardBoard64)
	}
	if got := b.FEN(); got != chess.StartFEN {
		t.Errorf("FEN() = %q, want %q", got, chess.StartFEN)
	}
	if b.ToMove() != chess.White {
		t.Errorf("ToMove() = %v, want white", b.ToMove())
	}
	want := chess.CastlingRights{WhiteKingside: true, WhiteQueenside: true, BlackKingside: true, BlackQueenside: true}
	testutil.AssertEqual(t, b.Castling(), want, "Castling()")
	if sq, ok := b.EnPassantTarget(); ok {
		t.Errorf("EnPassantTarget() = %v, want none", sq)
	}
	if b.Count(chess.White) != 16 || b.Count(chess.Black) != 16 {
		t.Errorf("Count() = %d/%d, want 16/16", b.Count(chess.White), b.Count(chess.Black))
	}
}

func TestParseBoard64(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		wantErr bool
	}{
		{"standard", chess.StandardBoard64, false},
		{"kings only", "    k   " + "        " + "        " + "        " + "        " + "        " + "        " + "    K   ", false},
		{"too short", "rnbqkbnr", true},
		{"bad symbol", "rnbqkbnx" + chess.StandardBoard64[8:], true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b, err := chess.ParseBoard64(tt.encoded, chess.White)
			if tt.wantErr {
				if !errors.Is(err, chess.ErrInvalidBoard) {
					t.Fatalf("ParseBoard64() error = %v, want ErrInvalidBoard", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBoard64() error: %v", err)
			}
			if got := b.Board64(); got != tt.encoded {
				t.Errorf("Board64() = %q, want %q", got, tt.encoded)
			}
		})
	}
}

func TestParseBoard64_InfersCastling(t *testing.T) {
	// White king and h1 rook at home, a1 rook missing; Black king displaced.
	encoded := "r    k r" + "        " + "        " + "        " + "        " + "        " + "        " + "    K  R"
	b, err := chess.ParseBoard64(encoded, chess.White)
	if err != nil {
		t.Fatalf("ParseBoard64() error: %v", err)
	}
	want := chess.CastlingRights{WhiteKingside: true}
	testutil.AssertEqual(t, b.Castling(), want, "Castling()")
}

func TestAt_OutOfBounds(t *testing.T) {
	b := chess.NewBoardState()
	for _, sq := range []chess.Square{{Row: -1, Col: 0}, {Row: 8, Col: 0}, {Row: 0, Col: 8}, {Row: 3, Col: -2}} {
		if _, err := b.At(sq); !errors.Is(err, chess.ErrOutOfBounds) {
			t.Errorf("At(%+v) error = %v, want ErrOutOfBounds", sq, err)
		}
	}
	p, err := b.At(chess.MustSquare("e1"))
	if err != nil || !p.Is(chess.King, chess.White) {
		t.Errorf("At(e1) = %v, %v, want white king", p, err)
	}
}

func TestApplyRaw_DoubleAdvanceSetsEnPassant(t *testing.T) {
	b := chess.NewBoardState()

	b.ApplyRaw(chess.MustParseMove("e2e4"))
	if sq, ok := b.EnPassantTarget(); !ok || sq.String() != "e3" {
		t.Errorf("after e2e4 EnPassantTarget() = %v, %v, want e3", sq, ok)
	}
	if b.HalfMoveClock() != 0 || b.ToMove() != chess.Black || b.FullMoveNumber() != 1 {
		t.Errorf("after e2e4 clock=%d toMove=%v full=%d", b.HalfMoveClock(), b.ToMove(), b.FullMoveNumber())
	}

	b.ApplyRaw(chess.MustParseMove("g8f6"))
	if sq, ok := b.EnPassantTarget(); ok {
		t.Errorf("after g8f6 EnPassantTarget() = %v, want cleared", sq)
	}
	if b.HalfMoveClock() != 1 || b.ToMove() != chess.White || b.FullMoveNumber() != 2 {
		t.Errorf("after g8f6 clock=%d toMove=%v full=%d", b.HalfMoveClock(), b.ToMove(), b.FullMoveNumber())
	}
}

func TestApplyRaw_CastlingMovesRook(t *testing.T) {
	tests := []struct {
		name string
		move chess.Move
		want string
	}{
		{
			name: "white kingside",
			move: chess.Move{From: chess.MustSquare("e1"), To: chess.MustSquare("g1"), CastleKingside: true},
			want: "r3k2r/8/8/8/8/8/8/R4RK1 b kq - 1 1",
		},
		{
			name: "white queenside",
			move: chess.Move{From: chess.MustSquare("e1"), To: chess.MustSquare("c1"), CastleQueenside: true},
			want: "r3k2r/8/8/8/8/8/8/2KR3R b kq - 1 1",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := testutil.MustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
			b.ApplyRaw(tt.move)
			if got := b.FEN(); got != tt.want {
				t.Errorf("FEN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplyRaw_RookCaptureClearsRights(t *testing.T) {
	b := testutil.MustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	b.ApplyRaw(chess.MustParseMove("a1a8"))

	want := chess.CastlingRights{WhiteKingside: true, BlackKingside: true}
	testutil.AssertEqual(t, b.Castling(), want, "Castling() after Rxa8")
	if b.HalfMoveClock() != 0 {
		t.Errorf("HalfMoveClock() = %d, want 0 after capture", b.HalfMoveClock())
	}
}

func TestApplyRaw_EnPassantRemovesVictim(t *testing.T) {
	b := testutil.MustFEN(t, "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1")
	b.ApplyRaw(chess.Move{From: chess.MustSquare("e5"), To: chess.MustSquare("d6"), EnPassant: true})

	if got, want := b.FEN(), "4k3/8/3P4/8/8/8/8/4K3 b - - 0 1"; got != want {
		t.Errorf("FEN() = %q, want %q", got, want)
	}
}

func TestPlay_PromotesToQueen(t *testing.T) {
	b := testutil.MustFEN(t, "4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	m, err := b.Play(chess.MustParseMove("a7a8"))
	if err != nil {
		t.Fatalf("Play(a7a8) error: %v", err)
	}
	if m.Promotion != chess.Queen {
		t.Errorf("Promotion = %v, want queen", m.Promotion)
	}
	if got := m.String(); got != "a7a8q" {
		t.Errorf("String() = %q, want a7a8q", got)
	}
	p, _ := b.At(chess.MustSquare("a8"))
	if !p.Is(chess.Queen, chess.White) {
		t.Errorf("At(a8) = %v, want white queen", p)
	}
}

func TestBoardString(t *testing.T) {
	b := chess.NewBoardState()
	want := "8 rnbqkbnr\n7 pppppppp\n6 ........\n5 ........\n4 ........\n3 ........\n2 PPPPPPPP\n1 RNBQKBNR\n  abcdefgh\n"
	if got := b.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}
