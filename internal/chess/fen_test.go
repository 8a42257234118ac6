package chess_test

import (
	"errors"
	"testing"

	"github.com/benbeisheim/chesscore/internal/chess"
)

func TestFEN_RoundTrip(t *testing.T) {
	fens := []string{
		chess.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2",
		"7k/5K2/6Q1/8/8/8/8/8 b - - 37 90",
	}
	for _, fen := range fens {
		b, err := chess.ParseFEN(fen)
		if err != nil {
			t.Errorf("ParseFEN(%q) error: %v", fen, err)
			continue
		}
		if got := b.FEN(); got != fen {
			t.Errorf("FEN() = %q, want %q", got, fen)
		}
	}
}

func TestParseFEN_DefaultsClocks(t *testing.T) {
	b, err := chess.ParseFEN("4k3/8/8/8/8/8/8/4K3 b -  -")
	if err != nil {
		t.Fatalf("ParseFEN() error: %v", err)
	}
	if b.HalfMoveClock() != 0 || b.FullMoveNumber() != 1 || b.ToMove() != chess.Black {
		t.Errorf("got clock=%d full=%d toMove=%v", b.HalfMoveClock(), b.FullMoveNumber(), b.ToMove())
	}
}

func TestParseFEN_Errors(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"empty", ""},
		{"too few ranks", "8/8/8/8/8/8/8 w - - 0 1"},
		{"rank too long", "9/8/8/8/8/8/8/8 w - - 0 1"},
		{"rank too short", "7/8/8/8/8/8/8/8 w - - 0 1"},
		{"bad piece", "4x3/8/8/8/8/8/8/4K3 w - - 0 1"},
		{"bad side", "4k3/8/8/8/8/8/8/4K3 x - - 0 1"},
		{"bad castling", "4k3/8/8/8/8/8/8/4K3 w X - 0 1"},
		{"bad en passant", "4k3/8/8/8/8/8/8/4K3 w - z9 0 1"},
		{"negative clock", "4k3/8/8/8/8/8/8/4K3 w - - -1 1"},
		{"zero full move", "4k3/8/8/8/8/8/8/4K3 w - - 0 0"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := chess.ParseFEN(tt.fen); !errors.Is(err, chess.ErrInvalidFEN) {
				t.Errorf("ParseFEN(%q) error = %v, want ErrInvalidFEN", tt.fen, err)
			}
		})
	}
}
