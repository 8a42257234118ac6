// Package testutil provides shared test helpers for the chess packages.
package testutil

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/benbeisheim/chesscore/internal/chess"
)

// MustFEN parses fen or fails the test.
func MustFEN(t *testing.T, fen string) *chess.BoardState {
	t.Helper()
	b, err := chess.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q) error: %v", fen, err)
	}
	return b
}

// Play applies each coordinate move to b as a validated move, failing the test
// on the first rejection.
func Play(t *testing.T, b *chess.BoardState, moves ...string) {
	t.Helper()
	for i, text := range moves {
		m, err := chess.ParseMove(text)
		if err != nil {
			t.Fatalf("move %d: ParseMove(%q) error: %v", i+1, text, err)
		}
		if _, err := b.Play(m); err != nil {
			t.Fatalf("move %d: Play(%q) error: %v\n%s", i+1, text, err, b)
		}
	}
}

// Destinations returns the target squares of moves in coordinate form, sorted.
func Destinations(moves []chess.Move) []string {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.To.String())
	}
	sort.Strings(out)
	return out
}

// MoveStrings returns moves in coordinate form, sorted.
func MoveStrings(moves []chess.Move) []string {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.String())
	}
	sort.Strings(out)
	return out
}

// AssertSameSet compares two string sets ignoring order.
func AssertSameSet(t *testing.T, got, want []string, msg string) {
	t.Helper()
	if diff := cmp.Diff(want, got, cmpopts.SortSlices(func(a, b string) bool { return a < b }), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("%s: mismatch (-want +got):\n%s", msg, diff)
	}
}

// AssertEqual compares got and want using cmp.Diff.
func AssertEqual(t *testing.T, got, want interface{}, msg string) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("%s: mismatch (-want +got):\n%s", msg, diff)
	}
}
