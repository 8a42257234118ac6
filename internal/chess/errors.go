package chess

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds reported by the rules engine. Check them with errors.Is.
var (
	ErrOutOfBounds     = errors.New("square out of bounds")
	ErrEmptySquare     = errors.New("no piece on square")
	ErrWrongSideToMove = errors.New("piece does not belong to the side to move")
	ErrIllegalMove     = errors.New("illegal move")
	ErrMalformedMove   = errors.New("malformed move string")
	ErrCorruptState    = errors.New("corrupt board state")
	ErrGameOver        = errors.New("game already over")

	ErrInvalidFEN   = errors.New("invalid FEN string")
	ErrInvalidBoard = errors.New("invalid board encoding")
)

// MoveError wraps a rejection with the move text and ply it happened at.
type MoveError struct {
	Err  error  // The underlying error kind
	Move string // Move text as submitted, if any
	Ply  int    // 1-based ply the move would have been (0 if unknown)
}

func (e *MoveError) Error() string {
	var parts []string
	if e.Ply > 0 {
		parts = append(parts, fmt.Sprintf("ply %d", e.Ply))
	}
	if e.Move != "" {
		parts = append(parts, fmt.Sprintf("move %q", e.Move))
	}
	if len(parts) == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", strings.Join(parts, ", "), e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}
