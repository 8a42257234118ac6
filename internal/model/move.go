package model

import "github.com/benbeisheim/chesscore/internal/chess"

// MoveRequest is a move as submitted by a client, in algebraic squares.
type MoveRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Move parses the request into a coordinate move.
func (r MoveRequest) Move() (chess.Move, error) {
	return chess.ParseMove(r.From + r.To)
}

type CastleRookMove struct {
	From chess.Square `json:"from"`
	To   chess.Square `json:"to"`
}

// Ply is one applied half-move as recorded in the game history.
type Ply struct {
	Piece          chess.Piece     `json:"piece"`
	Move           chess.Move      `json:"move"`
	CapturedPiece  *chess.Piece    `json:"capturedPiece"`
	CastleRookMove *CastleRookMove `json:"castleRookMove"`
	Notation       string          `json:"notation"`
}

// MovePair is one numbered move. A game set up with Black to move starts with
// a pair that has no white ply.
type MovePair struct {
	Number   int  `json:"number"`
	WhitePly *Ply `json:"whitePly"`
	BlackPly *Ply `json:"blackPly"`
}
