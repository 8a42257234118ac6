package model

import (
	"errors"

	"github.com/benbeisheim/chesscore/internal/chess"
)

var (
	ErrGameFull    = errors.New("game is full")
	ErrNotInGame   = errors.New("player not in game")
	ErrNotYourTurn = errors.New("not your turn")
)

type Player struct {
	ID    string
	Color chess.Color
}

// ClientPlayer is a seat as sent to clients. TimeLeft is in tenths of a second.
type ClientPlayer struct {
	ID       string      `json:"name"`
	Color    chess.Color `json:"color"`
	TimeLeft int         `json:"timeLeft"`
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

func (p *Players) seat(c chess.Color) *ClientPlayer {
	if c == chess.White {
		return &p.White
	}
	return &p.Black
}

// colorOf returns the seat held by playerID.
func (p *Players) colorOf(playerID string) (chess.Color, bool) {
	switch {
	case playerID == "":
		return chess.White, false
	case p.White.ID == playerID:
		return chess.White, true
	case p.Black.ID == playerID:
		return chess.Black, true
	}
	return chess.White, false
}
