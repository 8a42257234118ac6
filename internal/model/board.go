package model

import (
	"strings"

	"github.com/benbeisheim/chesscore/internal/chess"
)

// BoardView is the board as sent to clients: rows from rank 8 down, files a
// to h, nil for an empty square.
type BoardView struct {
	Board             [][]*chess.Piece `json:"board"`
	WhiteKingPosition chess.Square     `json:"whiteKingPosition"`
	BlackKingPosition chess.Square     `json:"blackKingPosition"`
}

func newBoardView(b *chess.BoardState) BoardView {
	view := BoardView{Board: make([][]*chess.Piece, 8)}
	for row := 0; row < 8; row++ {
		view.Board[row] = make([]*chess.Piece, 8)
		for col := 0; col < 8; col++ {
			p, _ := b.At(chess.Square{Row: row, Col: col})
			if !p.IsEmpty() {
				piece := p
				view.Board[row][col] = &piece
			}
		}
	}
	view.WhiteKingPosition, _ = b.KingSquare(chess.White)
	view.BlackKingPosition, _ = b.KingSquare(chess.Black)
	return view
}

const piecesPerSide = 16

// PieceCounts is material left on the board and how many pieces each side has
// lost from its starting sixteen.
type PieceCounts struct {
	White     int `json:"white"`
	Black     int `json:"black"`
	WhiteLost int `json:"whiteLost"`
	BlackLost int `json:"blackLost"`
}

func countPieces(b *chess.BoardState) PieceCounts {
	counts := PieceCounts{White: b.Count(chess.White), Black: b.Count(chess.Black)}
	counts.WhiteLost = max(piecesPerSide-counts.White, 0)
	counts.BlackLost = max(piecesPerSide-counts.Black, 0)
	return counts
}

type CapturedPieces struct {
	White []chess.Piece `json:"white"`
	Black []chess.Piece `json:"black"`
}

func newCapturedPieces() CapturedPieces {
	return CapturedPieces{
		White: make([]chess.Piece, 0),
		Black: make([]chess.Piece, 0),
	}
}

func (cp *CapturedPieces) add(p chess.Piece) {
	if p.Color == chess.White {
		cp.White = append(cp.White, p)
	} else {
		cp.Black = append(cp.Black, p)
	}
}

// notation renders m in short algebraic form for the position before it is
// played. Check and mate suffixes are added once the result is known.
func notation(b *chess.BoardState, piece chess.Piece, m chess.Move) string {
	switch {
	case m.CastleKingside:
		return "O-O"
	case m.CastleQueenside:
		return "O-O-O"
	}

	target, _ := b.At(m.To)
	capture := m.EnPassant || !target.IsEmpty()

	var sb strings.Builder
	sb.WriteString(piece.Type.Letter())
	if piece.Type == chess.Pawn {
		if capture {
			sb.WriteByte(m.From.File())
		}
	} else {
		sb.WriteString(disambiguation(b, piece, m))
	}
	if capture {
		sb.WriteByte('x')
	}
	sb.WriteString(m.To.String())
	if m.Promotion != chess.NoPieceType {
		sb.WriteString("=" + m.Promotion.Letter())
	}
	return sb.String()
}

// disambiguation returns the file, rank or both of m.From when another piece
// of the same kind can also reach m.To.
func disambiguation(b *chess.BoardState, piece chess.Piece, m chess.Move) string {
	var rivals []chess.Square
	for _, other := range b.AllLegalMoves() {
		if other.To != m.To || other.From == m.From {
			continue
		}
		if p, _ := b.At(other.From); p == piece {
			rivals = append(rivals, other.From)
		}
	}
	if len(rivals) == 0 {
		return ""
	}

	sameFile, sameRank := false, false
	for _, sq := range rivals {
		sameFile = sameFile || sq.Col == m.From.Col
		sameRank = sameRank || sq.Row == m.From.Row
	}
	switch {
	case !sameFile:
		return string(m.From.File())
	case !sameRank:
		return string(m.From.Rank())
	}
	return m.From.String()
}
