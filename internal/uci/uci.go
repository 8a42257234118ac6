// Package uci renders the commands the server sends to an external UCI search
// process and parses the lines it sends back. Process management stays with
// the caller.
package uci

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/benbeisheim/chesscore/internal/chess"
)

const (
	CmdUCI        = "uci"
	CmdUCINewGame = "ucinewgame"
	CmdIsReady    = "isready"
	CmdStop       = "stop"
	CmdQuit       = "quit"
)

// NoMove is the token an engine sends when it has no legal move.
const NoMove = "(none)"

var ErrNotBestMove = errors.New("uci: not a bestmove line")

// ResponseKind classifies one line of engine output.
type ResponseKind int

const (
	Other ResponseKind = iota
	UCIOk
	ReadyOk
	BestMove
	Info
	ID
)

func (k ResponseKind) String() string {
	switch k {
	case UCIOk:
		return "uciok"
	case ReadyOk:
		return "readyok"
	case BestMove:
		return "bestmove"
	case Info:
		return "info"
	case ID:
		return "id"
	}
	return "other"
}

// Classify returns the kind of an engine output line by its first token.
func Classify(line string) ResponseKind {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Other
	}
	switch fields[0] {
	case "uciok":
		return UCIOk
	case "readyok":
		return ReadyOk
	case "bestmove":
		return BestMove
	case "info":
		return Info
	case "id":
		return ID
	}
	return Other
}

// NewGameCommands is the sequence sent before the first search of a game.
// The engine is ready for a position once it answers readyok.
func NewGameCommands() []string {
	return []string{CmdUCINewGame, CmdIsReady}
}

// PositionCommand renders the position setup for the engine. An empty startFEN
// or the standard one uses the startpos form.
func PositionCommand(startFEN string, history []chess.Move) string {
	var sb strings.Builder
	sb.WriteString("position ")
	if startFEN == "" || startFEN == chess.StartFEN {
		sb.WriteString("startpos")
	} else {
		sb.WriteString("fen ")
		sb.WriteString(startFEN)
	}
	if len(history) > 0 {
		sb.WriteString(" moves")
		for _, m := range history {
			sb.WriteByte(' ')
			sb.WriteString(m.String())
		}
	}
	return sb.String()
}

// GoMoveTime asks the engine to search for d, rounded down to milliseconds.
// Durations under a millisecond become 1.
func GoMoveTime(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 1 {
		ms = 1
	}
	return "go movetime " + strconv.FormatInt(ms, 10)
}

// ParseBestMove extracts the move from a "bestmove <move> [ponder <move>]"
// line. ok is false when the engine reports no move. The move itself is only
// checked for notation; legality is the caller's job.
//
// Pawns always promote to a queen, so a trailing "q" is accepted and any other
// promotion suffix is malformed.
func ParseBestMove(line string) (m chess.Move, ok bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != "bestmove" {
		return chess.Move{}, false, fmt.Errorf("%w: %q", ErrNotBestMove, line)
	}
	if len(fields) < 2 || fields[1] == NoMove {
		return chess.Move{}, false, nil
	}
	token := fields[1]
	promote := len(token) == 5 && token[4] == 'q'
	if promote {
		token = token[:4]
	}
	m, err = chess.ParseMove(token)
	if err != nil {
		return chess.Move{}, false, &chess.MoveError{Err: chess.ErrMalformedMove, Move: fields[1]}
	}
	if promote {
		m.Promotion = chess.Queen
	}
	return m, true, nil
}
