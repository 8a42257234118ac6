package model

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/chesscore/internal/chess"
	"github.com/benbeisheim/chesscore/internal/uci"
	"github.com/benbeisheim/chesscore/internal/ws"
)

const DefaultClockTime = 10 * time.Minute

// Conn is the part of a websocket connection a game writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// The connections for a specific game. mu also serialises writes, since a
// websocket connection allows only one writer at a time.
type GameConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.Mutex
}

func newGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Conn),
	}
}

// Game is one session. It owns the only board of the game; every read and
// write of it happens under mu.
type Game struct {
	ID          string
	mu          sync.Mutex
	board       *chess.BoardState
	startFEN    string
	history     []chess.Move
	moves       []MovePair
	captured    CapturedPieces
	outcome     chess.Outcome
	over        bool
	sound       string
	lastMove    *chess.Move
	players     Players
	connections *GameConnections
	whiteClock  *Clock
	blackClock  *Clock
}

// GameState is an immutable snapshot of a game for clients.
type GameState struct {
	ID              string               `json:"id"`
	Sound           string               `json:"sound"`
	Board           BoardView            `json:"boardState"`
	FEN             string               `json:"fen"`
	ToMove          chess.Color          `json:"toMove"`
	MoveHistory     []MovePair           `json:"moveHistory"`
	CapturedPieces  CapturedPieces       `json:"capturedPieces"`
	PieceCounts     PieceCounts          `json:"pieceCounts"`
	Steps           int                  `json:"steps"`
	IsCheck         bool                 `json:"isCheck"`
	Outcome         chess.Outcome        `json:"outcome"`
	Castling        chess.CastlingRights `json:"castling"`
	EnPassantTarget *chess.Square        `json:"enPassantTarget"`
	Players         Players              `json:"players"`
	LastMove        *chess.Move          `json:"lastMove"`
}

// NewGame starts a game from the standard position.
func NewGame(id string, clockTime time.Duration) *Game {
	g, err := NewGameFromFEN(id, chess.StartFEN, clockTime)
	if err != nil {
		panic(err)
	}
	return g
}

// NewGameFromFEN starts a game from a custom position. Positions that cannot
// be evaluated, such as one missing a king, are rejected.
func NewGameFromFEN(id, fen string, clockTime time.Duration) (*Game, error) {
	if clockTime <= 0 {
		clockTime = DefaultClockTime
	}
	g := &Game{
		ID:          id,
		startFEN:    fen,
		connections: newGameConnections(),
		whiteClock:  NewClock(clockTime),
		blackClock:  NewClock(clockTime),
	}
	if err := g.resetLocked(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) resetLocked() error {
	b, err := chess.ParseFEN(g.startFEN)
	if err != nil {
		return err
	}
	outcome, err := chess.Evaluate(b)
	if err != nil {
		return err
	}

	g.board = b
	g.history = nil
	g.moves = make([]MovePair, 0)
	g.captured = newCapturedPieces()
	g.outcome = outcome
	g.over = outcome.Status.Terminal()
	g.sound = ""
	g.lastMove = nil
	g.whiteClock.Reset()
	g.blackClock.Reset()
	return nil
}

// Reset returns the game to its starting position. Seats are kept.
func (g *Game) Reset() error {
	g.mu.Lock()
	err := g.resetLocked()
	state := g.stateLocked()
	g.mu.Unlock()
	if err != nil {
		return err
	}

	log.Infof("game %s reset", g.ID)
	g.broadcast(state)
	return nil
}

// AddPlayer seats playerID on the first free side. A player already seated
// gets its existing color back.
func (g *Game) AddPlayer(playerID string) (chess.Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.players.colorOf(playerID); ok {
		return c, nil
	}
	for _, c := range []chess.Color{chess.White, chess.Black} {
		seat := g.players.seat(c)
		if seat.ID == "" {
			*seat = ClientPlayer{ID: playerID, Color: c, TimeLeft: g.clock(c).Tenths()}
			log.Infof("player %s joined game %s as %s", playerID, g.ID, c)
			return c, nil
		}
	}
	return chess.White, ErrGameFull
}

func (g *Game) ColorOf(playerID string) (chess.Color, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.players.colorOf(playerID)
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	_, ok := g.ColorOf(playerID)
	return ok
}

// CanSpectate reports whether a seat is still open.
func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return g.players.White.ID == "" || g.players.Black.ID == ""
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.stateLocked()
}

func (g *Game) Outcome() chess.Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.outcome
}

// Over reports whether the game has reached a terminal outcome. It stays over
// until Reset.
func (g *Game) Over() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.over
}

// MakeMove applies a move submitted by a seated player on their turn.
func (g *Game) MakeMove(playerID string, req MoveRequest) (Ply, error) {
	m, err := req.Move()
	if err != nil {
		return Ply{}, err
	}
	return g.applyFor(playerID, m)
}

// ApplyMove applies m for the side to move without any seat check.
func (g *Game) ApplyMove(m chess.Move) (Ply, error) {
	return g.update(func() (Ply, error) {
		return g.applyLocked(m)
	})
}

// ApplyEngineReply applies the move of a "bestmove" line relayed by
// playerID, who must hold the seat the engine is playing. ok is false when
// the engine had no move to offer.
func (g *Game) ApplyEngineReply(playerID, line string) (ply Ply, ok bool, err error) {
	m, ok, err := uci.ParseBestMove(line)
	if err != nil {
		return Ply{}, false, err
	}
	if !ok {
		if !g.IsPlayerInGame(playerID) {
			return Ply{}, false, ErrNotInGame
		}
		return Ply{}, false, nil
	}
	ply, err = g.applyFor(playerID, m)
	if err != nil {
		return Ply{}, false, err
	}
	return ply, true, nil
}

// applyFor applies m once playerID is known to hold the side to move.
func (g *Game) applyFor(playerID string, m chess.Move) (Ply, error) {
	return g.update(func() (Ply, error) {
		color, ok := g.players.colorOf(playerID)
		if !ok {
			return Ply{}, ErrNotInGame
		}
		if !g.over && color != g.board.ToMove() {
			return Ply{}, ErrNotYourTurn
		}
		return g.applyLocked(m)
	})
}

// EnginePosition renders the game so far as a UCI position command.
func (g *Game) EnginePosition() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return uci.PositionCommand(g.startFEN, g.history)
}

// History returns the applied moves in order.
func (g *Game) History() []chess.Move {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]chess.Move(nil), g.history...)
}

// LegalMoves returns the legal moves of the piece on from. A finished game
// has none.
func (g *Game) LegalMoves(from string) ([]chess.Move, error) {
	sq, err := chess.ParseSquare(from)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.over {
		return []chess.Move{}, nil
	}
	moves, err := g.board.LegalMoves(sq)
	if errors.Is(err, chess.ErrCorruptState) {
		log.Errorf("game %s: %v", g.ID, err)
	}
	return moves, err
}

// update runs fn under the game lock and broadcasts the new state if it
// succeeded.
func (g *Game) update(fn func() (Ply, error)) (Ply, error) {
	g.mu.Lock()
	ply, err := fn()
	var state GameState
	if err == nil {
		state = g.stateLocked()
	}
	g.mu.Unlock()

	if err != nil {
		return Ply{}, err
	}
	g.broadcast(state)
	return ply, nil
}

func (g *Game) applyLocked(m chess.Move) (Ply, error) {
	plyNumber := len(g.history) + 1
	if g.over {
		return Ply{}, &chess.MoveError{Err: chess.ErrGameOver, Move: m.String(), Ply: plyNumber}
	}
	legal, err := g.board.ResolveMove(m)
	if err != nil {
		if errors.Is(err, chess.ErrCorruptState) {
			log.Errorf("game %s: %v", g.ID, err)
		}
		return Ply{}, &chess.MoveError{Err: err, Move: m.String(), Ply: plyNumber}
	}

	mover := g.board.ToMove()
	moveNumber := g.board.FullMoveNumber()
	piece, _ := g.board.At(legal.From)
	ply := Ply{
		Piece:    piece,
		Move:     legal,
		Notation: notation(g.board, piece, legal),
	}

	victimSquare := legal.To
	if legal.EnPassant {
		victimSquare = chess.Square{Row: legal.From.Row, Col: legal.To.Col}
	}
	if victim, _ := g.board.At(victimSquare); !victim.IsEmpty() {
		ply.CapturedPiece = &victim
		g.captured.add(victim)
	}
	if legal.IsCastle() {
		ply.CastleRookMove = castleRookMove(legal)
	}

	g.clock(mover).Stop()
	g.board.ApplyRaw(legal)
	g.history = append(g.history, legal)
	g.lastMove = &legal

	outcome, err := chess.Evaluate(g.board)
	if err != nil {
		log.Errorf("game %s: after %s: %v", g.ID, legal, err)
	}
	g.outcome = outcome
	switch {
	case outcome.Status == chess.Checkmate:
		ply.Notation += "#"
	case outcome.InCheck:
		ply.Notation += "+"
	}
	if outcome.Status.Terminal() {
		g.over = true
		log.Infof("game %s over after %d plies: %s", g.ID, len(g.history), describe(outcome))
	} else {
		g.clock(mover.Opposite()).Start()
	}

	g.sound = sound(ply, outcome)
	g.recordPly(mover, moveNumber, ply)
	return ply, nil
}

func (g *Game) recordPly(mover chess.Color, number int, ply Ply) {
	if mover == chess.White || len(g.moves) == 0 {
		g.moves = append(g.moves, MovePair{Number: number})
	}
	last := &g.moves[len(g.moves)-1]
	if mover == chess.White {
		last.WhitePly = &ply
	} else {
		last.BlackPly = &ply
	}
}

func (g *Game) clock(c chess.Color) *Clock {
	if c == chess.White {
		return g.whiteClock
	}
	return g.blackClock
}

func castleRookMove(m chess.Move) *CastleRookMove {
	row := m.From.Row
	if m.CastleKingside {
		return &CastleRookMove{From: chess.Square{Row: row, Col: 7}, To: chess.Square{Row: row, Col: 5}}
	}
	return &CastleRookMove{From: chess.Square{Row: row, Col: 0}, To: chess.Square{Row: row, Col: 3}}
}

func sound(ply Ply, outcome chess.Outcome) string {
	switch {
	case outcome.Status.Terminal():
		return "gameOver"
	case outcome.InCheck:
		return "check"
	case ply.Move.IsCastle():
		return "castle"
	case ply.Move.Promotion != chess.NoPieceType:
		return "promote"
	case ply.CapturedPiece != nil:
		return "capture"
	}
	return "move"
}

func describe(o chess.Outcome) string {
	switch o.Status {
	case chess.Checkmate:
		return fmt.Sprintf("checkmate, %s wins", o.Winner)
	case chess.Draw:
		return fmt.Sprintf("draw by %s", o.DrawReason)
	}
	return o.Status.String()
}

func (g *Game) stateLocked() GameState {
	players := g.players
	players.White.TimeLeft = g.whiteClock.Tenths()
	players.Black.TimeLeft = g.blackClock.Tenths()

	state := GameState{
		ID:          g.ID,
		Sound:       g.sound,
		Board:       newBoardView(g.board),
		FEN:         g.board.FEN(),
		ToMove:      g.board.ToMove(),
		MoveHistory: append(make([]MovePair, 0, len(g.moves)), g.moves...),
		CapturedPieces: CapturedPieces{
			White: append(make([]chess.Piece, 0, len(g.captured.White)), g.captured.White...),
			Black: append(make([]chess.Piece, 0, len(g.captured.Black)), g.captured.Black...),
		},
		PieceCounts: countPieces(g.board),
		Steps:       len(g.history),
		IsCheck:     g.outcome.InCheck,
		Outcome:     g.outcome,
		Castling:    g.board.Castling(),
		Players:     players,
	}
	if ep, ok := g.board.EnPassantTarget(); ok {
		state.EnPassantTarget = &ep
	}
	if g.lastMove != nil {
		last := *g.lastMove
		state.LastMove = &last
	}
	return state
}

// RegisterConnection attaches conn for playerID and sends it the current
// state. Seated players may always connect; others only while a seat is open.
// A second connection for the same player is closed and the first one kept.
func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	g.mu.Lock()
	_, seated := g.players.colorOf(playerID)
	isAuthorized := seated || g.canSpectate()
	state := g.stateLocked()
	g.mu.Unlock()

	if !isAuthorized {
		return fmt.Errorf("%w: not authorized to watch game %s", ErrNotInGame, g.ID)
	}

	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if _, exists := g.connections.connections[playerID]; exists {
		log.Warnf("game %s: rejecting duplicate connection for %s", g.ID, playerID)
		_ = conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
		)
		conn.Close()
		return ErrDuplicateConnection
	}

	g.connections.connections[playerID] = conn
	log.Debugf("game %s: registered connection for %s", g.ID, playerID)

	msg, err := ws.NewMessage(ws.MessageTypeGameState, state)
	if err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}

var ErrDuplicateConnection = errors.New("connection already exists")

// UnregisterConnection detaches conn. A stale connection that was already
// replaced or dropped leaves the current one in place.
func (g *Game) UnregisterConnection(playerID string, conn Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		delete(g.connections.connections, playerID)
		log.Debugf("game %s: unregistered connection for %s", g.ID, playerID)
	}
}

func (g *Game) ConnectionCount() int {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	return len(g.connections.connections)
}

// Send writes msg to conn, serialised with broadcasts.
func (g *Game) Send(conn Conn, msg ws.Message) error {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	return conn.WriteJSON(msg)
}

// broadcast sends state to every connection, dropping the ones that fail.
func (g *Game) broadcast(state GameState) {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, state)
	if err != nil {
		log.Errorf("game %s: marshal state: %v", g.ID, err)
		return
	}

	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	for playerID, conn := range g.connections.connections {
		if err := conn.WriteJSON(msg); err != nil {
			log.Warnf("game %s: dropping connection of %s: %v", g.ID, playerID, err)
			delete(g.connections.connections, playerID)
		}
	}
}
