package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/benbeisheim/chesscore/internal/chess"
	"github.com/benbeisheim/chesscore/internal/model"
	"github.com/benbeisheim/chesscore/internal/ws"
)

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrAlreadyQueued = model.ErrAlreadyQueued
)

// GameManager owns every live game and the matchmaking queue.
type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan string
	clockTime        time.Duration
	mu               sync.RWMutex
}

// GameSummary is one line of the game list.
type GameSummary struct {
	ID       string        `json:"id"`
	Status   chess.Status  `json:"status"`
	ToMove   chess.Color   `json:"toMove"`
	Steps    int           `json:"steps"`
	Players  model.Players `json:"players"`
	Joinable bool          `json:"joinable"`
}

func NewGameManager(clockTime time.Duration) *GameManager {
	return &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		clockTime:        clockTime,
	}
}

// Run pairs queued players every interval until ctx is done.
func (gm *GameManager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gm.processMatchmaking()
		}
	}
}

// processMatchmaking starts a game for each pair of waiting players and tells
// both of them through their matchmaking channel.
func (gm *GameManager) processMatchmaking() {
	for {
		player1, player2, ok := gm.queue.NextPair()
		if !ok {
			return
		}

		game := model.NewGame(uuid.New().String(), gm.clockTime)
		p1Color, err := game.AddPlayer(player1.ID)
		if err != nil {
			log.Errorf("matchmaking: seat %s: %v", player1.ID, err)
			continue
		}
		p2Color, err := game.AddPlayer(player2.ID)
		if err != nil {
			log.Errorf("matchmaking: seat %s: %v", player2.ID, err)
			continue
		}

		gm.mu.Lock()
		gm.games[game.ID] = game
		sent1 := gm.notifyMatch(player1.ID, game.ID, p1Color)
		sent2 := gm.notifyMatch(player2.ID, game.ID, p2Color)
		gm.mu.Unlock()

		log.Infof("matchmaking: %s vs %s in game %s", player1.ID, player2.ID, game.ID)
		if !sent1 || !sent2 {
			log.Warnf("matchmaking: could not notify both players of game %s", game.ID)
		}
	}
}

// notifyMatch sends the match event and closes the player's channel. gm.mu
// must be held.
func (gm *GameManager) notifyMatch(playerID, gameID string, color chess.Color) bool {
	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		return false
	}
	delete(gm.matchingChannels, playerID)
	defer close(ch)

	msg, err := ws.NewMessage(ws.MessageTypeMatchFound, ws.MatchFoundPayload{GameID: gameID, Color: color.String()})
	if err != nil {
		log.Errorf("matchmaking: %v", err)
		return false
	}
	select {
	case ch <- mustJSON(msg):
		return true
	default:
		return false
	}
}

func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if existing, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(existing)
	}
	gm.matchingChannels[playerID] = ch
}

// UnregisterMatchmakingChannel forgets the player's channel and takes them out
// of the queue. The channel is left open; its creator stops reading it.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if current, ok := gm.matchingChannels[playerID]; ok && current == ch {
		delete(gm.matchingChannels, playerID)
		gm.queue.RemovePlayer(playerID)
	}
}

func mustJSON(v interface{}) string {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(bytes)
}

// CreateGame starts a game from fen, or from the standard position when fen
// is empty.
func (gm *GameManager) CreateGame(fen string) (*model.Game, error) {
	if fen == "" {
		fen = chess.StartFEN
	}
	game, err := model.NewGameFromFEN(uuid.New().String(), fen, gm.clockTime)
	if err != nil {
		return nil, err
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.games[game.ID] = game
	return game, nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}
	return game, nil
}

// ListGames returns a summary of every game, ordered by id.
func (gm *GameManager) ListGames() []GameSummary {
	gm.mu.RLock()
	ids := maps.Keys(gm.games)
	games := make(map[string]*model.Game, len(gm.games))
	for id, g := range gm.games {
		games[id] = g
	}
	gm.mu.RUnlock()

	slices.Sort(ids)
	out := make([]GameSummary, 0, len(ids))
	for _, id := range ids {
		state := games[id].GetState()
		out = append(out, GameSummary{
			ID:       id,
			Status:   state.Outcome.Status,
			ToMove:   state.ToMove,
			Steps:    state.Steps,
			Players:  state.Players,
			Joinable: state.Players.White.ID == "" || state.Players.Black.ID == "",
		})
	}
	return out
}

// RemoveGame drops a game. Its connections are left to close on their own.
func (gm *GameManager) RemoveGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, ok := gm.games[gameID]; !ok {
		return ErrGameNotFound
	}
	delete(gm.games, gameID)
	return nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (chess.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return chess.White, err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	return gm.queue.AddPlayer(model.Player{ID: playerID})
}

func (gm *GameManager) QueueSize() int {
	return gm.queue.Size()
}
