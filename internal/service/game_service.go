package service

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/chesscore/internal/chess"
	"github.com/benbeisheim/chesscore/internal/model"
	"github.com/benbeisheim/chesscore/internal/uci"
)

// GameService is what the controllers talk to.
type GameService struct {
	gameManager    *GameManager
	engineMoveTime time.Duration
}

// EngineRequest is what to send an external UCI engine to get its move for
// the current position.
type EngineRequest struct {
	Commands []string `json:"commands"`
	Position string   `json:"position"`
	Go       string   `json:"go"`
}

func NewGameService(gameManager *GameManager, engineMoveTime time.Duration) *GameService {
	return &GameService{
		gameManager:    gameManager,
		engineMoveTime: engineMoveTime,
	}
}

func (gs *GameService) CreateGame(fen string) (string, error) {
	game, err := gs.gameManager.CreateGame(fen)
	if err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	log.Infof("created game %s", game.ID)
	return game.ID, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (chess.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) ListGames() []GameSummary {
	return gs.gameManager.ListGames()
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.MoveRequest) (model.Ply, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.Ply{}, err
	}
	return game.MakeMove(playerID, move)
}

func (gs *GameService) LegalMoves(gameID string, from string) ([]chess.Move, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalMoves(from)
}

// EngineRequest renders the commands for the engine's next search. The
// new-game sequence is included before the first move of a game.
func (gs *GameService) EngineRequest(gameID string) (EngineRequest, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return EngineRequest{}, err
	}
	if game.Over() {
		return EngineRequest{}, &chess.MoveError{Err: chess.ErrGameOver}
	}

	req := EngineRequest{
		Commands: []string{},
		Position: game.EnginePosition(),
		Go:       uci.GoMoveTime(gs.engineMoveTime),
	}
	if len(game.History()) == 0 {
		req.Commands = uci.NewGameCommands()
	}
	return req, nil
}

// HandleEngineReply applies the engine's "bestmove" line relayed by
// playerID. ok is false when the engine had no move.
func (gs *GameService) HandleEngineReply(gameID, playerID, line string) (model.Ply, bool, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.Ply{}, false, err
	}
	return game.ApplyEngineReply(playerID, line)
}

func (gs *GameService) ResetGame(gameID string) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Reset()
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn model.Conn) (*model.Game, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	if err := game.RegisterConnection(playerID, conn); err != nil {
		return nil, err
	}
	return game, nil
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan string) {
	gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID, ch)
}
