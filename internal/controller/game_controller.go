package controller

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/benbeisheim/chesscore/internal/chess"
	"github.com/benbeisheim/chesscore/internal/middleware"
	"github.com/benbeisheim/chesscore/internal/model"
	"github.com/benbeisheim/chesscore/internal/service"
	"github.com/benbeisheim/chesscore/internal/ws"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// createGameRequest starts from a FEN or from a 64-character board with the
// side to move; neither means the standard position.
type createGameRequest struct {
	FEN    string      `json:"fen"`
	Board  string      `json:"board"`
	ToMove chess.Color `json:"toMove"`
}

func (r createGameRequest) startFEN() (string, error) {
	if r.Board == "" {
		return r.FEN, nil
	}
	if r.FEN != "" {
		return "", fmt.Errorf("%w: give either fen or board", chess.ErrInvalidBoard)
	}
	b, err := chess.ParseBoard64(r.Board, r.ToMove)
	if err != nil {
		return "", err
	}
	return b.FEN(), nil
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req createGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	fen, err := req.startFEN()
	if err != nil {
		return writeError(c, err)
	}
	gameID, err := gc.gameService.CreateGame(fen)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	color, err := gc.gameService.JoinGame(c.Params("gameId"), middleware.PlayerID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) ListGames(c *fiber.Ctx) error {
	return c.JSON(gc.gameService.ListGames())
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(gameState)
}

// LegalMoves lists the legal moves of the piece on the "from" query square.
func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	from := c.Query("from")
	moves, err := gc.gameService.LegalMoves(c.Params("gameId"), from)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(ws.LegalMovesPayload{From: from, Moves: moveStrings(moves)})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var req model.MoveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	ply, err := gc.gameService.HandleMove(c.Params("gameId"), middleware.PlayerID(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(ply)
}

// EngineRequest returns the UCI commands for the engine's next search.
func (gc *GameController) EngineRequest(c *fiber.Ctx) error {
	req, err := gc.gameService.EngineRequest(c.Params("gameId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(req)
}

// EngineReply applies a "bestmove" line relayed from the engine.
func (gc *GameController) EngineReply(c *fiber.Ctx) error {
	var req ws.EngineReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	ply, ok, err := gc.gameService.HandleEngineReply(c.Params("gameId"), middleware.PlayerID(c), req.Line)
	if err != nil {
		return writeError(c, err)
	}
	if !ok {
		return c.JSON(fiber.Map{"moved": false})
	}
	return c.JSON(fiber.Map{"moved": true, "ply": ply})
}

func (gc *GameController) ResetGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	state, err := gc.gameService.GetGameState(gameID)
	if err != nil {
		return writeError(c, err)
	}
	if id := middleware.PlayerID(c); state.Players.White.ID != id && state.Players.Black.ID != id {
		return writeError(c, model.ErrNotInGame)
	}
	if err := gc.gameService.ResetGame(gameID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Game reset"})
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	if err := gc.gameService.JoinMatchmaking(middleware.PlayerID(c)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

func moveStrings(moves []chess.Move) []string {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.String())
	}
	return out
}
