package controller

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/chesscore/internal/middleware"
	"github.com/benbeisheim/chesscore/internal/model"
	"github.com/benbeisheim/chesscore/internal/service"
	"github.com/benbeisheim/chesscore/internal/ws"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection serves one player's (or spectator's) socket for a game
// until the client goes away.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)

	game, err := wsc.gameService.RegisterConnection(gameID, playerID, c)
	if err != nil {
		log.Warnf("game %s: connection from %s refused: %v", gameID, playerID, err)
		if !errors.Is(err, model.ErrDuplicateConnection) {
			_ = c.WriteJSON(ws.ErrorMessage(err))
			c.Close()
		}
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugf("game %s: read from %s: %v", gameID, playerID, err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Debugf("game %s: bad message from %s: %v", gameID, playerID, err)
			_ = game.Send(c, ws.ErrorMessage(err))
			continue
		}

		reply, err := wsc.handleMessage(game, playerID, msg)
		if err != nil {
			reply = ws.ErrorMessage(err)
		}
		if reply.Type == "" {
			continue
		}
		if err := game.Send(c, reply); err != nil {
			log.Debugf("game %s: write to %s: %v", gameID, playerID, err)
			return
		}
	}
}

// handleMessage dispatches one inbound message. State changes reach the
// client through the game's broadcast, so only queries return a reply.
func (wsc *WebSocketController) handleMessage(game *model.Game, playerID string, msg ws.Message) (ws.Message, error) {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.MoveRequest
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return ws.Message{}, err
		}
		_, err := game.MakeMove(playerID, move)
		return ws.Message{}, err

	case ws.MessageTypeLegalMoves:
		var req ws.LegalMovesRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return ws.Message{}, err
		}
		moves, err := game.LegalMoves(req.From)
		if err != nil {
			return ws.Message{}, err
		}
		return ws.NewMessage(ws.MessageTypeLegalMoves, ws.LegalMovesPayload{From: req.From, Moves: moveStrings(moves)})

	case ws.MessageTypeEngineReply:
		var req ws.EngineReplyRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return ws.Message{}, err
		}
		_, _, err := game.ApplyEngineReply(playerID, req.Line)
		return ws.Message{}, err

	case ws.MessageTypeReset:
		if !game.IsPlayerInGame(playerID) {
			return ws.Message{}, model.ErrNotInGame
		}
		return ws.Message{}, game.Reset()

	default:
		return ws.Message{}, fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// HandleMatchmaking queues the player and holds the socket open until a match
// is found or the client leaves.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)

	ch := make(chan string, 1)
	wsc.gameService.RegisterMatchmakingChannel(playerID, ch)
	defer wsc.gameService.UnregisterMatchmakingChannel(playerID, ch)

	if err := wsc.gameService.JoinMatchmaking(playerID); err != nil && !errors.Is(err, service.ErrAlreadyQueued) {
		_ = c.WriteJSON(ws.ErrorMessage(err))
		return
	}

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case event, ok := <-ch:
		if !ok {
			return
		}
		if err := c.WriteMessage(websocket.TextMessage, []byte(event)); err != nil {
			log.Debugf("matchmaking: notify %s: %v", playerID, err)
		}
	case <-gone:
		log.Debugf("matchmaking: %s left the queue", playerID)
	}
}
