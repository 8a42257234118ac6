package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/chesscore/internal/chess"
	"github.com/benbeisheim/chesscore/internal/model"
	"github.com/benbeisheim/chesscore/internal/service"
	"github.com/benbeisheim/chesscore/internal/uci"
)

// statusFor maps an error kind to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrNotInGame), errors.Is(err, model.ErrNotYourTurn):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrGameFull), errors.Is(err, service.ErrAlreadyQueued),
		errors.Is(err, chess.ErrGameOver), errors.Is(err, model.ErrDuplicateConnection):
		return fiber.StatusConflict
	case errors.Is(err, chess.ErrIllegalMove), errors.Is(err, chess.ErrWrongSideToMove),
		errors.Is(err, chess.ErrEmptySquare):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, chess.ErrMalformedMove), errors.Is(err, chess.ErrOutOfBounds),
		errors.Is(err, chess.ErrInvalidFEN), errors.Is(err, chess.ErrInvalidBoard),
		errors.Is(err, chess.ErrCorruptState), errors.Is(err, uci.ErrNotBestMove):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func writeError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
