package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mohammed-sarhad-ahmed/skillswap-backend/internal/service"
)

type ConnectionHandler struct {
	connService service.ConnectionService
}

func NewConnectionHandler(connService service.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{connService: connService}
}

func connectionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrSelfConnection):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	case errors.Is(err, service.ErrAlreadyConnected), errors.Is(err, service.ErrRequestInProgress):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNoPendingRequest):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

func (h *ConnectionHandler) SendRequest(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	recipientID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	if err := h.connService.SendRequest(c.Context(), userID, recipientID); err != nil {
		return connectionError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Connection request sent"})
}

type RespondConnectionRequest struct {
	Accept bool `json:"accept"`
}

func (h *ConnectionHandler) Respond(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	requesterID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var request RespondConnectionRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.connService.RespondToRequest(c.Context(), requesterID, userID, request.Accept); err != nil {
		return connectionError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"accepted": request.Accept})
}

func (h *ConnectionHandler) CancelRequest(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	recipientID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	if err := h.connService.CancelConnection(c.Context(), userID, recipientID); err != nil {
		return connectionError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Connection request canceled"})
}

func (h *ConnectionHandler) Disconnect(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	otherID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	if err := h.connService.CancelConnection(c.Context(), userID, otherID); err != nil {
		return connectionError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Disconnected"})
}

func (h *ConnectionHandler) List(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	sets, err := h.connService.Sets(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(sets)
}
