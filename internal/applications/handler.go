package applications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) Create(c *fiber.Ctx) error {
	userID, err := extractUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	app, err := h.Service.Create(userContext(c), userID, req)
	if err != nil {
		return mapServiceError(err, "failed to create application")
	}

	return c.Status(fiber.StatusCreated).JSON(app)
}

func (h *Handler) List(c *fiber.Ctx) error {
	userID, err := extractUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	apps, err := h.Service.List(userContext(c), userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch applications")
	}
	if apps == nil {
		apps = []Application{}
	}
	return c.JSON(apps)
}

func (h *Handler) GetByID(c *fiber.Ctx) error {
	userID, err := extractUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	app, err := h.Service.GetByID(userContext(c), userID, c.Params("id"))
	if err != nil {
		return mapServiceError(err, "failed to fetch application")
	}
	return c.JSON(app)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	userID, err := extractUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	app, err := h.Service.Update(userContext(c), userID, c.Params("id"), req)
	if err != nil {
		return mapServiceError(err, "failed to update application")
	}
	return c.JSON(app)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	userID, err := extractUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id := c.Params("id")
	if err := h.Service.Delete(userContext(c), userID, id); err != nil {
		return mapServiceError(err, "failed to delete application")
	}

	return c.JSON(fiber.Map{
		"message":   "application deleted",
		"deletedId": id,
	})
}

func (h *Handler) ToggleFollowUp(c *fiber.Ctx) error {
	userID, err := extractUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	app, err := h.Service.ToggleFollowUp(userContext(c), userID, c.Params("id"))
	if err != nil {
		return mapServiceError(err, "failed to toggle follow-up")
	}
	return c.JSON(app)
}

func (h *Handler) DueFollowUps(c *fiber.Ctx) error {
	userID, err := extractUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	apps, err := h.Service.DueFollowUps(userContext(c), userID, EndOfDay(time.Now()))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch follow-ups")
	}
	if apps == nil {
		apps = []Application{}
	}
	return c.JSON(apps)
}

func mapServiceError(err error, fallback string) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return fiber.NewError(fiber.StatusBadRequest, verr.Error())
	}
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "application not found")
	}
	return fiber.NewError(fiber.StatusInternalServerError, fallback)
}

func extractUserID(c *fiber.Ctx) (string, error) {
	val := c.Locals("user_id")
	if val == nil {
		val = c.Locals("userID")
	}
	if val == nil {
		return "", errors.New("user id missing")
	}
	if uid, ok := val.(string); ok && strings.TrimSpace(uid) != "" {
		return uid, nil
	}
	return "", errors.New("user id missing")
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
