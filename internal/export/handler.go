package export

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/bhardwajvivekkumar/JobSync/internal/applications"
)

const noJobsMessage = "There are no jobs stored for this user, first create a job to export"

type Handler struct {
	Service *applications.Service
}

func NewHandler(service *applications.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) CSV(c *fiber.Ctx) error {
	apps, err := h.loadOwned(c)
	if err != nil {
		return err
	}

	data, err := RenderCSV(apps)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "csv build failed")
	}

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", `attachment; filename="jobs.csv"`)
	return c.Send(data)
}

func (h *Handler) PDF(c *fiber.Ctx) error {
	apps, err := h.loadOwned(c)
	if err != nil {
		return err
	}

	data, err := RenderPDF(apps)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "pdf build failed")
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="jobs.pdf"`)
	return c.Send(data)
}

func (h *Handler) loadOwned(c *fiber.Ctx) ([]applications.Application, error) {
	userID, err := extractUserID(c)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	apps, err := h.Service.List(userContext(c), userID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to fetch applications")
	}
	if len(apps) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, noJobsMessage)
	}
	return apps, nil
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
