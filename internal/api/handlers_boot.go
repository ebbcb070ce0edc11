package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) BootState(c *fiber.Ctx) error {
	return c.JSON(handler.boot.Snapshot())
}

// BootRetry starts a fresh boot attempt and answers immediately with the
// state the attempt opened with. The client polls BootState for progress.
func (handler *Handler) BootRetry(c *fiber.Ctx) error {
	go func() {
		handler.boot.Retry(context.Background())
	}()
	return c.Status(fiber.StatusAccepted).JSON(handler.boot.Snapshot())
}
