package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/educonnect/educonnect/internal/routing"
)

// Dispatch answers where the client should land for a page. The client
// sends the path it wants and, for guarded pages, the role that page
// demands.
func (handler *Handler) Dispatch(c *fiber.Ctx) error {
	path := c.Query("path", routing.PathRoot)
	requiredRole := c.Query("role")

	decision := routing.Resolve(path, requiredRole, handler.auth.Session())
	return c.JSON(decision)
}
