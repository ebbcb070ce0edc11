package api

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/educonnect/educonnect/internal/auth"
	"github.com/educonnect/educonnect/internal/boot"
	"github.com/educonnect/educonnect/internal/chat"
	"github.com/educonnect/educonnect/internal/i18n"
	"github.com/educonnect/educonnect/internal/marketplace"
)

// Handler wires the HTTP surface to the domain services. One instance
// serves the whole app.
type Handler struct {
	boot        *boot.Controller
	auth        *auth.Manager
	marketplace *marketplace.Service
	chat        *chat.Store
	i18n        *i18n.Manager
	logger      *log.Logger

	notices      *NoticeBuffer
	loginLimiter *attemptLimiter
}

func NewHandler(bootController *boot.Controller, authManager *auth.Manager, market *marketplace.Service, chatStore *chat.Store, i18nManager *i18n.Manager, notices *NoticeBuffer, logger *log.Logger) *Handler {
	return &Handler{
		boot:         bootController,
		auth:         authManager,
		marketplace:  market,
		chat:         chatStore,
		i18n:         i18nManager,
		logger:       logger,
		notices:      notices,
		loginLimiter: newAttemptLimiter(loginAttemptLimit, loginAttemptWindow),
	}
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
