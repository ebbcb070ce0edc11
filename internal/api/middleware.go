package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/educonnect/educonnect/internal/models"
)

const (
	languageCookieName = "educonnect_lang"

	contextUserKey     = "current_user"
	contextLanguageKey = "current_language"
	contextMessagesKey = "current_messages"
)

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

func currentLanguage(c *fiber.Ctx) string {
	language, _ := c.Locals(contextLanguageKey).(string)
	return language
}

func currentMessages(c *fiber.Ctx) map[string]string {
	messages, _ := c.Locals(contextMessagesKey).(map[string]string)
	return messages
}

func (handler *Handler) LanguageMiddleware(c *fiber.Ctx) error {
	cookieLanguage := c.Cookies(languageCookieName)
	language := handler.i18n.DetectFromAcceptLanguage(c.Get("Accept-Language"))
	if cookieLanguage != "" {
		language = handler.i18n.NormalizeLanguage(cookieLanguage)
	}

	if cookieLanguage != language {
		c.Cookie(&fiber.Cookie{
			Name:     languageCookieName,
			Value:    language,
			Path:     "/",
			SameSite: "Lax",
			Expires:  time.Now().AddDate(1, 0, 0),
		})
	}

	c.Locals(contextLanguageKey, language)
	c.Locals(contextMessagesKey, handler.i18n.Messages(language))
	return c.Next()
}

// BootRequired gates the app behind a successful boot. While the pipeline
// is still running it answers 503 with the live state so the client can
// render progress; after a terminal error it keeps answering 503 until a
// retry succeeds.
func (handler *Handler) BootRequired(c *fiber.Ctx) error {
	if handler.boot.Ready() {
		return c.Next()
	}
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": translateMessage(currentMessages(c), "boot.not_ready"),
		"boot":  handler.boot.Snapshot(),
	})
}

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	if handler.auth.Loading() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": translateMessage(currentMessages(c), "boot.not_ready"),
		})
	}
	user := handler.auth.Session()
	if user == nil {
		return apiError(c, fiber.StatusUnauthorized, translateMessage(currentMessages(c), "error.unauthorized"))
	}
	c.Locals(contextUserKey, user)
	return c.Next()
}

// RoleRequired admits only sessions with the given role. Must run after
// AuthRequired.
func (handler *Handler) RoleRequired(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := currentUser(c)
		if !ok {
			return apiError(c, fiber.StatusUnauthorized, translateMessage(currentMessages(c), "error.unauthorized"))
		}
		if user.Role != role {
			return apiError(c, fiber.StatusForbidden, translateMessage(currentMessages(c), "error.forbidden"))
		}
		return c.Next()
	}
}
