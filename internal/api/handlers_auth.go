package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/educonnect/educonnect/internal/auth"
	"github.com/educonnect/educonnect/internal/routing"
)

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupInput struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Password   string   `json:"password"`
	Role       string   `json:"role"`
	Areas      []string `json:"areas"`
	HourlyRate float64  `json:"hourly_rate"`
	Bio        string   `json:"bio"`
	AvatarURL  string   `json:"avatar_url"`
}

// SessionInfo reports the current session without forcing a login. The
// loading flag is true until hydration has finished. Pending notices are
// drained here so a session expired during hydration reaches the client on
// its first poll instead of riding along with a later auth response.
func (handler *Handler) SessionInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"user":    handler.auth.Session(),
		"loading": handler.auth.Loading(),
		"notices": renderNotices(currentMessages(c), handler.notices.drain()),
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	messages := currentMessages(c)

	var input loginInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, translateMessage(messages, "error.bad_request"))
	}
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return apiError(c, fiber.StatusBadRequest, translateMessage(messages, "error.bad_request"))
	}

	limiterKey := requestLimiterKey(c)
	now := time.Now()
	if handler.loginLimiter.blocked(limiterKey, now) {
		return apiError(c, fiber.StatusTooManyRequests, translateMessage(messages, "error.too_many_attempts"))
	}

	user, err := handler.auth.Login(c.UserContext(), input.Email, input.Password)
	notices := renderNotices(messages, handler.notices.drain())
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			handler.loginLimiter.addFailure(limiterKey, now)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   translateMessage(messages, "auth.login_failed"),
				"notices": notices,
			})
		}
		handler.logger.Printf("login failed: %v", err)
		return apiError(c, fiber.StatusBadGateway, translateMessage(messages, "error.internal"))
	}

	handler.loginLimiter.reset(limiterKey)
	return c.JSON(fiber.Map{
		"user":     user,
		"redirect": routing.HomePath(user.Role),
		"notices":  notices,
	})
}

func (handler *Handler) Signup(c *fiber.Ctx) error {
	messages := currentMessages(c)

	var input signupInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, translateMessage(messages, "error.bad_request"))
	}
	if strings.TrimSpace(input.Email) == "" || input.Password == "" || strings.TrimSpace(input.Name) == "" {
		return apiError(c, fiber.StatusBadRequest, translateMessage(messages, "error.bad_request"))
	}

	user, err := handler.auth.Signup(c.UserContext(), auth.SignupInput{
		DisplayName:    input.Name,
		Email:          input.Email,
		Password:       input.Password,
		Role:           input.Role,
		KnowledgeAreas: input.Areas,
		HourlyRate:     input.HourlyRate,
		Bio:            input.Bio,
		AvatarURL:      input.AvatarURL,
	})
	notices := renderNotices(messages, handler.notices.drain())
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":   translateMessage(messages, "auth.email_taken"),
				"notices": notices,
			})
		case errors.Is(err, auth.ErrInvalidRole):
			return apiError(c, fiber.StatusBadRequest, translateMessage(messages, "error.bad_request"))
		default:
			handler.logger.Printf("signup failed: %v", err)
			return apiError(c, fiber.StatusBadGateway, translateMessage(messages, "error.internal"))
		}
	}

	// Account created but not logged in; the client moves to the login
	// form next.
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":     user,
		"redirect": routing.PathLogin,
		"notices":  notices,
	})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.auth.Logout()
	notices := renderNotices(currentMessages(c), handler.notices.drain())
	return c.JSON(fiber.Map{
		"redirect": routing.PathLogin,
		"notices":  notices,
	})
}
