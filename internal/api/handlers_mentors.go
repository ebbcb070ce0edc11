package api

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/educonnect/educonnect/internal/marketplace"
	"github.com/educonnect/educonnect/internal/models"
)

type scheduleSessionInput struct {
	MentorID string `json:"mentor_id"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Notes    string `json:"notes"`
}

type sessionStatusInput struct {
	Status string `json:"status"`
}

func (handler *Handler) ListMentors(c *fiber.Ctx) error {
	params := marketplace.ListMentorsParams{
		Query:    c.Query("q"),
		Order:    c.Query("order"),
		PageSize: c.QueryInt("page_size"),
	}
	if raw := strings.TrimSpace(c.Query("areas")); raw != "" {
		for _, area := range strings.Split(raw, ",") {
			if area = strings.TrimSpace(area); area != "" {
				params.Areas = append(params.Areas, area)
			}
		}
	}
	if value, err := strconv.ParseFloat(c.Query("price_min"), 64); err == nil {
		params.PriceMin = &value
	}
	if value, err := strconv.ParseFloat(c.Query("price_max"), 64); err == nil {
		params.PriceMax = &value
	}

	page, err := handler.marketplace.ListMentors(c.UserContext(), params)
	if err != nil {
		handler.logger.Printf("list mentors failed: %v", err)
		return apiError(c, fiber.StatusBadGateway, translateMessage(currentMessages(c), "error.internal"))
	}
	return c.JSON(page)
}

func (handler *Handler) GetMentor(c *fiber.Ctx) error {
	mentor, err := handler.marketplace.MentorByID(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, marketplace.ErrMentorNotFound) {
			return apiError(c, fiber.StatusNotFound, translateMessage(currentMessages(c), "mentor.not_found"))
		}
		handler.logger.Printf("mentor lookup failed: %v", err)
		return apiError(c, fiber.StatusBadGateway, translateMessage(currentMessages(c), "error.internal"))
	}
	return c.JSON(mentor)
}

// ScheduleSession books a slot with a mentor for the logged-in student.
func (handler *Handler) ScheduleSession(c *fiber.Ctx) error {
	messages := currentMessages(c)
	user, _ := currentUser(c)

	var input scheduleSessionInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, translateMessage(messages, "error.bad_request"))
	}

	start, startErr := time.Parse(time.RFC3339, input.Start)
	end, endErr := time.Parse(time.RFC3339, input.End)
	if input.MentorID == "" || startErr != nil || endErr != nil {
		return apiError(c, fiber.StatusBadRequest, translateMessage(messages, "error.bad_request"))
	}
	if !end.After(start) {
		return apiError(c, fiber.StatusBadRequest, translateMessage(messages, "session.invalid_interval"))
	}

	session, err := handler.marketplace.ScheduleSession(c.UserContext(), marketplace.ScheduleSessionInput{
		MentorID:  input.MentorID,
		StudentID: user.ExternalID,
		Start:     start,
		End:       end,
		Notes:     input.Notes,
	})
	if err != nil {
		handler.logger.Printf("schedule session failed: %v", err)
		return apiError(c, fiber.StatusBadGateway, translateMessage(messages, "error.internal"))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"session": session,
		"message": translateMessage(messages, "session.requested"),
	})
}

func (handler *Handler) ListSessions(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	sessions, err := handler.marketplace.ListSessionsForUser(c.UserContext(), user.ExternalID, user.Role)
	if err != nil {
		handler.logger.Printf("list sessions failed: %v", err)
		return apiError(c, fiber.StatusBadGateway, translateMessage(currentMessages(c), "error.internal"))
	}
	return c.JSON(fiber.Map{"sessions": sessions})
}

// UpdateSessionStatus lets a mentor confirm or decline a requested
// session.
func (handler *Handler) UpdateSessionStatus(c *fiber.Ctx) error {
	messages := currentMessages(c)

	var input sessionStatusInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, translateMessage(messages, "error.bad_request"))
	}
	if input.Status != models.SessionStatusConfirmed && input.Status != models.SessionStatusDeclined {
		return apiError(c, fiber.StatusBadRequest, translateMessage(messages, "error.bad_request"))
	}

	session, err := handler.marketplace.UpdateSessionStatus(c.UserContext(), c.Params("id"), input.Status)
	if err != nil {
		handler.logger.Printf("update session status failed: %v", err)
		return apiError(c, fiber.StatusBadGateway, translateMessage(messages, "error.internal"))
	}
	return c.JSON(fiber.Map{"session": session})
}
