package api

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/educonnect/educonnect/internal/chat"
	"github.com/educonnect/educonnect/internal/marketplace"
	"github.com/educonnect/educonnect/internal/models"
)

type createGroupInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Area        string `json:"area"`
}

type chatMessageInput struct {
	Body string `json:"body"`
}

func (handler *Handler) ListGroups(c *fiber.Ctx) error {
	groups, err := handler.marketplace.ListGroups(c.UserContext())
	if err != nil {
		handler.logger.Printf("list groups failed: %v", err)
		return apiError(c, fiber.StatusBadGateway, translateMessage(currentMessages(c), "error.internal"))
	}
	return c.JSON(fiber.Map{"groups": groups})
}

func (handler *Handler) GetGroup(c *fiber.Ctx) error {
	group, err := handler.marketplace.GroupByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return handler.groupError(c, err)
	}
	return c.JSON(group)
}

func (handler *Handler) CreateGroup(c *fiber.Ctx) error {
	messages := currentMessages(c)
	user, _ := currentUser(c)

	var input createGroupInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, translateMessage(messages, "error.bad_request"))
	}

	group, err := handler.marketplace.CreateGroup(c.UserContext(), marketplace.CreateGroupInput{
		Name:        input.Name,
		Description: input.Description,
		Area:        input.Area,
		OwnerID:     user.ExternalID,
	})
	if err != nil {
		handler.logger.Printf("create group failed: %v", err)
		return apiError(c, fiber.StatusBadRequest, translateMessage(messages, "error.bad_request"))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"group":   group,
		"message": fmt.Sprintf(translateMessage(messages, "group.created"), group.Name),
	})
}

func (handler *Handler) JoinGroup(c *fiber.Ctx) error {
	messages := currentMessages(c)
	user, _ := currentUser(c)

	group, err := handler.marketplace.JoinGroup(c.UserContext(), c.Params("id"), user.ExternalID)
	if err != nil {
		if errors.Is(err, marketplace.ErrAlreadyMember) {
			return apiError(c, fiber.StatusConflict, translateMessage(messages, "group.already_member"))
		}
		return handler.groupError(c, err)
	}

	return c.JSON(fiber.Map{
		"group":   group,
		"message": fmt.Sprintf(translateMessage(messages, "group.joined"), group.Name),
	})
}

// GroupChat returns the locally stored message history. Only members can
// read or write a group's chat.
func (handler *Handler) GroupChat(c *fiber.Ctx) error {
	group, _, ok := handler.requireMembership(c)
	if !ok {
		return nil
	}

	messages, err := handler.chat.ListByGroup(group.ID)
	if err != nil {
		handler.logger.Printf("list chat failed: %v", err)
		return apiError(c, fiber.StatusInternalServerError, translateMessage(currentMessages(c), "error.internal"))
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	return c.JSON(fiber.Map{"messages": messages})
}

func (handler *Handler) PostGroupChat(c *fiber.Ctx) error {
	localizedMessages := currentMessages(c)
	group, user, ok := handler.requireMembership(c)
	if !ok {
		return nil
	}

	var input chatMessageInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, translateMessage(localizedMessages, "error.bad_request"))
	}

	message, err := handler.chat.Append(group.ID, user.ExternalID, user.DisplayName, input.Body)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			return apiError(c, fiber.StatusBadRequest, translateMessage(localizedMessages, "chat.message_empty"))
		case errors.Is(err, chat.ErrMessageTooLong):
			return apiError(c, fiber.StatusBadRequest,
				fmt.Sprintf(translateMessage(localizedMessages, "chat.message_too_long"), chat.MaxMessageLength))
		default:
			handler.logger.Printf("append chat failed: %v", err)
			return apiError(c, fiber.StatusInternalServerError, translateMessage(localizedMessages, "error.internal"))
		}
	}

	return c.Status(fiber.StatusCreated).JSON(message)
}

// ClearGroupChat wipes the local history of a group. Owner only.
func (handler *Handler) ClearGroupChat(c *fiber.Ctx) error {
	messages := currentMessages(c)
	user, _ := currentUser(c)

	group, err := handler.marketplace.GroupByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return handler.groupError(c, err)
	}
	if group.OwnerID != user.ExternalID {
		return apiError(c, fiber.StatusForbidden, translateMessage(messages, "error.forbidden"))
	}

	removed, err := handler.chat.ClearGroup(group.ID)
	if err != nil {
		handler.logger.Printf("clear chat failed: %v", err)
		return apiError(c, fiber.StatusInternalServerError, translateMessage(messages, "error.internal"))
	}

	return c.JSON(fiber.Map{
		"removed": removed,
		"message": translateMessage(messages, "chat.cleared"),
	})
}

// requireMembership resolves the group and checks the session user belongs
// to it. On failure it writes the response itself and reports ok=false; the
// caller must stop without touching the response again.
func (handler *Handler) requireMembership(c *fiber.Ctx) (models.Group, *models.User, bool) {
	user, hasUser := currentUser(c)
	if !hasUser {
		_ = apiError(c, fiber.StatusUnauthorized, translateMessage(currentMessages(c), "error.unauthorized"))
		return models.Group{}, nil, false
	}

	group, err := handler.marketplace.GroupByID(c.UserContext(), c.Params("id"))
	if err != nil {
		_ = handler.groupError(c, err)
		return models.Group{}, nil, false
	}
	if !group.HasMember(user.ExternalID) {
		_ = apiError(c, fiber.StatusForbidden,
			translateMessage(currentMessages(c), "group.members_only"))
		return models.Group{}, nil, false
	}
	return group, user, true
}

func (handler *Handler) groupError(c *fiber.Ctx, err error) error {
	if errors.Is(err, marketplace.ErrGroupNotFound) {
		return apiError(c, fiber.StatusNotFound, translateMessage(currentMessages(c), "group.not_found"))
	}
	handler.logger.Printf("group lookup failed: %v", err)
	return apiError(c, fiber.StatusBadGateway, translateMessage(currentMessages(c), "error.internal"))
}
