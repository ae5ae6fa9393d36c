package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/md2563430-netizen/KABS-WEBSITE/internal/services"
)

// ChatHandler handles assistant requests
type ChatHandler struct {
	chat *services.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat *services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// HandleChat answers one user message
func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	var body struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required.",
		})
	}

	reply, err := h.chat.Reply(body.Message)
	if err != nil {
		if errors.Is(err, services.ErrEmptyMessage) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Message is required.",
			})
		}

		var upstream *services.UpstreamError
		if errors.As(err, &upstream) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": upstream.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Something went wrong",
		})
	}

	return c.JSON(fiber.Map{"reply": reply})
}
