package handlers

import (
	"encoding/base64"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/saathi/saathi-backend/internal/api/middleware"
	"github.com/saathi/saathi-backend/internal/models"
	"github.com/saathi/saathi-backend/internal/services"
)

// VoiceChat handles one voice exchange. The request carries a WAV file in
// the "file" multipart field; the reply audio comes back base64 encoded.
func VoiceChat(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		childID := middleware.ChildID(c)
		if childID == "" {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  fiber.StatusNotFound,
				"message": "Child_ID not found",
			})
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  fiber.StatusBadRequest,
				"message": "Audio file is required",
			})
		}

		file, err := fileHeader.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  fiber.StatusBadRequest,
				"message": "Failed to open audio upload",
			})
		}
		defer file.Close()

		wav, err := io.ReadAll(file)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  fiber.StatusBadRequest,
				"message": "Failed to read audio upload",
			})
		}

		result, err := svc.Chat.VoiceTurn(c.Context(), childID, wav)
		if err != nil {
			return fail(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"status":     fiber.StatusCreated,
			"transcript": result.Transcript,
			"reply":      result.Reply,
			"emotion":    result.Emotion,
			"duration":   result.Duration,
			"audio":      base64.StdEncoding.EncodeToString(result.Audio),
		})
	}
}

// EndChat saves the finished session as a conversation record.
func EndChat(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		childID := middleware.ChildID(c)
		if childID == "" {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  fiber.StatusNotFound,
				"message": "Child_ID not found",
			})
		}

		conv, err := svc.Chat.EndChat(c.Context(), childID)
		if err != nil {
			return fail(c, err)
		}

		return c.JSON(fiber.Map{
			"status":          fiber.StatusOK,
			"message":         "successfully updated",
			"conversation_id": conv.ID,
		})
	}
}

// ClearSession drops the in-flight chat state.
func ClearSession(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		childID := middleware.ChildID(c)
		if childID == "" {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  fiber.StatusNotFound,
				"message": "Child_ID not found",
			})
		}

		if err := svc.Chat.ClearSession(c.Context(), childID); err != nil {
			return fail(c, err)
		}

		return c.JSON(fiber.Map{
			"status":  fiber.StatusOK,
			"message": "Cleared chat session",
		})
	}
}

// ParentChat answers a parent's text question with the advisor persona.
func ParentChat(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			Chat    string               `json:"chat"`
			History []models.ChatMessage `json:"history"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  fiber.StatusBadRequest,
				"message": "Invalid request body",
			})
		}

		reply, err := svc.Chat.ParentChat(c.Context(), req.Chat, req.History)
		if err != nil {
			return fail(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"text": reply,
		})
	}
}
