package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/saathi/saathi-backend/internal/api/middleware"
	"github.com/saathi/saathi-backend/internal/models"
	"github.com/saathi/saathi-backend/internal/services"
)

// ChildLogin checks a username/password pair and returns a session token.
func ChildLogin(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  fiber.StatusBadRequest,
				"message": "Invalid request body",
			})
		}

		token, childID, err := svc.Children.Login(c.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"status":  fiber.StatusUnauthorized,
					"message": "Incorrect username or password",
				})
			}
			return fail(c, err)
		}

		return c.JSON(fiber.Map{
			"status":   fiber.StatusOK,
			"message":  "Logged in Successfully",
			"token":    token,
			"child_id": childID,
		})
	}
}

// ChildSummary returns the rolling summary plus the conversation list.
func ChildSummary(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		childID := middleware.ChildID(c)
		if childID == "" {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  fiber.StatusNotFound,
				"message": "Child_ID not found",
			})
		}

		summary, conversations, err := svc.Children.SummaryWithConversations(c.Context(), childID)
		if err != nil {
			return fail(c, err)
		}

		return c.JSON(fiber.Map{
			"last_updated":      summary.LastUpdated,
			"conversations":     summary.Conversations,
			"total_duration":    summary.TotalDuration,
			"emotion":           summary.Emotion,
			"stress":            summary.Stress,
			"stressSummary":     summary.StressSummary,
			"interests_summary": summary.InterestsSummary,
			"conversation_list": conversations,
		})
	}
}

type childCreateRequest struct {
	ParentUUID     string   `json:"parent_uuid"`
	ReportID       string   `json:"report_id"`
	Name           string   `json:"name"`
	Age            int      `json:"age"`
	Sex            string   `json:"sex"`
	NeuroCat       []string `json:"neuro_cat"`
	AdditionalInfo string   `json:"additional_info"`
	Username       string   `json:"username"`
	Password       string   `json:"password"`
}

// CreateChild registers a child profile for a parent.
func CreateChild(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req childCreateRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  fiber.StatusBadRequest,
				"message": "Invalid request body",
			})
		}

		child := &models.Child{
			ParentUUID:     req.ParentUUID,
			ReportID:       req.ReportID,
			Name:           req.Name,
			Age:            req.Age,
			Sex:            req.Sex,
			NeuroCat:       req.NeuroCat,
			AdditionalInfo: req.AdditionalInfo,
			Username:       req.Username,
		}

		id, err := svc.Children.Create(c.Context(), child, req.Password)
		if err != nil {
			return fail(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"status":   fiber.StatusCreated,
			"message":  "Successfully created child document",
			"child_id": id,
		})
	}
}

// UpdateChildCredentials sets a new username/password pair for a child.
func UpdateChildCredentials(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			ChildID  string `json:"child_id"`
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  fiber.StatusBadRequest,
				"message": "Invalid request body",
			})
		}
		if req.ChildID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  fiber.StatusBadRequest,
				"message": "Child_ID not found",
			})
		}

		err := svc.Children.UpdateCredentials(c.Context(), req.ChildID, req.Username, req.Password)
		if err != nil {
			if errors.Is(err, services.ErrUsernameTaken) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"status":  fiber.StatusBadRequest,
					"message": "Username exists already",
				})
			}
			return fail(c, err)
		}

		return c.JSON(fiber.Map{
			"status":  fiber.StatusOK,
			"message": "Successfully updated credentials",
		})
	}
}

// ChildActivity returns the recent activity trail for a child: logins,
// saved conversations, and credential changes.
func ChildActivity(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		childID := c.Query("child_id")
		if childID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  fiber.StatusBadRequest,
				"message": "Child_ID not found",
			})
		}

		events, err := svc.Audit.ListByChild(c.Context(), childID, c.QueryInt("limit", 50))
		if err != nil {
			return fail(c, err)
		}

		return c.JSON(fiber.Map{
			"status": fiber.StatusOK,
			"events": events,
		})
	}
}

// GetChildByParent returns the child profile owned by a parent reference.
func GetChildByParent(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		parentUUID := c.Query("parent_uuid")
		if parentUUID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  fiber.StatusBadRequest,
				"message": "parent_uuid is required",
			})
		}

		child, err := svc.Children.GetByParent(c.Context(), parentUUID)
		if err != nil {
			return fail(c, err)
		}

		return c.JSON(child)
	}
}
