package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/saathi/saathi-backend/internal/api/handlers"
	"github.com/saathi/saathi-backend/internal/api/middleware"
	"github.com/saathi/saathi-backend/internal/auth"
	"github.com/saathi/saathi-backend/internal/services"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, svc *services.Services, jwtService *auth.JWTService) {
	api := app.Group("/api/v1")

	// Child routes: login is public, the rest require a session token.
	child := api.Group("/child")
	child.Post("/login", handlers.ChildLogin(svc))
	child.Post("/voice-chat", middleware.ChildAuth(jwtService), handlers.VoiceChat(svc))
	child.Post("/end-chat", middleware.ChildAuth(jwtService), handlers.EndChat(svc))
	child.Get("/summary", middleware.ChildAuth(jwtService), handlers.ChildSummary(svc))
	child.Get("/clear-session", middleware.ChildAuth(jwtService), handlers.ClearSession(svc))

	// Parent routes
	parent := api.Group("/parent")
	parent.Post("/text-chat", handlers.ParentChat(svc))
	parent.Post("/children", handlers.CreateChild(svc))
	parent.Put("/children/credentials", handlers.UpdateChildCredentials(svc))
	parent.Get("/children", handlers.GetChildByParent(svc))
	parent.Get("/children/activity", handlers.ChildActivity(svc))

	// Task routes shared by child and parent clients: the child id comes
	// from the session token when present, else from ?child_id=.
	common := api.Group("/common", middleware.OptionalChildAuth(jwtService))
	common.Get("/tasks/:kind", handlers.ListTasks(svc))
	common.Post("/tasks/:kind", handlers.CreateTask(svc))
	common.Put("/tasks/:kind/:task_id", handlers.UpdateTask(svc))
	common.Delete("/tasks/:kind/:task_id", handlers.DeleteTask(svc))

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "saathi-backend",
		})
	})
}
