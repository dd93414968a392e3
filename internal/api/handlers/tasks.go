package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/saathi/saathi-backend/internal/api/middleware"
	"github.com/saathi/saathi-backend/internal/models"
	"github.com/saathi/saathi-backend/internal/services"
)

func taskKind(c *fiber.Ctx) (models.TaskKind, bool) {
	kind := models.TaskKind(c.Params("kind"))
	return kind, kind.Valid()
}

// ListTasks fetches all tasks of one kind for the child.
func ListTasks(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, ok := taskKind(c)
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  fiber.StatusNotFound,
				"message": "Unknown task kind",
			})
		}
		childID := middleware.ChildID(c)
		if childID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  fiber.StatusBadRequest,
				"message": "Child_ID not found",
			})
		}

		tasks, err := svc.Tasks.List(c.Context(), childID, kind)
		if err != nil {
			return fail(c, err)
		}

		return c.JSON(fiber.Map{
			"status":  fiber.StatusOK,
			"message": "Successfully retrieved all tasks",
			"tasks":   tasks,
		})
	}
}

// CreateTask creates a task for the child.
func CreateTask(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, ok := taskKind(c)
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  fiber.StatusNotFound,
				"message": "Unknown task kind",
			})
		}
		childID := middleware.ChildID(c)
		if childID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  fiber.StatusBadRequest,
				"message": "Child_ID not found",
			})
		}

		var task models.Task
		if err := c.BodyParser(&task); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  fiber.StatusBadRequest,
				"message": "Invalid request body",
			})
		}
		task.Kind = kind

		id, err := svc.Tasks.Create(c.Context(), childID, kind, &task)
		if err != nil {
			return fail(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"status":  fiber.StatusCreated,
			"message": "Task successfully created",
			"task_id": id,
		})
	}
}

// UpdateTask applies a partial update to a task. Completing a habitual
// task credits its points to the child.
func UpdateTask(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, ok := taskKind(c)
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  fiber.StatusNotFound,
				"message": "Unknown task kind",
			})
		}
		childID := middleware.ChildID(c)
		if childID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  fiber.StatusBadRequest,
				"message": "Child_ID not found",
			})
		}
		taskID := c.Params("task_id")

		var update models.TaskUpdate
		if err := c.BodyParser(&update); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  fiber.StatusBadRequest,
				"message": "Invalid request body",
			})
		}

		if err := svc.Tasks.Update(c.Context(), childID, kind, taskID, update); err != nil {
			return fail(c, err)
		}

		return c.JSON(fiber.Map{
			"status":  fiber.StatusOK,
			"message": "Successfully updated task",
		})
	}
}

// DeleteTask removes a task.
func DeleteTask(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, ok := taskKind(c)
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  fiber.StatusNotFound,
				"message": "Unknown task kind",
			})
		}
		childID := middleware.ChildID(c)
		if childID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  fiber.StatusBadRequest,
				"message": "Child_ID not found",
			})
		}
		taskID := c.Params("task_id")

		if err := svc.Tasks.Delete(c.Context(), childID, kind, taskID); err != nil {
			return fail(c, err)
		}

		return c.JSON(fiber.Map{
			"status":  fiber.StatusOK,
			"message": "Successfully deleted task",
		})
	}
}
