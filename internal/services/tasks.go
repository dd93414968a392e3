package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/saathi/saathi-backend/internal/models"
	"github.com/saathi/saathi-backend/internal/store"
)

// TaskService manages the per-child habitual and learning task
// collections. Completing a habitual task credits its point value to the
// child; learning tasks never award points.
type TaskService struct {
	tasks    store.TaskStore
	children store.ChildStore
	logger   *logrus.Logger
}

// NewTaskService creates a new task service
func NewTaskService(tasks store.TaskStore, children store.ChildStore, logger *logrus.Logger) *TaskService {
	return &TaskService{
		tasks:    tasks,
		children: children,
		logger:   logger,
	}
}

// List returns all tasks of one kind for a child.
func (s *TaskService) List(ctx context.Context, childID string, kind models.TaskKind) ([]models.Task, error) {
	if _, err := s.children.Get(ctx, childID); err != nil {
		return nil, err
	}
	return s.tasks.List(ctx, childID, kind)
}

// Create adds a task under the child and returns its assigned id.
func (s *TaskService) Create(ctx context.Context, childID string, kind models.TaskKind, task *models.Task) (string, error) {
	if _, err := s.children.Get(ctx, childID); err != nil {
		return "", err
	}
	return s.tasks.Add(ctx, childID, kind, task)
}

// Update applies a partial replacement to a task. When the update marks a
// habitual task as done, the task's stored point value is added to the
// child's balance. Learning-task completion deliberately awards nothing.
func (s *TaskService) Update(ctx context.Context, childID string, kind models.TaskKind, taskID string, update models.TaskUpdate) error {
	if err := s.tasks.Update(ctx, childID, kind, taskID, update); err != nil {
		return err
	}

	if kind != models.TaskHabitual || update.IsDone == nil || !*update.IsDone {
		return nil
	}

	task, err := s.tasks.Get(ctx, childID, kind, taskID)
	if err != nil {
		return err
	}
	child, err := s.children.Get(ctx, childID)
	if err != nil {
		return err
	}

	if err := s.children.Update(ctx, childID, map[string]interface{}{
		"points": child.Points + task.Points,
	}); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"child_id": childID,
		"task_id":  taskID,
		"points":   task.Points,
	}).Info("habitual task completed, points awarded")

	return nil
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, childID string, kind models.TaskKind, taskID string) error {
	return s.tasks.Delete(ctx, childID, kind, taskID)
}
