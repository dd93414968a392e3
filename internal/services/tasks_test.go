package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saathi/saathi-backend/internal/apperr"
	"github.com/saathi/saathi-backend/internal/models"
)

type memTaskStore struct {
	mu    sync.Mutex
	tasks map[models.TaskKind]map[string]*models.Task
}

func newMemTaskStore() *memTaskStore {
	return &memTaskStore{
		tasks: map[models.TaskKind]map[string]*models.Task{
			models.TaskHabitual: {},
			models.TaskLearning: {},
		},
	}
}

func (m *memTaskStore) Add(ctx context.Context, childID string, kind models.TaskKind, task *models.Task) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *task
	clone.ID = uuid.New().String()
	clone.ChildID = childID
	clone.Kind = kind
	m.tasks[kind][clone.ID] = &clone
	return clone.ID, nil
}

func (m *memTaskStore) Get(ctx context.Context, childID string, kind models.TaskKind, taskID string) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[kind][taskID]
	if !ok || task.ChildID != childID {
		return nil, apperr.NotFound("mem.task_get", errors.New("task not found"))
	}
	clone := *task
	return &clone, nil
}

func (m *memTaskStore) List(ctx context.Context, childID string, kind models.TaskKind) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Task
	for _, task := range m.tasks[kind] {
		if task.ChildID == childID {
			out = append(out, *task)
		}
	}
	return out, nil
}

func (m *memTaskStore) Update(ctx context.Context, childID string, kind models.TaskKind, taskID string, update models.TaskUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[kind][taskID]
	if !ok || task.ChildID != childID {
		return apperr.NotFound("mem.task_update", errors.New("task not found"))
	}
	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Points != nil {
		task.Points = *update.Points
	}
	if update.IsDone != nil {
		task.IsDone = *update.IsDone
	}
	return nil
}

func (m *memTaskStore) Delete(ctx context.Context, childID string, kind models.TaskKind, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[kind][taskID]
	if !ok || task.ChildID != childID {
		return apperr.NotFound("mem.task_delete", errors.New("task not found"))
	}
	delete(m.tasks[kind], taskID)
	return nil
}

func boolPtr(b bool) *bool { return &b }

func TestTaskUpdate_CompletingHabitualAwardsPoints(t *testing.T) {
	children := newMemStore()
	childID := seedChild(t, children)
	tasks := newMemTaskStore()
	svc := NewTaskService(tasks, children, testLogger())

	taskID, err := svc.Create(context.Background(), childID, models.TaskHabitual, &models.Task{
		Title:  "Brush teeth",
		Points: 15,
	})
	require.NoError(t, err)

	err = svc.Update(context.Background(), childID, models.TaskHabitual, taskID, models.TaskUpdate{
		IsDone: boolPtr(true),
	})
	require.NoError(t, err)

	child, err := children.Get(context.Background(), childID)
	require.NoError(t, err)
	assert.Equal(t, 15, child.Points)

	task, err := tasks.Get(context.Background(), childID, models.TaskHabitual, taskID)
	require.NoError(t, err)
	assert.True(t, task.IsDone)
}

func TestTaskUpdate_CompletingLearningAwardsNothing(t *testing.T) {
	children := newMemStore()
	childID := seedChild(t, children)
	tasks := newMemTaskStore()
	svc := NewTaskService(tasks, children, testLogger())

	taskID, err := svc.Create(context.Background(), childID, models.TaskLearning, &models.Task{
		Title:  "Read a chapter",
		Points: 50,
	})
	require.NoError(t, err)

	err = svc.Update(context.Background(), childID, models.TaskLearning, taskID, models.TaskUpdate{
		IsDone: boolPtr(true),
	})
	require.NoError(t, err)

	child, err := children.Get(context.Background(), childID)
	require.NoError(t, err)
	assert.Equal(t, 0, child.Points)
}

func TestTaskUpdate_UndoneHabitualAwardsNothing(t *testing.T) {
	children := newMemStore()
	childID := seedChild(t, children)
	tasks := newMemTaskStore()
	svc := NewTaskService(tasks, children, testLogger())

	taskID, err := svc.Create(context.Background(), childID, models.TaskHabitual, &models.Task{
		Title:  "Brush teeth",
		Points: 15,
		IsDone: true,
	})
	require.NoError(t, err)

	err = svc.Update(context.Background(), childID, models.TaskHabitual, taskID, models.TaskUpdate{
		IsDone: boolPtr(false),
	})
	require.NoError(t, err)

	child, err := children.Get(context.Background(), childID)
	require.NoError(t, err)
	assert.Equal(t, 0, child.Points)
}

func TestTaskUpdate_UnknownTask(t *testing.T) {
	children := newMemStore()
	childID := seedChild(t, children)
	svc := NewTaskService(newMemTaskStore(), children, testLogger())

	err := svc.Update(context.Background(), childID, models.TaskHabitual, "missing", models.TaskUpdate{
		IsDone: boolPtr(true),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestTaskList_UnknownChild(t *testing.T) {
	svc := NewTaskService(newMemTaskStore(), newMemStore(), testLogger())

	_, err := svc.List(context.Background(), "missing", models.TaskHabitual)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestTaskKindValid(t *testing.T) {
	assert.True(t, models.TaskHabitual.Valid())
	assert.True(t, models.TaskLearning.Valid())
	assert.False(t, models.TaskKind("chores").Valid())
}
