package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/saathi/saathi-backend/internal/apperr"
	"github.com/saathi/saathi-backend/internal/models"
	"github.com/saathi/saathi-backend/internal/store"
)

// TaskRepository implements store.TaskStore using PostgreSQL. Habitual and
// learning tasks live in separate tables, mirroring separate sub-collections
// under the owning child.
type TaskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new PostgreSQL task repository
func NewTaskRepository(db *sqlx.DB) store.TaskStore {
	return &TaskRepository{db: db}
}

// tableFor is the single place a task kind resolves to a table name.
func tableFor(kind models.TaskKind) (string, error) {
	switch kind {
	case models.TaskHabitual:
		return "habitual_tasks", nil
	case models.TaskLearning:
		return "learning_tasks", nil
	}
	return "", apperr.NotFound("store.task", fmt.Errorf("unknown task kind %q", kind))
}

type dbTask struct {
	ID        string         `db:"id"`
	ChildID   string         `db:"child_id"`
	Title     string         `db:"title"`
	Points    int            `db:"points"`
	IsDone    bool           `db:"is_done"`
	FromTime  sql.NullString `db:"from_time"`
	ToTime    sql.NullString `db:"to_time"`
	Link      sql.NullString `db:"link"`
	CreatedAt time.Time      `db:"created_at"`
}

func (t *dbTask) toModel(kind models.TaskKind) models.Task {
	return models.Task{
		ID:        t.ID,
		ChildID:   t.ChildID,
		Kind:      kind,
		Title:     t.Title,
		Points:    t.Points,
		IsDone:    t.IsDone,
		FromTime:  t.FromTime.String,
		ToTime:    t.ToTime.String,
		Link:      t.Link.String,
		CreatedAt: t.CreatedAt,
	}
}

// Add creates a task under the child and returns its assigned id.
func (r *TaskRepository) Add(ctx context.Context, childID string, kind models.TaskKind, task *models.Task) (string, error) {
	table, err := tableFor(kind)
	if err != nil {
		return "", err
	}

	id := uuid.New().String()
	query := fmt.Sprintf(`
		INSERT INTO %s (id, child_id, title, points, is_done, from_time, to_time, link, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, table)

	var returnedID string
	err = r.db.QueryRowxContext(ctx, query,
		id, childID, task.Title, task.Points, task.IsDone,
		nullable(task.FromTime), nullable(task.ToTime), nullable(task.Link), time.Now(),
	).Scan(&returnedID)
	if err != nil {
		return "", apperr.Store("store.task.add", err)
	}

	return returnedID, nil
}

// Get retrieves a single task scoped to the child.
func (r *TaskRepository) Get(ctx context.Context, childID string, kind models.TaskKind, taskID string) (*models.Task, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, child_id, title, points, is_done, from_time, to_time, link, created_at
		FROM %s WHERE id = $1 AND child_id = $2
	`, table)

	var row dbTask
	err = r.db.GetContext(ctx, &row, query, taskID, childID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("store.task.get", fmt.Errorf("task %s does not exist", taskID))
		}
		return nil, apperr.Store("store.task.get", err)
	}

	task := row.toModel(kind)
	return &task, nil
}

// List returns all tasks of one kind under a child.
func (r *TaskRepository) List(ctx context.Context, childID string, kind models.TaskKind) ([]models.Task, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, child_id, title, points, is_done, from_time, to_time, link, created_at
		FROM %s WHERE child_id = $1
		ORDER BY created_at
	`, table)

	var rows []dbTask
	if err := r.db.SelectContext(ctx, &rows, query, childID); err != nil {
		return nil, apperr.Store("store.task.list", err)
	}

	tasks := make([]models.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, row.toModel(kind))
	}
	return tasks, nil
}

// Update applies a partial field replacement to a task row.
func (r *TaskRepository) Update(ctx context.Context, childID string, kind models.TaskKind, taskID string, update models.TaskUpdate) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	setClause := ""
	params := map[string]interface{}{"id": taskID, "child_id": childID}
	set := func(column string, value interface{}) {
		if setClause != "" {
			setClause += ", "
		}
		setClause += column + " = :" + column
		params[column] = value
	}

	if update.Title != nil {
		set("title", *update.Title)
	}
	if update.Points != nil {
		set("points", *update.Points)
	}
	if update.IsDone != nil {
		set("is_done", *update.IsDone)
	}
	if update.FromTime != nil {
		set("from_time", *update.FromTime)
	}
	if update.ToTime != nil {
		set("to_time", *update.ToTime)
	}
	if update.Link != nil {
		set("link", *update.Link)
	}
	if setClause == "" {
		return nil
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = :id AND child_id = :child_id", table, setClause)

	result, err := r.db.NamedExecContext(ctx, query, params)
	if err != nil {
		return apperr.Store("store.task.update", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperr.NotFound("store.task.update", fmt.Errorf("task %s does not exist", taskID))
	}

	return nil
}

// Delete removes a task row.
func (r *TaskRepository) Delete(ctx context.Context, childID string, kind models.TaskKind, taskID string) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1 AND child_id = $2", table)
	result, err := r.db.ExecContext(ctx, query, taskID, childID)
	if err != nil {
		return apperr.Store("store.task.delete", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperr.NotFound("store.task.delete", fmt.Errorf("task %s does not exist", taskID))
	}

	return nil
}
