package models

import "time"

// TaskKind selects which per-child task collection a task belongs to.
type TaskKind string

const (
	TaskHabitual TaskKind = "habitual"
	TaskLearning TaskKind = "learning"
)

// Valid reports whether k names a known task collection.
func (k TaskKind) Valid() bool {
	return k == TaskHabitual || k == TaskLearning
}

// Task is a per-child task document. Habitual tasks carry a daily time
// window; learning tasks carry a reference link. The unused field stays
// empty for the other kind.
type Task struct {
	ID       string   `json:"task_id" db:"id"`
	ChildID  string   `json:"-" db:"child_id"`
	Kind     TaskKind `json:"-" db:"-"`
	Title    string   `json:"title" db:"title"`
	Points   int      `json:"points" db:"points"`
	IsDone   bool     `json:"is_done" db:"is_done"`
	FromTime string   `json:"from_time,omitempty" db:"from_time"`
	ToTime   string   `json:"to_time,omitempty" db:"to_time"`
	Link     string   `json:"link,omitempty" db:"link"`

	CreatedAt time.Time `json:"-" db:"created_at"`
}

// TaskUpdate carries a partial field replacement for an existing task.
// Nil fields are left untouched.
type TaskUpdate struct {
	Title    *string `json:"title"`
	Points   *int    `json:"points"`
	IsDone   *bool   `json:"is_done"`
	FromTime *string `json:"from_time"`
	ToTime   *string `json:"to_time"`
	Link     *string `json:"link"`
}
