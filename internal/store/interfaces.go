package store

import (
	"context"

	"github.com/saathi/saathi-backend/internal/models"
)

// ChildStore defines child document storage operations. Get never returns
// the stored password hash to transport layers; credential checks go
// through GetByUsername.
type ChildStore interface {
	Create(ctx context.Context, child *models.Child) (string, error)
	Get(ctx context.Context, id string) (*models.Child, error)
	GetByParent(ctx context.Context, parentUUID string) (*models.Child, error)
	GetByUsername(ctx context.Context, username string) (*models.Child, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	UpdateSummary(ctx context.Context, id string, summary *models.ConversationSummary) error
	Delete(ctx context.Context, id string) error
}

// ConversationStore defines the append-only conversation collection under
// a child. AddWithSummary persists the conversation and the child's
// updated rolling summary as one atomic write: the child row is locked for
// the duration, so the append and the count increment cannot diverge.
type ConversationStore interface {
	AddWithSummary(ctx context.Context, childID string, conv *models.Conversation, summary *models.ConversationSummary) (string, error)
	ListByChild(ctx context.Context, childID string) ([]models.Conversation, error)
}

// TaskStore defines per-child task collections, scoped by kind.
type TaskStore interface {
	Add(ctx context.Context, childID string, kind models.TaskKind, task *models.Task) (string, error)
	Get(ctx context.Context, childID string, kind models.TaskKind, taskID string) (*models.Task, error)
	List(ctx context.Context, childID string, kind models.TaskKind) ([]models.Task, error)
	Update(ctx context.Context, childID string, kind models.TaskKind, taskID string, update models.TaskUpdate) error
	Delete(ctx context.Context, childID string, kind models.TaskKind, taskID string) error
}
