package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/saathi/saathi-backend/internal/apperr"
	"github.com/saathi/saathi-backend/internal/audit"
)

// AuditRepository implements audit.Repository using PostgreSQL.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository creates a new PostgreSQL audit repository
func NewAuditRepository(db *sqlx.DB) audit.Repository {
	return &AuditRepository{db: db}
}

// Record stores one audit event.
func (r *AuditRepository) Record(ctx context.Context, event *audit.Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, child_id, event_type, detail, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, event.ID, event.ChildID, event.Type, event.Detail, event.CreatedAt)
	if err != nil {
		return apperr.Store("store.audit.record", err)
	}
	return nil
}

// ListByChild returns the latest events for a child, newest first.
func (r *AuditRepository) ListByChild(ctx context.Context, childID string, limit int) ([]audit.Event, error) {
	var events []audit.Event
	err := r.db.SelectContext(ctx, &events, `
		SELECT id, child_id, event_type, detail, created_at
		FROM audit_events
		WHERE child_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, childID, limit)
	if err != nil {
		return nil, apperr.Store("store.audit.list", err)
	}
	return events, nil
}
