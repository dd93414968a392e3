package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/saathi/saathi-backend/internal/apperr"
	"github.com/saathi/saathi-backend/internal/models"
	"github.com/saathi/saathi-backend/internal/store"
)

// ChildRepository implements store.ChildStore using PostgreSQL.
type ChildRepository struct {
	db *sqlx.DB
}

// NewChildRepository creates a new PostgreSQL child repository
func NewChildRepository(db *sqlx.DB) store.ChildStore {
	return &ChildRepository{db: db}
}

// dbChild mirrors the children table row.
type dbChild struct {
	ID             string         `db:"id"`
	ParentUUID     string         `db:"parent_uuid"`
	ReportID       sql.NullString `db:"report_id"`
	Name           string         `db:"name"`
	Age            int            `db:"age"`
	Sex            string         `db:"sex"`
	NeuroCat       pq.StringArray `db:"neuro_cat"`
	AdditionalInfo sql.NullString `db:"additional_info"`
	Points         int            `db:"points"`
	Username       sql.NullString `db:"username"`
	PasswordHash   sql.NullString `db:"password_hash"`
	ChatSummary    []byte         `db:"chat_summary"`
	CreatedAt      time.Time      `db:"created_at"`
}

func (c *dbChild) toModel() (*models.Child, error) {
	child := &models.Child{
		ID:             c.ID,
		ParentUUID:     c.ParentUUID,
		ReportID:       c.ReportID.String,
		Name:           c.Name,
		Age:            c.Age,
		Sex:            c.Sex,
		NeuroCat:       c.NeuroCat,
		AdditionalInfo: c.AdditionalInfo.String,
		Points:         c.Points,
		Username:       c.Username.String,
		PasswordHash:   c.PasswordHash.String,
		CreatedAt:      c.CreatedAt,
	}
	if len(c.ChatSummary) > 0 {
		var summary models.ConversationSummary
		if err := json.Unmarshal(c.ChatSummary, &summary); err != nil {
			return nil, fmt.Errorf("failed to decode chat summary: %w", err)
		}
		child.ChatSummary = &summary
	}
	return child, nil
}

const childColumns = `id, parent_uuid, report_id, name, age, sex, neuro_cat,
	       additional_info, points, username, password_hash, chat_summary, created_at`

// Create inserts a new child document and returns its assigned id.
func (r *ChildRepository) Create(ctx context.Context, child *models.Child) (string, error) {
	id := uuid.New().String()

	query := `
		INSERT INTO children (id, parent_uuid, report_id, name, age, sex, neuro_cat,
		                      additional_info, points, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`

	var returnedID string
	err := r.db.QueryRowxContext(ctx, query,
		id, child.ParentUUID, child.ReportID, child.Name, child.Age, child.Sex,
		pq.StringArray(child.NeuroCat), child.AdditionalInfo, child.Points,
		nullable(child.Username), nullable(child.PasswordHash), time.Now(),
	).Scan(&returnedID)
	if err != nil {
		return "", apperr.Store("store.child.create", err)
	}

	return returnedID, nil
}

// Get retrieves a child by id.
func (r *ChildRepository) Get(ctx context.Context, id string) (*models.Child, error) {
	query := fmt.Sprintf(`SELECT %s FROM children WHERE id = $1`, childColumns)

	var row dbChild
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("store.child.get", fmt.Errorf("child %s does not exist", id))
		}
		return nil, apperr.Store("store.child.get", err)
	}

	return row.toModel()
}

// GetByParent retrieves the first child owned by the given parent UUID.
func (r *ChildRepository) GetByParent(ctx context.Context, parentUUID string) (*models.Child, error) {
	query := fmt.Sprintf(`SELECT %s FROM children WHERE parent_uuid = $1 ORDER BY created_at LIMIT 1`, childColumns)

	var row dbChild
	err := r.db.GetContext(ctx, &row, query, parentUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("store.child.get_by_parent", fmt.Errorf("no child for parent %s", parentUUID))
		}
		return nil, apperr.Store("store.child.get_by_parent", err)
	}

	return row.toModel()
}

// GetByUsername retrieves a child by its unique login username.
func (r *ChildRepository) GetByUsername(ctx context.Context, username string) (*models.Child, error) {
	query := fmt.Sprintf(`SELECT %s FROM children WHERE username = $1`, childColumns)

	var row dbChild
	err := r.db.GetContext(ctx, &row, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("store.child.get_by_username", fmt.Errorf("username %s does not exist", username))
		}
		return nil, apperr.Store("store.child.get_by_username", err)
	}

	return row.toModel()
}

// Update applies a partial field replacement to a child row.
func (r *ChildRepository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	// Build dynamic update query
	setClause := ""
	params := map[string]interface{}{"id": id}

	for key, value := range updates {
		if setClause != "" {
			setClause += ", "
		}
		setClause += key + " = :" + key
		params[key] = value
	}

	query := "UPDATE children SET " + setClause + " WHERE id = :id"

	result, err := r.db.NamedExecContext(ctx, query, params)
	if err != nil {
		return apperr.Store("store.child.update", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperr.NotFound("store.child.update", fmt.Errorf("child %s does not exist", id))
	}

	return nil
}

// UpdateSummary writes the rolling conversation summary as a single field
// update on the child row.
func (r *ChildRepository) UpdateSummary(ctx context.Context, id string, summary *models.ConversationSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return apperr.Store("store.child.update_summary", fmt.Errorf("failed to encode summary: %w", err))
	}

	result, err := r.db.ExecContext(ctx, `UPDATE children SET chat_summary = $1 WHERE id = $2`, payload, id)
	if err != nil {
		return apperr.Store("store.child.update_summary", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperr.NotFound("store.child.update_summary", fmt.Errorf("child %s does not exist", id))
	}

	return nil
}

// Delete removes a child row and, through cascading constraints, its
// conversations and tasks.
func (r *ChildRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM children WHERE id = $1`, id)
	if err != nil {
		return apperr.Store("store.child.delete", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperr.NotFound("store.child.delete", fmt.Errorf("child %s does not exist", id))
	}

	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
