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

	"github.com/saathi/saathi-backend/internal/apperr"
	"github.com/saathi/saathi-backend/internal/models"
	"github.com/saathi/saathi-backend/internal/store"
)

// ConversationRepository implements store.ConversationStore using PostgreSQL.
type ConversationRepository struct {
	db *sqlx.DB
}

// NewConversationRepository creates a new PostgreSQL conversation repository
func NewConversationRepository(db *sqlx.DB) store.ConversationStore {
	return &ConversationRepository{db: db}
}

// AddWithSummary appends a conversation under the child and writes the
// child's rolling summary in one transaction. The child row is locked
// first, so the conversation count in the summary cannot drift from the
// number of conversation rows.
func (r *ConversationRepository) AddWithSummary(ctx context.Context, childID string, conv *models.Conversation, summary *models.ConversationSummary) (string, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", apperr.Store("store.conversation.add", err)
	}
	defer tx.Rollback()

	var lockedID string
	err = tx.GetContext(ctx, &lockedID, `SELECT id FROM children WHERE id = $1 FOR UPDATE`, childID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperr.NotFound("store.conversation.add", fmt.Errorf("child %s does not exist", childID))
		}
		return "", apperr.Store("store.conversation.add", err)
	}

	id := uuid.New().String()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO conversations (id, child_id, date, time, duration, summary,
		                           interests, emotion, stress, stress_summary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, id, childID, conv.Date, conv.Time, conv.Duration, conv.Summary,
		conv.Interests, conv.Emotion, conv.Stress, conv.StressSummary, time.Now())
	if err != nil {
		return "", apperr.Store("store.conversation.add", err)
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		return "", apperr.Store("store.conversation.add", fmt.Errorf("failed to encode summary: %w", err))
	}
	_, err = tx.ExecContext(ctx, `UPDATE children SET chat_summary = $1 WHERE id = $2`, payload, childID)
	if err != nil {
		return "", apperr.Store("store.conversation.add", err)
	}

	if err := tx.Commit(); err != nil {
		return "", apperr.Store("store.conversation.add", err)
	}

	return id, nil
}

// ListByChild returns all conversations under a child, latest first.
func (r *ConversationRepository) ListByChild(ctx context.Context, childID string) ([]models.Conversation, error) {
	query := `
		SELECT id, child_id, date, time, duration, summary,
		       interests, emotion, stress, stress_summary, created_at
		FROM conversations
		WHERE child_id = $1
		ORDER BY date DESC, time DESC
	`

	var conversations []models.Conversation
	err := r.db.SelectContext(ctx, &conversations, query, childID)
	if err != nil {
		return nil, apperr.Store("store.conversation.list", err)
	}

	return conversations, nil
}
