// Package audit records a per-child activity trail: logins, credential
// changes, and saved conversations. Parents can review the trail, so
// events never carry chat content, only the fact that something happened.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// EventType names a recorded activity.
type EventType string

const (
	EventChildLogin        EventType = "child.login"
	EventChildCreate       EventType = "child.create"
	EventCredentialsUpdate EventType = "child.credentials_update"
	EventConversationSave  EventType = "conversation.save"
	EventSessionClear      EventType = "chat.session_clear"
)

// Event is one recorded activity entry.
type Event struct {
	ID        string    `json:"id" db:"id"`
	ChildID   string    `json:"child_id" db:"child_id"`
	Type      EventType `json:"type" db:"event_type"`
	Detail    string    `json:"detail,omitempty" db:"detail"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Repository persists audit events.
type Repository interface {
	Record(ctx context.Context, event *Event) error
	ListByChild(ctx context.Context, childID string, limit int) ([]Event, error)
}

// Service records events best-effort: a failed write is logged and
// swallowed so auditing can never fail the operation it describes.
type Service struct {
	repo   Repository
	logger *logrus.Logger
}

// NewService creates a new audit service
func NewService(repo Repository, logger *logrus.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Record stores one activity entry for a child.
func (s *Service) Record(ctx context.Context, childID string, eventType EventType, detail string) {
	event := &Event{
		ID:        uuid.New().String(),
		ChildID:   childID,
		Type:      eventType,
		Detail:    detail,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Record(ctx, event); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"child_id": childID,
			"type":     eventType,
		}).Warn("failed to record audit event")
	}
}

// ListByChild returns the most recent activity entries for a child.
func (s *Service) ListByChild(ctx context.Context, childID string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListByChild(ctx, childID, limit)
}
