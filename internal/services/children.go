package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/saathi/saathi-backend/internal/apperr"
	"github.com/saathi/saathi-backend/internal/audit"
	"github.com/saathi/saathi-backend/internal/auth"
	"github.com/saathi/saathi-backend/internal/models"
	"github.com/saathi/saathi-backend/internal/store"
)

// ErrInvalidCredentials is returned when a login attempt does not match a
// stored username/password pair.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUsernameTaken is returned when a credential update collides with an
// existing username.
var ErrUsernameTaken = errors.New("username exists already")

// ChildService manages child profiles and credential-based login.
type ChildService struct {
	children      store.ChildStore
	conversations store.ConversationStore
	jwt           *auth.JWTService
	logger        *logrus.Logger
	auditor       *audit.Service
}

// NewChildService creates a new child service
func NewChildService(children store.ChildStore, conversations store.ConversationStore, jwt *auth.JWTService, logger *logrus.Logger) *ChildService {
	return &ChildService{
		children:      children,
		conversations: conversations,
		jwt:           jwt,
		logger:        logger,
	}
}

// Create registers a new child profile and returns its assigned id.
func (s *ChildService) Create(ctx context.Context, child *models.Child, password string) (string, error) {
	if password != "" {
		if err := auth.ValidatePassword(password); err != nil {
			return "", err
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return "", err
		}
		child.PasswordHash = hash
	}

	id, err := s.children.Create(ctx, child)
	if err != nil {
		return "", err
	}

	s.logger.WithField("child_id", id).Info("child profile created")
	if s.auditor != nil {
		s.auditor.Record(ctx, id, audit.EventChildCreate, "")
	}
	return id, nil
}

// Get returns a child profile by id. The password hash never leaves the
// service boundary in serialized form.
func (s *ChildService) Get(ctx context.Context, id string) (*models.Child, error) {
	return s.children.Get(ctx, id)
}

// GetByParent returns the child owned by a parent reference id.
func (s *ChildService) GetByParent(ctx context.Context, parentUUID string) (*models.Child, error) {
	return s.children.GetByParent(ctx, parentUUID)
}

// UpdateProfile applies a partial profile update.
func (s *ChildService) UpdateProfile(ctx context.Context, id string, updates map[string]interface{}) error {
	return s.children.Update(ctx, id, updates)
}

// UpdateCredentials sets a new username/password pair for the child. The
// username must not already be taken by another child.
func (s *ChildService) UpdateCredentials(ctx context.Context, id, username, password string) error {
	existing, err := s.children.GetByUsername(ctx, username)
	if err != nil && !apperr.IsNotFound(err) {
		return err
	}
	if existing != nil && existing.ID != id {
		return ErrUsernameTaken
	}

	if err := auth.ValidatePassword(password); err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	if err := s.children.Update(ctx, id, map[string]interface{}{
		"username":      username,
		"password_hash": hash,
	}); err != nil {
		return err
	}

	if s.auditor != nil {
		s.auditor.Record(ctx, id, audit.EventCredentialsUpdate, "")
	}
	return nil
}

// Login checks a username/password pair and issues a session token.
func (s *ChildService) Login(ctx context.Context, username, password string) (token string, childID string, err error) {
	child, err := s.children.GetByUsername(ctx, username)
	if err != nil {
		if apperr.IsNotFound(err) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", err
	}

	if !auth.CheckPassword(password, child.PasswordHash) {
		return "", "", ErrInvalidCredentials
	}

	token, err = s.jwt.GenerateToken(child.ID, username)
	if err != nil {
		return "", "", err
	}

	s.logger.WithField("child_id", child.ID).Info("child logged in")
	if s.auditor != nil {
		s.auditor.Record(ctx, child.ID, audit.EventChildLogin, "")
	}
	return token, child.ID, nil
}

// SummaryWithConversations returns the child's rolling summary together
// with the full conversation list, latest first.
func (s *ChildService) SummaryWithConversations(ctx context.Context, childID string) (*models.ConversationSummary, []models.Conversation, error) {
	child, err := s.children.Get(ctx, childID)
	if err != nil {
		return nil, nil, err
	}
	if child.ChatSummary == nil {
		return nil, nil, apperr.NotFound("children.summary", errors.New("chat summary not found"))
	}

	list, err := s.conversations.ListByChild(ctx, childID)
	if err != nil {
		return nil, nil, err
	}

	return child.ChatSummary, list, nil
}
