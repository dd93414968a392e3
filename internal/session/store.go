// Package session keeps the scratch state of an in-flight voice chat:
// the rolling history, per-utterance emotion samples, and accumulated
// audio duration. State lives in Redis keyed by child id, so any backend
// instance can serve the next turn.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/saathi/saathi-backend/internal/config"
	"github.com/saathi/saathi-backend/internal/models"
)

// TTL after which an abandoned chat session expires.
const sessionTTL = 24 * time.Hour

// ErrNoSession is returned when a child has no in-flight chat state.
var ErrNoSession = errors.New("no active chat session")

// State is the accumulated scratch state of one chat session.
type State struct {
	History  []models.ChatMessage `json:"history"`
	Emotions []string             `json:"emotions"`
	Duration float64              `json:"duration"`
}

// Store reads and writes chat session state.
type Store struct {
	client *redis.Client
}

// NewStore creates a session store over the given Redis instance.
func NewStore(cfg config.RedisConfig) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Store{client: client}
}

// NewStoreWithClient wraps an existing Redis client, mainly for tests.
func NewStoreWithClient(client *redis.Client) *Store {
	return &Store{client: client}
}

// Ping verifies the Redis connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func sessionKey(childID string) string {
	return "chat_session:" + childID
}

// Load returns the child's current session state, or ErrNoSession.
func (s *Store) Load(ctx context.Context, childID string) (*State, error) {
	payload, err := s.client.Get(ctx, sessionKey(childID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to load chat session: %w", err)
	}

	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("failed to decode chat session: %w", err)
	}
	return &state, nil
}

// Save writes the session state back with a refreshed TTL.
func (s *Store) Save(ctx context.Context, childID string, state *State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode chat session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(childID), payload, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to save chat session: %w", err)
	}
	return nil
}

// AppendTurn records one completed voice exchange: the child's utterance,
// the model reply, the detected emotion, and the combined audio duration.
func (s *Store) AppendTurn(ctx context.Context, childID, userText, modelText, emotion string, duration float64) error {
	state, err := s.Load(ctx, childID)
	if err != nil {
		if !errors.Is(err, ErrNoSession) {
			return err
		}
		state = &State{}
	}

	state.History = append(state.History,
		models.ChatMessage{Role: models.RoleUser, Content: userText},
		models.ChatMessage{Role: models.RoleModel, Content: modelText},
	)
	state.Emotions = append(state.Emotions, emotion)
	state.Duration += duration

	return s.Save(ctx, childID, state)
}

// Clear drops the child's session state.
func (s *Store) Clear(ctx context.Context, childID string) error {
	if err := s.client.Del(ctx, sessionKey(childID)).Err(); err != nil {
		return fmt.Errorf("failed to clear chat session: %w", err)
	}
	return nil
}
