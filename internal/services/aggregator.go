package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/saathi/saathi-backend/internal/apperr"
	"github.com/saathi/saathi-backend/internal/audit"
	"github.com/saathi/saathi-backend/internal/gateway"
	"github.com/saathi/saathi-backend/internal/models"
	"github.com/saathi/saathi-backend/internal/store"
)

// AggregatorService folds a finished chat session into a persisted
// Conversation record and the child's rolling summary. It is stateless
// between invocations apart from the per-child locks that serialize
// concurrent sessions for the same child.
type AggregatorService struct {
	children      store.ChildStore
	conversations store.ConversationStore
	generator     gateway.Generator
	timeout       time.Duration
	logger        *logrus.Logger
	auditor       *audit.Service

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewAggregatorService creates a new conversation aggregator
func NewAggregatorService(children store.ChildStore, conversations store.ConversationStore, generator gateway.Generator, timeout time.Duration, logger *logrus.Logger) *AggregatorService {
	return &AggregatorService{
		children:      children,
		conversations: conversations,
		generator:     generator,
		timeout:       timeout,
		logger:        logger,
		locks:         make(map[string]*sync.Mutex),
	}
}

// childLock returns the mutex serializing summary updates for one child.
func (s *AggregatorService) childLock(childID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[childID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[childID] = lock
	}
	return lock
}

// generate runs one gateway call under the configured deadline.
func (s *AggregatorService) generate(ctx context.Context, prompt string, history []models.ChatMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.generator.Generate(ctx, gateway.Request{Prompt: prompt, History: history})
	if err != nil {
		return "", apperr.Generation("aggregator.generate", err)
	}
	return text, nil
}

// AddConversation derives summary text, interests, stress level, and
// stress reason from the session, computes the dominant emotion, then
// persists the Conversation and the updated rolling summary in one atomic
// store write. Any gateway failure aborts before anything is persisted.
func (s *AggregatorService) AddConversation(ctx context.Context, childID string, history []models.ChatMessage, emotions []string, duration float64) (*models.Conversation, error) {
	if len(emotions) == 0 {
		return nil, apperr.Generation("aggregator.add", errors.New("emotion samples are empty, dominant emotion undefined"))
	}
	if duration < 0 {
		return nil, apperr.Generation("aggregator.add", errors.New("duration is negative"))
	}

	// The child must resolve before any gateway spend.
	if _, err := s.children.Get(ctx, childID); err != nil {
		return nil, err
	}

	summary, err := s.generate(ctx, gateway.SummarizePrompt, history)
	if err != nil {
		return nil, err
	}
	interests, err := s.generate(ctx, gateway.InterestsPrompt, history)
	if err != nil {
		return nil, err
	}
	stress, err := s.generate(ctx, gateway.StressLevelPrompt, history)
	if err != nil {
		return nil, err
	}
	stress = strings.TrimSpace(stress)
	stressReason, err := s.generate(ctx, gateway.StressReasonPrompt, history)
	if err != nil {
		return nil, err
	}

	dominant := titleWord(DominantEmotion(emotions))

	now := time.Now()
	conv := &models.Conversation{
		ChildID:       childID,
		Date:          now.Format("2006-01-02"),
		Time:          now.Format("15:04:05"),
		Duration:      duration,
		Summary:       summary,
		Interests:     interests,
		Emotion:       dominant,
		Stress:        stress,
		StressSummary: stressReason,
	}

	// Serialize the read-merge-write of the rolling summary per child so
	// interleaved sessions cannot lose an update.
	lock := s.childLock(childID)
	lock.Lock()
	defer lock.Unlock()

	child, err := s.children.Get(ctx, childID)
	if err != nil {
		return nil, err
	}

	var updated *models.ConversationSummary
	if child.ChatSummary != nil {
		merged, err := s.generate(ctx, gateway.MergeStressPrompt(child.ChatSummary.StressSummary, stressReason), nil)
		if err != nil {
			return nil, err
		}
		updated = &models.ConversationSummary{
			LastUpdated:      now,
			Conversations:    child.ChatSummary.Conversations + 1,
			TotalDuration:    child.ChatSummary.TotalDuration + duration,
			Emotion:          dominant,
			Stress:           stress,
			StressSummary:    merged,
			InterestsSummary: interests,
		}
	} else {
		updated = &models.ConversationSummary{
			LastUpdated:      now,
			Conversations:    1,
			TotalDuration:    duration,
			Emotion:          dominant,
			Stress:           stress,
			StressSummary:    stressReason,
			InterestsSummary: interests,
		}
	}

	id, err := s.conversations.AddWithSummary(ctx, childID, conv, updated)
	if err != nil {
		return nil, err
	}
	conv.ID = id

	s.logger.WithFields(logrus.Fields{
		"child_id":      childID,
		"conversation":  id,
		"emotion":       dominant,
		"stress":        stress,
		"conversations": updated.Conversations,
	}).Info("conversation aggregated")

	if s.auditor != nil {
		s.auditor.Record(ctx, childID, audit.EventConversationSave, id)
	}

	return conv, nil
}

// DominantEmotion returns the statistical mode of the label sequence.
// Ties break toward the label encountered first in input order.
func DominantEmotion(labels []string) string {
	if len(labels) == 0 {
		return ""
	}

	counts := make(map[string]int, len(labels))
	var seen []string
	for _, label := range labels {
		if counts[label] == 0 {
			seen = append(seen, label)
		}
		counts[label]++
	}

	best := seen[0]
	for _, label := range seen[1:] {
		if counts[label] > counts[best] {
			best = label
		}
	}
	return best
}

// titleWord upper-cases the first rune of each word, matching the label
// casing stored in conversation records.
func titleWord(s string) string {
	prev := ' '
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(prev) {
			prev = r
			return unicode.ToTitle(r)
		}
		prev = r
		return unicode.ToLower(r)
	}, s)
}
