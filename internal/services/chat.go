package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/saathi/saathi-backend/internal/apperr"
	"github.com/saathi/saathi-backend/internal/audit"
	"github.com/saathi/saathi-backend/internal/gateway"
	"github.com/saathi/saathi-backend/internal/models"
	"github.com/saathi/saathi-backend/internal/session"
	"github.com/saathi/saathi-backend/internal/speech"
)

// Transcriber converts a WAV upload into text.
type Transcriber interface {
	Transcribe(ctx context.Context, wav []byte) (string, error)
}

// Synthesizer renders reply text into WAV audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// EmotionClassifier scores the speaker's emotional state from audio.
type EmotionClassifier interface {
	Classify(ctx context.Context, audio []byte) (string, error)
}

// SessionStore is the scratch state of in-flight chats.
type SessionStore interface {
	Load(ctx context.Context, childID string) (*session.State, error)
	AppendTurn(ctx context.Context, childID, userText, modelText, emotion string, duration float64) error
	Clear(ctx context.Context, childID string) error
}

// VoiceTurnResult is one completed voice exchange.
type VoiceTurnResult struct {
	Transcript string  `json:"transcript"`
	Reply      string  `json:"reply"`
	Emotion    string  `json:"emotion"`
	Duration   float64 `json:"duration"`
	Audio      []byte  `json:"-"`
}

// ChatService orchestrates the voice chat loop and the parent text chat.
type ChatService struct {
	transcriber Transcriber
	synthesizer Synthesizer
	classifier  EmotionClassifier
	sessions    SessionStore
	generator   gateway.Generator
	aggregator  *AggregatorService
	timeout     time.Duration
	logger      *logrus.Logger
	auditor     *audit.Service
}

// NewChatService creates a new chat service
func NewChatService(
	transcriber Transcriber,
	synthesizer Synthesizer,
	classifier EmotionClassifier,
	sessions SessionStore,
	generator gateway.Generator,
	aggregator *AggregatorService,
	timeout time.Duration,
	logger *logrus.Logger,
) *ChatService {
	return &ChatService{
		transcriber: transcriber,
		synthesizer: synthesizer,
		classifier:  classifier,
		sessions:    sessions,
		generator:   generator,
		aggregator:  aggregator,
		timeout:     timeout,
		logger:      logger,
	}
}

// VoiceTurn handles one voice exchange: transcribe the upload, classify
// the emotion, generate a reply over the session history, synthesize it,
// and fold the turn into the child's session state.
func (s *ChatService) VoiceTurn(ctx context.Context, childID string, wav []byte) (*VoiceTurnResult, error) {
	info, _, err := speech.ParseWav(wav)
	if err != nil {
		return nil, fmt.Errorf("invalid audio upload: %w", err)
	}
	promptDuration := info.Duration()

	transcript, err := s.transcriber.Transcribe(ctx, wav)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	emotion, err := s.classifier.Classify(ctx, wav)
	if err != nil {
		return nil, fmt.Errorf("emotion classification failed: %w", err)
	}

	var history []models.ChatMessage
	if state, err := s.sessions.Load(ctx, childID); err == nil {
		history = state.History
	} else if !errors.Is(err, session.ErrNoSession) {
		return nil, err
	}

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	reply, err := s.generator.Generate(genCtx, gateway.Request{
		Prompt:      transcript,
		History:     history,
		Instruction: gateway.CompanionInstruction(emotion),
	})
	if err != nil {
		return nil, apperr.Generation("chat.voice_turn", err)
	}

	audio, err := s.synthesizer.Synthesize(ctx, reply)
	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}

	replyDuration := 0.0
	if replyInfo, _, err := speech.ParseWav(audio); err == nil {
		replyDuration = replyInfo.Duration()
	}

	turnDuration := promptDuration + replyDuration
	if err := s.sessions.AppendTurn(ctx, childID, transcript, reply, emotion, turnDuration); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"child_id": childID,
		"emotion":  emotion,
		"duration": turnDuration,
	}).Info("voice turn completed")

	return &VoiceTurnResult{
		Transcript: transcript,
		Reply:      reply,
		Emotion:    emotion,
		Duration:   turnDuration,
		Audio:      audio,
	}, nil
}

// EndChat drains the child's session state and folds it into the
// persisted conversation history. The session is cleared only after the
// aggregation succeeds, so a failed save can be retried.
func (s *ChatService) EndChat(ctx context.Context, childID string) (*models.Conversation, error) {
	state, err := s.sessions.Load(ctx, childID)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return nil, apperr.NotFound("chat.end", errors.New("no chat found"))
		}
		return nil, err
	}
	if len(state.History) == 0 {
		return nil, apperr.NotFound("chat.end", errors.New("no chat found"))
	}
	if len(state.Emotions) == 0 {
		return nil, apperr.NotFound("chat.end", errors.New("emotions not found"))
	}
	if state.Duration == 0 {
		return nil, apperr.NotFound("chat.end", errors.New("duration not found"))
	}

	conv, err := s.aggregator.AddConversation(ctx, childID, state.History, state.Emotions, state.Duration)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Clear(ctx, childID); err != nil {
		// The conversation is saved; a stale session is only a retry hazard.
		s.logger.WithError(err).WithField("child_id", childID).Warn("failed to clear chat session")
	}

	return conv, nil
}

// ClearSession drops the child's in-flight chat state.
func (s *ChatService) ClearSession(ctx context.Context, childID string) error {
	if err := s.sessions.Clear(ctx, childID); err != nil {
		return err
	}
	if s.auditor != nil {
		s.auditor.Record(ctx, childID, audit.EventSessionClear, "")
	}
	return nil
}

// ParentChat answers a parent's question with the advisor instruction.
// Nothing is persisted.
func (s *ChatService) ParentChat(ctx context.Context, message string, history []models.ChatMessage) (string, error) {
	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.generator.Generate(genCtx, gateway.Request{
		Prompt:      message,
		History:     history,
		Instruction: gateway.ParentAdvisorInstruction,
	})
	if err != nil {
		return "", apperr.Generation("chat.parent", err)
	}
	return reply, nil
}
