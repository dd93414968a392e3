package services

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/saathi/saathi-backend/internal/audit"
	"github.com/saathi/saathi-backend/internal/auth"
	"github.com/saathi/saathi-backend/internal/gateway"
	"github.com/saathi/saathi-backend/internal/store"
)

// Services holds all service instances. Everything is wired explicitly at
// startup; there is no package-level state.
type Services struct {
	Aggregator *AggregatorService
	Children   *ChildService
	Tasks      *TaskService
	Chat       *ChatService
	Audit      *audit.Service
}

// Deps carries the collaborators the services are built from.
type Deps struct {
	Children      store.ChildStore
	Conversations store.ConversationStore
	Tasks         store.TaskStore
	Generator     gateway.Generator
	Transcriber   Transcriber
	Synthesizer   Synthesizer
	Classifier    EmotionClassifier
	Sessions      SessionStore
	JWT           *auth.JWTService
	Audit         *audit.Service
	Timeout       time.Duration
	Logger        *logrus.Logger
}

// NewServices creates all service instances
func NewServices(d Deps) *Services {
	aggregator := NewAggregatorService(d.Children, d.Conversations, d.Generator, d.Timeout, d.Logger)
	aggregator.auditor = d.Audit

	children := NewChildService(d.Children, d.Conversations, d.JWT, d.Logger)
	children.auditor = d.Audit

	chat := NewChatService(d.Transcriber, d.Synthesizer, d.Classifier, d.Sessions, d.Generator, aggregator, d.Timeout, d.Logger)
	chat.auditor = d.Audit

	return &Services{
		Aggregator: aggregator,
		Children:   children,
		Tasks:      NewTaskService(d.Tasks, d.Children, d.Logger),
		Chat:       chat,
		Audit:      d.Audit,
	}
}
