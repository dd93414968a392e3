// Package gateway abstracts the text-generation capability the backend
// delegates to. Providers are thin clients over third-party model APIs;
// all prompt text lives in this package as immutable templates.
package gateway

import (
	"context"

	"github.com/saathi/saathi-backend/internal/models"
)

// Request is one generation call. Instruction carries optional system
// text composed per call; shared instruction state is never mutated.
type Request struct {
	Prompt      string
	History     []models.ChatMessage
	Instruction string
}

// Generator produces text from a prompt and a chat history.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
}
