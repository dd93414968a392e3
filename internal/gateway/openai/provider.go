package openai

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"

	"github.com/saathi/saathi-backend/internal/config"
	"github.com/saathi/saathi-backend/internal/gateway"
	"github.com/saathi/saathi-backend/internal/models"
)

// Provider implements gateway.Generator over the OpenAI chat completion API.
type Provider struct {
	config config.GatewayConfig
	client *openai.Client
}

// NewProvider creates a new OpenAI provider
func NewProvider(cfg config.GatewayConfig) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	client := openai.NewClient(cfg.APIKey)

	return &Provider{
		config: cfg,
		client: client,
	}, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "openai"
}

// Generate performs a non-streaming completion over the request history.
func (p *Provider) Generate(ctx context.Context, req gateway.Request) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.History)+2)

	if req.Instruction != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.Instruction,
		})
	}

	for _, msg := range req.History {
		role := openai.ChatMessageRoleUser
		if msg.Role == models.RoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    p.config.Model,
		Messages: messages,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
