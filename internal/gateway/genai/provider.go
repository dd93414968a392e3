package genai

import (
	"context"
	"errors"

	"google.golang.org/genai"

	"github.com/saathi/saathi-backend/internal/config"
	"github.com/saathi/saathi-backend/internal/gateway"
	"github.com/saathi/saathi-backend/internal/models"
)

// Provider implements gateway.Generator over the Gemini API.
type Provider struct {
	config config.GatewayConfig
	client *genai.Client
}

// NewProvider creates a new Gemini provider
func NewProvider(ctx context.Context, cfg config.GatewayConfig) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, err
	}

	return &Provider{
		config: cfg,
		client: client,
	}, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "gemini"
}

// Generate performs a non-streaming completion over the request history.
func (p *Provider) Generate(ctx context.Context, req gateway.Request) (string, error) {
	contents := make([]*genai.Content, 0, len(req.History)+1)

	for _, msg := range req.History {
		role := genai.RoleUser
		if msg.Role == models.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}

	contents = append(contents, &genai.Content{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: req.Prompt}},
	})

	var genCfg *genai.GenerateContentConfig
	if req.Instruction != "" {
		genCfg = &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: req.Instruction}},
			},
		}
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.config.Model, contents, genCfg)
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("generation returned no candidates")
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}
