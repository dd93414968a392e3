// Package emotion classifies the speaker's emotional state from recorded
// audio by calling a hosted audio-classification inference endpoint.
package emotion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/saathi/saathi-backend/internal/config"
)

// Classifier calls an HTTP inference endpoint that scores emotion labels
// for an audio clip.
type Classifier struct {
	config config.EmotionConfig
	client *http.Client
}

// NewClassifier creates a new emotion classifier client.
func NewClassifier(cfg config.EmotionConfig) (*Classifier, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("emotion endpoint is required")
	}
	return &Classifier{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// scoredLabel is one entry of the endpoint's response array.
type scoredLabel struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify sends the audio clip and returns the highest-scoring label.
func (c *Classifier) Classify(ctx context.Context, audio []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(audio))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "audio/wav")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("emotion request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read emotion response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("emotion endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var results []scoredLabel
	if err := json.Unmarshal(body, &results); err != nil {
		return "", fmt.Errorf("failed to parse emotion response: %w", err)
	}
	if len(results) == 0 {
		return "", errors.New("emotion endpoint returned no labels")
	}

	best := results[0]
	for _, r := range results[1:] {
		if r.Score > best.Score {
			best = r
		}
	}

	return best.Label, nil
}
