package speech

import (
	"context"
	"fmt"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"

	"github.com/saathi/saathi-backend/internal/config"
)

// Synthesizer converts reply text into spoken audio using Google Cloud
// Text-to-Speech.
type Synthesizer struct {
	client *texttospeech.Client
	config config.SpeechConfig
}

// NewSynthesizer creates a new Google Cloud Text-to-Speech client.
func NewSynthesizer(ctx context.Context, cfg config.SpeechConfig) (*Synthesizer, error) {
	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create text-to-speech client: %w", err)
	}
	return &Synthesizer{client: client, config: cfg}, nil
}

// Close cleans up the text-to-speech client connection.
func (s *Synthesizer) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// Synthesize renders text into LINEAR16 WAV audio bytes.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := s.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: s.config.VoiceLanguageCode,
			Name:         s.config.VoiceName,
			SsmlGender:   texttospeechpb.SsmlVoiceGender_FEMALE,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_LINEAR16,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize request failed: %w", err)
	}

	return resp.AudioContent, nil
}
