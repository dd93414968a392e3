package speech

import (
	"context"
	"errors"
	"fmt"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"

	"github.com/saathi/saathi-backend/internal/config"
)

// Transcriber converts recorded speech into text using Google Cloud
// Speech. It relies on Application Default Credentials for authentication.
type Transcriber struct {
	client *speech.Client
	config config.SpeechConfig
}

// NewTranscriber creates a new Google Cloud Speech client.
func NewTranscriber(ctx context.Context, cfg config.SpeechConfig) (*Transcriber, error) {
	client, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}
	return &Transcriber{client: client, config: cfg}, nil
}

// Close cleans up the speech client connection.
func (t *Transcriber) Close() error {
	if t.client != nil {
		return t.client.Close()
	}
	return nil
}

// Transcribe recognizes text from a WAV upload. Stereo audio is downmixed
// to mono before the request.
func (t *Transcriber) Transcribe(ctx context.Context, wav []byte) (string, error) {
	info, pcm, err := ParseWav(wav)
	if err != nil {
		return "", fmt.Errorf("failed to decode wav upload: %w", err)
	}
	info, pcm = DownmixMono(info, pcm)

	resp, err := t.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz: int32(info.SampleRate),
			LanguageCode:    t.config.LanguageCode,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: pcm},
		},
	})
	if err != nil {
		return "", fmt.Errorf("recognize request failed: %w", err)
	}

	if len(resp.Results) == 0 || len(resp.Results[0].Alternatives) == 0 {
		return "", errors.New("no transcription results")
	}

	return resp.Results[0].Alternatives[0].Transcript, nil
}
