// Package tts talks to text-to-speech providers.
package tts

import (
	"context"
	"fmt"
	"io"

	"github.com/hasandi22/Final-year-research---Data-Collection/config"
)

// Voice is a provider voice as returned by the provider.
type Voice struct {
	ID     string
	Name   string
	Labels map[string]string
}

// SpeechRequest asks for one utterance.
type SpeechRequest struct {
	VoiceID      string
	Text         string
	ModelID      string
	OutputFormat string
}

// Provider is a speech synthesis backend. Convert returns the audio as a stream of
// chunks; the caller owns and must close it.
type Provider interface {
	Name() string
	Voices(ctx context.Context) ([]Voice, error)
	Convert(ctx context.Context, req SpeechRequest) (io.ReadCloser, error)
}

// Settings are the fixed model and output encoding used with a provider.
type Settings struct {
	ModelID      string
	OutputFormat string
	ContentType  string
}

// NewProvider builds the provider selected by cfg.TTSProvider with its fixed settings.
// An unknown provider yields an Unavailable provider together with the error.
func NewProvider(cfg *config.Config) (Provider, Settings, error) {
	switch cfg.TTSProvider {
	case config.ProviderElevenLabs:
		return NewElevenLabsClient(cfg.ElevenLabsAPIKey), ElevenLabsSettings, nil
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL), OpenAISettings, nil
	}
	err := fmt.Errorf("unknown tts provider %q", cfg.TTSProvider)
	return Unavailable{Err: err}, Settings{}, err
}

// Unavailable is a Provider that fails every call with Err.
type Unavailable struct {
	Err error
}

func (u Unavailable) Name() string { return "unavailable" }

func (u Unavailable) Voices(context.Context) ([]Voice, error) { return nil, u.Err }

func (u Unavailable) Convert(context.Context, SpeechRequest) (io.ReadCloser, error) {
	return nil, u.Err
}
