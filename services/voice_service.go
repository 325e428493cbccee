package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/hasandi22/Final-year-research---Data-Collection/models"
	"github.com/hasandi22/Final-year-research---Data-Collection/tts"
)

// ErrVoiceNotFound is returned when no provider voice has the requested name.
var ErrVoiceNotFound = errors.New("voice not found")

// ErrSynthesisNotAllowed is returned when audio is requested outside the voice-session steps.
var ErrSynthesisNotAllowed = errors.New("audio is only available during voice sessions")

// Audio is one synthesized clip.
type Audio struct {
	Data        []byte
	ContentType string
	VoiceID     string
}

// VoiceService lists voices and synthesizes the session scripts.
type VoiceService interface {
	ListVoices(ctx context.Context) ([]models.VoiceDescriptor, error)
	Synthesize(ctx context.Context, text, voiceName string) (*Audio, error)
}

type voiceService struct {
	provider tts.Provider
	settings tts.Settings
}

// NewVoiceService creates a VoiceService backed by provider.
func NewVoiceService(provider tts.Provider, settings tts.Settings) VoiceService {
	return &voiceService{provider: provider, settings: settings}
}

// ListVoices fetches the provider catalogue on every call and fills missing labels.
func (s *voiceService) ListVoices(ctx context.Context) ([]models.VoiceDescriptor, error) {
	voices, err := s.provider.Voices(ctx)
	if err != nil {
		log.Printf("ERROR: [VoiceService] Listing %s voices failed: %v", s.provider.Name(), err)
		return nil, fmt.Errorf("list voices: %w", err)
	}
	out := make([]models.VoiceDescriptor, 0, len(voices))
	for _, v := range voices {
		out = append(out, models.DescribeVoice(v.Name, v.ID, v.Labels))
	}
	return out, nil
}

// Synthesize resolves voiceName by exact match and returns the fully drained audio stream.
func (s *voiceService) Synthesize(ctx context.Context, text, voiceName string) (*Audio, error) {
	voices, err := s.provider.Voices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list voices: %w", err)
	}
	var voiceID string
	for _, v := range voices {
		if v.Name == voiceName {
			voiceID = v.ID
			break
		}
	}
	if voiceID == "" {
		return nil, fmt.Errorf("%q: %w", voiceName, ErrVoiceNotFound)
	}

	stream, err := s.provider.Convert(ctx, tts.SpeechRequest{
		VoiceID:      voiceID,
		Text:         text,
		ModelID:      s.settings.ModelID,
		OutputFormat: s.settings.OutputFormat,
	})
	if err != nil {
		log.Printf("ERROR: [VoiceService] Synthesis with voice %s failed: %v", voiceName, err)
		return nil, fmt.Errorf("synthesize: %w", err)
	}
	defer stream.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, stream); err != nil {
		return nil, fmt.Errorf("read audio stream: %w", err)
	}
	log.Printf("INFO: [VoiceService] Synthesized %d bytes with voice %s.", buf.Len(), voiceName)
	return &Audio{Data: buf.Bytes(), ContentType: s.settings.ContentType, VoiceID: voiceID}, nil
}
