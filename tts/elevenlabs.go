package tts

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/haguro/elevenlabs-go"
)

// ElevenLabsSettings are the model and encoding the study uses with ElevenLabs.
var ElevenLabsSettings = Settings{
	ModelID:      "eleven_flash_v2_5",
	OutputFormat: "mp3_22050_32",
	ContentType:  "audio/mpeg",
}

// Synthesis streams the whole clip, so the timeout is generous.
const elevenLabsTimeout = 2 * time.Minute

// elevenLabsAPI is the part of the ElevenLabs SDK client the provider uses.
type elevenLabsAPI interface {
	GetVoices() ([]elevenlabs.Voice, error)
	TextToSpeechStream(w io.Writer, voiceID string, req elevenlabs.TextToSpeechRequest, queries ...elevenlabs.QueryFunc) error
}

// ElevenLabsClient is the ElevenLabs speech provider. It is safe for concurrent use.
type ElevenLabsClient struct {
	apiKey string
	// connect returns an SDK client bound to ctx. The SDK takes its context at
	// construction, so one is built per call.
	connect func(ctx context.Context) elevenLabsAPI
}

// NewElevenLabsClient returns a provider authenticated with apiKey.
func NewElevenLabsClient(apiKey string) *ElevenLabsClient {
	return &ElevenLabsClient{
		apiKey: apiKey,
		connect: func(ctx context.Context) elevenLabsAPI {
			return elevenlabs.NewClient(ctx, apiKey, elevenLabsTimeout)
		},
	}
}

func (c *ElevenLabsClient) Name() string { return "elevenlabs" }

// Voices lists every voice available to the account.
func (c *ElevenLabsClient) Voices(ctx context.Context) ([]Voice, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("missing elevenlabs api key")
	}
	list, err := c.connect(ctx).GetVoices()
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: list voices: %w", err)
	}
	voices := make([]Voice, 0, len(list))
	for _, v := range list {
		voices = append(voices, Voice{ID: v.VoiceId, Name: v.Name, Labels: v.Labels})
	}
	return voices, nil
}

// Convert starts streamed speech and returns the audio as it arrives. Provider
// errors surface from Read.
func (c *ElevenLabsClient) Convert(ctx context.Context, sr SpeechRequest) (io.ReadCloser, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("missing elevenlabs api key")
	}
	if sr.VoiceID == "" {
		return nil, fmt.Errorf("missing voice id")
	}
	var queries []elevenlabs.QueryFunc
	if sr.OutputFormat != "" {
		queries = append(queries, elevenlabs.OutputFormat(sr.OutputFormat))
	}
	req := elevenlabs.TextToSpeechRequest{Text: sr.Text, ModelID: sr.ModelID}

	api := c.connect(ctx)
	pr, pw := io.Pipe()
	go func() {
		if err := api.TextToSpeechStream(pw, sr.VoiceID, req, queries...); err != nil {
			pw.CloseWithError(fmt.Errorf("elevenlabs: synthesize: %w", err))
			return
		}
		pw.Close()
	}()
	return pr, nil
}
