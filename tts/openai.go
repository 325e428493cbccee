package tts

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAISettings are the model and encoding used with the OpenAI speech endpoint.
var OpenAISettings = Settings{
	ModelID:      string(openai.TTSModel1),
	OutputFormat: string(openai.SpeechResponseFormatMp3),
	ContentType:  "audio/mpeg",
}

// openAIVoices is the fixed voice list of the speech endpoint; it has no listing API.
var openAIVoices = []Voice{
	{ID: string(openai.VoiceAlloy), Name: "alloy", Labels: map[string]string{"gender": "neutral", "description": "balanced"}},
	{ID: string(openai.VoiceEcho), Name: "echo", Labels: map[string]string{"gender": "male", "description": "warm"}},
	{ID: string(openai.VoiceFable), Name: "fable", Labels: map[string]string{"gender": "male", "accent": "british", "description": "expressive"}},
	{ID: string(openai.VoiceOnyx), Name: "onyx", Labels: map[string]string{"gender": "male", "description": "deep"}},
	{ID: string(openai.VoiceNova), Name: "nova", Labels: map[string]string{"gender": "female", "description": "bright"}},
	{ID: string(openai.VoiceShimmer), Name: "shimmer", Labels: map[string]string{"gender": "female", "description": "soft"}},
}

// OpenAIClient synthesizes speech through the OpenAI audio API.
type OpenAIClient struct {
	client *openai.Client
	apiKey string
}

// NewOpenAIClient creates a client; baseURL may be empty for the public API.
func NewOpenAIClient(apiKey, baseURL string) *OpenAIClient {
	oconfig := openai.DefaultConfig(apiKey)
	if baseURL = strings.TrimRight(baseURL, "/"); baseURL != "" {
		oconfig.BaseURL = baseURL
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(oconfig), apiKey: apiKey}
}

func (c *OpenAIClient) Name() string { return "openai" }

// Voices returns the static voice catalogue.
func (c *OpenAIClient) Voices(_ context.Context) ([]Voice, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("missing openai api key")
	}
	out := make([]Voice, len(openAIVoices))
	copy(out, openAIVoices)
	return out, nil
}

func (c *OpenAIClient) Convert(ctx context.Context, sr SpeechRequest) (io.ReadCloser, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("missing openai api key")
	}
	model := openai.SpeechModel(sr.ModelID)
	if model == "" {
		model = openai.TTSModel1
	}
	format := openai.SpeechResponseFormat(sr.OutputFormat)
	if format == "" {
		format = openai.SpeechResponseFormatMp3
	}
	res, err := c.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          model,
		Input:          sr.Text,
		Voice:          openai.SpeechVoice(sr.VoiceID),
		ResponseFormat: format,
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech: %w", err)
	}
	return res.ReadCloser, nil
}
