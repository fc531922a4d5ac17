package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bartender/internal/services"
)

const (
	defaultElevenLabsBaseURL = "https://api.elevenlabs.io"
	defaultElevenLabsTimeout = 120 * time.Second
	errorBodyLimit           = 512
)

// ElevenLabsConfig holds the ElevenLabs connection settings.
type ElevenLabsConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// ElevenLabs calls the text-to-speech streaming endpoint.
type ElevenLabs struct {
	cfg        ElevenLabsConfig
	httpClient *http.Client
}

// NewElevenLabs builds the client. A missing API key is reported per call.
func NewElevenLabs(cfg ElevenLabsConfig) *ElevenLabs {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultElevenLabsBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultElevenLabsTimeout
	}
	return &ElevenLabs{cfg: cfg, httpClient: &http.Client{Timeout: cfg.Timeout}}
}

type elevenLabsRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id,omitempty"`
}

// Synthesize implements Engine; voice is the bare ElevenLabs voice id.
func (e *ElevenLabs) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if e.cfg.APIKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, stageName, "elevenlabs", "ELEVENLABS_API_KEY not set", nil)
	}
	body, err := json.Marshal(elevenLabsRequest{Text: text, ModelID: strings.TrimSpace(e.cfg.Model)})
	if err != nil {
		return nil, services.Wrap(services.ErrSynthesis, stageName, "elevenlabs", "encode request", err)
	}
	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s/stream", e.cfg.BaseURL, url.PathEscape(voice))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, services.Wrap(services.ErrSynthesis, stageName, "elevenlabs", "build request", err)
	}
	req.Header.Set("xi-api-key", e.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, services.Wrap(services.ErrTimeout, stageName, "elevenlabs", "request cancelled", ctx.Err())
		}
		return nil, services.Wrap(services.ErrSynthesis, stageName, "elevenlabs", "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return nil, services.Wrap(services.ErrSynthesis, stageName, "elevenlabs",
			fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))), nil)
	}
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrSynthesis, stageName, "elevenlabs", "read audio stream", err)
	}
	if len(audio) == 0 {
		return nil, services.Wrap(services.ErrSynthesis, stageName, "elevenlabs", "empty audio response", nil)
	}
	return audio, nil
}
