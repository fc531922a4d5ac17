package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func candidateResponse(text string) map[string]any {
	return map[string]any{
		"candidates": []any{
			map[string]any{
				"finishReason": "STOP",
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": text}},
				},
			},
		},
	}
}

func noSleep() []Option {
	return []Option{WithRetryBackoff(0, 0), WithSleeper(func(time.Duration) {})}
}

func TestGenerateJSONSendsGeminiRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/demo-model:generateContent" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "secret" {
			t.Errorf("expected api key header, got %q", got)
		}
		var body generateRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body.GenerationConfig.ResponseMimeType != "application/json" {
			t.Errorf("expected json mime type, got %q", body.GenerationConfig.ResponseMimeType)
		}
		if body.GenerationConfig.Temperature != 0.7 {
			t.Errorf("expected temperature 0.7, got %v", body.GenerationConfig.Temperature)
		}
		if len(body.Contents) != 1 || body.Contents[0].Parts[0].Text != "make a lesson" {
			t.Errorf("unexpected contents %#v", body.Contents)
		}
		_ = json.NewEncoder(w).Encode(candidateResponse(`{"title":"Negroni"}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "secret", BaseURL: server.URL + "/", Model: "demo-model", Temperature: 0.7})
	text, err := client.GenerateJSON(context.Background(), "make a lesson")
	if err != nil {
		t.Fatalf("GenerateJSON returned error: %v", err)
	}
	if text != `{"title":"Negroni"}` {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestGenerateJSONJoinsParts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{"parts": []any{
					map[string]any{"text": `{"title":`},
					map[string]any{"text": `"Gimlet"}`},
				}},
			}},
		})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL, Model: "m"})
	text, err := client.GenerateJSON(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("GenerateJSON returned error: %v", err)
	}
	if text != `{"title":"Gimlet"}` {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestGenerateJSONRequiresKeyAndPrompt(t *testing.T) {
	client := NewClient(Config{})
	if _, err := client.GenerateJSON(context.Background(), "prompt"); err == nil || !strings.Contains(err.Error(), "api key") {
		t.Fatalf("expected api key error, got %v", err)
	}
	client = NewClient(Config{APIKey: "k"})
	if _, err := client.GenerateJSON(context.Background(), "  "); err == nil {
		t.Fatal("expected prompt error")
	}
	if client.Model() != defaultModel {
		t.Fatalf("expected default model, got %q", client.Model())
	}
}

func TestHealthCheckCodeFence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(candidateResponse("```json\n{\"ok\":true}\n```"))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo"})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
}

func TestHealthCheckUnauthorizedDoesNotRetry(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":401,"message":"API key not valid","status":"UNAUTHENTICATED"}}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad", BaseURL: server.URL, Model: "demo"}, noSleep()...)
	err := client.HealthCheck(context.Background())
	if err == nil || !strings.Contains(err.Error(), "http 401") {
		t.Fatalf("expected 401 error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single call, got %d", calls)
	}
}

func TestGenerateJSONRetriesOn429WithRetryAfter(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(candidateResponse(`{"ok":true}`))
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo"},
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
		WithRetryBackoff(0, 10*time.Second),
	)
	if _, err := client.GenerateJSON(context.Background(), "prompt"); err != nil {
		t.Fatalf("GenerateJSON returned error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
	if len(slept) != 1 || slept[0] != time.Second {
		t.Fatalf("expected single sleep of 1s, got %v", slept)
	}
}

func TestGenerateJSONEmptyCandidatesExhaustsRetries(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates":     []any{},
			"promptFeedback": map[string]any{"blockReason": "SAFETY"},
		})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo"}, noSleep()...)
	_, err := client.GenerateJSON(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected failure")
	}
	if !strings.Contains(err.Error(), "empty content") || !strings.Contains(err.Error(), `block_reason="SAFETY"`) {
		t.Fatalf("unexpected error %v", err)
	}
	if calls != defaultRetryAttempts {
		t.Fatalf("expected %d calls, got %d", defaultRetryAttempts, calls)
	}
}

func TestGenerateJSONStopsOnCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo"},
		WithSleeper(func(time.Duration) { cancel() }),
		WithRetryBackoff(time.Millisecond, time.Millisecond),
	)
	if _, err := client.GenerateJSON(ctx, "prompt"); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestBackoffDelayDoublesAndCaps(t *testing.T) {
	client := NewClient(Config{}, WithRetryBackoff(time.Second, 5*time.Second))
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 5 * time.Second}
	for i, expected := range want {
		if got := client.backoffDelay(i + 1); got != expected {
			t.Fatalf("attempt %d: expected %s, got %s", i+1, expected, got)
		}
	}
}
