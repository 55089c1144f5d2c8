package resolver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aldenmarch/voicecal/core/actions"
	"github.com/aldenmarch/voicecal/core/schedule"
)

func fixedNow() time.Time {
	return time.Date(2025, 1, 11, 9, 30, 0, 0, time.Local)
}

func completionBody(t *testing.T, content string) string {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	})
	if err != nil {
		t.Fatalf("failed to marshal completion body: %v", err)
	}
	return string(body)
}

func TestResolveCreateEvent(t *testing.T) {
	modelOutput := `{
		"action": "create_event",
		"event": {"title": "Meeting", "date": "2025-01-12", "time": "14:00"},
		"response": "Your meeting is scheduled for tomorrow at 2 PM."
	}`

	var capturedSystemPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
			ResponseFormat struct {
				Type string `json:"type"`
			} `json:"response_format"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req.ResponseFormat.Type != "json_schema" {
			t.Errorf("expected json_schema response format, got %q", req.ResponseFormat.Type)
		}
		for _, message := range req.Messages {
			if message.Role == "system" {
				capturedSystemPrompt = message.Content
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(completionBody(t, modelOutput))); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	r := NewGroqResolver("test-key", WithEndpoint(server.URL), WithClock(fixedNow))

	events := []schedule.Event{
		{ID: "1", Title: "Team Meeting", Date: "2025-01-11", Time: "10:00", Duration: 60},
	}
	friends := []schedule.Friend{{ID: "1", Name: "Alex Johnson"}}

	action, err := r.Resolve(context.Background(), "Add a meeting tomorrow at 2 PM", events, friends)
	if err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}

	create, ok := action.(actions.CreateEvent)
	if !ok {
		t.Fatalf("expected CreateEvent, got %T", action)
	}
	if create.Event.Date != "2025-01-12" || create.Event.Time != "14:00" {
		t.Errorf("unexpected event payload: %+v", create.Event)
	}
	if create.Event.Duration != 60 {
		t.Errorf("expected default duration 60, got %d", create.Event.Duration)
	}

	if !strings.Contains(capturedSystemPrompt, "Today is 2025-01-11") {
		t.Errorf("expected system prompt to carry today's date, got %q", capturedSystemPrompt)
	}
	if !strings.Contains(capturedSystemPrompt, "- Team Meeting at 10:00 (60min)") {
		t.Errorf("expected system prompt to list today's events, got %q", capturedSystemPrompt)
	}
	if !strings.Contains(capturedSystemPrompt, "Alex Johnson") {
		t.Errorf("expected system prompt to list friends, got %q", capturedSystemPrompt)
	}
}

func TestResolveFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	r := NewGroqResolver("test-key", WithEndpoint(server.URL))

	action, err := r.Resolve(context.Background(), "anything", nil, nil)
	if err != nil {
		t.Fatalf("expected failure to be recovered, got error %v", err)
	}
	assertFallback(t, action)
}

func TestResolveFallsBackOnInvalidSchema(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody(t, `{"action": "launch_rocket", "response": "done"}`)))
	}))
	defer server.Close()

	r := NewGroqResolver("test-key", WithEndpoint(server.URL))

	action, err := r.Resolve(context.Background(), "anything", nil, nil)
	if err != nil {
		t.Fatalf("expected schema mismatch to be recovered, got error %v", err)
	}
	assertFallback(t, action)
}

func TestResolveFallsBackOnTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	r := NewGroqResolver("test-key", WithEndpoint(server.URL), WithTimeout(50*time.Millisecond))

	start := time.Now()
	action, err := r.Resolve(context.Background(), "anything", nil, nil)
	if err != nil {
		t.Fatalf("expected timeout to be recovered, got error %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("expected bounded resolution, took %v", elapsed)
	}
	assertFallback(t, action)
}

func TestResolveUnwrapsFencedContent(t *testing.T) {
	fenced := "```\n" + `{"action": "respond", "response": "hello"}` + "\n```"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody(t, fenced)))
	}))
	defer server.Close()

	r := NewGroqResolver("test-key", WithEndpoint(server.URL))

	action, err := r.Resolve(context.Background(), "say hello", nil, nil)
	if err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	respond, ok := action.(actions.Respond)
	if !ok {
		t.Fatalf("expected Respond, got %T", action)
	}
	if respond.Response() != "hello" {
		t.Errorf("expected fenced content to be unwrapped, got %q", respond.Response())
	}
}

func assertFallback(t *testing.T, action actions.Action) {
	t.Helper()

	respond, ok := action.(actions.Respond)
	if !ok {
		t.Fatalf("expected fallback Respond, got %T", action)
	}
	if respond.Response() != FallbackResponse {
		t.Errorf("expected fixed fallback response, got %q", respond.Response())
	}
}

func TestParseRelativeDate(t *testing.T) {
	now := fixedNow()

	cases := map[string]string{
		"today":      "2025-01-11",
		"Tomorrow":   "2025-01-12",
		"2025-03-01": "2025-03-01",
		"gibberish":  "2025-01-11",
		"":           "2025-01-11",
	}

	for phrase, want := range cases {
		if got := ParseRelativeDate(phrase, now); got != want {
			t.Errorf("ParseRelativeDate(%q) = %q, want %q", phrase, got, want)
		}
	}
}
