package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aldenmarch/voicecal/core/actions"
	"github.com/aldenmarch/voicecal/core/schedule"
	"github.com/invopop/jsonschema"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultURL     = "https://api.groq.com/openai/v1/chat/completions"
	defaultModel   = "llama-3.3-70b-versatile"
	defaultTimeout = 30 * time.Second
)

// GroqResolver resolves utterances through Groq's chat completion API with a
// response format constrained to the action envelope schema.
//
// Resolve never returns an error: every transport, timeout, or schema
// failure collapses to the fallback respond action, so the caller always has
// exactly one action to dispatch.
type GroqResolver struct {
	apiKey  string
	model   string
	url     string
	timeout time.Duration

	httpClient *http.Client
	now        func() time.Time
}

type GroqOption func(*GroqResolver)

// WithModel overrides the completion model.
func WithModel(model string) GroqOption {
	return func(r *GroqResolver) {
		if model != "" {
			r.model = model
		}
	}
}

// WithEndpoint overrides the completion endpoint URL.
func WithEndpoint(url string) GroqOption {
	return func(r *GroqResolver) {
		if url != "" {
			r.url = url
		}
	}
}

// WithTimeout bounds each resolution request. Zero disables the bound and
// leaves a hung request blocking its turn indefinitely.
func WithTimeout(timeout time.Duration) GroqOption {
	return func(r *GroqResolver) {
		r.timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) GroqOption {
	return func(r *GroqResolver) {
		if client != nil {
			r.httpClient = client
		}
	}
}

// WithClock replaces the time source used to build the scheduling context.
func WithClock(now func() time.Time) GroqOption {
	return func(r *GroqResolver) {
		if now != nil {
			r.now = now
		}
	}
}

func NewGroqResolver(apiKey string, opts ...GroqOption) *GroqResolver {
	resolver := &GroqResolver{
		apiKey:     apiKey,
		model:      defaultModel,
		url:        defaultURL,
		timeout:    defaultTimeout,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(resolver)
	}

	return resolver
}

// Resolve produces exactly one validated action for the utterance. On any
// failure it returns the fallback respond action and a nil error.
func (r *GroqResolver) Resolve(ctx context.Context, utterance string, events []schedule.Event, friends []schedule.Friend) (actions.Action, error) {
	ctx, span := tracer.Start(ctx, "resolve utterance")
	defer span.End()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	action, err := r.resolve(ctx, utterance, events, friends)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.WarnContext(ctx, "resolution failed, falling back to respond", "error", err)
		return Fallback(), nil
	}

	span.SetAttributes(attribute.String("action.tag", string(action.Tag())))
	return action, nil
}

func (r *GroqResolver) resolve(ctx context.Context, utterance string, events []schedule.Event, friends []schedule.Friend) (actions.Action, error) {
	span := trace.SpanFromContext(ctx)

	reflector := jsonschema.Reflector{DoNotReference: true}
	schema := reflector.Reflect(actions.Envelope{})

	reqBody := completionRequest{
		Model: r.model,
		Messages: []message{
			{Role: "system", Content: buildSystemPrompt(r.now(), events, friends)},
			{Role: "user", Content: utterance},
		},
		ResponseFormat: &responseFormat{
			Type: "json_schema",
			JSONSchema: &jsonSchemaFormat{
				Name:   "Envelope",
				Schema: *schema,
				Strict: true,
			},
		},
	}

	requestBodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		if errorBody, readErr := io.ReadAll(resp.Body); readErr == nil {
			span.SetAttributes(attribute.String("response.error", string(errorBody)))
		}
		return nil, fmt.Errorf("non-OK HTTP status: %s", resp.Status)
	}

	respBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var responseBody completionResponse
	if err := json.Unmarshal(respBodyBytes, &responseBody); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(responseBody.Choices) == 0 {
		return nil, fmt.Errorf("response contained no choices")
	}

	content := responseBody.Choices[0].Message.Content
	if split := strings.Split(content, "```"); len(split) > 1 {
		content = split[1]
	}

	action, err := actions.Decode([]byte(content))
	if err != nil {
		return nil, fmt.Errorf("failed to decode action: %w", err)
	}

	return action, nil
}

type completionRequest struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type       string            `json:"type"`
	JSONSchema *jsonSchemaFormat `json:"json_schema,omitempty"`
}

type jsonSchemaFormat struct {
	Name   string            `json:"name"`
	Schema jsonschema.Schema `json:"schema"`
	Strict bool              `json:"strict"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role,omitempty"`
			Content string `json:"content,omitempty"`
		} `json:"message"`
	} `json:"choices"`
}
