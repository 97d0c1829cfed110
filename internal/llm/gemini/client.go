// Package gemini implements llm.Client on the Google Generative AI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"tailorcv-backend/internal/llm"
	"tailorcv-backend/internal/shared/telemetry"
)

// ErrNotConfigured is returned when no API key is available.
var ErrNotConfigured = errors.New("gemini: API key is not configured")

// Client calls the Gemini API.
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// New dials the Gemini API. The model name is required; timeout bounds a
// single generation call and defaults to two minutes when zero.
func New(ctx context.Context, apiKey string, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNotConfigured
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("gemini: model name is required")
	}
	gc, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: dial: %w", err)
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Client{client: gc, model: model, timeout: timeout}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error { return c.client.Close() }

// Generate sends the prompt (and optional raw document) to the model and
// normalizes the provider response. A safety refusal comes back as a
// ModelResponse with BlockReason set, not as an error.
func (c *Client) Generate(ctx context.Context, prompt string, att *llm.Attachment) (*llm.ModelResponse, error) {
	cctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0.2)

	parts := []genai.Part{genai.Text(prompt)}
	if att != nil {
		parts = append(parts, genai.Blob{MIMEType: att.MIMEType, Data: att.Data})
	}

	started := time.Now()
	resp, err := model.GenerateContent(cctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("gemini: generate content: %w", err)
	}
	telemetry.Info("gemini.generate.complete", map[string]any{
		"model":       c.model,
		"duration_ms": time.Since(started).Milliseconds(),
	})

	return Normalize(resp), nil
}

// Normalize flattens a provider response into the neutral ModelResponse,
// folding prompt feedback into BlockReason and concatenating text parts.
func Normalize(resp *genai.GenerateContentResponse) *llm.ModelResponse {
	out := &llm.ModelResponse{}
	if resp == nil {
		return out
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		out.BlockReason = resp.PromptFeedback.BlockReason.String()
		return out
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}
	out.Text = b.String()
	return out
}
