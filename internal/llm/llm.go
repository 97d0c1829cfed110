package llm

import (
	"context"
	"errors"
)

// Attachment is a raw document passed to the model alongside the prompt,
// used when no text could be extracted locally.
type Attachment struct {
	MIMEType string
	Data     []byte
}

// ModelResponse is the provider-neutral result of a generation call.
// BlockReason is non-empty when the provider refused the request on
// safety grounds; adapters normalize it here so callers never touch
// provider feedback types.
type ModelResponse struct {
	Text        string
	BlockReason string
}

// Blocked reports whether the provider refused to generate.
func (r *ModelResponse) Blocked() bool { return r.BlockReason != "" }

// Client abstracts generative model providers.
type Client interface {
	// Generate sends the prompt, plus an optional attachment, and returns
	// the raw model output. A safety refusal is not an error; it surfaces
	// as a ModelResponse with a BlockReason.
	Generate(ctx context.Context, prompt string, att *Attachment) (*ModelResponse, error)
}

// ErrNotConfigured is returned by PlaceholderClient.
var ErrNotConfigured = errors.New("generative model is not configured")

// PlaceholderClient stands in when no provider credentials are present.
type PlaceholderClient struct{}

func (PlaceholderClient) Generate(ctx context.Context, prompt string, att *Attachment) (*ModelResponse, error) {
	_ = ctx
	_ = prompt
	_ = att
	return nil, ErrNotConfigured
}
