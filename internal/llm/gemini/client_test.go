package gemini

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
)

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), "  ", "gemini-2.5-pro", time.Minute)
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestNormalize_BlockReason(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonSafety},
	}
	out := Normalize(resp)
	if !out.Blocked() {
		t.Fatal("expected blocked response")
	}
	if out.Text != "" {
		t.Fatalf("blocked response should carry no text, got %q", out.Text)
	}
}

func TestNormalize_ConcatenatesTextParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []genai.Part{genai.Text(`{"a":`), genai.Text(` 1}`)},
				},
			},
		},
	}
	out := Normalize(resp)
	if out.Blocked() {
		t.Fatal("unexpected block")
	}
	if out.Text != `{"a": 1}` {
		t.Fatalf("unexpected text: %q", out.Text)
	}
}

func TestNormalize_NilAndEmpty(t *testing.T) {
	if out := Normalize(nil); out.Text != "" || out.Blocked() {
		t.Fatal("nil response should normalize to empty")
	}
	if out := Normalize(&genai.GenerateContentResponse{}); out.Text != "" || out.Blocked() {
		t.Fatal("empty response should normalize to empty")
	}
}
