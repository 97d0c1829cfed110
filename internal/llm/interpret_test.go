package llm

import (
	"errors"
	"strings"
	"testing"
)

func TestInterpret_StrictVerbatim(t *testing.T) {
	resp := &ModelResponse{Text: `{"first_name": "Jane", "email": "jane@example.com"}`}
	data, path, err := Interpret(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != PathStrict {
		t.Fatalf("expected strict path, got %s", path)
	}
	if data["first_name"] != "Jane" {
		t.Fatalf("unexpected data: %v", data)
	}
}

func TestInterpret_FencedLossless(t *testing.T) {
	inner := `{"summary": "Engineer", "work": []}`
	resp := &ModelResponse{Text: "Here is the result:\n```json\n" + inner + "\n```\nHope that helps!"}
	data, path, err := Interpret(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != PathFenced {
		t.Fatalf("expected fenced path, got %s", path)
	}
	if data["summary"] != "Engineer" {
		t.Fatalf("fence extraction lost content: %v", data)
	}
}

func TestInterpret_FenceWithoutLanguageTag(t *testing.T) {
	resp := &ModelResponse{Text: "```\n{\"phone\": \"555\"}\n```"}
	data, path, err := Interpret(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != PathFenced {
		t.Fatalf("expected fenced path, got %s", path)
	}
	if data["phone"] != "555" {
		t.Fatalf("unexpected data: %v", data)
	}
}

func TestInterpret_BraceSlice(t *testing.T) {
	resp := &ModelResponse{Text: `Sure! The JSON you asked for is {"email": "a@b.co"} and nothing more.`}
	data, path, err := Interpret(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != PathBraceSlice {
		t.Fatalf("expected brace slice path, got %s", path)
	}
	if data["email"] != "a@b.co" {
		t.Fatalf("unexpected data: %v", data)
	}
}

func TestInterpret_BlockedAlwaysBlocked(t *testing.T) {
	for _, text := range []string{"", `{"valid": true}`, "anything at all"} {
		resp := &ModelResponse{Text: text, BlockReason: "SAFETY"}
		_, _, err := Interpret(resp)
		var ierr *InterpretError
		if !errors.As(err, &ierr) || ierr.Kind != KindBlocked {
			t.Fatalf("text %q: expected blocked error, got %v", text, err)
		}
		if !strings.Contains(ierr.Reason, "SAFETY") {
			t.Fatalf("expected block reason in error, got %q", ierr.Reason)
		}
	}
}

func TestInterpret_EmptyResponse(t *testing.T) {
	_, _, err := Interpret(&ModelResponse{Text: "   \n\t "})
	var ierr *InterpretError
	if !errors.As(err, &ierr) || ierr.Kind != KindEmptyResponse {
		t.Fatalf("expected empty response error, got %v", err)
	}
}

func TestInterpret_NoBracesNoJSONFound(t *testing.T) {
	_, _, err := Interpret(&ModelResponse{Text: "I cannot produce structured output for this document."})
	var ierr *InterpretError
	if !errors.As(err, &ierr) || ierr.Kind != KindNoJSONFound {
		t.Fatalf("expected no json found, got %v", err)
	}
}

func TestInterpret_MalformedJSONCarriesSnippet(t *testing.T) {
	_, _, err := Interpret(&ModelResponse{Text: `{"first_name": "Jane", "email": }`})
	var ierr *InterpretError
	if !errors.As(err, &ierr) || ierr.Kind != KindMalformedJSON {
		t.Fatalf("expected malformed json, got %v", err)
	}
	if ierr.Snippet == "" {
		t.Fatal("expected a diagnostic snippet")
	}
	if len(ierr.Snippet) > snippetLimit {
		t.Fatalf("snippet exceeds bound: %d", len(ierr.Snippet))
	}
}

func TestInterpret_SnippetBounded(t *testing.T) {
	long := "{" + strings.Repeat("x", 5000)
	_, _, err := Interpret(&ModelResponse{Text: long + "}"})
	var ierr *InterpretError
	if !errors.As(err, &ierr) || ierr.Kind != KindMalformedJSON {
		t.Fatalf("expected malformed json, got %v", err)
	}
	if len(ierr.Snippet) != snippetLimit {
		t.Fatalf("expected snippet truncated to %d, got %d", snippetLimit, len(ierr.Snippet))
	}
}

func TestWarnMissingKeys(t *testing.T) {
	data := map[string]any{"first_name": "Jane"}
	missing := WarnMissingKeys(data, "first_name", "email", "phone")
	if len(missing) != 2 {
		t.Fatalf("expected 2 missing keys, got %v", missing)
	}
	if missing[0] != "email" || missing[1] != "phone" {
		t.Fatalf("unexpected missing keys: %v", missing)
	}
}
