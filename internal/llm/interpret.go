package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"tailorcv-backend/internal/shared/telemetry"
)

// Path records which recovery strategy produced the parsed JSON.
type Path string

const (
	// PathStrict means the model obeyed the output constraint verbatim.
	PathStrict Path = "strict"
	// PathFenced means the object was recovered from a markdown code fence.
	PathFenced Path = "fenced"
	// PathBraceSlice means the object was sliced between the first '{'
	// and the last '}' of a noisy response.
	PathBraceSlice Path = "brace_slice"
)

// InterpretKind classifies interpretation failures.
type InterpretKind string

const (
	KindBlocked       InterpretKind = "blocked"
	KindEmptyResponse InterpretKind = "empty_response"
	KindNoJSONFound   InterpretKind = "no_json_found"
	KindMalformedJSON InterpretKind = "malformed_json"
)

// InterpretError is a classified failure to turn model output into JSON.
// Snippet carries a bounded slice of the offending text for diagnostics.
type InterpretError struct {
	Kind    InterpretKind
	Reason  string
	Snippet string
	Err     error
}

func (e *InterpretError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("interpret: %s: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("interpret: %s", e.Kind)
}

func (e *InterpretError) Unwrap() error { return e.Err }

const snippetLimit = 500

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// Interpret turns a model response into a JSON object. Recovery is ordered:
// a safety block and an empty body fail outright; then a fenced block, the
// verbatim body, and finally a first-'{' to last-'}' slice are each tried
// as JSON. The returned Path says which attempt succeeded.
func Interpret(resp *ModelResponse) (map[string]any, Path, error) {
	if resp == nil {
		return nil, "", &InterpretError{Kind: KindEmptyResponse, Reason: "nil response"}
	}
	if resp.Blocked() {
		return nil, "", &InterpretError{Kind: KindBlocked, Reason: resp.BlockReason}
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return nil, "", &InterpretError{Kind: KindEmptyResponse, Reason: "model returned no text"}
	}

	candidate := text
	path := PathStrict
	switch {
	case fenceRe.MatchString(text):
		candidate = fenceRe.FindStringSubmatch(text)[1]
		path = PathFenced
	case strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}"):
		// verbatim
	default:
		first := strings.Index(text, "{")
		last := strings.LastIndex(text, "}")
		if first == -1 || last == -1 || last < first {
			return nil, "", &InterpretError{
				Kind:    KindNoJSONFound,
				Reason:  "no JSON object delimiters in response",
				Snippet: boundedSnippet(text),
			}
		}
		candidate = text[first : last+1]
		path = PathBraceSlice
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(candidate), &out); err != nil {
		return nil, "", &InterpretError{
			Kind:    KindMalformedJSON,
			Reason:  "candidate text is not valid JSON",
			Snippet: boundedSnippet(candidate),
			Err:     err,
		}
	}
	return out, path, nil
}

// WarnMissingKeys logs top-level keys absent from parsed output. Missing
// keys never fail interpretation; downstream consumers handle partial data.
func WarnMissingKeys(data map[string]any, required ...string) []string {
	var missing []string
	for _, key := range required {
		if _, ok := data[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		telemetry.Warn("llm.response.missing_keys", map[string]any{
			"missing": strings.Join(missing, ","),
		})
	}
	return missing
}

func boundedSnippet(s string) string {
	if len(s) <= snippetLimit {
		return s
	}
	return s[:snippetLimit]
}
