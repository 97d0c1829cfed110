package llm

import "testing"

func TestValidateExtraction_AcceptsPartialData(t *testing.T) {
	data := map[string]any{
		"first_name": "Jane",
		"email":      "jane@example.com",
		"work": []any{
			map[string]any{"name": "Acme", "highlights": []any{"Led a team"}},
		},
	}
	if err := ValidateExtraction(data); err != nil {
		t.Fatalf("partial data should validate: %v", err)
	}
}

func TestValidateExtraction_RejectsWrongShape(t *testing.T) {
	data := map[string]any{"work": "not an array"}
	if err := ValidateExtraction(data); err == nil {
		t.Fatal("expected validation failure for non-array work")
	}
}

func TestValidateTailoring(t *testing.T) {
	ok := map[string]any{"summary": "s", "work": []any{}, "skills": []any{}, "projects": []any{}}
	if err := ValidateTailoring(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := map[string]any{"skills": map[string]any{"category": "x"}}
	if err := ValidateTailoring(bad); err == nil {
		t.Fatal("expected validation failure for non-array skills")
	}
}
