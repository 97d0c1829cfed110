package llm

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Draft-07 schemas for the two structured outputs. Only shape is enforced;
// presence of individual keys stays advisory (see WarnMissingKeys).
const extractionSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"first_name": {"type": ["string", "null"]},
		"last_name": {"type": ["string", "null"]},
		"email": {"type": ["string", "null"]},
		"phone": {"type": ["string", "null"]},
		"location": {"type": ["string", "null"]},
		"socials": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"network": {"type": ["string", "null"]},
					"username": {"type": ["string", "null"]},
					"url": {"type": ["string", "null"]}
				}
			}
		},
		"summary": {"type": ["string", "null"]},
		"work": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"name": {"type": ["string", "null"]},
					"position": {"type": ["string", "null"]},
					"url": {"type": ["string", "null"]},
					"startDate": {"type": ["string", "null"]},
					"endDate": {"type": ["string", "null"]},
					"story": {"type": ["string", "null"]},
					"highlights": {"type": "array", "items": {"type": "string"}}
				}
			}
		},
		"projects": {"type": "array", "items": {"type": "object"}},
		"skills": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"category": {"type": ["string", "null"]},
					"skills": {"type": "array", "items": {"type": "string"}}
				}
			}
		},
		"education": {"type": "array", "items": {"type": "object"}},
		"languages": {"type": "array", "items": {"type": "string"}},
		"certificates": {"type": "array", "items": {"type": "object"}},
		"other_extracted_data": {"type": ["string", "null"]},
		"analysis": {"type": ["string", "null"]}
	}
}`

const tailoringSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"summary": {"type": ["string", "null"]},
		"work": {"type": "array", "items": {"type": "object"}},
		"skills": {"type": "array", "items": {"type": "object"}},
		"projects": {"type": "array", "items": {"type": "object"}}
	}
}`

var (
	schemaOnce      sync.Once
	schemaErr       error
	extractionCheck *jsonschema.Schema
	tailoringCheck  *jsonschema.Schema
)

func compileSchemas() {
	compile := func(name, body string) (*jsonschema.Schema, error) {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(name, strings.NewReader(body)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", name, err)
		}
		return compiler.Compile(name)
	}
	extractionCheck, schemaErr = compile("extraction.json", extractionSchema)
	if schemaErr != nil {
		return
	}
	tailoringCheck, schemaErr = compile("tailoring.json", tailoringSchema)
}

// ValidateExtraction checks parsed extraction output against the expected
// resume shape.
func ValidateExtraction(data map[string]any) error {
	schemaOnce.Do(compileSchemas)
	if schemaErr != nil {
		return schemaErr
	}
	if err := extractionCheck.Validate(map[string]any(data)); err != nil {
		return fmt.Errorf("extraction output does not match schema: %w", err)
	}
	return nil
}

// ValidateTailoring checks parsed tailoring output against the expected
// generated-resume shape.
func ValidateTailoring(data map[string]any) error {
	schemaOnce.Do(compileSchemas)
	if schemaErr != nil {
		return schemaErr
	}
	if err := tailoringCheck.Validate(map[string]any(data)); err != nil {
		return fmt.Errorf("tailoring output does not match schema: %w", err)
	}
	return nil
}
