package problemgen

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// payloadSchemaDef is the JSON Schema a generated problem payload must
// conform to. Only title and description are hard requirements; the rest
// get documented defaults after parsing.
var payloadSchemaDef = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title": map[string]any{
			"type":        "string",
			"description": "Short problem title",
		},
		"description": map[string]any{
			"type":        "string",
			"description": "Full problem statement",
		},
		"difficulty": map[string]any{
			"type":        "string",
			"description": "Easy, Medium or Hard",
		},
		"category": map[string]any{
			"type":        "string",
			"description": "Topic classification, e.g. arrays, graphs",
		},
		"tags": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"test_cases": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"input":           map[string]any{"type": "string"},
					"expected_output": map[string]any{"type": "string"},
					"output":          map[string]any{"type": "string"},
				},
			},
		},
		"solution":    map[string]any{"type": "string"},
		"ai_solution": map[string]any{"type": "string"},
	},
	"required": []any{"title", "description"},
}

var (
	schemaOnce     sync.Once
	schemaCompiled *jsonschema.Schema
	schemaErr      error
)

// compiledSchema compiles the payload schema once per process.
func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value, not raw bytes.
		defBytes, err := json.Marshal(payloadSchemaDef)
		if err != nil {
			schemaErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			schemaErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const schemaURL = "schema://problem-payload.json"
		if err := c.AddResource(schemaURL, defParsed); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		schemaCompiled, schemaErr = c.Compile(schemaURL)
	})
	return schemaCompiled, schemaErr
}
