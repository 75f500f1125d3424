package timeline

import (
	"encoding/json"
	"fmt"

	"github.com/onsetlabs/slate/internal/providers"
)

// Schema is the JSON schema for story-day assignment output.
var Schema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"assignments": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"scene": map[string]any{
						"type":        "integer",
						"description": "Zero-based scene index",
					},
					"day": map[string]any{
						"type":        "integer",
						"description": "Story day, counting from 1",
					},
					"confidence": map[string]any{
						"type": "string",
						"enum": []string{"high", "medium", "assumed", "default"},
					},
					"note": map[string]any{
						"type":        []string{"string", "null"},
						"description": "Short cue description, e.g. 'three weeks later'",
					},
				},
				"required":             []string{"scene", "day", "confidence"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"assignments"},
	"additionalProperties": false,
}

// Assignment is one scene's story-day assignment.
type Assignment struct {
	Scene      int     `json:"scene"`
	Day        int     `json:"day"`
	Confidence string  `json:"confidence"`
	Note       *string `json:"note,omitempty"`
}

// Result is the parsed output of the timeline phase.
type Result struct {
	Assignments []Assignment `json:"assignments"`
}

// SchemaJSON returns the schema as a raw JSON document.
func SchemaJSON() json.RawMessage {
	b, err := json.Marshal(Schema)
	if err != nil {
		panic(fmt.Sprintf("timeline schema marshal: %v", err))
	}
	return b
}

// ParseResult leniently parses and validates phase output.
func ParseResult(text string) (*Result, error) {
	raw, err := providers.ParseLenient(text)
	if err != nil {
		return nil, err
	}
	if err := providers.ValidateSchema(SchemaJSON(), raw); err != nil {
		return nil, err
	}
	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("failed to decode timeline analysis: %w", err)
	}
	return &res, nil
}
