package appearance

import (
	"encoding/json"
	"fmt"

	"github.com/onsetlabs/slate/internal/providers"
)

// Schema is the JSON schema for appearance extraction output.
var Schema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"characters": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{
						"type": "string",
					},
					"age": map[string]any{
						"type":        []string{"string", "null"},
						"description": "Age as written in the script, e.g. '40s'",
					},
					"hair": map[string]any{
						"type": []string{"string", "null"},
					},
					"build": map[string]any{
						"type": []string{"string", "null"},
					},
					"descriptions": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Physical descriptions quoted from the script, in scene order",
					},
					"key_looks": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Distinct appearance states in script order",
					},
				},
				"required":             []string{"name", "descriptions", "key_looks"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"characters"},
	"additionalProperties": false,
}

// CharacterAppearance is one character's collected physical description.
type CharacterAppearance struct {
	Name         string   `json:"name"`
	Age          *string  `json:"age,omitempty"`
	Hair         *string  `json:"hair,omitempty"`
	Build        *string  `json:"build,omitempty"`
	Descriptions []string `json:"descriptions"`
	KeyLooks     []string `json:"key_looks"`
}

// Result is the parsed output of the appearance phase.
type Result struct {
	Characters []CharacterAppearance `json:"characters"`
}

// SchemaJSON returns the schema as a raw JSON document.
func SchemaJSON() json.RawMessage {
	b, err := json.Marshal(Schema)
	if err != nil {
		panic(fmt.Sprintf("appearance schema marshal: %v", err))
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
		return nil, fmt.Errorf("failed to decode appearance analysis: %w", err)
	}
	return &res, nil
}
