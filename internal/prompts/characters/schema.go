package characters

import (
	"encoding/json"
	"fmt"

	"github.com/onsetlabs/slate/internal/providers"
)

// Schema is the JSON schema for character identification output.
var Schema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"characters": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{
						"type":        "string",
						"description": "Canonical UPPERCASE name without dialogue suffixes",
					},
					"category": map[string]any{
						"type": "string",
						"enum": []string{"LEAD", "SUPPORTING", "DAY_PLAYER", "BACKGROUND"},
					},
					"aliases": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"scenes": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "integer"},
						"description": "Zero-based indices of scenes where the character appears",
					},
					"description": map[string]any{
						"type": []string{"string", "null"},
					},
				},
				"required":             []string{"name", "category", "scenes"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"characters"},
	"additionalProperties": false,
}

// CharacterInfo is one identified character.
type CharacterInfo struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Aliases     []string `json:"aliases,omitempty"`
	Scenes      []int    `json:"scenes"`
	Description *string  `json:"description,omitempty"`
}

// Result is the parsed output of the character identification phase.
type Result struct {
	Characters []CharacterInfo `json:"characters"`
}

// SchemaJSON returns the schema as a raw JSON document.
func SchemaJSON() json.RawMessage {
	b, err := json.Marshal(Schema)
	if err != nil {
		panic(fmt.Sprintf("characters schema marshal: %v", err))
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
		return nil, fmt.Errorf("failed to decode character analysis: %w", err)
	}
	return &res, nil
}
