package scenes

import (
	"encoding/json"
	"fmt"

	"github.com/onsetlabs/slate/internal/providers"
)

// Schema is the JSON schema for scene analysis output.
var Schema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"scenes": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"index": map[string]any{
						"type":        "integer",
						"description": "Zero-based scene index from the input marker",
					},
					"synopsis": map[string]any{
						"type":        "string",
						"description": "One-sentence summary of the scene action",
					},
					"characters": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "UPPERCASE names of characters on screen",
					},
					"location": map[string]any{
						"type": []string{"string", "null"},
					},
					"time_of_day": map[string]any{
						"type": []string{"string", "null"},
					},
				},
				"required":             []string{"index", "synopsis", "characters"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"scenes"},
	"additionalProperties": false,
}

// SceneInfo is one scene's analysis.
type SceneInfo struct {
	Index      int      `json:"index"`
	Synopsis   string   `json:"synopsis"`
	Characters []string `json:"characters"`
	Location   *string  `json:"location,omitempty"`
	TimeOfDay  *string  `json:"time_of_day,omitempty"`
}

// Result is the parsed output of the scene analysis phase.
type Result struct {
	Scenes []SceneInfo `json:"scenes"`
}

// SchemaJSON returns the schema as a raw JSON document.
func SchemaJSON() json.RawMessage {
	b, err := json.Marshal(Schema)
	if err != nil {
		panic(fmt.Sprintf("scenes schema marshal: %v", err))
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
		return nil, fmt.Errorf("failed to decode scene analysis: %w", err)
	}
	return &res, nil
}
