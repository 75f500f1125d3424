package continuity

import (
	"encoding/json"
	"fmt"

	"github.com/onsetlabs/slate/internal/providers"
)

// Schema is the JSON schema for continuity event output.
var Schema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"events": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"character": map[string]any{
						"type": "string",
					},
					"type": map[string]any{
						"type": "string",
						"enum": []string{
							"injury", "illness", "grooming", "hair",
							"makeup", "wardrobe", "weather", "timejump",
						},
					},
					"start_scene": map[string]any{
						"type":        "integer",
						"description": "Zero-based index of the scene where the event first appears",
					},
					"end_scene": map[string]any{
						"type":        []string{"integer", "null"},
						"description": "Zero-based index where the event resolves, null if it persists",
					},
					"description": map[string]any{
						"type": "string",
					},
					"progression": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"label":        map[string]any{"type": "string"},
								"scene_offset": map[string]any{"type": "integer"},
							},
							"required":             []string{"label", "scene_offset"},
							"additionalProperties": false,
						},
					},
				},
				"required":             []string{"character", "type", "start_scene", "description"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"events"},
	"additionalProperties": false,
}

// Stage is one step of an event's visible progression.
type Stage struct {
	Label       string `json:"label"`
	SceneOffset int    `json:"scene_offset"`
}

// Event is one continuity event.
type Event struct {
	Character   string  `json:"character"`
	Type        string  `json:"type"`
	StartScene  int     `json:"start_scene"`
	EndScene    *int    `json:"end_scene,omitempty"`
	Description string  `json:"description"`
	Progression []Stage `json:"progression,omitempty"`
}

// Result is the parsed output of the continuity phase.
type Result struct {
	Events []Event `json:"events"`
}

// SchemaJSON returns the schema as a raw JSON document.
func SchemaJSON() json.RawMessage {
	b, err := json.Marshal(Schema)
	if err != nil {
		panic(fmt.Sprintf("continuity schema marshal: %v", err))
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
		return nil, fmt.Errorf("failed to decode continuity analysis: %w", err)
	}
	return &res, nil
}
