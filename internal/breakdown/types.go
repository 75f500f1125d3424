// Package breakdown assembles the master continuity context from the
// outputs of the five analysis phases.
package breakdown

import (
	"time"

	"github.com/onsetlabs/slate/internal/extract"
	"github.com/onsetlabs/slate/internal/prompts/appearance"
	"github.com/onsetlabs/slate/internal/screenplay"
)

// PhaseResults collects what the analysis phases produced, after merging
// with the pattern fallbacks. Scenes carry their synopses, characters
// present, and story days in place.
type PhaseResults struct {
	Scenes      []screenplay.Scene               `json:"scenes"`
	Characters  []extract.Candidate              `json:"characters"`
	Events      []extract.ContinuityEvent        `json:"events"`
	Appearances []appearance.CharacterAppearance `json:"appearances"`
	Keywords    []extract.KeywordMatch           `json:"keywords,omitempty"`

	// FallbackPhases names the phases whose service calls failed and
	// whose results come from pattern extraction instead.
	FallbackPhases []string `json:"fallback_phases,omitempty"`
}

// Description is one physical description tied to the scene it appears in.
type Description struct {
	SceneIndex int    `json:"scene_index"`
	Text       string `json:"text"`
}

// PhysicalProfile is the hair-and-makeup-facing summary of a character.
// KeyLooks covers every tracked appearance state; Transformations is the
// subset that lasts (transient states like soaked or muddy excluded).
type PhysicalProfile struct {
	Age             string `json:"age,omitempty"`
	Hair            string `json:"hair,omitempty"`
	Build           string `json:"build,omitempty"`
	KeyLooks        string `json:"key_looks,omitempty"`
	Transformations string `json:"transformations,omitempty"`
}

// StoryPresence summarizes where a character appears.
type StoryPresence struct {
	FirstScene int   `json:"first_scene"`
	LastScene  int   `json:"last_scene"`
	SceneCount int   `json:"scene_count"`
	StoryDays  []int `json:"story_days,omitempty"`
}

// CharacterRecord is the per-character section of the master context.
// Cross-references (events, descriptions, synopses) match the canonical
// name and every listed variation, case-insensitively.
type CharacterRecord struct {
	Name            string           `json:"name"`
	Category        extract.Category `json:"category"`
	Profile         PhysicalProfile  `json:"profile"`
	Descriptions    []Description    `json:"descriptions,omitempty"`
	SceneSynopses   []Description    `json:"scene_synopses,omitempty"`
	ContinuityNotes []string         `json:"continuity_notes,omitempty"`
	Presence        StoryPresence    `json:"presence"`
}

// DayBucket groups the scenes that share a story day.
type DayBucket struct {
	Day    int    `json:"day"`
	Label  string `json:"label"`
	Scenes []int  `json:"scenes"`
}

// Statistics are the headline numbers for the analyzed script.
type Statistics struct {
	SceneCount     int `json:"scene_count"`
	OmittedScenes  int `json:"omitted_scenes"`
	StoryDays      int `json:"story_days"`
	CharacterCount int `json:"character_count"`
	EventCount     int `json:"event_count"`
}

// MasterContext is the complete continuity breakdown for one script.
type MasterContext struct {
	Title       string    `json:"title,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`

	Scenes     []screenplay.Scene        `json:"scenes"`
	Days       []DayBucket               `json:"days"`
	Characters []CharacterRecord         `json:"characters"`
	Events     []extract.ContinuityEvent `json:"events"`
	Keywords   []extract.KeywordMatch    `json:"keywords,omitempty"`

	Statistics     Statistics `json:"statistics"`
	DegradedPhases []string   `json:"degraded_phases,omitempty"`
}
