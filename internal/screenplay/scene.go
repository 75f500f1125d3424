// Package screenplay models scenes and parses scene headings from plain-text
// screenplays. Parsing is deterministic and offline; all fields that depend
// on later analysis passes (story days, synopses, characters present) start
// zero-valued and are filled in place.
package screenplay

// Setting is the normalized scene setting token.
type Setting string

const (
	SettingInterior Setting = "INT"
	SettingExterior Setting = "EXT"
	SettingIntExt   Setting = "INT/EXT"
)

// Confidence grades how a derived value (story day, timeline bucket) was
// obtained.
type Confidence string

const (
	// ConfidenceHigh marks values backed by an explicit textual cue.
	ConfidenceHigh Confidence = "high"

	// ConfidenceMedium marks values inferred from an indirect cue.
	ConfidenceMedium Confidence = "medium"

	// ConfidenceAssumed marks values inherited from the previous scene with
	// no cue of their own.
	ConfidenceAssumed Confidence = "assumed"

	// ConfidenceDefault marks the opening-scene fallback (Day 1).
	ConfidenceDefault Confidence = "default"
)

// Scene is a single screenplay scene. Index is 0-based and is the canonical
// scene reference everywhere in this module; Number is the production scene
// number as printed in the heading ("12", "36A") and is display-only.
type Scene struct {
	Index   int     `json:"index"`
	Number  string  `json:"number,omitempty"`
	Setting Setting `json:"setting,omitempty"`

	Location  string `json:"location,omitempty"`
	TimeOfDay string `json:"time_of_day,omitempty"`

	StoryDay           int        `json:"story_day,omitempty"`
	StoryDayNote       string     `json:"story_day_note,omitempty"`
	StoryDayConfidence Confidence `json:"story_day_confidence,omitempty"`

	IsOmitted bool `json:"is_omitted,omitempty"`

	// RawText is the heading line exactly as written.
	RawText string `json:"raw_text,omitempty"`

	// Body is the scene text between this heading and the next.
	Body string `json:"-"`

	// HeadingDay is a story-day marker embedded in the heading itself
	// ("DAY 3", "D3"), already stripped from Location by the parser.
	// Zero means no marker. Consumed by the story-day sequencer.
	HeadingDay int `json:"-"`

	// Filled by the scene-structure analysis phase.
	Synopsis          string   `json:"synopsis,omitempty"`
	CharactersPresent []string `json:"characters_present,omitempty"`
}
