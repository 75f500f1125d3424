package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/onsetlabs/slate/internal/screenplay"
)

// EventType classifies a tracked appearance change.
type EventType string

const (
	EventInjury   EventType = "injury"
	EventIllness  EventType = "illness"
	EventGrooming EventType = "grooming"
	EventHair     EventType = "hair"
	EventMakeup   EventType = "makeup"
	EventWardrobe EventType = "wardrobe"
	EventWeather  EventType = "weather"
	EventTimeJump EventType = "timejump"
)

// ProgressionStage is one step of an event's healing/progression model.
// SceneOffset is relative to the event's start scene.
type ProgressionStage struct {
	Label       string `json:"label"`
	SceneOffset int    `json:"scene_offset"`
}

// ContinuityEvent is a tracked appearance change with a scene range.
// EndScene nil means the event is open-ended (never resolved on the page).
// Scene references are 0-based indices.
type ContinuityEvent struct {
	ID             string             `json:"id"`
	Character      string             `json:"character,omitempty"`
	Type           EventType          `json:"type"`
	StartScene     int                `json:"start_scene"`
	EndScene       *int               `json:"end_scene,omitempty"`
	Description    string             `json:"description"`
	Progression    []ProgressionStage `json:"progression,omitempty"`
	AffectedScenes []int              `json:"affected_scenes,omitempty"`
}

// DedupKey is the duplicate-suppression key: (scene, type, normalized
// character).
func (e ContinuityEvent) DedupKey() string {
	return fmt.Sprintf("%d|%s|%s", e.StartScene, e.Type, strings.ToUpper(CleanName(e.Character)))
}

// eventPatterns maps cue regexes to event types. Scanned line by line with
// a running scene counter; wet and dirty cues fold into the weather and
// wardrobe types respectively (the event taxonomy has no transient-state
// type of its own).
var eventPatterns = []struct {
	re  *regexp.Regexp
	typ EventType
}{
	{regexp.MustCompile(`(?i)\b(bleed\w*|wounded|stabbed|shot in the \w+|bruis\w*|black eye|broken (?:arm|leg|nose|rib|hand)|gash\w*|burn(?:s|ed) (?:his|her|their))\b`), EventInjury},
	{regexp.MustCompile(`(?i)\b(coughs|coughing|fever\w*|vomits|sneezes|nauseous|feverish|deathly pale)\b`), EventIllness},
	{regexp.MustCompile(`(?i)\b(shaves?|shaved|clean-shaven|haircut|cuts (?:his|her|their) hair|head shaved)\b`), EventGrooming},
	{regexp.MustCompile(`(?i)\b(soaked|drenched|dripping wet|caught in the rain)\b`), EventWeather},
	{regexp.MustCompile(`(?i)\b(covered in (?:mud|dirt|blood|dust)|filthy|mud-caked|dirt-streaked)\b`), EventWardrobe},
	{regexp.MustCompile(`(?i)\b((?:\d+|one|two|three|four|five|six|seven|eight|nine|ten|several|a few) (?:hour|day|week|month|year)s? later|the next (?:day|morning))\b`), EventTimeJump},
}

// FindEventCandidates scans the script line by line for continuity-event
// cues. Events start open-ended; resolution detection and character
// attribution are the analysis pipeline's job.
func FindEventCandidates(text string) []ContinuityEvent {
	sceneIdx := -1
	seen := make(map[string]bool)
	var events []ContinuityEvent

	for _, line := range strings.Split(text, "\n") {
		if screenplay.ParseHeading(line) != nil {
			sceneIdx++
			continue
		}
		for _, p := range eventPatterns {
			m := p.re.FindString(line)
			if m == "" {
				continue
			}
			e := ContinuityEvent{
				ID:          uuid.New().String(),
				Type:        p.typ,
				StartScene:  maxInt(sceneIdx, 0),
				Description: strings.TrimSpace(m),
				Progression: DefaultProgression(p.typ),
			}
			if seen[e.DedupKey()] {
				continue
			}
			seen[e.DedupKey()] = true
			events = append(events, e)
		}
	}
	return events
}

// DefaultProgression returns the stock healing/progression model for an
// event type, used when no explicit progression was extracted.
func DefaultProgression(typ EventType) []ProgressionStage {
	switch typ {
	case EventInjury:
		return []ProgressionStage{
			{Label: "fresh", SceneOffset: 0},
			{Label: "scabbing", SceneOffset: 3},
			{Label: "healing", SceneOffset: 8},
			{Label: "faded", SceneOffset: 15},
		}
	case EventIllness:
		return []ProgressionStage{
			{Label: "onset", SceneOffset: 0},
			{Label: "peak", SceneOffset: 2},
			{Label: "recovering", SceneOffset: 6},
		}
	case EventGrooming, EventHair:
		return []ProgressionStage{
			{Label: "changed", SceneOffset: 0},
			{Label: "growing out", SceneOffset: 12},
		}
	default:
		return nil
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
