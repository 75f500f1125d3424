package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/onsetlabs/slate/internal/screenplay"
)

// Category ranks a character's importance from scene presence.
type Category string

const (
	CategoryLead       Category = "LEAD"
	CategorySupporting Category = "SUPPORTING"
	CategoryDayPlayer  Category = "DAY_PLAYER"
	CategoryBackground Category = "BACKGROUND"
)

// Category thresholds as a fraction of total scene count.
const (
	leadSceneRatio       = 0.40
	supportingSceneRatio = 0.10
)

// Candidate is a pattern-extracted character. CanonicalName is title-cased
// and unique case-insensitively; NameVariations keeps the raw spellings
// encountered.
type Candidate struct {
	CanonicalName    string   `json:"canonical_name"`
	NameVariations   []string `json:"name_variations,omitempty"`
	Category         Category `json:"category"`
	SceneIndices     []int    `json:"scene_indices"`
	FirstAppearance  int      `json:"first_appearance"`
	LastAppearance   int      `json:"last_appearance"`
	HasDialogue      bool     `json:"has_dialogue"`
	IntroDescription string   `json:"intro_description,omitempty"`
}

var (
	// An all-caps line with an optional parenthetical is a dialogue header.
	reDialogueHeader = regexp.MustCompile(`^\s*([A-Z][A-Z0-9 .'#\-]{0,38}[A-Z0-9.'])\s*(?:\(([^)]*)\))?\s*$`)

	// Introduction phrasings in action lines: "we meet NAME", "NAME enters",
	// "NAME (30s, weathered)".
	reIntroWeMeet = regexp.MustCompile(`\b[Ww]e (?:meet|see|find) ([A-Z][A-Z'\-]+(?: [A-Z][A-Z'\-]+){0,2})`)
	reIntroEnters = regexp.MustCompile(`\b([A-Z][A-Z'\-]{2,}(?: [A-Z][A-Z'\-]{2,}){0,2}) (?:enters|walks in|steps in|appears)\b`)
	reIntroParen  = regexp.MustCompile(`\b([A-Z][A-Z'\-]{2,}(?: [A-Z][A-Z'\-]{2,}){0,2})\s*\(([^)]+)\)`)

	// Dialogue-header suffixes stripped during name cleaning.
	reNameSuffix = regexp.MustCompile(`\s*(?:\(.*\)|V\.O\.?|O\.S\.?|O\.C\.?|CONT'D\.?|CONT\.?)\s*$`)
)

// excludedNames are scene-transition and technical terms that both passes
// must never report as characters.
var excludedNames = map[string]bool{
	"INT": true, "EXT": true, "INT/EXT": true, "I/E": true,
	"CUT TO": true, "FADE IN": true, "FADE OUT": true, "FADE TO BLACK": true,
	"DISSOLVE TO": true, "SMASH CUT": true, "MATCH CUT": true, "JUMP CUT": true,
	"CONTINUED": true, "OMITTED": true, "INTERCUT": true, "MONTAGE": true,
	"BEGIN MONTAGE": true, "END MONTAGE": true, "END OF MONTAGE": true,
	"ANGLE ON": true, "CLOSE ON": true, "CLOSE UP": true, "WIDE": true,
	"POV": true, "INSERT": true, "BACK TO SCENE": true, "FLASHBACK": true,
	"SUPER": true, "TITLE": true, "CHYRON": true, "CARD": true,
	"THE END": true, "END": true, "PRELAP": true,
	"DAY": true, "NIGHT": true, "MORNING": true, "AFTERNOON": true,
	"EVENING": true, "DAWN": true, "DUSK": true, "LATER": true,
	"MOMENTS LATER": true, "CONTINUOUS": true, "SAME": true,
	"VOICE": true, "EVERYONE": true, "ALL": true, "CROWD": true,
}

// ExtractCharacters runs both candidate passes over the script text: a
// dialogue-header pass and an introduction-phrasing pass. Candidates are
// deduplicated by normalized name and accumulate scene membership.
func ExtractCharacters(text string) []Candidate {
	byKey := make(map[string]*Candidate)
	var order []string

	record := func(raw string, sceneIdx int, dialogue bool, intro string) {
		name := CleanName(raw)
		if name == "" {
			return
		}
		key := strings.ToUpper(name)
		if excludedNames[key] {
			return
		}
		c, ok := byKey[key]
		if !ok {
			c = &Candidate{
				CanonicalName:   CanonicalName(name),
				FirstAppearance: sceneIdx,
				LastAppearance:  sceneIdx,
			}
			byKey[key] = c
			order = append(order, key)
		}
		if dialogue {
			c.HasDialogue = true
		}
		if intro != "" && c.IntroDescription == "" {
			c.IntroDescription = intro
		}
		raw = strings.TrimSpace(raw)
		if raw != c.CanonicalName && !containsString(c.NameVariations, raw) {
			c.NameVariations = append(c.NameVariations, raw)
		}
		if sceneIdx >= 0 {
			if len(c.SceneIndices) == 0 || c.SceneIndices[len(c.SceneIndices)-1] != sceneIdx {
				c.SceneIndices = append(c.SceneIndices, sceneIdx)
			}
			if sceneIdx < c.FirstAppearance || c.FirstAppearance < 0 {
				c.FirstAppearance = sceneIdx
			}
			if sceneIdx > c.LastAppearance {
				c.LastAppearance = sceneIdx
			}
		}
	}

	sceneIdx := -1
	totalScenes := 0
	for _, line := range strings.Split(text, "\n") {
		if screenplay.ParseHeading(line) != nil {
			sceneIdx++
			totalScenes++
			continue
		}

		if m := reDialogueHeader.FindStringSubmatch(line); m != nil && looksLikeDialogueHeader(m[1]) {
			record(m[1], sceneIdx, true, "")
			continue
		}

		if m := reIntroWeMeet.FindStringSubmatch(line); m != nil {
			record(m[1], sceneIdx, false, "")
		}
		if m := reIntroEnters.FindStringSubmatch(line); m != nil {
			record(m[1], sceneIdx, false, "")
		}
		if m := reIntroParen.FindStringSubmatch(line); m != nil && !isSuffixParenthetical(m[2]) {
			record(m[1], sceneIdx, false, strings.TrimSpace(m[2]))
		}
	}

	out := make([]Candidate, 0, len(order))
	for _, key := range order {
		c := byKey[key]
		c.Category = Categorize(len(c.SceneIndices), totalScenes, c.HasDialogue)
		out = append(out, *c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FirstAppearance != out[j].FirstAppearance {
			return out[i].FirstAppearance < out[j].FirstAppearance
		}
		return out[i].CanonicalName < out[j].CanonicalName
	})
	return out
}

// Categorize assigns an importance category from scene presence. Thresholds
// are ratios of the total scene count; re-derive whenever scene counts
// change.
func Categorize(sceneCount, totalScenes int, hasDialogue bool) Category {
	if totalScenes > 0 && sceneCount > 0 {
		ratio := float64(sceneCount) / float64(totalScenes)
		if ratio >= leadSceneRatio && hasDialogue {
			return CategoryLead
		}
		if ratio >= supportingSceneRatio {
			return CategorySupporting
		}
	}
	if sceneCount >= 1 && hasDialogue {
		return CategoryDayPlayer
	}
	return CategoryBackground
}

// CanonicalName cleans a raw name and title-cases it for display.
func CanonicalName(raw string) string {
	return titleCase(CleanName(raw))
}

// CleanName strips dialogue-header suffixes (V.O., O.S., CONT'D), trailing
// parentheticals and punctuation from a raw character name.
func CleanName(raw string) string {
	name := strings.TrimSpace(raw)
	for {
		stripped := reNameSuffix.ReplaceAllString(name, "")
		stripped = strings.TrimSpace(strings.Trim(stripped, ".,:;"))
		if stripped == name {
			break
		}
		name = stripped
	}
	return strings.Join(strings.Fields(name), " ")
}

func looksLikeDialogueHeader(raw string) bool {
	// All-caps action sentences end with punctuation; dialogue headers don't.
	if strings.HasSuffix(strings.TrimSpace(raw), ".") {
		return false
	}
	name := CleanName(raw)
	if name == "" || len(name) < 2 || len(strings.Fields(name)) > 4 {
		return false
	}
	if excludedNames[strings.ToUpper(name)] {
		return false
	}
	// Transitions end in TO (CUT TO:, DISSOLVE TO:).
	if strings.HasSuffix(name, " TO") {
		return false
	}
	// Must contain at least one letter.
	return strings.IndexFunc(name, func(r rune) bool { return r >= 'A' && r <= 'Z' }) >= 0
}

// isSuffixParenthetical reports whether a parenthetical is a dialogue
// annotation rather than an introduction description.
func isSuffixParenthetical(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "V.O.", "V.O", "O.S.", "O.S", "O.C.", "O.C", "CONT'D", "CONT'D.", "CONTINUING":
		return true
	}
	return false
}

func titleCase(name string) string {
	words := strings.Fields(strings.ToLower(name))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
