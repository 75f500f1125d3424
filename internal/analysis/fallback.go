package analysis

import (
	"strings"

	pappearance "github.com/onsetlabs/slate/internal/prompts/appearance"

	"github.com/onsetlabs/slate/internal/extract"
	"github.com/onsetlabs/slate/internal/screenplay"
)

const maxFallbackSynopsis = 160

// fallbackSceneInfo fills synopses and character presence for scenes in
// [first, last] from the scene text alone, used when the scene phase's
// service call fails.
func fallbackSceneInfo(scenes []screenplay.Scene, first, last int) {
	for i := range scenes {
		s := &scenes[i]
		if s.Index < first || s.Index > last {
			continue
		}
		if s.IsOmitted {
			s.Synopsis = "OMITTED"
			s.CharactersPresent = nil
			continue
		}
		s.Synopsis = firstActionLine(s.Body)

		cands := extract.ExtractCharacters(s.RawText + "\n" + s.Body)
		names := make([]string, 0, len(cands))
		for _, c := range cands {
			names = append(names, c.CanonicalName)
		}
		s.CharactersPresent = names
	}
}

// firstActionLine returns the first non-empty body line, truncated at a
// word boundary.
func firstActionLine(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) <= maxFallbackSynopsis {
			return line
		}
		cut := strings.LastIndex(line[:maxFallbackSynopsis], " ")
		if cut <= 0 {
			cut = maxFallbackSynopsis
		}
		return line[:cut] + "..."
	}
	return ""
}

// fallbackAppearances builds minimal appearance records from the pattern
// extractor's introduction descriptions and keyword hits. A keyword hit
// is attributed to a character when its surrounding context names the
// character, by canonical name or any variation.
func fallbackAppearances(characters []extract.Candidate, keywords []extract.KeywordMatch) []pappearance.CharacterAppearance {
	out := make([]pappearance.CharacterAppearance, 0, len(characters))
	for _, c := range characters {
		app := pappearance.CharacterAppearance{
			Name:         c.CanonicalName,
			Descriptions: []string{},
			KeyLooks:     []string{},
		}
		if c.IntroDescription != "" {
			app.Descriptions = append(app.Descriptions, c.IntroDescription)
		}

		names := make([]string, 0, 1+len(c.NameVariations))
		names = append(names, strings.ToUpper(c.CanonicalName))
		for _, v := range c.NameVariations {
			if v = strings.TrimSpace(v); v != "" {
				names = append(names, strings.ToUpper(v))
			}
		}
		seen := make(map[string]bool, len(app.Descriptions))
		for _, d := range app.Descriptions {
			seen[d] = true
		}
		for _, km := range keywords {
			ctx := strings.TrimSpace(km.Context)
			if ctx == "" || seen[ctx] {
				continue
			}
			upper := strings.ToUpper(ctx)
			for _, n := range names {
				if strings.Contains(upper, n) {
					app.Descriptions = append(app.Descriptions, ctx)
					seen[ctx] = true
					break
				}
			}
		}
		out = append(out, app)
	}
	return out
}
