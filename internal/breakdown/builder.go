package breakdown

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/onsetlabs/slate/internal/extract"
	"github.com/onsetlabs/slate/internal/prompts/appearance"
	"github.com/onsetlabs/slate/internal/screenplay"
)

// Profile vocabulary, first match wins across a character's descriptions
// in scene order.
var (
	reAge = regexp.MustCompile(`(?i)\b(\d0s|\d{1,2}-year-old|(?:early|mid|late)[- ](?:teens|twenties|thirties|forties|fifties|sixties|seventies))\b`)

	reHair = regexp.MustCompile(`(?i)\b((?:blonde?|brunette|red|auburn|gr[ae]y|silver|dark|black|brown|white|dyed)\s+hair|bald|balding|ponytail|braids?|crew cut|buzz cut|long-haired|short-haired)\b`)

	reBuild = regexp.MustCompile(`(?i)\b(lanky|stocky|wiry|muscular|slight|heavyset|gaunt|burly|athletic|broad-shouldered|tall and thin|petite)\b`)
)

// transientEventTypes are appearance states that reset between scenes and
// never count as lasting transformations.
var transientEventTypes = map[extract.EventType]bool{
	extract.EventWeather:  true,
	extract.EventWardrobe: true,
}

// Builder assembles master contexts. The clock is injectable so builds
// are reproducible in tests.
type Builder struct {
	now func() time.Time
}

// NewBuilder creates a builder. A nil clock uses time.Now.
func NewBuilder(now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}
	return &Builder{now: now}
}

// Build assembles the master continuity context from merged phase
// results. It is pure apart from the clock: the same results always
// produce the same context.
func (b *Builder) Build(title string, res *PhaseResults) *MasterContext {
	mc := &MasterContext{
		Title:          title,
		GeneratedAt:    b.now().UTC(),
		Scenes:         res.Scenes,
		Keywords:       res.Keywords,
		DegradedPhases: append([]string(nil), res.FallbackPhases...),
	}

	mc.Events = finalizeEvents(res.Events, len(res.Scenes))
	mc.Days = bucketDays(res.Scenes)
	mc.Characters = buildCharacterRecords(res, mc.Events)

	mc.Statistics = Statistics{
		SceneCount: len(res.Scenes),
		// Distinct look-phases, not the highest marker: a "DAY 14" card
		// in a two-phase script still counts as two story days.
		StoryDays:      len(mc.Days),
		CharacterCount: len(mc.Characters),
		EventCount:     len(mc.Events),
	}
	for _, s := range res.Scenes {
		if s.IsOmitted {
			mc.Statistics.OmittedScenes++
		}
	}

	return mc
}

// finalizeEvents fills each event's affected-scene range. Open-ended
// events run through their last progression stage, capped at the final
// scene.
func finalizeEvents(events []extract.ContinuityEvent, sceneCount int) []extract.ContinuityEvent {
	out := make([]extract.ContinuityEvent, len(events))
	copy(out, events)
	lastScene := sceneCount - 1

	for i := range out {
		e := &out[i]
		end := e.StartScene
		if e.EndScene != nil {
			end = *e.EndScene
		} else if n := len(e.Progression); n > 0 {
			end = e.StartScene + e.Progression[n-1].SceneOffset
		}
		if end > lastScene {
			end = lastScene
		}
		if end < e.StartScene {
			end = e.StartScene
		}
		e.AffectedScenes = make([]int, 0, end-e.StartScene+1)
		for s := e.StartScene; s <= end; s++ {
			e.AffectedScenes = append(e.AffectedScenes, s)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartScene != out[j].StartScene {
			return out[i].StartScene < out[j].StartScene
		}
		return out[i].Character < out[j].Character
	})
	return out
}

// bucketDays groups scene indices by story day. Scenes without a day
// (zero) land in no bucket; omitted scenes keep their inherited day.
func bucketDays(scenes []screenplay.Scene) []DayBucket {
	byDay := make(map[int][]int)
	for _, s := range scenes {
		if s.StoryDay <= 0 {
			continue
		}
		byDay[s.StoryDay] = append(byDay[s.StoryDay], s.Index)
	}

	days := make([]int, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Ints(days)

	out := make([]DayBucket, 0, len(days))
	for _, d := range days {
		indices := byDay[d]
		sort.Ints(indices)
		out = append(out, DayBucket{
			Day:    d,
			Label:  fmt.Sprintf("Day %d", d),
			Scenes: indices,
		})
	}
	return out
}

func buildCharacterRecords(res *PhaseResults, events []extract.ContinuityEvent) []CharacterRecord {
	appByKey := make(map[string]appearance.CharacterAppearance, len(res.Appearances))
	for _, app := range res.Appearances {
		appByKey[nameKey(app.Name)] = app
	}

	records := make([]CharacterRecord, 0, len(res.Characters))
	for _, c := range res.Characters {
		names := characterNames(c)
		evts := characterEvents(events, names)

		rec := CharacterRecord{
			Name:          c.CanonicalName,
			Category:      c.Category,
			SceneSynopses: sceneSynopses(res.Scenes, names),
			Presence: StoryPresence{
				FirstScene: c.FirstAppearance,
				LastScene:  c.LastAppearance,
				SceneCount: len(c.SceneIndices),
				StoryDays:  presenceDays(c.SceneIndices, res.Scenes),
			},
		}

		var descriptions []string
		if c.IntroDescription != "" {
			descriptions = append(descriptions, c.IntroDescription)
			rec.Descriptions = append(rec.Descriptions, Description{
				SceneIndex: c.FirstAppearance,
				Text:       c.IntroDescription,
			})
		}
		if app, ok := findAppearance(appByKey, names); ok {
			for _, d := range app.Descriptions {
				if d == c.IntroDescription {
					continue
				}
				descriptions = append(descriptions, d)
				rec.Descriptions = append(rec.Descriptions, Description{
					SceneIndex: c.FirstAppearance,
					Text:       d,
				})
			}
			rec.Profile = buildProfile(app, descriptions, evts)
		} else {
			rec.Profile = buildProfile(appearance.CharacterAppearance{}, descriptions, evts)
		}

		for _, e := range evts {
			rec.ContinuityNotes = append(rec.ContinuityNotes, eventNote(e))
		}

		records = append(records, rec)
	}
	return records
}

// characterNames lists a character's canonical name followed by its
// variations, empty entries dropped.
func characterNames(c extract.Candidate) []string {
	names := make([]string, 0, 1+len(c.NameVariations))
	names = append(names, c.CanonicalName)
	for _, v := range c.NameVariations {
		if strings.TrimSpace(v) != "" {
			names = append(names, v)
		}
	}
	return names
}

// findAppearance looks the character up by canonical name first, then by
// each variation.
func findAppearance(appByKey map[string]appearance.CharacterAppearance, names []string) (appearance.CharacterAppearance, bool) {
	for _, n := range names {
		if app, ok := appByKey[nameKey(n)]; ok {
			return app, true
		}
	}
	return appearance.CharacterAppearance{}, false
}

// sceneSynopses returns the synopses of scenes that mention the character
// by any of its names, either in the presence list or in the text.
func sceneSynopses(scenes []screenplay.Scene, names []string) []Description {
	var out []Description
	for _, s := range scenes {
		if s.Synopsis == "" || s.IsOmitted {
			continue
		}
		if sceneMentions(s, names) {
			out = append(out, Description{SceneIndex: s.Index, Text: s.Synopsis})
		}
	}
	return out
}

func sceneMentions(s screenplay.Scene, names []string) bool {
	for _, present := range s.CharactersPresent {
		pk := nameKey(present)
		for _, n := range names {
			if pk == nameKey(n) {
				return true
			}
		}
	}
	upper := strings.ToUpper(s.Synopsis)
	for _, n := range names {
		if strings.Contains(upper, strings.ToUpper(n)) {
			return true
		}
	}
	return false
}

// buildProfile fills the hair-and-makeup profile. Explicit fields from
// the appearance phase win; otherwise the first vocabulary match across
// the descriptions is used.
func buildProfile(app appearance.CharacterAppearance, descriptions []string, events []extract.ContinuityEvent) PhysicalProfile {
	p := PhysicalProfile{}
	if app.Age != nil {
		p.Age = *app.Age
	}
	if app.Hair != nil {
		p.Hair = *app.Hair
	}
	if app.Build != nil {
		p.Build = *app.Build
	}

	for _, d := range descriptions {
		if p.Age == "" {
			if m := reAge.FindString(d); m != "" {
				p.Age = m
			}
		}
		if p.Hair == "" {
			if m := reHair.FindString(d); m != "" {
				p.Hair = m
			}
		}
		if p.Build == "" {
			if m := reBuild.FindString(d); m != "" {
				p.Build = m
			}
		}
	}

	looks := append([]string(nil), app.KeyLooks...)
	deriveLooks := len(looks) == 0
	var transforms []string
	for _, e := range events {
		desc := fmt.Sprintf("%s (scene %d)", e.Description, e.StartScene)
		if deriveLooks {
			looks = append(looks, desc)
		}
		if !transientEventTypes[e.Type] {
			transforms = append(transforms, desc)
		}
	}
	p.KeyLooks = strings.Join(looks, "; ")
	p.Transformations = strings.Join(transforms, "; ")
	return p
}

func characterEvents(events []extract.ContinuityEvent, names []string) []extract.ContinuityEvent {
	keys := make(map[string]bool, len(names))
	for _, n := range names {
		keys[nameKey(n)] = true
	}
	var out []extract.ContinuityEvent
	for _, e := range events {
		if e.Character != "" && keys[nameKey(e.Character)] {
			out = append(out, e)
		}
	}
	return out
}

func eventNote(e extract.ContinuityEvent) string {
	if e.EndScene != nil {
		return fmt.Sprintf("%s from scene %d through %d: %s", e.Type, e.StartScene, *e.EndScene, e.Description)
	}
	return fmt.Sprintf("%s from scene %d (unresolved): %s", e.Type, e.StartScene, e.Description)
}

// presenceDays collects the distinct story days of the scenes a
// character appears in.
func presenceDays(indices []int, scenes []screenplay.Scene) []int {
	seen := make(map[int]struct{})
	var days []int
	for _, idx := range indices {
		if idx < 0 || idx >= len(scenes) {
			continue
		}
		d := scenes[idx].StoryDay
		if d <= 0 {
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}

func nameKey(name string) string {
	return strings.ToUpper(extract.CleanName(name))
}
