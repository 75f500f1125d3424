package screenplay

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Heading is the parsed form of a scene heading line.
type Heading struct {
	Number    string
	Setting   Setting
	Location  string
	TimeOfDay string

	// StoryDay is an explicit day marker embedded in the heading ("DAY 3",
	// "D3", "STORY DAY 2"), already stripped from Location. Zero if absent.
	StoryDay int

	IsOmitted bool
	Raw       string
}

// Time-of-day vocabulary. Longest tokens first so the alternation prefers
// "MOMENTS LATER" over "LATER".
const timeOfDayAlt = `MOMENTS LATER|CONTINUOUS|AFTERNOON|MORNING|EVENING|NIGHT|DAWN|DUSK|LATER|SAME|DAY`

const settingAlt = `INT\.?/EXT\.?|EXT\.?/INT\.?|I/E\.?|INT\.?|EXT\.?`

// headingCore matches SETTING LOCATION - TIME [trailing]. Location is lazy
// so the first dash-separated time-of-day token wins and anything after it
// (a suffixed scene number or a day marker) lands in the trailing group.
const headingCore = `(` + settingAlt + `)\s+(.+?)\s*[-–—]+\s*(` + timeOfDayAlt + `)\b\s*(.*?)\s*$`

var (
	reOmitted        = regexp.MustCompile(`^\s*(?:(\d+[A-Z]{0,2})\s+)?OMITTED(?:\s+\d+[A-Z]{0,2})?\s*$`)
	reHeadingNumber  = regexp.MustCompile(`^\s*(\d+[A-Z]{0,2})\s+` + headingCore)
	reHeadingPlain   = regexp.MustCompile(`^\s*` + headingCore)
	reTrailingNumber = regexp.MustCompile(`^[-–—]+\s*(\d+[A-Z]{0,2})$`)

	reDayMarkerNum  = regexp.MustCompile(`\(?\s*(?:STORY\s+)?DAY\s+(\d+)\s*\)?`)
	reDayMarkerD    = regexp.MustCompile(`\bD\s?(\d+)\b`)
	reDayMarkerWord = regexp.MustCompile(`\bDAY\s+(ONE|TWO|THREE|FOUR|FIVE|SIX|SEVEN|EIGHT|NINE|TEN)\b`)
)

var wordedDays = map[string]int{
	"ONE": 1, "TWO": 2, "THREE": 3, "FOUR": 4, "FIVE": 5,
	"SIX": 6, "SEVEN": 7, "EIGHT": 8, "NINE": 9, "TEN": 10,
}

// ParseHeading parses a single line as a scene heading. It returns nil if
// the line is not a heading. The function is pure: no network, no state.
//
// Three heading shapes are tried in order: scene number prefixed
// ("12A INT. LOCATION - DAY"), scene number suffixed
// ("INT. LOCATION - DAY - 12A"), and bare ("INT. LOCATION - DAY").
// An OMITTED line short-circuits all of them.
func ParseHeading(line string) *Heading {
	raw := strings.TrimSpace(line)
	if raw == "" {
		return nil
	}

	if m := reOmitted.FindStringSubmatch(raw); m != nil {
		return &Heading{Number: m[1], IsOmitted: true, Raw: raw}
	}

	h := &Heading{Raw: raw}
	var m []string
	if m = reHeadingNumber.FindStringSubmatch(raw); m != nil {
		h.Number = m[1]
		m = m[1:]
	} else if m = reHeadingPlain.FindStringSubmatch(raw); m == nil {
		return nil
	}

	h.Setting = normalizeSetting(m[1])
	h.TimeOfDay = m[3]
	location, trailing := m[2], m[4]

	// A dash-prefixed trailing token is a suffixed scene number; a bare
	// number after the DAY token is a story-day marker ("... - DAY 3").
	if tm := reTrailingNumber.FindStringSubmatch(trailing); tm != nil {
		if h.Number == "" {
			h.Number = tm[1]
		}
		trailing = ""
	} else if h.TimeOfDay == "DAY" && trailing != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(trailing)); err == nil {
			h.StoryDay = n
			trailing = ""
		} else if n, ok := wordedDays[strings.TrimSpace(trailing)]; ok {
			h.StoryDay = n
			trailing = ""
		}
	}

	if day, cleaned := extractDayMarker(location); day > 0 {
		h.StoryDay = day
		location = cleaned
	}
	if trailing != "" {
		if day, _ := extractDayMarker(trailing); day > 0 && h.StoryDay == 0 {
			h.StoryDay = day
		}
	}

	h.Location = cleanLocation(location)
	if h.Location == "" {
		return nil
	}
	return h
}

// Format renders the heading back into its canonical prefixed shape.
// Re-parsing the result yields the same setting, location and time of day.
func (h *Heading) Format() string {
	if h.IsOmitted {
		if h.Number != "" {
			return h.Number + " OMITTED"
		}
		return "OMITTED"
	}
	var b strings.Builder
	if h.Number != "" {
		b.WriteString(h.Number)
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%s. %s - %s", settingToken(h.Setting), h.Location, h.TimeOfDay)
	return b.String()
}

// extractDayMarker finds an embedded story-day marker in a heading segment
// and returns the day plus the segment with the marker removed.
func extractDayMarker(segment string) (int, string) {
	for _, re := range []*regexp.Regexp{reDayMarkerNum, reDayMarkerWord, reDayMarkerD} {
		m := re.FindStringSubmatchIndex(segment)
		if m == nil {
			continue
		}
		token := segment[m[2]:m[3]]
		day := wordedDays[token]
		if day == 0 {
			day, _ = strconv.Atoi(token)
		}
		if day == 0 {
			continue
		}
		return day, segment[:m[0]] + segment[m[1]:]
	}
	return 0, segment
}

func cleanLocation(loc string) string {
	loc = strings.Trim(loc, " \t-–—()")
	return strings.Join(strings.Fields(loc), " ")
}

func normalizeSetting(tok string) Setting {
	tok = strings.ToUpper(strings.ReplaceAll(tok, ".", ""))
	switch {
	case strings.Contains(tok, "/"):
		return SettingIntExt
	case strings.HasPrefix(tok, "INT"):
		return SettingInterior
	default:
		return SettingExterior
	}
}

func settingToken(s Setting) string {
	if s == SettingIntExt {
		return "INT./EXT"
	}
	return string(s)
}
