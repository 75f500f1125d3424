// Package storyday assigns each scene a story day: a sequential counter of
// distinct continuity look-phases, not a calendar date. "THREE WEEKS LATER"
// advances the counter by one and keeps the jump as a note; it never adds
// 21. Downstream consumers want a small, bounded number of discrete phases.
package storyday

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/onsetlabs/slate/internal/screenplay"
)

// bodyWindow is how much of a scene's body text participates in cue
// detection, alongside the heading itself.
const bodyWindow = 400

var (
	// Rule 1: explicit on-screen markers.
	reOnScreenDay = regexp.MustCompile(`(?im)^\s*(?:TITLE|SUPER|CHYRON|CARD)\s*:.*?\bDAY\s+(\d+)\b`)

	// Rule 3: continuation cues.
	reContinuous = regexp.MustCompile(`(?i)\b(?:CONTINUOUS|SAME TIME|SAME MOMENT|INTERCUT)\b`)

	// Rule 4: flashback / non-linear cues.
	reFlashback = regexp.MustCompile(`(?i)\b(FLASHBACK|FLASH BACK|DREAM SEQUENCE|NIGHTMARE|(?:\d+|\w+) YEARS? (?:EARLIER|AGO|BEFORE))\b`)

	// Rule 5: numeric or worded time jumps.
	reTimeJump = regexp.MustCompile(`(?i)\b((?:\d+|ONE|TWO|THREE|FOUR|FIVE|SIX|SEVEN|EIGHT|NINE|TEN|A|AN|SEVERAL|A FEW) (?:HOUR|DAY|WEEK|MONTH|YEAR)S? LATER)\b`)

	// Rule 6: next-day cues.
	reNextDay = regexp.MustCompile(`(?i)\b(THE NEXT (?:DAY|MORNING)|NEXT MORNING|THE FOLLOWING (?:DAY|MORNING)|DAWN BREAKS)\b`)

	// Rule 7: same-day-later cues.
	reSameDayLater = regexp.MustCompile(`(?i)\b(LATER THAT (?:MORNING|AFTERNOON|EVENING|NIGHT|DAY)|MOMENTS LATER|THAT (?:AFTERNOON|EVENING|NIGHT))\b`)

	reTimeOfDayWord = regexp.MustCompile(`(?i)\b(MORNING|AFTERNOON|EVENING|NIGHT|DAWN|DUSK|DAY)\b`)
)

// Sequence walks the ordered scene list once, left to right, and fills in
// StoryDay, StoryDayNote, StoryDayConfidence and (when inferable) TimeOfDay.
// Rules run in strict priority order; the first match wins. The sequencer
// never looks ahead and never revises an earlier scene.
func Sequence(scenes []screenplay.Scene) {
	prevDay := 0
	prevTime := ""

	for i := range scenes {
		s := &scenes[i]
		text := cueText(s)

		day, note, tod, conf := resolve(s, text, i, prevDay, prevTime)

		// The counter never moves backwards: a literal marker below the
		// running day keeps the current phase and downgrades confidence.
		if day < prevDay {
			note = "marker Day " + strconv.Itoa(day) + " behind current phase"
			day = prevDay
			conf = screenplay.ConfidenceMedium
		}

		s.StoryDay = day
		s.StoryDayNote = note
		s.StoryDayConfidence = conf

		switch {
		case tod != "":
			s.TimeOfDay = tod
		case isPlaceholderTime(s.TimeOfDay):
			// LATER / SAME / CONTINUOUS are not times of day; carry the
			// previous scene's forward.
			s.TimeOfDay = prevTime
		case s.TimeOfDay == "":
			s.TimeOfDay = inferTimeOfDay(s.RawText)
		}

		prevDay = s.StoryDay
		prevTime = s.TimeOfDay
	}
}

func resolve(s *screenplay.Scene, text string, idx, prevDay int, prevTime string) (day int, note, tod string, conf screenplay.Confidence) {
	// 1. On-screen markers set the counter to the literal day.
	if m := reOnScreenDay.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n, "", "", screenplay.ConfidenceHigh
	}

	// 2. Heading-embedded markers (already parsed off the heading).
	if s.HeadingDay > 0 {
		return s.HeadingDay, "", "", screenplay.ConfidenceHigh
	}

	// 3. Continuous cues inherit the previous scene verbatim.
	if reContinuous.MatchString(text) {
		day = prevDay
		if day == 0 {
			day = 1
		}
		return day, "", prevTime, screenplay.ConfidenceHigh
	}

	// 4. Flashbacks and other non-linear cues open a new look-phase.
	if m := reFlashback.FindStringSubmatch(text); m != nil {
		return prevDay + 1, cleanNote(m[1]), "", screenplay.ConfidenceHigh
	}

	// 5. Time jumps advance the phase counter by exactly one.
	if m := reTimeJump.FindStringSubmatch(text); m != nil {
		return prevDay + 1, cleanNote(m[1]), "", screenplay.ConfidenceHigh
	}

	// 6. Next-day cues.
	if reNextDay.MatchString(text) {
		return prevDay + 1, "", "MORNING", screenplay.ConfidenceHigh
	}

	// 7. Same day, later.
	if m := reSameDayLater.FindStringSubmatch(text); m != nil {
		day = prevDay
		if day == 0 {
			day = 1
		}
		return day, "", timeFromCue(m[1]), screenplay.ConfidenceMedium
	}

	// 8. No cue: the opening scene is Day 1, everything else inherits.
	if idx == 0 {
		return 1, "", "", screenplay.ConfidenceDefault
	}
	return prevDay, "", "", screenplay.ConfidenceAssumed
}

// cueText is the search surface for body cues: the heading plus the first
// bodyWindow characters of the scene body.
func cueText(s *screenplay.Scene) string {
	body := s.Body
	if len(body) > bodyWindow {
		body = body[:bodyWindow]
	}
	return s.RawText + "\n" + body
}

func cleanNote(cue string) string {
	return strings.ToLower(strings.Join(strings.Fields(cue), " "))
}

// timeFromCue infers a time of day from a same-day-later cue.
func timeFromCue(cue string) string {
	if m := reTimeOfDayWord.FindString(cue); m != "" {
		return strings.ToUpper(m)
	}
	return ""
}

// inferTimeOfDay falls back to heading vocabulary when no rule set one.
func inferTimeOfDay(heading string) string {
	upper := strings.ToUpper(heading)
	for _, w := range []string{"NIGHT", "DAWN", "DUSK", "MORNING", "AFTERNOON", "EVENING", "DAY"} {
		if strings.Contains(upper, w) {
			return w
		}
	}
	return ""
}

func isPlaceholderTime(tod string) bool {
	switch strings.ToUpper(tod) {
	case "CONTINUOUS", "LATER", "SAME", "MOMENTS LATER":
		return true
	}
	return false
}
