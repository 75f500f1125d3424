// Package extract finds character candidates, hair/makeup keyword hits and
// continuity-event candidates in raw script text using regex and keyword
// tables. Everything here is pure pattern matching: no network, no LLM,
// always returns a (possibly empty) result.
package extract

import (
	_ "embed"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/onsetlabs/slate/internal/screenplay"
)

//go:embed keywords.yaml
var keywordsYAML []byte

// contextRadius is how many characters of surrounding text each keyword
// match carries.
const contextRadius = 50

// KeywordMatch is one hair/makeup keyword hit with its surrounding context.
type KeywordMatch struct {
	Category   string `json:"category"`
	Keyword    string `json:"keyword"`
	Context    string `json:"context"`
	Position   int    `json:"position"`
	SceneIndex int    `json:"scene_index"`
}

type keywordMatcher struct {
	category string
	re       *regexp.Regexp
}

var keywordMatchers = mustLoadKeywordMatchers()

func mustLoadKeywordMatchers() []keywordMatcher {
	var table map[string][]string
	if err := yaml.Unmarshal(keywordsYAML, &table); err != nil {
		panic(fmt.Sprintf("extract: invalid embedded keyword table: %v", err))
	}

	categories := make([]string, 0, len(table))
	for cat := range table {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	matchers := make([]keywordMatcher, 0, len(categories))
	for _, cat := range categories {
		words := table[cat]
		escaped := make([]string, 0, len(words))
		for _, w := range words {
			escaped = append(escaped, regexp.QuoteMeta(w))
		}
		// Whole-word, case-insensitive match per category.
		re := regexp.MustCompile(`(?i)\b(` + strings.Join(escaped, "|") + `)\b`)
		matchers = append(matchers, keywordMatcher{category: cat, re: re})
	}
	return matchers
}

// FindKeywordMatches scans the full script text against the keyword table.
// Matches at the same text offset are collapsed (first category in sorted
// order wins). SceneIndex is the 0-based index of the scene whose heading
// most recently preceded the match, or -1 before the first heading.
func FindKeywordMatches(text string) []KeywordMatch {
	headings := headingOffsets(text)

	seen := make(map[int]bool)
	var matches []KeywordMatch
	for _, m := range keywordMatchers {
		for _, loc := range m.re.FindAllStringIndex(text, -1) {
			if seen[loc[0]] {
				continue
			}
			seen[loc[0]] = true
			matches = append(matches, KeywordMatch{
				Category:   m.category,
				Keyword:    strings.ToLower(text[loc[0]:loc[1]]),
				Context:    surrounding(text, loc[0], loc[1]),
				Position:   loc[0],
				SceneIndex: sceneAt(headings, loc[0]),
			})
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Position < matches[j].Position })
	return matches
}

// headingOffsets returns the byte offset of every scene-heading line.
func headingOffsets(text string) []int {
	var offsets []int
	pos := 0
	for _, line := range strings.Split(text, "\n") {
		if screenplay.ParseHeading(line) != nil {
			offsets = append(offsets, pos)
		}
		pos += len(line) + 1
	}
	return offsets
}

// sceneAt maps a byte offset to the 0-based index of the enclosing scene.
func sceneAt(headings []int, pos int) int {
	idx := sort.SearchInts(headings, pos+1) - 1
	return idx
}

func surrounding(text string, start, end int) string {
	lo := start - contextRadius
	if lo < 0 {
		lo = 0
	}
	hi := end + contextRadius
	if hi > len(text) {
		hi = len(text)
	}
	return strings.TrimSpace(strings.Join(strings.Fields(text[lo:hi]), " "))
}
