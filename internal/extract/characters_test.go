package extract

import (
	"strings"
	"testing"
)

// buildScript plants characters into a synthetic script with a known scene
// count. Each entry maps a name to the scene indices it speaks in.
func buildScript(totalScenes int, appearances map[string][]int) string {
	var b strings.Builder
	byScene := make(map[int][]string)
	for name, scenes := range appearances {
		for _, s := range scenes {
			byScene[s] = append(byScene[s], name)
		}
	}
	for i := 0; i < totalScenes; i++ {
		b.WriteString("INT. ROOM - DAY\n\n")
		b.WriteString("Something happens here.\n\n")
		for _, name := range byScene[i] {
			b.WriteString(name + "\n")
			b.WriteString("Some dialogue.\n\n")
		}
	}
	return b.String()
}

func TestExtractCharacters_CategoryThresholds(t *testing.T) {
	// 20 scenes: lead in 10 (50%), supporting in 3 (15%), day player in 1.
	script := buildScript(20, map[string][]int{
		"SARAH":  {0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		"DEPUTY": {2, 5, 9},
		"CLERK":  {4},
	})

	got := ExtractCharacters(script)
	byName := make(map[string]Candidate)
	for _, c := range got {
		byName[c.CanonicalName] = c
	}

	tests := []struct {
		name     string
		scenes   int
		category Category
	}{
		{"Sarah", 10, CategoryLead},
		{"Deputy", 3, CategorySupporting},
		{"Clerk", 1, CategoryDayPlayer},
	}
	for _, tt := range tests {
		c, ok := byName[tt.name]
		if !ok {
			t.Fatalf("character %q not extracted, got %v", tt.name, names(got))
		}
		if len(c.SceneIndices) != tt.scenes {
			t.Errorf("%s scene count = %d, want %d", tt.name, len(c.SceneIndices), tt.scenes)
		}
		if c.Category != tt.category {
			t.Errorf("%s category = %s, want %s", tt.name, c.Category, tt.category)
		}
		if !c.HasDialogue {
			t.Errorf("%s HasDialogue = false, want true", tt.name)
		}
	}
}

func TestExtractCharacters_HeadingsAreNotCharacters(t *testing.T) {
	script := strings.Repeat("INT. ROOM - DAY\n\nNothing happens.\n\n", 5)
	got := ExtractCharacters(script)
	for _, c := range got {
		if strings.EqualFold(c.CanonicalName, "int") || strings.EqualFold(c.CanonicalName, "room") {
			t.Fatalf("heading token extracted as character: %+v", c)
		}
	}
	if len(got) != 0 {
		t.Fatalf("ExtractCharacters() = %v, want none", names(got))
	}
}

func TestExtractCharacters_IntroPhrasings(t *testing.T) {
	script := "INT. DINER - DAY\n\n" +
		"We meet WADE (40s, sun-creased, a limp he hides well).\n\n" +
		"MAYA enters, shaking rain off her coat.\n"

	got := ExtractCharacters(script)
	byName := make(map[string]Candidate)
	for _, c := range got {
		byName[c.CanonicalName] = c
	}

	wade, ok := byName["Wade"]
	if !ok {
		t.Fatalf("Wade not extracted, got %v", names(got))
	}
	if wade.IntroDescription == "" || !strings.Contains(wade.IntroDescription, "40s") {
		t.Errorf("Wade intro = %q, want age description", wade.IntroDescription)
	}
	if _, ok := byName["Maya"]; !ok {
		t.Fatalf("Maya not extracted, got %v", names(got))
	}
}

func TestCleanName_StripsSuffixes(t *testing.T) {
	tests := []struct{ in, want string }{
		{"SARAH (V.O.)", "SARAH"},
		{"SARAH (CONT'D)", "SARAH"},
		{"DEPUTY V.O.", "DEPUTY"},
		{"  WADE  JENNINGS ", "WADE JENNINGS"},
		{"CLERK.", "CLERK"},
	}
	for _, tt := range tests {
		if got := CleanName(tt.in); got != tt.want {
			t.Errorf("CleanName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCategorize_Boundaries(t *testing.T) {
	tests := []struct {
		scenes, total int
		dialogue      bool
		want          Category
	}{
		{8, 20, true, CategoryLead},        // exactly 40%
		{8, 20, false, CategorySupporting}, // 40% but silent
		{2, 20, false, CategorySupporting}, // exactly 10%
		{1, 20, true, CategoryDayPlayer},
		{1, 20, false, CategoryBackground},
		{0, 20, false, CategoryBackground},
	}
	for _, tt := range tests {
		if got := Categorize(tt.scenes, tt.total, tt.dialogue); got != tt.want {
			t.Errorf("Categorize(%d, %d, %v) = %s, want %s", tt.scenes, tt.total, tt.dialogue, got, tt.want)
		}
	}
}

func names(cs []Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.CanonicalName
	}
	return out
}
