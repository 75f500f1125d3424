package extract

import (
	"strings"
	"testing"
)

func TestFindKeywordMatches_CategoriesAndScenes(t *testing.T) {
	script := "INT. BARN - DAY\n\n" +
		"Wade dabs at a cut above his eye, blood on his knuckles.\n\n" +
		"EXT. FIELD - NIGHT\n\n" +
		"Maya is soaked to the bone, hair plastered to her face.\n"

	got := FindKeywordMatches(script)
	if len(got) == 0 {
		t.Fatal("FindKeywordMatches() = none, want matches")
	}

	find := func(keyword string) *KeywordMatch {
		for i := range got {
			if got[i].Keyword == keyword {
				return &got[i]
			}
		}
		return nil
	}

	cut := find("cut")
	if cut == nil {
		t.Fatal("keyword \"cut\" not matched")
	}
	if cut.Category != "wounds" {
		t.Errorf("cut category = %q, want wounds", cut.Category)
	}
	if cut.SceneIndex != 0 {
		t.Errorf("cut scene = %d, want 0", cut.SceneIndex)
	}
	if !strings.Contains(cut.Context, "above his eye") {
		t.Errorf("cut context = %q, want surrounding text", cut.Context)
	}

	soaked := find("soaked")
	if soaked == nil {
		t.Fatal("keyword \"soaked\" not matched")
	}
	if soaked.SceneIndex != 1 {
		t.Errorf("soaked scene = %d, want 1", soaked.SceneIndex)
	}

	hair := find("hair")
	if hair == nil {
		t.Fatal("keyword \"hair\" not matched")
	}
	if hair.Category != "hair" {
		t.Errorf("hair category = %q, want hair", hair.Category)
	}
}

func TestFindKeywordMatches_SameOffsetCollapsed(t *testing.T) {
	// "disheveled" appears in both the hair and states categories; a single
	// occurrence must be reported once.
	script := "INT. OFFICE - DAY\n\nHe looks disheveled.\n"
	got := FindKeywordMatches(script)

	count := 0
	for _, m := range got {
		if m.Keyword == "disheveled" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("disheveled matched %d times, want 1", count)
	}
}

func TestFindKeywordMatches_SortedByPosition(t *testing.T) {
	script := "INT. A - DAY\n\nA scar. Then rain. Then a bruise.\n"
	got := FindKeywordMatches(script)
	for i := 1; i < len(got); i++ {
		if got[i].Position < got[i-1].Position {
			t.Fatalf("matches not sorted by position: %v", got)
		}
	}
}
