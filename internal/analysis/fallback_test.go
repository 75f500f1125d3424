package analysis

import (
	"testing"

	"github.com/onsetlabs/slate/internal/extract"
)

func TestFallbackAppearancesAttributesKeywords(t *testing.T) {
	characters := []extract.Candidate{
		{
			CanonicalName:    "Marcus",
			IntroDescription: "50s, weathered",
		},
		{
			CanonicalName:  "Sarah",
			NameVariations: []string{"MRS. JENNINGS"},
		},
		{CanonicalName: "Elena"},
	}
	keywords := []extract.KeywordMatch{
		{Category: "injury", Keyword: "gash", Context: "MARCUS staggers in, a deep gash across his cheek"},
		{Category: "injury", Keyword: "bruise", Context: "MRS. JENNINGS hides a bruise under her collar"},
		{Category: "weather", Keyword: "rain", Context: "rain hammers the empty street"},
	}

	apps := fallbackAppearances(characters, keywords)
	if len(apps) != 3 {
		t.Fatalf("fallbackAppearances() = %d records, want 3", len(apps))
	}

	marcus := apps[0]
	if len(marcus.Descriptions) != 2 || marcus.Descriptions[0] != "50s, weathered" {
		t.Fatalf("Marcus descriptions = %v, want intro plus gash context", marcus.Descriptions)
	}
	if marcus.Descriptions[1] != "MARCUS staggers in, a deep gash across his cheek" {
		t.Errorf("Marcus descriptions[1] = %q", marcus.Descriptions[1])
	}

	// The bruise context names a variation, not the canonical name.
	sarah := apps[1]
	if len(sarah.Descriptions) != 1 || sarah.Descriptions[0] != "MRS. JENNINGS hides a bruise under her collar" {
		t.Errorf("Sarah descriptions = %v, want the bruise context via variation", sarah.Descriptions)
	}

	// Context naming nobody stays unattributed.
	if len(apps[2].Descriptions) != 0 {
		t.Errorf("Elena descriptions = %v, want none", apps[2].Descriptions)
	}
}

func TestFallbackAppearancesDedupesContexts(t *testing.T) {
	characters := []extract.Candidate{{CanonicalName: "Wade"}}
	keywords := []extract.KeywordMatch{
		{Category: "injury", Keyword: "scar", Context: "WADE turns, the scar and the bruise both visible"},
		{Category: "injury", Keyword: "bruise", Context: "WADE turns, the scar and the bruise both visible"},
	}

	apps := fallbackAppearances(characters, keywords)
	if len(apps[0].Descriptions) != 1 {
		t.Fatalf("descriptions = %v, want one per distinct context", apps[0].Descriptions)
	}
}
