package timeline

import (
	"strings"
	"testing"
)

func TestParseResult(t *testing.T) {
	out := "```json\n" + `{
		"assignments": [
			{"scene": 0, "day": 1, "confidence": "default"},
			{"scene": 1, "day": 1, "confidence": "high", "note": "continuous"},
			{"scene": 2, "day": 2, "confidence": "medium", "note": "the next morning"}
		]
	}` + "\n```"

	res, err := ParseResult(out)
	if err != nil {
		t.Fatalf("ParseResult() error = %v", err)
	}
	if len(res.Assignments) != 3 {
		t.Fatalf("assignments = %d, want 3", len(res.Assignments))
	}
	if res.Assignments[2].Day != 2 || res.Assignments[2].Confidence != "medium" {
		t.Errorf("assignment[2] = %+v", res.Assignments[2])
	}
	if res.Assignments[0].Note != nil {
		t.Errorf("assignment[0] note = %v, want nil", *res.Assignments[0].Note)
	}
}

func TestParseResultRejectsBadConfidence(t *testing.T) {
	_, err := ParseResult(`{"assignments": [{"scene": 0, "day": 1, "confidence": "certain"}]}`)
	if err == nil {
		t.Fatalf("ParseResult() error = nil, want schema violation")
	}
}

func TestUserPromptIncludesSceneRange(t *testing.T) {
	prompt := UserPrompt("=== SCENE 0: INT. BARN - DAY ===\nHay everywhere.", 12)
	if !strings.Contains(prompt, "12 scenes") {
		t.Errorf("UserPrompt() missing scene count: %q", prompt)
	}
	if !strings.Contains(prompt, "indexed 0 through 11") {
		t.Errorf("UserPrompt() missing index range: %q", prompt)
	}
}
