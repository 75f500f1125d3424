// Package prompts provides prompt management with embedded defaults and
// file-based overrides.
//
// Embedded .tmpl files in code are the source of truth for defaults. A
// prompt directory (usually ~/.slate/prompts) may hold override files
// named after the prompt key, e.g. phases.timeline.system.tmpl, which
// take precedence when present.
package prompts

// EmbeddedPrompt is a prompt loaded from an embedded .tmpl file.
type EmbeddedPrompt struct {
	Key         string   // Hierarchical key: phases.timeline.system
	Text        string   // The prompt text (Go template)
	Description string   // Human-readable description
	Variables   []string // Extracted template variables
	Hash        string   // SHA256 hash of the text for change detection
}

// ResolvedPrompt is the result of resolving a prompt key.
type ResolvedPrompt struct {
	Key        string   `json:"key"`
	Text       string   `json:"text"`
	Variables  []string `json:"variables,omitempty"`
	IsOverride bool     `json:"is_override"` // true if loaded from the override directory
}
