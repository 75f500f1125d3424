// Package timeline holds the prompt and schema for the story-day
// assignment phase.
package timeline

import (
	"bytes"
	_ "embed"
	"text/template"

	"github.com/onsetlabs/slate/internal/prompts"
)

//go:embed system.tmpl
var systemPrompt string

//go:embed user.tmpl
var userPromptTmpl string

var userTemplate = template.Must(template.New("user").Parse(userPromptTmpl))

// SystemPrompt returns the system prompt for story-day assignment.
func SystemPrompt() string {
	return systemPrompt
}

// UserPrompt builds the user prompt for story-day assignment.
func UserPrompt(scriptText string, sceneCount int) string {
	var buf bytes.Buffer
	lastIndex := sceneCount - 1
	if lastIndex < 0 {
		lastIndex = 0
	}
	data := struct {
		ScriptText string
		SceneCount int
		LastIndex  int
	}{ScriptText: scriptText, SceneCount: sceneCount, LastIndex: lastIndex}
	if err := userTemplate.Execute(&buf, data); err != nil {
		return userPromptTmpl
	}
	return buf.String()
}

// Prompt keys
const (
	SystemPromptKey = "phases.timeline.system"
	UserPromptKey   = "phases.timeline.user"
)

// RegisterPrompts registers the timeline prompts with the resolver.
func RegisterPrompts(r *prompts.Resolver) {
	r.Register(prompts.EmbeddedPrompt{
		Key:         SystemPromptKey,
		Text:        systemPrompt,
		Description: "Story-day assignment system prompt - day numbers with confidence",
	})
	r.Register(prompts.EmbeddedPrompt{
		Key:         UserPromptKey,
		Text:        userPromptTmpl,
		Description: "Story-day assignment user prompt template",
	})
}
