// Package characters holds the prompt and schema for the character
// identification phase.
package characters

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

// SystemPrompt returns the system prompt for character identification.
func SystemPrompt() string {
	return systemPrompt
}

// UserPrompt builds the user prompt for character identification.
// seedNames are the pattern-extracted candidates the service must not drop.
func UserPrompt(scriptText string, sceneCount int, seedNames []string) string {
	var buf bytes.Buffer
	lastIndex := sceneCount - 1
	if lastIndex < 0 {
		lastIndex = 0
	}
	data := struct {
		ScriptText string
		SceneCount int
		LastIndex  int
		SeedNames  []string
	}{ScriptText: scriptText, SceneCount: sceneCount, LastIndex: lastIndex, SeedNames: seedNames}
	if err := userTemplate.Execute(&buf, data); err != nil {
		return userPromptTmpl
	}
	return buf.String()
}

// Prompt keys
const (
	SystemPromptKey = "phases.characters.system"
	UserPromptKey   = "phases.characters.user"
)

// RegisterPrompts registers the character prompts with the resolver.
func RegisterPrompts(r *prompts.Resolver) {
	r.Register(prompts.EmbeddedPrompt{
		Key:         SystemPromptKey,
		Text:        systemPrompt,
		Description: "Character identification system prompt - names, categories, scene presence",
	})
	r.Register(prompts.EmbeddedPrompt{
		Key:         UserPromptKey,
		Text:        userPromptTmpl,
		Description: "Character identification user prompt template",
	})
}
