// Package continuity holds the prompt and schema for the continuity
// event phase, which finds injuries, wardrobe damage, and other
// appearance changes that must track across scenes.
package continuity

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"

	"github.com/onsetlabs/slate/internal/prompts"
)

//go:embed system.tmpl
var systemPrompt string

//go:embed user.tmpl
var userPromptTmpl string

var userTemplate = template.Must(template.New("user").Parse(userPromptTmpl))

// SystemPrompt returns the system prompt for continuity event extraction.
func SystemPrompt() string {
	return systemPrompt
}

// UserPrompt builds the user prompt. characterNames primes the model with
// the cast found by the character phase; it may be empty.
func UserPrompt(scriptText string, sceneCount int, characterNames []string) string {
	var buf bytes.Buffer
	lastIndex := sceneCount - 1
	if lastIndex < 0 {
		lastIndex = 0
	}
	list := strings.Join(characterNames, ", ")
	if list == "" {
		list = "(unknown)"
	}
	data := struct {
		ScriptText    string
		SceneCount    int
		LastIndex     int
		CharacterList string
	}{ScriptText: scriptText, SceneCount: sceneCount, LastIndex: lastIndex, CharacterList: list}
	if err := userTemplate.Execute(&buf, data); err != nil {
		return userPromptTmpl
	}
	return buf.String()
}

// Prompt keys
const (
	SystemPromptKey = "phases.continuity.system"
	UserPromptKey   = "phases.continuity.user"
)

// RegisterPrompts registers the continuity prompts with the resolver.
func RegisterPrompts(r *prompts.Resolver) {
	r.Register(prompts.EmbeddedPrompt{
		Key:         SystemPromptKey,
		Text:        systemPrompt,
		Description: "Continuity event system prompt - injuries, wardrobe, weather effects",
	})
	r.Register(prompts.EmbeddedPrompt{
		Key:         UserPromptKey,
		Text:        userPromptTmpl,
		Description: "Continuity event user prompt template",
	})
}
