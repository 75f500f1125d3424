// Package appearance holds the prompt and schema for the physical
// description phase.
package appearance

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

// SystemPrompt returns the system prompt for appearance extraction.
func SystemPrompt() string {
	return systemPrompt
}

// UserPrompt builds the user prompt for appearance extraction.
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
	SystemPromptKey = "phases.appearance.system"
	UserPromptKey   = "phases.appearance.user"
)

// RegisterPrompts registers the appearance prompts with the resolver.
func RegisterPrompts(r *prompts.Resolver) {
	r.Register(prompts.EmbeddedPrompt{
		Key:         SystemPromptKey,
		Text:        systemPrompt,
		Description: "Appearance extraction system prompt - physical descriptions and key looks",
	})
	r.Register(prompts.EmbeddedPrompt{
		Key:         UserPromptKey,
		Text:        userPromptTmpl,
		Description: "Appearance extraction user prompt template",
	})
}
