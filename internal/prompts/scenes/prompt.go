// Package scenes holds the prompt and schema for the scene analysis
// phase, which produces per-scene synopses and character presence.
package scenes

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

// SystemPrompt returns the system prompt for scene analysis.
func SystemPrompt() string {
	return systemPrompt
}

// UserPrompt builds the user prompt for one chunk of scenes.
func UserPrompt(chunkText string, firstIndex, lastIndex int) string {
	var buf bytes.Buffer
	data := struct {
		ChunkText  string
		FirstIndex int
		LastIndex  int
	}{ChunkText: chunkText, FirstIndex: firstIndex, LastIndex: lastIndex}
	if err := userTemplate.Execute(&buf, data); err != nil {
		// Fallback to raw template on error
		return userPromptTmpl
	}
	return buf.String()
}

// Prompt keys
const (
	SystemPromptKey = "phases.scenes.system"
	UserPromptKey   = "phases.scenes.user"
)

// RegisterPrompts registers the scene analysis prompts with the resolver.
func RegisterPrompts(r *prompts.Resolver) {
	r.Register(prompts.EmbeddedPrompt{
		Key:         SystemPromptKey,
		Text:        systemPrompt,
		Description: "Scene analysis system prompt - synopses and character presence",
	})
	r.Register(prompts.EmbeddedPrompt{
		Key:         UserPromptKey,
		Text:        userPromptTmpl,
		Description: "Scene analysis user prompt template",
	})
}
