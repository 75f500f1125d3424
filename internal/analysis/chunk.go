package analysis

import (
	"fmt"
	"strings"

	"github.com/onsetlabs/slate/internal/screenplay"
)

// defaultChunkSize bounds the screenplay text sent in one service call.
// Chunks split only on scene boundaries, so a chunk may exceed this when
// a single scene does.
const defaultChunkSize = 24000

// Chunk is a contiguous run of scenes rendered for one service call.
type Chunk struct {
	Text       string
	FirstIndex int
	LastIndex  int
}

// markScene renders one scene with the marker line the prompts describe.
func markScene(s screenplay.Scene) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== SCENE %d: %s ===\n", s.Index, s.RawText)
	body := strings.TrimRight(s.Body, "\n")
	if body != "" {
		b.WriteString(body)
		b.WriteString("\n")
	}
	return b.String()
}

// MarkedScript renders all scenes with marker lines.
func MarkedScript(scenes []screenplay.Scene) string {
	var b strings.Builder
	for _, s := range scenes {
		b.WriteString(markScene(s))
		b.WriteString("\n")
	}
	return b.String()
}

// PlainScript renders scenes as heading plus body, the shape the pattern
// extractors scan.
func PlainScript(scenes []screenplay.Scene) string {
	var b strings.Builder
	for _, s := range scenes {
		b.WriteString(s.RawText)
		b.WriteString("\n")
		body := strings.TrimRight(s.Body, "\n")
		if body != "" {
			b.WriteString(body)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// ChunkScenes splits scenes into chunks of roughly maxChars of rendered
// text, never splitting a scene across chunks.
func ChunkScenes(scenes []screenplay.Scene, maxChars int) []Chunk {
	if maxChars <= 0 {
		maxChars = defaultChunkSize
	}
	var chunks []Chunk
	var b strings.Builder
	first := -1

	flush := func(last int) {
		if first < 0 {
			return
		}
		chunks = append(chunks, Chunk{
			Text:       b.String(),
			FirstIndex: first,
			LastIndex:  last,
		})
		b.Reset()
		first = -1
	}

	for i, s := range scenes {
		rendered := markScene(s)
		if first >= 0 && b.Len()+len(rendered) > maxChars {
			flush(scenes[i-1].Index)
		}
		if first < 0 {
			first = s.Index
		}
		b.WriteString(rendered)
		b.WriteString("\n")
	}
	if len(scenes) > 0 {
		flush(scenes[len(scenes)-1].Index)
	}
	return chunks
}
