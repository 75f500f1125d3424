package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/onsetlabs/slate/internal/output"
	"github.com/onsetlabs/slate/internal/prompts"
	pappearance "github.com/onsetlabs/slate/internal/prompts/appearance"
	pcharacters "github.com/onsetlabs/slate/internal/prompts/characters"
	pcontinuity "github.com/onsetlabs/slate/internal/prompts/continuity"
	pscenes "github.com/onsetlabs/slate/internal/prompts/scenes"
	ptimeline "github.com/onsetlabs/slate/internal/prompts/timeline"
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Inspect and override analysis prompts",
}

// newResolver builds a resolver with every phase prompt registered.
func newResolver(overrideDir string) *prompts.Resolver {
	r := prompts.NewResolver(overrideDir, slog.Default())
	pscenes.RegisterPrompts(r)
	pcharacters.RegisterPrompts(r)
	pcontinuity.RegisterPrompts(r)
	ptimeline.RegisterPrompts(r)
	pappearance.RegisterPrompts(r)
	return r
}

type promptInfo struct {
	Key         string   `json:"key" yaml:"key"`
	Description string   `json:"description" yaml:"description"`
	Variables   []string `json:"variables,omitempty" yaml:"variables,omitempty"`
	Override    bool     `json:"override" yaml:"override"`
}

var promptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List prompt keys, variables, and active overrides",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, h, err := loadConfig()
		if err != nil {
			return err
		}

		r := newResolver(h.PromptsPath())

		var infos []promptInfo
		for _, p := range r.AllEmbedded() {
			resolved, err := r.Resolve(p.Key)
			if err != nil {
				return err
			}
			infos = append(infos, promptInfo{
				Key:         p.Key,
				Description: p.Description,
				Variables:   p.Variables,
				Override:    resolved.IsOverride,
			})
		}

		return output.Print(infos)
	},
}

var promptsShowCmd = &cobra.Command{
	Use:   "show <key>",
	Short: "Print the resolved text of a prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, h, err := loadConfig()
		if err != nil {
			return err
		}

		resolved, err := newResolver(h.PromptsPath()).Resolve(args[0])
		if err != nil {
			return err
		}
		if resolved.IsOverride {
			fmt.Fprintf(os.Stderr, "override active: %s\n", filepath.Join(h.PromptsPath(), args[0]+".tmpl"))
		}
		fmt.Print(resolved.Text)
		return nil
	},
}

var promptsExportCmd = &cobra.Command{
	Use:   "export <key>",
	Short: "Write the embedded prompt to the override directory for editing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, h, err := loadConfig()
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		r := newResolver(h.PromptsPath())
		embedded, ok := r.GetEmbedded(args[0])
		if !ok {
			return fmt.Errorf("unknown prompt key: %s", args[0])
		}

		path := filepath.Join(h.PromptsPath(), embedded.Key+".tmpl")
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("override already exists: %s", path)
		}
		if err := os.WriteFile(path, []byte(embedded.Text), 0o644); err != nil {
			return fmt.Errorf("writing override: %w", err)
		}

		fmt.Printf("wrote %s\n", path)
		return nil
	},
}

func init() {
	promptsCmd.AddCommand(promptsListCmd)
	promptsCmd.AddCommand(promptsShowCmd)
	promptsCmd.AddCommand(promptsExportCmd)
	rootCmd.AddCommand(promptsCmd)
}
