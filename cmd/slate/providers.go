package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/onsetlabs/slate/internal/providers"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Generative service provider utilities",
}

var providersTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connectivity to the configured provider",
	Long: `Test verifies the API key and endpoint by listing models, then issues
a single small completion. Errors are surfaced raw so misconfiguration
is visible.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cm, _, err := loadConfig()
		if err != nil {
			return err
		}

		client, err := newOpenAIClient(cm.Get())
		if err != nil {
			return err
		}

		start := time.Now()
		if err := client.HealthCheck(cmd.Context()); err != nil {
			return fmt.Errorf("provider %s unreachable: %w", client.Name(), err)
		}
		fmt.Printf("models endpoint ok (%s)\n", time.Since(start).Round(time.Millisecond))

		start = time.Now()
		res, err := client.Complete(cmd.Context(), &providers.CompletionRequest{
			User:      "Reply with the single word ok.",
			MaxTokens: 8,
		})
		if err != nil {
			return fmt.Errorf("completion failed: %w", err)
		}

		fmt.Printf("completion ok (%s, model %s, %d/%d tokens): %q\n",
			time.Since(start).Round(time.Millisecond), res.Model,
			res.InputTokens, res.OutputTokens, res.Text)
		return nil
	},
}

func init() {
	providersCmd.AddCommand(providersTestCmd)
	rootCmd.AddCommand(providersCmd)
}
