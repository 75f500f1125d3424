package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/onsetlabs/slate/internal/analysis"
	"github.com/onsetlabs/slate/internal/breakdown"
	"github.com/onsetlabs/slate/internal/config"
	"github.com/onsetlabs/slate/internal/home"
	"github.com/onsetlabs/slate/internal/output"
	"github.com/onsetlabs/slate/internal/prompts"
	"github.com/onsetlabs/slate/internal/providers"
	"github.com/onsetlabs/slate/internal/screenplay"
	"github.com/onsetlabs/slate/internal/store"
)

var (
	analyzeTitle   string
	analyzeNoCache bool
	analyzeOffline bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <script-file>",
	Short: "Analyze a screenplay for continuity",
	Long: `Analyze parses the screenplay, runs the five analysis phases, and
prints the assembled master context. Results are cached under the slate
home directory keyed by script path; rerun with --no-cache to force a
fresh analysis.

With --offline the generative service is never called and every phase
falls back to pattern-based extraction.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scriptPath := args[0]

		cm, h, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := cm.Get()
		if err := h.EnsureExists(); err != nil {
			return fmt.Errorf("preparing home directory: %w", err)
		}

		data, err := os.ReadFile(scriptPath)
		if err != nil {
			return fmt.Errorf("reading script: %w", err)
		}

		title := analyzeTitle
		if title == "" {
			base := filepath.Base(scriptPath)
			title = strings.TrimSuffix(base, filepath.Ext(base))
		}

		cache, err := store.NewFS(h.CachePath())
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		key := home.CacheKey(scriptPath, string(data))

		if !analyzeNoCache {
			var cached breakdown.MasterContext
			if err := store.GetJSON(cache, key, &cached); err == nil {
				fmt.Fprintln(os.Stderr, "using cached analysis (pass --no-cache to rerun)")
				return output.Print(&cached)
			}
		}

		scenes := screenplay.ImportScript(string(data))
		if len(scenes) == 0 {
			return fmt.Errorf("no scenes found in %s", scriptPath)
		}
		fmt.Fprintf(os.Stderr, "parsed %d scenes\n", len(scenes))

		var client providers.Client
		var retrying *providers.RetryingClient
		if analyzeOffline {
			client = &providers.MockClient{Err: errors.New("offline mode")}
		} else {
			var limiter *providers.RateLimiter
			retrying, limiter, err = newServiceClient(cfg)
			if err != nil {
				return err
			}
			client = retrying

			// Edits to the config file mid-run retune the request pacing.
			cm.OnChange(func(next *config.Config) {
				slog.Info("configuration reloaded", "rate_limit", next.Provider.RateLimit)
				limiter.SetRate(next.Provider.RateLimit)
			})
			cm.WatchConfig()
		}

		delay := time.Duration(cfg.Analysis.InterCallDelayMS) * time.Millisecond
		if cfg.Analysis.InterCallDelayMS <= 0 {
			delay = -1
		}

		orch := analysis.New(client, analysis.Options{
			ChunkSize:      cfg.Analysis.ChunkSize,
			InterCallDelay: delay,
			RepairAttempts: cfg.Analysis.RepairAttempts,
			Resolver:       prompts.NewResolver(h.PromptsPath(), slog.Default()),
			Logger:         slog.Default(),
			Progress: func(phase string, step, total int, message string) {
				fmt.Fprintf(os.Stderr, "[%s] %d/%d %s\n", phase, step, total, message)
			},
		})

		res, err := orch.Analyze(cmd.Context(), scenes)
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}
		if len(res.FallbackPhases) > 0 {
			fmt.Fprintf(os.Stderr, "pattern fallback used for: %s\n", strings.Join(res.FallbackPhases, ", "))
		}

		master := breakdown.NewBuilder(nil).Build(title, res)

		if err := store.SetJSON(cache, key, master); err != nil {
			slog.Warn("failed to cache analysis", "error", err)
		}

		if retrying != nil {
			snap := retrying.Usage().Snapshot()
			fmt.Fprintf(os.Stderr, "service usage: %d calls, %d/%d tokens in/out, %d errors, %d rate limits, %s total\n",
				snap.Calls, snap.InputTokens, snap.OutputTokens, snap.Errors, snap.RateLimits, snap.TotalTime.Round(time.Millisecond))
		}

		return output.Print(master)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeTitle, "title", "", "production title (default: script filename)")
	analyzeCmd.Flags().BoolVar(&analyzeNoCache, "no-cache", false, "ignore cached results and rerun the analysis")
	analyzeCmd.Flags().BoolVar(&analyzeOffline, "offline", false, "skip the generative service and use pattern extraction only")

	rootCmd.AddCommand(analyzeCmd)
}
