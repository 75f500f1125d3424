// Package analysis runs the five-phase continuity analysis over a parsed
// screenplay. Each phase sends prompts to a generative-text client and
// falls back to the pattern extractors when the service fails, so a run
// always produces a complete result set.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/onsetlabs/slate/internal/breakdown"
	"github.com/onsetlabs/slate/internal/extract"
	"github.com/onsetlabs/slate/internal/prompts"
	pappearance "github.com/onsetlabs/slate/internal/prompts/appearance"
	pcharacters "github.com/onsetlabs/slate/internal/prompts/characters"
	pcontinuity "github.com/onsetlabs/slate/internal/prompts/continuity"
	pscenes "github.com/onsetlabs/slate/internal/prompts/scenes"
	ptimeline "github.com/onsetlabs/slate/internal/prompts/timeline"
	"github.com/onsetlabs/slate/internal/providers"
	"github.com/onsetlabs/slate/internal/screenplay"
	"github.com/onsetlabs/slate/internal/storyday"

	"github.com/google/uuid"
)

// Phase names, in execution order.
const (
	PhaseScenes     = "scenes"
	PhaseCharacters = "characters"
	PhaseContinuity = "continuity"
	PhaseTimeline   = "timeline"
	PhaseAppearance = "appearance"
)

// ErrCancelled is returned from service calls after Cancel.
var ErrCancelled = errors.New("analysis cancelled")

// ProgressFunc receives phase progress for display. step counts from 1.
type ProgressFunc func(phase string, step, total int, message string)

// Options tune an analysis run. Zero values take defaults.
type Options struct {
	ChunkSize      int
	InterCallDelay time.Duration
	RepairAttempts int
	Resolver       *prompts.Resolver
	Logger         *slog.Logger
	Progress       ProgressFunc
}

// Orchestrator drives the five analysis phases sequentially. Cancel stops
// further service calls; the remaining phases complete from pattern
// fallbacks so the result is always whole.
type Orchestrator struct {
	client    providers.Client
	opts      Options
	resolver  *prompts.Resolver
	logger    *slog.Logger
	cancelled atomic.Bool
}

// New creates an orchestrator around a client.
func New(client providers.Client, opts Options) *Orchestrator {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = defaultChunkSize
	}
	if opts.InterCallDelay == 0 {
		opts.InterCallDelay = 500 * time.Millisecond
	}
	if opts.RepairAttempts < 0 {
		opts.RepairAttempts = 0
	} else if opts.RepairAttempts == 0 {
		opts.RepairAttempts = providers.MaxRepairAttempts
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	resolver := opts.Resolver
	if resolver == nil {
		resolver = prompts.NewResolver("", logger)
	}
	pscenes.RegisterPrompts(resolver)
	pcharacters.RegisterPrompts(resolver)
	pcontinuity.RegisterPrompts(resolver)
	ptimeline.RegisterPrompts(resolver)
	pappearance.RegisterPrompts(resolver)

	return &Orchestrator{
		client:   client,
		opts:     opts,
		resolver: resolver,
		logger:   logger,
	}
}

// Cancel stops further service calls. Safe from any goroutine.
func (o *Orchestrator) Cancel() {
	o.cancelled.Store(true)
}

// Analyze runs all five phases over the scenes, mutating them in place
// (story days, synopses, characters present) and returning the merged
// results. Phase failures degrade to pattern extraction; the returned
// results are always complete.
func (o *Orchestrator) Analyze(ctx context.Context, scenes []screenplay.Scene) (*breakdown.PhaseResults, error) {
	if len(scenes) == 0 {
		return nil, errors.New("no scenes to analyze")
	}

	// Pattern baseline: the timeline phase refines these in place.
	storyday.Sequence(scenes)

	plain := PlainScript(scenes)
	marked := MarkedScript(scenes)

	res := &breakdown.PhaseResults{}
	res.Keywords = extract.FindKeywordMatches(plain)

	o.runScenePhase(ctx, scenes, res)
	o.pause(ctx)

	res.Characters = o.runCharacterPhase(ctx, plain, marked, len(scenes), res)
	o.pause(ctx)

	names := make([]string, 0, len(res.Characters))
	for _, c := range res.Characters {
		names = append(names, c.CanonicalName)
	}

	res.Events = o.runContinuityPhase(ctx, plain, marked, len(scenes), names, res)
	o.pause(ctx)

	o.runTimelinePhase(ctx, scenes, marked, res)
	o.pause(ctx)

	res.Appearances = o.runAppearancePhase(ctx, marked, len(scenes), names, res)

	res.Scenes = scenes
	return res, nil
}

// guard reports whether service calls may proceed.
func (o *Orchestrator) guard(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if o.cancelled.Load() {
		return ErrCancelled
	}
	return nil
}

// pause sleeps the inter-call delay, returning early on cancellation.
func (o *Orchestrator) pause(ctx context.Context) {
	if o.opts.InterCallDelay <= 0 || o.guard(ctx) != nil {
		return
	}
	select {
	case <-time.After(o.opts.InterCallDelay):
	case <-ctx.Done():
	}
}

func (o *Orchestrator) progress(phase string, step, total int, message string) {
	if o.opts.Progress != nil {
		o.opts.Progress(phase, step, total, message)
	}
}

func (o *Orchestrator) degrade(res *breakdown.PhaseResults, phase string, err error) {
	for _, p := range res.FallbackPhases {
		if p == phase {
			return
		}
	}
	o.logger.Warn("phase degraded to pattern fallback", "phase", phase, "error", err)
	res.FallbackPhases = append(res.FallbackPhases, phase)
}

// systemFor resolves a phase's system prompt, honoring overrides.
func (o *Orchestrator) systemFor(key, fallback string) string {
	if p, err := o.resolver.Resolve(key); err == nil {
		return p.Text
	}
	return fallback
}

// complete issues one completion.
func (o *Orchestrator) complete(ctx context.Context, system, user string) (string, error) {
	if err := o.guard(ctx); err != nil {
		return "", err
	}
	result, err := o.client.Complete(ctx, &providers.CompletionRequest{
		System: system,
		User:   user,
	})
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// runPhase issues a completion and parses it, sending repair prompts when
// the output fails to parse or validate.
func runPhase[T any](o *Orchestrator, ctx context.Context, phase, system, user string, schema json.RawMessage, parse func(string) (*T, error)) (*T, error) {
	text, err := o.complete(ctx, system, user)
	if err != nil {
		return nil, err
	}

	parsed, perr := parse(text)
	for attempt := 1; perr != nil && attempt <= o.opts.RepairAttempts; attempt++ {
		o.logger.Warn("phase output rejected, requesting repair",
			"phase", phase, "attempt", attempt, "error", perr)
		o.pause(ctx)
		text, err = o.complete(ctx, system, providers.RepairPrompt(schema, text, perr))
		if err != nil {
			return nil, err
		}
		parsed, perr = parse(text)
	}
	if perr != nil {
		return nil, perr
	}
	return parsed, nil
}

func (o *Orchestrator) runScenePhase(ctx context.Context, scenes []screenplay.Scene, res *breakdown.PhaseResults) {
	chunks := ChunkScenes(scenes, o.opts.ChunkSize)
	system := o.systemFor(pscenes.SystemPromptKey, pscenes.SystemPrompt())

	for i, chunk := range chunks {
		o.progress(PhaseScenes, i+1, len(chunks), "analyzing scenes")
		if i > 0 {
			o.pause(ctx)
		}

		user := pscenes.UserPrompt(chunk.Text, chunk.FirstIndex, chunk.LastIndex)
		result, err := runPhase(o, ctx, PhaseScenes, system, user, pscenes.SchemaJSON(), pscenes.ParseResult)
		if err != nil {
			o.degrade(res, PhaseScenes, err)
			fallbackSceneInfo(scenes, chunk.FirstIndex, chunk.LastIndex)
			continue
		}

		for _, info := range result.Scenes {
			if info.Index < 0 || info.Index >= len(scenes) {
				continue
			}
			s := &scenes[info.Index]
			s.Synopsis = info.Synopsis
			s.CharactersPresent = canonicalNames(info.Characters)
		}
	}
}

func (o *Orchestrator) runCharacterPhase(ctx context.Context, plain, marked string, sceneCount int, res *breakdown.PhaseResults) []extract.Candidate {
	o.progress(PhaseCharacters, 1, 1, "identifying characters")
	pattern := extract.ExtractCharacters(plain)

	seeds := make([]string, 0, len(pattern))
	for _, c := range pattern {
		seeds = append(seeds, c.CanonicalName)
	}

	system := o.systemFor(pcharacters.SystemPromptKey, pcharacters.SystemPrompt())
	user := pcharacters.UserPrompt(marked, sceneCount, seeds)
	result, err := runPhase(o, ctx, PhaseCharacters, system, user, pcharacters.SchemaJSON(), pcharacters.ParseResult)
	if err != nil {
		o.degrade(res, PhaseCharacters, err)
		return pattern
	}

	ai := make([]extract.Candidate, 0, len(result.Characters))
	for _, info := range result.Characters {
		name := extract.CanonicalName(info.Name)
		if name == "" {
			continue
		}
		indices := append([]int(nil), info.Scenes...)
		sort.Ints(indices)
		first, last := -1, -1
		if len(indices) > 0 {
			first, last = indices[0], indices[len(indices)-1]
		}
		cand := extract.Candidate{
			CanonicalName:   name,
			NameVariations:  info.Aliases,
			Category:        extract.Category(info.Category),
			SceneIndices:    indices,
			FirstAppearance: first,
			LastAppearance:  last,
			HasDialogue:     info.Category != string(extract.CategoryBackground),
		}
		if info.Description != nil {
			cand.IntroDescription = *info.Description
		}
		ai = append(ai, cand)
	}

	merged := MergeByKey(ai, pattern, func(c extract.Candidate) string {
		return strings.ToUpper(extract.CleanName(c.CanonicalName))
	})
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].FirstAppearance != merged[j].FirstAppearance {
			return merged[i].FirstAppearance < merged[j].FirstAppearance
		}
		return merged[i].CanonicalName < merged[j].CanonicalName
	})
	return merged
}

func (o *Orchestrator) runContinuityPhase(ctx context.Context, plain, marked string, sceneCount int, names []string, res *breakdown.PhaseResults) []extract.ContinuityEvent {
	o.progress(PhaseContinuity, 1, 1, "tracking continuity events")
	pattern := extract.FindEventCandidates(plain)

	system := o.systemFor(pcontinuity.SystemPromptKey, pcontinuity.SystemPrompt())
	user := pcontinuity.UserPrompt(marked, sceneCount, names)
	result, err := runPhase(o, ctx, PhaseContinuity, system, user, pcontinuity.SchemaJSON(), pcontinuity.ParseResult)
	if err != nil {
		o.degrade(res, PhaseContinuity, err)
		return pattern
	}

	ai := make([]extract.ContinuityEvent, 0, len(result.Events))
	for _, e := range result.Events {
		if e.StartScene < 0 || e.StartScene >= sceneCount {
			continue
		}
		ev := extract.ContinuityEvent{
			ID:          uuid.New().String(),
			Character:   extract.CanonicalName(e.Character),
			Type:        extract.EventType(e.Type),
			StartScene:  e.StartScene,
			EndScene:    e.EndScene,
			Description: e.Description,
		}
		for _, st := range e.Progression {
			ev.Progression = append(ev.Progression, extract.ProgressionStage{
				Label:       st.Label,
				SceneOffset: st.SceneOffset,
			})
		}
		if len(ev.Progression) == 0 {
			ev.Progression = extract.DefaultProgression(ev.Type)
		}
		ai = append(ai, ev)
	}

	merged := MergeByKey(ai, pattern, extract.ContinuityEvent.DedupKey)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].StartScene < merged[j].StartScene
	})
	return merged
}

func (o *Orchestrator) runTimelinePhase(ctx context.Context, scenes []screenplay.Scene, marked string, res *breakdown.PhaseResults) {
	o.progress(PhaseTimeline, 1, 1, "assigning story days")

	system := o.systemFor(ptimeline.SystemPromptKey, ptimeline.SystemPrompt())
	user := ptimeline.UserPrompt(marked, len(scenes))
	result, err := runPhase(o, ctx, PhaseTimeline, system, user, ptimeline.SchemaJSON(), ptimeline.ParseResult)
	if err != nil {
		// The pattern sequencer's assignments stand.
		o.degrade(res, PhaseTimeline, err)
		return
	}

	byScene := make(map[int]ptimeline.Assignment, len(result.Assignments))
	for _, a := range result.Assignments {
		if a.Scene >= 0 && a.Scene < len(scenes) && a.Day >= 1 {
			byScene[a.Scene] = a
		}
	}

	// Apply assignments in scene order, keeping days non-decreasing.
	prev := 0
	for i := range scenes {
		s := &scenes[i]
		if a, ok := byScene[i]; ok {
			day := a.Day
			conf := screenplay.Confidence(a.Confidence)
			note := ""
			if a.Note != nil {
				note = *a.Note
			}
			if day < prev {
				day = prev
				conf = screenplay.ConfidenceMedium
			}
			s.StoryDay = day
			s.StoryDayConfidence = conf
			s.StoryDayNote = note
		} else if s.StoryDay < prev {
			s.StoryDay = prev
			s.StoryDayConfidence = screenplay.ConfidenceMedium
		}
		prev = s.StoryDay
	}
}

func (o *Orchestrator) runAppearancePhase(ctx context.Context, marked string, sceneCount int, names []string, res *breakdown.PhaseResults) []pappearance.CharacterAppearance {
	o.progress(PhaseAppearance, 1, 1, "collecting physical descriptions")

	system := o.systemFor(pappearance.SystemPromptKey, pappearance.SystemPrompt())
	user := pappearance.UserPrompt(marked, sceneCount, names)
	result, err := runPhase(o, ctx, PhaseAppearance, system, user, pappearance.SchemaJSON(), pappearance.ParseResult)
	if err != nil {
		o.degrade(res, PhaseAppearance, err)
		return fallbackAppearances(res.Characters, res.Keywords)
	}

	out := make([]pappearance.CharacterAppearance, 0, len(result.Characters))
	for _, c := range result.Characters {
		c.Name = extract.CanonicalName(c.Name)
		if c.Name == "" {
			continue
		}
		out = append(out, c)
	}

	// Pattern-extracted descriptions and keyword hits back-fill
	// characters the service missed.
	return MergeByKey(out, fallbackAppearances(res.Characters, res.Keywords), func(c pappearance.CharacterAppearance) string {
		return strings.ToUpper(extract.CleanName(c.Name))
	})
}

func canonicalNames(raw []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		name := extract.CanonicalName(r)
		if name == "" {
			continue
		}
		key := strings.ToUpper(extract.CleanName(name))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}
