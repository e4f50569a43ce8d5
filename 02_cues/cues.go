package cues

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"promo-shorts-pipeline/types"
)

// Generator derives one stock-footage search cue per script line.
// Providers are tried in order; all failures for a line are absorbed and
// the cue falls back to a static derivation from the line itself.
type Generator struct {
	providers []TextProvider
	maxCues   int
}

// New creates a cue Generator over an ordered provider chain
func New(providers []TextProvider, maxCues int) *Generator {
	return &Generator{providers: providers, maxCues: maxCues}
}

// Run produces cues for the first maxCues script lines
func (g *Generator) Run(ctx context.Context, subject, mood string, lines []types.ScriptLine) []types.VisualCue {
	n := len(lines)
	if g.maxCues > 0 && n > g.maxCues {
		n = g.maxCues
	}

	result := make([]types.VisualCue, 0, n)
	for _, line := range lines[:n] {
		query, err := g.generate(ctx, subject, mood, line)
		if err != nil {
			log.Printf("[cues] line %d: all providers failed: %v — using static cue", line.Index, err)
			query = staticCue(line.Text, subject, mood)
		}
		result = append(result, types.VisualCue{LineIndex: line.Index, Query: query})
	}
	return result
}

// generate tries every provider in order, aggregating failures
func (g *Generator) generate(ctx context.Context, subject, mood string, line types.ScriptLine) (string, error) {
	if len(g.providers) == 0 {
		return "", fmt.Errorf("no text providers configured")
	}

	prompt := fmt.Sprintf(
		"Write a 2-4 word stock video search phrase for a promo about %q (mood: %s). The spoken line is: %q. Respond with only the phrase, no punctuation.",
		subject, mood, line.Text,
	)

	var errs []error
	for _, p := range g.providers {
		text, err := p.Generate(ctx, prompt)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		if cue := sanitizeCue(text); cue != "" {
			return cue, nil
		}
		errs = append(errs, fmt.Errorf("%s: unusable response", p.Name()))
	}
	return "", errors.Join(errs...)
}

// sanitizeCue reduces a provider response to a short search phrase
func sanitizeCue(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		text = text[:i]
	}
	text = strings.Trim(text, `"'.,!`)

	words := strings.Fields(text)
	if len(words) > 6 {
		words = words[:6]
	}
	return strings.Join(words, " ")
}

// staticCue builds a search hint from the line text, subject and mood
// when no provider could be reached
func staticCue(lineText, subject, mood string) string {
	subjectWords := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(subject)) {
		subjectWords[w] = true
	}

	// Longest non-subject words carry the most search signal
	var picked []string
	for _, w := range strings.Fields(strings.ToLower(lineText)) {
		w = strings.Trim(w, `"'.,!?`)
		if len(w) < 5 || subjectWords[w] {
			continue
		}
		picked = append(picked, w)
		if len(picked) == 2 {
			break
		}
	}

	if len(picked) == 0 {
		return fmt.Sprintf("%s product", mood)
	}
	return strings.Join(append(picked, mood), " ")
}
