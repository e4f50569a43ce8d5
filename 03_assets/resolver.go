package assets

import (
	"context"
	"fmt"
	"log"
	"strings"

	"promo-shorts-pipeline/config"
	"promo-shorts-pipeline/types"
)

// Resolver turns search cues into validated asset references.
// A cue that resolves to nothing is a normal outcome, never an error.
type Resolver struct {
	cfg      *config.Config
	searcher Searcher
}

// NewResolver creates a Resolver over a search provider
func NewResolver(cfg *config.Config, searcher Searcher) *Resolver {
	return &Resolver{cfg: cfg, searcher: searcher}
}

// Resolve finds at most one usable fragment for a cue. The primary query
// combines subject and cue; zero results broaden to the cue alone.
// Transport and auth failures are absorbed and reported as no asset.
func (r *Resolver) Resolve(ctx context.Context, cue, subject string) *types.AssetReference {
	queries := []string{strings.TrimSpace(subject + " " + cue)}
	if cue != "" && cue != queries[0] {
		queries = append(queries, cue)
	}
	return r.resolveQueries(ctx, queries)
}

func (r *Resolver) resolveQueries(ctx context.Context, queries []string) *types.AssetReference {
	opts := SearchOptions{
		Orientation: r.cfg.Assets.Orientation,
		PerPage:     r.cfg.Assets.PerPage,
	}

	for _, query := range queries {
		candidates, err := r.searcher.Search(ctx, query, opts)
		if err != nil {
			log.Printf("[assets] search %q failed: %v", query, err)
			continue
		}
		if ref := r.pick(candidates); ref != nil {
			return ref
		}
	}
	return nil
}

// pick selects the first candidate inside the duration window that carries
// the required quality tier
func (r *Resolver) pick(candidates []Candidate) *types.AssetReference {
	for _, c := range candidates {
		if c.DurationSec < r.cfg.Assets.MinDurationSec || c.DurationSec > r.cfg.Assets.MaxDurationSec {
			continue
		}
		for _, f := range c.Files {
			if strings.EqualFold(f.Quality, r.cfg.Assets.Quality) {
				return &types.AssetReference{
					ID:          c.ID,
					URL:         f.Link,
					DurationSec: c.DurationSec,
					Width:       f.Width,
					Height:      f.Height,
					Quality:     f.Quality,
				}
			}
		}
	}
	return nil
}

// Accumulate resolves every cue in order, then tops up with broader
// subject-level fallback queries until the target count is reached or the
// fallback sequence is exhausted. References are deduplicated by ID.
// Returns whatever was obtained; the caller decides whether zero is fatal.
func (r *Resolver) Accumulate(ctx context.Context, subject, mood string, cueList []types.VisualCue) []types.AssetReference {
	seen := make(map[string]bool)
	var refs []types.AssetReference

	add := func(ref *types.AssetReference) {
		if ref == nil || seen[ref.ID] {
			return
		}
		seen[ref.ID] = true
		refs = append(refs, *ref)
	}

	for _, cue := range cueList {
		if len(refs) >= r.cfg.Assets.TargetCount {
			break
		}
		add(r.Resolve(ctx, cue.Query, subject))
	}

	if len(refs) >= r.cfg.Assets.MinCount {
		return refs
	}

	log.Printf("[assets] only %d/%d fragments after per-line cues — escalating to fallback queries",
		len(refs), r.cfg.Assets.MinCount)

	for _, query := range FallbackQueries(subject, mood) {
		if len(refs) >= r.cfg.Assets.TargetCount {
			break
		}
		add(r.resolveQueries(ctx, []string{query}))
	}
	return refs
}

// FallbackQueries is the fixed subject-level escalation sequence
func FallbackQueries(subject, mood string) []string {
	return []string{
		fmt.Sprintf("%s review", subject),
		fmt.Sprintf("%s unboxing", subject),
		fmt.Sprintf("%s lifestyle", subject),
		fmt.Sprintf("%s %s", mood, subject),
		subject,
	}
}
