package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"promo-shorts-pipeline/01_script"
	"promo-shorts-pipeline/05_music"
	"promo-shorts-pipeline/06_compose"
	"promo-shorts-pipeline/07_render"
	"promo-shorts-pipeline/config"
	"promo-shorts-pipeline/types"

	"github.com/google/uuid"
)

// State is the run's position in the pipeline. Strictly forward-progressing;
// no state is ever revisited.
type State int

const (
	StateScriptPending State = iota
	StateAssetsPending
	StateAudioPending
	StateRendering
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateScriptPending:
		return "script_pending"
	case StateAssetsPending:
		return "assets_pending"
	case StateAudioPending:
		return "audio_pending"
	case StateRendering:
		return "rendering"
	case StateDone:
		return "done"
	default:
		return "failed"
	}
}

// CueGenerator derives search cues for script lines. Provider failures are
// absorbed inside the generator.
type CueGenerator interface {
	Run(ctx context.Context, subject, mood string, lines []types.ScriptLine) []types.VisualCue
}

// AssetSource resolves and accumulates stock fragments
type AssetSource interface {
	Accumulate(ctx context.Context, subject, mood string, cues []types.VisualCue) []types.AssetReference
}

// FragmentFetcher downloads resolved fragments into run temp storage
type FragmentFetcher interface {
	Fetch(ctx context.Context, refs []types.AssetReference, dir string) []string
}

// SpeechSynthesizer renders the script narration
type SpeechSynthesizer interface {
	Run(ctx context.Context, lines []types.ScriptLine, subject, outDir string) (*types.NarrationAsset, error)
}

// VideoRenderer executes a composition graph
type VideoRenderer interface {
	Run(ctx context.Context, g *compose.Graph, outFile, tmpDir string, ev render.Events) error
}

// Request describes one pipeline run
type Request struct {
	Subject   string
	Mood      string
	Narration bool
	Music     bool
}

// Orchestrator sequences the pipeline stages for independent runs.
// Provider handles are constructed once at startup and injected here;
// concurrent runs share them but no mutable state.
type Orchestrator struct {
	cfg      *config.Config
	cues     CueGenerator
	assets   AssetSource
	fetcher  FragmentFetcher
	speech   SpeechSynthesizer
	renderer VideoRenderer
}

// New creates an Orchestrator over injected provider handles
func New(cfg *config.Config, cues CueGenerator, assets AssetSource, fetcher FragmentFetcher, speech SpeechSynthesizer, renderer VideoRenderer) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		cues:     cues,
		assets:   assets,
		fetcher:  fetcher,
		speech:   speech,
		renderer: renderer,
	}
}

// run tracks the per-run state and owned temp storage
type run struct {
	id      string
	started time.Time
	state   State
	tmpDir  string
}

func (r *run) advance(to State) {
	log.Printf("[pipeline] %s: %s → %s", r.id, r.state, to)
	r.state = to
}

// Run executes one full pipeline run and always returns a RunResult;
// fatal stage errors are categorized, never panicked through.
func (o *Orchestrator) Run(ctx context.Context, req Request) *types.RunResult {
	r := &run{
		id:      uuid.NewString()[:8],
		started: time.Now(),
		state:   StateScriptPending,
	}
	// Timestamped temp dir keeps concurrent runs from colliding
	r.tmpDir = filepath.Join(o.cfg.Paths.Tmp, fmt.Sprintf("run_%s_%s", r.started.Format("20060102_150405"), r.id))

	log.Printf("[pipeline] 🎬 Run %s starting: subject=%q mood=%q narration=%v music=%v",
		r.id, req.Subject, req.Mood, req.Narration, req.Music)

	result := o.execute(ctx, r, req)
	result.RunID = r.id

	if !result.Success {
		r.advance(StateFailed)
		// Failed runs release their temp assets too; best-effort
		if err := os.RemoveAll(r.tmpDir); err != nil {
			log.Printf("[pipeline] %s: temp cleanup failed: %v", r.id, err)
		}
		log.Printf("[pipeline] ❌ Run %s failed: %s", r.id, result.Error.Error())
	} else {
		log.Printf("[pipeline] ✅ Run %s complete: %s (%.1fs elapsed)", r.id, result.VideoPath, time.Since(r.started).Seconds())
	}

	o.saveResult(result)
	return result
}

func (o *Orchestrator) execute(ctx context.Context, r *run, req Request) *types.RunResult {
	// ─── Stage 1: script ───
	lines, err := script.Synthesize(req.Subject, req.Mood)
	if err != nil || len(lines) < o.cfg.Script.MinLines {
		if err == nil {
			err = fmt.Errorf("got %d lines, need at least %d", len(lines), o.cfg.Script.MinLines)
		}
		return fail(types.ErrScriptTooShort, "script synthesis came up short", err)
	}
	r.advance(StateAssetsPending)

	// Filesystem failures land in the render category for lack of a better
	// bucket; the message records that no render was attempted.
	if err := os.MkdirAll(r.tmpDir, 0755); err != nil {
		return fail(types.ErrRenderError, "workspace setup: create run temp dir (no render attempted)", err)
	}

	// ─── Stage 2: cues + asset accumulation ───
	cueList := o.cues.Run(ctx, req.Subject, req.Mood, lines)
	refs := o.assets.Accumulate(ctx, req.Subject, req.Mood, cueList)
	if len(refs) == 0 {
		return fail(types.ErrNoAssetsFound, "no video fragments found after fallback escalation", nil)
	}
	log.Printf("[pipeline] %s: %d fragment(s) resolved", r.id, len(refs))

	fragments := o.fetcher.Fetch(ctx, refs, r.tmpDir)
	if len(fragments) == 0 {
		return fail(types.ErrNoAssetsFound, "every resolved fragment failed to download", nil)
	}
	r.advance(StateAudioPending)

	// ─── Stage 3: audio ───
	var narr *types.NarrationAsset
	if req.Narration {
		narr, err = o.speech.Run(ctx, lines, req.Subject, r.tmpDir)
		if err != nil {
			return fail(types.ErrVoiceGenerationFailed, "narration synthesis failed", err)
		}
	}
	var mus *types.MusicAsset
	if req.Music {
		mus = music.Pick(o.cfg.Music.Dir)
	}
	r.advance(StateRendering)

	// ─── Stage 4: compose + render ───
	graph, err := compose.Plan(fragments, narr, mus, &o.cfg.Render)
	if err != nil {
		return fail(types.ErrRenderError, "composition planning failed", err)
	}

	outName := outputName(r.started, req.Subject)
	outFile := filepath.Join(o.cfg.Paths.Output, outName)
	if err := os.MkdirAll(o.cfg.Paths.Output, 0755); err != nil {
		return fail(types.ErrRenderError, "workspace setup: create output dir (no render attempted)", err)
	}

	ev := render.Events{
		OnStart: func(cmdline string) {
			log.Printf("[pipeline] %s: render started", r.id)
		},
		OnProgress: func(pct float64) {
			log.Printf("[pipeline] %s: render %.0f%%", r.id, pct)
		},
	}
	if err := o.renderer.Run(ctx, graph, outFile, r.tmpDir, ev); err != nil {
		return fail(types.ErrRenderError, "render failed", err)
	}
	r.advance(StateDone)

	return o.buildResult(req, lines, cueList, graph, narr, outName, outFile)
}

func (o *Orchestrator) buildResult(req Request, lines []types.ScriptLine, cueList []types.VisualCue, graph *compose.Graph, narr *types.NarrationAsset, outName, outFile string) *types.RunResult {
	searchTerms := make([]string, 0, len(cueList))
	for _, c := range cueList {
		searchTerms = append(searchTerms, c.Query)
	}

	texts := make([]string, 0, len(lines))
	for _, l := range lines {
		texts = append(texts, l.Text)
	}

	voiceID := ""
	if narr != nil {
		voiceID = narr.VoiceID
	}

	return &types.RunResult{
		Success:     true,
		VideoPath:   outFile,
		VideoURL:    "/videos/" + outName,
		ScriptText:  strings.Join(texts, " "),
		Lines:       lines,
		SearchTerms: searchTerms,
		Metadata: &types.RunMetadata{
			Duration:       fmt.Sprintf("%.0fs", graph.TotalSec),
			Format:         "mp4",
			Quality:        fmt.Sprintf("%dx%d", o.cfg.Render.Width, o.cfg.Render.Height),
			VoiceID:        voiceID,
			Mood:           req.Mood,
			Subtitles:      false,
			SecondsPerLine: graph.TotalSec / float64(len(lines)),
			TotalLines:     len(lines),
			ClipsUsed:      len(graph.Fragments),
		},
	}
}

func fail(category types.ErrorCategory, message string, err error) *types.RunResult {
	return &types.RunResult{
		Success: false,
		Error:   types.NewPipelineError(category, message, err),
	}
}

// saveResult persists the run result next to the artifacts
func (o *Orchestrator) saveResult(result *types.RunResult) {
	if err := os.MkdirAll(o.cfg.Paths.Output, 0755); err != nil {
		return
	}
	path := filepath.Join(o.cfg.Paths.Output, fmt.Sprintf("run_%s.json", result.RunID))
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Printf("[pipeline] could not marshal result: %v", err)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("[pipeline] could not save result: %v", err)
	}
}

// outputName derives the artifact name from the run timestamp and the
// sanitized subject (non-alphanumerics stripped)
func outputName(started time.Time, subject string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(subject) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" {
		name = "promo"
	}
	return fmt.Sprintf("promo_%s_%s.mp4", started.Format("20060102_150405"), name)
}
