package types

// ScriptLine is one spoken line of the promo script
type ScriptLine struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// VisualCue is the stock-footage search hint derived from one script line
type VisualCue struct {
	LineIndex int    `json:"line_index"`
	Query     string `json:"query"`
}

// AssetReference is a resolved stock video fragment, validated against the
// duration window and quality tier. Created by the resolver, consumed once
// by the planner, never mutated.
type AssetReference struct {
	ID          string  `json:"id"`
	URL         string  `json:"url"`
	DurationSec float64 `json:"duration_sec"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Quality     string  `json:"quality"`
}

// NarrationAsset is the rendered narration audio, owned by one run
type NarrationAsset struct {
	Path    string `json:"path"`
	VoiceID string `json:"voice_id"`
}

// MusicAsset is a background music track picked from the shared pool.
// The pool is read-only at request time; the file is never deleted by a run.
type MusicAsset struct {
	Path string `json:"path"`
}

// RunMetadata is the metadata block returned with every successful run
type RunMetadata struct {
	Duration       string  `json:"duration"`
	Format         string  `json:"format"`
	Quality        string  `json:"quality"`
	VoiceID        string  `json:"voice_id"`
	Mood           string  `json:"mood"`
	Subtitles      bool    `json:"subtitles"`
	SecondsPerLine float64 `json:"seconds_per_line"`
	TotalLines     int     `json:"total_lines"`
	ClipsUsed      int     `json:"clips_used"`
}

// RunResult is the final payload returned to the caller for one pipeline run
type RunResult struct {
	RunID       string         `json:"run_id"`
	Success     bool           `json:"success"`
	VideoPath   string         `json:"video_path,omitempty"`
	VideoURL    string         `json:"video_url,omitempty"`
	ScriptText  string         `json:"script_text,omitempty"`
	Lines       []ScriptLine   `json:"lines,omitempty"`
	SearchTerms []string       `json:"search_terms,omitempty"`
	Error       *PipelineError `json:"error,omitempty"`
	Metadata    *RunMetadata   `json:"metadata,omitempty"`
}
