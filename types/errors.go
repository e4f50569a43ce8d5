package types

import "fmt"

// ErrorCategory classifies the fatal failure modes of a pipeline run.
// Per-cue search misses are not errors — they resolve to "no asset" and
// accumulation continues.
type ErrorCategory string

const (
	ErrScriptTooShort        ErrorCategory = "script_too_short"
	ErrNoAssetsFound         ErrorCategory = "no_assets_found"
	ErrVoiceGenerationFailed ErrorCategory = "voice_generation_failed"
	ErrRenderError           ErrorCategory = "render_error"
)

// PipelineError is a categorized fatal run error. Message is the
// human-readable summary; Err keeps the raw underlying error for diagnostics.
type PipelineError struct {
	Category ErrorCategory `json:"category"`
	Message  string        `json:"message"`
	Err      error         `json:"-"`
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewPipelineError builds a categorized fatal error
func NewPipelineError(category ErrorCategory, message string, err error) *PipelineError {
	return &PipelineError{Category: category, Message: message, Err: err}
}
