package narration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"promo-shorts-pipeline/config"
	"promo-shorts-pipeline/types"
)

// SpeechProvider renders text to audio bytes
type SpeechProvider interface {
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}

// Synthesizer turns the full script into one narration audio file
type Synthesizer struct {
	cfg      *config.Config
	provider SpeechProvider
}

// New creates a narration Synthesizer
func New(cfg *config.Config, provider SpeechProvider) *Synthesizer {
	return &Synthesizer{cfg: cfg, provider: provider}
}

// Run synthesizes narration for the whole script and writes it to outDir.
// Failure here is fatal for runs that requested narration.
func (s *Synthesizer) Run(ctx context.Context, lines []types.ScriptLine, subject, outDir string) (*types.NarrationAsset, error) {
	text := JoinLines(lines)
	if text == "" {
		return nil, fmt.Errorf("script produced no narration text")
	}

	voiceID := VoiceFor(subject)
	log.Printf("[narration] Synthesizing %d lines with voice %s...", len(lines), voiceID)

	audio, err := s.provider.Synthesize(ctx, text, voiceID)
	if err != nil {
		return nil, fmt.Errorf("speech synthesis: %w", err)
	}

	outFile := filepath.Join(outDir, "narration.mp3")
	if err := os.WriteFile(outFile, audio, 0644); err != nil {
		return nil, fmt.Errorf("write narration: %w", err)
	}

	log.Printf("[narration] ✅ Narration ready: %s (%d bytes)", outFile, len(audio))
	return &types.NarrationAsset{Path: outFile, VoiceID: voiceID}, nil
}

// JoinLines concatenates script lines into one narration text,
// ensuring every line ends with sentence-terminal punctuation
func JoinLines(lines []types.ScriptLine) string {
	var parts []string
	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}
		if !strings.ContainsAny(text[len(text)-1:], ".!?") {
			text += "."
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}

// ElevenLabsClient talks to the ElevenLabs text-to-speech API
type ElevenLabsClient struct {
	httpClient *http.Client
	cfg        *config.NarrationConfig
	apiKey     string
}

// NewElevenLabsClient creates the speech provider
func NewElevenLabsClient(cfg *config.NarrationConfig, apiKey string) *ElevenLabsClient {
	return &ElevenLabsClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		cfg:        cfg,
		apiKey:     apiKey,
	}
}

type elevenLabsRequest struct {
	Text          string                 `json:"text"`
	ModelID       string                 `json:"model_id"`
	VoiceSettings elevenLabsVoiceSetting `json:"voice_settings"`
}

type elevenLabsVoiceSetting struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// Synthesize renders text with the given voice and returns MP3 bytes
func (c *ElevenLabsClient) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("ELEVENLABS_API_KEY not set")
	}

	body, err := json.Marshal(elevenLabsRequest{
		Text:    text,
		ModelID: c.cfg.ModelID,
		VoiceSettings: elevenLabsVoiceSetting{
			Stability:       c.cfg.Stability,
			SimilarityBoost: c.cfg.SimilarityBoost,
		},
	})
	if err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/%s", strings.TrimSuffix(c.cfg.Endpoint, "/"), voiceID)
	req, err := http.NewRequestWithContext(ctx, "POST", reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, fmt.Errorf("HTTP %d from ElevenLabs: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(audio) < 100 {
		return nil, fmt.Errorf("response too small (%d bytes) — likely an error", len(audio))
	}
	return audio, nil
}
