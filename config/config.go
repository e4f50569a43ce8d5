package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Script    ScriptConfig    `yaml:"script"`
	Cues      CuesConfig      `yaml:"cues"`
	Assets    AssetsConfig    `yaml:"assets"`
	Narration NarrationConfig `yaml:"narration"`
	Music     MusicConfig     `yaml:"music"`
	Render    RenderConfig    `yaml:"render"`
	Publish   PublishConfig   `yaml:"publish"`
	Paths     PathsConfig     `yaml:"paths"`
}

type ScriptConfig struct {
	TargetLines int `yaml:"target_lines"`
	MinLines    int `yaml:"min_lines"`
}

type CuesConfig struct {
	Model   string `yaml:"model"`
	MaxCues int    `yaml:"max_cues"`
}

type AssetsConfig struct {
	MinDurationSec float64 `yaml:"min_duration_sec"`
	MaxDurationSec float64 `yaml:"max_duration_sec"`
	Orientation    string  `yaml:"orientation"`
	Quality        string  `yaml:"quality"`
	MinCount       int     `yaml:"min_count"`
	TargetCount    int     `yaml:"target_count"`
	PerPage        int     `yaml:"per_page"`
}

type NarrationConfig struct {
	Endpoint        string  `yaml:"endpoint"`
	ModelID         string  `yaml:"model_id"`
	Stability       float64 `yaml:"stability"`
	SimilarityBoost float64 `yaml:"similarity_boost"`
}

type MusicConfig struct {
	Dir string `yaml:"dir"`
}

type RenderConfig struct {
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	TotalSec     float64 `yaml:"total_sec"`
	FPS          int     `yaml:"fps"`
	Preset       string  `yaml:"preset"`
	CRF          int     `yaml:"crf"`
	AudioBitrate string  `yaml:"audio_bitrate"`
}

type PublishConfig struct {
	Visibility string `yaml:"visibility"`
	CategoryID string `yaml:"category_id"`
}

type PathsConfig struct {
	Output string `yaml:"output"`
	Tmp    string `yaml:"tmp"`
}

// Load reads the YAML config at path. A missing file is not an error —
// defaults cover every field, so the pipeline runs with an empty config.
func Load(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Script.TargetLines == 0 {
		c.Script.TargetLines = 10
	}
	if c.Script.MinLines == 0 {
		c.Script.MinLines = 8
	}
	if c.Cues.Model == "" {
		c.Cues.Model = "gpt-4o-mini"
	}
	if c.Cues.MaxCues == 0 {
		c.Cues.MaxCues = 5
	}
	if c.Assets.MinDurationSec == 0 {
		c.Assets.MinDurationSec = 8
	}
	if c.Assets.MaxDurationSec == 0 {
		c.Assets.MaxDurationSec = 40
	}
	if c.Assets.Orientation == "" {
		c.Assets.Orientation = "portrait"
	}
	if c.Assets.Quality == "" {
		c.Assets.Quality = "hd"
	}
	if c.Assets.MinCount == 0 {
		c.Assets.MinCount = 3
	}
	if c.Assets.TargetCount == 0 {
		c.Assets.TargetCount = 5
	}
	if c.Assets.PerPage == 0 {
		c.Assets.PerPage = 10
	}
	if c.Narration.Endpoint == "" {
		c.Narration.Endpoint = "https://api.elevenlabs.io/v1/text-to-speech"
	}
	if c.Narration.ModelID == "" {
		c.Narration.ModelID = "eleven_multilingual_v2"
	}
	if c.Narration.Stability == 0 {
		c.Narration.Stability = 0.5
	}
	if c.Narration.SimilarityBoost == 0 {
		c.Narration.SimilarityBoost = 0.75
	}
	if c.Music.Dir == "" {
		c.Music.Dir = "assets/music"
	}
	if c.Render.Width == 0 {
		c.Render.Width = 1080
	}
	if c.Render.Height == 0 {
		c.Render.Height = 1920
	}
	if c.Render.TotalSec == 0 {
		c.Render.TotalSec = 25
	}
	if c.Render.FPS == 0 {
		c.Render.FPS = 30
	}
	if c.Render.Preset == "" {
		c.Render.Preset = "fast"
	}
	if c.Render.CRF == 0 {
		c.Render.CRF = 23
	}
	if c.Render.AudioBitrate == "" {
		c.Render.AudioBitrate = "192k"
	}
	if c.Publish.Visibility == "" {
		c.Publish.Visibility = "private"
	}
	if c.Publish.CategoryID == "" {
		c.Publish.CategoryID = "22"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "output"
	}
	if c.Paths.Tmp == "" {
		c.Paths.Tmp = "tmp"
	}
}

func (c *Config) validate() error {
	if c.Script.MinLines > c.Script.TargetLines {
		return fmt.Errorf("script.min_lines (%d) exceeds script.target_lines (%d)", c.Script.MinLines, c.Script.TargetLines)
	}
	if c.Assets.MinDurationSec >= c.Assets.MaxDurationSec {
		return fmt.Errorf("assets duration window is empty: [%g, %g]", c.Assets.MinDurationSec, c.Assets.MaxDurationSec)
	}
	if c.Assets.MinCount > c.Assets.TargetCount {
		return fmt.Errorf("assets.min_count (%d) exceeds assets.target_count (%d)", c.Assets.MinCount, c.Assets.TargetCount)
	}
	if c.Render.TotalSec <= 0 {
		return fmt.Errorf("render.total_sec must be positive")
	}
	return nil
}
