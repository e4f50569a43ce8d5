package narration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"promo-shorts-pipeline/config"
	"promo-shorts-pipeline/types"
)

type fakeSpeech struct {
	audio    []byte
	err      error
	gotText  string
	gotVoice string
}

func (f *fakeSpeech) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	f.gotText = text
	f.gotVoice = voiceID
	if f.err != nil {
		return nil, f.err
	}
	return f.audio, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("does-not-exist.yaml")
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestVoiceFor(t *testing.T) {
	tests := []struct {
		subject string
		want    string
	}{
		{"Magic Glow Serum", "EXAVITQu4vr4xnSDxMaL"},
		{"Hyper Phone X", "ErXwobaYiN019PkySvjV"},
		{"Summer Dress", "21m00Tcm4TlvDq8ikWAM"},
		{"Cold Brew Coffee", "AZnzlk1XvdvUeBnXmlld"},
		{"random gizmo", defaultVoiceID},
	}
	for _, tt := range tests {
		if got := VoiceFor(tt.subject); got != tt.want {
			t.Errorf("VoiceFor(%q) = %q, want %q", tt.subject, got, tt.want)
		}
	}
}

func TestVoiceForFirstMatchWins(t *testing.T) {
	// "glow" (beauty) appears before any tech keyword in the rule order
	if got := VoiceFor("Glow Smart Mirror"); got != "EXAVITQu4vr4xnSDxMaL" {
		t.Errorf("VoiceFor = %q, want the beauty voice (first rule wins)", got)
	}
}

func TestJoinLines(t *testing.T) {
	lines := []types.ScriptLine{
		{Index: 0, Text: "First line"},
		{Index: 1, Text: "Already punctuated!"},
		{Index: 2, Text: "  "},
		{Index: 3, Text: "Question?"},
	}
	got := JoinLines(lines)
	want := "First line. Already punctuated! Question?"
	if got != want {
		t.Errorf("JoinLines = %q, want %q", got, want)
	}
}

func TestRunWritesNarrationFile(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeSpeech{audio: []byte("mp3-bytes")}
	s := New(testConfig(t), fake)

	lines := []types.ScriptLine{{Index: 0, Text: "Hello there"}}
	asset, err := s.Run(context.Background(), lines, "Magic Glow Serum", dir)
	if err != nil {
		t.Fatal(err)
	}
	if asset.VoiceID != "EXAVITQu4vr4xnSDxMaL" {
		t.Errorf("VoiceID = %q, want the beauty voice", asset.VoiceID)
	}
	if asset.Path != filepath.Join(dir, "narration.mp3") {
		t.Errorf("Path = %q", asset.Path)
	}
	data, err := os.ReadFile(asset.Path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "mp3-bytes" {
		t.Errorf("file content = %q", data)
	}
	if fake.gotText != "Hello there." {
		t.Errorf("synthesized text = %q", fake.gotText)
	}
	if fake.gotVoice != asset.VoiceID {
		t.Errorf("provider voice = %q, asset voice = %q", fake.gotVoice, asset.VoiceID)
	}
}

func TestRunProviderFailure(t *testing.T) {
	fake := &fakeSpeech{err: fmt.Errorf("quota exceeded")}
	s := New(testConfig(t), fake)

	lines := []types.ScriptLine{{Index: 0, Text: "Hello"}}
	if _, err := s.Run(context.Background(), lines, "gizmo", t.TempDir()); err == nil {
		t.Error("expected error when the speech provider fails")
	}
}

func TestRunEmptyScript(t *testing.T) {
	s := New(testConfig(t), &fakeSpeech{audio: []byte("x")})
	if _, err := s.Run(context.Background(), nil, "gizmo", t.TempDir()); err == nil {
		t.Error("expected error for empty script")
	}
}
