package music

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPickMissingDir(t *testing.T) {
	if got := Pick(filepath.Join(t.TempDir(), "nope")); got != nil {
		t.Errorf("expected nil for missing dir, got %+v", got)
	}
}

func TestPickEmptyDir(t *testing.T) {
	if got := Pick(t.TempDir()); got != nil {
		t.Errorf("expected nil for empty dir, got %+v", got)
	}
}

func TestPickIgnoresNonAudio(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, "cover.jpg"), []byte("x"), 0644)
	if got := Pick(dir); got != nil {
		t.Errorf("expected nil when only non-audio files exist, got %+v", got)
	}
}

func TestPickReturnsTrackFromPool(t *testing.T) {
	dir := t.TempDir()
	tracks := map[string]bool{
		filepath.Join(dir, "a.mp3"): true,
		filepath.Join(dir, "b.wav"): true,
		filepath.Join(dir, "c.m4a"): true,
	}
	for p := range tracks {
		os.WriteFile(p, []byte("audio"), 0644)
	}

	for i := 0; i < 10; i++ {
		got := Pick(dir)
		if got == nil {
			t.Fatal("expected a track")
		}
		if !tracks[got.Path] {
			t.Fatalf("picked %q, not in the pool", got.Path)
		}
	}
}
