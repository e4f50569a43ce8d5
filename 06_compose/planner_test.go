package compose

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"promo-shorts-pipeline/config"
	"promo-shorts-pipeline/types"
)

func testRenderConfig() *config.RenderConfig {
	return &config.RenderConfig{
		Width:        1080,
		Height:       1920,
		TotalSec:     25,
		FPS:          30,
		Preset:       "fast",
		CRF:          23,
		AudioBitrate: "192k",
	}
}

func fragmentPaths(n int) []string {
	paths := make([]string, n)
	for i := range paths {
		paths[i] = fmt.Sprintf("/tmp/fragment_%02d.mp4", i)
	}
	return paths
}

func TestSliceDurationsSumToTotal(t *testing.T) {
	frameTolerance := 1.0 / 30
	for n := 1; n <= 5; n++ {
		g, err := Plan(fragmentPaths(n), nil, nil, testRenderConfig())
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if len(g.Fragments) != n {
			t.Fatalf("n=%d: got %d fragment ops", n, len(g.Fragments))
		}
		var sum float64
		for _, f := range g.Fragments {
			sum += f.SliceSec
		}
		if math.Abs(sum-25) > frameTolerance {
			t.Errorf("n=%d: slices sum to %.4f, want 25 within one frame", n, sum)
		}
	}
}

func TestConcatJoins(t *testing.T) {
	for n := 1; n <= 5; n++ {
		g, err := Plan(fragmentPaths(n), nil, nil, testRenderConfig())
		if err != nil {
			t.Fatal(err)
		}
		want := fmt.Sprintf("concat=n=%d:v=1:a=0", n)
		if !strings.Contains(g.ConcatFilter, want) {
			t.Errorf("n=%d: concat filter %q missing %q", n, g.ConcatFilter, want)
		}
		// One [vX] label per fragment feeds the concat
		for i := 0; i < n; i++ {
			label := fmt.Sprintf("[v%d]", i)
			if !strings.Contains(g.ConcatFilter, label) {
				t.Errorf("n=%d: concat filter missing input %s", n, label)
			}
		}
	}
}

func TestSelectMixVariants(t *testing.T) {
	tests := []struct {
		narration bool
		music     bool
		wantMode  MixMode
		wantNGain float64
		wantMGain float64
	}{
		{true, true, MixNarrationAndMusic, 1.2, 0.15},
		{true, false, MixNarrationOnly, 1.1, 0},
		{false, true, MixMusicOnly, 0, 0.4},
		{false, false, MixSilent, 0, 0},
	}
	for _, tt := range tests {
		got := SelectMix(tt.narration, tt.music, 25)
		if got.Mode != tt.wantMode {
			t.Errorf("SelectMix(%v, %v).Mode = %v, want %v", tt.narration, tt.music, got.Mode, tt.wantMode)
		}
		if got.NarrationGain != tt.wantNGain {
			t.Errorf("SelectMix(%v, %v).NarrationGain = %v, want %v", tt.narration, tt.music, got.NarrationGain, tt.wantNGain)
		}
		if got.MusicGain != tt.wantMGain {
			t.Errorf("SelectMix(%v, %v).MusicGain = %v, want %v", tt.narration, tt.music, got.MusicGain, tt.wantMGain)
		}
		if tt.wantMode != MixSilent && got.TrimSec != 25 {
			t.Errorf("SelectMix(%v, %v).TrimSec = %v, want 25", tt.narration, tt.music, got.TrimSec)
		}
	}
}

func TestFullGraphNarrationAndMusic(t *testing.T) {
	narr := &types.NarrationAsset{Path: "/tmp/narration.mp3", VoiceID: "v1"}
	mus := &types.MusicAsset{Path: "/assets/music/track.mp3"}

	g, err := Plan(fragmentPaths(5), narr, mus, testRenderConfig())
	if err != nil {
		t.Fatal(err)
	}

	if len(g.Inputs) != 7 {
		t.Fatalf("got %d inputs, want 5 fragments + narration + music", len(g.Inputs))
	}
	if g.Inputs[5] != narr.Path || g.Inputs[6] != mus.Path {
		t.Errorf("audio inputs out of order: %v", g.Inputs[5:])
	}
	if g.Mix.Mode != MixNarrationAndMusic {
		t.Errorf("mix mode = %v, want narration_and_music", g.Mix.Mode)
	}

	// Five scale/crop/trim chains
	if n := strings.Count(g.FilterComplex, "scale=1080:1920:force_original_aspect_ratio=increase"); n != 5 {
		t.Errorf("got %d scale chains, want 5", n)
	}
	if n := strings.Count(g.FilterComplex, "crop=1080:1920"); n != 5 {
		t.Errorf("got %d crop ops, want 5", n)
	}
	if n := strings.Count(g.FilterComplex, "setpts=PTS-STARTPTS"); n != 5 {
		t.Errorf("got %d setpts ops, want 5", n)
	}

	// One concat node and one two-track mix node
	if n := strings.Count(g.FilterComplex, "concat="); n != 1 {
		t.Errorf("got %d concat nodes, want 1", n)
	}
	if n := strings.Count(g.FilterComplex, "amix=inputs=2:duration=shortest"); n != 1 {
		t.Errorf("got %d amix nodes, want 1", n)
	}

	// Narration input 5 at gain 1.2, music input 6 at gain 0.15
	if !strings.Contains(g.MixFilter, "[5:a]volume=1.20") {
		t.Errorf("mix filter missing narration gain: %q", g.MixFilter)
	}
	if !strings.Contains(g.MixFilter, "[6:a]volume=0.15") {
		t.Errorf("mix filter missing music gain: %q", g.MixFilter)
	}

	// Hard output duration clamp at exactly the total
	if !containsPair(g.OutputArgs, "-t", "25.000") {
		t.Errorf("output args missing duration clamp: %v", g.OutputArgs)
	}
	if !containsPair(g.OutputArgs, "-movflags", "+faststart") {
		t.Errorf("output args missing faststart: %v", g.OutputArgs)
	}
}

func TestMusicOnlyGraph(t *testing.T) {
	mus := &types.MusicAsset{Path: "/assets/music/track.mp3"}
	g, err := Plan(fragmentPaths(2), nil, mus, testRenderConfig())
	if err != nil {
		t.Fatal(err)
	}
	if g.Mix.Mode != MixMusicOnly {
		t.Fatalf("mix mode = %v, want music_only", g.Mix.Mode)
	}
	// Music takes the first audio input slot when there is no narration
	if !strings.Contains(g.MixFilter, "[2:a]volume=0.40") {
		t.Errorf("mix filter = %q, want music on input 2 at gain 0.4", g.MixFilter)
	}
}

func TestSilentGraphHasNoAudioStream(t *testing.T) {
	g, err := Plan(fragmentPaths(3), nil, nil, testRenderConfig())
	if err != nil {
		t.Fatal(err)
	}
	if g.Mix.Mode != MixSilent {
		t.Fatalf("mix mode = %v, want silent", g.Mix.Mode)
	}
	if g.MixFilter != "" {
		t.Errorf("silent plan has a mix filter: %q", g.MixFilter)
	}
	found := false
	for _, a := range g.OutputArgs {
		if a == "-an" {
			found = true
		}
		if a == "[aout]" {
			t.Error("silent plan maps an audio stream")
		}
	}
	if !found {
		t.Error("silent plan missing -an")
	}
}

func TestExcessFragmentsAreDropped(t *testing.T) {
	g, err := Plan(fragmentPaths(8), nil, nil, testRenderConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Fragments) != MaxFragments {
		t.Errorf("got %d fragments, want cap of %d", len(g.Fragments), MaxFragments)
	}
	// The first five in resolution order are kept
	if g.Inputs[0] != "/tmp/fragment_00.mp4" || g.Inputs[4] != "/tmp/fragment_04.mp4" {
		t.Errorf("unexpected kept fragments: %v", g.Inputs)
	}
}

func TestZeroFragmentsIsError(t *testing.T) {
	if _, err := Plan(nil, nil, nil, testRenderConfig()); err == nil {
		t.Error("expected error for zero fragments")
	}
}

func TestPlanIsDeterministic(t *testing.T) {
	narr := &types.NarrationAsset{Path: "/tmp/narration.mp3"}
	a, _ := Plan(fragmentPaths(3), narr, nil, testRenderConfig())
	b, _ := Plan(fragmentPaths(3), narr, nil, testRenderConfig())
	if a.FilterComplex != b.FilterComplex {
		t.Error("identical inputs produced different filter graphs")
	}
}

func containsPair(args []string, flag, value string) bool {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}
