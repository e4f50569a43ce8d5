package compose

import (
	"fmt"
	"strings"

	"promo-shorts-pipeline/config"
	"promo-shorts-pipeline/types"
)

// MaxFragments caps how many fragments one composition uses. Excess
// fragments are dropped; the first ones in resolution order are kept.
const MaxFragments = 5

// Fixed per-variant track gains
const (
	GainNarrationMixed = 1.2
	GainMusicMixed     = 0.15
	GainNarrationSolo  = 1.1
	GainMusicSolo      = 0.4
)

// MixMode is the audio-mix variant, a pure function of which audio
// tracks are present
type MixMode int

const (
	MixSilent MixMode = iota
	MixNarrationOnly
	MixMusicOnly
	MixNarrationAndMusic
)

func (m MixMode) String() string {
	switch m {
	case MixNarrationOnly:
		return "narration_only"
	case MixMusicOnly:
		return "music_only"
	case MixNarrationAndMusic:
		return "narration_and_music"
	default:
		return "silent"
	}
}

// AudioMixPlan carries the selected variant with its gains and trim length
type AudioMixPlan struct {
	Mode          MixMode
	NarrationGain float64
	MusicGain     float64
	TrimSec       float64
}

// FragmentOp is the transform chain for one video fragment
type FragmentOp struct {
	Input    int
	SliceSec float64
	Filter   string
}

// Graph is the full processing graph for one render: ordered inputs,
// per-fragment transforms, a concat, and the audio mix. Built once per
// run, never mutated.
type Graph struct {
	Inputs        []string
	Fragments     []FragmentOp
	ConcatFilter  string
	Mix           AudioMixPlan
	MixFilter     string
	FilterComplex string
	OutputArgs    []string
	TotalSec      float64
}

// SelectMix picks the audio variant from track presence alone
func SelectMix(narrationPresent, musicPresent bool, totalSec float64) AudioMixPlan {
	switch {
	case narrationPresent && musicPresent:
		return AudioMixPlan{Mode: MixNarrationAndMusic, NarrationGain: GainNarrationMixed, MusicGain: GainMusicMixed, TrimSec: totalSec}
	case narrationPresent:
		return AudioMixPlan{Mode: MixNarrationOnly, NarrationGain: GainNarrationSolo, TrimSec: totalSec}
	case musicPresent:
		return AudioMixPlan{Mode: MixMusicOnly, MusicGain: GainMusicSolo, TrimSec: totalSec}
	default:
		return AudioMixPlan{Mode: MixSilent}
	}
}

// Plan builds the composition graph for the resolved assets. Pure: no I/O,
// deterministic given inputs. Each fragment gets an equal slice of the
// total duration; any rounding remainder is absorbed by the hard output
// duration clamp, never redistributed.
func Plan(fragments []string, narr *types.NarrationAsset, mus *types.MusicAsset, render *config.RenderConfig) (*Graph, error) {
	if len(fragments) == 0 {
		return nil, fmt.Errorf("no fragments to compose")
	}
	if len(fragments) > MaxFragments {
		fragments = fragments[:MaxFragments]
	}

	n := len(fragments)
	total := render.TotalSec
	slice := total / float64(n)

	g := &Graph{
		Inputs:   append([]string(nil), fragments...),
		Mix:      SelectMix(narr != nil, mus != nil, total),
		TotalSec: total,
	}

	var filters []string

	// Per-fragment chain: scale to cover the frame, center-crop, reset
	// timestamps, trim to the assigned slice.
	for i := range fragments {
		f := fmt.Sprintf(
			"[%d:v]scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d,setpts=PTS-STARTPTS,trim=duration=%.3f[v%d]",
			i, render.Width, render.Height, render.Width, render.Height, slice, i,
		)
		g.Fragments = append(g.Fragments, FragmentOp{Input: i, SliceSec: slice, Filter: f})
		filters = append(filters, f)
	}

	// Video-only concat of all transformed fragments
	var concatIn strings.Builder
	for i := range fragments {
		fmt.Fprintf(&concatIn, "[v%d]", i)
	}
	g.ConcatFilter = fmt.Sprintf("%sconcat=n=%d:v=1:a=0[vout]", concatIn.String(), n)
	filters = append(filters, g.ConcatFilter)

	// Audio inputs follow the fragments: narration first, then music
	narrIdx := n
	musIdx := n
	if narr != nil {
		g.Inputs = append(g.Inputs, narr.Path)
		musIdx = n + 1
	}
	if mus != nil {
		g.Inputs = append(g.Inputs, mus.Path)
	}

	switch g.Mix.Mode {
	case MixNarrationAndMusic:
		// Both streams are pre-trimmed to the total duration, so the
		// shortest-stream termination is a no-op safeguard.
		g.MixFilter = fmt.Sprintf(
			"[%d:a]volume=%.2f,atrim=duration=%.3f[an];[%d:a]volume=%.2f,atrim=duration=%.3f[am];[an][am]amix=inputs=2:duration=shortest[aout]",
			narrIdx, g.Mix.NarrationGain, total, musIdx, g.Mix.MusicGain, total,
		)
	case MixNarrationOnly:
		g.MixFilter = fmt.Sprintf("[%d:a]volume=%.2f,atrim=duration=%.3f[aout]", narrIdx, g.Mix.NarrationGain, total)
	case MixMusicOnly:
		g.MixFilter = fmt.Sprintf("[%d:a]volume=%.2f,atrim=duration=%.3f[aout]", musIdx, g.Mix.MusicGain, total)
	}
	if g.MixFilter != "" {
		filters = append(filters, g.MixFilter)
	}

	g.FilterComplex = strings.Join(filters, ";")
	g.OutputArgs = outputArgs(g.Mix.Mode != MixSilent, render)
	return g, nil
}

// outputArgs are fixed regardless of the mix variant: exact frame size
// comes from the filter chain, the duration clamp and container flags
// are always applied.
func outputArgs(hasAudio bool, render *config.RenderConfig) []string {
	args := []string{"-map", "[vout]"}
	if hasAudio {
		args = append(args, "-map", "[aout]", "-c:a", "aac", "-b:a", render.AudioBitrate)
	} else {
		args = append(args, "-an")
	}
	args = append(args,
		"-c:v", "libx264",
		"-preset", render.Preset,
		"-crf", fmt.Sprintf("%d", render.CRF),
		"-r", fmt.Sprintf("%d", render.FPS),
		"-pix_fmt", "yuv420p",
		"-t", fmt.Sprintf("%.3f", render.TotalSec),
		"-movflags", "+faststart",
	)
	return args
}
