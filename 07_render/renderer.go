package render

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"promo-shorts-pipeline/06_compose"
)

// Events surfaces renderer lifecycle callbacks. Progress is best-effort
// and not guaranteed monotonic. Either callback may be nil.
type Events struct {
	OnStart    func(cmdline string)
	OnProgress func(pct float64)
}

// Renderer executes a composition graph with a single ffmpeg invocation.
// It never retries; retry policy belongs to the caller.
type Renderer struct {
	ffmpegPath string
}

// New creates a Renderer using ffmpeg from PATH
func New() *Renderer {
	return &Renderer{ffmpegPath: "ffmpeg"}
}

// Run renders the graph to outFile. On terminal success it deletes the
// run's temp inputs under tmpDir; on failure cleanup is best-effort.
func (r *Renderer) Run(ctx context.Context, g *compose.Graph, outFile, tmpDir string, ev Events) error {
	args := []string{"-y"}
	for _, in := range g.Inputs {
		args = append(args, "-i", in)
	}
	args = append(args, "-filter_complex", g.FilterComplex)
	args = append(args, g.OutputArgs...)
	args = append(args, "-progress", "pipe:1", "-nostats", outFile)

	cmd := exec.CommandContext(ctx, r.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stdout pipe: %w", err)
	}

	if ev.OnStart != nil {
		ev.OnStart(r.ffmpegPath + " " + strings.Join(args, " "))
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		if pct, ok := parseProgress(scanner.Text(), g.TotalSec); ok && ev.OnProgress != nil {
			ev.OnProgress(pct)
		}
	}

	if err := cmd.Wait(); err != nil {
		cleanup(tmpDir)
		os.Remove(outFile) // discard partial output
		return fmt.Errorf("ffmpeg render: %w: %s", err, stderrTail(stderr.String()))
	}

	cleanup(tmpDir)
	return nil
}

// parseProgress extracts a percentage from one `-progress pipe:1` line
func parseProgress(line string, totalSec float64) (float64, bool) {
	if totalSec <= 0 || !strings.HasPrefix(line, "out_time_ms=") {
		return 0, false
	}
	us, err := strconv.ParseInt(strings.TrimPrefix(line, "out_time_ms="), 10, 64)
	if err != nil || us < 0 {
		return 0, false
	}
	pct := float64(us) / 1e6 / totalSec * 100
	if pct > 100 {
		pct = 100
	}
	return pct, true
}

// cleanup deletes run temp inputs, swallowing errors
func cleanup(tmpDir string) {
	if tmpDir == "" {
		return
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		log.Printf("[render] temp cleanup failed: %v", err)
	}
}

// stderrTail keeps the last few lines of ffmpeg output, which carry the
// actual engine diagnostic
func stderrTail(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return strings.Join(lines, " | ")
}
