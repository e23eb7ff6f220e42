package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/bft-labs/replay/internal/domain"
	"github.com/bft-labs/replay/internal/ports"
)

// Prober implements ports.DurationProber with ffprobe.
type Prober struct {
	runner
}

// NewProber creates a prober that runs bin (usually "ffprobe").
func NewProber(bin string, logger ports.Logger) *Prober {
	return &Prober{runner{bin: bin, logger: logger}}
}

// Probe returns the container duration of path in seconds.
//
// A probe that runs but cannot produce a duration (non-zero exit, "N/A", junk
// output) reports domain.ErrUnreadableContainer. A probe that cannot be run at
// all reports domain.ErrSubprocessFailure only.
func (p *Prober) Probe(ctx context.Context, path string) (float64, error) {
	out, err := p.run(ctx, probeArgs(path)...)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return 0, fmt.Errorf("%w: %w", domain.ErrUnreadableContainer, err)
		}
		return 0, err
	}

	d, err := parseDuration(string(out))
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", domain.ErrUnreadableContainer, path, err)
	}
	return d, nil
}

func probeArgs(path string) []string {
	return []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
}

func parseDuration(out string) (float64, error) {
	s := strings.TrimSpace(out)
	if s == "" || s == "N/A" {
		return 0, fmt.Errorf("no duration reported")
	}
	// ffprobe prints one value per stream section; the first is the format's.
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	d, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}
