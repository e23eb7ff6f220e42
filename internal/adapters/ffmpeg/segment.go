package ffmpeg

import (
	"context"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/pkg/errors"

	"github.com/bft-labs/replay/internal/domain"
	"github.com/bft-labs/replay/internal/ports"
)

// CaptureSource describes the live input handed to ffmpeg.
type CaptureSource struct {
	Format    string // ffmpeg input format, e.g. "avfoundation"
	Device    string // input device for that format
	FrameRate int
	Container string // chunk file extension without the dot
}

// DefaultCaptureSource returns the screen capture input for the current OS.
func DefaultCaptureSource() CaptureSource {
	src := CaptureSource{FrameRate: 30, Container: "mkv"}
	switch runtime.GOOS {
	case "darwin":
		src.Format, src.Device = "avfoundation", "Capture screen 0"
	case "windows":
		src.Format, src.Device = "gdigrab", "desktop"
	default:
		src.Format, src.Device = "x11grab", ":0.0"
	}
	return src
}

// SegmentWriter implements ports.SegmentWriter with the ffmpeg segment muxer.
type SegmentWriter struct {
	runner
	source CaptureSource
}

// NewSegmentWriter creates a segment writer that runs bin (usually "ffmpeg").
func NewSegmentWriter(bin string, source CaptureSource, logger ports.Logger) *SegmentWriter {
	return &SegmentWriter{runner: runner{bin: bin, logger: logger}, source: source}
}

// Record captures the source into dir/<n>.<container> chunks of chunkSeconds
// each until ctx is cancelled or ffmpeg fails.
func (w *SegmentWriter) Record(ctx context.Context, dir string, chunkSeconds float64) error {
	if _, err := w.run(ctx, segmentArgs(w.source, dir, chunkSeconds)...); err != nil {
		return errors.Wrap(err, "record chunks")
	}
	return nil
}

func segmentArgs(src CaptureSource, dir string, chunkSeconds float64) []string {
	fps := strconv.Itoa(src.FrameRate)
	return []string{
		"-hide_banner", "-nostdin",
		"-v", "error",
		"-f", src.Format,
		"-framerate", fps,
		"-i", src.Device,
		"-r", fps,
		"-f", "segment",
		"-segment_time", domain.FormatSeconds(chunkSeconds),
		"-reset_timestamps", "1",
		"-c", "copy",
		filepath.Join(dir, "%d."+src.Container),
	}
}
