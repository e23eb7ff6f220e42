package ffmpeg

import (
	"context"

	"github.com/pkg/errors"

	"github.com/bft-labs/replay/internal/ports"
)

// Splicer implements ports.Splicer with the ffmpeg concat demuxer.
type Splicer struct {
	runner
}

// NewSplicer creates a splicer that runs bin (usually "ffmpeg").
func NewSplicer(bin string, logger ports.Logger) *Splicer {
	return &Splicer{runner{bin: bin, logger: logger}}
}

// Splice stream-copies the segments listed in listPath into outputPath.
func (s *Splicer) Splice(ctx context.Context, listPath, outputPath string) error {
	if _, err := s.run(ctx, concatArgs(listPath, outputPath)...); err != nil {
		return errors.Wrap(err, "splice recordings")
	}
	return nil
}

func concatArgs(list, out string) []string {
	return []string{
		"-hide_banner", "-nostdin",
		"-v", "error",
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", list,
		"-c", "copy",
		out,
	}
}
