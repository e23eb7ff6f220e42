package ffmpeg

import (
	"context"

	"github.com/pkg/errors"

	"github.com/bft-labs/replay/internal/ports"
)

// Remuxer implements ports.Remuxer with an ffmpeg stream copy.
type Remuxer struct {
	runner
}

// NewRemuxer creates a remuxer that runs bin (usually "ffmpeg").
func NewRemuxer(bin string, logger ports.Logger) *Remuxer {
	return &Remuxer{runner{bin: bin, logger: logger}}
}

// Remux copies every stream of inputPath into a new container at outputPath.
func (r *Remuxer) Remux(ctx context.Context, inputPath, outputPath string) error {
	if _, err := r.run(ctx, remuxArgs(inputPath, outputPath)...); err != nil {
		return errors.Wrapf(err, "remux %s", inputPath)
	}
	return nil
}

func remuxArgs(in, out string) []string {
	return []string{
		"-hide_banner", "-nostdin",
		"-v", "error",
		"-y",
		"-i", in,
		"-c", "copy",
		"-map", "0",
		out,
	}
}
