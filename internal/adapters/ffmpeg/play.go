package ffmpeg

import (
	"context"

	"github.com/pkg/errors"

	"github.com/bft-labs/replay/internal/domain"
	"github.com/bft-labs/replay/internal/ports"
)

// Presenter implements ports.Presenter with ffplay.
type Presenter struct {
	runner
}

// NewPresenter creates a presenter that runs bin (usually "ffplay").
func NewPresenter(bin string, logger ports.Logger) *Presenter {
	return &Presenter{runner{bin: bin, logger: logger}}
}

// Present plays path and blocks until the player exits.
func (p *Presenter) Present(ctx context.Context, path string, start *float64) error {
	if _, err := p.run(ctx, playArgs(path, start)...); err != nil {
		return errors.Wrapf(err, "play %s", path)
	}
	return nil
}

func playArgs(path string, start *float64) []string {
	args := []string{"-v", "quiet"}
	if start != nil {
		args = append(args, "-ss", domain.FormatSeconds(*start))
	}
	return append(args, path)
}
