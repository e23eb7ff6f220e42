package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/bft-labs/replay/internal/domain"
	"github.com/bft-labs/replay/internal/ports"
)

// DurationResolver reads chunk durations, falling back to a remuxed copy for
// chunks whose container cannot be parsed.
type DurationResolver struct {
	prober  ports.DurationProber
	remuxer ports.Remuxer
	logger  ports.Logger
}

// NewDurationResolver creates a resolver from its collaborators.
func NewDurationResolver(prober ports.DurationProber, remuxer ports.Remuxer, logger ports.Logger) *DurationResolver {
	return &DurationResolver{prober: prober, remuxer: remuxer, logger: logger}
}

// Resolve returns the duration of chunk in seconds.
//
// Only an unreadable container triggers the fallback; any other probe error
// is returned as is. The fixed copy never outlives the call.
func (r *DurationResolver) Resolve(ctx context.Context, chunk domain.Chunk) (float64, error) {
	d, err := r.prober.Probe(ctx, chunk.Path)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, domain.ErrUnreadableContainer) {
		return 0, fmt.Errorf("probe chunk %d: %w", chunk.Seq, err)
	}

	r.logger.Warn("chunk duration unreadable, remuxing",
		ports.Int("seq", chunk.Seq),
		ports.String("path", chunk.Path),
		ports.Err(err),
	)
	return r.resolveFixed(ctx, chunk)
}

func (r *DurationResolver) resolveFixed(ctx context.Context, chunk domain.Chunk) (float64, error) {
	fixed := domain.FixedCopyPath(chunk.Path)
	defer r.removeFixed(fixed)

	if err := r.remuxer.Remux(ctx, chunk.Path, fixed); err != nil {
		if errors.Is(err, domain.ErrSubprocessFailure) {
			return 0, fmt.Errorf("remux chunk %d: %w", chunk.Seq, err)
		}
		return 0, fmt.Errorf("remux chunk %d: %w: %w", chunk.Seq, domain.ErrSubprocessFailure, err)
	}

	d, err := r.prober.Probe(ctx, fixed)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, fmt.Errorf("chunk %d: %w: %w: %v", chunk.Seq, domain.ErrSubprocessFailure, domain.ErrProbeFailure, err)
	}

	r.logger.Debug("resolved duration from fixed copy",
		ports.Int("seq", chunk.Seq),
		ports.Float64("duration", d),
	)
	return d, nil
}

func (r *DurationResolver) removeFixed(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		r.logger.Warn("failed to remove fixed copy", ports.String("path", path), ports.Err(err))
	}
}
