package app

import (
	"context"
	"fmt"

	"github.com/bft-labs/replay/internal/domain"
	"github.com/bft-labs/replay/internal/ports"
)

// Resolver resolves the duration of a chunk in seconds.
type Resolver interface {
	Resolve(ctx context.Context, chunk domain.Chunk) (float64, error)
}

// Selector builds the splice plan for the trailing window of a recording.
type Selector struct {
	resolver Resolver
	logger   ports.Logger
}

// NewSelector creates a selector that resolves durations with resolver.
func NewSelector(resolver Resolver, logger ports.Logger) *Selector {
	return &Selector{resolver: resolver, logger: logger}
}

// Select returns the plan covering the last target seconds of chunks, which
// must be ordered oldest first.
//
// Chunks are walked newest to oldest. Each visited chunk's duration is
// resolved before deciding whether it is needed, so the chunk just past an
// exact boundary is still resolved. The oldest needed chunk becomes a partial
// segment starting at duration - remaining. When target exceeds the recording
// every chunk is included whole.
func (s *Selector) Select(ctx context.Context, chunks []domain.Chunk, target float64) (domain.Plan, error) {
	if target <= 0 || len(chunks) == 0 {
		return domain.Plan{}, nil
	}

	remaining := target
	segs := make([]domain.Segment, 0, 4)
	for i := len(chunks) - 1; i >= 0; i-- {
		c := chunks[i]
		d, err := s.resolver.Resolve(ctx, c)
		if err != nil {
			return domain.Plan{}, fmt.Errorf("select window: %w", err)
		}
		if remaining <= 0 {
			break
		}

		if remaining < d {
			segs = append(segs, domain.Segment{
				Seq:      c.Seq,
				Path:     c.Path,
				Duration: d,
				Inpoint:  d - remaining,
				Partial:  true,
			})
			remaining = 0
			break
		}

		segs = append(segs, domain.Segment{Seq: c.Seq, Path: c.Path, Duration: d})
		remaining -= d
	}

	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}

	if remaining > 0 {
		s.logger.Info("requested window exceeds recording, playing everything",
			ports.Float64("requested", target),
			ports.Float64("available", target-remaining),
		)
	}
	return domain.Plan{Segments: segs}, nil
}
