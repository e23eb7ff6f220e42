package ports

import "context"

// DurationProber reads the duration of a media file in seconds.
// A file whose container cannot be parsed yields domain.ErrUnreadableContainer.
type DurationProber interface {
	Probe(ctx context.Context, path string) (float64, error)
}

// Remuxer rewrites a media file into a new container without re-encoding.
type Remuxer interface {
	Remux(ctx context.Context, inputPath, outputPath string) error
}

// SegmentWriter records a live source into sequentially numbered chunk files
// in dir. It blocks until ctx is cancelled or the recording fails.
type SegmentWriter interface {
	Record(ctx context.Context, dir string, chunkSeconds float64) error
}

// Splicer joins the segments described by a concat list into one file,
// honoring any inpoint directive.
type Splicer interface {
	Splice(ctx context.Context, listPath, outputPath string) error
}

// Presenter plays a media file. When start is non-nil playback seeks to that
// offset (seconds) first.
type Presenter interface {
	Present(ctx context.Context, path string, start *float64) error
}
