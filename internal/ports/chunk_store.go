package ports

import (
	"context"

	"github.com/bft-labs/replay/internal/domain"
)

// ChunkStore gives access to the chunk directory.
type ChunkStore interface {
	// Dir returns the directory the store manages.
	Dir() string

	// List returns every chunk ordered by sequence number ascending.
	// A missing directory yields an empty list.
	List() ([]domain.Chunk, error)

	// Prepare creates the directory for a new capture. An existing non-empty
	// directory is removed when force is set and is otherwise rejected with
	// domain.ErrDirectoryConflict.
	Prepare(force bool) error

	// RemoveEmptyTrailing deletes the newest chunk if it holds zero bytes.
	RemoveEmptyTrailing() (removed *domain.Chunk, err error)
}

// ChunkEvent is emitted when the capture writer opens a new chunk. Finished
// is the previously open chunk with its final size, nil for the first chunk.
type ChunkEvent struct {
	Started  domain.Chunk
	Finished *domain.Chunk
}

// ChunkWatcher reports chunk files as they are created in a directory.
type ChunkWatcher interface {
	// Watch calls fn for every new chunk until ctx is cancelled.
	Watch(ctx context.Context, dir string, fn func(ChunkEvent)) error
}

// PlanWriter persists a splice plan as a concat list.
type PlanWriter interface {
	WritePlan(path string, plan domain.Plan) error
}
