package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/bft-labs/replay/internal/domain"
	"github.com/bft-labs/replay/internal/ports"
)

// ChunkWatcher implements ports.ChunkWatcher with fsnotify.
type ChunkWatcher struct {
	logger ports.Logger
}

// NewChunkWatcher creates a watcher that logs watch errors to logger.
func NewChunkWatcher(logger ports.Logger) *ChunkWatcher {
	return &ChunkWatcher{logger: logger}
}

// Watch reports chunk creations in dir until ctx is cancelled. Events for
// files that are not chunks, or for chunks older than the newest seen so far,
// are ignored.
func (w *ChunkWatcher) Watch(ctx context.Context, dir string, fn func(ports.ChunkEvent)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create chunk watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return errors.Wrapf(err, "watch %s", dir)
	}

	var current *domain.Chunk
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Base(event.Name)
			seq, ok := domain.ParseChunkName(name)
			if !ok {
				continue
			}
			if current != nil && seq <= current.Seq {
				continue
			}

			started := domain.Chunk{Seq: seq, Path: filepath.Join(dir, name)}
			ev := ports.ChunkEvent{Started: started}
			if current != nil {
				finished := *current
				if info, err := os.Stat(finished.Path); err == nil {
					finished.Size = info.Size()
				}
				ev.Finished = &finished
			}
			current = &started
			fn(ev)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("chunk watcher error", ports.Err(err))
		}
	}
}
