// Package fs implements the chunk directory ports on the local file system.
package fs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bft-labs/replay/internal/domain"
	"github.com/bft-labs/replay/internal/ports"
)

// ChunkDir implements ports.ChunkStore for a directory of "<seq>.<ext>" files.
type ChunkDir struct {
	dir    string
	logger ports.Logger
}

// NewChunkDir creates a ChunkDir for dir. Chunk paths are made absolute so a
// concat list referencing them works from any working directory.
func NewChunkDir(dir string, logger ports.Logger) *ChunkDir {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return &ChunkDir{dir: filepath.Clean(dir), logger: logger}
}

// Dir returns the managed directory.
func (d *ChunkDir) Dir() string { return d.dir }

// List returns the chunks ordered by sequence number. Names that do not parse
// as chunks are skipped.
func (d *ChunkDir) List() ([]domain.Chunk, error) {
	ents, err := os.ReadDir(d.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			d.logger.Warn("chunk directory does not exist", ports.String("dir", d.dir))
			return nil, nil
		}
		return nil, fmt.Errorf("list chunks: %w", err)
	}

	chunks := make([]domain.Chunk, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		seq, ok := domain.ParseChunkName(e.Name())
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("stat chunk %s: %w", e.Name(), err)
		}
		chunks = append(chunks, domain.Chunk{
			Seq:  seq,
			Path: filepath.Join(d.dir, e.Name()),
			Size: info.Size(),
		})
	}

	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Seq < chunks[j].Seq })
	return chunks, nil
}

// Prepare readies the directory for a new capture.
func (d *ChunkDir) Prepare(force bool) error {
	info, err := os.Stat(d.dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// fresh directory
	case err != nil:
		return fmt.Errorf("stat output dir: %w", err)
	case !info.IsDir():
		return fmt.Errorf("%w: %s is not a directory", domain.ErrDirectoryConflict, d.dir)
	case force:
		if err := os.RemoveAll(d.dir); err != nil {
			return fmt.Errorf("clear output dir: %w", err)
		}
		d.logger.Info("cleared output directory", ports.String("dir", d.dir))
	default:
		empty, err := isEmptyDir(d.dir)
		if err != nil {
			return err
		}
		if !empty {
			return fmt.Errorf("%w: %s (use --force to replace it)", domain.ErrDirectoryConflict, d.dir)
		}
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	d.logger.Info("created output directory", ports.String("dir", d.dir))
	return nil
}

// RemoveEmptyTrailing deletes the newest chunk when it holds no bytes. This
// happens when capture stops before the segmenter flushed any data into the
// file it had just opened.
func (d *ChunkDir) RemoveEmptyTrailing() (*domain.Chunk, error) {
	chunks, err := d.List()
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, nil
	}
	last := chunks[len(chunks)-1]
	if !last.Empty() {
		return nil, nil
	}
	if err := os.Remove(last.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("remove empty chunk: %w", err)
	}
	return &last, nil
}

func isEmptyDir(dir string) (bool, error) {
	f, err := os.Open(dir)
	if err != nil {
		return false, fmt.Errorf("open output dir: %w", err)
	}
	defer f.Close()
	names, err := f.Readdirnames(1)
	if len(names) > 0 {
		return false, nil
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read output dir: %w", err)
	}
	return true, nil
}
