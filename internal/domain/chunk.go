package domain

import (
	"path/filepath"
	"strconv"
	"strings"
)

// Chunk is a single recorded media file in the chunk store.
type Chunk struct {
	// Seq is the sequence number parsed from the file name (e.g. 12 for "12.mkv").
	Seq int

	// Path is the location of the chunk file.
	Path string

	// Size is the file size in bytes at the time the store was listed.
	Size int64
}

// Empty reports whether the chunk holds no bytes.
func (c Chunk) Empty() bool {
	return c.Size == 0
}

// ParseChunkName extracts the sequence number from a chunk file name.
// Only names of the form "<digits>.<ext>" are chunks; fixed copies
// ("3_fixed.mkv"), hidden files and other artifacts are rejected.
func ParseChunkName(name string) (int, bool) {
	ext := filepath.Ext(name)
	if ext == "" || ext == name {
		return 0, false
	}
	stem := strings.TrimSuffix(name, ext)
	if stem == "" {
		return 0, false
	}
	for i := 0; i < len(stem); i++ {
		if stem[i] < '0' || stem[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(stem)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FixedCopyPath returns the sibling path used for a remuxed copy of a chunk:
// "dir/3.mkv" becomes "dir/3_fixed.mkv".
func FixedCopyPath(chunkPath string) string {
	ext := filepath.Ext(chunkPath)
	return strings.TrimSuffix(chunkPath, ext) + "_fixed" + ext
}
