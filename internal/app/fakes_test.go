package app

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/bft-labs/replay/internal/domain"
	"github.com/bft-labs/replay/internal/ports"
)

// mockLogger implements ports.Logger for testing.
type mockLogger struct{}

func (mockLogger) Debug(msg string, fields ...ports.Field) {}
func (mockLogger) Info(msg string, fields ...ports.Field)  {}
func (mockLogger) Warn(msg string, fields ...ports.Field)  {}
func (mockLogger) Error(msg string, fields ...ports.Field) {}

// fakeResolver returns fixed durations per sequence number and records the
// order in which chunks were resolved.
type fakeResolver struct {
	durations map[int]float64
	errs      map[int]error
	visited   []int
}

func (f *fakeResolver) Resolve(ctx context.Context, c domain.Chunk) (float64, error) {
	f.visited = append(f.visited, c.Seq)
	if err := f.errs[c.Seq]; err != nil {
		return 0, err
	}
	return f.durations[c.Seq], nil
}

// fakeProber returns durations keyed by path; paths in unreadable fail with
// domain.ErrUnreadableContainer.
type fakeProber struct {
	durations  map[string]float64
	unreadable map[string]bool
	errs       map[string]error
	calls      []string
}

func (f *fakeProber) Probe(ctx context.Context, path string) (float64, error) {
	f.calls = append(f.calls, path)
	if err := f.errs[path]; err != nil {
		return 0, err
	}
	if f.unreadable[path] {
		return 0, domain.ErrUnreadableContainer
	}
	return f.durations[path], nil
}

// fakeRemuxer creates the output file so tests can check it is cleaned up.
type fakeRemuxer struct {
	err   error
	calls [][2]string
}

func (f *fakeRemuxer) Remux(ctx context.Context, in, out string) error {
	f.calls = append(f.calls, [2]string{in, out})
	if werr := os.WriteFile(out, []byte("remuxed"), 0o644); werr != nil {
		return werr
	}
	return f.err
}

// fakePlanWriter renders plans into files like the fs adapter does.
type fakePlanWriter struct {
	err   error
	paths []string
}

func (f *fakePlanWriter) WritePlan(path string, plan domain.Plan) error {
	f.paths = append(f.paths, path)
	if f.err != nil {
		return f.err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return plan.WriteConcatList(file)
}

type fakeSplicer struct {
	err      error
	lists    []string
	listBody []string
	outputs  []string
}

func (f *fakeSplicer) Splice(ctx context.Context, list, out string) error {
	f.lists = append(f.lists, list)
	b, _ := os.ReadFile(list)
	f.listBody = append(f.listBody, string(b))
	f.outputs = append(f.outputs, out)
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(out, []byte("spliced"), 0o644)
}

type fakePresenter struct {
	err   error
	paths []string
}

func (f *fakePresenter) Present(ctx context.Context, path string, start *float64) error {
	f.paths = append(f.paths, path)
	return f.err
}

// fakeStore is an in-memory ports.ChunkStore.
type fakeStore struct {
	mu         sync.Mutex
	dir        string
	chunks     []domain.Chunk
	listErr    error
	prepareErr error
	prepared   []bool
	trimmed    int
}

func (f *fakeStore) Dir() string { return f.dir }

func (f *fakeStore) List() ([]domain.Chunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Chunk(nil), f.chunks...), f.listErr
}

func (f *fakeStore) Prepare(force bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prepared = append(f.prepared, force)
	return f.prepareErr
}

func (f *fakeStore) RemoveEmptyTrailing() (*domain.Chunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trimmed++
	if n := len(f.chunks); n > 0 && f.chunks[n-1].Empty() {
		last := f.chunks[n-1]
		f.chunks = f.chunks[:n-1]
		return &last, nil
	}
	return nil, nil
}

// chunksOf builds chunks with sequence numbers seqs under dir.
func chunksOf(dir string, seqs ...int) []domain.Chunk {
	out := make([]domain.Chunk, len(seqs))
	for i, s := range seqs {
		out[i] = domain.Chunk{Seq: s, Path: chunkPath(dir, s), Size: 1}
	}
	return out
}

func chunkPath(dir string, seq int) string {
	return filepath.Join(dir, strconv.Itoa(seq)+".mkv")
}

// fakeWriter stands in for the ffmpeg segment muxer. It appends chunks to
// the store, then blocks until cancelled unless err is set.
type fakeWriter struct {
	store   *fakeStore
	chunks  []domain.Chunk
	err     error
	started chan struct{}
	once    sync.Once
}

func (f *fakeWriter) Record(ctx context.Context, dir string, chunkSeconds float64) error {
	f.store.mu.Lock()
	f.store.chunks = append(f.store.chunks, f.chunks...)
	f.store.mu.Unlock()
	f.once.Do(func() {
		if f.started != nil {
			close(f.started)
		}
	})
	if f.err != nil {
		return f.err
	}
	<-ctx.Done()
	// ffmpeg exits non-zero when interrupted.
	return &domain.SubprocessError{Tool: "ffmpeg", ExitCode: 255, Err: ctx.Err()}
}

// fakeWatcher emits events and then waits for cancellation.
type fakeWatcher struct {
	events []ports.ChunkEvent
	err    error
}

func (f *fakeWatcher) Watch(ctx context.Context, dir string, fn func(ports.ChunkEvent)) error {
	if f.err != nil {
		return f.err
	}
	for _, ev := range f.events {
		fn(ev)
	}
	<-ctx.Done()
	return nil
}

// recordLogger keeps every message it is given.
type recordLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *recordLogger) record(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, msg)
}

func (l *recordLogger) Debug(msg string, fields ...ports.Field) { l.record(msg) }
func (l *recordLogger) Info(msg string, fields ...ports.Field)  { l.record(msg) }
func (l *recordLogger) Warn(msg string, fields ...ports.Field)  { l.record(msg) }
func (l *recordLogger) Error(msg string, fields ...ports.Field) { l.record(msg) }

func (l *recordLogger) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.msgs...)
}
