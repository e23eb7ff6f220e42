package app

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/bft-labs/replay/internal/domain"
	"github.com/bft-labs/replay/internal/ports"
)

// Recorder runs the capture pipeline: a segment writer appending chunks to
// the store and a watcher reporting each rollover.
type Recorder struct {
	store     ports.ChunkStore
	writer    ports.SegmentWriter
	watcher   ports.ChunkWatcher
	lifecycle *Lifecycle
	logger    ports.Logger
}

// NewRecorder creates a recorder with the given dependencies. emitter may be
// nil.
func NewRecorder(
	store ports.ChunkStore,
	writer ports.SegmentWriter,
	watcher ports.ChunkWatcher,
	logger ports.Logger,
	emitter EventEmitter,
) *Recorder {
	return &Recorder{
		store:     store,
		writer:    writer,
		watcher:   watcher,
		lifecycle: NewLifecycle(logger, emitter),
		logger:    logger,
	}
}

// State returns the recorder's lifecycle state.
func (r *Recorder) State() State {
	return r.lifecycle.State()
}

// Prepare readies the output directory for a new capture.
func (r *Recorder) Prepare(force bool) error {
	if err := r.store.Prepare(force); err != nil {
		return err
	}
	r.logger.Debug("output directory ready",
		ports.String("dir", r.store.Dir()),
		ports.Bool("force", force),
	)
	return nil
}

// Stop interrupts a running capture. Run returns once the writer has exited.
func (r *Recorder) Stop() {
	r.lifecycle.Cancel()
}

// Run records chunks of chunkSeconds into the store until ctx is cancelled
// or Stop is called, which is a normal exit. An empty newest chunk is deleted
// on every exit path. A writer failure is returned as is, so it matches
// domain.ErrSubprocessFailure.
func (r *Recorder) Run(ctx context.Context, chunkSeconds float64) error {
	if err := r.lifecycle.TransitionTo(StateStarting, "run"); err != nil {
		return errors.Wrap(domain.ErrAlreadyRecording, err.Error())
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	r.lifecycle.SetCancel(cancel)

	if ctx.Err() != nil {
		_ = r.lifecycle.TransitionTo(StateStopping, "interrupted")
		_ = r.lifecycle.TransitionTo(StateStopped, "interrupted")
		r.logger.Info("recording stopped by user")
		return nil
	}

	dir := r.store.Dir()
	r.logger.Info("Recording started",
		ports.String("chunk", domain.FormatSeconds(chunkSeconds)+"s"),
		ports.String("output", dir),
	)

	g, gctx := errgroup.WithContext(ctx)
	watchCtx, stopWatch := context.WithCancel(gctx)
	defer stopWatch()

	g.Go(func() error {
		defer stopWatch()
		return r.writer.Record(gctx, dir, chunkSeconds)
	})
	g.Go(func() error {
		// Rollover events only feed the log, so capture outlives the watcher.
		if err := r.watcher.Watch(watchCtx, dir, r.onChunk); err != nil {
			r.logger.Warn("chunk watcher stopped", ports.Err(err))
		}
		return nil
	})
	_ = r.lifecycle.TransitionTo(StateRunning, "writer started")

	err := g.Wait()
	interrupted := ctx.Err() != nil
	if err != nil && !interrupted {
		r.finish()
		_ = r.lifecycle.TransitionTo(StateCrashed, err.Error())
		return errors.Wrap(err, "capture")
	}

	reason := "writer exited"
	if interrupted {
		reason = "interrupted"
	}
	_ = r.lifecycle.TransitionTo(StateStopping, reason)
	r.finish()
	_ = r.lifecycle.TransitionTo(StateStopped, reason)

	if interrupted {
		r.logger.Info("recording stopped by user")
	}
	return nil
}

func (r *Recorder) onChunk(ev ports.ChunkEvent) {
	if ev.Finished != nil {
		r.logger.Info("chunk finished",
			ports.Int("seq", ev.Finished.Seq),
			ports.String("size", humanize.Bytes(uint64(ev.Finished.Size))),
		)
	}
	r.logger.Debug("chunk started",
		ports.Int("seq", ev.Started.Seq),
		ports.String("path", ev.Started.Path),
	)
}

// finish removes an empty trailing chunk and logs what the capture produced.
func (r *Recorder) finish() {
	removed, err := r.store.RemoveEmptyTrailing()
	if err != nil {
		r.logger.Warn("failed to remove empty chunk", ports.Err(err))
	} else if removed != nil {
		r.logger.Info("removed empty chunk", ports.Int("seq", removed.Seq))
	}

	chunks, err := r.store.List()
	if err != nil {
		r.logger.Warn("failed to list chunks", ports.Err(err))
		return
	}
	var total int64
	for _, c := range chunks {
		total += c.Size
	}
	r.logger.Info("capture finished",
		ports.Int("chunks", len(chunks)),
		ports.String("size", humanize.Bytes(uint64(total))),
	)
}
