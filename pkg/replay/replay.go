package replay

import (
	"context"

	"github.com/bft-labs/replay/internal/adapters/ffmpeg"
	"github.com/bft-labs/replay/internal/adapters/fs"
	"github.com/bft-labs/replay/internal/app"
	"github.com/bft-labs/replay/internal/domain"
	"github.com/bft-labs/replay/internal/ports"
)

// Plan is an ordered list of segments covering a playback window.
type Plan = domain.Plan

// Segment is one chunk of a plan, possibly starting at an inpoint.
type Segment = domain.Segment

// PlayResult describes a playback run.
type PlayResult = app.PlayResult

// Errors returned by Replay. Check them with errors.Is.
var (
	ErrDirectoryConflict = domain.ErrDirectoryConflict
	ErrSubprocessFailure = domain.ErrSubprocessFailure
	ErrProbeFailure      = domain.ErrProbeFailure
	ErrEmptyStore        = domain.ErrEmptyStore
	ErrAlreadyRecording  = domain.ErrAlreadyRecording
	ErrInvalidConfig     = domain.ErrInvalidConfig
)

// Replay records chunks into a directory and plays back windows of them.
type Replay struct {
	config   Config
	logger   ports.Logger
	store    *fs.ChunkDir
	recorder *app.Recorder
	player   *app.Player
}

// New creates a Replay for cfg. Zero config fields take their defaults.
func New(cfg Config, opts ...Option) (*Replay, error) {
	cfg.SetDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger

	store := fs.NewChunkDir(cfg.OutputDir, logger)

	recorder := app.NewRecorder(
		store,
		ffmpeg.NewSegmentWriter(cfg.FFmpegBin, cfg.captureSource(), logger),
		fs.NewChunkWatcher(logger),
		logger,
		eventEmitterWrapper{handler: o.eventHandler},
	)

	resolver := app.NewDurationResolver(
		ffmpeg.NewProber(cfg.FFprobeBin, logger),
		ffmpeg.NewRemuxer(cfg.FFmpegBin, logger),
		logger,
	)
	player := app.NewPlayer(
		app.PlayerConfig{WorkDir: cfg.WorkDir, Container: cfg.Container, Debug: cfg.Debug},
		store,
		app.NewSelector(resolver, logger),
		fs.PlanFileWriter{},
		ffmpeg.NewSplicer(cfg.FFmpegBin, logger),
		ffmpeg.NewPresenter(cfg.FFplayBin, logger),
		logger,
	)

	return &Replay{
		config:   cfg,
		logger:   logger,
		store:    store,
		recorder: recorder,
		player:   player,
	}, nil
}

// Dir returns the absolute chunk directory.
func (r *Replay) Dir() string {
	return r.store.Dir()
}

// Prepare readies the chunk directory for a new capture. An existing
// non-empty directory is replaced when force is set and otherwise rejected
// with ErrDirectoryConflict.
func (r *Replay) Prepare(force bool) error {
	return r.recorder.Prepare(force)
}

// Record captures chunks of chunkSeconds until ctx is cancelled or Stop is
// called. Interruption is a normal exit and returns nil.
func (r *Replay) Record(ctx context.Context, chunkSeconds float64) error {
	return r.recorder.Run(ctx, chunkSeconds)
}

// Stop interrupts a running capture.
func (r *Replay) Stop() {
	r.recorder.Stop()
}

// Status returns the capture lifecycle state.
func (r *Replay) Status() State {
	return r.recorder.State()
}

// Play splices the last seconds of the recording and presents it.
// A non-positive window plays nothing and returns a result with Empty set.
func (r *Replay) Play(ctx context.Context, seconds float64) (PlayResult, error) {
	return r.player.Play(ctx, seconds)
}

// Plan returns the segments Play would splice for the last seconds of the
// recording.
func (r *Replay) Plan(ctx context.Context, seconds float64) (Plan, error) {
	return r.player.Preview(ctx, seconds)
}
