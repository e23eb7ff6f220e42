package app

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/bft-labs/replay/internal/domain"
	"github.com/bft-labs/replay/internal/ports"
)

// PlayerConfig controls where playback artifacts are written.
type PlayerConfig struct {
	WorkDir   string // directory for the concat list and spliced file
	Container string // extension of the spliced file, without the dot
	Debug     bool   // keep artifacts after playback
}

// PlayResult describes a playback run.
type PlayResult struct {
	// Empty is set when the window was empty and nothing was spliced.
	Empty    bool
	Plan     domain.Plan
	PlanPath string
	Output   string
}

// Player splices the trailing window of a recording and presents it.
type Player struct {
	config    PlayerConfig
	store     ports.ChunkStore
	selector  *Selector
	plans     ports.PlanWriter
	splicer   ports.Splicer
	presenter ports.Presenter
	logger    ports.Logger
}

// NewPlayer creates a player with the given dependencies.
func NewPlayer(
	config PlayerConfig,
	store ports.ChunkStore,
	selector *Selector,
	plans ports.PlanWriter,
	splicer ports.Splicer,
	presenter ports.Presenter,
	logger ports.Logger,
) *Player {
	if config.WorkDir == "" {
		config.WorkDir = "."
	}
	if config.Container == "" {
		config.Container = "mkv"
	}
	return &Player{
		config:    config,
		store:     store,
		selector:  selector,
		plans:     plans,
		splicer:   splicer,
		presenter: presenter,
		logger:    logger,
	}
}

// Preview returns the plan Play would splice for the last seconds of the
// recording without invoking any tool other than the duration probe.
// An empty store yields domain.ErrEmptyStore.
func (p *Player) Preview(ctx context.Context, seconds float64) (domain.Plan, error) {
	chunks, err := p.store.List()
	if err != nil {
		return domain.Plan{}, errors.Wrap(err, "list chunks")
	}
	if len(chunks) == 0 {
		return domain.Plan{}, domain.ErrEmptyStore
	}
	return p.selector.Select(ctx, chunks, seconds)
}

// Play splices the last seconds of the recording into one file and presents
// it. Artifacts are removed afterwards unless the player runs in debug mode.
func (p *Player) Play(ctx context.Context, seconds float64) (PlayResult, error) {
	plan, err := p.Preview(ctx, seconds)
	if err != nil {
		return PlayResult{}, err
	}
	if plan.Empty() {
		p.logger.Info("nothing to play", ports.Float64("seconds", seconds))
		return PlayResult{Empty: true}, nil
	}

	p.logger.Info("splicing window",
		ports.Float64("seconds", seconds),
		ports.Float64("covered", plan.Covered()),
		ports.Int("chunks", plan.Len()),
	)

	res := p.artifacts(plan)
	defer p.cleanup(res)

	if err := p.plans.WritePlan(res.PlanPath, plan); err != nil {
		return res, errors.Wrap(err, "write splice plan")
	}
	if err := p.splicer.Splice(ctx, res.PlanPath, res.Output); err != nil {
		return res, errors.Wrap(err, "splice chunks")
	}
	if err := p.presenter.Present(ctx, res.Output, nil); err != nil {
		return res, errors.Wrap(err, "present")
	}
	return res, nil
}

func (p *Player) artifacts(plan domain.Plan) PlayResult {
	id := uuid.NewString()
	return PlayResult{
		Plan:     plan,
		PlanPath: filepath.Join(p.config.WorkDir, "replay-"+id+".txt"),
		Output:   filepath.Join(p.config.WorkDir, "replay-"+id+"."+p.config.Container),
	}
}

func (p *Player) cleanup(res PlayResult) {
	if p.config.Debug {
		p.logger.Info("keeping playback artifacts",
			ports.String("plan", res.PlanPath),
			ports.String("output", res.Output),
		)
		return
	}
	for _, path := range []string{res.PlanPath, res.Output} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			p.logger.Warn("failed to remove artifact", ports.String("path", path), ports.Err(err))
		}
	}
}
