package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	logAdapter "github.com/bft-labs/replay/internal/adapters/log"
	"github.com/bft-labs/replay/internal/cliconfig"
	"github.com/bft-labs/replay/internal/domain"
	"github.com/bft-labs/replay/pkg/replay"
)

const longHelp = `Record your screen into rolling chunk files and play back the last N seconds.

replay start keeps appending fixed-length chunks to a directory until you
press Ctrl-C. replay play stitches the trailing window of that recording
together and opens it in ffplay. ffmpeg, ffprobe and ffplay must be on PATH
or configured with --ffmpeg, --ffprobe and --ffplay.`

var exampleUsage = strings.TrimSpace(`
  replay start --chunk 3 --output ./recordings
  replay play --seconds 30 --output ./recordings
  replay plan --seconds 30 --format yaml
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli carries state shared by the subcommands.
type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	log     zerolog.Logger
}

func main() {
	c := &cli{cfg: cliconfig.DefaultConfig(), log: cliconfig.Logger("info")}

	if err := c.root().Execute(); err != nil {
		c.log.Error().Err(err).Msg("replay")
		os.Exit(1)
	}
}

func (c *cli) root() *cobra.Command {
	root := &cobra.Command{
		Use:           "replay",
		Short:         "Rolling screen recorder with last-N-seconds playback",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.replay/config.toml)")
	pf.StringVar(&c.cfg.OutputDir, "output", c.cfg.OutputDir, "directory holding the chunk files")
	pf.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&c.cfg.Container, "container", c.cfg.Container, "chunk container / file extension")
	pf.StringVar(&c.cfg.FFmpegBin, "ffmpeg", c.cfg.FFmpegBin, "ffmpeg binary")
	pf.StringVar(&c.cfg.FFprobeBin, "ffprobe", c.cfg.FFprobeBin, "ffprobe binary")
	pf.StringVar(&c.cfg.FFplayBin, "ffplay", c.cfg.FFplayBin, "ffplay binary")

	root.AddCommand(c.startCmd(), c.playCmd(), c.planCmd())
	return root
}

func (c *cli) startCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start recording into rolling chunks until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd); err != nil {
				return err
			}
			if err := c.cfg.ValidateCapture(); err != nil {
				return err
			}

			r, err := c.replay()
			if err != nil {
				return err
			}
			if err := r.Prepare(c.cfg.Force); err != nil {
				return err
			}

			c.log.Info().
				Float64("chunk_seconds", c.cfg.ChunkSeconds).
				Str("output", r.Dir()).
				Msg("Starting recording, press Ctrl-C to stop")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return r.Record(ctx, c.cfg.ChunkSeconds)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&c.cfg.ChunkSeconds, "chunk", c.cfg.ChunkSeconds, "duration of each chunk in seconds")
	f.BoolVar(&c.cfg.Force, "force", false, "replace an existing output directory")
	f.StringVar(&c.cfg.InputFormat, "input-format", "", "ffmpeg input format (default: screen grabber for this OS)")
	f.StringVar(&c.cfg.InputDevice, "input-device", "", "ffmpeg input device (default: main screen)")
	f.IntVar(&c.cfg.FrameRate, "framerate", c.cfg.FrameRate, "capture frame rate")
	return cmd
}

func (c *cli) playCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the last N seconds of the recording",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.playback(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c.log.Info().Msgf("Playback will start from %s seconds ago", domain.FormatSeconds(c.cfg.Seconds))
			res, err := r.Play(ctx, c.cfg.Seconds)
			if errors.Is(err, replay.ErrEmptyStore) {
				c.log.Info().Str("output", r.Dir()).Msg("No recording files to play")
				return nil
			}
			if err != nil && ctx.Err() != nil {
				c.log.Info().Msg("playback stopped by user")
				return nil
			}
			if err != nil {
				return err
			}
			if res.Empty {
				c.log.Info().Msg("Nothing to play")
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&c.cfg.Seconds, "seconds", 0, "length of the trailing window to play")
	f.BoolVar(&c.cfg.Debug, "debug", false, "keep the concat list and spliced file")
	f.StringVar(&c.cfg.WorkDir, "work-dir", c.cfg.WorkDir, "directory for playback artifacts")
	_ = cmd.MarkFlagRequired("seconds")
	return cmd
}

func (c *cli) planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show which chunks would be spliced for the last N seconds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.playback(cmd)
			if err != nil {
				return err
			}

			plan, err := r.Plan(cmd.Context(), c.cfg.Seconds)
			if errors.Is(err, replay.ErrEmptyStore) {
				c.log.Info().Str("output", r.Dir()).Msg("No recording files to play")
				return nil
			}
			if err != nil {
				return err
			}
			return writePlan(cmd.OutOrStdout(), c.cfg.Format, c.cfg.Seconds, plan)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&c.cfg.Seconds, "seconds", 0, "length of the trailing window")
	f.StringVar(&c.cfg.Format, "format", c.cfg.Format, "output format: text or yaml")
	_ = cmd.MarkFlagRequired("seconds")
	return cmd
}

func (c *cli) playback(cmd *cobra.Command) (*replay.Replay, error) {
	if err := c.load(cmd); err != nil {
		return nil, err
	}
	if err := c.cfg.ValidatePlayback(); err != nil {
		return nil, err
	}
	return c.replay()
}

// load applies the config file and REPLAY_* environment below any flag set
// on the command line, then rebuilds the logger at the configured level.
func (c *cli) load(cmd *cobra.Command) error {
	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	// Build set of changed flags
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
			return err
		}
	} else if c.cfgPath != "" {
		return fmt.Errorf("config file %s not found", c.cfgPath)
	}

	if err := cliconfig.ApplyEnvConfig(&c.cfg, changed); err != nil {
		return fmt.Errorf("environment: %w", err)
	}

	c.log = cliconfig.Logger(c.cfg.LogLevel)
	c.log.Debug().Interface("config", c.cfg).Msg("configuration")
	return nil
}

func (c *cli) replay() (*replay.Replay, error) {
	return replay.New(replay.Config{
		OutputDir:   c.cfg.OutputDir,
		Container:   c.cfg.Container,
		FFmpegBin:   c.cfg.FFmpegBin,
		FFprobeBin:  c.cfg.FFprobeBin,
		FFplayBin:   c.cfg.FFplayBin,
		InputFormat: c.cfg.InputFormat,
		InputDevice: c.cfg.InputDevice,
		FrameRate:   c.cfg.FrameRate,
		WorkDir:     c.cfg.WorkDir,
		Debug:       c.cfg.Debug,
	}, replay.WithLogger(logAdapter.NewZerologAdapter(c.log)))
}
