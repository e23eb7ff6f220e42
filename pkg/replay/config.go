package replay

import (
	"fmt"
	"strings"

	"github.com/bft-labs/replay/internal/adapters/ffmpeg"
	"github.com/bft-labs/replay/internal/domain"
)

// Config holds the configuration shared by capture and playback.
// Zero fields are filled in by SetDefaults.
type Config struct {
	// OutputDir is the chunk directory.
	OutputDir string

	// Container is the chunk file extension, without the dot.
	Container string

	FFmpegBin  string
	FFprobeBin string
	FFplayBin  string

	// InputFormat and InputDevice select the ffmpeg capture input. They
	// default to the screen grabber of the current OS.
	InputFormat string
	InputDevice string
	FrameRate   int

	// WorkDir receives the concat list and spliced file during playback.
	WorkDir string

	// Debug keeps playback artifacts instead of removing them.
	Debug bool
}

// SetDefaults fills zero fields with default values.
func (c *Config) SetDefaults() {
	src := ffmpeg.DefaultCaptureSource()
	if c.OutputDir == "" {
		c.OutputDir = "./recordings"
	}
	if c.Container == "" {
		c.Container = src.Container
	}
	if c.FFmpegBin == "" {
		c.FFmpegBin = "ffmpeg"
	}
	if c.FFprobeBin == "" {
		c.FFprobeBin = "ffprobe"
	}
	if c.FFplayBin == "" {
		c.FFplayBin = "ffplay"
	}
	if c.InputFormat == "" {
		c.InputFormat = src.Format
	}
	if c.InputDevice == "" {
		c.InputDevice = src.Device
	}
	if c.FrameRate <= 0 {
		c.FrameRate = src.FrameRate
	}
	if c.WorkDir == "" {
		c.WorkDir = "."
	}
}

func (c *Config) validate() error {
	c.Container = strings.TrimPrefix(c.Container, ".")
	if c.Container == "" || strings.ContainsAny(c.Container, `/\.`) {
		return fmt.Errorf("%w: container must be a bare extension, got %q", domain.ErrInvalidConfig, c.Container)
	}
	return nil
}

func (c Config) captureSource() ffmpeg.CaptureSource {
	return ffmpeg.CaptureSource{
		Format:    c.InputFormat,
		Device:    c.InputDevice,
		FrameRate: c.FrameRate,
		Container: c.Container,
	}
}
