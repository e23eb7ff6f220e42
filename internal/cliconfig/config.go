package cliconfig

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bft-labs/replay/internal/domain"
)

// Defaults shared by the capture and playback commands.
const (
	DefaultOutputDir    = "./recordings"
	DefaultChunkSeconds = 3
	DefaultFrameRate    = 30
	DefaultContainer    = "mkv"
)

// Config holds CLI configuration for replay.
type Config struct {
	// Shared
	OutputDir  string
	Container  string
	FFmpegBin  string
	FFprobeBin string
	FFplayBin  string
	LogLevel   string

	// Capture
	ChunkSeconds float64
	Force        bool
	InputFormat  string // empty selects the OS default
	InputDevice  string // empty selects the OS default
	FrameRate    int

	// Playback
	Seconds float64
	Debug   bool
	WorkDir string
	Format  string // plan output: text or yaml
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		OutputDir:    DefaultOutputDir,
		Container:    DefaultContainer,
		FFmpegBin:    "ffmpeg",
		FFprobeBin:   "ffprobe",
		FFplayBin:    "ffplay",
		LogLevel:     "info",
		ChunkSeconds: DefaultChunkSeconds,
		FrameRate:    DefaultFrameRate,
		WorkDir:      ".",
		Format:       "text",
	}
}

// Validate checks the fields every command uses and sets derived defaults.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return invalid("output is required")
	}

	c.Container = strings.TrimPrefix(c.Container, ".")
	if c.Container == "" {
		return invalid("container is required")
	}
	if strings.ContainsAny(c.Container, `/\.`) {
		return invalid("container must be a bare extension, got %q", c.Container)
	}

	for flag, bin := range map[string]string{
		"ffmpeg":  c.FFmpegBin,
		"ffprobe": c.FFprobeBin,
		"ffplay":  c.FFplayBin,
	} {
		if bin == "" {
			return invalid("%s binary is required", flag)
		}
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return invalid("log-level: %v", err)
	}
	return nil
}

// ValidateCapture validates the configuration of the start command.
func (c *Config) ValidateCapture() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if !finite(c.ChunkSeconds) || c.ChunkSeconds <= 0 {
		return invalid("chunk must be a positive number of seconds")
	}
	if c.FrameRate <= 0 {
		return invalid("framerate must be positive")
	}
	return nil
}

// ValidatePlayback validates the configuration of the play and plan
// commands. A non-positive window is valid and plays nothing.
func (c *Config) ValidatePlayback() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if !finite(c.Seconds) {
		return invalid("seconds must be a finite number")
	}
	if c.WorkDir == "" {
		c.WorkDir = "."
	}
	switch c.Format {
	case "text", "yaml":
	case "":
		c.Format = "text"
	default:
		return invalid("format must be text or yaml, got %q", c.Format)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, fmt.Sprintf(format, args...))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setFloat sets a float64 value if positive and flag not changed.
func (s *configSetter) setFloat(flag string, value float64, dst *float64) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setFloatFromString parses a string to float64 and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setFloatFromString(flag, value string, dst *float64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if f <= 0 {
		return nil
	}
	*dst = f
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
