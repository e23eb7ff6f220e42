package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors the persistent parts of Config. Per-invocation values
// such as the playback window are flags only.
type FileConfig struct {
	OutputDir    string  `toml:"output"`
	Container    string  `toml:"container"`
	FFmpegBin    string  `toml:"ffmpeg"`
	FFprobeBin   string  `toml:"ffprobe"`
	FFplayBin    string  `toml:"ffplay"`
	LogLevel     string  `toml:"log_level"`
	ChunkSeconds float64 `toml:"chunk"`
	InputFormat  string  `toml:"input_format"`
	InputDevice  string  `toml:"input_device"`
	FrameRate    int     `toml:"framerate"`
	WorkDir      string  `toml:"work_dir"`
	Debug        *bool   `toml:"debug"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.replay/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".replay", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("output", fc.OutputDir, &cfg.OutputDir)
	s.setString("container", fc.Container, &cfg.Container)
	s.setString("ffmpeg", fc.FFmpegBin, &cfg.FFmpegBin)
	s.setString("ffprobe", fc.FFprobeBin, &cfg.FFprobeBin)
	s.setString("ffplay", fc.FFplayBin, &cfg.FFplayBin)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("input-format", fc.InputFormat, &cfg.InputFormat)
	s.setString("input-device", fc.InputDevice, &cfg.InputDevice)
	s.setString("work-dir", fc.WorkDir, &cfg.WorkDir)

	s.setFloat("chunk", fc.ChunkSeconds, &cfg.ChunkSeconds)
	s.setInt("framerate", fc.FrameRate, &cfg.FrameRate)
	s.setBool("debug", fc.Debug, &cfg.Debug)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
