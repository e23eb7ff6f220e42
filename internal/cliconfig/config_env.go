package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (REPLAY_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("output", os.Getenv("REPLAY_OUTPUT"), &cfg.OutputDir)
	s.setString("container", os.Getenv("REPLAY_CONTAINER"), &cfg.Container)
	s.setString("ffmpeg", os.Getenv("REPLAY_FFMPEG"), &cfg.FFmpegBin)
	s.setString("ffprobe", os.Getenv("REPLAY_FFPROBE"), &cfg.FFprobeBin)
	s.setString("ffplay", os.Getenv("REPLAY_FFPLAY"), &cfg.FFplayBin)
	s.setString("log-level", os.Getenv("REPLAY_LOG_LEVEL"), &cfg.LogLevel)
	s.setString("input-format", os.Getenv("REPLAY_INPUT_FORMAT"), &cfg.InputFormat)
	s.setString("input-device", os.Getenv("REPLAY_INPUT_DEVICE"), &cfg.InputDevice)
	s.setString("work-dir", os.Getenv("REPLAY_WORK_DIR"), &cfg.WorkDir)

	if err := s.setFloatFromString("chunk", os.Getenv("REPLAY_CHUNK"), &cfg.ChunkSeconds); err != nil {
		return err
	}
	if err := s.setIntFromString("framerate", os.Getenv("REPLAY_FRAMERATE"), &cfg.FrameRate); err != nil {
		return err
	}

	s.setBoolFromString("debug", os.Getenv("REPLAY_DEBUG"), &cfg.Debug)

	return nil
}
