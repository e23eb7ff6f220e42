package cliconfig

import "testing"

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"REPLAY_OUTPUT":       "/env/rec",
				"REPLAY_CHUNK":        "1.5",
				"REPLAY_FRAMERATE":    "25",
				"REPLAY_CONTAINER":    "mp4",
				"REPLAY_FFMPEG":       "/usr/local/bin/ffmpeg",
				"REPLAY_FFPROBE":      "/usr/local/bin/ffprobe",
				"REPLAY_FFPLAY":       "/usr/local/bin/ffplay",
				"REPLAY_LOG_LEVEL":    "warn",
				"REPLAY_INPUT_FORMAT": "v4l2",
				"REPLAY_INPUT_DEVICE": "/dev/video0",
				"REPLAY_WORK_DIR":     "/tmp",
				"REPLAY_DEBUG":        "true",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				OutputDir:    "/env/rec",
				ChunkSeconds: 1.5,
				FrameRate:    25,
				Container:    "mp4",
				FFmpegBin:    "/usr/local/bin/ffmpeg",
				FFprobeBin:   "/usr/local/bin/ffprobe",
				FFplayBin:    "/usr/local/bin/ffplay",
				LogLevel:     "warn",
				InputFormat:  "v4l2",
				InputDevice:  "/dev/video0",
				WorkDir:      "/tmp",
				Debug:        true,
			},
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"REPLAY_OUTPUT": "/env/rec",
				"REPLAY_CHUNK":  "7",
			},
			changed: map[string]bool{"output": true},
			initial: Config{
				OutputDir: "/flag/rec",
			},
			expected: Config{
				OutputDir:    "/flag/rec",
				ChunkSeconds: 7,
			},
		},
		{
			name: "returns error for invalid float",
			envVars: map[string]string{
				"REPLAY_CHUNK": "three",
			},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name: "returns error for invalid int",
			envVars: map[string]string{
				"REPLAY_FRAMERATE": "fast",
			},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name: "handles bool '1' as true",
			envVars: map[string]string{
				"REPLAY_DEBUG": "1",
			},
			changed:  map[string]bool{},
			expected: Config{Debug: true},
		},
		{
			name: "handles bool 'false' as false",
			envVars: map[string]string{
				"REPLAY_DEBUG": "false",
			},
			changed:  map[string]bool{},
			initial:  Config{Debug: true},
			expected: Config{Debug: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)

			if tt.wantErr {
				if err == nil {
					t.Error("ApplyEnvConfig() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnvConfig() unexpected error: %v", err)
			}
			if cfg != tt.expected {
				t.Errorf("ApplyEnvConfig() = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

// Integration test: precedence order (CLI > Env > File)
func TestConfigPrecedence(t *testing.T) {
	trueVal := true

	fileConf := FileConfig{
		OutputDir:    "/file/rec",
		ChunkSeconds: 10,
		FrameRate:    15,
		Debug:        &trueVal,
	}

	t.Setenv("REPLAY_OUTPUT", "/env/rec")
	t.Setenv("REPLAY_CHUNK", "4")

	// Simulate CLI flags
	changed := map[string]bool{
		"output": true,
	}

	cfg := DefaultConfig()
	cfg.OutputDir = "/cli/rec"

	if err := ApplyFileConfig(&cfg, fileConf, changed); err != nil {
		t.Fatalf("ApplyFileConfig failed: %v", err)
	}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig failed: %v", err)
	}

	if cfg.OutputDir != "/cli/rec" {
		t.Errorf("OutputDir = %v, want /cli/rec (CLI should win)", cfg.OutputDir)
	}
	if cfg.ChunkSeconds != 4 {
		t.Errorf("ChunkSeconds = %v, want 4 (env should override file)", cfg.ChunkSeconds)
	}
	if cfg.FrameRate != 15 {
		t.Errorf("FrameRate = %v, want 15 (file should set)", cfg.FrameRate)
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true (file should set)")
	}
	if cfg.Container != DefaultContainer {
		t.Errorf("Container = %v, want default %v", cfg.Container, DefaultContainer)
	}
}
