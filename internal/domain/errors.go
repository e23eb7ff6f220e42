package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent error conditions in the replay domain.
// They can be checked with errors.Is.
var (
	// ErrDirectoryConflict is returned when capture would write into an
	// existing non-empty directory without --force.
	ErrDirectoryConflict = errors.New("replay: output directory already exists")

	// ErrProbeFailure is returned when a duration cannot be read even from a
	// remuxed copy of a chunk.
	ErrProbeFailure = errors.New("replay: duration unavailable")

	// ErrSubprocessFailure is returned when an external tool fails.
	ErrSubprocessFailure = errors.New("replay: subprocess failed")

	// ErrEmptyStore is returned when playback finds no chunks.
	ErrEmptyStore = errors.New("replay: no recording files to play")

	// ErrUnreadableContainer is returned by duration probes when the file
	// exists but its container cannot be parsed, typically a chunk whose
	// writer was interrupted before the index was flushed.
	ErrUnreadableContainer = errors.New("replay: unreadable container")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("replay: invalid configuration")

	// ErrAlreadyRecording is returned when a recorder is started twice.
	ErrAlreadyRecording = errors.New("replay: recorder already running")

	// ErrInvalidTransition is returned for a lifecycle change the state
	// machine does not allow.
	ErrInvalidTransition = errors.New("replay: invalid state transition")
)

// SubprocessError describes an external tool invocation that did not succeed.
type SubprocessError struct {
	Tool     string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *SubprocessError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s failed", e.Tool)
	if e.ExitCode > 0 {
		fmt.Fprintf(&b, " (exit %d)", e.ExitCode)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		fmt.Fprintf(&b, ": %s", s)
	}
	return b.String()
}

func (e *SubprocessError) Unwrap() error { return e.Err }

// Is makes every SubprocessError match ErrSubprocessFailure.
func (e *SubprocessError) Is(target error) bool {
	return target == ErrSubprocessFailure
}
