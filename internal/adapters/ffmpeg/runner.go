// Package ffmpeg implements the media ports by invoking ffmpeg, ffprobe and
// ffplay as subprocesses.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/bft-labs/replay/internal/domain"
	"github.com/bft-labs/replay/internal/ports"
)

// WaitDelay bounds how long a cancelled tool may take to exit after it has
// been sent an interrupt before it is killed.
var WaitDelay = 5 * time.Second

// stderrTail is the number of trailing stderr bytes kept for diagnostics.
const stderrTail = 4 << 10

type runner struct {
	bin    string
	logger ports.Logger
}

// command builds a cancellable command. Cancellation asks the tool to quit
// instead of killing it so ffmpeg can finalize the file it is writing. A tool
// still running WaitDelay later is killed.
func (r runner) command(ctx context.Context, args []string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, r.bin, args...)
	interruptOnCancel(cmd)
	cmd.WaitDelay = WaitDelay
	return cmd
}

// run executes the tool and returns its stdout. Any failure is returned as a
// *domain.SubprocessError carrying the tail of stderr.
func (r runner) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := r.command(ctx, args)
	var stdout bytes.Buffer
	sink := &stderrSink{tool: r.bin, logger: r.logger}
	cmd.Stdout = &stdout
	cmd.Stderr = sink

	r.logger.Debug("exec", ports.String("cmd", r.bin+" "+strings.Join(args, " ")))
	if err := cmd.Run(); err != nil {
		sink.flush()
		return stdout.Bytes(), r.failure(args, sink.String(), err)
	}
	sink.flush()
	return stdout.Bytes(), nil
}

func (r runner) failure(args []string, stderr string, err error) error {
	se := &domain.SubprocessError{
		Tool:   r.bin,
		Args:   args,
		Stderr: stderr,
		Err:    err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		se.ExitCode = exitErr.ExitCode()
	}
	return se
}

// stderrSink logs tool output line by line and keeps the last bytes of it.
type stderrSink struct {
	tool   string
	logger ports.Logger

	mu      sync.Mutex
	partial []byte
	tail    []byte
}

func (s *stderrSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tail = append(s.tail, p...)
	if len(s.tail) > stderrTail {
		s.tail = s.tail[len(s.tail)-stderrTail:]
	}

	s.partial = append(s.partial, p...)
	for {
		i := bytes.IndexByte(s.partial, '\n')
		if i < 0 {
			break
		}
		s.log(s.partial[:i])
		s.partial = s.partial[i+1:]
	}
	return len(p), nil
}

func (s *stderrSink) flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.partial) > 0 {
		s.log(s.partial)
		s.partial = nil
	}
}

func (s *stderrSink) log(line []byte) {
	text := strings.TrimSpace(string(line))
	if text == "" {
		return
	}
	s.logger.Debug(text, ports.String("tool", s.tool))
}

func (s *stderrSink) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.tail)
}
