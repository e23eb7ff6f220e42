package ffmpeg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/replay/internal/adapters/log"
	"github.com/bft-labs/replay/internal/domain"
)

// fakeTool writes an executable shell script standing in for an ffmpeg tool.
// The script records its arguments, one per line, in $FAKE_ARGS.
func fakeTool(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-ins need a POSIX shell")
	}
	dir := t.TempDir()
	args := filepath.Join(dir, "args")
	t.Setenv("FAKE_ARGS", args)

	script := "#!/bin/sh\nprintf '%s\\n' \"$@\" > \"$FAKE_ARGS\"\n" + body + "\n"
	p := filepath.Join(dir, "tool")
	if err := os.WriteFile(p, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return p
}

func recordedArgs(t *testing.T) []string {
	t.Helper()
	b, err := os.ReadFile(os.Getenv("FAKE_ARGS"))
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(b), "\n"), "\n")
}

func TestProber_Probe(t *testing.T) {
	bin := fakeTool(t, "echo 12.345")
	d, err := NewProber(bin, log.NewNoopLogger()).Probe(context.Background(), "/rec/1.mkv")
	require.NoError(t, err)
	assert.InDelta(t, 12.345, d, 1e-12)
	assert.Equal(t, probeArgs("/rec/1.mkv"), recordedArgs(t))
}

func TestProber_UnreadableContainer(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"non-zero exit", "echo '/rec/1.mkv: Invalid data found when processing input' >&2; exit 1"},
		{"duration not available", "echo N/A"},
		{"garbage output", "echo not-a-number"},
		{"empty output", "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bin := fakeTool(t, tt.body)
			_, err := NewProber(bin, log.NewNoopLogger()).Probe(context.Background(), "/rec/1.mkv")
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrUnreadableContainer)
		})
	}
}

func TestProber_ExitErrorKeepsDiagnostic(t *testing.T) {
	bin := fakeTool(t, "echo 'moov atom not found' >&2; exit 1")
	_, err := NewProber(bin, log.NewNoopLogger()).Probe(context.Background(), "/rec/1.mkv")

	var se *domain.SubprocessError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.ExitCode)
	assert.Contains(t, se.Stderr, "moov atom not found")
}

func TestProber_MissingBinary(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "no-such-ffprobe")
	_, err := NewProber(bin, log.NewNoopLogger()).Probe(context.Background(), "/rec/1.mkv")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSubprocessFailure)
	assert.False(t, errors.Is(err, domain.ErrUnreadableContainer), "a missing tool must not trigger the remux fallback")
}

func TestParseDuration(t *testing.T) {
	d, err := parseDuration("3.000000\n")
	require.NoError(t, err)
	assert.Equal(t, 3.0, d)

	d, err = parseDuration("2.5\n2.4\n")
	require.NoError(t, err)
	assert.Equal(t, 2.5, d)

	for _, bad := range []string{"", "N/A\n", "-1", "NaN", "abc"} {
		_, err := parseDuration(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestRemuxer_Remux(t *testing.T) {
	bin := fakeTool(t, `for last; do :; done; echo remuxed > "$last"`)
	out := filepath.Join(t.TempDir(), "1_fixed.mkv")

	err := NewRemuxer(bin, log.NewNoopLogger()).Remux(context.Background(), "/rec/1.mkv", out)
	require.NoError(t, err)
	assert.FileExists(t, out)
	assert.Equal(t, remuxArgs("/rec/1.mkv", out), recordedArgs(t))
}

func TestRemuxer_Failure(t *testing.T) {
	bin := fakeTool(t, "echo 'EBML header parsing failed' >&2; exit 1")
	err := NewRemuxer(bin, log.NewNoopLogger()).Remux(context.Background(), "/rec/1.mkv", "/tmp/x.mkv")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSubprocessFailure)
	assert.Contains(t, err.Error(), "EBML header parsing failed")
}

func TestSplicer_Splice(t *testing.T) {
	bin := fakeTool(t, "true")
	err := NewSplicer(bin, log.NewNoopLogger()).Splice(context.Background(), "/work/list.txt", "/work/out.mkv")
	require.NoError(t, err)

	args := recordedArgs(t)
	assert.Equal(t, concatArgs("/work/list.txt", "/work/out.mkv"), args)
	assert.Contains(t, strings.Join(args, " "), "-f concat -safe 0 -i /work/list.txt -c copy")
}

func TestPresenter_Present(t *testing.T) {
	bin := fakeTool(t, "true")
	p := NewPresenter(bin, log.NewNoopLogger())

	require.NoError(t, p.Present(context.Background(), "/work/out.mkv", nil))
	assert.Equal(t, []string{"-v", "quiet", "/work/out.mkv"}, recordedArgs(t))

	start := 1.25
	require.NoError(t, p.Present(context.Background(), "/work/out.mkv", &start))
	assert.Equal(t, []string{"-v", "quiet", "-ss", "1.25", "/work/out.mkv"}, recordedArgs(t))
}

func TestSegmentArgs(t *testing.T) {
	src := CaptureSource{Format: "avfoundation", Device: "2", FrameRate: 30, Container: "mkv"}
	args := segmentArgs(src, "/rec", 3)
	joined := strings.Join(args, " ")

	assert.Contains(t, joined, "-f avfoundation -framerate 30 -i 2 -r 30")
	assert.Contains(t, joined, "-f segment -segment_time 3 -reset_timestamps 1 -c copy")
	assert.Equal(t, filepath.Join("/rec", "%d.mkv"), args[len(args)-1])
}

func TestSegmentWriter_CancelInterruptsTool(t *testing.T) {
	// The stand-in records until it receives SIGINT, like ffmpeg.
	bin := fakeTool(t, `trap 'exit 255' INT; while :; do sleep 0.05; done`)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- NewSegmentWriter(bin, DefaultCaptureSource(), log.NewNoopLogger()).Record(ctx, t.TempDir(), 3)
	}()
	cancel()

	err := <-done
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSubprocessFailure)
}

func TestDefaultCaptureSource(t *testing.T) {
	src := DefaultCaptureSource()
	assert.NotEmpty(t, src.Format)
	assert.NotEmpty(t, src.Device)
	assert.Equal(t, 30, src.FrameRate)
	assert.Equal(t, "mkv", src.Container)
}
