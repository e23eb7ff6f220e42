package ffmpeg

import (
	"io"
	"os/exec"
)

// Windows cannot deliver an interrupt to a child process. ffmpeg quits
// cleanly on "q" read from stdin, so cancellation writes that instead. ffplay
// and ffprobe ignore it and are killed after WaitDelay.
func interruptOnCancel(cmd *exec.Cmd) {
	stdin, err := cmd.StdinPipe()
	if err != nil {
		cmd.Cancel = func() error { return cmd.Process.Kill() }
		return
	}
	cmd.Cancel = func() error {
		if _, err := io.WriteString(stdin, "q"); err != nil {
			return cmd.Process.Kill()
		}
		return stdin.Close()
	}
}
