//go:build !windows

package ffmpeg

import (
	"os"
	"os/exec"
)

func interruptOnCancel(cmd *exec.Cmd) {
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
}
