//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// detach puts the child in a new session so it outlives the prompt draw and
// never receives the terminal's signals.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
