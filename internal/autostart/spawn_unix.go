//go:build !windows

package autostart

import "syscall"

// detachedSysProcAttr puts the editor in its own process group so it
// outlives the invocation and its terminal's signals.
func detachedSysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setpgid: true,
	}
}
