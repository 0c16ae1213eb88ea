package autostart

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/cristianoliveira/nvr/internal/ports"
)

// ExecSpawner starts detached processes with os/exec.
type ExecSpawner struct {
	// BaseEnv is the environment the overrides are applied on top of.
	BaseEnv []string
}

var _ ports.Spawner = ExecSpawner{}

// Spawn starts argv with env appended to BaseEnv and does not wait for it.
// Standard streams are connected to the null device.
func (s ExecSpawner) Spawn(argv []string, env []string) (int, error) {
	if len(argv) == 0 {
		return 0, errors.New("empty command")
	}
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return 0, fmt.Errorf("find %s: %w", argv[0], err)
	}

	cmd := exec.Command(path, argv[1:]...)
	cmd.Env = append(append([]string(nil), s.BaseEnv...), env...)
	cmd.SysProcAttr = detachedSysProcAttr()
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start %s: %w", argv[0], err)
	}
	pid := cmd.Process.Pid
	_ = cmd.Process.Release()
	return pid, nil
}
