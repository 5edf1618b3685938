package autostart

import (
	"os/exec"
	"runtime"
)

const serviceName = "dirmirror"

// Runner executes an external command and returns its combined output.
type Runner func(name string, args ...string) ([]byte, error)

func run(r Runner, name string, args ...string) ([]byte, error) {
	if r == nil {
		return exec.Command(name, args...).CombinedOutput()
	}

	return r(name, args...)
}

// AutoStarter registers the watch daemon to start with the user session.
type AutoStarter interface {
	Install(execPath string) error
	Uninstall() error
	IsInstalled() (bool, error)
}

func New() AutoStarter {
	switch runtime.GOOS {
	case "windows":
		return &WindowsAutoStarter{}
	case "linux":
		return &LinuxAutoStarter{}
	default:
		return UnsupportedAutoStarter{}
	}
}

type UnsupportedAutoStarter struct{}

func (UnsupportedAutoStarter) Install(string) error {
	return ErrUnsupported
}

func (UnsupportedAutoStarter) Uninstall() error {
	return ErrUnsupported
}

func (UnsupportedAutoStarter) IsInstalled() (bool, error) {
	return false, nil
}
