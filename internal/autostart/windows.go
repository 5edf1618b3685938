package autostart

import (
	"fmt"
)

const taskName = "DirmirrorWatch"

// WindowsAutoStarter registers a logon task with schtasks.
type WindowsAutoStarter struct {
	// Run executes schtasks; nil means exec.Command.
	Run Runner
}

func createTaskArgs(execPath string) []string {
	return []string{
		"/Create",
		"/TN", taskName,
		"/TR", fmt.Sprintf(`"%s" watch`, execPath),
		"/SC", "ONLOGON",
		"/F",
	}
}

func (w *WindowsAutoStarter) Install(execPath string) error {
	if out, err := run(w.Run, "schtasks", createTaskArgs(execPath)...); err != nil {
		return fmt.Errorf("failed to register task %s: %w\n%s", taskName, err, out)
	}

	return nil
}

func (w *WindowsAutoStarter) Uninstall() error {
	installed, err := w.IsInstalled()
	if err != nil || !installed {
		return err
	}

	if out, err := run(w.Run, "schtasks", "/Delete", "/TN", taskName, "/F"); err != nil {
		return fmt.Errorf("failed to remove task %s: %w\n%s", taskName, err, out)
	}

	return nil
}

// IsInstalled reports a failing query as "not installed"; schtasks exits
// non-zero for a missing task.
func (w *WindowsAutoStarter) IsInstalled() (bool, error) {
	_, err := run(w.Run, "schtasks", "/Query", "/TN", taskName)
	return err == nil, nil
}
