package autostart

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

const serviceTemplate = `[Unit]
Description=dirmirror watch daemon
After=local-fs.target

[Service]
ExecStart={{.ExecPath}} watch
Restart=on-failure
RestartSec=5

[Install]
WantedBy=default.target
`

var unitTmpl = template.Must(template.New("service").Parse(serviceTemplate))

type LinuxAutoStarter struct {
	// Dir overrides ~/.config/systemd/user.
	Dir string
	// Run executes systemctl; nil means exec.Command.
	Run Runner
}

func renderUnit(execPath string) ([]byte, error) {
	var buf bytes.Buffer
	if err := unitTmpl.Execute(&buf, map[string]string{"ExecPath": execPath}); err != nil {
		return nil, fmt.Errorf("failed to render service file: %w", err)
	}

	return buf.Bytes(), nil
}

func (l *LinuxAutoStarter) servicePath() (string, error) {
	dir := l.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config", "systemd", "user")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	return filepath.Join(dir, serviceName+".service"), nil
}

func (l *LinuxAutoStarter) systemctl(args ...string) ([]byte, error) {
	return run(l.Run, "systemctl", args...)
}

func (l *LinuxAutoStarter) Install(execPath string) error {
	path, err := l.servicePath()
	if err != nil {
		return err
	}

	unit, err := renderUnit(execPath)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, unit, 0644); err != nil {
		return fmt.Errorf("failed to write service file: %w", err)
	}

	cmds := [][]string{
		{"--user", "daemon-reload"},
		{"--user", "enable", serviceName + ".service"},
		{"--user", "start", serviceName + ".service"},
	}

	for _, args := range cmds {
		if out, err := l.systemctl(args...); err != nil {
			return fmt.Errorf("failed to run systemctl %v: %w\n%s", args, err, out)
		}
	}

	return nil
}

func (l *LinuxAutoStarter) Uninstall() error {
	cmds := [][]string{
		{"--user", "stop", serviceName + ".service"},
		{"--user", "disable", serviceName + ".service"},
	}

	for _, args := range cmds {
		_, _ = l.systemctl(args...)
	}

	path, err := l.servicePath()
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

func (l *LinuxAutoStarter) IsInstalled() (bool, error) {
	path, err := l.servicePath()
	if err != nil {
		return false, err
	}

	_, err = os.Stat(path)
	return err == nil, nil
}
