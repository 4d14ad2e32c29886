// Package daemon installs the calc daemon as a systemd user service.
package daemon

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

const unitName = "calc.service"

const unitTemplate = `[Unit]
Description=calc daemon
After=default.target

[Service]
ExecStart=/path/to/calc daemon --config=/path/to/config --daemon-socket=/path/to/socket
Restart=on-failure

[Install]
WantedBy=default.target
`

// systemctl is replaced in tests.
var systemctl = func(args ...string) error {
	out, err := exec.Command("systemctl", append([]string{"--user"}, args...)...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("systemctl --user %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}

// UnitPath is where the user unit file is written.
func UnitPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to find the user config directory: %w", err)
	}
	return filepath.Join(dir, "systemd", "user", unitName), nil
}

// renderUnit fills the unit template for the given binary and paths.
func renderUnit(exePath, configPath, socketPath string) string {
	r := strings.NewReplacer(
		"/path/to/calc", exePath,
		"/path/to/config", configPath,
		"/path/to/socket", socketPath,
	)
	return r.Replace(unitTemplate)
}

func Install(configPath, socketPath string) error {
	// Get the path to the current executable
	exePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get the path to the current executable: %w", err)
	}
	exePath, err = filepath.Abs(exePath)
	if err != nil {
		return fmt.Errorf("failed to get the absolute path to the current executable: %w", err)
	}
	configPath, err = filepath.Abs(configPath)
	if err != nil {
		return fmt.Errorf("failed to get the absolute path to the config: %w", err)
	}

	logrus.Infof("current executable path: %s", exePath)

	unitPath, err := UnitPath()
	if err != nil {
		return err
	}

	logrus.Infof("writing user unit to %s", unitPath)

	// mkdir -p
	err = os.MkdirAll(filepath.Dir(unitPath), 0755)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(unitPath), err)
	}

	// warn if the file already exists
	_, err = os.Stat(unitPath)
	if err == nil {
		logrus.Warnf("%s already exists, overwriting", unitPath)
	}

	err = os.WriteFile(unitPath, []byte(renderUnit(exePath, configPath, socketPath)), 0644)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", unitPath, err)
	}

	logrus.Infof("starting calc daemon")

	if err := systemctl("daemon-reload"); err != nil {
		return err
	}
	return systemctl("enable", "--now", unitName)
}
