// Package startup manages launching the daemon on login via an XDG
// autostart desktop entry.
package startup

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bnema/cursorlock/internal/logger"
)

const desktopFileName = "cursorlock.desktop"

// desktopEntry launches the daemon minimized on session start.
const desktopEntry = `[Desktop Entry]
Type=Application
Name=cursorlock
Comment=Confine the mouse cursor to a fixed point
Exec=%s run
Terminal=false
X-GNOME-Autostart-enabled=true
`

// EntryPath returns the autostart desktop file location.
func EntryPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(configDir, "autostart", desktopFileName), nil
}

// IsEnabled reports whether the autostart entry exists.
func IsEnabled() bool {
	path, err := EntryPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Enable writes the autostart entry pointing at the current executable.
func Enable() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to resolve executable path: %w", err)
	}
	return EnableWithExecutable(exe)
}

// EnableWithExecutable writes the autostart entry for an explicit binary.
func EnableWithExecutable(exe string) error {
	path, err := EntryPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create autostart directory: %w", err)
	}

	content := fmt.Sprintf(desktopEntry, exe)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write autostart entry: %w", err)
	}

	logger.Infof("Autostart enabled at %s", path)
	return nil
}

// Disable removes the autostart entry. Removing a missing entry is not an
// error.
func Disable() error {
	path, err := EntryPath()
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove autostart entry: %w", err)
	}

	logger.Infof("Autostart disabled")
	return nil
}
