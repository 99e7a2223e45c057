package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

// runUserRoot holds the per-user runtime directories systemd-logind creates.
var runUserRoot = "/run/user"

// Dir returns the runtime directory holding the daemon socket and state.
// Priority:
// 1) XDG_RUNTIME_DIR (if set)
// 2) /run/user/<uid> (if present)
// 3) $TMPDIR/dockwm-runtime-<uid> (created, private to the user)
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	runUserDir := filepath.Join(runUserRoot, fmt.Sprint(uid))
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	fallback := filepath.Join(os.TempDir(), fmt.Sprintf("dockwm-runtime-%d", uid))
	if err := os.MkdirAll(fallback, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return fallback, nil
}

// SocketPath returns the daemon IPC socket path.
func SocketPath() (string, error) {
	return join("dockwm.sock")
}

// StatePath returns where the daemon keeps the shown workspaces between
// restarts.
func StatePath() (string, error) {
	return join("dockwm-state.json")
}

func join(name string) (string, error) {
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, name), nil
}
