package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	daemonName = "slipwayd"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Path to the directory for runtime files (sockets, PIDs).
//
//	Linux:   $XDG_RUNTIME_DIR/slipwayd or /run/user/<uid>/slipwayd
//	macOS:   ~/Library/Caches/slipwayd/run
func Runtime() string {
	if xdg.RuntimeDir != "" {
		return filepath.Join(xdg.RuntimeDir, daemonName)
	}
	return filepath.Join(xdg.CacheHome, daemonName, "run")
}

// Default path to the Unix domain socket for CLI-to-daemon communication.
func Socket() string {
	return filepath.Join(Runtime(), daemonName+".sock")
}

// Default path to the PID file.
func PIDFile() string {
	return filepath.Join(Runtime(), daemonName+".pid")
}

// Path to the directory for persistent daemon state, used as the parent
// for default build output directories.
//
//	Linux:   ~/.local/state/slipwayd
//	macOS:   ~/Library/Application Support/slipwayd
func State() string {
	return filepath.Join(xdg.StateHome, daemonName)
}

// Default output directory for a named service's build artifacts.
func BuildOutput(service string) string {
	return filepath.Join(State(), "builds", service)
}
