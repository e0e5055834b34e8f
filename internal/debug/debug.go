package debug

import (
	"os"
	"path/filepath"
	"strings"
)

// IsDebuggerAttached reports whether the process looks like it runs under Delve or an IDE.
func IsDebuggerAttached() bool {
	for _, env := range []string{"DELVE_DEBUGGER", "VSCODE_DEBUG_MODE"} {
		if os.Getenv(env) != "" {
			return true
		}
	}
	return strings.HasPrefix(filepath.Base(os.Args[0]), "__debug_bin")
}
