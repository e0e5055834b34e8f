package debug

import "testing"

func TestIsDebuggerAttached(t *testing.T) {
	t.Setenv("DELVE_DEBUGGER", "")
	t.Setenv("VSCODE_DEBUG_MODE", "")
	if IsDebuggerAttached() {
		t.Skip("test binary runs under a debugger")
	}
	t.Setenv("DELVE_DEBUGGER", "1")
	if !IsDebuggerAttached() {
		t.Error("IsDebuggerAttached() = false with DELVE_DEBUGGER set")
	}
}
