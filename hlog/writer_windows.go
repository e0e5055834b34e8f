//go:build windows
// +build windows

package hlog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/eventlog"
)

func debugInit(msg string) {
	if os.Getenv("WIFICTL_LOG_INIT") == "" {
		return
	}
	if el, err := eventlog.Open("WifiCtl"); err == nil {
		defer el.Close()
		_ = el.Info(1, "wifictl#init: "+msg)
		return
	}
	fmt.Fprintf(os.Stderr, "wifictl#init: %s\n", msg)
}

func IsTerminal() bool {
	if isService, err := svc.IsWindowsService(); err == nil && isService {
		return false
	}
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

func getLogDir() string {
	appData := os.Getenv("LOCALAPPDATA")
	if appData == "" {
		appData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
	}
	return filepath.Join(appData, "WifiCtl", "logs")
}
