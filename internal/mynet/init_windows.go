//go:build windows

package mynet

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"golang.org/x/sys/windows"
)

// mDNS answers come back as inbound multicast, which the firewall drops
// unless a rule lets them in.
var firewallRules = []struct {
	name       string
	remoteAddr string
}{
	{name: "wifictl mDNS IPv4", remoteAddr: "224.0.0.0/4"},
	{name: "wifictl mDNS IPv6", remoteAddr: "ff00::/8"},
}

var once sync.Once

// InitializeFirewall lets mDNS responses reach the discover command.
func InitializeFirewall(logger logr.Logger) error {
	var initErr error
	once.Do(func() {
		initErr = initialize(logger.WithName("firewall"))
	})
	return initErr
}

func initialize(log logr.Logger) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}
	exePath, err := filepath.Abs(exe)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	for _, rule := range firewallRules {
		args := []string{
			"advfirewall", "firewall", "add", "rule",
			"name=" + rule.name,
			"dir=in",
			"action=allow",
			"program=" + exePath,
			"protocol=udp",
			"localport=5353",
			"remoteip=" + rule.remoteAddr,
			"enable=yes",
		}
		err := windows.ShellExecute(0, windows.StringToUTF16Ptr("runas"),
			windows.StringToUTF16Ptr("netsh"),
			windows.StringToUTF16Ptr(joinArgs(args)),
			nil, windows.SW_HIDE)
		if err != nil {
			log.Error(err, "Failed to add firewall rule", "rule", rule.name)
			continue
		}
		log.V(1).Info("Added firewall rule", "rule", rule.name)
	}
	return nil
}

func joinArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		if strings.Contains(arg, " ") {
			arg = `"` + arg + `"`
		}
		quoted[i] = arg
	}
	return strings.Join(quoted, " ")
}
