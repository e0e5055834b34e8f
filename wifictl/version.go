package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/asnowfix/wifictl/internal/global"
)

// Set at build time with -ldflags "-X main.Version=..."
var Version string
var Commit string

// getVersion returns the build-time version, else the module version, else the VCS revision.
func getVersion() string {
	if Version != "" {
		return Version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	if Commit != "" {
		return Commit
	}
	return "devel"
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(global.Version(cmd.Context()))
	},
}
