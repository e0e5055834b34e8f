package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asnowfix/wifictl/wifictl/ctl"
)

func main() {
	cobra.EnableTraverseRunHooks = true
	ctl.Version = getVersion()
	ctl.Cmd.AddCommand(versionCmd)

	err := ctl.Cmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
