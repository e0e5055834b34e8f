package ctl

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/asnowfix/wifictl/internal/wifisetup/view"
	"github.com/asnowfix/wifictl/wifictl/options"
)

var scanFlags struct {
	NoTrigger bool
}

func init() {
	scanCmd.Flags().BoolVarP(&scanFlags.NoTrigger, "no-trigger", "n", false, "show the last scan results without starting a new scan")
	Cmd.AddCommand(scanCmd)
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for Wi-Fi networks around the device",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newController(ctx, nil, nil)
		if err != nil {
			return err
		}
		if err := c.FetchStatus(ctx); err != nil {
			return err
		}
		if scanFlags.NoTrigger {
			err = c.FetchScanResults(ctx)
		} else {
			err = c.Rescan(ctx)
		}
		if err != nil {
			return err
		}

		s := c.Snapshot()
		table := view.RenderScans(s.Scans, s.ConnectedSSID())
		if options.Flags.Json {
			return options.PrintResult(table)
		}
		return view.FprintScans(os.Stdout, table)
	},
}
