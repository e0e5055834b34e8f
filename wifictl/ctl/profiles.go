package ctl

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/asnowfix/wifictl/internal/wifisetup/view"
	"github.com/asnowfix/wifictl/wifictl/options"
)

func init() {
	Cmd.AddCommand(profilesCmd)
}

var profilesCmd = &cobra.Command{
	Use:     "profiles",
	Aliases: []string{"ls"},
	Short:   "List the Wi-Fi profiles saved on the device",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newController(ctx, nil, nil)
		if err != nil {
			return err
		}
		if err := c.FetchStatus(ctx); err != nil {
			return err
		}
		if err := c.FetchProfiles(ctx); err != nil {
			return err
		}

		s := c.Snapshot()
		table := view.RenderProfiles(s.Profiles, s.ConnectedSSID())
		if options.Flags.Json {
			return options.PrintResult(table)
		}
		return view.FprintProfiles(os.Stdout, table)
	},
}
