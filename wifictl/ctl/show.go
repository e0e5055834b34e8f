package ctl

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/asnowfix/wifictl/internal/wifisetup/view"
	"github.com/asnowfix/wifictl/wifictl/options"
)

func init() {
	Cmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the whole Wi-Fi setup page: scan results and profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newController(ctx, nil, nil)
		if err != nil {
			return err
		}
		if err := c.Load(ctx); err != nil {
			return err
		}

		page := c.Page()
		if options.Flags.Json {
			return options.PrintResult(page)
		}
		return view.Fprint(os.Stdout, page)
	},
}
