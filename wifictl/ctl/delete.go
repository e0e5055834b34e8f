package ctl

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/asnowfix/wifictl/internal/wifisetup"
	"github.com/asnowfix/wifictl/wifictl/options"
)

var deleteFlags struct {
	Yes bool
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteFlags.Yes, "yes", "y", false, "do not ask for confirmation")
	Cmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:     "delete <ssid>",
	Aliases: []string{"forget", "rm"},
	Short:   "Delete a saved Wi-Fi profile, disconnecting from it if needed",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newController(ctx, &prompter{yes: deleteFlags.Yes}, nil)
		if err != nil {
			return err
		}
		if err := c.Load(ctx); err != nil {
			return err
		}

		err = c.DeleteProfile(ctx, args[0])
		if errors.Is(err, wifisetup.ErrCancelled) {
			fmt.Fprintln(os.Stderr, "Cancelled")
			return nil
		}

		s := c.Snapshot()
		if options.Flags.Json {
			if perr := options.PrintResult(s.Message); perr != nil {
				return perr
			}
		} else if s.Message != nil {
			fmt.Println(s.Message.Text)
		}
		return err
	},
}
