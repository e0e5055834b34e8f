package ctl

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/asnowfix/wifictl/internal/wifisetup"
	"github.com/asnowfix/wifictl/pkg/wifi"
	"github.com/asnowfix/wifictl/wifictl/options"
)

var connectFlags struct {
	Key    string
	NoWait bool
}

func init() {
	connectCmd.Flags().StringVarP(&connectFlags.Key, "key", "k", "", "network key (prompted for when the network is secured and no key is given)")
	connectCmd.Flags().BoolVar(&connectFlags.NoWait, "no-wait", false, "return once the device accepted the request, without waiting for the outcome")
	Cmd.AddCommand(connectCmd)
}

var connectCmd = &cobra.Command{
	Use:   "connect [index|ssid]",
	Short: "Connect the device to a Wi-Fi network",
	Long: `Connect the device to a Wi-Fi network, given by its index in the scan
table, by its SSID, or picked interactively. An SSID that is not in range is
joined as a manually entered network.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := logr.FromContextOrDiscard(ctx)

		p := &prompter{key: connectFlags.Key, hasKey: cmd.Flags().Changed("key")}
		var renderer wifisetup.Renderer
		if !options.Flags.Json {
			renderer = &statusPrinter{w: os.Stdout}
		}
		c, err := newController(ctx, p, renderer)
		if err != nil {
			return err
		}
		if err := c.Load(ctx); err != nil {
			return err
		}

		var index int
		if len(args) == 0 {
			page := c.Page()
			if index, err = selectNetwork(page.Scan); err != nil {
				return err
			}
		} else {
			if index, p.ssid, err = resolveTarget(c.Snapshot().Scans, args[0]); err != nil {
				return err
			}
		}
		log.V(1).Info("Selected network", "index", index, "manual", p.ssid)

		if err := c.Connect(ctx, index); err != nil {
			return err
		}
		if connectFlags.NoWait {
			return nil
		}

		outcome, err := c.Wait(ctx)
		if err != nil {
			if errors.Is(err, ctx.Err()) {
				c.Cancel()
			}
			return err
		}
		if options.Flags.Json {
			if err := options.PrintResult(outcome); err != nil {
				return err
			}
		}
		if outcome.Kind == wifi.OutcomeFailed {
			return fmt.Errorf("connection failed: %s (error %d)", outcome.Msg, int(outcome.Error))
		}
		return nil
	},
}
