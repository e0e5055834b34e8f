package ctl

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/asnowfix/wifictl/pkg/wifi"
	"github.com/asnowfix/wifictl/wifictl/options"
)

func init() {
	Cmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the device Wi-Fi status and connection history",
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
		status := c.Snapshot().Status
		if options.Flags.Json {
			return options.PrintResult(status)
		}
		printStatus(status)
		return nil
	},
}

func printStatus(status *wifi.Status) {
	fmt.Printf("Host:      %s\n", status.HostSymname)
	fmt.Printf("State:     %s\n", status.State)
	fmt.Printf("Connected: %s\n", status.ConnectedSSID)
	if status.ConnectedSSID != "" {
		fmt.Printf("Signal:    %d dBm %s\n", status.RSSI, bars(status.Bars))
	}
	if len(status.ConnectHistory) == 0 {
		return
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NETWORK\tBSSID\tRESULT\tIP")
	for _, h := range status.ConnectHistory {
		result := "?"
		if h.Error != nil {
			result = wifi.ErrorCode(*h.Error).String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", h.SSIDInfo, h.BSSID, result, h.IPAddr)
	}
	w.Flush()
}
