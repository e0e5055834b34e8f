package ctl

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/asnowfix/wifictl/internal/mynet"
	"github.com/asnowfix/wifictl/wifictl/options"
)

var discoverFlags struct {
	Service string
	Timeout time.Duration
}

func init() {
	discoverCmd.Flags().StringVarP(&discoverFlags.Service, "service", "s", mynet.DefaultService, "DNS-SD service type to browse")
	discoverCmd.Flags().DurationVarP(&discoverFlags.Timeout, "browse-timeout", "b", options.MDNS_BROWSE_DEFAULT_TIMEOUT, "how long to listen for answers")
	Cmd.AddCommand(discoverCmd)
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find device web servers on the local network over mDNS",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logr.FromContextOrDiscard(cmd.Context())
		if err := mynet.InitializeFirewall(log); err != nil {
			log.Error(err, "Unable to open the firewall for mDNS")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), discoverFlags.Timeout)
		defer cancel()
		devices, err := mynet.Browse(ctx, log, discoverFlags.Service, "local.")
		if err != nil {
			return err
		}

		if options.Flags.Json {
			return options.PrintResult(devices)
		}
		if len(devices) == 0 {
			fmt.Fprintln(os.Stderr, "No device found")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "INSTANCE\tHOST\tURL")
		for _, d := range devices {
			fmt.Fprintf(w, "%s\t%s\t%s\n", d.Instance, d.HostName, d.URL)
		}
		return w.Flush()
	},
}
