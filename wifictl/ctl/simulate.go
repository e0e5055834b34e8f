package ctl

import (
	"fmt"
	"net"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/asnowfix/wifictl/internal/global"
	"github.com/asnowfix/wifictl/internal/simulator"
)

var simulateFlags struct {
	Listen      string
	HostSymname string
}

func init() {
	simulateCmd.Flags().StringVarP(&simulateFlags.Listen, "listen", "l", "", "address to serve the device API on (default from config, 127.0.0.1:8080)")
	simulateCmd.Flags().StringVar(&simulateFlags.HostSymname, "host-symname", "", "host name reported by the simulated device")
	bindFlag("simulator.listen", simulateCmd.Flags().Lookup("listen"))
	bindFlag("simulator.host_symname", simulateCmd.Flags().Lookup("host-symname"))
	Cmd.AddCommand(simulateCmd)
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Serve a simulated device Wi-Fi API, to try the other commands against",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := logr.FromContextOrDiscard(ctx)
		sc := theConfig.Simulator

		d := simulator.New(simulator.Config{
			HostSymname: sc.HostSymname,
			Networks:    sc.Networks,
			Profiles:    sc.Profiles,
			Connected:   sc.Connected,
			JoinDelay:   sc.JoinDelay,
			Log:         log,
		})

		l, err := net.Listen("tcp", sc.Listen)
		if err != nil {
			return fmt.Errorf("listening on %s: %w", sc.Listen, err)
		}
		fmt.Printf("Simulating %s on http://%s/ (try: wifictl -D %s show)\n", sc.HostSymname, l.Addr(), l.Addr())
		// serve until interrupted, whatever --wait says
		return d.Serve(global.ProcessContext(ctx), l)
	},
}
