package ctl

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/asnowfix/wifictl/hlog"
	"github.com/asnowfix/wifictl/internal/global"
	"github.com/asnowfix/wifictl/internal/mynet"
	"github.com/asnowfix/wifictl/internal/wifisetup"
	"github.com/asnowfix/wifictl/pkg/wifi/ratelimit"
	"github.com/asnowfix/wifictl/pkg/wifi/whttp"
	"github.com/asnowfix/wifictl/wifictl/config"
	"github.com/asnowfix/wifictl/wifictl/options"
)

var Version string

var theViper = config.New()

var theConfig *config.Config

var Cmd = &cobra.Command{
	Use:           "wifictl",
	Short:         "Set up the Wi-Fi connection of a device through its local web server",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		hlog.Init(options.Verbosity())
		log := hlog.GetLogger("wifictl")
		ctx := logr.NewContext(cmd.Context(), log)

		if err := config.Read(theViper, options.Flags.Config); err != nil {
			log.Error(err, "Failed to read configuration", "file", options.Flags.Config)
			return err
		}
		cfg, err := config.Load(theViper)
		if err != nil {
			return err
		}
		theConfig = cfg
		log.V(1).Info("Configuration", "file", theViper.ConfigFileUsed(), "device", cfg.Device, "timeout", cfg.Timeout, "poll_interval", cfg.PollInterval)

		ctx = options.CommandLineContext(ctx, Version)
		cmd.SetContext(ctx)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if cancel, ok := ctx.Value(global.CancelKey).(context.CancelFunc); ok {
			cancel()
		}
		return nil
	},
}

func init() {
	Cmd.PersistentFlags().StringVarP(&options.Flags.Config, "config", "c", "", "configuration `file` (default is wifictl.yaml in $XDG_CONFIG_HOME/wifictl, ~/.config/wifictl or .)")
	Cmd.PersistentFlags().StringVarP(&options.Flags.Device, "device", "D", "", "device address, as host, host:port or URL (default is the network gateway)")
	Cmd.PersistentFlags().DurationVarP(&options.Flags.Timeout, "timeout", "t", options.DEVICE_DEFAULT_TIMEOUT, "Timeout of each request to the device")
	Cmd.PersistentFlags().DurationVar(&options.Flags.PollInterval, "poll-interval", options.POLL_DEFAULT_INTERVAL, "Interval between connection status polls")
	Cmd.PersistentFlags().DurationVar(&options.Flags.RateLimit, "rate-limit", options.RATE_LIMIT_DEFAULT, "Minimum interval between two requests to the device (0 = no limit)")
	Cmd.PersistentFlags().DurationVarP(&options.Flags.Wait, "wait", "w", options.COMMAND_DEFAULT_TIMEOUT, "Maximum time to wait for command to finish (0 = wait indefinitely)")
	Cmd.PersistentFlags().BoolVarP(&options.Flags.Verbose, "verbose", "v", false, "verbose output (info level, mutually exclusive with --debug and --quiet)")
	Cmd.PersistentFlags().BoolVarP(&options.Flags.Debug, "debug", "d", false, "debug output (debug level, shows V(1) logs, mutually exclusive with --verbose and --quiet)")
	Cmd.PersistentFlags().BoolVarP(&options.Flags.Quiet, "quiet", "q", false, "quiet output (no logs, mutually exclusive with --verbose and --debug)")
	Cmd.PersistentFlags().BoolVarP(&options.Flags.Json, "json", "j", false, "output in json format")

	Cmd.MarkFlagsMutuallyExclusive("verbose", "debug", "quiet")

	bindFlag("device", Cmd.PersistentFlags().Lookup("device"))
	bindFlag("timeout", Cmd.PersistentFlags().Lookup("timeout"))
	bindFlag("poll_interval", Cmd.PersistentFlags().Lookup("poll-interval"))
	bindFlag("rate_limit", Cmd.PersistentFlags().Lookup("rate-limit"))
}

func bindFlag(key string, flag *pflag.Flag) {
	if err := theViper.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

// deviceURL returns the base URL of the device to talk to.
func deviceURL(ctx context.Context, log logr.Logger) (*url.URL, error) {
	if theConfig.Device == "" {
		return mynet.DefaultDevice(log)
	}
	u, err := mynet.DeviceURL(theConfig.Device)
	if err != nil {
		return nil, err
	}
	return mynet.Resolve(ctx, log, u)
}

func newController(ctx context.Context, prompter wifisetup.Prompter, renderer wifisetup.Renderer) (*wifisetup.Controller, error) {
	log := logr.FromContextOrDiscard(ctx)

	base, err := deviceURL(ctx, log)
	if err != nil {
		return nil, fmt.Errorf("locating device: %w", err)
	}
	var limiter *ratelimit.RateLimiter
	if theConfig.RateLimit > 0 {
		limiter = ratelimit.New(theConfig.RateLimit)
	}
	log.Info("Using device", "url", base.String(), "rate_limit", limiter.MinInterval())

	ch := whttp.New(whttp.Config{
		Base:    base,
		Timeout: theConfig.Timeout,
		Client:  &http.Client{},
		Limiter: limiter,
		Log:     log,
	})
	return wifisetup.New(wifisetup.Config{
		Channel:      ch,
		Prompter:     prompter,
		Renderer:     renderer,
		PollInterval: theConfig.PollInterval,
		Log:          log,
	}), nil
}
