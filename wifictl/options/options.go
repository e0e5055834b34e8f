package options

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"gopkg.in/yaml.v2"

	"github.com/asnowfix/wifictl/hlog"
	"github.com/asnowfix/wifictl/internal/global"
	"github.com/asnowfix/wifictl/internal/wifisetup"
	"github.com/asnowfix/wifictl/pkg/wifi/whttp"
)

const DEVICE_DEFAULT_TIMEOUT time.Duration = whttp.DefaultTimeout

const POLL_DEFAULT_INTERVAL time.Duration = wifisetup.DefaultPollInterval

const RATE_LIMIT_DEFAULT time.Duration = 0

const COMMAND_DEFAULT_TIMEOUT time.Duration = 0 // No timeout by default (wait indefinitely)

const MDNS_BROWSE_DEFAULT_TIMEOUT time.Duration = 5 * time.Second

const SIMULATOR_DEFAULT_LISTEN = "127.0.0.1:8080"

var Flags struct {
	Config       string
	Device       string        // the value taken by --device / -D
	Timeout      time.Duration // the value taken by --timeout / -t
	PollInterval time.Duration // the value taken by --poll-interval
	RateLimit    time.Duration // the value taken by --rate-limit
	Wait         time.Duration // the value taken by --wait / -w
	Verbose      bool
	Debug        bool
	Quiet        bool
	Json         bool
}

func Verbosity() hlog.Verbosity {
	switch {
	case Flags.Debug:
		return hlog.Debug
	case Flags.Verbose:
		return hlog.Verbose
	case Flags.Quiet:
		return hlog.Quiet
	}
	return hlog.Default
}

func CommandLineContext(ctx context.Context, version string) context.Context {
	var cancel context.CancelFunc

	processCtx, processCancel := context.WithCancel(ctx)

	if Flags.Wait > 0 {
		ctx, cancel = context.WithTimeout(processCtx, Flags.Wait)
	} else {
		ctx, cancel = context.WithCancel(processCtx)
	}
	ctx = context.WithValue(ctx, global.CancelKey, cancel)
	ctx = context.WithValue(ctx, global.ProcessContextKey, processCtx)
	ctx = context.WithValue(ctx, global.VersionKey, version)

	go func() {
		log := logr.FromContextOrDiscard(ctx)
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
		select {
		case <-signals:
			log.Info("Received signal")
		case <-processCtx.Done():
		}
		cancel()
		processCancel()
	}()
	return ctx
}

func PrintResult(out any) error {
	if Flags.Json {
		s, err := json.Marshal(out)
		if err != nil {
			return err
		}
		fmt.Println(string(s))
	} else {
		s, err := yaml.Marshal(out)
		if err != nil {
			return err
		}
		fmt.Print(string(s))
	}
	return nil
}
