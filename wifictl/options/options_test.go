package options

import (
	"context"
	"testing"
	"time"

	"github.com/asnowfix/wifictl/hlog"
	"github.com/asnowfix/wifictl/internal/global"
)

func TestVerbosity(t *testing.T) {
	defer func() { Flags.Verbose, Flags.Debug, Flags.Quiet = false, false, false }()

	if v := Verbosity(); v != hlog.Default {
		t.Errorf("no flag: %d", v)
	}
	Flags.Quiet = true
	if v := Verbosity(); v != hlog.Quiet {
		t.Errorf("--quiet: %d", v)
	}
	Flags.Quiet, Flags.Verbose = false, true
	if v := Verbosity(); v != hlog.Verbose {
		t.Errorf("--verbose: %d", v)
	}
	Flags.Verbose, Flags.Debug = false, true
	if v := Verbosity(); v != hlog.Debug {
		t.Errorf("--debug: %d", v)
	}
}

func TestCommandLineContext(t *testing.T) {
	defer func() { Flags.Wait = 0 }()
	Flags.Wait = 50 * time.Millisecond

	ctx := CommandLineContext(context.Background(), "v0.1.0")
	if global.Version(ctx) != "v0.1.0" {
		t.Errorf("version = %q", global.Version(ctx))
	}
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("--wait did not bound the command context")
	}
	if global.ProcessContext(ctx).Err() != nil {
		t.Error("process context cancelled by the command timeout")
	}
	ctx.Value(global.CancelKey).(context.CancelFunc)()
}
