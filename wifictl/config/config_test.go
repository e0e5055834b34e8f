package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

const sample = `device: 192.168.4.1
timeout: 2s
poll_interval: 500ms
simulator:
  listen: 127.0.0.1:9999
  join_delay: 1s
  networks:
    - ssid: lab
      bssid: "02:00:00:00:00:aa"
      security: WPA2 Personal AES
      type: AP
      signal: -55
      key: labkey
`

func writeSample(t *testing.T) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "wifictl.yaml")
	if err := os.WriteFile(file, []byte(sample), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return file
}

func TestDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	v := New()
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Timeout != time.Second || cfg.PollInterval != time.Second || cfg.RateLimit != 0 || cfg.Device != "" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Simulator.Listen != "127.0.0.1:8080" {
		t.Errorf("simulator = %+v", cfg.Simulator)
	}
}

func TestFileEnvFlagPrecedence(t *testing.T) {
	v := New()
	if err := Read(v, writeSample(t)); err != nil {
		t.Fatalf("Read: %v", err)
	}
	t.Setenv("WIFICTL_TIMEOUT", "3s")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Duration("poll-interval", time.Second, "")
	fs.String("device", "", "")
	if err := v.BindPFlag("poll_interval", fs.Lookup("poll-interval")); err != nil {
		t.Fatal(err)
	}
	if err := v.BindPFlag("device", fs.Lookup("device")); err != nil {
		t.Fatal(err)
	}
	if err := fs.Parse([]string{"--poll-interval", "250ms"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Device != "192.168.4.1" {
		t.Errorf("device = %q, want the file value", cfg.Device)
	}
	if cfg.Timeout != 3*time.Second {
		t.Errorf("timeout = %v, want the env value", cfg.Timeout)
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Errorf("poll_interval = %v, want the flag value", cfg.PollInterval)
	}
	if len(cfg.Simulator.Networks) != 1 || cfg.Simulator.Networks[0].Key != "labkey" || cfg.Simulator.JoinDelay != time.Second {
		t.Errorf("simulator = %+v", cfg.Simulator)
	}
}

func TestReadMissingFile(t *testing.T) {
	v := New()
	if err := Read(v, filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("explicit missing file accepted")
	}
}

func TestLoadRejectsBadDurations(t *testing.T) {
	v := New()
	v.Set("timeout", "0s")
	if _, err := Load(v); err == nil {
		t.Error("zero timeout accepted")
	}
}
