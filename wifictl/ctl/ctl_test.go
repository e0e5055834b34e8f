package ctl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-logr/logr/testr"

	"github.com/asnowfix/wifictl/internal/simulator"
	"github.com/asnowfix/wifictl/internal/wifisetup"
	"github.com/asnowfix/wifictl/internal/wifisetup/view"
	"github.com/asnowfix/wifictl/pkg/wifi"
)

func TestResolveTarget(t *testing.T) {
	scans := []wifi.ScanResult{
		{SSID: "home", BSSID: "02:00:00:00:00:01", Type: wifi.TypeAP},
		{SSID: "42", Type: wifi.TypeAP},
		wifi.JoinOther(),
	}
	tests := []struct {
		arg    string
		index  int
		manual string
	}{
		{"0", 0, ""},
		{"home", 0, ""},
		{"02-00-00-00-00-01", 0, ""},
		{"42", 1, ""}, // out of range as an index, found as an SSID
		{"hidden", 2, "hidden"},
		{wifi.JoinOtherNetwork, 2, wifi.JoinOtherNetwork},
	}
	for _, tt := range tests {
		index, manual, err := resolveTarget(scans, tt.arg)
		if err != nil || index != tt.index || manual != tt.manual {
			t.Errorf("resolveTarget(%q) = %d, %q, %v, want %d, %q", tt.arg, index, manual, err, tt.index, tt.manual)
		}
	}

	for _, arg := range []string{"7", "-1"} {
		if _, _, err := resolveTarget(scans, arg); !errors.Is(err, wifisetup.ErrIndex) {
			t.Errorf("resolveTarget(%q) error = %v, want ErrIndex", arg, err)
		}
	}
}

func TestStatusPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := &statusPrinter{w: &buf}
	p.Render(view.Page{})
	p.Render(view.Page{Status: &view.StatusMessage{Text: "Connection to cafe\nIn progress"}})
	p.Render(view.Page{Status: &view.StatusMessage{Text: "Connection to cafe\nIn progress"}})
	p.Render(view.Page{Status: &view.StatusMessage{Text: "Connection to cafe\nConnection complete"}})

	want := "Connection to cafe: In progress\nConnection to cafe: Connection complete\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestPrompterWithoutTerminal(t *testing.T) {
	p := &prompter{key: "k", hasKey: true, ssid: "hidden", yes: true}
	ssid, key, err := p.Credentials(context.Background(), view.ConnectPrompt{Manual: true})
	if err != nil || ssid != "hidden" || key != "k" {
		t.Errorf("Credentials() = %q, %q, %v", ssid, key, err)
	}
	ok, err := p.Confirm(context.Background(), view.DeleteConfirm{SSID: "x"})
	if !ok || err != nil {
		t.Errorf("Confirm() = %v, %v", ok, err)
	}
}

func deviceStatus(t *testing.T, srv *httptest.Server) *wifi.Status {
	t.Helper()
	res, err := srv.Client().Get(srv.URL + "/" + wifi.StatusPath)
	if err != nil {
		t.Fatalf("GET status: %v", err)
	}
	defer res.Body.Close()
	var body wifi.StatusResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decoding status: %v", err)
	}
	return body.Status
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	Cmd.SetArgs(args)
	return Cmd.ExecuteContext(context.Background())
}

func TestConnectAndDeleteAgainstSimulator(t *testing.T) {
	d := simulator.New(simulator.Config{
		HostSymname: "gw-e2e",
		Profiles:    []string{"attic"},
		JoinDelay:   50 * time.Millisecond,
		Log:         testr.New(t),
	})
	srv := httptest.NewServer(d.Handler())
	defer srv.Close()

	err := run(t, "-q", "-j", "-D", srv.URL, "--poll-interval", "20ms", "-w", "5s", "connect", "cafe")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if s := deviceStatus(t, srv); s.ConnectedSSID != "cafe" {
		t.Errorf("connected = %q", s.ConnectedSSID)
	}

	if err := run(t, "-q", "-j", "-D", srv.URL, "delete", "--yes", "cafe"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if s := deviceStatus(t, srv); s.ConnectedSSID != "" {
		t.Errorf("still connected to %q", s.ConnectedSSID)
	}

	res, err := srv.Client().Get(srv.URL + "/" + wifi.ProfilesPath)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Errorf("profiles status %d", res.StatusCode)
	}
}
