package simulator

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-logr/logr/testr"

	"github.com/asnowfix/wifictl/pkg/wifi"
)

func newDevice(t *testing.T) (*Device, *httptest.Server) {
	t.Helper()
	d := New(Config{
		HostSymname: "gw-test",
		Profiles:    []string{"neighbour"},
		Connected:   "cafe",
		JoinDelay:   50 * time.Millisecond,
		Log:         testr.New(t),
	})
	srv := httptest.NewServer(d.Handler())
	t.Cleanup(srv.Close)
	return d, srv
}

func call(t *testing.T, srv *httptest.Server, method, target string, v any) int {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+"/"+target, nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	res, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	if v != nil && len(body) > 0 {
		if err := json.Unmarshal(body, v); err != nil {
			t.Fatalf("%s %s: decoding %q: %v", method, target, body, err)
		}
	}
	return res.StatusCode
}

func status(t *testing.T, srv *httptest.Server, query string) *wifi.Status {
	t.Helper()
	var res wifi.StatusResponse
	if code := call(t, srv, http.MethodGet, wifi.StatusPath+query, &res); code != http.StatusOK {
		t.Fatalf("status code %d", code)
	}
	if res.Status == nil {
		t.Fatal("missing wifi_status")
	}
	return res.Status
}

func TestInitialStatus(t *testing.T) {
	_, srv := newDevice(t)
	s := status(t, srv, "")
	if s.HostSymname != "gw-test" || s.ConnectedSSID != "cafe" || s.State != "connected" {
		t.Errorf("status = %+v", s)
	}
	if s.ConnectHistory != nil {
		t.Errorf("history = %+v, want null", s.ConnectHistory)
	}
}

func TestScanResults(t *testing.T) {
	_, srv := newDevice(t)
	if code := call(t, srv, http.MethodPost, wifi.ScanPath, nil); code != http.StatusNoContent {
		t.Errorf("scan code %d", code)
	}
	var res wifi.ScanResults
	call(t, srv, http.MethodGet, wifi.ScanResultsPath, &res)
	if len(res.Scan.Results) != len(DefaultNetworks()) {
		t.Fatalf("results = %d", len(res.Scan.Results))
	}
	for _, r := range res.Scan.Results {
		if r.Bars != wifi.Bars(r.Signal) {
			t.Errorf("%s: bars %d for signal %d", r.SSID, r.Bars, r.Signal)
		}
	}
}

func TestConnectRejected(t *testing.T) {
	_, srv := newDevice(t)
	var e wifi.ConnectError
	if code := call(t, srv, http.MethodPost, wifi.ConnectPath+"?ssid=nowhere", &e); code != http.StatusBadRequest || e.Error != int(wifi.ErrNotFound) {
		t.Errorf("unknown network: %d %+v", code, e)
	}
	e = wifi.ConnectError{}
	if code := call(t, srv, http.MethodPost, wifi.ConnectPath+"?bssid=02:00:00:00:00:01", &e); code != http.StatusBadRequest || e.Msg != "invalid key" {
		t.Errorf("missing key: %d %+v", code, e)
	}
	e = wifi.ConnectError{}
	if code := call(t, srv, http.MethodPost, wifi.ConnectPath+"?ssid=cafe&key=x", &e); code != http.StatusBadRequest || e.Error != int(wifi.ErrInvKey) {
		t.Errorf("key for open network: %d %+v", code, e)
	}
}

func TestConnectLifecycle(t *testing.T) {
	_, srv := newDevice(t)
	if code := call(t, srv, http.MethodPost, wifi.ConnectPath+"?bssid=02:00:00:00:00:01&key=secret123", nil); code != http.StatusAccepted {
		t.Fatalf("connect code %d", code)
	}

	s := status(t, srv, "?bssid=02:00:00:00:00:01")
	if o := wifi.Classify(s); o.Kind != wifi.OutcomeInProgress {
		t.Errorf("outcome = %v, want in-progress", o.Kind)
	}

	time.Sleep(200 * time.Millisecond)
	s = status(t, srv, "?bssid=02:00:00:00:00:01")
	if o := wifi.Classify(s); o.Kind != wifi.OutcomeComplete {
		t.Errorf("outcome = %v, want complete", o.Kind)
	}
	if s.ConnectedSSID != "home" {
		t.Errorf("connected = %q", s.ConnectedSSID)
	}

	// other networks do not see this attempt
	if s := status(t, srv, "?ssid=cafe"); len(s.ConnectHistory) != 0 {
		t.Errorf("cafe history = %+v", s.ConnectHistory)
	}

	var profiles wifi.Profiles
	call(t, srv, http.MethodGet, wifi.ProfilesPath, &profiles)
	found := false
	for _, p := range profiles.Profiles {
		found = found || p.SSID == "home"
	}
	if !found {
		t.Errorf("profiles = %+v, want home saved", profiles.Profiles)
	}
}

func TestConnectWrongKey(t *testing.T) {
	_, srv := newDevice(t)
	call(t, srv, http.MethodPost, wifi.ConnectPath+"?ssid=home&key=nope", nil)
	time.Sleep(200 * time.Millisecond)

	o := wifi.Classify(status(t, srv, "?ssid=home"))
	if o.Kind != wifi.OutcomeFailed || o.Error != wifi.ErrWrongKey || o.Msg != "incorrect key" {
		t.Errorf("outcome = %+v", o)
	}
}

func TestDeleteProfile(t *testing.T) {
	_, srv := newDevice(t)
	if code := call(t, srv, http.MethodDelete, wifi.ProfilePath, nil); code != http.StatusBadRequest {
		t.Errorf("no ssid: %d", code)
	}
	if code := call(t, srv, http.MethodDelete, wifi.ProfilePath+"?ssid=attic", nil); code != http.StatusNotFound {
		t.Errorf("unknown ssid: %d", code)
	}
	if code := call(t, srv, http.MethodDelete, wifi.ProfilePath+"?ssid=cafe", nil); code != http.StatusNoContent {
		t.Errorf("connected ssid: %d", code)
	}
	if s := status(t, srv, ""); s.ConnectedSSID != "" {
		t.Errorf("still connected to %q", s.ConnectedSSID)
	}
}
