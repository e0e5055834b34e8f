package simulator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/gorilla/mux"

	"github.com/asnowfix/wifictl/internal/tools"
	"github.com/asnowfix/wifictl/pkg/wifi"
)

// DefaultJoinDelay is how long a simulated join attempt stays in progress.
const DefaultJoinDelay = 3 * time.Second

// Network is a simulated nearby network.
type Network struct {
	SSID     string `json:"ssid" mapstructure:"ssid"`
	BSSID    string `json:"bssid" mapstructure:"bssid"`
	Security string `json:"security" mapstructure:"security"`
	Type     string `json:"type" mapstructure:"type"`
	Chan     int    `json:"chan" mapstructure:"chan"`
	Signal   int    `json:"signal" mapstructure:"signal"`
	Key      string `json:"-" mapstructure:"key"`
}

type Config struct {
	HostSymname string
	Networks    []Network
	Profiles    []string // SSIDs with a saved profile
	Connected   string   // SSID the device starts connected to
	JoinDelay   time.Duration
	Log         logr.Logger
}

// Device serves the Wi-Fi JSON API of a device, backed by in-memory state.
type Device struct {
	mu        sync.Mutex
	router    *mux.Router
	log       logr.Logger
	host      string
	networks  []Network
	profiles  map[string]wifi.Profile
	connected string
	state     string
	history   []wifi.HistoryEntry // most recent first
	scanTime  int64
	joinDelay time.Duration
	joins     int // sequence of join attempts
	timer     *time.Timer
}

// DefaultNetworks is a small neighbourhood used when none is configured.
func DefaultNetworks() []Network {
	return []Network{
		{SSID: "home", BSSID: "02:00:00:00:00:01", Security: "WPA2 Personal AES", Type: wifi.TypeAP, Chan: 6, Signal: -48, Key: "secret123"},
		{SSID: "cafe", BSSID: "02:00:00:00:00:02", Security: wifi.SecurityNone, Type: wifi.TypeAP, Chan: 1, Signal: -67},
		{SSID: "neighbour", BSSID: "02:00:00:00:00:03", Security: "WPA2 Personal AES", Type: wifi.TypeAP, Chan: 11, Signal: -81, Key: "hunter22"},
		{SSID: "printer", BSSID: "02:00:00:00:00:04", Security: wifi.SecurityNone, Type: wifi.TypeAdHoc, Chan: 6, Signal: -58},
	}
}

func New(config Config) *Device {
	d := &Device{
		router:    mux.NewRouter(),
		log:       config.Log.WithName("simulator"),
		host:      config.HostSymname,
		networks:  config.Networks,
		profiles:  make(map[string]wifi.Profile),
		connected: config.Connected,
		state:     "disconnected",
		scanTime:  time.Now().Unix(),
		joinDelay: config.JoinDelay,
	}
	if d.host == "" {
		d.host = "wifictl-sim"
	}
	if d.networks == nil {
		d.networks = DefaultNetworks()
	}
	if d.joinDelay <= 0 {
		d.joinDelay = DefaultJoinDelay
	}
	for _, ssid := range config.Profiles {
		d.saveProfile(ssid)
	}
	if d.connected != "" {
		d.saveProfile(d.connected)
		d.state = "connected"
	}

	d.router.Handle("/"+wifi.StatusPath, d.handleGetStatus()).Methods(http.MethodGet)
	d.router.Handle("/"+wifi.ScanPath, d.handlePostScan()).Methods(http.MethodPost)
	d.router.Handle("/"+wifi.ScanResultsPath, d.handleGetScanResults()).Methods(http.MethodGet)
	d.router.Handle("/"+wifi.ConnectPath, d.handlePostConnect()).Methods(http.MethodPost)
	d.router.Handle("/"+wifi.ProfilesPath, d.handleGetProfiles()).Methods(http.MethodGet)
	d.router.Handle("/"+wifi.ProfilePath, d.handleDeleteProfile()).Methods(http.MethodDelete)

	return d
}

func (d *Device) Handler() http.Handler {
	return d.router
}

// Serve answers requests on l until ctx is done.
func (d *Device) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{Handler: d.router}
	go func() {
		<-ctx.Done()
		d.mu.Lock()
		if d.timer != nil {
			d.timer.Stop()
		}
		d.mu.Unlock()
		_ = srv.Shutdown(context.Background())
	}()

	d.log.Info("Serving", "addr", l.Addr().String(), "host", d.host, "networks", len(d.networks))
	err := srv.Serve(l)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("unable to serve simulator: %w", err)
	}
	return nil
}

func (d *Device) saveProfile(ssid string) {
	p := wifi.Profile{SSID: ssid}
	if n := d.lookup("", ssid); n != nil {
		p.Security = n.Security
	}
	d.profiles[ssid] = p
}

// lookup finds a network by BSSID if given, by SSID otherwise.
func (d *Device) lookup(bssid, ssid string) *Network {
	for i := range d.networks {
		n := &d.networks[i]
		if bssid != "" && tools.SameMac(n.BSSID, bssid) {
			return n
		}
		if bssid == "" && n.SSID == ssid {
			return n
		}
	}
	return nil
}

func (d *Device) jsonResponse(w http.ResponseWriter, v any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		d.log.Error(err, "Could not respond with JSON")
	}
}

func (d *Device) handleGetStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		bssid, ssid := q.Get("bssid"), q.Get("ssid")

		d.mu.Lock()
		status := &wifi.Status{
			ConnectedSSID: d.connected,
			State:         d.state,
			HostSymname:   d.host,
			WPS:           "idle",
		}
		for _, h := range d.history {
			if (bssid != "" && !tools.SameMac(h.BSSID, bssid)) || (bssid == "" && ssid != "" && h.SSIDInfo != ssid) {
				continue
			}
			status.ConnectHistory = append(status.ConnectHistory, h)
		}
		if n := d.lookup("", d.connected); d.connected != "" && n != nil {
			status.RSSI = n.Signal
			status.Bars = wifi.Bars(n.Signal)
		}
		d.mu.Unlock()

		d.jsonResponse(w, &wifi.StatusResponse{Status: status}, http.StatusOK)
	}
}

func (d *Device) handlePostScan() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		d.scanTime = time.Now().Unix()
		d.mu.Unlock()
		d.log.V(1).Info("Scan")
		w.WriteHeader(http.StatusNoContent)
	}
}

func (d *Device) handleGetScanResults() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var res wifi.ScanResults
		d.mu.Lock()
		res.Scan.MTime = d.scanTime
		res.Scan.Results = make([]wifi.ScanResult, 0, len(d.networks))
		for _, n := range d.networks {
			res.Scan.Results = append(res.Scan.Results, wifi.ScanResult{
				SSID:     n.SSID,
				BSSID:    n.BSSID,
				Security: n.Security,
				Type:     n.Type,
				Chan:     n.Chan,
				Signal:   n.Signal,
				Bars:     wifi.Bars(n.Signal),
			})
		}
		d.mu.Unlock()
		d.jsonResponse(w, &res, http.StatusOK)
	}
}

func (d *Device) handleGetProfiles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := wifi.Profiles{Profiles: []wifi.Profile{}}
		d.mu.Lock()
		for _, p := range d.profiles {
			res.Profiles = append(res.Profiles, p)
		}
		d.mu.Unlock()
		d.jsonResponse(w, &res, http.StatusOK)
	}
}

func (d *Device) handlePostConnect() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		bssid, ssid := q.Get("bssid"), q.Get("ssid")
		key, hasKey := q.Get("key"), q.Has("key")

		d.mu.Lock()
		defer d.mu.Unlock()

		n := d.lookup(bssid, ssid)
		if n == nil {
			d.log.Info("Connect to unknown network", "ssid", ssid, "bssid", bssid)
			d.jsonResponse(w, &wifi.ConnectError{Error: int(wifi.ErrNotFound), Msg: wifi.ErrNotFound.String()}, http.StatusBadRequest)
			return
		}
		secured := n.Security != wifi.SecurityNone
		if secured != hasKey {
			d.log.Info("Connect with invalid key", "ssid", n.SSID, "secured", secured)
			d.jsonResponse(w, &wifi.ConnectError{Error: int(wifi.ErrInvKey), Msg: wifi.ErrInvKey.String()}, http.StatusBadRequest)
			return
		}

		if d.timer != nil {
			d.timer.Stop()
		}
		d.joins++
		seq := d.joins
		d.state = "joining"
		d.history = append([]wifi.HistoryEntry{{
			SSIDInfo: n.SSID,
			SSIDLen:  len(n.SSID),
			BSSID:    n.BSSID,
			Error:    wifi.ErrInProgress.Int(),
			Last:     intPtr(0),
			MTime:    time.Now().Unix(),
		}}, d.history...)

		target := *n
		d.timer = time.AfterFunc(d.joinDelay, func() {
			d.join(seq, target, key)
		})
		d.log.Info("Joining", "ssid", n.SSID, "bssid", n.BSSID, "delay", d.joinDelay)
		w.WriteHeader(http.StatusAccepted)
	}
}

// join completes attempt seq, unless a newer one superseded it.
func (d *Device) join(seq int, n Network, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if seq != d.joins || len(d.history) == 0 {
		return
	}

	h := &d.history[0]
	h.Last = intPtr(1)
	h.MTime = time.Now().Unix()
	if n.Security != wifi.SecurityNone && key != n.Key {
		h.Error = wifi.ErrWrongKey.Int()
		h.Msg = wifi.ErrWrongKey.String()
		d.state = "disconnected"
		if d.connected == n.SSID {
			d.connected = ""
		}
		d.log.Info("Join failed", "ssid", n.SSID, "error", wifi.ErrWrongKey.String())
		return
	}

	h.Error = wifi.ErrNone.Int()
	h.IPAddr = "192.168.1.42"
	h.Netmask = "255.255.255.0"
	h.DefaultRoute = "192.168.1.1"
	h.DNSServers = []string{"192.168.1.1"}
	d.connected = n.SSID
	d.state = "connected"
	d.saveProfile(n.SSID)
	d.log.Info("Joined", "ssid", n.SSID)
}

func (d *Device) handleDeleteProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ssid := r.URL.Query().Get("ssid")
		if ssid == "" {
			d.jsonResponse(w, &wifi.ConnectError{Msg: "missing ssid"}, http.StatusBadRequest)
			return
		}

		d.mu.Lock()
		defer d.mu.Unlock()
		if _, ok := d.profiles[ssid]; !ok {
			d.jsonResponse(w, &wifi.ConnectError{Error: int(wifi.ErrNotFound), Msg: "profile not found"}, http.StatusNotFound)
			return
		}
		delete(d.profiles, ssid)
		if d.connected == ssid {
			d.connected = ""
			d.state = "disconnected"
		}
		d.log.Info("Deleted profile", "ssid", ssid)
		w.WriteHeader(http.StatusNoContent)
	}
}

func intPtr(i int) *int {
	return &i
}
