package wifi

// Paths of the device local web server Wi-Fi API, relative to the device base URL.
const (
	StatusPath      = "wifi_status.json"
	ScanPath        = "wifi_scan.json"
	ScanResultsPath = "wifi_scan_results.json"
	ConnectPath     = "wifi_connect.json"
	ProfilesPath    = "wifi_profiles.json"
	ProfilePath     = "wifi_profile.json"
)

// BSS types as reported by the device
const (
	TypeUnknown = "Unknown"
	TypeAP      = "AP"
	TypeAdHoc   = "Ad hoc"
)

// Security names with a special meaning for the client
const (
	SecurityNone    = "None"
	SecurityUnknown = "Unknown"
)

// JoinOtherNetwork is the SSID of the synthetic entry used for manual network entry.
const JoinOtherNetwork = "Join Other Network..."

// ScanResult is one Wi-Fi network observed in the most recent scan.
type ScanResult struct {
	SSID     string `json:"ssid"`
	BSSID    string `json:"bssid,omitempty"` // MAC address of the AP, absent for manual entries
	Security string `json:"security"`        // e.g. "None", "WPA2 Personal AES"
	Type     string `json:"type"`            // "AP", "Ad hoc" or "Unknown"
	Chan     int    `json:"chan,omitempty"`
	Signal   int    `json:"signal"` // dBm
	Bars     int    `json:"bars"`   // 0..5
}

// Secured reports whether joining the network requires a key.
func (s ScanResult) Secured() bool {
	return s.Security != SecurityNone
}

// Manual reports whether this is the synthetic "Join Other Network..." entry.
func (s ScanResult) Manual() bool {
	return s.SSID == JoinOtherNetwork
}

// JoinOther returns the synthetic entry appended after every scan.
func JoinOther() ScanResult {
	return ScanResult{
		SSID:     JoinOtherNetwork,
		Bars:     0,
		Security: SecurityUnknown,
		Type:     TypeAP,
	}
}

// ScanResults is the body of GET wifi_scan_results.json
type ScanResults struct {
	Scan struct {
		MTime   int64        `json:"mtime"`
		Results []ScanResult `json:"results"`
	} `json:"wifi_scan"`
}

// Profile is a previously saved network credential set.
type Profile struct {
	SSID     string `json:"ssid"`
	Security string `json:"security,omitempty"`
}

// Profiles is the body of GET wifi_profiles.json
type Profiles struct {
	Profiles []Profile `json:"wifi_profiles"`
}

// HistoryEntry is one connection attempt as recorded by the device.
// Last and Error are pointers so that a missing field can be told apart from zero.
type HistoryEntry struct {
	SSIDInfo     string   `json:"ssid_info,omitempty"`
	SSIDLen      int      `json:"ssid_len,omitempty"`
	BSSID        string   `json:"bssid,omitempty"`
	Error        *int     `json:"error"`
	Msg          string   `json:"msg,omitempty"`
	MTime        int64    `json:"mtime,omitempty"`
	Last         *int     `json:"last"`
	IPAddr       string   `json:"ip_addr,omitempty"`
	Netmask      string   `json:"netmask,omitempty"`
	DefaultRoute string   `json:"default_route,omitempty"`
	DNSServers   []string `json:"dns_servers,omitempty"`
}

// Status contains the current Wi-Fi connection state of the device.
type Status struct {
	ConnectedSSID  string         `json:"connected_ssid"`
	State          string         `json:"state,omitempty"`
	ConnectHistory []HistoryEntry `json:"connect_history"` // most recent first, null when empty
	HostSymname    string         `json:"host_symname"`
	WPS            string         `json:"wps,omitempty"`
	RSSI           int            `json:"rssi,omitempty"`
	Bars           int            `json:"bars,omitempty"`
}

// StatusResponse is the body of GET wifi_status.json
type StatusResponse struct {
	Status *Status `json:"wifi_status"`
}

// ConnectError is the body returned by POST wifi_connect.json on failure
type ConnectError struct {
	Error int    `json:"error,omitempty"`
	Msg   string `json:"msg"`
}
