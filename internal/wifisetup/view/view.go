package view

import (
	"github.com/asnowfix/wifictl/pkg/wifi"
)

// Scan table actions
const (
	ActionConnect   = "Connect"
	ActionConnected = "Connected"
	ActionAdHoc     = "ad-hoc"
	ActionNone      = "-"
)

// Status message buttons
const (
	ButtonCancel  = "Cancel"
	ButtonDismiss = "Dismiss"
)

// Profile table buttons
const (
	ButtonDelete     = "Delete"
	ButtonDisconnect = "Disconnect"
)

// Message is the flash message shown above the views.
type Message struct {
	Text    string `json:"text"`
	Dismiss bool   `json:"dismiss"` // the message is final and may be dismissed, rather than cancelled
}

// State is everything the views are rendered from. The controller owns the
// live copy and hands snapshots to Render.
type State struct {
	Status      *wifi.Status      `json:"status,omitempty"`
	Scans       []wifi.ScanResult `json:"scans"`
	Profiles    []wifi.Profile    `json:"profiles"`
	Target      *wifi.ScanResult  `json:"target,omitempty"` // network of the current connection attempt
	Prompting   bool              `json:"prompting,omitempty"`
	Polling     bool              `json:"polling,omitempty"`
	ConfirmSSID string            `json:"confirm_ssid,omitempty"`
	Message     *Message          `json:"message,omitempty"`
}

// ConnectedSSID returns the SSID the device is connected to, if known.
func (s *State) ConnectedSSID() string {
	if s.Status == nil {
		return ""
	}
	return s.Status.ConnectedSSID
}

type StatusMessage struct {
	Text   string `json:"text"`
	Button string `json:"button"`
}

type ScanRow struct {
	Index  int    `json:"index"`
	SSID   string `json:"ssid"`
	Bars   int    `json:"bars"`
	Action string `json:"action"`
	Secure bool   `json:"secure,omitempty"`
}

type ScanTable struct {
	Caption string    `json:"caption"`
	Rows    []ScanRow `json:"rows"`
}

type ProfileRow struct {
	SSID   string `json:"ssid"`
	Status string `json:"status,omitempty"`
	Button string `json:"button"`
}

type ProfileTable struct {
	Caption string       `json:"caption"`
	Rows    []ProfileRow `json:"rows"`
}

type ConnectPrompt struct {
	Caption  string `json:"caption"`
	Network  string `json:"network,omitempty"`
	Security string `json:"security,omitempty"`
	Manual   bool   `json:"manual,omitempty"` // the user types the network name
}

type DeleteConfirm struct {
	Caption    string `json:"caption"`
	SSID       string `json:"ssid"`
	Disconnect bool   `json:"disconnect,omitempty"`
}

// Page is the structured description of the whole screen.
type Page struct {
	Title    string         `json:"title"`
	Status   *StatusMessage `json:"status,omitempty"`
	Prompt   *ConnectPrompt `json:"prompt,omitempty"`
	Confirm  *DeleteConfirm `json:"confirm,omitempty"`
	Scan     *ScanTable     `json:"scan,omitempty"`
	Profiles *ProfileTable  `json:"profiles,omitempty"`
}

// Render maps a state snapshot to a page. It has no side effects.
func Render(s State) Page {
	p := Page{Title: Title(s.Status)}

	if s.Message != nil {
		p.Status = &StatusMessage{Text: s.Message.Text, Button: ButtonCancel}
		if s.Message.Dismiss {
			p.Status.Button = ButtonDismiss
		}
	}

	switch {
	case s.Prompting && s.Target != nil:
		p.Prompt = RenderPrompt(*s.Target)
	case s.ConfirmSSID != "":
		p.Confirm = RenderConfirm(s.ConfirmSSID, s.ConnectedSSID())
	case s.Polling:
		// progress replaces the tables until the attempt ends
	default:
		p.Scan = RenderScans(s.Scans, s.ConnectedSSID())
		p.Profiles = RenderProfiles(s.Profiles, s.ConnectedSSID())
	}
	return p
}

func Title(status *wifi.Status) string {
	if status == nil {
		return "Wifi Status"
	}
	return status.HostSymname + " Wifi Status"
}

// RenderScans renders one row per scan result, in order.
func RenderScans(scans []wifi.ScanResult, connected string) *ScanTable {
	t := &ScanTable{Caption: "Select Wi-Fi Network", Rows: make([]ScanRow, 0, len(scans))}
	for i, scan := range scans {
		row := ScanRow{Index: i, SSID: scan.SSID, Bars: scan.Bars}
		switch {
		case scan.Type == wifi.TypeAdHoc:
			row.Action = ActionAdHoc
		case scan.Type != wifi.TypeAP:
			row.Action = ActionNone
		default:
			if scan.SSID == connected {
				row.Action = ActionConnected
			} else {
				row.Action = ActionConnect
			}
			row.Secure = scan.Security != wifi.SecurityNone && scan.Security != wifi.SecurityUnknown
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// RenderProfiles renders the saved profiles, which are expected to be sorted already.
func RenderProfiles(profiles []wifi.Profile, connected string) *ProfileTable {
	t := &ProfileTable{Caption: "Wi-Fi Profiles", Rows: make([]ProfileRow, 0, len(profiles))}
	for _, prof := range profiles {
		row := ProfileRow{SSID: prof.SSID, Button: ButtonDelete}
		if prof.SSID == connected {
			row.Status = ActionConnected
			row.Button = ButtonDisconnect
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func RenderPrompt(target wifi.ScanResult) *ConnectPrompt {
	p := &ConnectPrompt{Caption: "Connect to network"}
	if target.Manual() {
		p.Manual = true
		return p
	}
	p.Network = target.SSID
	p.Security = target.Security
	return p
}

// RenderConfirm builds the delete confirmation. Deleting the profile of the
// connected network also disconnects from it, and the caption says so.
func RenderConfirm(ssid, connected string) *DeleteConfirm {
	c := &DeleteConfirm{SSID: ssid, Disconnect: ssid == connected}
	c.Caption = "Confirm "
	if c.Disconnect {
		c.Caption += "disconnect and "
	}
	c.Caption += "delete of network " + ssid
	return c
}
