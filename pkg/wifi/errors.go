package wifi

import "fmt"

// ErrorCode is the Wi-Fi error reported in connect history entries.
type ErrorCode int

const (
	ErrNone         ErrorCode = iota // none
	ErrMem                           // resource problem
	ErrTime                          // connection timed out
	ErrInvKey                        // invalid key
	ErrNotFound                      // SSID not found
	ErrNotAuth                       // not authenticated
	ErrWrongKey                      // incorrect key
	ErrNoIP                          // failed to get IP address from DHCP
	ErrNoRoute                       // failed to get default gateway from DHCP
	ErrNoDNS                         // failed to get DNS server from DHCP
	ErrAPDisc                        // disconnected by AP
	ErrLOS                           // loss of signal / beacon miss
	ErrClientDNS                     // device service host name lookup failed
	ErrClientRedir                   // device service GET redirected
	ErrClientTime                    // device service connection timed out
	ErrNoProf                        // no empty profile slots
	ErrSecUnsup                      // security method not supported
	ErrNetUnsup                      // network type not supported
	ErrProtocol                      // server incompatible
	ErrClientAuth                    // failed to authenticate to service
	ErrInProgress                    // attempt in progress
)

var errorNames = [...]string{
	"none",
	"resource problem",
	"connection timed out",
	"invalid key",
	"SSID not found",
	"not authenticated",
	"incorrect key",
	"failed to get IP address from DHCP",
	"failed to get default gateway from DHCP",
	"failed to get DNS server from DHCP",
	"disconnected by AP",
	"loss of signal / beacon miss",
	"device service host name lookup failed",
	"device service GET redirected",
	"device service connection timed out",
	"no empty profile slots",
	"security method not supported",
	"network type not supported",
	"server incompatible",
	"failed to authenticate to service",
	"attempt in progress",
}

func (e ErrorCode) String() string {
	if e >= 0 && int(e) < len(errorNames) {
		return errorNames[e]
	}
	return fmt.Sprintf("error %d", int(e))
}

// Int returns a pointer to the code, as used by HistoryEntry.
func (e ErrorCode) Int() *int {
	i := int(e)
	return &i
}
