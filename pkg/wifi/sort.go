package wifi

import (
	"encoding/json"
	"slices"
	"strings"
)

// SignalNone is the signal level of a network that is not heard at all.
const SignalNone = -128

// Bars converts a signal strength in dBm to a 0..5 bar graph.
// Any usable signal gives at least one bar.
func Bars(signal int) int {
	switch {
	case signal <= SignalNone+1:
		return 0
	case signal < -70:
		return 1
	case signal < -60:
		return 2
	case signal < -50:
		return 3
	case signal < -40:
		return 4
	}
	return 5
}

// CompareScans orders scan results for display.
//
// The comparison is asymmetric: when b is not an access point the result is
// a's own signal, and when only a is not an access point it is the reversed
// sign of b's signal. Two access points sort by descending signal, with equal
// signals broken by descending SSID.
func CompareScans(a, b ScanResult) int {
	if b.Type != TypeAP {
		return a.Signal
	}
	if a.Type != TypeAP {
		return -b.Signal
	}
	if a.Signal == b.Signal && a.SSID != b.SSID {
		if b.SSID < a.SSID {
			return -1
		}
		return 1
	}
	return b.Signal - a.Signal
}

// SortScans sorts scan results in place with CompareScans.
func SortScans(results []ScanResult) {
	slices.SortStableFunc(results, CompareScans)
}

// ParseScanResults decodes a wifi_scan_results.json body, sorts the results
// and appends the "Join Other Network..." entry. A body that cannot be decoded
// yields only that entry; the returned error tells the caller why.
func ParseScanResults(body []byte) ([]ScanResult, error) {
	var res ScanResults
	err := json.Unmarshal(body, &res)
	results := res.Scan.Results
	if err != nil {
		results = nil
	}
	out := make([]ScanResult, 0, len(results)+1)
	out = append(out, results...)
	SortScans(out)
	return append(out, JoinOther()), err
}

// SortProfiles sorts profiles by ascending SSID, keeping the order of equal SSIDs.
func SortProfiles(profiles []Profile) {
	slices.SortStableFunc(profiles, func(a, b Profile) int {
		return strings.Compare(a.SSID, b.SSID)
	})
}
