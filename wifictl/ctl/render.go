package ctl

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/asnowfix/wifictl/internal/tools"
	"github.com/asnowfix/wifictl/internal/wifisetup"
	"github.com/asnowfix/wifictl/internal/wifisetup/view"
	"github.com/asnowfix/wifictl/pkg/wifi"
)

// statusPrinter prints each new status message on its own line. Tables are
// printed by the commands once they are done.
type statusPrinter struct {
	mu   sync.Mutex
	w    io.Writer
	last string
}

func (p *statusPrinter) Render(page view.Page) {
	if page.Status == nil {
		return
	}
	text := strings.ReplaceAll(page.Status.Text, "\n", ": ")

	p.mu.Lock()
	defer p.mu.Unlock()
	if text == p.last {
		return
	}
	p.last = text
	fmt.Fprintln(p.w, text)
}

func bars(n int) string {
	return strings.Repeat("#", n) + strings.Repeat(".", max(0, 5-n))
}

// resolveTarget maps a command line argument to a scan list index: a row
// index, else a BSSID or an SSID in the list, else a manual entry for that SSID.
// A number that is neither a row nor a listed SSID is refused.
func resolveTarget(scans []wifi.ScanResult, arg string) (index int, manual string, err error) {
	i, nerr := strconv.Atoi(arg)
	if nerr == nil && i >= 0 && i < len(scans) {
		return i, "", nil
	}
	for i, scan := range scans {
		if !scan.Manual() && (scan.SSID == arg || tools.SameMac(scan.BSSID, arg)) {
			return i, "", nil
		}
	}
	if nerr == nil {
		return -1, "", fmt.Errorf("%w: index %d of %d", wifisetup.ErrIndex, i, len(scans))
	}
	for i, scan := range scans {
		if scan.Manual() {
			return i, arg, nil
		}
	}
	return -1, arg, nil
}
