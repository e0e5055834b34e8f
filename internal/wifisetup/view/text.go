package view

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

const barsWidth = 5

func bars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > barsWidth {
		n = barsWidth
	}
	return strings.Repeat("#", n) + strings.Repeat(".", barsWidth-n)
}

// Fprint writes the page as plain text tables.
func Fprint(w io.Writer, p Page) error {
	fmt.Fprintf(w, "%s\n\n", p.Title)

	if p.Status != nil {
		FprintStatus(w, p.Status)
	}
	if p.Prompt != nil {
		fmt.Fprintln(w, p.Prompt.Caption)
		if p.Prompt.Manual {
			fmt.Fprintln(w, "  Network: (enter name)")
		} else {
			fmt.Fprintf(w, "  Network:  %s\n  Security: %s\n", p.Prompt.Network, p.Prompt.Security)
		}
		fmt.Fprintln(w)
	}
	if p.Confirm != nil {
		fmt.Fprintf(w, "%s\n\n", p.Confirm.Caption)
	}
	if p.Scan != nil {
		if err := FprintScans(w, p.Scan); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	if p.Profiles != nil {
		if err := FprintProfiles(w, p.Profiles); err != nil {
			return err
		}
	}
	return nil
}

func FprintStatus(w io.Writer, s *StatusMessage) {
	fmt.Fprintf(w, "%s [%s]\n\n", strings.ReplaceAll(s.Text, "\n", " - "), s.Button)
}

func FprintScans(w io.Writer, t *ScanTable) error {
	fmt.Fprintln(w, t.Caption)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNETWORK\tSTRENGTH\tACTION\tSECURE")
	for _, row := range t.Rows {
		secure := ""
		if row.Secure {
			secure = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", row.Index, row.SSID, bars(row.Bars), row.Action, secure)
	}
	return tw.Flush()
}

func FprintProfiles(w io.Writer, t *ProfileTable) error {
	fmt.Fprintln(w, t.Caption)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NETWORK\tSTATUS\t")
	for _, row := range t.Rows {
		fmt.Fprintf(tw, "%s\t%s\t[%s]\n", row.SSID, row.Status, row.Button)
	}
	return tw.Flush()
}
