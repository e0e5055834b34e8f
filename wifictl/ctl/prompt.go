package ctl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/asnowfix/wifictl/internal/wifisetup"
	"github.com/asnowfix/wifictl/internal/wifisetup/view"
)

// prompter asks on the terminal whatever was not given on the command line.
type prompter struct {
	ssid   string // network name for manual entry
	key    string
	hasKey bool
	yes    bool
}

func promptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return wifisetup.ErrCancelled
	}
	return err
}

func (p *prompter) Credentials(ctx context.Context, prompt view.ConnectPrompt) (string, string, error) {
	ssid := prompt.Network
	if prompt.Manual {
		ssid = p.ssid
		if ssid == "" {
			name := promptui.Prompt{
				Label: "Network name",
				Validate: func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("network name is required")
					}
					return nil
				},
			}
			var err error
			if ssid, err = name.Run(); err != nil {
				return "", "", promptError(err)
			}
		}
	}
	if p.hasKey {
		return ssid, p.key, nil
	}

	label := "Key for " + ssid
	if prompt.Security != "" && !prompt.Manual {
		label += " (" + prompt.Security + ")"
	}
	keyPrompt := promptui.Prompt{
		Label: label,
		Mask:  '*',
	}
	key, err := keyPrompt.Run()
	if err != nil {
		return "", "", promptError(err)
	}
	return ssid, key, nil
}

func (p *prompter) Confirm(ctx context.Context, c view.DeleteConfirm) (bool, error) {
	if p.yes {
		return true, nil
	}
	confirm := promptui.Prompt{
		Label:     c.Caption,
		IsConfirm: true,
	}
	if _, err := confirm.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, promptError(err)
	}
	return true, nil
}

// selectNetwork lets the user pick a row of the scan table.
func selectNetwork(table *view.ScanTable) (int, error) {
	items := make([]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		item := fmt.Sprintf("%-32s %s  %s", row.SSID, bars(row.Bars), row.Action)
		if row.Secure {
			item += " (secure)"
		}
		items = append(items, item)
	}
	sel := promptui.Select{
		Label: table.Caption,
		Items: items,
		Size:  10,
	}
	i, _, err := sel.Run()
	if err != nil {
		return -1, promptError(err)
	}
	return i, nil
}
