//go:build !windows

package mynet

import "github.com/go-logr/logr"

// InitializeFirewall does nothing outside of Windows.
func InitializeFirewall(logger logr.Logger) error {
	return nil
}
