package mynet

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/go-logr/logr"
	"github.com/jackpal/gateway"
)

// MainInterface returns the interface, and its address, on the same network
// as the default gateway.
func MainInterface(log logr.Logger) (*net.Interface, *net.IP, error) {
	gw, err := gateway.DiscoverGateway()
	if err != nil {
		log.Error(err, "Finding network gateway")
		return nil, nil, err
	}
	log.V(1).Info("Network gateway", "addr", gw.String())

	ifaces, err := net.Interfaces()
	if err != nil {
		log.Error(err, "Listing interfaces")
		return nil, nil, err
	}
	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			log.V(1).Info("Skipping interface", "interface", iface.Name, "error", err.Error())
			continue
		}
		for _, addr := range addrs {
			ip, nw, err := net.ParseCIDR(addr.String())
			if err != nil {
				continue
			}
			if nw.Contains(gw) {
				log.V(1).Info("Selected interface", "interface", iface.Name, "ip", ip, "gw", gw)
				return &iface, &ip, nil
			}
		}
	}
	return nil, nil, fmt.Errorf("did not find any interface on the same network as the network gateway IP %v", gw)
}

// DefaultDevice returns the base URL of the default gateway. When the host
// is joined to the setup access point of a device, the gateway is that device.
func DefaultDevice(log logr.Logger) (*url.URL, error) {
	gw, err := gateway.DiscoverGateway()
	if err != nil {
		return nil, fmt.Errorf("finding network gateway: %w", err)
	}
	log.V(1).Info("Using gateway as device", "addr", gw.String())
	return DeviceURL(gw.String())
}

// DeviceURL turns a host, host:port or URL into a device base URL, with an
// http scheme and a path ending in '/'.
func DeviceURL(device string) (*url.URL, error) {
	device = strings.TrimSpace(device)
	if device == "" {
		return nil, fmt.Errorf("empty device address")
	}
	if !strings.Contains(device, "://") {
		if ip := net.ParseIP(device); ip != nil && ip.To4() == nil {
			device = "[" + device + "]"
		}
		device = "http://" + device
	}
	u, err := url.Parse(device)
	if err != nil {
		return nil, fmt.Errorf("parsing device address: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q in device address", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("missing host in device address %q", device)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
