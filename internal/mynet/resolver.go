package mynet

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"github.com/grandcat/zeroconf"
	mdns "github.com/pion/mdns/v2"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

// DefaultService is the DNS-SD service type advertised by device web servers.
const DefaultService = "_http._tcp"

// Device is a device web server found on the local network.
type Device struct {
	Instance string   `json:"instance"`
	HostName string   `json:"hostname"`
	URL      string   `json:"url"`
	Text     []string `json:"txt,omitempty"`
}

func deviceFromEntry(entry *zeroconf.ServiceEntry) (Device, bool) {
	if len(entry.AddrIPv4) == 0 {
		return Device{}, false
	}
	host := entry.AddrIPv4[0].String()
	if entry.Port != 0 && entry.Port != 80 {
		host = net.JoinHostPort(host, strconv.Itoa(entry.Port))
	}
	return Device{
		Instance: entry.Instance,
		HostName: strings.TrimSuffix(entry.HostName, "."),
		URL:      (&url.URL{Scheme: "http", Host: host, Path: "/"}).String(),
		Text:     entry.Text,
	}, true
}

// Browse lists the instances of service found until ctx is done.
func Browse(ctx context.Context, log logr.Logger, service, domain string) ([]Device, error) {
	log = log.WithName("browse")
	opts := []zeroconf.ClientOption{zeroconf.SelectIPTraffic(zeroconf.IPv4)}
	if iface, _, err := MainInterface(log); err == nil {
		opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
	}
	resolver, err := zeroconf.NewResolver(opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing zeroconf resolver: %w", err)
	}

	var mu sync.Mutex
	seen := make(map[string]bool)
	devices := make([]Device, 0)

	entries := make(chan *zeroconf.ServiceEntry)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-entries:
				if !ok {
					return
				}
				d, ok := deviceFromEntry(entry)
				if !ok {
					continue
				}
				mu.Lock()
				if !seen[d.Instance] {
					seen[d.Instance] = true
					devices = append(devices, d)
					log.Info("Found", "instance", d.Instance, "url", d.URL)
				}
				mu.Unlock()
			}
		}
	}()

	if err := resolver.Browse(ctx, service, domain, entries); err != nil {
		return nil, fmt.Errorf("browsing %s: %w", service, err)
	}
	<-ctx.Done()

	mu.Lock()
	defer mu.Unlock()
	return append([]Device(nil), devices...), nil
}

// LookupHost resolves a host name, asking over mDNS for names in .local
// that the system resolver does not know.
func LookupHost(ctx context.Context, log logr.Logger, host string) (net.IP, error) {
	addrs, err := net.DefaultResolver.LookupHost(ctx, host)
	if err == nil && len(addrs) > 0 {
		return net.ParseIP(addrs[0]), nil
	}
	if !strings.HasSuffix(host, ".local") {
		return nil, fmt.Errorf("looking up %s: %w", host, err)
	}

	addr4, err := net.ResolveUDPAddr("udp4", mdns.DefaultAddressIPv4)
	if err != nil {
		return nil, err
	}
	l4, err := net.ListenUDP("udp4", addr4)
	if err != nil {
		return nil, fmt.Errorf("listening for mDNS: %w", err)
	}
	defer l4.Close()

	conn, err := mdns.Server(ipv4.NewPacketConn(l4), (*ipv6.PacketConn)(nil), &mdns.Config{})
	if err != nil {
		return nil, fmt.Errorf("starting mDNS client: %w", err)
	}
	defer conn.Close()

	_, addr, err := conn.QueryAddr(ctx, host)
	if err != nil {
		log.Error(err, "Failed to query mDNS", "host", host)
		return nil, err
	}
	log.V(1).Info("Resolved over mDNS", "host", host, "ip", addr.String())
	return net.IP(addr.AsSlice()), nil
}

// Resolve replaces a .local host name in u by its address.
func Resolve(ctx context.Context, log logr.Logger, u *url.URL) (*url.URL, error) {
	host := u.Hostname()
	if !strings.HasSuffix(host, ".local") {
		return u, nil
	}
	ip, err := LookupHost(ctx, log, host)
	if err != nil {
		return nil, err
	}
	resolved := *u
	if port := u.Port(); port != "" {
		resolved.Host = net.JoinHostPort(ip.String(), port)
	} else if ip.To4() == nil {
		resolved.Host = "[" + ip.String() + "]"
	} else {
		resolved.Host = ip.String()
	}
	return &resolved, nil
}
