package mirror

import (
	"context"
	"net"
	"time"
)

// HostResolver maps a host name to its addresses
type HostResolver interface {
	LookupIP(host string) ([]net.IP, error)
}

// NetResolver resolves through the system resolver with a timeout
type NetResolver struct {
	Timeout time.Duration
}

// LookupIP implements HostResolver
func (n NetResolver) LookupIP(host string) ([]net.IP, error) {
	timeout := n.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}

	ips := make([]net.IP, 0, len(addrs))
	for _, a := range addrs {
		ips = append(ips, a.IP)
	}
	return ips, nil
}

// interfaceIPs lists the addresses bound to local network interfaces
func interfaceIPs(addrs func() ([]net.Addr, error)) []net.IP {
	list, err := addrs()
	if err != nil {
		return nil
	}

	var ips []net.IP
	for _, a := range list {
		switch v := a.(type) {
		case *net.IPNet:
			ips = append(ips, v.IP)
		case *net.IPAddr:
			ips = append(ips, v.IP)
		}
	}
	return ips
}

// isLocalIP reports loopback, unspecified and interface-bound addresses
func isLocalIP(ip net.IP, bound []net.IP) bool {
	if ip.IsLoopback() || ip.IsUnspecified() {
		return true
	}
	for _, b := range bound {
		if b.Equal(ip) {
			return true
		}
	}
	return false
}
