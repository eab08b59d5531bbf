package tool

import (
	"fmt"
	"net"

	"github.com/jackpal/gateway"
)

// RejectUnsupportNetworkInterface filters interfaces that cannot carry the
// share URL: down, loopback, point-to-point (tun/vpn) or IPv4-less.
func RejectUnsupportNetworkInterface(iface *net.Interface) bool {
	if iface.Flags&net.FlagUp == 0 {
		return true
	}
	if iface.Flags&net.FlagLoopback != 0 {
		return true
	}
	if iface.Flags&net.FlagPointToPoint != 0 {
		return true // utun / tun / vpn
	}
	ips, err := iface.Addrs()
	if err != nil {
		return true
	}
	for _, ip := range ips {
		if ipnet, ok := ip.(*net.IPNet); ok && ipnet.IP.To4() != nil && !ipnet.IP.IsLoopback() {
			return false
		}
	}
	return true
}

// DetectLANAddress returns the local IPv4 address reachable from the LAN.
// It prefers the interface that routes to the default gateway, falling back
// to the first usable interface address when gateway discovery fails.
func DetectLANAddress() (string, error) {
	if gwIP, err := gateway.DiscoverGateway(); err == nil {
		if ip := localIPForGateway(gwIP); ip != nil {
			return ip.String(), nil
		}
	}

	interfaces, err := net.Interfaces()
	if err != nil {
		return "", fmt.Errorf("failed to get network interfaces: %v", err)
	}
	for _, iface := range interfaces {
		if RejectUnsupportNetworkInterface(&iface) {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok {
				if ip := ipnet.IP.To4(); ip != nil && !ip.IsLoopback() {
					return ip.String(), nil
				}
			}
		}
	}
	return "", fmt.Errorf("no usable LAN IPv4 address found")
}

// localIPForGateway finds the local IPv4 in the same subnet as the gateway.
func localIPForGateway(gwIP net.IP) net.IP {
	interfaces, err := net.Interfaces()
	if err != nil {
		return nil
	}
	for _, iface := range interfaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			ipv4 := ipnet.IP.To4()
			if ipv4 == nil || !ipv4.IsGlobalUnicast() || ipv4.IsLoopback() {
				continue
			}
			if ipnet.Contains(gwIP) {
				return ipv4
			}
		}
	}
	return nil
}
