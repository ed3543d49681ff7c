package net

import (
	"fmt"
	"net"
	"os"

	"github.com/hashicorp/mdns"

	"Glowpoint/internal/state"
)

// ServiceType is the mDNS service the remote control is advertised as.
const ServiceType = "_glowpoint._tcp"

// Advertise announces the remote control on port until the returned server
// is shut down.
func Advertise(port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	info := []string{"Glowpoint", "session=" + state.SessionID(), "path=/api"}
	service, err := mdns.NewMDNSService(
		host,
		ServiceType,
		"",
		"",
		port,
		[]net.IP{firstIPv4()},
		info,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return server, nil
}

// Browse reports every remote control found on the local network as
// host:port. It blocks for the mdns default lookup timeout.
func Browse(found func(addr string)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			found(fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port))
		}
	}()
	err := mdns.Lookup(ServiceType, entries)
	close(entries)
	<-done
	return err
}

// firstIPv4 picks the address of the first non-loopback interface that is up.
func firstIPv4() net.IP {
	ifaces, _ := net.Interfaces()
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4()
			}
		}
	}
	return net.IPv4(127, 0, 0, 1)
}
