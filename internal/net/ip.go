package net

import (
	"fmt"
	"log"
	"net"
	"strconv"
)

// GetOutgoingIP finds the preferred local IP address to show in the remote
// control URL.
func GetOutgoingIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return getLocalIPFallback()
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String(), nil
}

// getLocalIPFallback is used on networks without internet access.
func getLocalIPFallback() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}
	for _, address := range addrs {
		if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				return ipnet.IP.String(), nil
			}
		}
	}
	log.Println("[remote] no suitable local IP found, using loopback")
	return "127.0.0.1", nil
}

// RemoteURL is the base URL other devices use to reach the server bound to
// listenAddr on port. Loopback listeners stay on loopback.
func RemoteURL(listenAddr string, port int) string {
	host, _, err := net.SplitHostPort(listenAddr)
	if err != nil {
		host = ""
	}
	ip := net.ParseIP(host)
	switch {
	case ip != nil && ip.IsLoopback():
	case host == "" || (ip != nil && ip.IsUnspecified()):
		if out, err := GetOutgoingIP(); err == nil {
			host = out
		}
	}
	if host == "" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s", net.JoinHostPort(host, strconv.Itoa(port)))
}
