// Package format renders endpoints for logs, errors and dialing.
package format

import (
	"net"
	"strconv"
)

// Addr joins host and port. An empty host or "*" stands for all IPv4
// interfaces and is rendered as 0.0.0.0.
func Addr(host string, port int) string {
	if host == "" || host == "*" {
		host = net.IPv4zero.String()
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}
