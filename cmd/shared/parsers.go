package shared

import (
	"fmt"
	"regexp"
	"strconv"
)

var transportRegexp = regexp.MustCompile(`^tcp://([^:]*):(\d+)$`)

// ParseTransport parses a transport string in the format "tcp://host:port".
// The host can be empty or "*" to bind to all interfaces.
func ParseTransport(s string) (host string, port int, err error) {
	matches := transportRegexp.FindStringSubmatch(s)
	if len(matches) != 3 {
		err = parsingError(s)
		return
	}

	host = matches[1]
	if host == "" { // also counts as all interfaces
		host = "*"
	}

	port, err = strconv.Atoi(matches[2])
	if err != nil || port < 0 || port > 65535 {
		err = parsingError(s)
		return
	}

	return
}

func parsingError(s string) error {
	return fmt.Errorf("parsing %s: format should be 'tcp://host:port'", s)
}
