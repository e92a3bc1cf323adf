package utils

import (
	"fmt"

	"github.com/concave-dev/rollupd/internal/logging"
	"github.com/concave-dev/rollupd/internal/netutil"
)

// MaxPortAttempts bounds the search for a free gossip port.
const MaxPortAttempts = 100

// FindAvailablePort returns the first port at or after startPort where both
// the UDP and TCP gossip sockets can bind.
func FindAvailablePort(address string, startPort int) (int, error) {
	for port := startPort; port < startPort+MaxPortAttempts && port <= 65535; port++ {
		err := netutil.CheckGossipPort(address, port)
		if err == nil {
			return port, nil
		}
		if netutil.IsAddressInUseError(err) {
			continue
		}
		return 0, err
	}

	return 0, fmt.Errorf("no available port found in range %d-%d on %s",
		startPort, startPort+MaxPortAttempts-1, address)
}

// ResolveGossipPort checks the gossip port before serf binds it. An explicit
// port must be free; a default port falls forward to the next free one.
func ResolveGossipPort(address string, port int, explicitlySet bool) (int, error) {
	if explicitlySet {
		if err := netutil.CheckGossipPort(address, port); err != nil {
			return 0, fmt.Errorf("p2p port %d unavailable: %w", port, err)
		}
		return port, nil
	}

	actual, err := FindAvailablePort(address, port)
	if err != nil {
		return 0, err
	}
	if actual != port {
		logging.Warn("Default p2p port %d was busy, using port %d", port, actual)
	}
	return actual, nil
}
