// Package validate provides input validation for rollupd configuration and
// requests, built on go-playground/validator struct tags.
//
// Bind addresses (where rollupd listens) must be literal IPs. Peer addresses
// (where rollupd dials) may also be hostnames.
package validate

import (
	"fmt"
	"net"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// NetworkAddress is a validated host:port pair.
type NetworkAddress struct {
	Host string `validate:"required,ip"`
	Port int    `validate:"min=0,max=65535"`
}

func (na NetworkAddress) String() string {
	return net.JoinHostPort(na.Host, strconv.Itoa(na.Port))
}

// PeerAddress is a dialable host:port pair.
type PeerAddress struct {
	Host string `validate:"required,hostname_rfc1123|ip"`
	Port int    `validate:"required,min=1,max=65535"`
}

func (pa PeerAddress) String() string {
	return net.JoinHostPort(pa.Host, strconv.Itoa(pa.Port))
}

func splitHostPort(addr string) (string, int, error) {
	if addr == "" {
		return "", 0, fmt.Errorf("address cannot be empty")
	}

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid address format '%s': %w", addr, err)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port '%s': %w", portStr, err)
	}
	return host, port, nil
}

// ParseBindAddress parses a listen address such as "0.0.0.0:4300". The host
// must be an IP literal; port 0 asks the OS for a free port.
func ParseBindAddress(addr string) (*NetworkAddress, error) {
	host, port, err := splitHostPort(addr)
	if err != nil {
		return nil, err
	}

	netAddr := &NetworkAddress{Host: host, Port: port}
	if err := validate.Struct(netAddr); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return netAddr, nil
}

// ParsePeerAddress parses the address of a peer to dial, e.g. "seq-1.internal:4300".
func ParsePeerAddress(addr string) (*PeerAddress, error) {
	host, port, err := splitHostPort(addr)
	if err != nil {
		return nil, err
	}

	peerAddr := &PeerAddress{Host: host, Port: port}
	if err := validate.Struct(peerAddr); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return peerAddr, nil
}

// ValidateField validates a single value against a validator tag.
func ValidateField(value any, tag string) error {
	return validate.Var(value, tag)
}

// ValidateStruct validates a struct using its validate tags.
func ValidateStruct(s any) error {
	return validate.Struct(s)
}
