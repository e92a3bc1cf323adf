package netutil

import (
	"fmt"
	"net"
	"strconv"
)

// AddressInUseError is a bind failure on an occupied port. It unwraps to the
// original *net.OpError.
type AddressInUseError struct {
	Protocol string
	Address  string
	Port     int
	Err      error
}

func (e *AddressInUseError) Error() string {
	return fmt.Sprintf("%s port %d is already in use on %s", e.Protocol, e.Port, e.Address)
}

func (e *AddressInUseError) Unwrap() error {
	return e.Err
}

// ListenTCP binds an IPv4 TCP listener. Port 0 picks a free port.
func ListenTCP(address string, port int) (net.Listener, error) {
	addr := net.JoinHostPort(address, strconv.Itoa(port))

	listener, err := net.Listen("tcp4", addr)
	if err != nil {
		if IsAddressInUseError(err) {
			return nil, &AddressInUseError{Protocol: "TCP", Address: address, Port: port, Err: err}
		}
		return nil, fmt.Errorf("failed to bind TCP to %s: %w", addr, err)
	}
	return listener, nil
}

// CheckGossipPort verifies that both UDP (gossip) and TCP (memberlist streams)
// can bind to address:port, then releases them.
func CheckGossipPort(address string, port int) error {
	addr := net.JoinHostPort(address, strconv.Itoa(port))

	udpAddr, err := net.ResolveUDPAddr("udp4", addr)
	if err != nil {
		return fmt.Errorf("failed to resolve UDP address %s: %w", addr, err)
	}
	udpConn, err := net.ListenUDP("udp4", udpAddr)
	if err != nil {
		if IsAddressInUseError(err) {
			return &AddressInUseError{Protocol: "UDP", Address: address, Port: port, Err: err}
		}
		return fmt.Errorf("failed to bind UDP to %s: %w", addr, err)
	}
	udpConn.Close()

	listener, err := ListenTCP(address, port)
	if err != nil {
		return err
	}
	listener.Close()
	return nil
}
