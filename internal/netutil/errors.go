// Package netutil classifies network errors and checks that rollupd's ports are
// free before services start.
package netutil

import (
	"context"
	"errors"
	"net"
	"syscall"
)

// IsAddressInUseError reports whether err is a bind failure on a port that is
// already taken.
func IsAddressInUseError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, syscall.EADDRINUSE)
	}
	return false
}

// IsConnectionRefusedError reports whether err is a refused dial. The daemon
// uses it to print a hint when joining the peer fails.
func IsConnectionRefusedError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, syscall.ECONNREFUSED)
	}
	return false
}

// IsDialError reports whether err is a failed connection attempt that never
// reached the remote side. Timeouts do not count, since the request may
// already have been delivered.
func IsDialError(err error) bool {
	if err == nil || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var opErr *net.OpError
	if !errors.As(err, &opErr) {
		return false
	}
	return opErr.Op == "dial" && !opErr.Timeout()
}
