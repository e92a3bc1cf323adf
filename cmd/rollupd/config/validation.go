package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/concave-dev/rollupd/internal/logging"
	"github.com/concave-dev/rollupd/internal/rollup"
	"github.com/concave-dev/rollupd/internal/validate"
)

// InitializeConfig applies environment overrides before validation.
func InitializeConfig() {
	if os.Getenv("DEBUG") == "true" {
		Global.LogLevel = "DEBUG"
		logging.Info("DEBUG environment variable detected, setting log level to DEBUG")
	}
}

// ValidateConfig parses and normalizes the flag values. Every returned error
// wraps rollup.ErrConfig.
//
// Peer settings come as a pair: --peer-id names the node that RPC transactions
// are forwarded to and --peer-addr is where to reach it. Setting only one of
// them is an error; setting neither runs the node without forwarding.
func ValidateConfig() error {
	if err := validateConfig(); err != nil {
		return fmt.Errorf("%w: %w", rollup.ErrConfig, err)
	}
	return nil
}

func validateConfig() error {
	if err := logging.ValidateLogLevel(Global.LogLevel); err != nil {
		return err
	}

	// RPC ingress
	if Global.RPCAddr == "" {
		return fmt.Errorf("--rpc is required")
	}
	rpcAddr, err := validate.ParseBindAddress(Global.RPCAddr)
	if err != nil {
		logging.Error("Invalid RPC address '%s': %v", Global.RPCAddr, err)
		return fmt.Errorf("invalid RPC address: %w", err)
	}
	if err := validate.ValidateField(rpcAddr.Port, "required,min=1,max=65535"); err != nil {
		return fmt.Errorf("RPC address requires specific port (not 0): %w", err)
	}
	Global.RPCAddr = rpcAddr.Host
	Global.RPCPort = rpcAddr.Port

	// Gossip transport
	p2pAddr, err := validate.ParseBindAddress(Global.P2PAddr)
	if err != nil {
		logging.Error("Invalid p2p address '%s': %v", Global.P2PAddr, err)
		return fmt.Errorf("invalid p2p address: %w", err)
	}
	if err := validate.ValidateField(p2pAddr.Port, "required,min=1,max=65535"); err != nil {
		return fmt.Errorf("p2p address requires specific port (not 0): %w", err)
	}
	Global.P2PAddr = p2pAddr.Host
	Global.P2PPort = p2pAddr.Port

	if err := validate.ValidateRequiredString(Global.DBPath, "--db-path"); err != nil {
		return err
	}

	// Node names are validated if provided; generation happens in the daemon
	if Global.NodeName != "" {
		originalName := Global.NodeName
		Global.NodeName = strings.ToLower(Global.NodeName)
		if originalName != Global.NodeName {
			logging.Warn("Node name '%s' converted to lowercase: '%s'", originalName, Global.NodeName)
		}
		if err := validate.NodeNameFormat(Global.NodeName); err != nil {
			return fmt.Errorf("invalid node name: %w", err)
		}
	}

	if err := validatePeer(); err != nil {
		return err
	}

	if Global.RollupSize < 1 {
		return fmt.Errorf("--rollup-size must be at least 1, got %d", Global.RollupSize)
	}
	if err := validate.ValidatePositiveTimeout(Global.RollupInterval, "--rollup-interval"); err != nil {
		return err
	}

	if Global.SubmitURL != "" {
		if err := validate.ValidateURL(Global.SubmitURL, "--submit-url"); err != nil {
			return err
		}
	}
	if err := validate.ValidatePositiveTimeout(Global.SubmitTimeout, "--submit-timeout"); err != nil {
		return err
	}

	return nil
}

func validatePeer() error {
	switch {
	case Global.PeerID == "" && Global.PeerAddr == "":
		return nil
	case Global.PeerID == "":
		return fmt.Errorf("--peer-addr requires --peer-id")
	case Global.PeerAddr == "":
		return fmt.Errorf("--peer-id requires --peer-addr")
	}

	if err := validate.NodeNameFormat(Global.PeerID); err != nil {
		return fmt.Errorf("invalid peer id: %w", err)
	}
	if Global.NodeName != "" && Global.NodeName == Global.PeerID {
		return fmt.Errorf("peer id '%s' is this node's own name", Global.PeerID)
	}

	peerAddr, err := validate.ParsePeerAddress(Global.PeerAddr)
	if err != nil {
		logging.Error("Invalid peer address '%s': %v", Global.PeerAddr, err)
		return fmt.Errorf("invalid peer address: %w", err)
	}
	Global.PeerAddr = peerAddr.String()
	return nil
}
