package p2p

import (
	"fmt"
	"time"

	"github.com/concave-dev/rollupd/internal/config"
	"github.com/concave-dev/rollupd/internal/validate"
)

// Config holds the gossip transport settings.
type Config struct {
	BindAddr string            // Bind address
	BindPort int               // Bind port
	NodeName string            // Serf node name; this node's peer identifier
	Tags     map[string]string // Extra member tags

	MessageBufferSize int           // Inbound transaction buffer
	JoinRetries       int           // Join attempts before giving up
	JoinTimeout       time.Duration // Per-attempt join timeout
	SendTimeout       time.Duration // How long Send waits for the peer's ack
	LogLevel          string        // Gossip library log level
}

// DefaultConfig returns a configuration listening on the default gossip port.
func DefaultConfig() *Config {
	return &Config{
		BindAddr:          config.DefaultBindAddr,
		BindPort:          config.DefaultP2PPort,
		MessageBufferSize: config.DefaultNetworkQueueSize,
		JoinRetries:       3,
		JoinTimeout:       30 * time.Second,
		SendTimeout:       5 * time.Second,
		LogLevel:          config.DefaultLogLevel,
		Tags:              make(map[string]string),
	}
}

// reservedTags are set by the manager itself.
var reservedTags = map[string]bool{
	TagRole:    true,
	TagVersion: true,
}

func validateConfig(cfg *Config) error {
	if err := validate.NodeNameFormat(cfg.NodeName); err != nil {
		return err
	}

	if err := validate.ValidateField(cfg.BindAddr, "required,ip"); err != nil {
		return fmt.Errorf("invalid bind address: %w", err)
	}

	if err := validate.ValidateField(cfg.BindPort, "min=0,max=65535"); err != nil {
		return fmt.Errorf("invalid bind port: %w", err)
	}

	if cfg.MessageBufferSize < 1 {
		return fmt.Errorf("message buffer size must be positive, got: %d", cfg.MessageBufferSize)
	}

	if cfg.JoinRetries < 1 {
		return fmt.Errorf("join retries must be at least 1, got: %d", cfg.JoinRetries)
	}

	if err := validate.ValidatePositiveTimeout(cfg.JoinTimeout, "join timeout"); err != nil {
		return err
	}
	if err := validate.ValidatePositiveTimeout(cfg.SendTimeout, "send timeout"); err != nil {
		return err
	}

	for tagName := range cfg.Tags {
		if reservedTags[tagName] {
			return fmt.Errorf("tag name '%s' is reserved and cannot be used", tagName)
		}
	}

	return nil
}
