package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/concave-dev/rollupd/internal/rollup"
)

func validGlobal() Config {
	return Config{
		RPCAddr:        "127.0.0.1:3030",
		P2PAddr:        DefaultP2P,
		DBPath:         "/tmp/rollup.db",
		RollupSize:     DefaultRollupSize,
		RollupInterval: DefaultRollupInterval,
		SubmitTimeout:  DefaultSubmitTimeout,
		LogLevel:       DefaultLogLevel,
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*Config)
		expectError   bool
		errorContains string
	}{
		{name: "defaults_ok", mutate: func(*Config) {}},
		{
			name:   "peer_pair_ok",
			mutate: func(c *Config) { c.PeerID = "seq-b"; c.PeerAddr = "10.0.0.2:4300" },
		},
		{
			name:   "peer_hostname_ok",
			mutate: func(c *Config) { c.PeerID = "seq-b"; c.PeerAddr = "seq-b.internal:4300" },
		},
		{
			name:          "peer_id_without_addr",
			mutate:        func(c *Config) { c.PeerID = "seq-b" },
			expectError:   true,
			errorContains: "--peer-id requires --peer-addr",
		},
		{
			name:          "peer_addr_without_id",
			mutate:        func(c *Config) { c.PeerAddr = "10.0.0.2:4300" },
			expectError:   true,
			errorContains: "--peer-addr requires --peer-id",
		},
		{
			name:        "peer_addr_without_port",
			mutate:      func(c *Config) { c.PeerID = "seq-b"; c.PeerAddr = "10.0.0.2" },
			expectError: true,
		},
		{
			name:          "peer_is_self",
			mutate:        func(c *Config) { c.NodeName = "seq-a"; c.PeerID = "seq-a"; c.PeerAddr = "10.0.0.2:4300" },
			expectError:   true,
			errorContains: "own name",
		},
		{
			name:          "missing_rpc",
			mutate:        func(c *Config) { c.RPCAddr = "" },
			expectError:   true,
			errorContains: "--rpc is required",
		},
		{
			name:        "rpc_port_zero",
			mutate:      func(c *Config) { c.RPCAddr = "127.0.0.1:0" },
			expectError: true,
		},
		{
			name:        "rpc_hostname",
			mutate:      func(c *Config) { c.RPCAddr = "localhost:3030" },
			expectError: true,
		},
		{
			name:          "missing_db_path",
			mutate:        func(c *Config) { c.DBPath = "" },
			expectError:   true,
			errorContains: "--db-path cannot be empty",
		},
		{
			name:        "bad_p2p",
			mutate:      func(c *Config) { c.P2PAddr = "0.0.0.0" },
			expectError: true,
		},
		{
			name:        "bad_node_name",
			mutate:      func(c *Config) { c.NodeName = "-seq" },
			expectError: true,
		},
		{
			name:        "zero_rollup_size",
			mutate:      func(c *Config) { c.RollupSize = 0 },
			expectError: true,
		},
		{
			name:        "zero_interval",
			mutate:      func(c *Config) { c.RollupInterval = 0 },
			expectError: true,
		},
		{
			name:        "bad_submit_url",
			mutate:      func(c *Config) { c.SubmitURL = "settlement:9000" },
			expectError: true,
		},
		{
			name:   "submit_url_ok",
			mutate: func(c *Config) { c.SubmitURL = "http://127.0.0.1:9000/batches" },
		},
		{
			name:        "zero_submit_timeout",
			mutate:      func(c *Config) { c.SubmitTimeout = 0 },
			expectError: true,
		},
		{
			name:        "bad_log_level",
			mutate:      func(c *Config) { c.LogLevel = "TRACE" },
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Global = validGlobal()
			tt.mutate(&Global)

			err := ValidateConfig()

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if !errors.Is(err, rollup.ErrConfig) {
					t.Errorf("error %v does not wrap ErrConfig", err)
				}
				if tt.errorContains != "" && !strings.Contains(err.Error(), tt.errorContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errorContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateConfigNormalizes(t *testing.T) {
	Global = validGlobal()
	Global.NodeName = "Seq-A"
	Global.PeerID = "seq-b"
	Global.PeerAddr = "10.0.0.2:4301"

	if err := ValidateConfig(); err != nil {
		t.Fatalf("ValidateConfig() = %v", err)
	}

	if Global.RPCAddr != "127.0.0.1" || Global.RPCPort != 3030 {
		t.Errorf("rpc = %s:%d", Global.RPCAddr, Global.RPCPort)
	}
	if Global.P2PAddr != "0.0.0.0" || Global.P2PPort != 4300 {
		t.Errorf("p2p = %s:%d", Global.P2PAddr, Global.P2PPort)
	}
	if Global.NodeName != "seq-a" {
		t.Errorf("node name = %q, want lowercased", Global.NodeName)
	}
	if Global.PeerAddr != "10.0.0.2:4301" || !Global.HasPeer() {
		t.Errorf("peer = %q %q", Global.PeerID, Global.PeerAddr)
	}
}

func TestInitializeConfigDebugOverride(t *testing.T) {
	Global = validGlobal()
	t.Setenv("DEBUG", "true")

	InitializeConfig()
	if Global.LogLevel != "DEBUG" {
		t.Errorf("LogLevel = %q, want DEBUG", Global.LogLevel)
	}
}

func TestExplicitlySet(t *testing.T) {
	var c Config
	if c.IsExplicitlySet(P2PField) || c.IsExplicitlySet(LogFileField) {
		t.Fatal("fields should start unset")
	}
	c.SetExplicitlySet(P2PField, true)
	if !c.IsExplicitlySet(P2PField) || c.IsExplicitlySet(LogFileField) {
		t.Error("only P2PField should be set")
	}
}
