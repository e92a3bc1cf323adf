package validate

import (
	"testing"
	"time"
)

func TestParseBindAddress(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		expectError  bool
		expectedIP   string
		expectedPort int
	}{
		{name: "valid IPv4 address", input: "192.168.1.1:8080", expectedIP: "192.168.1.1", expectedPort: 8080},
		{name: "valid any address", input: "0.0.0.0:4300", expectedIP: "0.0.0.0", expectedPort: 4300},
		{name: "ephemeral port", input: "127.0.0.1:0", expectedIP: "127.0.0.1", expectedPort: 0},
		{name: "valid IPv6", input: "[::1]:3030", expectedIP: "::1", expectedPort: 3030},
		{name: "empty address", input: "", expectError: true},
		{name: "missing port", input: "192.168.1.1", expectError: true},
		{name: "invalid IP address", input: "999.999.999.999:8080", expectError: true},
		{name: "port too high", input: "192.168.1.1:99999", expectError: true},
		{name: "negative port", input: "192.168.1.1:-1", expectError: true},
		{name: "port not a number", input: "192.168.1.1:abc", expectError: true},
		{name: "hostname instead of IP", input: "localhost:8080", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseBindAddress(tt.input)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for input '%s', but got none", tt.input)
				}
				if result != nil {
					t.Errorf("Expected nil result when error occurs, got %+v", result)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error for input '%s': %v", tt.input, err)
			}
			if result.Host != tt.expectedIP || result.Port != tt.expectedPort {
				t.Errorf("got %s:%d, want %s:%d", result.Host, result.Port, tt.expectedIP, tt.expectedPort)
			}
		})
	}
}

func TestParsePeerAddress(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
		expected    string
	}{
		{name: "IP literal", input: "10.0.0.2:4300", expected: "10.0.0.2:4300"},
		{name: "hostname", input: "seq-1.internal:4300", expected: "seq-1.internal:4300"},
		{name: "localhost", input: "localhost:4301", expected: "localhost:4301"},
		{name: "zero port", input: "10.0.0.2:0", expectError: true},
		{name: "missing port", input: "seq-1.internal", expectError: true},
		{name: "bad hostname", input: "seq_1!:4300", expectError: true},
		{name: "empty", input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParsePeerAddress(tt.input)
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for input '%s', got %+v", tt.input, result)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error for input '%s': %v", tt.input, err)
			}
			if result.String() != tt.expected {
				t.Errorf("String() = %s, want %s", result.String(), tt.expected)
			}
		})
	}
}

func TestNodeNameFormat(t *testing.T) {
	tests := []struct {
		input       string
		expectError bool
	}{
		{"sequencer", false},
		{"seq-1", false},
		{"seq_node_2", false},
		{"a", false},
		{"1", false},
		{"", true},
		{"Sequencer", true},
		{"seq.1", true},
		{"seq 1", true},
		{"-seq", true},
		{"seq_", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := NodeNameFormat(tt.input)
			if (err != nil) != tt.expectError {
				t.Errorf("NodeNameFormat(%q) error = %v, expectError %v", tt.input, err, tt.expectError)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input       string
		expectError bool
	}{
		{"http://127.0.0.1:8545/rollups", false},
		{"https://settlement.example.com", false},
		{"", true},
		{"not a url", true},
		{"127.0.0.1:8545", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateURL(tt.input, "submit url")
			if (err != nil) != tt.expectError {
				t.Errorf("ValidateURL(%q) error = %v, expectError %v", tt.input, err, tt.expectError)
			}
		})
	}
}

func TestValidateHelpers(t *testing.T) {
	if err := ValidateRequiredString("", "db path"); err == nil || err.Error() != "db path cannot be empty" {
		t.Errorf("ValidateRequiredString empty = %v", err)
	}
	if err := ValidateRequiredString("./data/rollup.db", "db path"); err != nil {
		t.Errorf("ValidateRequiredString non-empty = %v", err)
	}
	if err := ValidatePositiveTimeout(0, "rollup interval"); err == nil {
		t.Error("ValidatePositiveTimeout(0) expected error")
	}
	if err := ValidatePositiveTimeout(time.Second, "rollup interval"); err != nil {
		t.Errorf("ValidatePositiveTimeout(1s) = %v", err)
	}
	if err := ValidateField(5, "min=1,max=10"); err != nil {
		t.Errorf("ValidateField in range = %v", err)
	}
	if err := ValidateField(50, "min=1,max=10"); err == nil {
		t.Error("ValidateField out of range expected error")
	}
}
