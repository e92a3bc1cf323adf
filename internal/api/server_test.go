package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/concave-dev/rollupd/internal/node"
	"github.com/concave-dev/rollupd/internal/rollup"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type emptyLedger struct{}

func (emptyLedger) Transaction(rollup.Hash) (rollup.Transaction, bool, error) {
	return rollup.Transaction{}, false, nil
}

func testConfig(queue chan rollup.Transaction) *Config {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "test_total", Help: "test"}))

	cfg := DefaultConfig()
	cfg.BindPort = 0
	cfg.NodeName = "seq-a"
	cfg.Transactions = queue
	cfg.Ledger = emptyLedger{}
	cfg.Status = func() node.Status { return node.Status{Running: true, Height: 2} }
	cfg.Gatherer = registry
	return cfg
}

// TestConfigValidate tests Config.Validate() with valid and invalid settings
func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"empty bind address", func(c *Config) { c.BindAddr = "" }, true},
		{"hostname bind address", func(c *Config) { c.BindAddr = "localhost" }, true},
		{"port too high", func(c *Config) { c.BindPort = 99999 }, true},
		{"zero enqueue timeout", func(c *Config) { c.EnqueueTimeout = 0 }, true},
		{"nil queue", func(c *Config) { c.Transactions = nil }, true},
		{"nil ledger", func(c *Config) { c.Ledger = nil }, true},
		{"nil status", func(c *Config) { c.Status = nil }, true},
		{"nil peers allowed", func(c *Config) { c.Peers = nil }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(make(chan rollup.Transaction, 1))
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewServerNilConfig(t *testing.T) {
	if _, err := NewServer(nil); err == nil {
		t.Error("NewServer(nil) should fail")
	}
}

// TestSetupRoutes checks the registered route table
func TestSetupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	server, err := NewServer(testConfig(make(chan rollup.Transaction, 1)))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	router := gin.New()
	server.setupRoutes(router)

	registered := make(map[string]bool)
	for _, route := range router.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"POST /",
		"GET /metrics",
		"GET /api/v1/health",
		"GET /api/v1/status",
		"GET /api/v1/peers",
		"POST /api/v1/transactions",
		"GET /api/v1/transactions/:hash",
	} {
		if !registered[want] {
			t.Errorf("route %s not registered", want)
		}
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	server, err := NewServer(testConfig(make(chan rollup.Transaction, 1)))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	handler := server.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if id := w.Header().Get(RequestIDHeader); len(id) != 36 {
		t.Errorf("generated request id = %q, want a uuid", id)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set(RequestIDHeader, "caller-123")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if id := w.Header().Get(RequestIDHeader); id != "caller-123" {
		t.Errorf("request id = %q, want caller-123", id)
	}
}

func TestCORSPreflight(t *testing.T) {
	server, err := NewServer(testConfig(make(chan rollup.Transaction, 1)))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/transactions", nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("OPTIONS status = %d, want 204", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing Access-Control-Allow-Origin")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	server, err := NewServer(testConfig(make(chan rollup.Transaction, 1)))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "test_total") {
		t.Errorf("metrics = %d %s", w.Code, w.Body.String())
	}
}

func TestServerStartAndShutdown(t *testing.T) {
	queue := make(chan rollup.Transaction, 1)
	server, err := NewServer(testConfig(queue))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	if server.Addr() != nil {
		t.Error("Addr() before Start should be nil")
	}

	if err := server.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	body := `{"jsonrpc":"2.0","method":"transaction","params":{"sender":"alice","recipient":"bob","amount":"10","nonce":"0","memo":""},"id":1}`
	resp, err := http.Post("http://"+server.Addr().String()+"/", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	select {
	case tx := <-queue:
		if tx.Sender != "alice" {
			t.Errorf("queued %+v", tx)
		}
	case <-time.After(time.Second):
		t.Fatal("transaction not queued")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}
