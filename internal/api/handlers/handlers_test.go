package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/concave-dev/rollupd/internal/node"
	"github.com/concave-dev/rollupd/internal/p2p"
	"github.com/concave-dev/rollupd/internal/rollup"
	"github.com/gin-gonic/gin"
)

type mapReader struct {
	txs map[rollup.Hash]rollup.Transaction
	err error
}

func (r mapReader) Transaction(hash rollup.Hash) (rollup.Transaction, bool, error) {
	if r.err != nil {
		return rollup.Transaction{}, false, r.err
	}
	tx, ok := r.txs[hash]
	return tx, ok, nil
}

func serve(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func rpcRouter(queue chan rollup.Transaction) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/", HandleJSONRPC(queue, 50*time.Millisecond))
	return router
}

func decodeRPC(t *testing.T, w *httptest.ResponseRecorder) RPCResponse {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp RPCResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (%s)", err, w.Body.String())
	}
	return resp
}

const aliceParams = `{"sender":"alice","recipient":"bob","amount":"10","nonce":"0","memo":"hi"}`

func TestJSONRPCTransaction(t *testing.T) {
	queue := make(chan rollup.Transaction, 1)
	router := rpcRouter(queue)

	w := serve(router, http.MethodPost, "/", `{"jsonrpc":"2.0","method":"transaction","params":`+aliceParams+`,"id":123}`)
	resp := decodeRPC(t, w)

	if resp.Error != nil {
		t.Fatalf("unexpected error %+v", resp.Error)
	}
	if resp.Result != TransactionResult {
		t.Errorf("result = %v, want %q", resp.Result, TransactionResult)
	}
	if string(resp.ID) != "123" {
		t.Errorf("id = %s, want 123", resp.ID)
	}

	select {
	case tx := <-queue:
		if !tx.Equal(rollup.NewTransaction("alice", "bob", 10, 0, "hi")) {
			t.Errorf("queued %+v", tx)
		}
	default:
		t.Fatal("transaction was not queued")
	}
}

func TestJSONRPCErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"malformed json", `{"jsonrpc":`, CodeParseError},
		{"batch", `[{"jsonrpc":"2.0","method":"transaction"}]`, CodeInvalidRequest},
		{"wrong version", `{"jsonrpc":"1.0","method":"transaction","id":1}`, CodeInvalidRequest},
		{"unknown method", `{"jsonrpc":"2.0","method":"say_hello","id":1}`, CodeMethodNotFound},
		{"missing params", `{"jsonrpc":"2.0","method":"transaction","id":1}`, CodeInvalidParams},
		{"positional params", `{"jsonrpc":"2.0","method":"transaction","params":["alice"],"id":1}`, CodeInvalidParams},
		{"missing field", `{"jsonrpc":"2.0","method":"transaction","params":{"sender":"alice"},"id":1}`, CodeInvalidParams},
		{"bad amount", `{"jsonrpc":"2.0","method":"transaction","params":{"sender":"a","recipient":"b","amount":"-1","nonce":"0","memo":""},"id":1}`, CodeInvalidParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := make(chan rollup.Transaction, 1)
			resp := decodeRPC(t, serve(rpcRouter(queue), http.MethodPost, "/", tt.body))
			if resp.Error == nil {
				t.Fatalf("expected error code %d, got result %v", tt.wantCode, resp.Result)
			}
			if resp.Error.Code != tt.wantCode {
				t.Errorf("code = %d (%s), want %d", resp.Error.Code, resp.Error.Message, tt.wantCode)
			}
			if len(queue) != 0 {
				t.Error("failed request queued a transaction")
			}
		})
	}
}

func TestJSONRPCQueueFull(t *testing.T) {
	queue := make(chan rollup.Transaction) // nobody reads
	resp := decodeRPC(t, serve(rpcRouter(queue), http.MethodPost, "/",
		`{"jsonrpc":"2.0","method":"transaction","params":`+aliceParams+`,"id":"a"}`))

	if resp.Error == nil || resp.Error.Code != CodeInternalError {
		t.Fatalf("response = %+v, want internal error", resp)
	}
	if string(resp.ID) != `"a"` {
		t.Errorf("id = %s, want \"a\"", resp.ID)
	}
}

func TestSubmitTransaction(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		body       string
		queueCap   int
		wantStatus int
	}{
		{"accepted", aliceParams, 1, http.StatusAccepted},
		{"empty memo accepted", `{"sender":"alice","recipient":"bob","amount":"1","nonce":"3"}`, 1, http.StatusAccepted},
		{"missing sender", `{"recipient":"bob","amount":"1","nonce":"0"}`, 1, http.StatusBadRequest},
		{"bad nonce", `{"sender":"alice","recipient":"bob","amount":"1","nonce":"x"}`, 1, http.StatusBadRequest},
		{"amount over 128 bits", `{"sender":"alice","recipient":"bob","amount":"340282366920938463463374607431768211456","nonce":"0"}`, 1, http.StatusBadRequest},
		{"queue full", aliceParams, 0, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := make(chan rollup.Transaction, tt.queueCap)
			router := gin.New()
			router.POST("/tx", HandleSubmitTransaction(queue, 20*time.Millisecond))

			w := serve(router, http.MethodPost, "/tx", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus != http.StatusAccepted {
				return
			}

			var body struct {
				Data SubmitTransactionResponse `json:"data"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			tx := <-queue
			if body.Data.Hash != tx.Hash().Hex() {
				t.Errorf("hash = %s, want %s", body.Data.Hash, tx.Hash().Hex())
			}
		})
	}
}

func TestGetTransaction(t *testing.T) {
	gin.SetMode(gin.TestMode)

	alice := rollup.NewTransaction("alice", "bob", 10, 0, "hi")
	reader := mapReader{txs: map[rollup.Hash]rollup.Transaction{alice.Hash(): alice}}

	tests := []struct {
		name       string
		reader     TransactionReader
		hash       string
		wantStatus int
	}{
		{"found", reader, alice.Hash().Hex(), http.StatusOK},
		{"not found", reader, rollup.NewTransaction("x", "y", 1, 1, "").Hash().Hex(), http.StatusNotFound},
		{"bad hash", reader, "zz", http.StatusBadRequest},
		{"ledger error", mapReader{err: errors.New("disk gone")}, alice.Hash().Hex(), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/tx/:hash", HandleGetTransaction(tt.reader))

			w := serve(router, http.MethodGet, "/tx/"+tt.hash, "")
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var body struct {
				Data struct {
					Transaction rollup.Transaction `json:"transaction"`
				} `json:"data"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !body.Data.Transaction.Equal(alice) {
				t.Errorf("transaction = %+v, want %+v", body.Data.Transaction, alice)
			}
		})
	}
}

func TestHandleHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		running    bool
		wantStatus int
		wantBody   string
	}{
		{"running", true, http.StatusOK, "healthy"},
		{"stopped", false, http.StatusServiceUnavailable, "stopped"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := func() node.Status { return node.Status{Running: tt.running} }
			router := gin.New()
			router.GET("/health", HandleHealth("1.0.0", time.Now().Add(-time.Minute), status))

			w := serve(router, http.MethodGet, "/health", "")
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			var resp HealthResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tt.wantBody || resp.Version != "1.0.0" {
				t.Errorf("response = %+v", resp)
			}
		})
	}
}

func TestHandleStatusAndPeers(t *testing.T) {
	gin.SetMode(gin.TestMode)

	status := func() node.Status {
		return node.Status{Running: true, Height: 4, PoolSize: 1, BatchesCut: 4, Peer: "seq-b"}
	}
	peers := func() []p2p.Peer {
		return []p2p.Peer{{Name: "seq-b"}, {Name: "seq-a"}}
	}

	router := gin.New()
	router.GET("/status", HandleStatus("seq-a", "1.0.0", time.Now(), status, peers))
	router.GET("/peers", HandlePeers(peers))
	router.GET("/nopeers", HandlePeers(nil))

	var statusBody struct {
		Data StatusResponse `json:"data"`
	}
	w := serve(router, http.MethodGet, "/status", "")
	if err := json.Unmarshal(w.Body.Bytes(), &statusBody); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if statusBody.Data.NodeName != "seq-a" || statusBody.Data.Node.Height != 4 || statusBody.Data.Members != 2 {
		t.Errorf("status = %+v", statusBody.Data)
	}

	var peersBody struct {
		Data  []p2p.Peer `json:"data"`
		Count int        `json:"count"`
	}
	w = serve(router, http.MethodGet, "/peers", "")
	if err := json.Unmarshal(w.Body.Bytes(), &peersBody); err != nil {
		t.Fatalf("decode peers: %v", err)
	}
	if peersBody.Count != 2 || peersBody.Data[0].Name != "seq-a" {
		t.Errorf("peers = %+v", peersBody)
	}

	w = serve(router, http.MethodGet, "/nopeers", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"count":0`) {
		t.Errorf("nopeers = %d %s", w.Code, w.Body.String())
	}
}
