// Package client is the rollupctl HTTP client for the rollupd REST API.
//
// All calls go to /api/v1 on the node given by --api. Transactions are
// submitted through the same validation path as JSON-RPC, so a 202 here means
// the node's event loop has the transaction queued.
package client

import (
	"fmt"
	"net/http"
	"time"

	"github.com/concave-dev/rollupd/cmd/rollupctl/config"
	"github.com/concave-dev/rollupd/internal/logging"
	"github.com/concave-dev/rollupd/internal/netutil"
	"github.com/concave-dev/rollupd/internal/rollup"
	"github.com/go-resty/resty/v2"
)

// APIResponse is the envelope every /api/v1 endpoint returns.
type APIResponse[T any] struct {
	Status  string `json:"status"`
	Data    T      `json:"data"`
	Count   int    `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SubmitRequest is the body of POST /transactions.
type SubmitRequest struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
	Nonce     string `json:"nonce"`
	Memo      string `json:"memo,omitempty"`
}

// SubmitResult acknowledges a queued transaction.
type SubmitResult struct {
	Hash   string `json:"hash"`
	Sender string `json:"sender"`
	Nonce  uint64 `json:"nonce"`
}

// TransactionResult is a recorded transaction and its hash.
type TransactionResult struct {
	Hash        string             `json:"hash"`
	Transaction rollup.Transaction `json:"transaction"`
}

// NodeStatus mirrors the event loop snapshot.
type NodeStatus struct {
	Running       bool      `json:"running"`
	Height        uint64    `json:"height"`
	PoolSize      int       `json:"pool_size"`
	BatchesCut    uint64    `json:"batches_cut"`
	LastBatchSize int       `json:"last_batch_size"`
	LastCut       time.Time `json:"last_cut"`
	Peer          string    `json:"peer,omitempty"`
}

// Status describes a rollupd node.
type Status struct {
	NodeName string     `json:"node_name"`
	Version  string     `json:"version"`
	Uptime   string     `json:"uptime"`
	Node     NodeStatus `json:"node"`
	Members  int        `json:"members"`
}

// Peer is a gossip member as seen by the queried node.
type Peer struct {
	Name     string            `json:"name"`
	Addr     string            `json:"addr"`
	Port     uint16            `json:"port"`
	Status   string            `json:"status"`
	Tags     map[string]string `json:"tags"`
	LastSeen time.Time         `json:"lastSeen"`
}

// RollupAPIClient wraps a resty client configured for one rollupd node.
type RollupAPIClient struct {
	client  *resty.Client
	baseURL string
}

// NewRollupAPIClient returns a client for the node at apiAddr. Failed dials
// are retried; timeouts and HTTP error responses are not.
func NewRollupAPIClient(apiAddr string, timeout int) *RollupAPIClient {
	client := resty.New()

	baseURL := fmt.Sprintf("http://%s/api/v1", apiAddr)

	client.SetLogger(logging.RestyLogger{})

	client.
		SetTimeout(time.Duration(timeout)*time.Second).
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", fmt.Sprintf("rollupctl/%s", config.Version))

	client.
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return netutil.IsDialError(err)
		})

	client.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		logging.Debug("Making API request: %s %s", req.Method, req.URL)
		return nil
	})

	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logging.Debug("API response: %d %s (took %v)",
			resp.StatusCode(), resp.Status(), resp.Time())
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		logging.Debug("API request failed: %s %s - %v", req.Method, req.URL, err)
	})

	return &RollupAPIClient{
		client:  client,
		baseURL: baseURL,
	}
}

// CreateAPIClient builds a client from the global flags.
func CreateAPIClient() *RollupAPIClient {
	return NewRollupAPIClient(config.Global.APIAddr, config.Global.Timeout)
}

// BaseURL returns the API root the client talks to.
func (c *RollupAPIClient) BaseURL() string {
	return c.baseURL
}

// SubmitTransaction queues a transaction on the node.
func (c *RollupAPIClient) SubmitTransaction(req SubmitRequest) (*SubmitResult, error) {
	var result APIResponse[SubmitResult]
	resp, err := c.client.R().
		SetBody(req).
		SetResult(&result).
		SetError(&result).
		Post("/transactions")
	if err := checkResponse(resp, err, http.StatusAccepted, &result.Message, &result.Error); err != nil {
		return nil, err
	}
	return &result.Data, nil
}

// GetTransaction fetches a recorded transaction by hex hash.
func (c *RollupAPIClient) GetTransaction(hash string) (*TransactionResult, error) {
	var result APIResponse[TransactionResult]
	resp, err := c.client.R().
		SetPathParam("hash", hash).
		SetResult(&result).
		SetError(&result).
		Get("/transactions/{hash}")
	if resp != nil && resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("transaction %s not found", hash)
	}
	if err := checkResponse(resp, err, http.StatusOK, &result.Message, &result.Error); err != nil {
		return nil, err
	}
	return &result.Data, nil
}

// GetStatus fetches the node's batching status.
func (c *RollupAPIClient) GetStatus() (*Status, error) {
	var result APIResponse[Status]
	resp, err := c.client.R().
		SetResult(&result).
		SetError(&result).
		Get("/status")
	if err := checkResponse(resp, err, http.StatusOK, &result.Message, &result.Error); err != nil {
		return nil, err
	}
	return &result.Data, nil
}

// GetPeers lists the node's gossip members.
func (c *RollupAPIClient) GetPeers() ([]Peer, error) {
	var result APIResponse[[]Peer]
	resp, err := c.client.R().
		SetResult(&result).
		SetError(&result).
		Get("/peers")
	if err := checkResponse(resp, err, http.StatusOK, &result.Message, &result.Error); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// checkResponse turns transport failures and unexpected status codes into
// errors carrying the server's message when it sent one.
func checkResponse(resp *resty.Response, err error, want int, message, detail *string) error {
	if err != nil {
		return fmt.Errorf("failed to connect to rollupd API: %w", err)
	}
	if resp.StatusCode() == want {
		return nil
	}

	msg := resp.Status()
	if *message != "" {
		msg = *message
	}
	if *detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, *detail)
	}
	return fmt.Errorf("API request failed (%d): %s", resp.StatusCode(), msg)
}
