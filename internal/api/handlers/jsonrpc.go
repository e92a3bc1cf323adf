package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/concave-dev/rollupd/internal/logging"
	"github.com/concave-dev/rollupd/internal/rollup"
	"github.com/gin-gonic/gin"
)

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// MethodTransaction submits one transaction. Params are an object of five string
// fields; the result is the string "message".
const MethodTransaction = "transaction"

// TransactionResult is returned for an accepted "transaction" call.
const TransactionResult = "message"

// RPCRequest is a JSON-RPC 2.0 request.
type RPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      json.RawMessage `json:"id"`
}

// RPCError is a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RPCResponse is a JSON-RPC 2.0 response.
type RPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  any             `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
	ID      json.RawMessage `json:"id"`
}

var nullID = json.RawMessage("null")

// HandleJSONRPC serves the JSON-RPC endpoint. Batch requests are not supported.
// Protocol errors are reported in the body with HTTP 200.
func HandleJSONRPC(queue chan<- rollup.Transaction, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			rpcFail(c, nullID, CodeParseError, "failed to read request body")
			return
		}

		var req RPCRequest
		if err := json.Unmarshal(body, &req); err != nil {
			if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '[' {
				rpcFail(c, nullID, CodeInvalidRequest, "batch requests are not supported")
				return
			}
			rpcFail(c, nullID, CodeParseError, "parse error: "+err.Error())
			return
		}

		id := req.ID
		if len(id) == 0 {
			id = nullID
		}

		if req.JSONRPC != "2.0" || req.Method == "" {
			rpcFail(c, id, CodeInvalidRequest, "invalid request")
			return
		}

		switch req.Method {
		case MethodTransaction:
			handleRPCTransaction(c, id, req.Params, queue, timeout)
		default:
			rpcFail(c, id, CodeMethodNotFound, "method not found: "+req.Method)
		}
	}
}

func handleRPCTransaction(c *gin.Context, id, params json.RawMessage, queue chan<- rollup.Transaction, timeout time.Duration) {
	var fields map[string]string
	if len(params) == 0 || json.Unmarshal(params, &fields) != nil || fields == nil {
		rpcFail(c, id, CodeInvalidParams, "params must be an object of string fields")
		return
	}

	tx, err := rollup.FromFields(fields)
	if err != nil {
		rpcFail(c, id, CodeInvalidParams, err.Error())
		return
	}

	if err := Enqueue(c.Request.Context(), queue, tx, timeout); err != nil {
		logging.Warn("Rejecting RPC transaction from %s: %v", tx.Sender, err)
		rpcFail(c, id, CodeInternalError, err.Error())
		return
	}

	logging.Debug("Queued RPC transaction %s", logging.FormatHash(tx.Hash().Hex()))
	c.JSON(http.StatusOK, RPCResponse{JSONRPC: "2.0", Result: TransactionResult, ID: id})
}

func rpcFail(c *gin.Context, id json.RawMessage, code int, message string) {
	c.JSON(http.StatusOK, RPCResponse{
		JSONRPC: "2.0",
		Error:   &RPCError{Code: code, Message: message},
		ID:      id,
	})
}
