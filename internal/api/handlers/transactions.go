package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/concave-dev/rollupd/internal/logging"
	"github.com/concave-dev/rollupd/internal/rollup"
	"github.com/gin-gonic/gin"
)

// ErrQueueFull is returned when the sequencer does not take a transaction before
// the enqueue deadline.
var ErrQueueFull = errors.New("transaction queue full")

// TransactionReader looks up recorded transactions. store.Ledger implements it.
type TransactionReader interface {
	Transaction(hash rollup.Hash) (rollup.Transaction, bool, error)
}

// Enqueue hands tx to the sequencer event loop, waiting at most timeout (or until
// ctx ends) for space in the queue.
func Enqueue(ctx context.Context, queue chan<- rollup.Transaction, tx rollup.Transaction, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case queue <- tx:
		return nil
	case <-ctx.Done():
		return ErrQueueFull
	}
}

// SubmitTransactionRequest is the REST body for a new transaction. Amount and
// nonce are base-10 strings so 128-bit amounts survive JSON.
type SubmitTransactionRequest struct {
	Sender    string `json:"sender" binding:"required"`
	Recipient string `json:"recipient" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
	Nonce     string `json:"nonce" binding:"required"`
	Memo      string `json:"memo"`
}

func (r SubmitTransactionRequest) fields() map[string]string {
	return map[string]string{
		rollup.FieldSender:    r.Sender,
		rollup.FieldRecipient: r.Recipient,
		rollup.FieldAmount:    r.Amount,
		rollup.FieldNonce:     r.Nonce,
		rollup.FieldMemo:      r.Memo,
	}
}

// SubmitTransactionResponse acknowledges a queued transaction.
type SubmitTransactionResponse struct {
	Hash   string `json:"hash"`
	Sender string `json:"sender"`
	Nonce  uint64 `json:"nonce"`
}

// HandleSubmitTransaction queues a transaction from a JSON body. A 202 means the
// event loop has the transaction, not that it is recorded yet.
func HandleSubmitTransaction(queue chan<- rollup.Transaction, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubmitTransactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Invalid request body",
				"error":   err.Error(),
			})
			return
		}

		tx, err := rollup.FromFields(req.fields())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Invalid transaction",
				"error":   err.Error(),
			})
			return
		}

		if err := Enqueue(c.Request.Context(), queue, tx, timeout); err != nil {
			logging.Warn("Rejecting transaction from %s: %v", tx.Sender, err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "error",
				"message": "Sequencer is not accepting transactions",
				"error":   err.Error(),
			})
			return
		}

		c.JSON(http.StatusAccepted, gin.H{
			"status": "success",
			"data": SubmitTransactionResponse{
				Hash:   tx.Hash().Hex(),
				Sender: tx.Sender,
				Nonce:  tx.Nonce,
			},
		})
	}
}

// HandleGetTransaction returns a recorded transaction by its hex hash.
func HandleGetTransaction(reader TransactionReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		hash, err := rollup.ParseHash(c.Param("hash"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Invalid transaction hash",
				"error":   err.Error(),
			})
			return
		}

		tx, found, err := reader.Transaction(hash)
		if err != nil {
			logging.Error("Ledger lookup for %s failed: %v", hash.Hex(), err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Ledger lookup failed",
			})
			return
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "Transaction not found",
				"hash":    hash.Hex(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "success",
			"data": gin.H{
				"hash":        hash.Hex(),
				"transaction": tx,
			},
		})
	}
}
