package submit

import (
	"context"
	"fmt"
	"time"

	"github.com/concave-dev/rollupd/internal/logging"
	"github.com/concave-dev/rollupd/internal/netutil"
	"github.com/concave-dev/rollupd/internal/rollup"
	"github.com/concave-dev/rollupd/internal/version"
	"github.com/go-resty/resty/v2"
)

// BatchPayload is the JSON body POSTed for each batch.
type BatchPayload struct {
	Height       uint64               `json:"height"`
	Trigger      rollup.Trigger       `json:"trigger"`
	CutAt        time.Time            `json:"cut_at"`
	Count        int                  `json:"count"`
	Transactions []rollup.Transaction `json:"transactions"`
}

// HTTPSubmitter POSTs batches to a settlement endpoint. Empty batches are not
// sent.
type HTTPSubmitter struct {
	client *resty.Client
	url    string
}

// NewHTTPSubmitter builds a resty client for cfg.URL. Only failed dials are
// retried, up to cfg.RetryCount times. Timeouts and HTTP error statuses are
// not, since the endpoint may already hold the batch.
func NewHTTPSubmitter(cfg *Config) *HTTPSubmitter {
	client := resty.New()
	client.SetLogger(logging.RestyLogger{})

	client.
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", fmt.Sprintf("rollupd/%s", version.RollupdVersion))

	client.
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return netutil.IsDialError(err)
		})

	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logging.Debug("Submit response: %d %s (took %v)", resp.StatusCode(), resp.Status(), resp.Time())
		return nil
	})

	return &HTTPSubmitter{client: client, url: cfg.URL}
}

// Submit POSTs the batch and treats any non-2xx status as failure.
func (s *HTTPSubmitter) Submit(ctx context.Context, batch *rollup.Batch) error {
	if batch.Empty() {
		logging.Debug("Skipping submission of empty batch %d", batch.Height)
		return nil
	}

	txs := batch.Transactions
	payload := BatchPayload{
		Height:       batch.Height,
		Trigger:      batch.Trigger,
		CutAt:        batch.CutAt,
		Count:        len(txs),
		Transactions: txs,
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(s.url)
	if err != nil {
		return fmt.Errorf("failed to submit batch %d to %s: %w", batch.Height, s.url, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("submission of batch %d rejected with status %d: %s", batch.Height, resp.StatusCode(), resp.String())
	}

	logging.Success("Submitted batch %d with %d transactions to %s", batch.Height, len(txs), s.url)
	return nil
}
