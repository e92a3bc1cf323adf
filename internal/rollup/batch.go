package rollup

import "time"

// Trigger names the condition that cut a batch.
type Trigger string

const (
	TriggerSize  Trigger = "size"
	TriggerTimer Trigger = "timer"
)

// Batch is a numbered set of transactions handed to submission. Height is the
// counter value observed while the transactions accumulated. Batches are never
// persisted as a unit; the transactions are recorded individually on accept.
type Batch struct {
	Height       uint64        `json:"height"`
	Transactions []Transaction `json:"transactions"`
	Trigger      Trigger       `json:"trigger"`
	CutAt        time.Time     `json:"cut_at"`
}

// Len returns the number of transactions in the batch.
func (b *Batch) Len() int {
	return len(b.Transactions)
}

// Empty reports whether the batch carries no transactions. Timer cuts over an
// empty pool produce empty batches.
func (b *Batch) Empty() bool {
	return len(b.Transactions) == 0
}
