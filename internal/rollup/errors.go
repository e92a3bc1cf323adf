package rollup

import "errors"

// Error kinds shared across the node. Callers wrap them with context using
// fmt.Errorf("...: %w", ErrX) and match with errors.Is.
var (
	// ErrConfig reports invalid startup configuration, e.g. a peer id given
	// without a peer address.
	ErrConfig = errors.New("configuration error")

	// ErrStorage reports a failed durable store read or write.
	ErrStorage = errors.New("storage error")

	// ErrDecode reports a malformed transaction, either canonical bytes from a
	// peer or field values from an RPC request.
	ErrDecode = errors.New("decode error")

	// ErrChannelClosed reports that an ingress channel closed underneath the
	// event loop.
	ErrChannelClosed = errors.New("channel closed")
)
