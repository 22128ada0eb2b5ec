package store

import "errors"

var (
	// ErrStoreUnavailable indicates a transient transport failure reaching the
	// durable store. The caller decides whether to retry; the client does not.
	ErrStoreUnavailable = errors.New("item store unavailable")

	// ErrNotFound indicates the target record vanished server-side since the
	// last full load.
	ErrNotFound = errors.New("item not found in store")
)
