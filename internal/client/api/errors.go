package api

import "errors"

var (
	// ErrUnavailable means the request never produced an HTTP response:
	// connection refused, DNS failure, timeout. Retryable by the user.
	ErrUnavailable = errors.New("server unavailable")

	// ErrServer covers non-2xx responses that don't map to a more
	// specific sentinel. Retryable by the user.
	ErrServer = errors.New("server error")
)
