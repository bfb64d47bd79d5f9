package utils

import (
	"context"
	"errors"
	"net"
)

// IsTemporaryErr reports whether a transport error is worth retrying.
// Cancellation is final; timeouts and unknown network faults are transient.
func IsTemporaryErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var tempErr interface{ Temporary() bool }
	if errors.As(err, &tempErr) {
		return tempErr.Temporary()
	}
	return true
}
