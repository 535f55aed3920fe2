package ctxutil

import (
	"context"
	"time"
)

const (
	// DefaultAsyncTimeout is the default timeout for detached operations
	DefaultAsyncTimeout = 5 * time.Second
)

// WithAsyncContext creates a context for work that must finish even when the
// parent is cancelled, such as releasing a server-side cursor.
// Values (trace id) are preserved, cancellation is not.
func WithAsyncContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout == 0 {
		timeout = DefaultAsyncTimeout
	}
	return context.WithTimeout(context.WithoutCancel(parent), timeout)
}
