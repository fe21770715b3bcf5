package utils

import (
	"context"
	"time"
)

// DefaultTimeout bounds one-off database operations outside a request.
const DefaultTimeout = 10 * time.Second

// WithTimeout creates a context with default timeout
func WithTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, DefaultTimeout)
}
