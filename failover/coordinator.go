// Package failover implements the multi-server retry protocol: a
// bounded attempt loop over the configured server list with a sticky
// preferred-server cursor.
package failover

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"sync/atomic"
)

// AttemptFunc executes one request attempt against the server at the
// given index in the configured list. A nil error ends the loop; a
// connection-level error advances to the next server.
type AttemptFunc func(ctx context.Context, server int) error

// Coordinator owns the sticky current-server cursor and the bounded
// retry loop across N configured servers.
//
// The cursor is an optimization hint, not correctness-critical state:
// concurrent requests may race to advance it and lost updates are
// tolerable. No lock is held while a network attempt is outstanding.
type Coordinator struct {
	servers int
	current atomic.Int64
}

// NewCoordinator creates a coordinator over n configured servers,
// initially preferring the first.
func NewCoordinator(n int) *Coordinator {
	return &Coordinator{servers: n}
}

// Servers returns the number of configured servers.
func (c *Coordinator) Servers() int { return c.servers }

// Preferred returns the index of the currently preferred server.
func (c *Coordinator) Preferred() int {
	return int(c.current.Load())
}

// Execute runs attempt against successive servers, starting at the
// preferred index, until an attempt returns a non-connection outcome
// or every server has been tried once.
//
// Only connection-level failures (dial errors, DNS failures, timeouts)
// trigger an advance; any other error is surfaced immediately. A
// server that answers stays preferred for subsequent requests. When
// all servers fail the last connection error is surfaced, wrapped in
// an ExhaustedError.
func (c *Coordinator) Execute(ctx context.Context, attempt AttemptFunc) error {
	index := int(c.current.Load())

	var lastErr error
	for tried := 0; tried < c.servers; tried++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := attempt(ctx, index)
		if err == nil {
			return nil
		}
		if !IsConnectionError(err) {
			return err
		}

		lastErr = err
		next := (index + 1) % c.servers
		// Best effort: another request may have advanced already.
		c.current.CompareAndSwap(int64(index), int64(next))
		index = next
	}

	return &ExhaustedError{Servers: c.servers, Last: lastErr}
}

// ExhaustedError reports that every configured server failed at the
// connection level for a single request.
type ExhaustedError struct {
	Servers int
	Last    error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all %d configured servers unreachable: %v", e.Servers, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// IsConnectionError reports whether err is a connection-level failure:
// inability to establish or complete the attempt, as opposed to
// receiving an HTTP response. Timeouts count as connection failures.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	// Unwrap the client-side URL error produced by net/http.
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
