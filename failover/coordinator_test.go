package failover

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// connRefused fabricates the kind of error the transport yields when a
// server cannot be reached.
func connRefused(server int) error {
	return &url.Error{
		Op:  "Get",
		URL: fmt.Sprintf("http://server-%d.example.com/api/", server),
		Err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")},
	}
}

func TestExecuteFirstServerAnswers(t *testing.T) {
	coord := NewCoordinator(3)

	var tried []int
	err := coord.Execute(context.Background(), func(_ context.Context, server int) error {
		tried = append(tried, server)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{0}, tried)
	assert.Equal(t, 0, coord.Preferred())
}

func TestExecuteAdvancesOnConnectionFailure(t *testing.T) {
	coord := NewCoordinator(3)

	var tried []int
	err := coord.Execute(context.Background(), func(_ context.Context, server int) error {
		tried = append(tried, server)
		if server == 0 {
			return connRefused(server)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, tried)
	// The server that answered stays preferred for the next request.
	assert.Equal(t, 1, coord.Preferred())
}

func TestExecuteStickyPreference(t *testing.T) {
	coord := NewCoordinator(2)

	// First request fails over to server 1.
	err := coord.Execute(context.Background(), func(_ context.Context, server int) error {
		if server == 0 {
			return connRefused(server)
		}
		return nil
	})
	require.NoError(t, err)

	// Second request starts directly at server 1.
	var tried []int
	err = coord.Execute(context.Background(), func(_ context.Context, server int) error {
		tried = append(tried, server)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, tried)
}

func TestExecuteExhaustsAllServers(t *testing.T) {
	coord := NewCoordinator(3)

	var tried []int
	err := coord.Execute(context.Background(), func(_ context.Context, server int) error {
		tried = append(tried, server)
		return connRefused(server)
	})

	require.Error(t, err)
	assert.Equal(t, []int{0, 1, 2}, tried)

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Servers)
	// The last server's error is the one surfaced.
	assert.Contains(t, exhausted.Last.Error(), "server-2")
}

func TestExecuteSingleServerNoFailover(t *testing.T) {
	coord := NewCoordinator(1)

	attempts := 0
	err := coord.Execute(context.Background(), func(_ context.Context, _ int) error {
		attempts++
		return connRefused(0)
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestExecuteStopsOnNonConnectionError(t *testing.T) {
	coord := NewCoordinator(3)

	permanent := errors.New("permanent application error")
	attempts := 0
	err := coord.Execute(context.Background(), func(_ context.Context, _ int) error {
		attempts++
		return permanent
	})

	require.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 0, coord.Preferred())
}

func TestExecuteRespectsContextCancellation(t *testing.T) {
	coord := NewCoordinator(2)

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := coord.Execute(ctx, func(_ context.Context, _ int) error {
		attempts++
		cancel()
		return connRefused(0)
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestExecuteConcurrentRequests(t *testing.T) {
	// Concurrent requests may race to advance the cursor; each request
	// still gets at most one attempt per configured server and ends up
	// on a reachable one.
	coord := NewCoordinator(3)
	reachable := 2

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := coord.Execute(context.Background(), func(_ context.Context, server int) error {
				if server != reachable {
					return connRefused(server)
				}
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, reachable, coord.Preferred())
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		connection bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"dial failure", connRefused(0), true},
		{"op error", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("refused")}, true},
		{"dns failure", &net.DNSError{Err: "no such host", Name: "nope.example.com"}, true},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"wrapped deadline", fmt.Errorf("attempt: %w", context.DeadlineExceeded), true},
		{"url error wrapping non-network error", &url.Error{Op: "Get", URL: "http://x", Err: errors.New("boom")}, false},
		{"timeout via net.Error", &net.DNSError{Err: "timeout", Name: "x", IsTimeout: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.connection, IsConnectionError(tt.err))
		})
	}
}

func TestExhaustedErrorUnwrap(t *testing.T) {
	last := connRefused(1)
	err := &ExhaustedError{Servers: 2, Last: last}

	assert.ErrorIs(t, err, last)
	assert.Contains(t, err.Error(), "all 2 configured servers unreachable")
}

func TestExecuteDoesNotBlockAcrossRequests(t *testing.T) {
	// A slow attempt in one request must not delay another request's
	// failover decision: there is no cross-request lock.
	coord := NewCoordinator(2)

	release := make(chan struct{})
	slowStarted := make(chan struct{})

	go func() {
		_ = coord.Execute(context.Background(), func(_ context.Context, _ int) error {
			close(slowStarted)
			<-release
			return nil
		})
	}()

	<-slowStarted
	done := make(chan error, 1)
	go func() {
		done <- coord.Execute(context.Background(), func(_ context.Context, _ int) error {
			return nil
		})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("second request blocked behind first request's attempt")
	}
	close(release)
}
