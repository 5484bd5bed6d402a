package signal

import (
	"context"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupSignalHandler_SIGINTCancelsContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var called atomic.Bool
	SetupSignalHandler(ctx, cancel, func() { called.Store(true) })

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGINT), "failed to send SIGINT")

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not cancelled within timeout")
	}
	assert.True(t, called.Load(), "onInterrupt callback was not called")
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestSetupSignalHandler_NilCallback(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	SetupSignalHandler(ctx, cancel, nil)
	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGTERM))

	select {
	case <-ctx.Done():
		assert.ErrorIs(t, ctx.Err(), context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("context was not cancelled within timeout")
	}
}

func TestSetupSignalHandler_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var called atomic.Bool
	SetupSignalHandler(ctx, cancel, func() { called.Store(true) })

	cancel()
	time.Sleep(50 * time.Millisecond)
	assert.False(t, called.Load(), "callback must not run without a signal")
}
