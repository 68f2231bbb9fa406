package signal

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupSignalHandler_CancelsOnSIGINT(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupted := make(chan struct{})
	SetupSignalHandler(ctx, cancel, func() {
		close(interrupted)
	})

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGINT))

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context was not cancelled after SIGINT")
	}

	select {
	case <-interrupted:
	default:
		t.Fatal("onInterrupt callback did not run")
	}
}

func TestSetupSignalHandler_GoroutineExitsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	called := false
	SetupSignalHandler(ctx, cancel, func() { called = true })

	cancel()
	time.Sleep(50 * time.Millisecond)

	assert.False(t, called, "callback must not fire on plain cancellation")
}
