package bridge

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCallReturnsResult(t *testing.T) {
	b := New(2, zap.NewNop())

	got, err := Call(context.Background(), b, "echo", func(ctx context.Context) (string, error) {
		return "hello", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestCallWrapsErrorPreservingCause(t *testing.T) {
	b := New(2, zap.NewNop())
	cause := errors.New("collaborator exploded")

	_, err := Call(context.Background(), b, "boom", func(ctx context.Context) (int, error) {
		return 0, cause
	})

	require.Error(t, err)

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "boom", execErr.Op)
	assert.ErrorIs(t, err, cause)
}

func TestCallEnforcesBound(t *testing.T) {
	const bound = 2
	b := New(bound, zap.NewNop())

	var inflight, peak atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < bound*3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = Call(context.Background(), b, "slow", func(ctx context.Context) (struct{}, error) {
				n := inflight.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				<-release
				inflight.Add(-1)
				return struct{}{}, nil
			})
		}()
	}

	// Let the pool saturate before releasing.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(bound))
	assert.Positive(t, peak.Load())
}

func TestCallCancelledWhileWaitingForSlot(t *testing.T) {
	b := New(1, zap.NewNop())

	block := make(chan struct{})
	defer close(block)

	started := make(chan struct{})
	go func() {
		_, _ = Call(context.Background(), b, "hog", func(ctx context.Context) (struct{}, error) {
			close(started)
			<-block
			return struct{}{}, nil
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	ran := false
	_, err := Call(ctx, b, "late", func(ctx context.Context) (struct{}, error) {
		ran = true
		return struct{}{}, nil
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, ran, "cancelled call must never start")
}

func TestNewClampsBound(t *testing.T) {
	b := New(0, zap.NewNop())
	assert.Equal(t, 1, b.Cap())
}
