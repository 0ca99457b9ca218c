// Package bridge dispatches blocking collaborator calls onto a bounded set
// of goroutines so the coordinating flow of a job stays free to service
// progress I/O and other jobs.
package bridge

import (
	"context"
	"fmt"

	"github.com/digitalprobr/supoclip/internal/infra/metrics"
	"go.uber.org/zap"
)

// ExecutionError wraps any error raised inside a bridged call. The original
// error is preserved unchanged and reachable via Unwrap.
type ExecutionError struct {
	Op  string
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("bridged call %s: %v", e.Op, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// Bridge bounds how many blocking collaborator calls run at once across all
// jobs in the process. The bound is fixed at construction; sizing it is a
// deployment decision (the acquire and render stages are the blocking ones).
type Bridge struct {
	slots  chan struct{}
	logger *zap.Logger
}

func New(maxConcurrent int, logger *zap.Logger) *Bridge {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Bridge{
		slots:  make(chan struct{}, maxConcurrent),
		logger: logger,
	}
}

// Cap returns the configured concurrency bound.
func (b *Bridge) Cap() int { return cap(b.slots) }

// Call runs fn on a pooled goroutine and hands its result back to the
// caller. Failures are logged with the collaborator's identity and returned
// as *ExecutionError; no retry, no translation. If ctx is cancelled while
// waiting for a slot the call never starts. A call already dispatched keeps
// its slot until fn returns, even if the caller gives up.
func Call[T any](ctx context.Context, b *Bridge, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	select {
	case b.slots <- struct{}{}:
	case <-ctx.Done():
		return zero, ctx.Err()
	}

	metrics.BridgeInFlight.Inc()

	type outcome struct {
		val T
		err error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			metrics.BridgeInFlight.Dec()
			<-b.slots
		}()
		val, err := fn(ctx)
		done <- outcome{val: val, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			b.logger.Error("bridged call failed",
				zap.String("op", op),
				zap.Error(out.err),
			)
			return zero, &ExecutionError{Op: op, Err: out.err}
		}
		return out.val, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
