package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/digitalprobr/supoclip/internal/domain/entity"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Subscription is a one-shot live feed of progress snapshots for a single
// task, starting at the point of subscription. There is no replay; callers
// that need the current state call Store.Get separately.
type Subscription struct {
	pubsub  *goredis.PubSub
	updates chan entity.ProgressSnapshot

	closeOnce sync.Once
	closeErr  error
}

// Subscribe opens a live subscription to taskID's topic. The returned
// Subscription must be closed by the consumer; it also closes itself when
// ctx is cancelled. Either way the underlying unsubscribe and connection
// release run exactly once.
func (s *Store) Subscribe(ctx context.Context, taskID string) (*Subscription, error) {
	pubsub := s.client.Subscribe(ctx, keyPrefix+taskID)

	// Confirm the subscription before returning so no update published
	// after this point is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribe progress %s: %w", taskID, err)
	}

	sub := &Subscription{
		pubsub:  pubsub,
		updates: make(chan entity.ProgressSnapshot, 16),
	}
	go sub.forward(ctx, s.logger)
	return sub, nil
}

// Updates yields snapshots until the subscription is closed, then the
// channel closes.
func (sub *Subscription) Updates() <-chan entity.ProgressSnapshot {
	return sub.updates
}

// Close unsubscribes and releases the broker connection. Idempotent.
func (sub *Subscription) Close() error {
	sub.closeOnce.Do(func() {
		sub.closeErr = sub.pubsub.Close()
	})
	return sub.closeErr
}

func (sub *Subscription) forward(ctx context.Context, logger *zap.Logger) {
	defer close(sub.updates)
	defer sub.Close()

	ch := sub.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var snap entity.ProgressSnapshot
			if err := json.Unmarshal([]byte(msg.Payload), &snap); err != nil {
				logger.Warn("dropping malformed progress payload",
					zap.String("channel", msg.Channel),
					zap.Error(err),
				)
				continue
			}
			select {
			case sub.updates <- snap:
			case <-ctx.Done():
				return
			}
		}
	}
}
