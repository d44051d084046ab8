package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/baigcoder/TrueVibe-sub000/internal/realtime/domain"
	"github.com/baigcoder/TrueVibe-sub000/pkg/logger"
)

// BridgeEnvelope wraps an event with the id of the bus that published it,
// so a node can skip its own loopback delivery.
type BridgeEnvelope struct {
	Origin string       `json:"origin"`
	Event  domain.Event `json:"event"`
}

// EventBridge mirrors scope events across service instances.
type EventBridge interface {
	Publish(scope domain.Scope, env BridgeEnvelope) error
	Subscribe(ctx context.Context, scope domain.Scope, handler func(env BridgeEnvelope)) error
}

// RedisEventBridge definition redis pub/sub event mirror
type RedisEventBridge struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisEventBridge create RedisEventBridge
func NewRedisEventBridge(client *redis.Client) *RedisEventBridge {
	return &RedisEventBridge{
		client: client,
		ctx:    context.Background(),
	}
}

func channelName(scope domain.Scope) string {
	return "rt:scope:" + scope.Key()
}

// Publish serialize the envelope and publish to the scope channel
func (r *RedisEventBridge) Publish(scope domain.Scope, env BridgeEnvelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return r.client.Publish(r.ctx, channelName(scope), data).Err()
}

// Subscribe follow the scope channel and hand each envelope to handler
// until ctx is cancelled.
func (r *RedisEventBridge) Subscribe(ctx context.Context, scope domain.Scope, handler func(env BridgeEnvelope)) error {
	sub := r.client.Subscribe(r.ctx, channelName(scope))
	go func() {
		ch := sub.Channel()

		for {
			select {
			case m, ok := <-ch:
				if !ok {
					return
				}

				var env BridgeEnvelope
				if err := json.Unmarshal([]byte(m.Payload), &env); err != nil {
					logger.Log.Error("event bridge decode err", zap.String("err", fmt.Sprintf("failed to unmarshal envelope: %v", err)))
					continue
				}
				if !domain.ValidEventKind(env.Event.Kind) {
					logger.Log.Warn("event bridge unknown kind", zap.String("kind", string(env.Event.Kind)))
					continue
				}
				handler(env)
			case <-ctx.Done():
				logger.Log.Info(fmt.Sprintf("%s , sub close", channelName(scope)))
				sub.Close()
				return
			}
		}
	}()
	return nil
}
