package realtime

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const DefaultRelayChannel = "socialpulse:push"

type relayFrame struct {
	Origin  string          `json:"origin"`
	Target  uint            `json:"target"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// LocalDeliverer is the receiving side of the relay. *Dispatcher satisfies it.
type LocalDeliverer interface {
	DeliverLocal(target uint, event string, payload any) bool
}

// RedisRelay fans events out to every process over a single pub/sub channel. Each process
// tags its frames with a random origin and ignores its own.
type RedisRelay struct {
	rdb     *redis.Client
	channel string
	origin  string
	log     *zap.Logger
}

func NewRedisRelay(rdb *redis.Client, channel string, log *zap.Logger) *RedisRelay {
	if channel == "" {
		channel = DefaultRelayChannel
	}
	return &RedisRelay{rdb: rdb, channel: channel, origin: uuid.NewString(), log: log}
}

func (r *RedisRelay) Publish(ctx context.Context, target uint, event string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	data, err := json.Marshal(relayFrame{Origin: r.origin, Target: target, Event: event, Payload: raw})
	if err != nil {
		return err
	}
	return r.rdb.Publish(ctx, r.channel, data).Err()
}

// Run subscribes and hands frames from other processes to d until ctx is cancelled.
func (r *RedisRelay) Run(ctx context.Context, d LocalDeliverer) error {
	pubsub := r.rdb.Subscribe(ctx, r.channel)
	defer func() {
		_ = pubsub.Close()
	}()

	if _, err := pubsub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	r.log.Info("relay subscribed", zap.String("channel", r.channel), zap.String("origin", r.origin))

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var frame relayFrame
			if err := json.Unmarshal([]byte(msg.Payload), &frame); err != nil {
				r.log.Warn("malformed relay frame", zap.Error(err))
				continue
			}
			if frame.Origin == r.origin {
				continue
			}
			d.DeliverLocal(frame.Target, frame.Event, frame.Payload)
		}
	}
}
