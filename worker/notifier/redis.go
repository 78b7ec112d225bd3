package notifier

import (
	"context"

	"github.com/go-redis/redis"
)

type redisPublisher struct {
	client *redis.Client
}

// RedisPublisher publishes on a redis pub/sub channel.
func RedisPublisher(client *redis.Client) Publisher {
	return &redisPublisher{client: client}
}

func (p *redisPublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	return p.client.WithContext(ctx).Publish(channel, payload).Err()
}
