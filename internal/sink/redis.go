package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher broadcasts changes on a per-session channel and keeps the
// latest document of every résumé under an expiring key.
type RedisPublisher struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisPublisher connects to redisURL and verifies the connection.
func NewRedisPublisher(redisURL string, ttl time.Duration) (*RedisPublisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisPublisherWithClient(client, ttl), nil
}

// NewRedisPublisherWithClient creates a publisher from an existing client
func NewRedisPublisherWithClient(client *redis.Client, ttl time.Duration) *RedisPublisher {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisPublisher{client: client, prefix: "resume:", ttl: ttl}
}

// ChannelKey is the pub/sub channel events of a session are published on.
func (p *RedisPublisher) ChannelKey(sessionID string) string {
	return p.prefix + "changes:" + sessionID
}

// LatestKey holds the last published document of a résumé.
func (p *RedisPublisher) LatestKey(resumeID string) string {
	return p.prefix + "latest:" + resumeID
}

// Publish implements Publisher.
func (p *RedisPublisher) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pipe := p.client.Pipeline()
	pipe.Set(ctx, p.LatestKey(ev.ResumeID), payload, p.ttl)
	pipe.Publish(ctx, p.ChannelKey(ev.SessionID), payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish change: %w", err)
	}
	return nil
}

// Latest returns the last published event for a résumé, or nil when none
// is stored.
func (p *RedisPublisher) Latest(ctx context.Context, resumeID string) (*Event, error) {
	raw, err := p.client.Get(ctx, p.LatestKey(resumeID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get latest: %w", err)
	}
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return &ev, nil
}

// Close closes the underlying client.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
