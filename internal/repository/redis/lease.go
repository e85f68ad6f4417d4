// Package redis holds the Redis-backed cross-instance lease.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// releaseLua deletes the key only while it still holds our token, so a lease
// that expired and was taken by another instance is left alone.
var releaseLua = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

type Lease struct {
	client goredis.UniversalClient
	prefix string
}

func NewLease(client goredis.UniversalClient, prefix string) *Lease {
	if prefix == "" {
		prefix = "billing:lease"
	}
	return &Lease{client: client, prefix: prefix}
}

// NewClient parses a redis:// URL and pings the server.
func NewClient(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (l *Lease) TryAcquire(ctx context.Context, name string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key(name), token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("acquire lease %s: %w", name, err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (l *Lease) Release(ctx context.Context, name, token string) error {
	err := releaseLua.Run(ctx, l.client, []string{l.key(name)}, token).Err()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("release lease %s: %w", name, err)
	}
	return nil
}

func (l *Lease) key(name string) string {
	return l.prefix + ":" + name
}
