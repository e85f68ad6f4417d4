package ports

import (
	"context"
	"time"
)

// Lease is a best-effort named lock shared by every process instance.
type Lease interface {
	TryAcquire(ctx context.Context, name string, ttl time.Duration) (token string, ok bool, err error)
	Release(ctx context.Context, name, token string) error
}
