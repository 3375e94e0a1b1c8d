package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultResetWindow = 15 * time.Minute

// ResetThrottle limits password resets to one per email per window, backed
// by Redis. Key format: pwreset:<normalized email>
type ResetThrottle struct {
	client *redis.Client
	window time.Duration
}

// NewResetThrottle creates a ResetThrottle wrapping the given Redis client.
// If window <= 0, defaultResetWindow is used.
func NewResetThrottle(client *redis.Client, window time.Duration) *ResetThrottle {
	if window <= 0 {
		window = defaultResetWindow
	}
	return &ResetThrottle{client: client, window: window}
}

// Allow reports whether a reset for this email may proceed.
func (t *ResetThrottle) Allow(ctx context.Context, email string) (bool, error) {
	n, err := t.client.Exists(ctx, t.key(email)).Result()
	if err != nil {
		return false, fmt.Errorf("reset throttle check: %w", err)
	}
	return n == 0, nil
}

// Mark records that a reset was performed (expires after the window).
func (t *ResetThrottle) Mark(ctx context.Context, email string) error {
	return t.client.Set(ctx, t.key(email), "1", t.window).Err()
}

func (t *ResetThrottle) key(email string) string {
	return fmt.Sprintf("pwreset:%s", email)
}
