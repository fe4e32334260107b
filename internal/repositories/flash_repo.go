package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const flashPrefix = "flash:"

// Unclaimed notices expire on their own; a redirect is followed within
// seconds when it is followed at all.
const flashTTL = 10 * time.Minute

// RedisFlashStore keeps one-shot notices between the redirect that sets them
// and the render that shows them.
type RedisFlashStore struct {
	client *redis.Client
}

func NewRedisFlashStore(client *redis.Client) *RedisFlashStore {
	return &RedisFlashStore{client: client}
}

func (s *RedisFlashStore) Put(ctx context.Context, id, notice string) error {
	key := fmt.Sprintf("%s%s", flashPrefix, id)
	if err := s.client.Set(ctx, key, notice, flashTTL).Err(); err != nil {
		return fmt.Errorf("failed to store flash notice: %w", err)
	}
	return nil
}

// Take returns the notice and discards it in one step, so a notice is shown
// at most once.
func (s *RedisFlashStore) Take(ctx context.Context, id string) (string, error) {
	key := fmt.Sprintf("%s%s", flashPrefix, id)

	notice, err := s.client.GetDel(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to take flash notice: %w", err)
	}
	return notice, nil
}
