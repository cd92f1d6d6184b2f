package consent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const prefKeyPrefix = "telemetry:pref:"

// RedisStore is the production implementation for deployments where several
// relay instances share preference state.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Save(ctx context.Context, pref Preference) error {
	if pref.UpdatedAt.IsZero() {
		pref.UpdatedAt = time.Now()
	}
	payload, err := json.Marshal(pref)
	if err != nil {
		return fmt.Errorf("marshal preference: %w", err)
	}
	if err := s.client.Set(ctx, prefKeyPrefix+pref.UserID, payload, 0).Err(); err != nil {
		return fmt.Errorf("save preference: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, userID string) (Preference, bool, error) {
	payload, err := s.client.Get(ctx, prefKeyPrefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return Preference{}, false, nil
	}
	if err != nil {
		return Preference{}, false, fmt.Errorf("get preference: %w", err)
	}
	var pref Preference
	if err := json.Unmarshal(payload, &pref); err != nil {
		return Preference{}, false, fmt.Errorf("decode preference: %w", err)
	}
	return pref, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, prefKeyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("delete preference: %w", err)
	}
	return nil
}
