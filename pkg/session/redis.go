package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionPrefix = "session:"

	// sessionTTL bounds how long an idle wizard survives. The wizard itself
	// has no expiry concept; the redis deployment gets one here so abandoned
	// sessions do not accumulate forever.
	sessionTTL = 24 * time.Hour
)

// RedisStore keeps sessions as JSON blobs in redis, one key per user.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a redis-backed session store.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func key(userID int64) string {
	return fmt.Sprintf("%s%d", sessionPrefix, userID)
}

func (r *RedisStore) Get(ctx context.Context, userID int64) (*Session, bool, error) {
	data, err := r.rdb.Get(ctx, key(userID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load session %d: %w", userID, err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal session %d: %w", userID, err)
	}
	return &s, true, nil
}

func (r *RedisStore) Put(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session %d: %w", s.UserID, err)
	}
	if err := r.rdb.Set(ctx, key(s.UserID), data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to save session %d: %w", s.UserID, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, userID int64) error {
	if err := r.rdb.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session %d: %w", userID, err)
	}
	return nil
}
