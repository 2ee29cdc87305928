package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-task-manager/internal/domain/repository"
)

// swapScript sets KEYS[1] to ARGV[2] only when it currently equals ARGV[1].
var swapScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
  return 1
end
return 0
`)

// SessionStore keeps one refresh-token hash per user under session:refresh:<id>.
// Keys expire with the refresh token so abandoned sessions clean themselves up.
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl}
}

func sessionKey(userID string) string {
	return "session:refresh:" + userID
}

func (s *SessionStore) Save(ctx context.Context, userID, hash string) error {
	return s.rdb.Set(ctx, sessionKey(userID), hash, s.ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, userID string) (string, error) {
	v, err := s.rdb.Get(ctx, sessionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

func (s *SessionStore) Swap(ctx context.Context, userID, prev, next string) (bool, error) {
	n, err := swapScript.Run(ctx, s.rdb, []string{sessionKey(userID)}, prev, next, s.ttl.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *SessionStore) Clear(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, sessionKey(userID)).Err()
}

var _ repository.SessionStore = (*SessionStore)(nil)
