package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// IStateStore holds short-lived OAuth state values keyed to the user that
// initiated the flow. Take consumes the state so a value can only be used
// once.
type IStateStore interface {
	Put(ctx context.Context, state string, userID int64, ttl time.Duration) error
	Take(ctx context.Context, state string) (int64, bool)
}

const stateKeyPrefix = "oauth_state:"

// RedisStateStore backs the state store with Redis so callbacks can land on
// any instance.
type RedisStateStore struct {
	client *redis.Client
}

func NewRedisStateStore(client *redis.Client) IStateStore {
	return &RedisStateStore{client: client}
}

func (s *RedisStateStore) Put(ctx context.Context, state string, userID int64, ttl time.Duration) error {
	return s.client.Set(ctx, stateKeyPrefix+state, strconv.FormatInt(userID, 10), ttl).Err()
}

func (s *RedisStateStore) Take(ctx context.Context, state string) (int64, bool) {
	val, err := s.client.GetDel(ctx, stateKeyPrefix+state).Result()
	if err != nil {
		return 0, false
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// MemoryStateStore is the single-instance fallback when Redis is absent.
type MemoryStateStore struct {
	mu     sync.Mutex
	states map[string]memoryState
}

type memoryState struct {
	userID int64
	expiry time.Time
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: map[string]memoryState{}}
}

func (s *MemoryStateStore) Put(_ context.Context, state string, userID int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state] = memoryState{userID: userID, expiry: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryStateStore) Take(_ context.Context, state string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[state]
	if !ok {
		return 0, false
	}
	delete(s.states, state)
	if time.Now().After(st.expiry) {
		return 0, false
	}
	return st.userID, true
}
