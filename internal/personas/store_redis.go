package personas

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCustomizationStore shares customizations across API replicas.
type RedisCustomizationStore struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisCustomizationStore creates a redis-backed store; ttl <= 0 keeps keys forever.
func NewRedisCustomizationStore(redisClient *redis.Client, ttl time.Duration) *RedisCustomizationStore {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisCustomizationStore{redis: redisClient, ttl: ttl}
}

func (s *RedisCustomizationStore) key(sessionID, personaID string) string {
	return fmt.Sprintf("voicebooking:customization:%s", customizationKey(sessionID, personaID))
}

// Get retrieves a customization, returning nil if none is stored.
func (s *RedisCustomizationStore) Get(ctx context.Context, sessionID, personaID string) (*Customization, error) {
	data, err := s.redis.Get(ctx, s.key(sessionID, personaID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("personas: get customization: %w", err)
	}
	var c Customization
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("personas: unmarshal customization: %w", err)
	}
	return &c, nil
}

// Put saves a customization, refreshing its TTL.
func (s *RedisCustomizationStore) Put(ctx context.Context, sessionID, personaID string, c Customization) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("personas: marshal customization: %w", err)
	}
	if err := s.redis.Set(ctx, s.key(sessionID, personaID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("personas: set customization: %w", err)
	}
	return nil
}

// Delete removes a customization.
func (s *RedisCustomizationStore) Delete(ctx context.Context, sessionID, personaID string) error {
	if err := s.redis.Del(ctx, s.key(sessionID, personaID)).Err(); err != nil {
		return fmt.Errorf("personas: delete customization: %w", err)
	}
	return nil
}
