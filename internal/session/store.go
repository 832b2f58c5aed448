package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"tradedesk/internal/domain"
	"tradedesk/internal/security"
)

const (
	sessionKeyPrefix = "session:"
	userIndexPrefix  = "user_sessions:"
	tokenBytes       = 32
)

// RedisStore implements domain.SessionStore on Redis. Each session is
// one key with a sliding TTL; a per-user set of tokens allows bulk
// invalidation when a user is deleted or re-roled.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a new RedisStore with the standard session TTL
func NewRedisStore(client *redis.Client) domain.SessionStore {
	return &RedisStore{
		client: client,
		ttl:    domain.SessionTTL,
	}
}

// Create issues a new opaque token for the user
func (s *RedisStore) Create(ctx context.Context, userID uuid.UUID, role string) (string, error) {
	token, err := security.GenerateToken(tokenBytes)
	if err != nil {
		return "", err
	}

	sess := &domain.Session{
		UserID:    userID,
		Role:      role,
		CreatedAt: time.Now(),
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+token, payload, s.ttl)
	pipe.SAdd(ctx, userIndexPrefix+userID.String(), token)
	pipe.Expire(ctx, userIndexPrefix+userID.String(), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	return token, nil
}

// Get resolves a token and refreshes its sliding TTL
func (s *RedisStore) Get(ctx context.Context, token string) (*domain.Session, error) {
	payload, err := s.client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		// Tampered or corrupt value is indistinguishable from absent
		return nil, domain.ErrSessionNotFound
	}

	// Sliding window: every authenticated request pushes expiry out
	pipe := s.client.TxPipeline()
	pipe.Expire(ctx, sessionKeyPrefix+token, s.ttl)
	pipe.Expire(ctx, userIndexPrefix+sess.UserID.String(), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to refresh session TTL: %w", err)
	}

	return &sess, nil
}

// Destroy removes one session
func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	sess, err := s.Get(ctx, token)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKeyPrefix+token)
	pipe.SRem(ctx, userIndexPrefix+sess.UserID.String(), token)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}

	return nil
}

// DestroyAllForUser removes every session belonging to a user
func (s *RedisStore) DestroyAllForUser(ctx context.Context, userID uuid.UUID) error {
	indexKey := userIndexPrefix + userID.String()

	tokens, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return fmt.Errorf("failed to list user sessions: %w", err)
	}

	pipe := s.client.TxPipeline()
	for _, token := range tokens {
		pipe.Del(ctx, sessionKeyPrefix+token)
	}
	pipe.Del(ctx, indexKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to destroy user sessions: %w", err)
	}

	return nil
}

// UpdateRoleForUser rewrites the role on every live session of a user
func (s *RedisStore) UpdateRoleForUser(ctx context.Context, userID uuid.UUID, role string) error {
	tokens, err := s.client.SMembers(ctx, userIndexPrefix+userID.String()).Result()
	if err != nil {
		return fmt.Errorf("failed to list user sessions: %w", err)
	}

	for _, token := range tokens {
		key := sessionKeyPrefix + token

		payload, err := s.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			continue // expired under us
		}
		if err != nil {
			return fmt.Errorf("failed to read session: %w", err)
		}

		var sess domain.Session
		if err := json.Unmarshal(payload, &sess); err != nil {
			continue
		}

		sess.Role = role
		updated, err := json.Marshal(&sess)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}

		if err := s.client.Set(ctx, key, updated, redis.KeepTTL).Err(); err != nil {
			return fmt.Errorf("failed to update session role: %w", err)
		}
	}

	return nil
}
