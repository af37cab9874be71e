package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// SessionStore keeps opaque session IDs in Redis. The value is the user ID;
// expiry is handled by the key TTL, so there is no separate cleanup job.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

// Create opens a new session for the user and returns its ID.
func (s *SessionStore) Create(ctx context.Context, userID string) (string, error) {
	sessionID := uuid.NewString()
	if err := s.client.Set(ctx, sessionKeyPrefix+sessionID, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session store create: %w", err)
	}
	return sessionID, nil
}

// Resolve returns the user ID behind a session, or "" when the session is
// unknown or expired. Satisfies middleware.SessionResolver.
func (s *SessionStore) Resolve(ctx context.Context, sessionID string) (string, error) {
	userID, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("session store resolve: %w", err)
	}
	return userID, nil
}

// Delete ends a session. Deleting a session that no longer exists is fine.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("session store delete: %w", err)
	}
	return nil
}
