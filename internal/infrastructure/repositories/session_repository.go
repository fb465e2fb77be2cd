package repositories

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/you/guardianauth/domain"
)

// SessionRepositoryImpl implements domain.SessionRepository using Redis.
// Each user gets a single slot holding the currently trusted refresh
// token; writing a new token invalidates the prior one (last writer wins).
type SessionRepositoryImpl struct {
	client *redis.Client
	prefix string
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(client *redis.Client) domain.SessionRepository {
	return &SessionRepositoryImpl{
		client: client,
		prefix: "refresh:",
	}
}

// Replace implements domain.SessionRepository
func (r *SessionRepositoryImpl) Replace(ctx context.Context, userID, refreshToken string, ttl time.Duration) error {
	return r.client.Set(ctx, r.prefix+userID, refreshToken, ttl).Err()
}

// Get implements domain.SessionRepository
func (r *SessionRepositoryImpl) Get(ctx context.Context, userID string) (string, error) {
	val, err := r.client.Get(ctx, r.prefix+userID).Result()
	if err == redis.Nil {
		return "", domain.ErrSessionNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Delete implements domain.SessionRepository
func (r *SessionRepositoryImpl) Delete(ctx context.Context, userID string) error {
	return r.client.Del(ctx, r.prefix+userID).Err()
}
