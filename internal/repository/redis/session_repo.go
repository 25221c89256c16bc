package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrRedisUnavailable = errors.New("redis unavailable")
)

const (
	SessionKeyPrefix = "login:user:token"
	RefreshKeyPrefix = "login:user:refresh"
)

// SessionRepository keeps the single active access token of each user and
// the id of the one refresh token that may still be exchanged.
type SessionRepository struct {
	Client     *redis.Client
	TTL        time.Duration
	RefreshTTL time.Duration
}

func NewSessionRepository(client *redis.Client, ttl, refreshTTL time.Duration) *SessionRepository {
	return &SessionRepository{Client: client, TTL: ttl, RefreshTTL: refreshTTL}
}

func (r *SessionRepository) key(userID uint64) string {
	return fmt.Sprintf("%s:%d", SessionKeyPrefix, userID)
}

func (r *SessionRepository) refreshKey(userID uint64) string {
	return fmt.Sprintf("%s:%d", RefreshKeyPrefix, userID)
}

// Save replaces both the access token and the refresh id in one MULTI.
func (r *SessionRepository) Save(ctx context.Context, userID uint64, token, refreshID string) error {
	_, err := r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.key(userID), token, r.TTL)
		pipe.Set(ctx, r.refreshKey(userID), refreshID, r.RefreshTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// RefreshID returns the jti of the refresh token issued last.
func (r *SessionRepository) RefreshID(ctx context.Context, userID uint64) (string, error) {
	id, err := r.Client.Get(ctx, r.refreshKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return id, nil
}

func (r *SessionRepository) Get(ctx context.Context, userID uint64) (string, error) {
	token, err := r.Client.Get(ctx, r.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return token, nil
}

// Touch slides the session expiry forward.
func (r *SessionRepository) Touch(ctx context.Context, userID uint64) error {
	ok, err := r.Client.Expire(ctx, r.key(userID), r.TTL).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if !ok {
		return ErrTokenNotFound
	}
	return nil
}

// Delete ends the session; neither token is accepted afterwards.
func (r *SessionRepository) Delete(ctx context.Context, userID uint64) error {
	if err := r.Client.Del(ctx, r.key(userID), r.refreshKey(userID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
