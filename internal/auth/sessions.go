// FilePath: internal/auth/sessions.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"

	"github.com/luzhub/luzhub/internal/config"
	"github.com/luzhub/luzhub/internal/errors"
	"github.com/luzhub/luzhub/internal/models"
)

const sessionKeyPrefix = "luzhub:session:"

// SessionStore issues and resolves bearer session tokens.
type SessionStore interface {
	Create(ctx context.Context, identity models.Identity) (string, error)
	Get(ctx context.Context, token string) (*models.Identity, error)
	Delete(ctx context.Context, token string) error
}

// RedisSessionStore keeps sessions in redis with a sliding TTL.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore connects to redis and verifies the connection.
func NewRedisSessionStore(cfg config.RedisConfig) (*RedisSessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("error connecting to redis: %w", err)
	}

	nuts.L.Infof("[Sessions] Connected to redis at %s:%d", cfg.Host, cfg.Port)
	return &RedisSessionStore{client: client, ttl: cfg.SessionTTL}, nil
}

func (s *RedisSessionStore) Create(ctx context.Context, identity models.Identity) (string, error) {
	token := uuid.NewString()

	payload, err := json.Marshal(identity)
	if err != nil {
		return "", errors.NewInternalError("failed to encode session", err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+token, payload, s.ttl).Err(); err != nil {
		return "", errors.NewInternalError("failed to store session", err)
	}
	return token, nil
}

func (s *RedisSessionStore) Get(ctx context.Context, token string) (*models.Identity, error) {
	payload, err := s.client.GetEx(ctx, sessionKeyPrefix+token, s.ttl).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NewAuthError("session not found", err)
		}
		return nil, errors.NewInternalError("failed to load session", err)
	}

	var identity models.Identity
	if err := json.Unmarshal(payload, &identity); err != nil {
		return nil, errors.NewInternalError("failed to decode session", err)
	}
	return &identity, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return errors.NewInternalError("failed to delete session", err)
	}
	return nil
}

// Close releases the redis connection.
func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}
