package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jellup/jellup-backend/internal/config"
	"github.com/redis/go-redis/v9"
)

// Connect opens and pings the Redis client used for short-lived codes.
func Connect(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	slog.Info("redis connected", "addr", cfg.RedisAddr)
	return client, nil
}

// CodeStore keeps one-time codes (e-mail verification, password reset)
// with a TTL. Codes are consumed on first successful use.
type CodeStore struct {
	client *redis.Client
}

func NewCodeStore(client *redis.Client) *CodeStore {
	return &CodeStore{client: client}
}

func (s *CodeStore) key(kind, code string) string {
	return "code:" + kind + ":" + code
}

// Put stores code -> subject for ttl.
func (s *CodeStore) Put(ctx context.Context, kind, code, subject string, ttl time.Duration) error {
	return s.client.Set(ctx, s.key(kind, code), subject, ttl).Err()
}

// Take returns the subject for a code and deletes it atomically.
// The second return is false when the code is absent or expired.
func (s *CodeStore) Take(ctx context.Context, kind, code string) (string, bool, error) {
	subject, err := s.client.GetDel(ctx, s.key(kind, code)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return subject, true, nil
}
