package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"groupcal/core/config"
	"groupcal/core/constants"
	"groupcal/core/logger"

	"github.com/redis/go-redis/v9"
)

// Cache is the redis-backed cache used for token blacklisting and OAuth
// state nonces.
type Cache interface {
	BlacklistToken(ctx context.Context, token string, ttl time.Duration) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)

	SetOAuthState(ctx context.Context, state string, userID string) error
	ConsumeOAuthState(ctx context.Context, state string) (string, error)

	Ping(ctx context.Context) error
	Close() error
}

type redisCache struct {
	client *redis.Client
}

// New connects to redis using the loaded config
func New() (Cache, error) {
	cfg := config.Get()

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	logger.Info("Redis connected", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
	return &redisCache{client: client}, nil
}

// tokenKey hashes the raw JWT so the blacklist never stores usable tokens
func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return constants.RedisKeyTokenBlacklist + hex.EncodeToString(sum[:])
}

func (c *redisCache) BlacklistToken(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, tokenKey(token), "1", ttl).Err()
}

func (c *redisCache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := c.client.Exists(ctx, tokenKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *redisCache) SetOAuthState(ctx context.Context, state string, userID string) error {
	return c.client.Set(ctx, constants.RedisKeyOAuthState+state, userID, constants.OAuthStateTTL).Err()
}

// ConsumeOAuthState returns the user id bound to a state nonce and deletes
// it, so a state can be redeemed at most once.
func (c *redisCache) ConsumeOAuthState(ctx context.Context, state string) (string, error) {
	key := constants.RedisKeyOAuthState + state
	userID, err := c.client.GetDel(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *redisCache) Close() error {
	return c.client.Close()
}
