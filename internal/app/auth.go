// internal/app/auth.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/shrimpsizemoose/trekker/logger"
)

var ErrUnauthorized = errors.New("unauthorized")

type Auth struct {
	enabled     bool
	redis       *redis.Client
	keyTemplate string
	tokenHeader string
}

func NewAuth(config *Config) (*Auth, error) {
	if !config.Server.EnableAuth {
		return &Auth{enabled: false, tokenHeader: config.Auth.TokenHeader}, nil
	}

	opt, err := redis.ParseURL(config.Auth.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Auth{
		enabled:     true,
		redis:       client,
		keyTemplate: config.Auth.TokenKeyTemplate,
		tokenHeader: config.Auth.TokenHeader,
	}, nil
}

func (a *Auth) Enabled() bool {
	return a.enabled
}

// Redis is nil when auth is disabled.
func (a *Auth) Redis() *redis.Client {
	return a.redis
}

func (a *Auth) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}

func userKey(template, user string) string {
	return strings.ReplaceAll(template, "{user}", user)
}

// bearerToken extracts the token from a "Bearer <token>" header value.
func bearerToken(header string) (string, error) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", fmt.Errorf("%w: invalid authorization header format", ErrUnauthorized)
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return "", fmt.Errorf("%w: empty token", ErrUnauthorized)
	}
	return token, nil
}

// Authenticate resolves the request's bearer token to a user. With auth
// disabled every request passes as an anonymous user.
func (a *Auth) Authenticate(r *http.Request) (string, error) {
	if !a.enabled {
		return "", nil
	}

	token, err := bearerToken(r.Header.Get(a.tokenHeader))
	if err != nil {
		return "", err
	}
	return a.ValidateToken(r.Context(), token)
}

func (a *Auth) ValidateToken(ctx context.Context, token string) (string, error) {
	if !a.enabled {
		return "", nil
	}

	user, err := a.redis.Get(ctx, fmt.Sprintf(tokenLookupKeyTpl, token)).Result()
	if err == redis.Nil {
		logger.Debug.Printf("Unknown token presented")
		return "", fmt.Errorf("%w: token not found", ErrUnauthorized)
	}
	if err != nil {
		logger.Debug.Printf("Redis error: %v", err)
		return "", fmt.Errorf("redis error: %w", err)
	}

	key := userKey(a.keyTemplate, user)
	stored, err := a.redis.HGet(ctx, key, "token").Result()
	if err != nil && err != redis.Nil {
		return "", fmt.Errorf("redis error: %w", err)
	}
	if stored != token {
		logger.Debug.Printf("Token mismatch for user %s and what's found in %s", user, key)
		return "", fmt.Errorf("%w: invalid token", ErrUnauthorized)
	}

	if err := touchToken(ctx, a.redis, key); err != nil {
		logger.Error.Printf("Failed to update token stats for %s: %v", user, err)
	}
	return user, nil
}
