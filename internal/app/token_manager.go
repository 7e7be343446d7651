package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shrimpsizemoose/studyplan/internal/models"
)

const (
	timeFormat        = "2006-01-02 15:04:05"
	tokenLookupKeyTpl = "token:%s" // token:${token} -> user
	tokenPrefix       = "sk-plnr-"
)

type TokenManager struct {
	redis       *redis.Client
	keyTemplate string
}

func NewTokenManager(redis *redis.Client, keyTemplate string) *TokenManager {
	if keyTemplate == "" {
		keyTemplate = defaultKeyTemplate
	}
	return &TokenManager{redis: redis, keyTemplate: keyTemplate}
}

func generateToken() (string, error) {
	randomBytes := make([]byte, 12)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return tokenPrefix + hex.EncodeToString(randomBytes), nil
}

func touchToken(ctx context.Context, client *redis.Client, key string) error {
	pipe := client.Pipeline()
	pipe.HIncrBy(ctx, key, "request_count", 1)
	pipe.HSet(ctx, key, "last_request_dttm_utc", time.Now().UTC().Format(timeFormat))
	_, err := pipe.Exec(ctx)
	return err
}

// FetchOrCreateToken returns the user's token, issuing one on first request.
// The bool reports whether the token is new.
func (tm *TokenManager) FetchOrCreateToken(ctx context.Context, user string) (*models.TokenInfo, bool, error) {
	key := userKey(tm.keyTemplate, user)

	_, err := tm.redis.HGet(ctx, key, "token").Result()
	if err != nil && err != redis.Nil {
		return nil, false, fmt.Errorf("failed to check token: %w", err)
	}

	isNewToken := false
	if err == redis.Nil {
		if err := tm.issue(ctx, user, key); err != nil {
			return nil, false, err
		}
		isNewToken = true
	} else if err := touchToken(ctx, tm.redis, key); err != nil {
		return nil, false, fmt.Errorf("failed to update token stats: %w", err)
	}

	info, err := tm.fetch(ctx, user, key)
	return info, isNewToken, err
}

// RotateToken replaces the user's token; the old one stops resolving immediately.
func (tm *TokenManager) RotateToken(ctx context.Context, user string) (*models.TokenInfo, error) {
	key := userKey(tm.keyTemplate, user)

	old, err := tm.redis.HGet(ctx, key, "token").Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to check token: %w", err)
	}
	if old != "" {
		if err := tm.redis.Del(ctx, fmt.Sprintf(tokenLookupKeyTpl, old)).Err(); err != nil {
			return nil, fmt.Errorf("failed to drop old token: %w", err)
		}
	}

	if err := tm.issue(ctx, user, key); err != nil {
		return nil, err
	}
	return tm.fetch(ctx, user, key)
}

func (tm *TokenManager) issue(ctx context.Context, user, key string) error {
	token, err := generateToken()
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	now := time.Now().UTC().Format(timeFormat)
	pipe := tm.redis.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"token":                 token,
		"request_count":         1,
		"last_request_dttm_utc": now,
		"created_dttm_utc":      now,
	})
	pipe.Set(ctx, fmt.Sprintf(tokenLookupKeyTpl, token), user, 0)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}
	return nil
}

func (tm *TokenManager) fetch(ctx context.Context, user, key string) (*models.TokenInfo, error) {
	values, err := tm.redis.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get token info: %w", err)
	}

	lastReqTime, _ := time.Parse(timeFormat, values["last_request_dttm_utc"])
	createdTime, _ := time.Parse(timeFormat, values["created_dttm_utc"])
	reqCount, _ := strconv.Atoi(values["request_count"])

	return &models.TokenInfo{
		User:            user,
		Token:           values["token"],
		RequestCount:    reqCount,
		LastRequestTime: lastReqTime,
		CreatedTime:     createdTime,
	}, nil
}

func (tm *TokenManager) Close() error {
	if tm.redis != nil {
		return tm.redis.Close()
	}
	return nil
}
