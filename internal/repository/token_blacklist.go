// Package repository 提供了数据访问层的实现。
package repository

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// TokenBlacklist 定义了会话令牌黑名单的操作接口。
// 登出时将令牌拉黑，黑名单条目随令牌剩余有效期一同过期。
type TokenBlacklist interface {
	Add(ctx context.Context, tokenString string, expiration time.Duration) error
	Contains(ctx context.Context, tokenString string) (bool, error)
}

type redisTokenBlacklist struct {
	redisClient *redis.Client
}

// NewTokenBlacklist 创建一个基于 Redis 的 TokenBlacklist 实例。
func NewTokenBlacklist(redisClient *redis.Client) TokenBlacklist {
	return &redisTokenBlacklist{redisClient: redisClient}
}

// Add 将令牌加入黑名单，过期时间取令牌的剩余有效期。
func (b *redisTokenBlacklist) Add(ctx context.Context, tokenString string, expiration time.Duration) error {
	if expiration <= 0 {
		// 已过期的令牌无需拉黑
		return nil
	}
	return b.redisClient.Set(ctx, "blacklist:"+tokenString, "true", expiration).Err()
}

// Contains 检查令牌是否在黑名单中。
func (b *redisTokenBlacklist) Contains(ctx context.Context, tokenString string) (bool, error) {
	n, err := b.redisClient.Exists(ctx, "blacklist:"+tokenString).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
