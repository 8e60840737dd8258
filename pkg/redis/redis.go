package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"campushub/backend/config"
)

// Client Redis 客户端封装
// 当前用于排课运行锁与 Token 黑名单
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── 排课运行锁 ──
//
// 同一 (semester, year) 同一时刻只允许一个自动排课运行。
// 运行锁防止两个并发运行各自基于过期快照通过冲突检查后重复占用教室；
// 条目写入时的事务内复核仍是最终防线。

const runLockPrefix = "scheduler:run:"

// AcquireRunLock 尝试获取排课运行锁，返回是否获取成功
func (c *Client) AcquireRunLock(ctx context.Context, semester string, year int, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("%s%s:%d", runLockPrefix, semester, year)
	return c.rdb.SetNX(ctx, key, "1", ttl).Result()
}

// ReleaseRunLock 释放排课运行锁
func (c *Client) ReleaseRunLock(ctx context.Context, semester string, year int) error {
	key := fmt.Sprintf("%s%s:%d", runLockPrefix, semester, year)
	return c.rdb.Del(ctx, key).Err()
}

// ── Token 黑名单 ──
//
// 黑名单由身份服务写入（注销/封禁时），本服务只读

const blacklistPrefix = "token:blacklist:"

// IsBlacklisted 检查 JWT ID 是否在黑名单中
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
