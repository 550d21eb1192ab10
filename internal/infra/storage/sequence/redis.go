package sequence

import (
	"context"
	"fmt"
	"time"
)

const (
	redisKeyPrefix = "invoice_seq:"

	// счетчик периода живет дольше самого периода
	defaultRedisTTL = 400 * 24 * time.Hour
)

// RedisCounter счетчик на INCR invoice_seq:{yyyyMM}
// Значение не откатывается вместе с транзакцией счета: при ошибке вставки номер пропускается
type RedisCounter struct {
	client RedisClient
	ttl    time.Duration
}

// NewRedisCounter создает счетчик; ttl <= 0 означает значение по умолчанию
func NewRedisCounter(client RedisClient, ttl time.Duration) *RedisCounter {
	if ttl <= 0 {
		ttl = defaultRedisTTL
	}
	return &RedisCounter{client: client, ttl: ttl}
}

// Next атомарно увеличивает счетчик периода
func (c *RedisCounter) Next(ctx context.Context, period string) (int64, error) {
	key := redisKeyPrefix + period

	value, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: INCR %s: %v", ErrRedis, key, err)
	}

	if value == 1 {
		if err := c.client.Expire(ctx, key, c.ttl).Err(); err != nil {
			return 0, fmt.Errorf("%w: EXPIRE %s: %v", ErrRedis, key, err)
		}
	}

	return value, nil
}
