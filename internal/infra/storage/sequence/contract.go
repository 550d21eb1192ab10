package sequence

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SAV-InterventionService/pkg/dbmetrics"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// RedisClient подмножество go-redis, нужное счетчику
type RedisClient interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}
