package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultTTL           = 10 * time.Second
	defaultRetryInterval = 25 * time.Millisecond
	defaultPrefix        = "salon:lock"
)

// releaseScript удаляет ключ только если он всё ещё принадлежит владельцу токена
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis распределенные блокировки (SET NX PX) для нескольких экземпляров сервиса
type Redis struct {
	rdb           redis.Cmdable
	ttl           time.Duration
	retryInterval time.Duration
	prefix        string
	logger        Logger
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// NewRedis создает менеджер блокировок на Redis
func NewRedis(rdb redis.Cmdable, ttl, retryInterval time.Duration, prefix string, logger Logger) *Redis {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if retryInterval <= 0 {
		retryInterval = defaultRetryInterval
	}
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Redis{rdb: rdb, ttl: ttl, retryInterval: retryInterval, prefix: prefix, logger: logger}
}

// Acquire берет все ключи в отсортированном порядке, повторяя попытки до отмены контекста
func (r *Redis) Acquire(ctx context.Context, keys ...string) (func(), error) {
	keys = normalizeKeys(keys)
	token := uuid.NewString()
	held := make([]string, 0, len(keys))

	release := func() {
		// Освобождаем даже если контекст запроса уже отменен
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		for _, key := range held {
			if err := releaseScript.Run(releaseCtx, r.rdb, []string{key}, token).Err(); err != nil && r.logger != nil {
				r.logger.Warn("Lock: failed to release key=%s: %v", key, err)
			}
		}
	}

	for _, key := range keys {
		fullKey := r.prefix + ":" + key
		if err := r.acquireOne(ctx, fullKey, token); err != nil {
			release()
			return nil, err
		}
		held = append(held, fullKey)
	}

	return release, nil
}

func (r *Redis) acquireOne(ctx context.Context, key, token string) error {
	ticker := time.NewTicker(r.retryInterval)
	defer ticker.Stop()

	for {
		ok, err := r.rdb.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("%w: %s: %v", ErrLockTimeout, key, ctx.Err())
			}
			return fmt.Errorf("%w: SETNX %s: %v", ErrLockBackend, key, err)
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %s: %v", ErrLockTimeout, key, ctx.Err())
		case <-ticker.C:
		}
	}
}
