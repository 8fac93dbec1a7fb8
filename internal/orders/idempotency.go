package orders

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	IdempotencyHeader = "Idempotency-Key"

	keyIdemOrderCreate = "idem:order:create:%s"
)

var TTLIdempotency = 24 * time.Hour

// IdempotencyStore remembers which order a client request key created.
type IdempotencyStore interface {
	// Claim binds key to orderID unless the key is already bound, in which
	// case it returns the existing order id and false.
	Claim(ctx context.Context, key, orderID string) (existing string, claimed bool, err error)
	Release(ctx context.Context, key string) error
}

type RedisIdempotency struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisIdempotency(rdb *redis.Client, ttl time.Duration) *RedisIdempotency {
	return &RedisIdempotency{rdb: rdb, ttl: ttl}
}

func (s *RedisIdempotency) Claim(ctx context.Context, key, orderID string) (string, bool, error) {
	redisKey := fmt.Sprintf(keyIdemOrderCreate, key)

	ok, err := s.rdb.SetNX(ctx, redisKey, orderID, s.ttl).Result()
	if err != nil {
		return "", false, err
	}
	if ok {
		return orderID, true, nil
	}

	existing, err := s.rdb.Get(ctx, redisKey).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET
		return s.Claim(ctx, key, orderID)
	}
	if err != nil {
		return "", false, err
	}
	return existing, false, nil
}

func (s *RedisIdempotency) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, fmt.Sprintf(keyIdemOrderCreate, key)).Err()
}

func idempotencyKey(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(IdempotencyHeader))
}
