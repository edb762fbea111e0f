package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	stockKeyPrefix = "roulette_stock_"
	spunKeyPrefix  = "roulette_spun:"
)

var decrementStockScript = redis.NewScript(`
local key = KEYS[1]

local current = redis.call('GET', key)
if not current then
	return 0
end

current = tonumber(current)
if current > 0 then
	redis.call('DECR', key)
	return 1
end

return 0
`)

// RedisAdapter keeps stock counters as decimal strings under
// roulette_stock_<kind> and participant marks under roulette_spun:<id>.
type RedisAdapter struct {
	client  *redis.Client
	spunTTL time.Duration
}

func NewRedisAdapter(client *redis.Client, spunTTL time.Duration) *RedisAdapter {
	return &RedisAdapter{client: client, spunTTL: spunTTL}
}

func (r *RedisAdapter) SeedStock(ctx context.Context, kind string, quantity int) (bool, error) {
	return r.client.SetNX(ctx, stockKeyPrefix+kind, quantity, 0).Result()
}

func (r *RedisAdapter) ReadStock(ctx context.Context, kind string) (int, bool, error) {
	n, err := r.client.Get(ctx, stockKeyPrefix+kind).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

func (r *RedisAdapter) SetStock(ctx context.Context, kind string, quantity int) error {
	return r.client.Set(ctx, stockKeyPrefix+kind, quantity, 0).Err()
}

func (r *RedisAdapter) DecrementStock(ctx context.Context, kind string) (bool, error) {
	result, err := decrementStockScript.Run(ctx, r.client, []string{stockKeyPrefix + kind}).Int()
	if err != nil {
		return false, err
	}

	return result == 1, nil
}

func (r *RedisAdapter) ClaimSpin(ctx context.Context, participantID string) (bool, error) {
	return r.client.SetNX(ctx, spunKeyPrefix+participantID, 1, r.spunTTL).Result()
}

func (r *RedisAdapter) ReleaseSpin(ctx context.Context, participantID string) error {
	return r.client.Del(ctx, spunKeyPrefix+participantID).Err()
}
