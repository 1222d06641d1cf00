package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"

	"vetgateway/models"
)

const redisKeyPrefix = "vetgateway:geocode:"

type RedisGeocodeCache struct {
	client *redis.Client
}

func NewRedisGeocodeCache(addr, password string, db int) *RedisGeocodeCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisGeocodeCache{client: client}
}

func (c *RedisGeocodeCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisGeocodeCache) Close() error {
	return c.client.Close()
}

func (c *RedisGeocodeCache) Get(ctx context.Context, key string) ([]models.Place, bool, error) {
	val, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var places []models.Place
	if err := json.Unmarshal(val, &places); err != nil {
		return nil, false, err
	}
	return places, true, nil
}

func (c *RedisGeocodeCache) Set(ctx context.Context, key string, places []models.Place, ttl time.Duration) error {
	payload, err := json.Marshal(places)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, redisKeyPrefix+key, payload, ttl).Err()
}
