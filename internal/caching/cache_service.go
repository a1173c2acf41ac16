package caching

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"stroymart/internal/models"

	"github.com/redis/go-redis/v9"
)

const categoryTreeKey = "stroymart:categories:active"

type CacheService interface {
	// GetCategoryTree returns the cached flat category rows, or (nil, nil)
	// on a cache miss. Delivery info is deliberately never cached.
	GetCategoryTree(ctx context.Context) ([]*models.Category, error)
	SetCategoryTree(ctx context.Context, categories []*models.Category, ttl time.Duration) error
	InvalidateCategoryTree(ctx context.Context) error

	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetCategoryTree(ctx context.Context) ([]*models.Category, error) {
	data, err := r.client.Get(ctx, categoryTreeKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var categories []*models.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *redisCacheService) SetCategoryTree(ctx context.Context, categories []*models.Category, ttl time.Duration) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, categoryTreeKey, data, ttl).Err()
}

func (r *redisCacheService) InvalidateCategoryTree(ctx context.Context) error {
	return r.client.Del(ctx, categoryTreeKey).Err()
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return value, err
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
