package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stockbook/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// CacheService fronts hot reads of inventory items and materials. Cache
// failures are never fatal: callers log and fall through to the store.
type CacheService interface {
	GetItem(ctx context.Context, materialID int64) (*models.InventoryItem, error)
	SetItem(ctx context.Context, item *models.InventoryItem, ttl time.Duration) error
	DeleteItem(ctx context.Context, materialID int64) error

	GetMaterial(ctx context.Context, materialID int64) (*models.Material, error)
	SetMaterial(ctx context.Context, material *models.Material, ttl time.Duration) error
	DeleteMaterial(ctx context.Context, materialID int64) error

	Ping(ctx context.Context) error
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

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Warn().Err(err).Str("addr", addr).Msg("redis ping failed on initialization")
	}

	return &redisCacheService{client: client}
}

func itemKey(materialID int64) string {
	return fmt.Sprintf("stockbook:item:%d", materialID)
}

func materialKey(materialID int64) string {
	return fmt.Sprintf("stockbook:material:%d", materialID)
}

func (r *redisCacheService) GetItem(ctx context.Context, materialID int64) (*models.InventoryItem, error) {
	data, err := r.client.Get(ctx, itemKey(materialID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var item models.InventoryItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *redisCacheService) SetItem(ctx context.Context, item *models.InventoryItem, ttl time.Duration) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, itemKey(item.MaterialID), data, ttl).Err()
}

func (r *redisCacheService) DeleteItem(ctx context.Context, materialID int64) error {
	return r.client.Del(ctx, itemKey(materialID)).Err()
}

func (r *redisCacheService) GetMaterial(ctx context.Context, materialID int64) (*models.Material, error) {
	data, err := r.client.Get(ctx, materialKey(materialID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var material models.Material
	if err := json.Unmarshal(data, &material); err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *redisCacheService) SetMaterial(ctx context.Context, material *models.Material, ttl time.Duration) error {
	data, err := json.Marshal(material)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, materialKey(material.ID), data, ttl).Err()
}

func (r *redisCacheService) DeleteMaterial(ctx context.Context, materialID int64) error {
	return r.client.Del(ctx, materialKey(materialID)).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
