// Package cache provides the redis-backed read cache in front of the
// partner directory.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"delivra/internal/models"
)

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Client exposes the underlying redis client for services that need raw
// commands beyond the JSON cache surface.
func (s *CacheService) Client() *redis.Client {
	return s.client
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, s.ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Key generation
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// Partner caching
func (s *CacheService) CachePartner(ctx context.Context, partner *models.Partner) error {
	if partner == nil {
		return errors.New("cannot cache nil partner")
	}
	return s.Set(ctx, s.GenerateKey("partner", "id", partner.ID), partner)
}

func (s *CacheService) GetPartner(ctx context.Context, id uuid.UUID) (*models.Partner, bool, error) {
	var partner models.Partner
	found, err := s.Get(ctx, s.GenerateKey("partner", "id", id), &partner)
	if err != nil || !found {
		return nil, false, err
	}
	return &partner, true, nil
}

func (s *CacheService) InvalidatePartner(ctx context.Context, id uuid.UUID) error {
	return s.Delete(ctx, s.GenerateKey("partner", "id", id))
}

func (s *CacheService) Close() error {
	return s.client.Close()
}
