// Package cache is the Redis read-through layer in front of the user
// profile store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"campusrent/internal/models"

	"github.com/redis/go-redis/v9"
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

func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// Get decodes key into dest. A missing key is reported as (false, nil).
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
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

func (s *CacheService) CacheUserProfile(ctx context.Context, userID uint, profile models.UserProfile) error {
	return s.Set(ctx, GenerateKey(EntityUser, KeyProfile, userID), profile)
}

func (s *CacheService) GetUserProfile(ctx context.Context, userID uint) (models.UserProfile, bool, error) {
	var profile models.UserProfile
	found, err := s.Get(ctx, GenerateKey(EntityUser, KeyProfile, userID), &profile)
	return profile, found, err
}

func (s *CacheService) InvalidateUser(ctx context.Context, userID uint) error {
	return s.Delete(ctx, GenerateKey(EntityUser, KeyProfile, userID))
}

func (s *CacheService) Close() error {
	return s.client.Close()
}
