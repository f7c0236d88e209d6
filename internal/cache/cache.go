/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrCacheMiss is returned by Get when the key is absent or its staleness window has passed.
var ErrCacheMiss = cache.ErrCacheMiss

// Cache interface provides the basic operations for a cache system.
// It includes methods for setting, getting, and deleting cached data.
type Cache interface {
	// Set stores a value in the cache with a specified time-to-live (TTL).
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Get retrieves a value from the cache using a given key into data.
	// Returns ErrCacheMiss when nothing fresh is stored under the key.
	Get(ctx context.Context, key string, data interface{}) error

	// Delete removes a value from the cache based on the provided key.
	Delete(ctx context.Context, key string) error
}

// RedisCache implements the Cache interface on top of go-redis/cache.
// The Redis tier is optional; without it only the in-process TinyLFU tier is used.
type RedisCache struct {
	cache *cache.Cache
}

// cacheSize defines the size of the local cache (in number of entries).
const cacheSize = 10000

// NewCache builds the response cache. With a Redis client both tiers are used and the client
// stays owned by the caller; with nil the cache is process-local. Local entries expire after ttl.
func NewCache(client redis.UniversalClient, ttl time.Duration) Cache {
	if client == nil {
		logrus.Info("redis not configured, compliance responses cached in-process only")
		return NewLocalCache(ttl)
	}

	c := cache.New(&cache.Options{
		Redis:      client,
		LocalCache: cache.NewTinyLFU(cacheSize, ttl),
	})
	return &RedisCache{cache: c}
}

// NewLocalCache returns a cache without a Redis tier. Local entries expire after ttl.
func NewLocalCache(ttl time.Duration) *RedisCache {
	c := cache.New(&cache.Options{
		LocalCache: cache.NewTinyLFU(cacheSize, ttl),
	})
	return &RedisCache{cache: c}
}

// Set adds a new entry to the cache with a specified key and TTL.
func (r *RedisCache) Set(ctx context.Context, key string, data interface{}, ttl time.Duration) error {
	return r.cache.Set(&cache.Item{
		Ctx:   ctx,
		Key:   key,
		Value: data,
		TTL:   ttl,
	})
}

// Get retrieves an entry from the cache based on the provided key.
func (r *RedisCache) Get(ctx context.Context, key string, data interface{}) error {
	err := r.cache.Get(ctx, key, data)
	if errors.Is(err, cache.ErrCacheMiss) {
		return ErrCacheMiss
	}
	return err
}

// Delete removes an entry from the cache based on the provided key.
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	return r.cache.Delete(ctx, key)
}
