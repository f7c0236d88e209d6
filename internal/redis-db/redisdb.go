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

package redis_db

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis wraps the universal client shared by the response cache and the notification bridge.
type Redis struct {
	addresses []string
	client    redis.UniversalClient
}

// ParseRedisURL turns a configured DNS into client options. Bare host:port addresses
// (docker style) are used as-is; redis:// and rediss:// URLs go through redis.ParseURL.
func ParseRedisURL(rawURL string, skipTLSVerify bool) (*redis.Options, error) {
	if strings.Count(rawURL, ":") == 1 && !strings.Contains(rawURL, "@") && !strings.Contains(rawURL, "//") {
		return &redis.Options{Addr: rawURL}, nil
	}

	// redis://password@host:port has no username separator; go-redis wants redis://:password@host
	if strings.HasPrefix(rawURL, "redis://") && strings.Contains(rawURL, "@") {
		parts := strings.SplitN(strings.TrimPrefix(rawURL, "redis://"), "@", 2)
		if !strings.Contains(parts[0], ":") {
			rawURL = fmt.Sprintf("redis://:%s@%s", parts[0], parts[1])
		}
	}

	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	if opts.TLSConfig != nil && skipTLSVerify {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}
	return opts, nil
}

// NewRedisClient creates a standalone client for one address and a cluster client for several.
func NewRedisClient(addresses []string, skipTLSVerify bool) (*Redis, error) {
	if len(addresses) == 0 {
		return nil, errors.New("redis addresses list cannot be empty")
	}

	var client redis.UniversalClient
	if len(addresses) == 1 {
		opts, err := ParseRedisURL(addresses[0], skipTLSVerify)
		if err != nil {
			return nil, err
		}
		client = redis.NewClient(opts)
	} else {
		client = redis.NewClusterClient(&redis.ClusterOptions{Addrs: addresses})
	}

	return &Redis{addresses: addresses, client: client}, nil
}

func (r *Redis) Client() redis.UniversalClient {
	return r.client
}

// Ping checks connectivity with a short deadline.
func (r *Redis) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
