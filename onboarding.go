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

package onboarding

import (
	"context"
	"net/http"
	"time"

	"github.com/reap-finance/onboarding/apikey"
	"github.com/reap-finance/onboarding/compliance"
	"github.com/reap-finance/onboarding/config"
	"github.com/reap-finance/onboarding/internal/cache"
	redis_db "github.com/reap-finance/onboarding/internal/redis-db"
	"github.com/reap-finance/onboarding/notification"
	"github.com/redis/go-redis/v9"
	"github.com/reap-finance/onboarding/sumsub"
	"github.com/reap-finance/onboarding/upload"
	"github.com/sirupsen/logrus"
)

// sweepInterval is how often idle sessions are looked for.
const sweepInterval = time.Minute

// Onboarding is the server side of the KYC onboarding flow. It holds the server default
// compliance key and everything that must not run in a browser.
type Onboarding struct {
	config     *config.Configuration
	compliance *compliance.Client
	policy     apikey.Policy
	uploader   *upload.Uploader
	relay      *notification.Relay
	sessions   *SessionStore
	sumsub     *sumsub.Client
	redis      *redis_db.Redis
	httpClient *http.Client
}

// NewOnboarding wires the compliance client, response cache, notification relay and session
// store from configuration.
//
// Parameters:
// - cfg *config.Configuration: The validated configuration.
//
// Returns:
// - *Onboarding: The service facade.
// - error: An error if Redis is configured but unreachable. The one Redis connection is shared by
// the response cache and the relay bridge and released by Close.
func NewOnboarding(cfg *config.Configuration) (*Onboarding, error) {
	var redisClient redis.UniversalClient
	var rdb *redis_db.Redis
	if cfg.Redis.Dns != "" {
		var err error
		rdb, err = redis_db.NewRedisClient([]string{cfg.Redis.Dns}, cfg.Redis.SkipTLSVerify)
		if err != nil {
			return nil, err
		}
		if err := rdb.Ping(context.Background()); err != nil {
			_ = rdb.Close()
			return nil, err
		}
		redisClient = rdb.Client()
	}

	cacheTTL := time.Duration(cfg.Compliance.CacheTTLSec) * time.Second
	httpClient := &http.Client{Timeout: time.Duration(cfg.Compliance.TimeoutSec) * time.Second}
	client := compliance.NewClient(cfg.Compliance.BaseURL,
		compliance.WithHTTPClient(httpClient),
		compliance.WithCache(cache.NewCache(redisClient, cacheTTL)),
		compliance.WithCacheTTL(cacheTTL),
	)

	o := &Onboarding{
		config:     cfg,
		compliance: client,
		policy:     apikey.NewPolicy(cfg.Compliance.DefaultAPIKey),
		uploader:   upload.NewUploader(client, nil),
		sessions:   NewSessionStore(time.Duration(cfg.Server.SessionIdleMinutes) * time.Minute),
		redis:      rdb,
		httpClient: httpClient,
	}

	relayOpts := []notification.Option{notification.WithCapacity(notification.DefaultCapacity)}
	if redisClient != nil {
		relayOpts = append(relayOpts, notification.WithRedis(redisClient, cfg.Notification.RedisChannel))
	}
	o.relay = notification.NewRelay(relayOpts...)

	if cfg.SumsubEnabled() {
		o.sumsub = sumsub.NewClient(cfg.Sumsub.BaseURL, cfg.Sumsub.AppToken, cfg.Sumsub.SecretKey, cfg.Sumsub.LevelName,
			sumsub.WithHTTPClient(httpClient))
		logrus.Info("verification tokens will be issued by the widget provider directly")
	}

	if !o.policy.HasDefault() {
		logrus.Warn("no server compliance API key configured; requests rely on session keys")
	}
	return o, nil
}

// Run starts the background loops (relay bridge, session expiry) and blocks until ctx is done.
func (o *Onboarding) Run(ctx context.Context) error {
	go o.sessions.RunSweeper(ctx, sweepInterval)
	return o.relay.Run(ctx)
}

// Close releases the Redis connection, if any.
func (o *Onboarding) Close() error {
	if o.redis != nil {
		return o.redis.Close()
	}
	return nil
}

func (o *Onboarding) Config() *config.Configuration {
	return o.config
}

func (o *Onboarding) Sessions() *SessionStore {
	return o.sessions
}

func (o *Onboarding) Relay() *notification.Relay {
	return o.relay
}

// ResolveKey returns the key for requests made on behalf of s: the session's custom key when it
// resolves, else the server default. s may be nil.
func (o *Onboarding) ResolveKey(s *Session) string {
	if s == nil {
		return o.policy.Resolve(nil)
	}
	return o.policy.Resolve(s.Keys)
}
