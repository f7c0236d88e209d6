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

package middleware

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
	"github.com/gin-gonic/gin"
	"github.com/reap-finance/onboarding/config"
)

// KeyHeader carries the operator secret on server-to-server routes.
const KeyHeader = "X-Onboarding-Key"

// limitedMessage is returned with 429 once a client has used up its burst.
const limitedMessage = "Too many requests. Wait a moment before retrying."

// RateLimitMiddleware throttles each client IP, as resolved by gin's trusted proxy settings, to
// rate_limit.requests_per_second with rate_limit.burst headroom. It is a no-op unless both values
// are set (config fills one from the other). Idle client buckets expire after
// rate_limit.cleanup_interval_sec, three hours unless configured.
func RateLimitMiddleware(conf *config.Configuration) gin.HandlerFunc {
	limits := conf.RateLimit
	if limits.RequestsPerSecond == nil || limits.Burst == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	ttl := time.Hour
	if limits.CleanupIntervalSec != nil {
		ttl = time.Duration(*limits.CleanupIntervalSec) * time.Second
	}

	lmt := tollbooth.NewLimiter(*limits.RequestsPerSecond, &limiter.ExpirableOptions{
		DefaultExpirationTTL: ttl,
	})
	lmt.SetBurst(*limits.Burst)
	lmt.SetMessage(limitedMessage)

	return func(c *gin.Context) {
		if httpError := tollbooth.LimitByKeys(lmt, []string{c.ClientIP()}); httpError != nil {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(httpError.StatusCode, gin.H{"error": httpError.Message})
			return
		}
		c.Next()
	}
}

// SecretKeyAuthMiddleware rejects requests that do not carry the configured server secret in
// the X-Onboarding-Key header.
func SecretKeyAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		conf, err := config.Fetch()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Secret key is not configured"})
			return
		}
		secretKey := conf.Server.SecretKey
		if secretKey == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Secret key is not configured"})
			return
		}

		clientSecret := c.GetHeader(KeyHeader)
		if clientSecret == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing secret key"})
			return
		}

		if !secureCompare(secretKey, clientSecret) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid secret key"})
			return
		}

		c.Next()
	}
}

func secureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
