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

// Package compliance is the client for the upstream compliance (KYC/KYB) service. Every
// operation is a single request/response exchange: there are no retries, and failures come back
// as apierror values carrying the upstream status.
package compliance

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/reap-finance/onboarding/apikey"
	"github.com/reap-finance/onboarding/internal/apierror"
	"github.com/reap-finance/onboarding/internal/cache"
	"github.com/reap-finance/onboarding/internal/request"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// APIKeyHeader carries the resolved API key on every outgoing request.
const APIKeyHeader = "x-reap-api-key"

const (
	defaultCacheTTL = 30 * time.Second
	defaultTimeout  = 30 * time.Second
)

var tracer = otel.Tracer("Compliance client")

type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      cache.Cache
	cacheTTL   time.Duration

	mu sync.Mutex
	// generations invalidates cached entity lists per key fingerprint: bumping the counter
	// changes every list cache key for that API key.
	generations map[string]uint64
}

type Option func(*Client)

// WithHTTPClient replaces the default client (30s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithCache enables caching of entity lists. Without it every FetchEntities hits the network.
func WithCache(c cache.Cache) Option {
	return func(client *Client) {
		client.cache = c
	}
}

// WithCacheTTL sets the staleness window for cached lists.
func WithCacheTTL(ttl time.Duration) Option {
	return func(client *Client) {
		if ttl > 0 {
			client.cacheTTL = ttl
		}
	}
}

// NewClient creates a client for the compliance API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: defaultTimeout},
		cacheTTL:    defaultCacheTTL,
		generations: make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the root every request path is appended to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// call is the JSON round trip shared by every operation.
func (c *Client) call(ctx context.Context, operation, apiKey, method, path string, payload, response interface{}) error {
	var body io.Reader
	if payload != nil {
		buf, err := request.ToJsonReq(payload)
		if err != nil {
			return err
		}
		body = buf
	}
	return c.send(ctx, operation, apiKey, method, path, body, "", response)
}

// send executes one request. contentType is only set when non-empty; request.Call defaults
// JSON bodies.
func (c *Client) send(ctx context.Context, operation, apiKey, method, path string, body io.Reader, contentType string, response interface{}) error {
	ctx, span := tracer.Start(ctx, operation)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("compliance.path", path),
	)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		span.RecordError(err)
		return apierror.NewAPIError(apierror.ErrInternalServer, "failed to build compliance request", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	SetAPIKey(req, apiKey)

	start := time.Now()
	resp, err := request.Call(c.httpClient, req, response)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	span.SetAttributes(attribute.Int("http.status_code", status))

	fields := logrus.Fields{
		"operation": operation,
		"status":    status,
		"api_key":   apikey.Redact(apiKey),
		"duration":  time.Since(start).String(),
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logrus.WithFields(fields).WithError(err).Error("compliance request failed")
		return err
	}

	logrus.WithFields(fields).Debug("compliance request completed")
	return nil
}

// SetAPIKey attaches key to req. An empty key leaves the request unauthenticated, which the
// upstream answers with its own 401.
func SetAPIKey(req *http.Request, key string) {
	if key != "" {
		req.Header.Set(APIKeyHeader, key)
	}
}

func requireID(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return apierror.InvalidArgument(name + " is required")
	}
	return nil
}

func escape(segment string) string {
	return url.PathEscape(strings.TrimSpace(segment))
}

// fingerprint identifies a key in cache keys without storing the key itself.
func fingerprint(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(sum[:8])
}

func (c *Client) generation(fp string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[fp]
}

func (c *Client) invalidate(apiKey string) {
	if c.cache == nil {
		return
	}
	fp := fingerprint(apiKey)
	c.mu.Lock()
	c.generations[fp]++
	c.mu.Unlock()
}
