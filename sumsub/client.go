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

// Package sumsub talks to the verification widget vendor: it decodes the events the embedded
// widget emits and issues widget access tokens with request signing.
package sumsub

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/reap-finance/onboarding/internal/apierror"
	"github.com/reap-finance/onboarding/internal/request"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
)

// Provider is the provider name reported alongside tokens issued here.
const Provider = "SUMSUB"

const (
	headerAppToken = "X-App-Token"
	headerTs       = "X-App-Access-Ts"
	headerSig      = "X-App-Access-Sig"

	defaultTokenTTL = 10 * time.Minute
)

var tracer = otel.Tracer("Sumsub")

type Client struct {
	baseURL    string
	appToken   string
	secretKey  string
	levelName  string
	httpClient *http.Client
	now        func() time.Time
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithClock overrides the signing timestamp source.
func WithClock(now func() time.Time) Option {
	return func(client *Client) {
		client.now = now
	}
}

func NewClient(baseURL, appToken, secretKey, levelName string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		appToken:   appToken,
		secretKey:  secretKey,
		levelName:  levelName,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AccessToken is a short-lived token the widget is initialised with.
type AccessToken struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

// Sign computes the request signature: hex HMAC-SHA256 over ts, the upper-cased method, the
// path with query string and the raw body.
func Sign(secret string, ts int64, method, pathWithQuery string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte(strings.ToUpper(method)))
	mac.Write([]byte(pathWithQuery))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// AccessToken issues a widget token for userID (the entity id). An empty levelName uses the
// configured level.
func (c *Client) AccessToken(ctx context.Context, userID, levelName string, ttl time.Duration) (*AccessToken, error) {
	ctx, span := tracer.Start(ctx, "Requesting widget access token")
	defer span.End()

	if strings.TrimSpace(userID) == "" {
		return nil, apierror.InvalidArgument("user id is required")
	}
	if levelName == "" {
		levelName = c.levelName
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	query := url.Values{}
	query.Set("userId", userID)
	query.Set("levelName", levelName)
	query.Set("ttlInSecs", strconv.Itoa(int(ttl.Seconds())))
	path := "/resources/accessTokens?" + query.Encode()

	req, err := c.signedRequest(ctx, http.MethodPost, path, nil)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	var token AccessToken
	if _, err := request.Call(c.httpClient, req, &token); err != nil {
		span.RecordError(err)
		logrus.WithFields(logrus.Fields{"user_id": userID, "level": levelName}).WithError(err).Error("widget access token request failed")
		return nil, err
	}
	if token.UserID == "" {
		token.UserID = userID
	}
	return &token, nil
}

func (c *Client) signedRequest(ctx context.Context, method, pathWithQuery string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+pathWithQuery, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	ts := c.now().Unix()
	req.Header.Set(headerAppToken, c.appToken)
	req.Header.Set(headerTs, strconv.FormatInt(ts, 10))
	req.Header.Set(headerSig, Sign(c.secretKey, ts, method, req.URL.RequestURI(), body))
	return req, nil
}
