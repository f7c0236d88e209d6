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
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/reap-finance/onboarding/apikey"
	"github.com/reap-finance/onboarding/compliance"
	"github.com/reap-finance/onboarding/internal/apierror"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
)

// maxProxyBody bounds the upstream body relayed to the browser. Larger answers are refused
// rather than cut.
var maxProxyBody int64 = 10 << 20

// ProxyRequest is a browser call to forward to the compliance service.
type ProxyRequest struct {
	Endpoint string
	Method   string
	Data     json.RawMessage
}

// ProxyResponse is the upstream answer, passed through unchanged.
type ProxyResponse struct {
	Status      int
	ContentType string
	Body        []byte
}

// Proxy forwards a browser call to an allow-listed compliance endpoint, attaching the resolved key
// so the browser never holds the server default. Relative endpoints are resolved against the
// compliance base URL. Upstream non-2xx answers are returned as responses, not errors.
//
// Parameters:
// - ctx context.Context: The context for the operation.
// - s *Session: The browser session.
// - req ProxyRequest: The call to forward.
//
// Returns:
// - *ProxyResponse: The upstream status and body.
// - error: INVALID_ARGUMENT without an endpoint, FORBIDDEN outside the allow-list,
// REQUEST_FAILED when the upstream cannot be reached or answers with an oversized body.
func (o *Onboarding) Proxy(ctx context.Context, s *Session, req ProxyRequest) (*ProxyResponse, error) {
	ctx, span := otel.Tracer("Compliance proxy").Start(ctx, "Proxying compliance request")
	defer span.End()

	endpoint := strings.TrimSpace(req.Endpoint)
	if endpoint == "" {
		return nil, apierror.InvalidArgument("Endpoint is required")
	}
	if strings.HasPrefix(endpoint, "/") {
		endpoint = o.compliance.BaseURL() + endpoint
	}
	if !o.endpointAllowed(endpoint) {
		logrus.WithField("endpoint", endpoint).Warn("proxy request to a domain outside the allow-list")
		return nil, apierror.NewAPIError(apierror.ErrForbidden, "Domain not allowed", nil)
	}

	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if len(req.Data) > 0 && method != http.MethodGet && method != http.MethodHead {
		body = bytes.NewReader(req.Data)
	}

	upstream, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, apierror.InvalidArgument("invalid proxy request: " + err.Error())
	}
	if body != nil {
		upstream.Header.Set("Content-Type", "application/json")
	}
	upstream.Header.Set("Accept", "application/json")

	key := o.ResolveKey(s)
	compliance.SetAPIKey(upstream, key)

	resp, err := o.httpClient.Do(upstream)
	if err != nil {
		span.RecordError(err)
		logrus.WithFields(logrus.Fields{"endpoint": endpoint, "api_key": apikey.Redact(key)}).WithError(err).Error("proxy request failed")
		return nil, apierror.RequestFailed(0, err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxProxyBody+1))
	if err != nil {
		return nil, apierror.RequestFailed(resp.StatusCode, "failed to read upstream response")
	}
	if int64(len(raw)) > maxProxyBody {
		logrus.WithFields(logrus.Fields{"endpoint": endpoint, "status": resp.StatusCode, "limit": maxProxyBody}).Error("upstream response too large to proxy")
		return nil, apierror.RequestFailed(0, "upstream response exceeds the proxy size limit")
	}

	logrus.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"method":   method,
		"status":   resp.StatusCode,
		"api_key":  apikey.Redact(key),
	}).Info("proxied compliance request")

	return &ProxyResponse{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        raw,
	}, nil
}

// endpointAllowed reports whether endpoint starts with an allow-listed base URL, on a path
// boundary so that a look-alike host cannot pass.
func (o *Onboarding) endpointAllowed(endpoint string) bool {
	for _, allowed := range o.config.Compliance.AllowedDomains {
		allowed = strings.TrimRight(strings.TrimSpace(allowed), "/")
		if allowed == "" || !strings.HasPrefix(endpoint, allowed) {
			continue
		}
		rest := endpoint[len(allowed):]
		if rest == "" || rest[0] == '/' || rest[0] == '?' {
			return true
		}
	}
	return false
}
