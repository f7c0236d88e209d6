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

package request

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/reap-finance/onboarding/internal/apierror"
)

// maxErrorBody bounds how much of an upstream error body is echoed back in a message.
const maxErrorBody = 512

// ToJsonReq converts a Go object to a JSON-encoded HTTP request payload.
//
// Parameters:
// - payload interface{}: The data structure to be serialized into JSON.
//
// Returns:
// - *bytes.Buffer: The JSON-encoded payload wrapped in a bytes buffer, ready to be sent in a request.
// - error: An error if the JSON marshalling process fails.
func ToJsonReq(payload interface{}) (*bytes.Buffer, error) {
	c, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return bytes.NewBuffer(c), nil
}

// Call sends the request with the given client and decodes a 2xx JSON body into response.
// A nil response skips decoding, as does an empty body.
//
// Any non-2xx answer is translated into an apierror.APIError with code REQUEST_FAILED
// carrying the upstream status and the best message that could be extracted from the body.
// Transport failures are returned as REQUEST_FAILED with a zero status.
//
// Parameters:
// - client *http.Client: The client to use. http.DefaultClient is used when nil.
// - req *http.Request: The prepared HTTP request to send.
// - response interface{}: The target structure to hold the decoded JSON response.
//
// Returns:
// - *http.Response: The raw HTTP response object (body already consumed), nil on transport failure.
// - error: A typed failure or a JSON decoding error.
func Call(client *http.Client, req *http.Request, response interface{}) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if req.Header.Get("Content-Type") == "" && req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, apierror.RequestFailed(0, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, apierror.RequestFailed(resp.StatusCode, "failed to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, apierror.RequestFailed(resp.StatusCode, UpstreamMessage(body, resp.Status))
	}

	if response == nil || len(bytes.TrimSpace(body)) == 0 {
		return resp, nil
	}

	if err := json.Unmarshal(body, response); err != nil {
		return resp, err
	}
	return resp, nil
}

// UpstreamMessage extracts a human readable message from an upstream error body.
// It looks at the usual "message" and "error" fields (string or array of strings) and falls back
// to the trimmed raw body, then to fallback.
func UpstreamMessage(body []byte, fallback string) string {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, field := range []string{"message", "error", "detail"} {
			if msg := stringify(payload[field]); msg != "" {
				return msg
			}
		}
	}

	raw := strings.TrimSpace(string(body))
	if raw == "" {
		return fallback
	}
	if len(raw) > maxErrorBody {
		raw = raw[:maxErrorBody]
	}
	return raw
}

func stringify(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	case map[string]interface{}:
		return stringify(val["message"])
	default:
		return ""
	}
}
