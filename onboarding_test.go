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
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jarcoal/httpmock"
	"github.com/reap-finance/onboarding/compliance"
	"github.com/reap-finance/onboarding/config"
	"github.com/reap-finance/onboarding/internal/apierror"
	"github.com/reap-finance/onboarding/model"
	"github.com/reap-finance/onboarding/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testBaseURL    = "https://compliance.example.com/api"
	testDefaultKey = "server_default_key_0001"
	testCustomKey  = "sandbox_custom_key_0002"
)

func testConfig() *config.Configuration {
	return &config.Configuration{
		ProjectName: "test",
		Server:      config.ServerConfig{Port: "5001", SessionIdleMinutes: 60},
		Compliance: config.ComplianceConfig{
			BaseURL:        testBaseURL,
			DefaultAPIKey:  testDefaultKey,
			AllowedDomains: []string{testBaseURL},
			CacheTTLSec:    30,
			TimeoutSec:     5,
		},
		App:          config.AppConfig{BaseURL: "https://app.example.com"},
		Notification: config.Notification{RedisChannel: "kyc:notifications"},
	}
}

func newTestOnboarding(t *testing.T) *Onboarding {
	t.Helper()
	o, err := NewOnboarding(testConfig())
	require.NoError(t, err)
	return o
}

func TestResolveKeyTiers(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	var seen []string
	httpmock.RegisterResponder("GET", testBaseURL+"/features", func(req *http.Request) (*http.Response, error) {
		seen = append(seen, req.Header.Get(compliance.APIKeyHeader))
		return httpmock.NewStringResponse(200, `{"items":[],"meta":{}}`), nil
	})

	o := newTestOnboarding(t)
	s, _ := o.Sessions().GetOrCreate("")
	ctx := context.Background()

	_, err := o.ListFeatures(ctx, s, 1, 10)
	require.NoError(t, err)

	use := true
	key := testCustomKey
	_, err = o.UpdateSessionKey(s, SessionKeyUpdate{UseCustomKey: &use, CustomKey: &key})
	require.NoError(t, err)
	_, err = o.ListFeatures(ctx, s, 1, 10)
	require.NoError(t, err)

	short := "short"
	_, err = o.UpdateSessionKey(s, SessionKeyUpdate{CustomKey: &short})
	assert.True(t, apierror.IsCode(err, apierror.ErrValidationFailed))
	_, err = o.ListFeatures(ctx, s, 1, 10)
	require.NoError(t, err)

	assert.Equal(t, []string{testDefaultKey, testCustomKey, testDefaultKey}, seen)
}

func TestSessionKeyViewNeverExposesKey(t *testing.T) {
	o := newTestOnboarding(t)
	s, _ := o.Sessions().GetOrCreate("")

	assert.Equal(t, "default", o.SessionKey(s).Source)

	use := true
	key := "pk_live_0123456789abcd"
	view, err := o.UpdateSessionKey(s, SessionKeyUpdate{UseCustomKey: &use, CustomKey: &key})
	require.NoError(t, err)
	assert.True(t, view.IsValid)
	assert.NotEmpty(t, view.Warning)
	assert.Equal(t, "custom", view.Source)

	raw, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), key)
	assert.Contains(t, string(raw), "abcd")

	view = o.ClearSessionKey(s)
	assert.False(t, view.UseCustomKey)
	assert.Empty(t, view.RedactedKey)
	assert.Equal(t, "default", view.Source)
}

func TestSessionKeyIgnoredWhileCustomKeysOff(t *testing.T) {
	o := newTestOnboarding(t)
	s, _ := o.Sessions().GetOrCreate("")

	short := "short"
	view, err := o.UpdateSessionKey(s, SessionKeyUpdate{CustomKey: &short})
	require.NoError(t, err)
	assert.Empty(t, view.Error)
	assert.Empty(t, view.RedactedKey)
	assert.Equal(t, "default", view.Source)

	live := "pk_live_0123456789abcd"
	view, err = o.UpdateSessionKey(s, SessionKeyUpdate{CustomKey: &live})
	require.NoError(t, err)
	assert.Empty(t, view.Warning)
	assert.Empty(t, o.SessionKey(s).Warning)
}

func TestStartVerificationCreatesEntityAndToken(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	externalID := gofakeit.UUID()
	httpmock.RegisterResponder("POST", testBaseURL+"/entity", func(req *http.Request) (*http.Response, error) {
		var body model.CreateEntity
		_ = json.NewDecoder(req.Body).Decode(&body)
		assert.Equal(t, externalID, body.ExternalID)
		return httpmock.NewStringResponse(201, `{"id":"E1","externalId":"`+externalID+`","type":"INDIVIDUAL"}`), nil
	})
	httpmock.RegisterResponder("POST", testBaseURL+"/entity/E1/kyc", func(req *http.Request) (*http.Response, error) {
		var body model.KycLinkRequest
		_ = json.NewDecoder(req.Body).Decode(&body)
		assert.Equal(t, "https://app.example.com/entities/E1?verification=success", body.SuccessURL)
		assert.Equal(t, "https://app.example.com/entities/E1?verification=failure", body.FailureURL)
		return httpmock.NewStringResponse(200, `{"provider":"SUMSUB","sdkToken":"_act-sbx-1"}`), nil
	})

	o := newTestOnboarding(t)
	s, _ := o.Sessions().GetOrCreate("")

	w, state, err := o.StartVerification(context.Background(), s, VerificationRequest{
		ExternalID: externalID,
		Type:       model.EntityIndividual,
		AutoStart:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, workflow.StepDocumentVerification, state.CurrentStep)
	assert.Equal(t, "_act-sbx-1", state.SDKToken)

	// a second advance does not create a second entity
	w.Advance(context.Background())
	info := httpmock.GetCallCountInfo()
	assert.Equal(t, 1, info["POST "+testBaseURL+"/entity"])
	assert.Equal(t, 1, info["POST "+testBaseURL+"/entity/E1/kyc"])

	state, err = o.VerificationEvent(s, w.ID, "idCheck.onApplicantStatusChanged", json.RawMessage(`{"reviewStatus":"completed"}`))
	require.NoError(t, err)
	assert.Equal(t, workflow.StepComplete, state.CurrentStep)
	assert.Equal(t, "/entities/E1", state.NavigateTo)
}

func TestStartVerificationFailureAndRetry(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", testBaseURL+"/entity/E7/kyc",
		httpmock.NewStringResponder(500, `{"message":"provider unavailable"}`))

	o := newTestOnboarding(t)
	s, _ := o.Sessions().GetOrCreate("")

	w, state, err := o.StartVerification(context.Background(), s, VerificationRequest{EntityID: "E7", AutoStart: true})
	require.NoError(t, err)
	assert.Equal(t, workflow.StepTokenPreparation, state.CurrentStep)
	assert.Equal(t, "provider unavailable", state.Error)

	httpmock.RegisterResponder("POST", testBaseURL+"/entity/E7/kyc",
		httpmock.NewStringResponder(200, `{"web_href":"https://verify.example.com/s/1"}`))

	state, err = o.RetryVerification(context.Background(), s, w.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.StepDocumentVerification, state.CurrentStep)
	assert.Equal(t, "https://verify.example.com/s/1", state.WebHref)
	assert.Equal(t, 2, httpmock.GetTotalCallCount())
}

func TestStartVerificationValidation(t *testing.T) {
	o := newTestOnboarding(t)
	s, _ := o.Sessions().GetOrCreate("")

	_, _, err := o.StartVerification(context.Background(), s, VerificationRequest{Type: model.EntityBusiness})
	assert.True(t, apierror.IsCode(err, apierror.ErrInvalidArgument))

	_, _, err = o.StartVerification(context.Background(), s, VerificationRequest{ExternalID: "x", Type: "TRUST"})
	assert.True(t, apierror.IsCode(err, apierror.ErrInvalidArgument))

	_, err = o.Verification(s, "wf_missing")
	assert.True(t, apierror.IsCode(err, apierror.ErrNotFound))
}

func TestVerificationIsScopedToSession(t *testing.T) {
	o := newTestOnboarding(t)
	owner, _ := o.Sessions().GetOrCreate("")
	other, _ := o.Sessions().GetOrCreate("")

	w, _, err := o.StartVerification(context.Background(), owner, VerificationRequest{EntityID: "E1", AutoStart: false})
	require.NoError(t, err)

	_, err = o.Verification(other, w.ID)
	assert.True(t, apierror.IsCode(err, apierror.ErrNotFound))
}

func TestProxy(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testBaseURL+"/entity/E1", func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, testDefaultKey, req.Header.Get(compliance.APIKeyHeader))
		return httpmock.NewStringResponse(404, `{"message":"Entity not found"}`), nil
	})
	httpmock.RegisterResponder("POST", testBaseURL+"/entity", httpmock.NewStringResponder(201, `{"id":"E2"}`))

	o := newTestOnboarding(t)
	ctx := context.Background()

	_, err := o.Proxy(ctx, nil, ProxyRequest{})
	assert.True(t, apierror.IsCode(err, apierror.ErrInvalidArgument))

	for _, endpoint := range []string{
		"https://evil.example.com/api/entity",
		"https://compliance.example.com/apix/entity",
		"https://compliance.example.com/api.evil.com/entity",
	} {
		_, err = o.Proxy(ctx, nil, ProxyRequest{Endpoint: endpoint})
		assert.Equal(t, http.StatusForbidden, apierror.MapErrorToHTTPStatus(err), endpoint)
	}

	resp, err := o.Proxy(ctx, nil, ProxyRequest{Endpoint: testBaseURL + "/entity/E1"})
	require.NoError(t, err)
	assert.Equal(t, 404, resp.Status)
	assert.JSONEq(t, `{"message":"Entity not found"}`, string(resp.Body))

	resp, err = o.Proxy(ctx, nil, ProxyRequest{Endpoint: "/entity", Method: "post", Data: json.RawMessage(`{"externalId":"x"}`)})
	require.NoError(t, err)
	assert.Equal(t, 201, resp.Status)
	assert.Zero(t, httpmock.GetCallCountInfo()["GET https://evil.example.com/api/entity"])
}

func TestProxyRefusesOversizedBody(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	defer func(limit int64) { maxProxyBody = limit }(maxProxyBody)
	maxProxyBody = 16

	httpmock.RegisterResponder("GET", testBaseURL+"/entity/E1",
		httpmock.NewStringResponder(200, `{"id":"E1","externalId":"0123456789"}`))
	httpmock.RegisterResponder("GET", testBaseURL+"/entity/E2",
		httpmock.NewStringResponder(200, `{"id":"E2"}`))

	o := newTestOnboarding(t)

	_, err := o.Proxy(context.Background(), nil, ProxyRequest{Endpoint: testBaseURL + "/entity/E1"})
	assert.True(t, apierror.IsCode(err, apierror.ErrRequestFailed))
	assert.Equal(t, http.StatusBadGateway, apierror.MapErrorToHTTPStatus(err))

	resp, err := o.Proxy(context.Background(), nil, ProxyRequest{Endpoint: testBaseURL + "/entity/E2"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"E2"}`, string(resp.Body))
}

func TestWidgetTokenRequiresCredentials(t *testing.T) {
	o := newTestOnboarding(t)
	s, _ := o.Sessions().GetOrCreate("")
	_, err := o.WidgetToken(context.Background(), s, "E1", "", time.Minute)
	assert.True(t, apierror.IsCode(err, apierror.ErrNotFound))
}

func TestWidgetTokenBackend(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", "https://api.sumsub.com/resources/accessTokens",
		httpmock.NewStringResponder(200, `{"token":"_act-direct","userId":"E3"}`))

	cfg := testConfig()
	cfg.Sumsub = config.SumsubConfig{BaseURL: "https://api.sumsub.com", AppToken: "app", SecretKey: "secret", LevelName: "basic-kyc-level"}
	o, err := NewOnboarding(cfg)
	require.NoError(t, err)
	s, _ := o.Sessions().GetOrCreate("")

	_, state, err := o.StartVerification(context.Background(), s, VerificationRequest{EntityID: "E3", AutoStart: true})
	require.NoError(t, err)
	assert.Equal(t, workflow.StepDocumentVerification, state.CurrentStep)
	assert.Equal(t, "_act-direct", state.SDKToken)
	assert.Equal(t, "SUMSUB", state.Provider)

	token, err := o.WidgetToken(context.Background(), s, "E3", "", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "_act-direct", token.Token)

	// another session cannot mint tokens for E3, nor this one for an unknown entity
	other, _ := o.Sessions().GetOrCreate("")
	_, err = o.WidgetToken(context.Background(), other, "E3", "", time.Minute)
	assert.Equal(t, http.StatusForbidden, apierror.MapErrorToHTTPStatus(err))
	_, err = o.WidgetToken(context.Background(), s, "E4", "", time.Minute)
	assert.Equal(t, http.StatusForbidden, apierror.MapErrorToHTTPStatus(err))
	assert.Equal(t, 2, httpmock.GetTotalCallCount())
}
