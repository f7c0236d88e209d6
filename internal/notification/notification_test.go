package notification

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/reap-finance/onboarding/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const slackURL = "https://hooks.slack.com/services/T000/B000/XXXX"

func TestSlackMessageEscapesError(t *testing.T) {
	raw := slackMessage("KYC Onboarding", errors.New(`upstream said "no"`), time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))

	var msg map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Len(t, msg["blocks"], 3)
	assert.Contains(t, string(raw), `upstream said \"no\"`)
	assert.Contains(t, string(raw), "Error From KYC Onboarding")
}

func TestSlackNotification(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	config.MockConfig(&config.Configuration{
		ProjectName:  "KYC Onboarding",
		Notification: config.Notification{Slack: config.SlackWebhook{WebhookUrl: slackURL}},
	})

	var body string
	httpmock.RegisterResponder("POST", slackURL, func(req *http.Request) (*http.Response, error) {
		b, _ := io.ReadAll(req.Body)
		body = string(b)
		return httpmock.NewStringResponse(200, "ok"), nil
	})

	require.NoError(t, SlackNotification(errors.New("redis unreachable")))
	assert.Contains(t, body, "redis unreachable")
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestSlackNotificationFailure(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	config.MockConfig(&config.Configuration{
		Notification: config.Notification{Slack: config.SlackWebhook{WebhookUrl: slackURL}},
	})
	httpmock.RegisterResponder("POST", slackURL, httpmock.NewStringResponder(403, "invalid_token"))

	assert.Error(t, SlackNotification(errors.New("boom")))
}

func TestNotifySkipsSlackWhenUnconfigured(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	config.MockConfig(&config.Configuration{})
	notify(errors.New("boom"))
	assert.Zero(t, httpmock.GetTotalCallCount())
}
