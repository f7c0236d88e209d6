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

package notification

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/reap-finance/onboarding/config"
	"github.com/reap-finance/onboarding/internal/request"
	"github.com/sirupsen/logrus"
)

// slackMessage builds the Block Kit payload for an operator alert.
func slackMessage(project string, err error, at time.Time) json.RawMessage {
	text := func(s string) string {
		b, _ := json.Marshal(s)
		return string(b)
	}
	return json.RawMessage(fmt.Sprintf(`{
		"blocks": [
			{
				"type": "header",
				"text": {
					"type": "plain_text",
					"text": %s,
					"emoji": true
				}
			},
			{
				"type": "section",
				"fields": [
					{
						"type": "mrkdwn",
						"text": %s
					}
				]
			},
			{
				"type": "section",
				"fields": [
					{
						"type": "mrkdwn",
						"text": %s
					}
				]
			}
		]
	}`, text("Error From "+project+" 🐞"), text("*Error:*\n"+err.Error()), text("*Time:*\n"+at.Format(time.RFC822))))
}

// SlackNotification sends an error message to the configured Slack webhook.
//
// Parameters:
// - err: The error to be reported via Slack.
//
// Returns:
// - error: An error if the configuration is missing or Slack rejected the message.
func SlackNotification(err error) error {
	conf, cerr := config.Fetch()
	if cerr != nil {
		return cerr
	}

	payload, perr := request.ToJsonReq(slackMessage(conf.ProjectName, err, time.Now()))
	if perr != nil {
		return perr
	}

	req, rerr := http.NewRequest(http.MethodPost, conf.Notification.Slack.WebhookUrl, payload)
	if rerr != nil {
		return rerr
	}

	// Slack answers with a plain "ok".
	_, rerr = request.Call(nil, req, nil)
	return rerr
}

// NotifyError logs the error and forwards it to Slack when a webhook is configured. It runs in
// the background and never blocks the caller.
func NotifyError(systemError error) {
	go notify(systemError)
}

func notify(systemError error) {
	logrus.Error(systemError)

	conf, err := config.Fetch()
	if err != nil {
		logrus.Error(err)
		return
	}

	if conf.Notification.Slack.WebhookUrl != "" {
		if err := SlackNotification(systemError); err != nil {
			logrus.WithError(err).Warn("failed to send slack notification")
		}
	}
}
