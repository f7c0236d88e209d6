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

package compliance

import (
	"context"
	"net/http"

	"github.com/reap-finance/onboarding/internal/apierror"
	"github.com/reap-finance/onboarding/model"
)

// CreateNotification registers a webhook with the compliance service. Each call creates a new
// subscription.
func (c *Client) CreateNotification(ctx context.Context, apiKey string, notification model.CreateNotification) (*model.Notification, error) {
	if notification.URL == "" {
		return nil, apierror.InvalidArgument("notification url is required")
	}
	if notification.Type == "" {
		notification.Type = model.NotificationWebhook
	}

	var created model.Notification
	if err := c.call(ctx, "CreateNotification", apiKey, http.MethodPost, "/notification", notification, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) FetchNotifications(ctx context.Context, apiKey string) (*model.Items[model.Notification], error) {
	var notifications model.Items[model.Notification]
	if err := c.call(ctx, "FetchNotifications", apiKey, http.MethodGet, "/notification", nil, &notifications); err != nil {
		return nil, err
	}
	if notifications.Items == nil {
		notifications.Items = []model.Notification{}
	}
	return &notifications, nil
}

func (c *Client) DeleteNotification(ctx context.Context, apiKey, notificationID string) (*model.Ack, error) {
	if err := requireID("notification id", notificationID); err != nil {
		return nil, err
	}

	ack := model.Ack{Success: true}
	path := "/notification/" + escape(notificationID)
	if err := c.call(ctx, "DeleteNotification", apiKey, http.MethodDelete, path, nil, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}
