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
	"errors"

	"github.com/reap-finance/onboarding/internal/apierror"
	"github.com/reap-finance/onboarding/model"
	"github.com/reap-finance/onboarding/notification"
)

// ReceiveWebhook records a webhook message from the compliance service and pushes it to every
// open stream.
//
// Parameters:
// - ctx context.Context: The context for the operation.
// - message string: The webhook message.
//
// Returns:
// - notification.Record: The stored record.
// - error: INVALID_ARGUMENT when the message is empty.
func (o *Onboarding) ReceiveWebhook(ctx context.Context, message string) (notification.Record, error) {
	record, err := o.relay.Publish(ctx, message)
	if errors.Is(err, notification.ErrEmptyMessage) {
		return record, apierror.InvalidArgument("Message is required")
	}
	return record, err
}

// RecentWebhooks lists the last received messages, most recent first.
func (o *Onboarding) RecentWebhooks() []notification.Record {
	return o.relay.Recent()
}

// SubscribeWebhooks opens a live feed of new messages. Callers must Close the subscription.
func (o *Onboarding) SubscribeWebhooks() *notification.Subscription {
	return o.relay.Subscribe()
}

// ListNotifications lists webhook subscriptions registered with the compliance service.
func (o *Onboarding) ListNotifications(ctx context.Context, s *Session) (*model.Items[model.Notification], error) {
	return o.compliance.FetchNotifications(ctx, o.ResolveKey(s))
}

// CreateNotification registers a webhook subscription. Each call creates a new subscription.
func (o *Onboarding) CreateNotification(ctx context.Context, s *Session, n model.CreateNotification) (*model.Notification, error) {
	return o.compliance.CreateNotification(ctx, o.ResolveKey(s), n)
}

func (o *Onboarding) DeleteNotification(ctx context.Context, s *Session, notificationID string) (*model.Ack, error) {
	return o.compliance.DeleteNotification(ctx, o.ResolveKey(s), notificationID)
}
