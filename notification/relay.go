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
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrEmptyMessage is returned by Publish for a blank message.
var ErrEmptyMessage = errors.New("message is required")

// envelope is what travels over Redis. Origin lets an instance skip its own messages.
type envelope struct {
	Origin string `json:"origin"`
	Record Record `json:"record"`
}

// Relay keeps the recent-records buffer and pushes new records to live subscribers. With Redis
// configured, records published on one instance reach subscribers of every instance.
type Relay struct {
	buffer  *Buffer
	hub     *Hub
	redis   redis.UniversalClient
	channel string
	origin  string
}

type Option func(*Relay)

func WithCapacity(capacity int) Option {
	return func(r *Relay) {
		r.buffer = NewBuffer(capacity)
	}
}

// WithRedis bridges the relay over a Redis pub/sub channel. Run must be started to receive.
func WithRedis(client redis.UniversalClient, channel string) Option {
	return func(r *Relay) {
		r.redis = client
		if channel != "" {
			r.channel = channel
		}
	}
}

func NewRelay(opts ...Option) *Relay {
	r := &Relay{
		buffer:  NewBuffer(DefaultCapacity),
		hub:     NewHub(),
		channel: "kyc:notifications",
		origin:  uuid.NewString(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Publish stores message and pushes it to subscribers. A failed Redis publish is logged; the
// local delivery has already happened by then.
func (r *Relay) Publish(ctx context.Context, message string) (Record, error) {
	if strings.TrimSpace(message) == "" {
		return Record{}, ErrEmptyMessage
	}

	record := r.buffer.Add(message)
	delivered := r.hub.Broadcast(record)

	logrus.WithFields(logrus.Fields{
		"notification_id": record.ID,
		"subscribers":     delivered,
	}).Info("webhook notification received")

	if r.redis != nil {
		payload, err := json.Marshal(envelope{Origin: r.origin, Record: record})
		if err == nil {
			err = r.redis.Publish(ctx, r.channel, payload).Err()
		}
		if err != nil {
			logrus.WithError(err).Warn("failed to bridge notification to redis")
		}
	}
	return record, nil
}

// Recent lists buffered records, most recent first.
func (r *Relay) Recent() []Record {
	return r.buffer.List()
}

func (r *Relay) Subscribe() *Subscription {
	return r.hub.Subscribe()
}

func (r *Relay) Hub() *Hub {
	return r.hub
}

// Run receives records published by other instances until ctx is done. Without Redis it just
// waits for ctx.
func (r *Relay) Run(ctx context.Context) error {
	if r.redis == nil {
		<-ctx.Done()
		return nil
	}

	sub := r.redis.Subscribe(ctx, r.channel)
	defer sub.Close()

	// wait for the subscription to be confirmed so nothing published after Run returns from
	// Receive is missed
	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	logrus.Infof("notification relay listening on redis channel %s", r.channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			r.receive(msg.Payload)
		}
	}
}

func (r *Relay) receive(payload string) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		logrus.WithError(err).Warn("dropping malformed bridged notification")
		return
	}
	if env.Origin == r.origin || env.Record.Message == "" {
		return
	}
	r.buffer.Insert(env.Record)
	r.hub.Broadcast(env.Record)
}
