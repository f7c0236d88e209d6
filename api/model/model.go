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

package model

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/reap-finance/onboarding"
	"github.com/reap-finance/onboarding/model"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func normalizedType(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if !model.ParseEntityType(s).Valid() {
		return errors.New("must be one of INDIVIDUAL or BUSINESS")
	}
	return nil
}

func absoluteURL(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.ParseRequestURI(s)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New("must be an absolute http(s) URL")
	}
	return nil
}

func (e *CreateEntity) ValidateCreateEntity() error {
	return validation.ValidateStruct(e,
		validation.Field(&e.ExternalID, validation.Required),
		validation.Field(&e.Type, validation.Required, validation.By(normalizedType)),
	)
}

func (m *CreateMember) ValidateCreateMember() error {
	return validation.ValidateStruct(m,
		validation.Field(&m.Type, validation.Required),
	)
}

func (n *CreateNotification) ValidateCreateNotification() error {
	return validation.ValidateStruct(n,
		validation.Field(&n.URL, validation.Required, validation.By(absoluteURL)),
		validation.Field(&n.Type, validation.In(string(model.NotificationWebhook))),
	)
}

func (v *CreateVerification) ValidateCreateVerification() error {
	existing := strings.TrimSpace(v.EntityID) != ""
	return validation.ValidateStruct(v,
		validation.Field(&v.ExternalID, validation.When(!existing, validation.Required.Error("external_id is required when entity_id is not provided"))),
		validation.Field(&v.Type, validation.When(!existing, validation.Required.Error("type is required when entity_id is not provided")), validation.By(normalizedType)),
	)
}

func (e *WidgetEvent) ValidateWidgetEvent() error {
	return validation.ValidateStruct(e,
		validation.Field(&e.Event, validation.Required),
	)
}

func (a *UpdateAutoStart) ValidateUpdateAutoStart() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.AutoStart, validation.NotNil),
	)
}

func (t *CreateWidgetToken) ValidateCreateWidgetToken() error {
	return validation.ValidateStruct(t,
		validation.Field(&t.UserID, validation.Required),
		validation.Field(&t.TTLInSecs, validation.Min(0)),
	)
}

func (k *UpdateSessionKey) ValidateUpdateSessionKey() error {
	if k.UseCustomKey == nil && k.CustomKey == nil {
		return errors.New("either use_custom_key or custom_key is required")
	}
	return nil
}

func (p *ProxyRequest) ValidateProxyRequest() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Method, validation.By(func(value interface{}) error {
			method, _ := value.(string)
			if method == "" {
				return nil
			}
			return validation.Validate(strings.ToUpper(method), validation.In(
				http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete,
			))
		})),
	)
}

func (e *CreateEntity) ToCreateEntity() model.CreateEntity {
	return model.CreateEntity{ExternalID: strings.TrimSpace(e.ExternalID), Type: model.ParseEntityType(e.Type), Requirements: e.Requirements}
}

func (m *CreateMember) ToCreateMember() model.CreateMember {
	return model.CreateMember{Type: strings.TrimSpace(m.Type), ExternalID: m.ExternalID, Requirements: m.Requirements}
}

func (n *CreateNotification) ToCreateNotification() model.CreateNotification {
	return model.CreateNotification{Type: model.NotificationType(n.Type), URL: n.URL}
}

func (v *CreateVerification) ToVerificationRequest() onboarding.VerificationRequest {
	autoStart := true
	if v.AutoStart != nil {
		autoStart = *v.AutoStart
	}
	return onboarding.VerificationRequest{
		EntityID:     v.EntityID,
		ExternalID:   v.ExternalID,
		Type:         model.ParseEntityType(v.Type),
		Requirements: v.Requirements,
		MemberID:     v.MemberID,
		AutoStart:    autoStart,
	}
}

func (k *UpdateSessionKey) ToSessionKeyUpdate() onboarding.SessionKeyUpdate {
	return onboarding.SessionKeyUpdate{UseCustomKey: k.UseCustomKey, CustomKey: k.CustomKey}
}

func (p *ProxyRequest) ToProxyRequest() onboarding.ProxyRequest {
	return onboarding.ProxyRequest{Endpoint: p.Endpoint, Method: p.Method, Data: p.Data}
}

func (t *CreateWidgetToken) TTL() time.Duration {
	return time.Duration(t.TTLInSecs) * time.Second
}
