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
	"github.com/reap-finance/onboarding/apikey"
	"github.com/reap-finance/onboarding/internal/apierror"
	"github.com/sirupsen/logrus"
)

// SessionKeyView is what the browser may see of its session key: never the key itself.
type SessionKeyView struct {
	UseCustomKey bool   `json:"use_custom_key"`
	RedactedKey  string `json:"custom_key,omitempty"`
	IsValid      bool   `json:"is_valid"`
	Error        string `json:"error,omitempty"`
	Warning      string `json:"warning,omitempty"`
	Source       string `json:"source"`
}

// SessionKeyUpdate carries the fields of a key update; nil fields are left unchanged.
type SessionKeyUpdate struct {
	UseCustomKey *bool
	CustomKey    *string
}

// SessionKey describes the key state of a session.
//
// Parameters:
// - s *Session: The browser session.
//
// Returns:
// - SessionKeyView: The redacted key state and which key tier requests will use.
func (o *Onboarding) SessionKey(s *Session) SessionKeyView {
	c := s.Keys.Config()
	last := s.Keys.LastValidation()

	view := SessionKeyView{
		UseCustomKey: c.UseCustomKey,
		IsValid:      c.IsValid,
		Error:        last.Error,
		Warning:      last.Warning,
		Source:       o.policy.Source(s.Keys),
	}
	if c.CustomKey != nil {
		view.RedactedKey = apikey.Redact(*c.CustomKey)
	}
	return view
}

// UpdateSessionKey applies a toggle and/or a new key to the session. The toggle is applied first,
// so a request that turns custom keys on and sets a key in one go stores the key.
//
// Parameters:
// - s *Session: The browser session.
// - update SessionKeyUpdate: The requested changes.
//
// Returns:
// - SessionKeyView: The resulting key state.
// - error: A VALIDATION_FAILED error when the key was stored but is invalid. A key sent while
// custom keys are off is dropped without error.
func (o *Onboarding) UpdateSessionKey(s *Session, update SessionKeyUpdate) (SessionKeyView, error) {
	if update.UseCustomKey != nil {
		s.Keys.SetUseCustomKey(*update.UseCustomKey)
	}

	if update.CustomKey != nil {
		v, stored := s.Keys.SetCustomKey(*update.CustomKey)
		fields := logrus.Fields{
			"session_id": s.ID,
			"api_key":    apikey.Redact(*update.CustomKey),
			"valid":      v.IsValid,
		}
		if !stored {
			logrus.WithFields(fields).Info("custom API key ignored while custom keys are off")
			return o.SessionKey(s), nil
		}
		if v.Warning != "" {
			logrus.WithFields(fields).Warn("custom API key looks like a production key")
		} else {
			logrus.WithFields(fields).Info("custom API key updated")
		}
		if !v.IsValid {
			return o.SessionKey(s), apierror.ValidationFailed(v.Error)
		}
	}

	return o.SessionKey(s), nil
}

// ClearSessionKey drops the session's custom key and falls back to the server default.
func (o *Onboarding) ClearSessionKey(s *Session) SessionKeyView {
	s.Keys.ClearCustomKey()
	logrus.WithField("session_id", s.ID).Info("custom API key cleared")
	return o.SessionKey(s)
}
