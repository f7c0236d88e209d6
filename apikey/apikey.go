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

package apikey

import (
	"strings"
	"sync"
)

// MinKeyLength is the shortest trimmed key accepted by Validate.
const MinKeyLength = 10

const redactFullyUpTo = 8

// productionPatterns are matched case-insensitively anywhere in the key. The match is a
// heuristic: a test key that merely contains "production" also warns.
var productionPatterns = []string{"prod", "live", "production", "pk_live", "sk_live"}

const (
	errTooShort       = "API key must be at least 10 characters long"
	warningProduction = "This looks like a production key. Use a sandbox key when testing."
)

// Config is the per-session API key state.
// CustomKey is non-nil only while UseCustomKey is true.
type Config struct {
	UseCustomKey bool    `json:"use_custom_key"`
	CustomKey    *string `json:"-"`
	IsValid      bool    `json:"is_valid"`
}

// DefaultConfig is the state of a fresh session: no custom key, server fallback.
func DefaultConfig() Config {
	return Config{}
}

// Validation is the outcome of Validate. A key can be valid and carry a warning.
type Validation struct {
	IsValid bool   `json:"is_valid"`
	Error   string `json:"error,omitempty"`
	Warning string `json:"warning,omitempty"`
}

// Validate checks a key locally. It fails when the trimmed key is shorter than MinKeyLength and
// warns, without failing, when the key looks like a production key.
func Validate(key string) Validation {
	trimmed := strings.TrimSpace(key)
	v := Validation{IsValid: true}

	if len(trimmed) < MinKeyLength {
		v.IsValid = false
		v.Error = errTooShort
	}

	lower := strings.ToLower(trimmed)
	for _, pattern := range productionPatterns {
		if strings.Contains(lower, pattern) {
			v.Warning = warningProduction
			break
		}
	}

	return v
}

// Redact masks a key for logs and API responses. Keys of up to eight characters are masked
// entirely; longer keys keep their last four.
func Redact(key string) string {
	runes := []rune(strings.TrimSpace(key))
	if len(runes) <= redactFullyUpTo {
		return strings.Repeat("*", len(runes))
	}
	return strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-4:])
}

// Resolver holds one session's Config. It is never persisted: dropping the Resolver is the end
// of the key's lifetime.
type Resolver struct {
	mu     sync.RWMutex
	config Config
	last   Validation
}

func NewResolver() *Resolver {
	return &Resolver{config: DefaultConfig()}
}

// Config returns a copy of the current state. The key pointer is copied too, so callers cannot
// mutate the resolver through it.
func (r *Resolver) Config() Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := r.config
	if c.CustomKey != nil {
		key := *c.CustomKey
		c.CustomKey = &key
	}
	return c
}

// LastValidation returns the validation produced by the last SetCustomKey.
func (r *Resolver) LastValidation() Validation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

// SetUseCustomKey toggles custom key usage. Turning it off drops the key and its validity;
// turning it on leaves any previously set key in place.
func (r *Resolver) SetUseCustomKey(use bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.config.UseCustomKey = use
	if !use {
		r.config.CustomKey = nil
		r.config.IsValid = false
		r.last = Validation{}
	}
}

// SetCustomKey trims and validates key, then stores it with its validity whatever the outcome,
// so the UI can render the error state. While custom keys are switched off nothing is stored and
// stored is false.
func (r *Resolver) SetCustomKey(key string) (v Validation, stored bool) {
	trimmed := strings.TrimSpace(key)
	v = Validate(trimmed)

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.config.UseCustomKey {
		return v, false
	}
	r.last = v
	r.config.CustomKey = &trimmed
	r.config.IsValid = v.IsValid
	return v, true
}

// ClearCustomKey resets the session to DefaultConfig.
func (r *Resolver) ClearCustomKey() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.config = DefaultConfig()
	r.last = Validation{}
}

// APIKey returns the custom key only when custom keys are on and the key is valid.
// ok=false tells the caller to rely on the server-side default.
func (r *Resolver) APIKey() (key string, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.config.UseCustomKey && r.config.IsValid && r.config.CustomKey != nil {
		return *r.config.CustomKey, true
	}
	return "", false
}
