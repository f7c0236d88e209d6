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
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateShortKeysAreInvalid(t *testing.T) {
	for n := uint(0); n < MinKeyLength; n++ {
		key := "  " + gofakeit.LetterN(n) + "\t"
		v := Validate(key)
		assert.False(t, v.IsValid, "key %q should be invalid", key)
		assert.NotEmpty(t, v.Error)
	}
}

func TestValidateProductionPatternsWarn(t *testing.T) {
	patterns := []string{"prod", "LIVE", "Production", "pk_live", "SK_LIVE"}
	for _, p := range patterns {
		t.Run(p, func(t *testing.T) {
			key := gofakeit.LetterN(6) + p + gofakeit.LetterN(6)
			v := Validate(key)
			assert.True(t, v.IsValid)
			assert.Empty(t, v.Error)
			assert.NotEmpty(t, v.Warning)
		})
	}
}

func TestValidateShortProductionKeyIsInvalidAndWarns(t *testing.T) {
	v := Validate("sk_live")
	assert.False(t, v.IsValid)
	assert.NotEmpty(t, v.Warning)
}

func TestValidateSandboxKey(t *testing.T) {
	v := Validate("sandbox_key_abc123")
	assert.True(t, v.IsValid)
	assert.Empty(t, v.Warning)
	assert.Empty(t, v.Error)
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "", Redact(""))
	assert.Equal(t, "***", Redact("abc"))
	assert.Equal(t, "*****", Redact("abcde"))
	assert.Equal(t, "********", Redact(" 12345678 "))
	assert.Equal(t, "*****6789", Redact("123456789"))
	assert.Equal(t, "**************c123", Redact("sandbox_key_abc123"))
	assert.Equal(t, "********ключ", Redact("ключключключ"))
	assert.NotContains(t, Redact("sandbox_key_abc123"), "sandbox")
}

func TestResolverDefaults(t *testing.T) {
	r := NewResolver()
	c := r.Config()
	assert.False(t, c.UseCustomKey)
	assert.Nil(t, c.CustomKey)
	assert.False(t, c.IsValid)

	_, ok := r.APIKey()
	assert.False(t, ok)
}

func TestResolverAPIKeyRequiresToggleAndValidity(t *testing.T) {
	tests := []struct {
		name    string
		use     bool
		key     string
		wantKey string
		wantOK  bool
	}{
		{name: "toggle on, valid key", use: true, key: " sandbox_key_abc123 ", wantKey: "sandbox_key_abc123", wantOK: true},
		{name: "toggle on, invalid key", use: true, key: "short", wantOK: false},
		{name: "toggle off, valid key", use: false, key: "sandbox_key_abc123", wantOK: false},
		{name: "toggle on, valid production key", use: true, key: "pk_live_0123456789", wantKey: "pk_live_0123456789", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver()
			r.SetUseCustomKey(tt.use)
			r.SetCustomKey(tt.key)

			key, ok := r.APIKey()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestResolverStoresInvalidKey(t *testing.T) {
	r := NewResolver()
	r.SetUseCustomKey(true)
	v, stored := r.SetCustomKey("  short  ")

	assert.True(t, stored)
	assert.False(t, v.IsValid)
	c := r.Config()
	require.NotNil(t, c.CustomKey)
	assert.Equal(t, "short", *c.CustomKey)
	assert.False(t, c.IsValid)
	assert.Equal(t, v, r.LastValidation())
}

func TestResolverToggleOffClearsKey(t *testing.T) {
	r := NewResolver()
	r.SetUseCustomKey(true)
	r.SetCustomKey("sandbox_key_abc123")

	r.SetUseCustomKey(false)
	c := r.Config()
	assert.Nil(t, c.CustomKey)
	assert.False(t, c.IsValid)

	// Toggling back on does not resurrect the dropped key.
	r.SetUseCustomKey(true)
	_, ok := r.APIKey()
	assert.False(t, ok)
}

func TestResolverToggleOnKeepsKey(t *testing.T) {
	r := NewResolver()
	r.SetUseCustomKey(true)
	r.SetCustomKey("sandbox_key_abc123")

	r.SetUseCustomKey(true)
	key, ok := r.APIKey()
	assert.True(t, ok)
	assert.Equal(t, "sandbox_key_abc123", key)
}

func TestResolverIgnoresKeyWhileToggledOff(t *testing.T) {
	r := NewResolver()
	v, stored := r.SetCustomKey("sandbox_key_abc123")

	assert.True(t, v.IsValid)
	assert.False(t, stored)
	assert.Nil(t, r.Config().CustomKey)

	// a discarded key leaves no validation behind
	_, stored = r.SetCustomKey("pk_live")
	assert.False(t, stored)
	assert.Equal(t, Validation{}, r.LastValidation())
}

func TestResolverClear(t *testing.T) {
	r := NewResolver()
	r.SetUseCustomKey(true)
	r.SetCustomKey("sandbox_key_abc123")

	r.ClearCustomKey()
	assert.Equal(t, DefaultConfig(), r.Config())
	_, ok := r.APIKey()
	assert.False(t, ok)
}

func TestConfigCopyIsDetached(t *testing.T) {
	r := NewResolver()
	r.SetUseCustomKey(true)
	r.SetCustomKey("sandbox_key_abc123")

	c := r.Config()
	*c.CustomKey = strings.ToUpper(*c.CustomKey)

	key, _ := r.APIKey()
	assert.Equal(t, "sandbox_key_abc123", key)
}

func TestPolicyResolve(t *testing.T) {
	p := NewPolicy("server_default_key")

	assert.Equal(t, "server_default_key", p.Resolve(nil))
	assert.Equal(t, "default", p.Source(nil))

	r := NewResolver()
	assert.Equal(t, "server_default_key", p.Resolve(r))

	r.SetUseCustomKey(true)
	r.SetCustomKey("sandbox_key_abc123")
	assert.Equal(t, "sandbox_key_abc123", p.Resolve(r))
	assert.Equal(t, "custom", p.Source(r))

	empty := NewPolicy("")
	assert.Equal(t, "", empty.Resolve(nil))
	assert.Equal(t, "none", empty.Source(nil))
	assert.False(t, empty.HasDefault())
}
