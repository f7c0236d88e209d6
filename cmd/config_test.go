package main

import (
	"encoding/json"
	"testing"

	"github.com/reap-finance/onboarding/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactedConfig(t *testing.T) {
	cfg := &config.Configuration{
		Server:     config.ServerConfig{SecretKey: "operator-secret-1234"},
		Compliance: config.ComplianceConfig{BaseURL: "https://compliance.example.com/api", DefaultAPIKey: "server_default_key_0001"},
		Sumsub:     config.SumsubConfig{AppToken: "sbx:apptoken9999", SecretKey: "sumsub-secret-5555"},
	}

	data, err := json.Marshal(redacted(cfg))
	require.NoError(t, err)
	out := string(data)

	for _, secret := range []string{"operator-secret-1234", "server_default_key_0001", "sbx:apptoken9999", "sumsub-secret-5555"} {
		assert.NotContains(t, out, secret)
	}
	assert.Contains(t, out, "0001")
	assert.Contains(t, out, "https://compliance.example.com/api")

	assert.Equal(t, "server_default_key_0001", cfg.Compliance.DefaultAPIKey, "the live config is untouched")
}
