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

package config

import (
	"encoding/json"
	"errors"
	"log"
	"net/url"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT              = "5001"
	DEFAULT_CACHE_TTL_SEC     = 30
	DEFAULT_TIMEOUT_SEC       = 30
	DEFAULT_SESSION_IDLE_MIN  = 60
	DEFAULT_NOTIFICATION_CHAN = "kyc:notifications"
	DEFAULT_SUMSUB_URL        = "https://api.sumsub.com"
	DEFAULT_SUMSUB_LEVEL      = "basic-kyc-level"
)

var ConfigStore atomic.Value

type ServerConfig struct {
	SSL       bool   `json:"ssl" envconfig:"ONBOARDING_SERVER_SSL"`
	Secure    bool   `json:"secure" envconfig:"ONBOARDING_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"ONBOARDING_SERVER_SECRET_KEY"`
	Domain    string `json:"domain" envconfig:"ONBOARDING_SERVER_SSL_DOMAIN"`
	Email     string `json:"ssl_email" envconfig:"ONBOARDING_SERVER_SSL_EMAIL"`
	Port      string `json:"port" envconfig:"ONBOARDING_SERVER_PORT"`
	// SessionIdleMinutes bounds how long an idle browser session keeps its key and workflows.
	SessionIdleMinutes int `json:"session_idle_minutes" envconfig:"ONBOARDING_SESSION_IDLE_MINUTES"`
}

// ComplianceConfig describes the upstream compliance API.
// DefaultAPIKey is server-only; PublicAPIKey is what a browser build would have been handed and is
// only used when no server key is configured.
type ComplianceConfig struct {
	BaseURL        string   `json:"base_url" envconfig:"ONBOARDING_COMPLIANCE_BASE_URL"`
	DefaultAPIKey  string   `json:"default_api_key" envconfig:"ONBOARDING_COMPLIANCE_API_KEY"`
	PublicAPIKey   string   `json:"public_api_key" envconfig:"ONBOARDING_COMPLIANCE_PUBLIC_API_KEY"`
	AllowedDomains []string `json:"allowed_domains" envconfig:"ONBOARDING_COMPLIANCE_ALLOWED_DOMAINS"`
	CacheTTLSec    int      `json:"cache_ttl_sec" envconfig:"ONBOARDING_COMPLIANCE_CACHE_TTL_SEC"`
	TimeoutSec     int      `json:"timeout_sec" envconfig:"ONBOARDING_COMPLIANCE_TIMEOUT_SEC"`
}

type SumsubConfig struct {
	BaseURL   string `json:"base_url" envconfig:"ONBOARDING_SUMSUB_BASE_URL"`
	AppToken  string `json:"app_token" envconfig:"ONBOARDING_SUMSUB_APP_TOKEN"`
	SecretKey string `json:"secret_key" envconfig:"ONBOARDING_SUMSUB_SECRET_KEY"`
	LevelName string `json:"level_name" envconfig:"ONBOARDING_SUMSUB_LEVEL_NAME"`
}

// AppConfig holds the public application URL used to build success/failure redirects.
type AppConfig struct {
	BaseURL string `json:"base_url" envconfig:"ONBOARDING_APP_BASE_URL"`
}

type RedisConfig struct {
	Dns           string `json:"dns" envconfig:"ONBOARDING_REDIS_DNS"`
	SkipTLSVerify bool   `json:"skip_tls_verify" envconfig:"ONBOARDING_REDIS_SKIP_TLS_VERIFY"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"ONBOARDING_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"ONBOARDING_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"ONBOARDING_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url" envconfig:"ONBOARDING_SLACK_WEBHOOK_URL"`
}

type Notification struct {
	Slack        SlackWebhook `json:"slack"`
	RedisChannel string       `json:"redis_channel" envconfig:"ONBOARDING_NOTIFICATION_REDIS_CHANNEL"`
}

type Configuration struct {
	ProjectName     string           `json:"project_name" envconfig:"ONBOARDING_PROJECT_NAME"`
	EnableTelemetry bool             `json:"enable_telemetry" envconfig:"ONBOARDING_ENABLE_TELEMETRY"`
	PosthogKey      string           `json:"posthog_key" envconfig:"ONBOARDING_POSTHOG_KEY"`
	Server          ServerConfig     `json:"server"`
	Compliance      ComplianceConfig `json:"compliance"`
	Sumsub          SumsubConfig     `json:"sumsub"`
	App             AppConfig        `json:"app"`
	Redis           RedisConfig      `json:"redis"`
	Notification    Notification     `json:"notification"`
	RateLimit       RateLimitConfig  `json:"rate_limit"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("onboarding", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called onboarding.json with your config ❌")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "KYC Onboarding"
	}

	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.Compliance.BaseURL = strings.TrimRight(strings.TrimSpace(cnf.Compliance.BaseURL), "/")
	cnf.Compliance.DefaultAPIKey = strings.TrimSpace(cnf.Compliance.DefaultAPIKey)
	cnf.Compliance.PublicAPIKey = strings.TrimSpace(cnf.Compliance.PublicAPIKey)
	cnf.App.BaseURL = strings.TrimRight(strings.TrimSpace(cnf.App.BaseURL), "/")
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	if cnf.Compliance.BaseURL == "" {
		log.Println("Error: Compliance base URL is empty. It's a required field.")
		return errors.New("compliance base URL is required")
	}
	if _, err := url.ParseRequestURI(cnf.Compliance.BaseURL); err != nil {
		return errors.New("compliance base URL is not a valid URL")
	}

	if cnf.Compliance.DefaultAPIKey == "" && cnf.Compliance.PublicAPIKey != "" {
		log.Println("Warning: Server compliance key not set. Falling back to the public key.")
		cnf.Compliance.DefaultAPIKey = cnf.Compliance.PublicAPIKey
	}

	// The configured base URL is always reachable through the proxy.
	if !contains(cnf.Compliance.AllowedDomains, cnf.Compliance.BaseURL) {
		cnf.Compliance.AllowedDomains = append(cnf.Compliance.AllowedDomains, cnf.Compliance.BaseURL)
	}

	if cnf.Compliance.CacheTTLSec <= 0 {
		cnf.Compliance.CacheTTLSec = DEFAULT_CACHE_TTL_SEC
	}
	if cnf.Compliance.TimeoutSec <= 0 {
		cnf.Compliance.TimeoutSec = DEFAULT_TIMEOUT_SEC
	}

	if cnf.App.BaseURL == "" {
		cnf.App.BaseURL = "http://localhost:3000"
		log.Printf("Warning: App base URL not specified. Setting default: %s", cnf.App.BaseURL)
	}

	if cnf.Sumsub.BaseURL == "" {
		cnf.Sumsub.BaseURL = DEFAULT_SUMSUB_URL
	}
	if cnf.Sumsub.LevelName == "" {
		cnf.Sumsub.LevelName = DEFAULT_SUMSUB_LEVEL
	}

	if cnf.Notification.RedisChannel == "" {
		cnf.Notification.RedisChannel = DEFAULT_NOTIFICATION_CHAN
	}

	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}
	if cnf.Server.SessionIdleMinutes <= 0 {
		cnf.Server.SessionIdleMinutes = DEFAULT_SESSION_IDLE_MIN
	}

	// Rate limiting is disabled by default (when both RPS and Burst are nil)
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = &defaultBurst
		log.Printf("Warning: Rate limit burst not specified. Setting default value: %d", defaultBurst)
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = &defaultRPS
		log.Printf("Warning: Rate limit RPS not specified. Setting default value: %.2f", defaultRPS)
	}
	if cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800 // 3 hours in seconds
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
	}

	return nil
}

// SumsubEnabled reports whether signed SumSub requests can be made.
func (cnf *Configuration) SumsubEnabled() bool {
	return cnf.Sumsub.AppToken != "" && cnf.Sumsub.SecretKey != ""
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if strings.TrimRight(v, "/") == value {
			return true
		}
	}
	return false
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
