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

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/caddyserver/certmagic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/posthog/posthog-go"
	"github.com/reap-finance/onboarding"
	"github.com/reap-finance/onboarding/api"
	"github.com/reap-finance/onboarding/config"
	"github.com/reap-finance/onboarding/internal/notification"
	trace "github.com/reap-finance/onboarding/internal/traces"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	certStoragePath = ".certmagic"
	posthogEndpoint = "https://us.i.posthog.com"
	shutdownTimeout = 10 * time.Second
)

/*
serveTLS starts an HTTPS server with TLS enabled using CertMagic for automatic certificate management.
If no domain is specified, the server will default to running on localhost.
*/
func serveTLS(ctx context.Context, r *gin.Engine, conf config.ServerConfig) error {
	certmagic.DefaultACME.Agreed = true
	certmagic.DefaultACME.Email = conf.Email
	cfg := certmagic.NewDefault()
	cfg.Storage = &certmagic.FileStorage{Path: certStoragePath}

	domains := []string{conf.Domain}
	if conf.Domain == "" {
		log.Println("No domain specified, defaulting to localhost")
		domains = []string{"localhost"}
	}

	if err := cfg.ManageSync(ctx, domains); err != nil {
		return err
	}

	server := &http.Server{
		Addr:      ":" + conf.Port,
		Handler:   r,
		TLSConfig: cfg.TLSConfig(),
	}

	log.Printf("Starting HTTPS server on %s\n", conf.Port)
	return serve(ctx, server, func() error { return server.ListenAndServeTLS("", "") })
}

// serve runs the server until ctx is cancelled, then drains open requests.
func serve(ctx context.Context, server *http.Server, listen func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- listen()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

// sendHeartbeat initializes and maintains a periodic heartbeat to PostHog
func sendHeartbeat(ctx context.Context, client posthog.Client, heartbeatID string) {
	ticker := time.NewTicker(5 * time.Minute)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := client.Enqueue(posthog.Capture{
					DistinctId: heartbeatID,
					Event:      "server_heartbeat",
					Properties: map[string]interface{}{
						"timestamp": time.Now().UTC(),
					},
				}); err != nil {
					log.Printf("Failed to send heartbeat: %v", err)
				}
			}
		}
	}()
}

func initializeRouter(o *onboardingInstance) *gin.Engine {
	return api.NewAPI(o.onboarding).Router()
}

func initializeTracing(ctx context.Context, cfg *config.Configuration) (func(context.Context) error, error) {
	shutdown, err := trace.SetupOTelSDK(ctx, cfg.ProjectName)
	if err != nil {
		return nil, fmt.Errorf("error setting up OTel SDK: %v", err)
	}
	logrus.AddHook(trace.NewLogHook(nil, cfg.ProjectName))
	return shutdown, nil
}

func initializePostHog(ctx context.Context, cfg *config.Configuration) (posthog.Client, error) {
	if cfg.PosthogKey == "" {
		return nil, nil
	}
	client, err := posthog.NewWithConfig(cfg.PosthogKey, posthog.Config{Endpoint: posthogEndpoint})
	if err != nil {
		return nil, err
	}
	sendHeartbeat(ctx, client, uuid.New().String())
	return client, nil
}

func startServer(ctx context.Context, router *gin.Engine, cfg config.ServerConfig) error {
	if cfg.SSL {
		return serveTLS(ctx, router, cfg)
	}
	log.Printf("Starting server on http://localhost:%s", cfg.Port)
	server := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	return serve(ctx, server, server.ListenAndServe)
}

func initializeObservability(ctx context.Context, cfg *config.Configuration) (posthog.Client, func(context.Context) error, error) {
	if !cfg.EnableTelemetry {
		return nil, func(context.Context) error { return nil }, nil
	}

	shutdown, err := initializeTracing(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	phClient, err := initializePostHog(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Warn("posthog disabled")
	}
	return phClient, shutdown, nil
}

// runBackground starts the relay bridge and session sweeper. A bridge failure is reported but
// does not stop the server: webhooks still reach streams on this instance.
func runBackground(ctx context.Context, o *onboarding.Onboarding) {
	go func() {
		if err := o.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			notification.NotifyError(fmt.Errorf("notification relay stopped: %w", err))
		}
	}()
}

/*
serverCommands returns the Cobra command responsible for starting the onboarding server.
It sets up the API routes, traces and background loops before launching the server.
*/
func serverCommands(o *onboardingInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "start the onboarding server",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			router := initializeRouter(o)

			phClient, shutdown, err := initializeObservability(ctx, o.cnf)
			if err != nil {
				log.Fatal(err)
			}
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					log.Printf("Error during shutdown: %v", err)
				}
			}()
			if phClient != nil {
				defer phClient.Close()
			}

			runBackground(ctx, o.onboarding)
			defer o.onboarding.Close()

			if err := startServer(ctx, router, o.cnf.Server); err != nil {
				notification.NotifyError(err)
				log.Fatal(err)
			}
		},
	}

	return cmd
}
