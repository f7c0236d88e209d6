package main

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/reap-finance/onboarding/apikey"
	"github.com/reap-finance/onboarding/config"
	"github.com/spf13/cobra"
)

// redacted returns a copy of cfg that is safe to print.
func redacted(cfg *config.Configuration) config.Configuration {
	out := *cfg
	out.Server.SecretKey = apikey.Redact(out.Server.SecretKey)
	out.Compliance.DefaultAPIKey = apikey.Redact(out.Compliance.DefaultAPIKey)
	out.Compliance.PublicAPIKey = apikey.Redact(out.Compliance.PublicAPIKey)
	out.Sumsub.AppToken = apikey.Redact(out.Sumsub.AppToken)
	out.Sumsub.SecretKey = apikey.Redact(out.Sumsub.SecretKey)
	return out
}

func configCommands() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "config outputs your instances computed configuration",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Fetch()
			if err != nil {
				log.Fatalf("Error getting config: %v\n", err)
			}

			data, err := json.MarshalIndent(redacted(cfg), "", "    ")
			if err != nil {
				log.Fatalf("Error printing config: %v\n", err)
			}

			fmt.Println(string(data))
		},
	}
	return cmd
}
