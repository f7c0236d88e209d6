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
	"fmt"
	"log"
	"os"

	"github.com/reap-finance/onboarding"
	"github.com/reap-finance/onboarding/config"
	"github.com/reap-finance/onboarding/internal/notification"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Onboarding represents the CLI application, encapsulating the root Cobra command.
type Onboarding struct {
	cmd *cobra.Command
}

// onboardingInstance holds the service and its configuration for the commands.
type onboardingInstance struct {
	onboarding *onboarding.Onboarding
	cnf        *config.Configuration
}

// recoverPanic handles any panics during program execution and logs the error using Logrus.
func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration and builds the service before any command runs.
func preRun(app *onboardingInstance, configFile *string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig(*configFile)
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		app.cnf = cnf

		// config only prints; it must work without Redis.
		if cmd.Name() == "config" {
			return nil
		}

		newOnboarding, err := onboarding.NewOnboarding(cnf)
		if err != nil {
			notification.NotifyError(err)
			return fmt.Errorf("error creating onboarding service: %v", err)
		}
		app.onboarding = newOnboarding

		return nil
	}
}

// NewCLI creates the command-line interface with the server and config commands.
func NewCLI() *Onboarding {
	var configFile string
	o := &onboardingInstance{}

	var rootCmd = &cobra.Command{
		Use:   "onboarding",
		Short: "KYC onboarding backend",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./onboarding.json", "Configuration file for the onboarding server")

	rootCmd.PersistentPreRunE = preRun(o, &configFile)

	rootCmd.AddCommand(serverCommands(o))
	rootCmd.AddCommand(configCommands())

	return &Onboarding{cmd: rootCmd}
}

// executeCLI runs the root command, handling any errors that occur during execution.
func (w Onboarding) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
