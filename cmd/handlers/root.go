/*
Copyright © 2025 Your Name

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
package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tweeter/internal/config"
	"tweeter/internal/logger"
)

var cfgFile string

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tweeter",
		Short: "Tweeter writes a short post about a weighted-random topic and publishes it.",
		Long: `Tweeter picks a topic from a directory of weighted topic files, asks a
language model for a short post about it, shrinks the post to fit every
configured platform and publishes it to each platform in turn with a
randomized delay in between.

Examples:
  tweeter                      # full run
  tweeter --dry-run            # generate and fit, but do not publish
  tweeter --topics-only        # only select a topic
  tweeter topics               # list topic groups and their chances`,
		SilenceUsage: true,
		RunE:         runTweet,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .tweeter.yaml in . or $HOME)")
	addRunFlags(rootCmd)

	rootCmd.AddCommand(NewRunCmd())
	rootCmd.AddCommand(NewTopicsCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and applies its logging settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}

	logger.Configure(logger.Options{
		Level:  cfg.App.LogLevel,
		Format: cfg.App.LogFormat,
	})
	if cfg.App.ConfigFile != "" {
		logger.Debug("Using config file", "path", cfg.App.ConfigFile)
	}
	return cfg, nil
}
