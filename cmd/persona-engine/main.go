// Package main is the entry point for the persona-engine CLI.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/persona-engine/internal/model"
	"github.com/pdiddy/persona-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultModel   = "claude-sonnet-4-5"
	defaultTimeout = 120 * time.Second
)

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the persona-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "persona-engine",
	Short: "Persona-driven Q&A generation for financial services chatbots",
	Long: `persona-engine turns a knowledge base and an agent persona into a set of
client-type prompts: it discovers distinct client types, generates the
questions each would ask, answers them grounded in the knowledge base, and
scores the resulting prompt set.

Each pipeline stage is a subcommand: generate, format, and analyze. The run
command sequences all three and records the run in a local registry.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; secrets files win over nothing, env wins over both.
		_ = godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./persona-engine.yaml or ~/.config/persona-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("persona-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "persona-engine"))
		}
	}

	viper.SetEnvPrefix("PERSONA_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// stringSetting resolves a value from the flag if set, then the config
// file, then the flag default.
func stringSetting(cmd *cobra.Command, name string) string {
	if cmd.Flags().Changed(name) || !viper.IsSet(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return viper.GetString(name)
}

func intSetting(cmd *cobra.Command, name string) int {
	if cmd.Flags().Changed(name) || !viper.IsSet(name) {
		v, _ := cmd.Flags().GetInt(name)
		return v
	}
	return viper.GetInt(name)
}

// newBackend builds the completion backend from the model flag and the
// resolved API key.
func newBackend(cmd *cobra.Command) (*model.ClaudeBackend, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		apiKey = loadedSecrets[secrets.AnthropicKeyFile]
	}
	if apiKey == "" {
		return nil, fmt.Errorf("no API key: set ANTHROPIC_API_KEY or create .secrets/%s", secrets.AnthropicKeyFile)
	}

	return &model.ClaudeBackend{
		APIKey: apiKey,
		Model:  stringSetting(cmd, "model"),
		Client: &http.Client{Timeout: defaultTimeout},
	}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
