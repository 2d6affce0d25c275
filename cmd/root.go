package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var configFile string

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "cortivus-chat",
	Short: "Cortivus chat API",
	Long: `Request-routing layer for the Cortivus chatbot: retrieves keyword-matched
documents through a TTL query cache and forwards them with the user message
to a remote text-generation API.`,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path")
}
