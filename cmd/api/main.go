package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "api",
		Short: "Scripture search API",
		Long: `api serves the scripture search API: a signed-in user describes a Bible
story and gets back the matching reference and its text, paid for with
search credits and kept in a per-user history.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (defaults to $CONFIG_FILE)")

	rootCmd.AddCommand(newServeCmd(&configPath))
	rootCmd.AddCommand(newMigrateCmd(&configPath))
	rootCmd.AddCommand(newCreditsCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
