package main

import (
	"github.com/spf13/cobra"

	"github.com/versefinder/versefinder/internal/config"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			// bootstrap already migrates
			a, err := bootstrap(cmd.Context(), *configPath, config.LoadDatabase)
			if err != nil {
				return err
			}
			a.Close()
			cmd.Println("Database schema is up to date.")
			return nil
		},
	}
}
