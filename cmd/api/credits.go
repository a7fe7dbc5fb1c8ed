package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/versefinder/versefinder/internal/config"
)

func newCreditsCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credits",
		Short: "Manage user credit balances",
	}
	cmd.AddCommand(newGrantCmd(configPath))
	return cmd
}

func newGrantCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:     "grant <user-id> <amount>",
		Short:   "Add search credits to a user's account",
		Example: `  api credits grant 5Yx0ql2MbdhX 10`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := args[0]
			amount, err := strconv.Atoi(args[1])
			if err != nil || amount <= 0 {
				return fmt.Errorf("amount must be a positive integer, got %q", args[1])
			}

			a, err := bootstrap(cmd.Context(), *configPath, config.LoadDatabase)
			if err != nil {
				return err
			}
			defer a.Close()

			balance, err := a.store.Grant(cmd.Context(), userID, amount)
			if err != nil {
				return fmt.Errorf("failed to grant credits to %s: %w", userID, err)
			}

			a.log.Info("credits granted", zap.String("user_id", userID), zap.Int("amount", amount), zap.Int("balance", balance))
			cmd.Printf("%s now has %d credits\n", userID, balance)
			return nil
		},
	}
}
