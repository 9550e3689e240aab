package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/siesson1991/adtracking-saas/internal/infrastructure/auth"
	"github.com/siesson1991/adtracking-saas/internal/infrastructure/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newTokenCmd(root *rootOptions) *cobra.Command {
	var userID, email string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development access token with the server's JWT settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("invalid --user-id: %w", err)
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			token, expiresAt, err := auth.NewJWTService(cfg.JWT).GenerateAccessToken(id, email)
			if err != nil {
				return err
			}
			root.log.Info("Access token issued",
				zap.String("user_id", id.String()),
				zap.Time("expires_at", expiresAt))
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "Account id to embed in the token")
	cmd.Flags().StringVar(&email, "email", "", "Optional email claim")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}
