package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	jwttoken "payoutkyc/internal/jwt_token"
	"payoutkyc/internal/platform/config"
	id "payoutkyc/pkg/domain"
)

// newTokenCmd mints an access token for local testing with the signing key
// the server reads from the environment.
func newTokenCmd() *cobra.Command {
	var (
		user string
		ttl  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			userID := id.NewUserID()
			if user != "" {
				if userID, err = id.ParseUserID(user); err != nil {
					return err
				}
			}
			token, err := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer).
				GenerateAccessToken(userID, ttl)
			if err != nil {
				return fmt.Errorf("signing token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "user ID (random when empty)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
